package execshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"github.com/temirov/shellengine/internal/charset"
)

// DefaultTimeout bounds a single process run when no timeout is configured.
const DefaultTimeout = 7200000 * time.Millisecond

const (
	wrappedErrorTemplateConstant      = "%w: %w"
	standardOutputStreamLabelConstant = "stdout"
	standardErrorStreamLabelConstant  = "stderr"
	streamPumpErrorTemplateConstant   = "%w: %s: %w"
	terminationGracePeriodConstant    = 5 * time.Second
	outputDrainGracePeriodConstant    = 500 * time.Millisecond
	killedProcessExitCodeConstant     = -1
)

// OSCommandRunnerConfiguration tunes an OSCommandRunner. Zero values select defaults.
type OSCommandRunnerConfiguration struct {
	Timeout time.Duration
	// OutputEncoding decodes captured bytes; nil means the native encoding.
	OutputEncoding encoding.Encoding
	// StandardOutputLimit caps captured standard output in bytes; zero or less captures everything.
	StandardOutputLimit int
}

// OSCommandRunner executes commands as operating system processes.
type OSCommandRunner struct {
	timeout             time.Duration
	outputEncoding      encoding.Encoding
	standardOutputLimit int
}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner(configuration OSCommandRunnerConfiguration) *OSCommandRunner {
	timeout := configuration.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	outputEncoding := configuration.OutputEncoding
	if outputEncoding == nil {
		outputEncoding = charset.Native
	}
	return &OSCommandRunner{
		timeout:             timeout,
		outputEncoding:      outputEncoding,
		standardOutputLimit: configuration.StandardOutputLimit,
	}
}

// Timeout reports the watchdog duration applied to each run.
func (runner *OSCommandRunner) Timeout() time.Duration {
	return runner.timeout
}

// Run starts the command, drains both output streams, and waits for exit or timeout.
// Non-zero exit codes and watchdog kills are reported through the result, not as errors.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	executable := exec.Command(string(command.Name), command.Details.Arguments...)
	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}
	if command.Details.Environment != nil {
		executable.Env = append([]string{}, command.Details.Environment...)
	}
	if command.Details.StandardInput != nil {
		executable.Stdin = command.Details.StandardInput
		executable.WaitDelay = terminationGracePeriodConstant
	}
	configureProcessGroup(executable)

	outputPipes, pipeError := openOutputPipes()
	if pipeError != nil {
		return ExecutionResult{}, fmt.Errorf(wrappedErrorTemplateConstant, ErrStreamCapture, pipeError)
	}
	defer outputPipes.closeReaders()
	executable.Stdout = outputPipes.standardOutputWriter
	executable.Stderr = outputPipes.standardErrorWriter

	startTime := time.Now()
	startError := executable.Start()
	outputPipes.closeWriters()
	if startError != nil {
		return ExecutionResult{}, fmt.Errorf(wrappedErrorTemplateConstant, ErrProcessSpawn, startError)
	}

	watchdogContext, cancelWatchdog := context.WithTimeout(executionContext, runner.timeout)
	defer cancelWatchdog()

	supervisor := &processSupervisor{executable: executable}
	watchdogFinished := make(chan struct{})
	go func() {
		defer close(watchdogFinished)
		<-watchdogContext.Done()
		supervisor.terminate(watchdogContext.Err())
	}()

	standardOutputCapture := newCaptureBuffer(runner.standardOutputLimit)
	standardErrorCapture := newCaptureBuffer(0)

	var pumpGroup errgroup.Group
	pumpGroup.Go(func() error {
		return pumpStream(standardOutputStreamLabelConstant, standardOutputCapture, outputPipes.standardOutputReader)
	})
	pumpGroup.Go(func() error {
		return pumpStream(standardErrorStreamLabelConstant, standardErrorCapture, outputPipes.standardErrorReader)
	})
	var pumpError error
	pumpsFinished := make(chan struct{})
	go func() {
		defer close(pumpsFinished)
		pumpError = pumpGroup.Wait()
	}()

	waitError := executable.Wait()
	duration := time.Since(startTime)
	terminationCause := supervisor.markExited()

	// Descendants outside the process group can hold the pipes open; reading stops once the
	// deadline and a short grace period have passed.
	readersClosed := awaitOutputDrain(watchdogContext, pumpsFinished, outputPipes)
	cancelWatchdog()
	<-watchdogFinished

	if terminationCause != nil && !killedBySupervisor(executable.ProcessState) {
		terminationCause = nil
	}
	if terminationCause != nil && !errors.Is(terminationCause, context.DeadlineExceeded) {
		return ExecutionResult{}, terminationCause
	}
	if pumpError != nil && !readersClosed {
		return ExecutionResult{}, pumpError
	}

	exitCode := 0
	if waitError != nil {
		exitError := &exec.ExitError{}
		switch {
		case errors.As(waitError, &exitError):
			exitCode = exitError.ExitCode()
		case errors.Is(waitError, exec.ErrWaitDelay) && executable.ProcessState != nil:
			exitCode = executable.ProcessState.ExitCode()
		case terminationCause != nil:
			exitCode = killedProcessExitCodeConstant
		default:
			return ExecutionResult{}, fmt.Errorf(wrappedErrorTemplateConstant, ErrStreamCapture, waitError)
		}
	}

	standardOutput, standardOutputDecodeError := charset.Decode(runner.outputEncoding, standardOutputCapture.Bytes())
	if standardOutputDecodeError != nil {
		return ExecutionResult{}, fmt.Errorf(wrappedErrorTemplateConstant, ErrStreamCapture, standardOutputDecodeError)
	}
	standardError, standardErrorDecodeError := charset.Decode(runner.outputEncoding, standardErrorCapture.Bytes())
	if standardErrorDecodeError != nil {
		return ExecutionResult{}, fmt.Errorf(wrappedErrorTemplateConstant, ErrStreamCapture, standardErrorDecodeError)
	}

	return ExecutionResult{
		StandardOutput:          standardOutput,
		StandardError:           standardError,
		ExitCode:                exitCode,
		StandardOutputTruncated: standardOutputCapture.Truncated(),
		TimedOut:                terminationCause != nil,
		Duration:                duration,
	}, nil
}

func pumpStream(streamLabel string, destination io.Writer, source io.Reader) error {
	if _, copyError := io.Copy(destination, source); copyError != nil {
		return fmt.Errorf(streamPumpErrorTemplateConstant, ErrStreamCapture, streamLabel, copyError)
	}
	return nil
}

// awaitOutputDrain waits for both pumps. Once deadlineContext is done it allows the pumps
// outputDrainGracePeriodConstant more, then closes the read ends and reports that it did.
func awaitOutputDrain(deadlineContext context.Context, pumpsFinished <-chan struct{}, outputPipes *outputPipeSet) bool {
	select {
	case <-pumpsFinished:
		return false
	case <-deadlineContext.Done():
	}

	graceTimer := time.NewTimer(outputDrainGracePeriodConstant)
	defer graceTimer.Stop()
	select {
	case <-pumpsFinished:
		return false
	case <-graceTimer.C:
		outputPipes.closeReaders()
		<-pumpsFinished
		return true
	}
}

// outputPipeSet holds the stdout and stderr pipes. The runner owns the read ends so it can
// close them when a detached descendant keeps the write ends open.
type outputPipeSet struct {
	standardOutputReader *os.File
	standardOutputWriter *os.File
	standardErrorReader  *os.File
	standardErrorWriter  *os.File
	readersOnce          sync.Once
}

func openOutputPipes() (*outputPipeSet, error) {
	standardOutputReader, standardOutputWriter, standardOutputError := os.Pipe()
	if standardOutputError != nil {
		return nil, standardOutputError
	}
	standardErrorReader, standardErrorWriter, standardErrorError := os.Pipe()
	if standardErrorError != nil {
		_ = standardOutputReader.Close()
		_ = standardOutputWriter.Close()
		return nil, standardErrorError
	}
	return &outputPipeSet{
		standardOutputReader: standardOutputReader,
		standardOutputWriter: standardOutputWriter,
		standardErrorReader:  standardErrorReader,
		standardErrorWriter:  standardErrorWriter,
	}, nil
}

// closeWriters releases the parent's copies of the write ends after the child inherited them.
func (outputPipes *outputPipeSet) closeWriters() {
	_ = outputPipes.standardOutputWriter.Close()
	_ = outputPipes.standardErrorWriter.Close()
}

func (outputPipes *outputPipeSet) closeReaders() {
	outputPipes.readersOnce.Do(func() {
		_ = outputPipes.standardOutputReader.Close()
		_ = outputPipes.standardErrorReader.Close()
	})
}

// processSupervisor serializes the watchdog kill against process exit. Once the process has
// been reaped no signal is sent, since its process group id may already belong to another process.
type processSupervisor struct {
	mutex            sync.Mutex
	executable       *exec.Cmd
	exited           bool
	terminationCause error
}

func (supervisor *processSupervisor) terminate(cause error) {
	supervisor.mutex.Lock()
	defer supervisor.mutex.Unlock()
	if supervisor.exited || supervisor.terminationCause != nil {
		return
	}
	supervisor.terminationCause = cause
	_ = terminateProcessTree(supervisor.executable)
}

// markExited records that Wait returned and reports the cause of a kill issued before that.
func (supervisor *processSupervisor) markExited() error {
	supervisor.mutex.Lock()
	defer supervisor.mutex.Unlock()
	supervisor.exited = true
	return supervisor.terminationCause
}
