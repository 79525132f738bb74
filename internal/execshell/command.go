package execshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	commandExecutionErrorTemplateConstant = "%s: %v"
	commandFailedErrorTemplateConstant    = "Script failed with exit code %d\nError message:%s"
)

var (
	// ErrLoggerNotConfigured indicates a ShellExecutor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New("shell executor logger not configured")
	// ErrCommandRunnerNotConfigured indicates a ShellExecutor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New("shell executor command runner not configured")
	// ErrProcessSpawn indicates the operating system could not start the child process.
	ErrProcessSpawn = errors.New("unable to start process")
	// ErrStreamCapture indicates the child's output streams could not be read.
	ErrStreamCapture = errors.New("unable to capture process output")
)

// CommandName identifies the executable launched for a command.
type CommandName string

// CommandDetails describes how a command is launched.
type CommandDetails struct {
	Arguments        []string
	WorkingDirectory string
	// Environment holds KEY=VALUE entries; nil inherits the current process environment.
	Environment   []string
	StandardInput io.Reader
}

// ShellCommand pairs an executable with its launch details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput          string
	StandardError           string
	ExitCode                int
	StandardOutputTruncated bool
	// TimedOut reports that the watchdog killed the process; ExitCode then holds whatever the OS reported.
	TimedOut bool
	Duration time.Duration
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandExecutionError reports a failure to run a command at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the failed command and its cause.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, CommandMessageFormatter{}.formatCommandLabel(executionError.Command), executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error includes the exit code and captured standard error.
func (failedError CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, failedError.Result.ExitCode, failedError.Result.StandardError)
}
