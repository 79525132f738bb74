package execshell

import (
	"context"

	"go.uber.org/zap"
)

const (
	logFieldCommandConstant          = "command"
	logFieldArgumentsConstant        = "arguments"
	logFieldWorkingDirectoryConstant = "working_directory"
	logFieldExitCodeConstant         = "exit_code"
	logFieldTimedOutConstant         = "timed_out"
	logFieldDurationConstant         = "duration"
	logFieldOutputBytesConstant      = "stdout_bytes"
	logFieldErrorBytesConstant       = "stderr_bytes"
	logFieldTruncatedConstant        = "stdout_truncated"
)

// ShellExecutor runs commands through a CommandRunner with structured logging.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observer  CommandEventObserver
	formatter CommandMessageFormatter
}

// NewShellExecutor validates its collaborators and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{
		logger:    logger,
		runner:    runner,
		observer:  noopCommandEventObserver{},
		formatter: CommandMessageFormatter{},
	}, nil
}

// WithObservers returns a copy of the executor that reports lifecycle events to observers. Nil
// observers are ignored.
func (executor *ShellExecutor) WithObservers(observers ...CommandEventObserver) *ShellExecutor {
	duplicatedExecutor := *executor
	duplicatedExecutor.observer = combineObservers(observers)
	return &duplicatedExecutor
}

// Execute runs command and returns its result. Non-zero exit codes are not errors; runner failures
// are wrapped in CommandExecutionError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.observer.CommandStarted(command)
	executor.logger.Debug(
		executor.formatter.BuildStartedMessage(command),
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Error(
			executor.formatter.BuildExecutionFailureMessage(command, runError),
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.Error(runError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)

	completionFields := []zap.Field{
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		zap.Bool(logFieldTimedOutConstant, executionResult.TimedOut),
		zap.Duration(logFieldDurationConstant, executionResult.Duration),
		zap.Int(logFieldOutputBytesConstant, len(executionResult.StandardOutput)),
		zap.Int(logFieldErrorBytesConstant, len(executionResult.StandardError)),
		zap.Bool(logFieldTruncatedConstant, executionResult.StandardOutputTruncated),
	}
	completionMessage := executor.formatter.BuildCompletionMessage(command, executionResult)
	switch {
	case executionResult.TimedOut:
		executor.logger.Warn(completionMessage, completionFields...)
	case executionResult.ExitCode != 0:
		executor.logger.Info(completionMessage, completionFields...)
	default:
		executor.logger.Debug(completionMessage, completionFields...)
	}

	return executionResult, nil
}
