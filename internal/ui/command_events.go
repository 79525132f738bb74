package ui

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/shellengine/internal/execshell"
)

const (
	logFieldExecutableConstant      = "executable"
	logFieldExitCodeConstant        = "exit_code"
	logFieldTimedOutConstant        = "timed_out"
	logFieldDurationConstant        = "duration"
	logFieldOutputTruncatedConstant = "stdout_truncated"
)

// ConsoleCommandEventLogger renders interpreter lifecycle events as human-readable log lines carrying
// the exit status and timing of each run as structured fields.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs an event logger. A nil logger discards every event.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(
		eventLogger.formatter.BuildStartedMessage(command),
		zap.String(logFieldExecutableConstant, string(command.Name)),
	)
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Log(
		completionLevel(result),
		eventLogger.formatter.BuildCompletionMessage(command, result),
		zap.String(logFieldExecutableConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.Bool(logFieldTimedOutConstant, result.TimedOut),
		zap.Duration(logFieldDurationConstant, result.Duration),
		zap.Bool(logFieldOutputTruncatedConstant, result.StandardOutputTruncated),
	)
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(
		eventLogger.formatter.BuildExecutionFailureMessage(command, failure),
		zap.String(logFieldExecutableConstant, string(command.Name)),
	)
}

// completionLevel reports clean exits at info; non-zero exits and watchdog kills at warn.
func completionLevel(result execshell.ExecutionResult) zapcore.Level {
	if result.ExitCode == 0 && !result.TimedOut {
		return zapcore.InfoLevel
	}
	return zapcore.WarnLevel
}
