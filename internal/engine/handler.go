package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/temirov/shellengine/internal/bindings"
	"github.com/temirov/shellengine/internal/correlation"
	"github.com/temirov/shellengine/internal/execshell"
	"github.com/temirov/shellengine/internal/shells"
	"github.com/temirov/shellengine/internal/utils"
)

const (
	// LanguageBindingKey names the binding whose value, when it starts with a dot, selects file dispatch
	// with that value as the script file extension.
	LanguageBindingKey = "shell_language"
	// CommandCharsetBindingKey names the binding holding the charset of the temporary script file.
	CommandCharsetBindingKey = "shell_charset_command"

	fileExtensionMarkerConstant            = "."
	standardOutputSinkLabelConstant        = "stdout"
	standardErrorSinkLabelConstant         = "stderr"
	outputForwardingErrorTemplateConstant  = "%w: %s: %w"
	dispatchModeInlineConstant             = "inline"
	dispatchModeFileConstant               = "file"
	logFieldInvocationConstant             = "invocation_id"
	logFieldShellConstant                  = "shell"
	logFieldDispatchModeConstant           = "dispatch_mode"
	logFieldScriptFileConstant             = "script_file"
	logFieldSkippedBindingsConstant        = "skipped_bindings"
	logFieldCorrelationKeysConstant        = "correlation_keys"
	dispatchMessageConstant                = "dispatching shell command"
	skippedBindingsMessageConstant         = "bindings skipped because their names are not valid environment variable names"
	publishedOutputMessageConstant         = "published standard output for correlation keys"
	scriptFileRemovalFailedMessageConstant = "failed to remove temporary script file"
	loggerMissingMessageConstant           = "engine logger not configured"
	shellMissingMessageConstant            = "engine shell descriptor not configured"
	executorMissingMessageConstant         = "engine command executor not configured"
	outputStoreMissingMessageConstant      = "engine output store not configured"
	outputForwardingMessageConstant        = "unable to forward command output"
	scriptReadErrorTemplateConstant        = "%w: %w"
	scriptReadMessageConstant              = "unable to read script"
	versionUnavailableMessageConstant      = "Could not determine version"
	versionQueryFailedMessageConstant      = "version query failed"
	logFieldVersionCommandConstant         = "version_command"
	correlationKeysLogSeparatorConstant    = ","
)

var (
	// ErrLoggerNotConfigured indicates the logger dependency was missing.
	ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)
	// ErrShellNotConfigured indicates the shell descriptor dependency was missing.
	ErrShellNotConfigured = errors.New(shellMissingMessageConstant)
	// ErrExecutorNotConfigured indicates the command executor dependency was missing.
	ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)
	// ErrOutputStoreNotConfigured indicates the correlation output store dependency was missing.
	ErrOutputStoreNotConfigured = errors.New(outputStoreMissingMessageConstant)
	// ErrOutputForwarding indicates captured output could not be written to a caller sink.
	ErrOutputForwarding = errors.New(outputForwardingMessageConstant)
	// ErrScriptRead indicates a script reader failed.
	ErrScriptRead = errors.New(scriptReadMessageConstant)
)

// CommandExecutor runs a prepared shell command.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// EnvironmentProvider returns the inherited process environment as KEY=VALUE entries.
type EnvironmentProvider func() []string

// Dependencies enumerates collaborators required by Handler and Engine.
type Dependencies struct {
	Logger      *zap.Logger
	Shell       shells.ShellDescriptor
	Executor    CommandExecutor
	OutputStore correlation.OutputStore
	// Environment defaults to os.Environ.
	Environment EnvironmentProvider
}

// Options tunes a Handler.
type Options struct {
	// PublishLimit caps the characters published per correlation key; zero or less publishes everything.
	PublishLimit int
}

// Invocation carries the per-call inputs supplied by a caller.
type Invocation struct {
	Bindings    bindings.Bindings
	OutputSink  io.Writer
	ErrorSink   io.Writer
	InputSource io.Reader
}

// Handler runs one shell command per call.
type Handler struct {
	logger          *zap.Logger
	shell           shells.ShellDescriptor
	executor        CommandExecutor
	outputStore     correlation.OutputStore
	environment     EnvironmentProvider
	publishLimit    int
	contextAccessor utils.CommandContextAccessor
}

// NewHandler validates dependencies and constructs a Handler.
func NewHandler(dependencies Dependencies, options Options) (*Handler, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.Shell == nil {
		return nil, ErrShellNotConfigured
	}
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if dependencies.OutputStore == nil {
		return nil, ErrOutputStoreNotConfigured
	}
	environment := dependencies.Environment
	if environment == nil {
		environment = os.Environ
	}
	return &Handler{
		logger:          dependencies.Logger,
		shell:           dependencies.Shell,
		executor:        dependencies.Executor,
		outputStore:     dependencies.OutputStore,
		environment:     environment,
		publishLimit:    options.PublishLimit,
		contextAccessor: utils.NewCommandContextAccessor(),
	}, nil
}

// Shell reports the descriptor the handler dispatches through.
func (handler *Handler) Shell() shells.ShellDescriptor {
	return handler.shell
}

// Run executes command with the invocation's bindings and forwards the captured output to its sinks.
// A temporary script file created for file dispatch is removed before Run returns, whatever the outcome.
func (handler *Handler) Run(executionContext context.Context, command string, invocation Invocation) (execshell.ExecutionResult, error) {
	_, executionResult, runError := handler.run(executionContext, command, invocation)
	return executionResult, runError
}

func (handler *Handler) run(executionContext context.Context, command string, invocation Invocation) (execshell.ShellCommand, execshell.ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}
	invocationIdentifier, identifierAvailable := handler.contextAccessor.InvocationIdentifier(executionContext)
	if !identifierAvailable {
		invocationIdentifier = uuid.NewString()
		executionContext = handler.contextAccessor.WithInvocationIdentifier(executionContext, invocationIdentifier)
	}
	invocationLogger := handler.logger.With(
		zap.String(logFieldInvocationConstant, invocationIdentifier),
		zap.String(logFieldShellConstant, handler.shell.Name()),
	)

	commandLine, scriptFilePath, buildError := handler.buildCommandLine(command, invocation.Bindings)
	if buildError != nil {
		return execshell.ShellCommand{}, execshell.ExecutionResult{}, buildError
	}
	if len(scriptFilePath) > 0 {
		defer handler.removeScriptFile(invocationLogger, scriptFilePath)
		invocationLogger.Debug(dispatchMessageConstant,
			zap.String(logFieldDispatchModeConstant, dispatchModeFileConstant),
			zap.String(logFieldScriptFileConstant, scriptFilePath),
		)
	} else {
		invocationLogger.Debug(dispatchMessageConstant, zap.String(logFieldDispatchModeConstant, dispatchModeInlineConstant))
	}

	flattenedBindings, skippedBindings := bindings.Flatten(invocation.Bindings)
	if len(skippedBindings) > 0 {
		invocationLogger.Warn(skippedBindingsMessageConstant, zap.Strings(logFieldSkippedBindingsConstant, skippedBindings))
	}
	environment := bindings.MergeEnvironment(handler.environment(), flattenedBindings)

	shellCommand := execshell.ShellCommand{
		Name: execshell.CommandName(commandLine.Executable),
		Details: execshell.CommandDetails{
			Arguments:     commandLine.Arguments,
			Environment:   environment.Pairs(),
			StandardInput: invocation.InputSource,
		},
	}

	executionResult, executionError := handler.executor.Execute(executionContext, shellCommand)
	if executionError != nil {
		return shellCommand, execshell.ExecutionResult{}, executionError
	}

	if forwardError := forwardOutput(invocation, executionResult); forwardError != nil {
		return shellCommand, executionResult, forwardError
	}

	handler.publishCorrelatedOutput(invocationLogger, invocation.Bindings, executionResult.StandardOutput)

	return shellCommand, executionResult, nil
}

func (handler *Handler) buildCommandLine(command string, invocationBindings bindings.Bindings) (shells.CommandLine, string, error) {
	extension, fileDispatch := scriptFileExtension(invocationBindings)
	if !fileDispatch {
		return handler.shell.CommandLineForCommand(command), "", nil
	}

	scriptFilePath, writeError := writeScriptFile(command, extension, bindingText(invocationBindings, CommandCharsetBindingKey))
	if writeError != nil {
		return shells.CommandLine{}, "", writeError
	}
	return handler.shell.CommandLineForFile(scriptFilePath), scriptFilePath, nil
}

func (handler *Handler) removeScriptFile(logger *zap.Logger, scriptFilePath string) {
	removeError := os.Remove(scriptFilePath)
	if removeError != nil && !errors.Is(removeError, os.ErrNotExist) {
		logger.Warn(scriptFileRemovalFailedMessageConstant, zap.String(logFieldScriptFileConstant, scriptFilePath), zap.Error(removeError))
	}
}

func (handler *Handler) publishCorrelatedOutput(logger *zap.Logger, invocationBindings bindings.Bindings, standardOutput string) {
	correlationKeys := make([]string, 0)
	for bindingName := range invocationBindings {
		if correlation.IsMarker(bindingName) {
			correlationKeys = append(correlationKeys, bindingName)
		}
	}
	if len(correlationKeys) == 0 {
		return
	}
	sort.Strings(correlationKeys)

	publishedOutput := correlation.Truncate(standardOutput, handler.publishLimit)
	for _, correlationKey := range correlationKeys {
		handler.outputStore.Publish(correlationKey, publishedOutput)
	}
	logger.Debug(publishedOutputMessageConstant, zap.String(logFieldCorrelationKeysConstant, strings.Join(correlationKeys, correlationKeysLogSeparatorConstant)))
}

func forwardOutput(invocation Invocation, executionResult execshell.ExecutionResult) error {
	if writeError := writeToSink(invocation.OutputSink, executionResult.StandardOutput); writeError != nil {
		return fmt.Errorf(outputForwardingErrorTemplateConstant, ErrOutputForwarding, standardOutputSinkLabelConstant, writeError)
	}
	if writeError := writeToSink(invocation.ErrorSink, executionResult.StandardError); writeError != nil {
		return fmt.Errorf(outputForwardingErrorTemplateConstant, ErrOutputForwarding, standardErrorSinkLabelConstant, writeError)
	}
	return nil
}

func writeToSink(sink io.Writer, text string) error {
	if sink == nil || len(text) == 0 {
		return nil
	}
	_, writeError := io.WriteString(sink, text)
	return writeError
}

// scriptFileExtension reports the extension requested through the language binding, if any.
func scriptFileExtension(invocationBindings bindings.Bindings) (string, bool) {
	language := bindingText(invocationBindings, LanguageBindingKey)
	if !strings.HasPrefix(language, fileExtensionMarkerConstant) {
		return "", false
	}
	return language, true
}

func bindingText(invocationBindings bindings.Bindings, bindingName string) string {
	bindingValue, present := invocationBindings[bindingName]
	if !present || bindingValue == nil {
		return ""
	}
	return cast.ToString(bindingValue)
}
