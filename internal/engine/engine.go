package engine

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/shellengine/internal/execshell"
)

// Engine evaluates scripts through a Handler and reports non-zero exits as failures.
type Engine struct {
	handler  *Handler
	executor CommandExecutor
	logger   *zap.Logger
}

// NewEngine constructs an Engine around a new Handler built from dependencies.
func NewEngine(dependencies Dependencies, options Options) (*Engine, error) {
	handler, handlerError := NewHandler(dependencies, options)
	if handlerError != nil {
		return nil, handlerError
	}
	return &Engine{handler: handler, executor: dependencies.Executor, logger: dependencies.Logger}, nil
}

// Evaluate runs script and returns its exit code. A non-zero exit code is returned together with a
// CommandFailedError carrying the captured standard error.
func (engine *Engine) Evaluate(executionContext context.Context, script string, invocation Invocation) (int, error) {
	shellCommand, executionResult, runError := engine.handler.run(executionContext, script, invocation)
	if runError != nil {
		return executionResult.ExitCode, runError
	}
	if executionResult.ExitCode != 0 {
		return executionResult.ExitCode, execshell.CommandFailedError{Command: shellCommand, Result: executionResult}
	}
	return executionResult.ExitCode, nil
}

// EvaluateReader reads the whole script from scriptReader and evaluates it.
func (engine *Engine) EvaluateReader(executionContext context.Context, scriptReader io.Reader, invocation Invocation) (int, error) {
	scriptContent, readError := io.ReadAll(scriptReader)
	if readError != nil {
		return 0, fmt.Errorf(scriptReadErrorTemplateConstant, ErrScriptRead, readError)
	}
	return engine.Evaluate(executionContext, string(scriptContent), invocation)
}

// InstalledVersion reports the full version of the shell, or a fixed placeholder when it cannot be queried.
func (engine *Engine) InstalledVersion(executionContext context.Context) string {
	return engine.queryVersion(executionContext, engine.handler.Shell().InstalledVersionCommand())
}

// MajorVersion reports the major version of the shell, or a fixed placeholder when it cannot be queried.
func (engine *Engine) MajorVersion(executionContext context.Context) string {
	return engine.queryVersion(executionContext, engine.handler.Shell().MajorVersionCommand())
}

// OutputStatement renders a statement printing value in the shell's syntax.
func (engine *Engine) OutputStatement(value string) string {
	return engine.handler.Shell().OutputStatement(value)
}

// Program assembles statements into a runnable script in the shell's syntax.
func (engine *Engine) Program(statements ...string) string {
	return engine.handler.Shell().Program(statements...)
}

// Version queries run with the inherited environment only and ignore the exit code.
func (engine *Engine) queryVersion(executionContext context.Context, versionCommand string) string {
	commandLine := engine.handler.Shell().CommandLineForCommand(versionCommand)
	executionResult, executionError := engine.executor.Execute(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandName(commandLine.Executable),
		Details: execshell.CommandDetails{Arguments: commandLine.Arguments},
	})
	if executionError != nil {
		engine.logger.Debug(versionQueryFailedMessageConstant, zap.String(logFieldVersionCommandConstant, versionCommand), zap.Error(executionError))
		return versionUnavailableMessageConstant
	}
	return executionResult.StandardOutput
}
