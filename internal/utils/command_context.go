package utils

import (
	"context"
	"strings"
)

// commandContextKey namespaces values the CLI and engine attach to execution contexts.
type commandContextKey struct {
	name string
}

var (
	configurationFilePathContextKey = commandContextKey{name: "configurationFilePath"}
	invocationIdentifierContextKey  = commandContextKey{name: "invocationIdentifier"}
)

// CommandContextAccessor reads and writes the per-invocation values carried by a context:
// the configuration file chosen on the command line and the identifier tying together
// every log entry of one script evaluation.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath records the explicit configuration file path.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return attachText(parentContext, configurationFilePathContextKey, configurationFilePath)
}

// ConfigurationFilePath returns the recorded configuration file path.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return lookupText(executionContext, configurationFilePathContextKey)
}

// WithInvocationIdentifier records the invocation identifier. Blank identifiers are not stored.
func (accessor CommandContextAccessor) WithInvocationIdentifier(parentContext context.Context, invocationIdentifier string) context.Context {
	return attachText(parentContext, invocationIdentifierContextKey, strings.TrimSpace(invocationIdentifier))
}

// InvocationIdentifier returns the recorded invocation identifier.
func (accessor CommandContextAccessor) InvocationIdentifier(executionContext context.Context) (string, bool) {
	return lookupText(executionContext, invocationIdentifierContextKey)
}

func attachText(parentContext context.Context, key commandContextKey, text string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	if len(text) == 0 {
		return parentContext
	}
	return context.WithValue(parentContext, key, text)
}

func lookupText(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	text, available := executionContext.Value(key).(string)
	return text, available && len(text) > 0
}
