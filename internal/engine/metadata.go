package engine

import (
	"context"
	"strings"
)

const (
	engineNameConstant          = "shell"
	engineDescriptionConstant   = "Shell interpreter"
	languageNameConstant        = "Shell"
	methodCallSeparatorConstant = " "
)

var (
	engineNames      = []string{"shell", "bash", "sh", "Bash", "cmd", "bat", "Cmd", "Bat"}
	engineExtensions = []string{"sh", "bash", "bat"}
	engineMimeTypes  = []string{
		"application/x-sh",
		"application/x-bash",
		"application/x-cmd",
		"application/x-bat",
		"application/bat",
		"application/x-msdos-program",
		"application/textedit",
		"application/octet-stream",
	}
)

// Metadata describes the engine to discovery code.
type Metadata struct {
	EngineName      string
	Engine          string
	EngineVersion   string
	LanguageName    string
	LanguageVersion string
	Names           []string
	Extensions      []string
	MimeTypes       []string
}

// Metadata returns the discovery metadata, querying the shell for its versions.
func (engine *Engine) Metadata(executionContext context.Context) Metadata {
	return Metadata{
		EngineName:      engineNameConstant,
		Engine:          engineDescriptionConstant,
		EngineVersion:   engine.InstalledVersion(executionContext),
		LanguageName:    languageNameConstant,
		LanguageVersion: engine.MajorVersion(executionContext),
		Names:           append([]string(nil), engineNames...),
		Extensions:      append([]string(nil), engineExtensions...),
		MimeTypes:       append([]string(nil), engineMimeTypes...),
	}
}

// MethodCallSyntax renders a method invocation as a shell command: the method followed by its
// arguments, each terminated by a space. The receiver is ignored.
func MethodCallSyntax(receiver string, method string, arguments ...string) string {
	var callBuilder strings.Builder
	callBuilder.WriteString(method)
	callBuilder.WriteString(methodCallSeparatorConstant)
	for _, argument := range arguments {
		callBuilder.WriteString(argument)
		callBuilder.WriteString(methodCallSeparatorConstant)
	}
	return callBuilder.String()
}
