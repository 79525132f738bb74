package execshell

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterMessages(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandName("bash"),
		Details: CommandDetails{
			Arguments:        []string{"-c", "echo hello"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	require.Equal(t, `Running bash -c "echo hello" (in /workspace/repo)`, formatter.BuildStartedMessage(command))
	require.Equal(t, `Completed bash -c "echo hello" (in /workspace/repo)`, formatter.BuildCompletionMessage(command, ExecutionResult{}))
	require.Equal(t, `bash -c "echo hello" (in /workspace/repo) failed with exit code 2: boom`, formatter.BuildCompletionMessage(command, ExecutionResult{ExitCode: 2, StandardError: "boom\n"}))
	require.Equal(t, `bash -c "echo hello" (in /workspace/repo) failed: spawn failed`, formatter.BuildExecutionFailureMessage(command, errors.New("spawn failed")))
	require.Equal(t, `bash -c "echo hello" (in /workspace/repo) failed: unknown error`, formatter.BuildExecutionFailureMessage(command, nil))
}

func TestCommandMessageFormatterCompletionVariants(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandName("cmd"), Details: CommandDetails{Arguments: []string{"/c", "dir"}}}

	require.Equal(t, "Completed cmd /c dir", formatter.BuildCompletionMessage(command, ExecutionResult{}))
	require.Equal(t, "cmd /c dir failed with exit code 1", formatter.BuildCompletionMessage(command, ExecutionResult{ExitCode: 1}))
	require.Equal(t, "cmd /c dir timed out after 1.5s and was terminated (exit code -1)", formatter.BuildCompletionMessage(command, ExecutionResult{ExitCode: -1, TimedOut: true, Duration: 1500 * time.Millisecond}))
}

func TestCommandMessageFormatterTruncatesLongScripts(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandName("bash"), Details: CommandDetails{Arguments: []string{"-c", strings.Repeat("x", 500)}}}

	label := formatter.formatCommandLabel(command)
	require.Len(t, label, maximumCommandLabelLengthConstant+len(truncatedLabelSuffixConstant))
	require.True(t, strings.HasSuffix(label, truncatedLabelSuffixConstant))
}

func TestCommandMessageFormatterTruncatesOnRuneBoundaries(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandName("sh"), Details: CommandDetails{Arguments: []string{"-c", strings.Repeat("é", 400)}}}

	label := formatter.formatCommandLabel(command)
	require.True(t, utf8.ValidString(label))
	require.Equal(t, maximumCommandLabelLengthConstant+len(truncatedLabelSuffixConstant), utf8.RuneCountInString(label))
}
