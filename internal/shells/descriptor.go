package shells

import "strings"

const (
	statementTerminatorConstant  = "\n"
	commandLineSeparatorConstant = " "
)

// CommandLine is an interpreter invocation with its arguments kept as separate argv elements.
type CommandLine struct {
	Executable string
	Arguments  []string
}

// String renders the command line for diagnostics only; it is never handed to a shell.
func (commandLine CommandLine) String() string {
	commandParts := append([]string{commandLine.Executable}, commandLine.Arguments...)
	return strings.Join(commandParts, commandLineSeparatorConstant)
}

// ShellDescriptor captures the syntax of a supported command interpreter.
type ShellDescriptor interface {
	// Name reports the canonical interpreter name.
	Name() string
	// CommandLineForCommand builds an invocation that runs command inline.
	CommandLineForCommand(command string) CommandLine
	// CommandLineForFile builds an invocation that runs the script stored at scriptPath.
	CommandLineForFile(scriptPath string) CommandLine
	// InstalledVersionCommand returns a command printing the full interpreter version.
	InstalledVersionCommand() string
	// MajorVersionCommand returns a command printing the major interpreter version.
	MajorVersionCommand() string
	// OutputStatement renders a statement printing value.
	OutputStatement(value string) string
	// Program assembles statements into a runnable script.
	Program(statements ...string) string
}

func joinStatements(header string, statements []string) string {
	var programBuilder strings.Builder
	programBuilder.WriteString(header)
	for _, statement := range statements {
		programBuilder.WriteString(statement)
		programBuilder.WriteString(statementTerminatorConstant)
	}
	return programBuilder.String()
}
