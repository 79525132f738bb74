package shells

import "path/filepath"

const (
	bashShellNameConstant               = "bash"
	bashExecutableConstant              = "bash"
	bashInlineFlagConstant              = "-c"
	bashInstalledVersionCommandConstant = "echo -n $BASH_VERSION"
	bashMajorVersionCommandConstant     = "echo -n $BASH_VERSINFO"
	bashOutputStatementPrefixConstant   = "echo -n "
	bashProgramHeaderConstant           = "#!/bin/bash\n"
)

// BashShell drives the POSIX bash interpreter.
type BashShell struct{}

// NewBashShell constructs a bash descriptor.
func NewBashShell() BashShell {
	return BashShell{}
}

// Name returns the canonical bash identifier.
func (BashShell) Name() string {
	return bashShellNameConstant
}

// CommandLineForCommand runs command through bash -c.
func (BashShell) CommandLineForCommand(command string) CommandLine {
	return CommandLine{Executable: bashExecutableConstant, Arguments: []string{bashInlineFlagConstant, command}}
}

// CommandLineForFile runs the script file through bash.
func (BashShell) CommandLineForFile(scriptPath string) CommandLine {
	return CommandLine{Executable: bashExecutableConstant, Arguments: []string{absolutePath(scriptPath)}}
}

// InstalledVersionCommand prints $BASH_VERSION without a trailing newline.
func (BashShell) InstalledVersionCommand() string {
	return bashInstalledVersionCommandConstant
}

// MajorVersionCommand prints the first element of $BASH_VERSINFO.
func (BashShell) MajorVersionCommand() string {
	return bashMajorVersionCommandConstant
}

// OutputStatement renders an echo -n statement.
func (BashShell) OutputStatement(value string) string {
	return bashOutputStatementPrefixConstant + value
}

// Program prepends the bash shebang to the newline-terminated statements.
func (BashShell) Program(statements ...string) string {
	return joinStatements(bashProgramHeaderConstant, statements)
}

func absolutePath(scriptPath string) string {
	resolvedPath, resolveError := filepath.Abs(scriptPath)
	if resolveError != nil {
		return scriptPath
	}
	return resolvedPath
}
