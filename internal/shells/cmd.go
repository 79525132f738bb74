package shells

const (
	commandInterpreterShellNameConstant      = "cmd"
	commandInterpreterExecutableConstant     = "cmd"
	commandInterpreterRunFlagConstant        = "/c"
	commandInterpreterQuietFlagConstant      = "/q"
	commandInterpreterVersionCommandConstant = "echo|set /p=%CmdExtVersion%"
	commandInterpreterOutputPrefixConstant   = "echo "
)

// CommandInterpreterShell drives the Windows cmd.exe interpreter.
type CommandInterpreterShell struct{}

// NewCommandInterpreterShell constructs a cmd descriptor.
func NewCommandInterpreterShell() CommandInterpreterShell {
	return CommandInterpreterShell{}
}

// Name returns the canonical cmd identifier.
func (CommandInterpreterShell) Name() string {
	return commandInterpreterShellNameConstant
}

// CommandLineForCommand runs command through cmd /c.
func (CommandInterpreterShell) CommandLineForCommand(command string) CommandLine {
	return CommandLine{Executable: commandInterpreterExecutableConstant, Arguments: []string{commandInterpreterRunFlagConstant, command}}
}

// CommandLineForFile runs the batch file quietly through cmd /q /c.
func (CommandInterpreterShell) CommandLineForFile(scriptPath string) CommandLine {
	return CommandLine{
		Executable: commandInterpreterExecutableConstant,
		Arguments:  []string{commandInterpreterQuietFlagConstant, commandInterpreterRunFlagConstant, absolutePath(scriptPath)},
	}
}

// InstalledVersionCommand prints %CmdExtVersion% without a trailing newline.
func (CommandInterpreterShell) InstalledVersionCommand() string {
	return commandInterpreterVersionCommandConstant
}

// MajorVersionCommand matches InstalledVersionCommand; cmd has no separate major version.
func (CommandInterpreterShell) MajorVersionCommand() string {
	return commandInterpreterVersionCommandConstant
}

// OutputStatement renders an echo statement.
func (CommandInterpreterShell) OutputStatement(value string) string {
	return commandInterpreterOutputPrefixConstant + value
}

// Program joins the statements with newlines.
func (CommandInterpreterShell) Program(statements ...string) string {
	return joinStatements("", statements)
}
