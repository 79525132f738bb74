package shells_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shellengine/internal/shells"
)

const (
	testInlineCommandConstant   = "echo $string; rm -rf \"$HOME/not here\""
	testScriptFileNameConstant  = "shell_123.sh"
	testOutputValueConstant     = "hello"
	testFirstStatementConstant  = "echo one"
	testSecondStatementConstant = "echo two"
)

func TestShellDescriptorsBuildCommandLines(testInstance *testing.T) {
	scriptDirectory := testInstance.TempDir()
	scriptPath := filepath.Join(scriptDirectory, testScriptFileNameConstant)

	testCases := []struct {
		name                     string
		descriptor               shells.ShellDescriptor
		expectedName             string
		expectedInline           shells.CommandLine
		expectedFile             shells.CommandLine
		expectedOutput           string
		expectedProgram          string
		expectedInstalledCommand string
		expectedMajorCommand     string
	}{
		{
			name:         "bash",
			descriptor:   shells.NewBashShell(),
			expectedName: "bash",
			expectedInline: shells.CommandLine{
				Executable: "bash",
				Arguments:  []string{"-c", testInlineCommandConstant},
			},
			expectedFile: shells.CommandLine{
				Executable: "bash",
				Arguments:  []string{scriptPath},
			},
			expectedOutput:           "echo -n " + testOutputValueConstant,
			expectedProgram:          "#!/bin/bash\necho one\necho two\n",
			expectedInstalledCommand: "echo -n $BASH_VERSION",
			expectedMajorCommand:     "echo -n $BASH_VERSINFO",
		},
		{
			name:         "cmd",
			descriptor:   shells.NewCommandInterpreterShell(),
			expectedName: "cmd",
			expectedInline: shells.CommandLine{
				Executable: "cmd",
				Arguments:  []string{"/c", testInlineCommandConstant},
			},
			expectedFile: shells.CommandLine{
				Executable: "cmd",
				Arguments:  []string{"/q", "/c", scriptPath},
			},
			expectedOutput:           "echo " + testOutputValueConstant,
			expectedProgram:          "echo one\necho two\n",
			expectedInstalledCommand: "echo|set /p=%CmdExtVersion%",
			expectedMajorCommand:     "echo|set /p=%CmdExtVersion%",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedName, testCase.descriptor.Name())
			require.Equal(testInstance, testCase.expectedInline, testCase.descriptor.CommandLineForCommand(testInlineCommandConstant))
			require.Equal(testInstance, testCase.expectedFile, testCase.descriptor.CommandLineForFile(scriptPath))
			require.Equal(testInstance, testCase.expectedOutput, testCase.descriptor.OutputStatement(testOutputValueConstant))
			require.Equal(testInstance, testCase.expectedProgram, testCase.descriptor.Program(testFirstStatementConstant, testSecondStatementConstant))
			require.Equal(testInstance, testCase.expectedInstalledCommand, testCase.descriptor.InstalledVersionCommand())
			require.Equal(testInstance, testCase.expectedMajorCommand, testCase.descriptor.MajorVersionCommand())
		})
	}
}

func TestBashProgramWithoutStatementsKeepsHeader(testInstance *testing.T) {
	require.Equal(testInstance, "#!/bin/bash\n", shells.NewBashShell().Program())
	require.Empty(testInstance, shells.NewCommandInterpreterShell().Program())
}

func TestResolveShellNames(testInstance *testing.T) {
	testCases := []struct {
		name         string
		shellName    string
		expectedName string
		expectError  bool
	}{
		{name: "bash", shellName: "bash", expectedName: "bash"},
		{name: "sh_alias", shellName: "sh", expectedName: "bash"},
		{name: "mixed_case", shellName: " Bash ", expectedName: "bash"},
		{name: "cmd", shellName: "cmd", expectedName: "cmd"},
		{name: "bat_alias", shellName: "Bat", expectedName: "cmd"},
		{name: "unsupported", shellName: "zsh", expectError: true},
		{name: "empty", shellName: "", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			descriptor, resolveError := shells.Resolve(testCase.shellName)
			if testCase.expectError {
				require.ErrorIs(testInstance, resolveError, shells.ErrUnsupportedShell)
				require.Nil(testInstance, descriptor)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedName, descriptor.Name())
		})
	}
}

func TestDefaultForOperatingSystem(testInstance *testing.T) {
	require.Equal(testInstance, "cmd", shells.DefaultForOperatingSystem("windows").Name())
	require.Equal(testInstance, "bash", shells.DefaultForOperatingSystem("linux").Name())
	require.Equal(testInstance, "bash", shells.DefaultForOperatingSystem("darwin").Name())

	descriptor, resolveError := shells.ResolveOrDefault("  ")
	require.NoError(testInstance, resolveError)
	require.NotNil(testInstance, descriptor)
}

func TestCommandLineString(testInstance *testing.T) {
	commandLine := shells.NewBashShell().CommandLineForCommand("echo hi")
	require.Equal(testInstance, "bash -c echo hi", commandLine.String())
	require.Equal(testInstance, []string{"bash", "bat", "cmd", "sh"}, shells.SupportedNames())
}
