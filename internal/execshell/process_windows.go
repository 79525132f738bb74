//go:build windows

package execshell

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func configureProcessGroup(executable *exec.Cmd) {
	executable.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

func terminateProcessTree(executable *exec.Cmd) error {
	if executable.Process == nil {
		return nil
	}
	return executable.Process.Kill()
}

// killedBySupervisor cannot tell a kill from a normal exit here, so a recorded kill always counts.
func killedBySupervisor(*os.ProcessState) bool {
	return true
}
