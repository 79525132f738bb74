//go:build !unix && !windows

package execshell

import (
	"os"
	"os/exec"
)

func configureProcessGroup(*exec.Cmd) {}

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
