//go:build unix

package execshell

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureProcessGroup places the child in its own process group so the watchdog can kill
// every descendant still holding the output pipes.
func configureProcessGroup(executable *exec.Cmd) {
	executable.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminateProcessTree(executable *exec.Cmd) error {
	if executable.Process == nil {
		return nil
	}
	killError := unix.Kill(-executable.Process.Pid, unix.SIGKILL)
	if killError == nil || errors.Is(killError, unix.ESRCH) {
		return nil
	}
	return executable.Process.Kill()
}

// killedBySupervisor reports whether the process ended on a signal. A process that exited on its
// own before the kill landed was not timed out.
func killedBySupervisor(processState *os.ProcessState) bool {
	if processState == nil {
		return true
	}
	waitStatus, available := processState.Sys().(syscall.WaitStatus)
	return !available || waitStatus.Signaled()
}
