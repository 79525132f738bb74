//go:build unix

package execshell

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProcessSupervisorSkipsReapedProcesses(t *testing.T) {
	executable := exec.Command("true")
	require.NoError(t, executable.Run())

	supervisor := &processSupervisor{executable: executable}
	require.NoError(t, supervisor.markExited())

	supervisor.terminate(context.DeadlineExceeded)
	require.NoError(t, supervisor.markExited())
}

func TestKilledBySupervisorDistinguishesSignals(t *testing.T) {
	exitedExecutable := exec.Command("true")
	require.NoError(t, exitedExecutable.Run())
	require.False(t, killedBySupervisor(exitedExecutable.ProcessState))

	sleepingExecutable := exec.Command("sleep", "30")
	configureProcessGroup(sleepingExecutable)
	require.NoError(t, sleepingExecutable.Start())

	supervisor := &processSupervisor{executable: sleepingExecutable}
	supervisor.terminate(context.DeadlineExceeded)
	_ = sleepingExecutable.Wait()

	require.ErrorIs(t, supervisor.markExited(), context.DeadlineExceeded)
	require.True(t, killedBySupervisor(sleepingExecutable.ProcessState))
}

func TestAwaitOutputDrainClosesReadersAfterDeadline(t *testing.T) {
	outputPipes, pipeError := openOutputPipes()
	require.NoError(t, pipeError)
	defer outputPipes.closeWriters()

	pumpsFinished := make(chan struct{})
	go func() {
		defer close(pumpsFinished)
		buffer := make([]byte, 16)
		_, _ = outputPipes.standardOutputReader.Read(buffer)
	}()

	expiredContext, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	startTime := time.Now()
	require.True(t, awaitOutputDrain(expiredContext, pumpsFinished, outputPipes))
	require.Less(t, time.Since(startTime), 3*time.Second)
}
