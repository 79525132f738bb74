package execshell

// CommandEventObserver receives lifecycle notifications for interpreter processes.
type CommandEventObserver interface {
	// CommandStarted is called before the process is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted is called once the process exited or was killed by the watchdog.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports spawn or capture failures that produced no result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// commandEventFanout forwards every event to each observer in order.
type commandEventFanout []CommandEventObserver

func (fanout commandEventFanout) CommandStarted(command ShellCommand) {
	for _, observer := range fanout {
		observer.CommandStarted(command)
	}
}

func (fanout commandEventFanout) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range fanout {
		observer.CommandCompleted(command, result)
	}
}

func (fanout commandEventFanout) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range fanout {
		observer.CommandExecutionFailed(command, failure)
	}
}

func combineObservers(observers []CommandEventObserver) CommandEventObserver {
	activeObservers := make(commandEventFanout, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			activeObservers = append(activeObservers, observer)
		}
	}
	switch len(activeObservers) {
	case 0:
		return noopCommandEventObserver{}
	case 1:
		return activeObservers[0]
	default:
		return activeObservers
	}
}
