// Package engine runs shell scripts on behalf of callers that supply bindings and output sinks.
//
// Handler orchestrates a single invocation: it chooses inline or file dispatch, turns bindings into
// environment variables, executes the shell, forwards captured output, and publishes a bounded copy
// of standard output for correlation keys. Engine layers the scripting surface on top of Handler:
// exit code evaluation, reader input, version queries, and factory metadata.
package engine
