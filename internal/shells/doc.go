// Package shells describes the command interpreters the engine can drive.
//
// Each ShellDescriptor turns an inline command or a script file path into a
// CommandLine whose arguments are passed to the interpreter verbatim, and
// exposes the small set of syntax templates (version queries, output
// statements, program assembly) callers need to talk to that interpreter.
package shells
