// Package execshell launches interpreter processes and captures their output.
//
// OSCommandRunner starts a child process, drains its standard output and
// standard error concurrently into memory, and enforces a wall-clock timeout
// by killing the process group. ShellExecutor layers zap logging and
// lifecycle notifications on top of any CommandRunner.
package execshell
