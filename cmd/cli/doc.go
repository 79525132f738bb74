// Package cli constructs the shellengine command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives around the script engine. The root command runs a command line
// through a named shell and mirrors the child's exit code.
package cli
