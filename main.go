package main

import (
	"fmt"
	"os"

	"github.com/temirov/shellengine/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main runs the shellengine command-line application and exits with the child's exit code.
func main() {
	exitCode, executionError := cli.Execute()
	if executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(exitCode)
}
