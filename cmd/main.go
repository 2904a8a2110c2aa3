package main

import (
	"fmt"
	"io"
	"os"

	rerrors "renumber/pkg/errors"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the root command and maps its error to an exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := buildRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if rerrors.IsCode(err, rerrors.CodeInvalidArgument) {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, cmd.UsageString())
	}

	return exitCode(err)
}

func exitCode(err error) int {
	switch rerrors.CodeOf(err) {
	case rerrors.CodeInvalidArgument:
		return 2
	default:
		return 1
	}
}
