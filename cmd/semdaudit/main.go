package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command tree and maps the outcome to a process exit code.
// An interrupted run exits 1 without printing anything.
func run(args []string, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "semdaudit: %v\n", err)
		}
		return 1
	}
	return 0
}
