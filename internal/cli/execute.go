package cli

import (
	"errors"
	"fmt"
	"io"
)

// Execute runs the CLI with args and returns the process exit code.
// Errors that are not ExitErrors come from cobra itself (unknown flag,
// wrong argument count) and count as command errors.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}
