// Command shaderwalk runs shader entry points written as CUE-encoded IR.
package main

import (
	"os"

	"github.com/roach88/shaderwalk/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
