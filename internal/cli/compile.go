package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/shaderwalk/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult summarises a compiled module.
type CompilationResult struct {
	ModuleHash  string          `json:"module_hash"`
	Types       int             `json:"types"`
	Functions   int             `json:"functions"`
	EntryPoints []string        `json:"entry_points"`
	Output      string          `json:"output,omitempty"`
	IR          json.RawMessage `json:"ir,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <module>",
		Short: "Compile a CUE module to canonical IR",
		Long: `Compile a CUE module, validate it and emit its canonical JSON IR.

The module hash printed here is the one recorded with every run and checked
by replay.

Examples:
  shaderwalk compile shader.cue
  shaderwalk compile ./shader -o shader.ir.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical IR to this file")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	m, err := loadValidModule(path)
	if err != nil {
		return reportLoadError(f, err)
	}

	data, err := ir.MarshalCanonical(m.Canonical())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode module", err)
	}
	hash, err := ir.ModuleHash(m)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to hash module", err)
	}

	result := CompilationResult{
		ModuleHash:  hash,
		Types:       len(m.Types),
		Functions:   len(m.Functions),
		EntryPoints: make([]string, len(m.EntryPoints)),
	}
	for i, ep := range m.EntryPoints {
		result.EntryPoints[i] = fmt.Sprintf("%s (%s)", ep.Name, ep.Stage)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			if ferr := f.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		result.Output = opts.Output
		f.VerboseLog("Wrote %d bytes to %s", len(data), opts.Output)
	} else {
		result.IR = data
	}

	if f.JSON() {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "✓ Compiled %d type(s), %d function(s), %d entry point(s)\n",
		result.Types, result.Functions, len(result.EntryPoints))
	for _, ep := range result.EntryPoints {
		fmt.Fprintf(f.Writer, "  - %s\n", ep)
	}
	fmt.Fprintf(f.Writer, "Module hash: %s\n", hash)
	if opts.Output != "" {
		fmt.Fprintf(f.Writer, "Output: %s\n", opts.Output)
	} else {
		fmt.Fprintln(f.Writer, string(data))
	}
	return nil
}
