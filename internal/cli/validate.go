package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shaderwalk/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <module>",
		Short: "Check a module without running it",
		Long: `Compile a module and check handle ranges, type references,
vector sizes and scalar widths. Reports every problem found.

Exit codes:
  0 - Module is valid
  1 - Validation errors
  2 - Module could not be loaded`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	m, err := loadValidModule(path)
	if err != nil {
		return reportLoadError(f, err)
	}

	f.VerboseLog("Validated %d type(s), %d function(s), %d entry point(s)",
		len(m.Types), len(m.Functions), len(m.EntryPoints))

	if f.JSON() {
		return f.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(f.Writer, "✓ Module is valid")
	return nil
}

// outputValidationErrors writes every validation error.
func outputValidationErrors(f *OutputFormatter, errs []compiler.ValidationError) error {
	if f.JSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    ErrCodeInvalidModule,
				Message: fmt.Sprintf("%d validation error(s)", len(errs)),
			},
		})
	}

	fmt.Fprintf(f.Writer, "✗ Validation failed with %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(f.Writer, "  [%s] %s: %s\n", e.Code, e.Field, e.Message)
	}
	return nil
}
