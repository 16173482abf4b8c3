package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/shaderwalk/internal/interp"
	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/store"
	"github.com/roach88/shaderwalk/internal/value"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Stage    string
	Args     []string
	Database string
	Legacy   bool

	// IDGenerator overrides run ID generation (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// RunOutput is the JSON payload of a run.
type RunOutput struct {
	RunID      string  `json:"run_id,omitempty"`
	Seq        int64   `json:"seq,omitempty"`
	EntryPoint string  `json:"entry_point"`
	Stage      string  `json:"stage"`
	Result     *string `json:"result,omitempty"`
	Type       string  `json:"type,omitempty"`
	Void       bool    `json:"void,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <module>",
		Short: "Run a module's entry point",
		Long: `Run the entry point declared for --stage.

Arguments are read one line each, in declaration order: from --arg flags
when given, otherwise by prompting on stdin. Vectors are comma-separated
("1, 2, 3"); booleans are true/false.

With --db the run is appended to a SQLite run log for history and replay.

Exit codes:
  0 - Entry point finished
  1 - Runtime error or invalid module
  2 - Command error (bad stage, missing module, database error)

Examples:
  shaderwalk run shader.cue --stage vertex --arg "1, 2, 3"
  shaderwalk run ./shader --stage fragment --db runs.db -vv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModule(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Stage, "stage", "vertex", "pipeline stage (vertex|fragment|compute)")
	cmd.Flags().StringArrayVar(&opts.Args, "arg", nil, "argument line (repeat once per argument)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "append the run to this SQLite run log")
	cmd.Flags().BoolVar(&opts.Legacy, "legacy-sequencing", false, "yield the last statement's value instead of stopping at the first return")

	return cmd
}

func runModule(opts *RunOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.newLogger(cmd.ErrOrStderr())

	stage, err := ir.ParseShaderStage(opts.Stage)
	if err != nil {
		if ferr := f.Error(ErrCodeGeneric, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "invalid stage", err)
	}

	m, err := loadValidModule(path)
	if err != nil {
		return reportLoadError(f, err)
	}

	var src interp.ValueSource
	if cmd.Flags().Changed("arg") {
		src = interp.NewStaticSource(opts.Args...)
	} else {
		// Prompts go to stderr in JSON mode so stdout stays parseable.
		var prompt io.Writer = cmd.OutOrStdout()
		if f.JSON() {
			prompt = cmd.ErrOrStderr()
		}
		src = interp.NewPromptSource(cmd.InOrStdin(), prompt)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := interp.SlogObserver{Logger: logger, Verbosity: opts.Verbose}
	ex, err := execute(ctx, m, stage, src, opts.Legacy, obs)
	if err != nil {
		return WrapExitError(ExitFailure, "run interrupted", err)
	}

	out := RunOutput{EntryPoint: ex.EntryPoint, Stage: stage.String()}
	if opts.Database != "" {
		id, seq, err := recordRun(ctx, opts, path, m, ex)
		if err != nil {
			if ferr := f.Error(ErrCodeStore, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		out.RunID, out.Seq = id, seq
		logger.Info("run recorded", "id", id, "seq", seq, "db", opts.Database)
	}

	if ex.Err != nil {
		details := map[string]any{"stage": out.Stage}
		if out.RunID != "" {
			details["run_id"] = out.RunID
		}
		if ferr := f.Error(ex.Code(), ex.Err.Error(), details); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "run failed", ex.Err)
	}

	if ex.Value == nil {
		out.Void = true
		f.VerboseLog("%s returned no value", ex.EntryPoint)
	} else {
		text, err := ex.Value.Render()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render result", err)
		}
		out.Result = &text
		out.Type = value.TypeName(ex.Value.Type())
	}

	if f.JSON() {
		return f.Success(out)
	}
	if out.Result != nil {
		fmt.Fprintln(f.Writer, *out.Result)
	}
	return nil
}

// recordRun appends ex to the run log and returns its ID and seq.
func recordRun(ctx context.Context, opts *RunOptions, path string, m *ir.Module, ex *execution) (string, int64, error) {
	hash, err := ir.ModuleHash(m)
	if err != nil {
		return "", 0, fmt.Errorf("hash module: %w", err)
	}

	gen := opts.IDGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	run, err := ex.runRecord(gen.Generate(), path, hash)
	if err != nil {
		return "", 0, err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return "", 0, err
	}
	defer st.Close()

	seq, err := st.WriteRun(ctx, run)
	if err != nil {
		return "", 0, err
	}
	return run.ID, seq, nil
}
