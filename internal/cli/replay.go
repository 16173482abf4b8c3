package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shaderwalk/internal/interp"
	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	Seq           int64  `json:"seq"`
	ModulePath    string `json:"module_path"`
	Deterministic bool   `json:"deterministic"`
	Reason        string `json:"reason,omitempty"` // why the run did not reproduce
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run logged runs and verify determinism",
		Long: `Recompile each logged run's module, check its hash is unchanged,
re-run it with the recorded argument lines and verify the outcome is
byte-for-byte identical.

Exit codes:
  0 - All runs reproduced
  1 - A run did not reproduce (module changed or different outcome)
  2 - Command error (database not found, unknown run)

Examples:
  shaderwalk replay --db runs.db
  shaderwalk replay --db runs.db --run 01920a6e-...
  shaderwalk replay --db runs.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay this run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.newLogger(cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExistingStore(opts.Database)
	if err != nil {
		if ferr := f.Error(ErrCodeStore, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			if errors.Is(err, store.ErrRunNotFound) {
				if ferr := f.Error(ErrCodeNotFound, err.Error(), nil); ferr != nil {
					return ferr
				}
			}
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		runs = []store.Run{run}
	} else {
		runs, err = st.ListRuns(ctx, store.RunFilter{})
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runs)),
		TotalRuns:        len(runs),
		AllDeterministic: true,
	}
	for _, run := range runs {
		rr, err := replayRun(ctx, run)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("failed to replay run %s", run.ID), err)
		}
		logger.Debug("replayed run", "id", run.ID, "seq", run.Seq, "deterministic", rr.Deterministic)
		result.Runs = append(result.Runs, rr)
		if !rr.Deterministic {
			result.AllDeterministic = false
		}
	}

	if f.JSON() {
		return outputReplayJSON(f, result)
	}
	return outputReplayText(f, result)
}

// replayRun re-executes one logged run. The returned error is reserved for
// cancellation; every other difference is reported in the result.
func replayRun(ctx context.Context, run store.Run) (ReplayRunResult, error) {
	rr := ReplayRunResult{RunID: run.ID, Seq: run.Seq, ModulePath: run.ModulePath}
	nondeterministic := func(format string, args ...any) (ReplayRunResult, error) {
		rr.Reason = fmt.Sprintf(format, args...)
		return rr, nil
	}

	m, err := loadValidModule(run.ModulePath)
	if err != nil {
		return nondeterministic("module no longer loads: %v", err)
	}
	hash, err := ir.ModuleHash(m)
	if err != nil {
		return nondeterministic("hash module: %v", err)
	}
	if hash != run.ModuleHash {
		return nondeterministic("module changed: hash %s, recorded %s", hash, run.ModuleHash)
	}
	stage, err := ir.ParseShaderStage(run.Stage)
	if err != nil {
		return nondeterministic("recorded stage: %v", err)
	}

	ex, err := execute(ctx, m, stage, interp.NewStaticSource(run.Args...), run.LegacySequencing, interp.NopObserver{})
	if err != nil {
		return rr, err
	}
	again, err := ex.runRecord(run.ID, run.ModulePath, hash)
	if err != nil {
		return nondeterministic("%v", err)
	}

	if reason := compareRuns(run, again); reason != "" {
		return nondeterministic("%s", reason)
	}
	rr.Deterministic = true
	return rr, nil
}

// compareRuns describes the first difference between a logged run and its
// replay, or returns "" when they match.
func compareRuns(want, got store.Run) string {
	switch {
	case want.ErrorCode != got.ErrorCode:
		return fmt.Sprintf("error code %q, recorded %q", got.ErrorCode, want.ErrorCode)
	case want.EntryPoint != got.EntryPoint:
		return fmt.Sprintf("entry point %q, recorded %q", got.EntryPoint, want.EntryPoint)
	case (want.Result == nil) != (got.Result == nil):
		return "value presence differs from the recorded run"
	case want.Result == nil:
		return ""
	case want.Result.Type != got.Result.Type:
		return fmt.Sprintf("result type %s, recorded %s", got.Result.Type, want.Result.Type)
	case !bytes.Equal(want.Result.Bytes, got.Result.Bytes):
		return fmt.Sprintf("result %s, recorded %s", got.Result.Text, want.Result.Text)
	}
	return ""
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}
	if err := f.encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(f *OutputFormatter, result ReplayResult) error {
	w := f.Writer

	if result.TotalRuns == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n\n", result.TotalRuns)
	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Run %d: %s\n", status, run.Seq, run.RunID)
		if f.Verbose > 0 {
			fmt.Fprintf(w, "  Module: %s\n", run.ModulePath)
		}
		if !run.Deterministic {
			fmt.Fprintf(w, "  %s\n", run.Reason)
		}
	}
	fmt.Fprintln(w)

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All runs reproduced")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
