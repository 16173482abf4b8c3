package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/shaderwalk/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	ModuleHash string
	Limit      int
}

// HistoryEntry is one run as listed by history.
type HistoryEntry struct {
	ID         string   `json:"id"`
	Seq        int64    `json:"seq"`
	ModulePath string   `json:"module_path"`
	ModuleHash string   `json:"module_hash"`
	Stage      string   `json:"stage"`
	EntryPoint string   `json:"entry_point"`
	Args       []string `json:"args"`
	Legacy     bool     `json:"legacy_sequencing,omitempty"`
	Result     *string  `json:"result,omitempty"`
	Type       string   `json:"type,omitempty"`
	ErrorCode  string   `json:"error_code,omitempty"`
	Void       bool     `json:"void,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged runs",
		Long: `List runs from the run log in the order they were recorded.

Examples:
  shaderwalk history --db runs.db
  shaderwalk history --db runs.db --module-hash 3f2a... --limit 10 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.ModuleHash, "module-hash", "", "only runs of this module")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openExistingStore(opts.Database)
	if err != nil {
		if ferr := f.Error(ErrCodeStore, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := st.ListRuns(ctx, store.RunFilter{ModuleHash: opts.ModuleHash, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	entries := make([]HistoryEntry, len(runs))
	for i, run := range runs {
		entries[i] = historyEntry(run)
	}

	if f.JSON() {
		return f.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(f.Writer, "No runs found.")
		return nil
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tSTAGE\tENTRY\tOUTCOME")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.Seq, e.ID, e.Stage, e.EntryPoint, e.outcome())
	}
	return tw.Flush()
}

func historyEntry(run store.Run) HistoryEntry {
	e := HistoryEntry{
		ID:         run.ID,
		Seq:        run.Seq,
		ModulePath: run.ModulePath,
		ModuleHash: run.ModuleHash,
		Stage:      run.Stage,
		EntryPoint: run.EntryPoint,
		Args:       run.Args,
		Legacy:     run.LegacySequencing,
		ErrorCode:  run.ErrorCode,
		Void:       run.Void(),
	}
	if run.Result != nil {
		text := run.Result.Text
		e.Result = &text
		e.Type = run.Result.Type
	}
	return e
}

func (e HistoryEntry) outcome() string {
	switch {
	case e.ErrorCode != "":
		return "error " + e.ErrorCode
	case e.Void:
		return "(no value)"
	default:
		return *e.Result
	}
}

// openExistingStore opens a run log that must already exist.
// store.Open would silently create an empty one.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}
	return store.Open(path)
}
