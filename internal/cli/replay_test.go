package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shaderwalk/internal/store"
)

func TestReplay_AllReproduce(t *testing.T) {
	dbPath, _ := seedRuns(t, t.TempDir(), "40", "-1")

	stdout, _, err := executeCommand(t, "replay", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Replay Summary: 3 run(s)")
	assert.Contains(t, stdout, "✓ All runs reproduced")
	assert.NotContains(t, stdout, "✗")
}

func TestReplay_JSON(t *testing.T) {
	dbPath, _ := seedRuns(t, t.TempDir(), "40")

	stdout, _, err := executeCommand(t, "replay", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.TotalRuns)
	assert.True(t, resp.Data.AllDeterministic)
	for _, rr := range resp.Data.Runs {
		assert.True(t, rr.Deterministic, rr.Reason)
	}
}

func TestReplay_ModuleChanged(t *testing.T) {
	dir := t.TempDir()
	dbPath, addPath := seedRuns(t, dir, "40")

	changed := strings.Replace(addModule, "{literal: i32: 2}", "{literal: i32: 3}", 1)
	require.NoError(t, os.WriteFile(addPath, []byte(changed), 0o644))

	stdout, _, err := executeCommand(t, "replay", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "module changed")
	assert.Contains(t, stdout, "✗ Determinism verification failed")
}

func TestReplay_ModuleRemoved(t *testing.T) {
	dir := t.TempDir()
	dbPath, addPath := seedRuns(t, dir, "40")
	require.NoError(t, os.Remove(addPath))

	stdout, _, err := executeCommand(t, "replay", "--db", dbPath, "--format", "json")
	require.Error(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
		Error  *CLIError    `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_DETERMINISM", resp.Error.Code)
	assert.False(t, resp.Data.AllDeterministic)
	assert.Contains(t, resp.Data.Runs[0].Reason, "module no longer loads")
}

func TestReplay_SingleRun(t *testing.T) {
	dbPath, _ := seedRuns(t, t.TempDir(), "40")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	runs, err := st.ListRuns(t.Context(), store.RunFilter{})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	stdout, _, err := executeCommand(t, "replay", "--db", dbPath, "--run", runs[1].ID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Replay Summary: 1 run(s)")
	assert.Contains(t, stdout, runs[1].ID)
}

func TestReplay_Errors(t *testing.T) {
	dbPath, _ := seedRuns(t, t.TempDir(), "40")

	_, _, err := executeCommand(t, "replay", "--db", dbPath, "--run", "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = executeCommand(t, "replay", "--db", filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompareRuns(t *testing.T) {
	base := store.Run{
		EntryPoint: "main",
		Result:     &store.RunResult{Text: "42", Type: "i32", Bytes: []byte{42, 0, 0, 0}},
	}

	tests := []struct {
		name   string
		mutate func(r *store.Run)
		want   string
	}{
		{"identical", func(r *store.Run) {}, ""},
		{"error code", func(r *store.Run) { r.Result = nil; r.ErrorCode = "DIVISION_BY_ZERO" }, "error code"},
		{"entry point", func(r *store.Run) { r.EntryPoint = "other" }, "entry point"},
		{"void", func(r *store.Run) { r.Result = nil }, "value presence"},
		{"type", func(r *store.Run) { r.Result = &store.RunResult{Text: "42", Type: "u32", Bytes: []byte{42, 0, 0, 0}} }, "result type"},
		{"bytes", func(r *store.Run) { r.Result = &store.RunResult{Text: "43", Type: "i32", Bytes: []byte{43, 0, 0, 0}} }, "result 43, recorded 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base
			tt.mutate(&got)
			reason := compareRuns(base, got)
			if tt.want == "" {
				assert.Empty(t, reason)
			} else {
				assert.Contains(t, reason, tt.want)
			}
		})
	}
}
