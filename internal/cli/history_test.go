package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shaderwalk/internal/store"
)

// seedRuns records one successful add run per argument and one failed divide run.
func seedRuns(t *testing.T, dir string, args ...string) (dbPath, addPath string) {
	t.Helper()
	addPath = writeFile(t, dir, "add.cue", addModule)
	divide := writeFile(t, dir, "divide.cue", divideModule)
	dbPath = filepath.Join(dir, "runs.db")

	for _, arg := range args {
		_, _, err := executeCommand(t, "run", addPath, "--arg", arg, "--db", dbPath)
		require.NoError(t, err)
	}
	_, _, err := executeCommand(t, "run", divide, "--stage", "compute", "--arg", "1", "--arg", "0", "--db", dbPath)
	require.Error(t, err)
	return dbPath, addPath
}

func decodeHistory(t *testing.T, stdout string) []HistoryEntry {
	t.Helper()
	var resp struct {
		Status string         `json:"status"`
		Data   []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestHistory_Text(t *testing.T) {
	dbPath, _ := seedRuns(t, t.TempDir(), "40")

	stdout, _, err := executeCommand(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SEQ")
	assert.Contains(t, stdout, "OUTCOME")
	assert.Contains(t, stdout, "42")
	assert.Contains(t, stdout, "error DIVISION_BY_ZERO")
}

func TestHistory_JSONInSeqOrder(t *testing.T) {
	dbPath, _ := seedRuns(t, t.TempDir(), "1", "2")

	stdout, _, err := executeCommand(t, "history", "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	entries := decodeHistory(t, stdout)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Seq)
	}
	require.NotNil(t, entries[0].Result)
	assert.Equal(t, "3", *entries[0].Result)
	assert.Equal(t, []string{"1"}, entries[0].Args)
	assert.Equal(t, "DIVISION_BY_ZERO", entries[2].ErrorCode)
}

func TestHistory_Filters(t *testing.T) {
	dbPath, addPath := seedRuns(t, t.TempDir(), "1", "2")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	run, err := st.ListRuns(t.Context(), store.RunFilter{Limit: 1})
	require.NoError(t, err)
	require.NoError(t, st.Close())
	require.Len(t, run, 1)
	addHash := run[0].ModuleHash

	stdout, _, err := executeCommand(t, "history", "--db", dbPath, "--format", "json", "--module-hash", addHash)
	require.NoError(t, err)
	entries := decodeHistory(t, stdout)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, addPath, e.ModulePath)
	}

	stdout, _, err = executeCommand(t, "history", "--db", dbPath, "--format", "json", "--limit", "1")
	require.NoError(t, err)
	assert.Len(t, decodeHistory(t, stdout), 1)
}

func TestHistory_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	stdout, _, err := executeCommand(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "No runs found.\n", stdout)

	stdout, _, err = executeCommand(t, "history", "--db", dbPath, "--format", "json")
	require.NoError(t, err)
	assert.Empty(t, decodeHistory(t, stdout))
}

func TestHistory_MissingDatabase(t *testing.T) {
	_, _, err := executeCommand(t, "history", "--db", filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
