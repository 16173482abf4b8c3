package store

import (
	"path/filepath"
	"testing"
)

// createTestStore opens a file-backed store in a temp dir and closes it on cleanup.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testRun(id string) Run {
	return Run{
		ID:            id,
		ModulePath:    "testdata/vec_add.cue",
		ModuleHash:    "hash-a",
		Stage:         "vertex",
		EntryPoint:    "main",
		Args:          []string{"1 2 3"},
		Result:        &RunResult{Text: "[2, 3, 4]", Type: "vec3<f32>", Bytes: []byte{0, 0, 0, 64, 0, 0, 64, 64, 0, 0, 128, 64}},
		EngineVersion: "0.1.0",
		IRVersion:     "1",
	}
}
