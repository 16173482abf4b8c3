package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shaderwalk/internal/compiler"
	"github.com/roach88/shaderwalk/internal/ir"
)

func TestCompile_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "add.cue", addModule)

	stdout, _, err := executeCommand(t, "compile", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Compiled 1 type(s), 0 function(s), 1 entry point(s)")
	assert.Contains(t, stdout, "  - main (vertex)")
	assert.Contains(t, stdout, "Module hash: ")
}

func TestCompile_JSONHashMatchesModule(t *testing.T) {
	path := writeFile(t, t.TempDir(), "add.cue", addModule)

	stdout, _, err := executeCommand(t, "compile", "--format", "json", path)
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	m, err := compiler.LoadModule(path)
	require.NoError(t, err)
	want, err := ir.ModuleHash(m)
	require.NoError(t, err)
	assert.Equal(t, want, resp.Data.ModuleHash)
	assert.Equal(t, []string{"main (vertex)"}, resp.Data.EntryPoints)
	assert.True(t, json.Valid(resp.Data.IR))
}

func TestCompile_OutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.cue", addModule)
	outPath := filepath.Join(dir, "add.ir.json")

	stdout, _, err := executeCommand(t, "compile", path, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Output: "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	// Compiling twice gives byte-identical IR.
	again := filepath.Join(dir, "again.ir.json")
	_, _, err = executeCommand(t, "compile", path, "-o", again)
	require.NoError(t, err)
	data2, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, data, data2)
}

func TestCompile_Errors(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.cue", "entry_points: [{name: \n")

	tests := []struct {
		name     string
		path     string
		wantCode string
		wantExit int
	}{
		{"missing", filepath.Join(dir, "missing.cue"), ErrCodeNotFound, ExitCommandError},
		{"syntax error", broken, ErrCodeCompileFailed, ExitCommandError},
		{"invalid module", writeFile(t, dir, "invalid.cue", invalidModule), ErrCodeInvalidModule, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeCommand(t, "compile", "--format", "json", tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
