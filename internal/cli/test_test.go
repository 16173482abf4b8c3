package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addScenario = `name: add_forty
description: Forty plus two.
module: ../modules/add.cue
stage: vertex
inputs: ["40"]
expect:
  result: "42"
assertions:
  - type: trace_contains
    kind: Binary
    value: "42"
`

const divideScenario = `name: divide_by_zero
description: Integer division by zero fails.
module: ../modules/divide.cue
stage: compute
inputs: ["7", "0"]
expect:
  error: DIVISION_BY_ZERO
`

const wrongScenario = `name: wrong_result
description: Deliberately wrong expectation.
module: ../modules/add.cue
stage: vertex
inputs: ["1"]
expect:
  result: "4"
`

// scenarioDir lays out modules/ and scenarios/ under a temp dir and returns
// the scenarios directory.
func scenarioDir(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "modules/add.cue", addModule)
	writeFile(t, dir, "modules/divide.cue", divideModule)
	for name, content := range scenarios {
		writeFile(t, dir, filepath.Join("scenarios", name), content)
	}
	return filepath.Join(dir, "scenarios")
}

func TestTest_AllPass(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"add.yaml": addScenario, "divide.yaml": divideScenario})

	stdout, _, err := executeCommand(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ add_forty")
	assert.Contains(t, stdout, "✓ divide_by_zero")
	assert.Contains(t, stdout, "Test Summary: 2 passed, 0 failed, 2 total")
}

func TestTest_Failure(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"add.yaml": addScenario, "wrong.yaml": wrongScenario})

	stdout, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ wrong_result")
	assert.Contains(t, stdout, `expected result "4", got "3"`)
	assert.Contains(t, stdout, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTest_JSON(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"wrong.yaml": wrongScenario})

	stdout, _, err := executeCommand(t, "test", dir, "--format", "json")
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
}

func TestTest_Filter(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"add.yaml": addScenario, "wrong.yaml": wrongScenario})

	stdout, _, err := executeCommand(t, "test", dir, "--filter", "add*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTest_GoldenUpdateAndCompare(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"add.yaml": addScenario})
	goldenPath := filepath.Join(dir, "golden", "add.golden")

	_, _, err := executeCommand(t, "test", dir, "--update")
	require.NoError(t, err)

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(golden))
	assert.Contains(t, string(golden), `"scenario":"add_forty"`)

	stdout, _, err := executeCommand(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ add_forty")

	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"scenario":"add_forty","trace":[]}`), 0o644))
	stdout, _, err = executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "trace does not match golden file")
}

func TestTest_BadScenario(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"bad.yaml": "name: bad\nstage: vertex\n"})

	stdout, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTest_NoScenarios(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "test", dir)
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", stdout)

	_, _, err = executeCommand(t, "test", filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
