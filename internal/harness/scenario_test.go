package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// tempModuleDir returns a temp dir holding an empty module file named m.cue.
func tempModuleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.cue"), nil, 0o644))
	return dir
}

func TestLoadScenario_ResolvesModuleRelativeToFile(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "vec_add.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "vec_add", s.Name)
	assert.Equal(t, filepath.Join("testdata", "modules", "vec_add.cue"), s.Module)
	assert.Equal(t, "vertex", s.Stage)
	assert.Equal(t, []string{"1, 2, 3"}, s.Inputs)
	require.NotNil(t, s.Expect.Result)
	assert.Equal(t, "[2, 3, 4]", *s.Expect.Result)
	assert.Len(t, s.Assertions, 4)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	dir := tempModuleDir(t)
	path := writeScenario(t, dir, `
name: typo
description: d
module: m.cue
stage: vertex
input: ["1"]
expect: {void: true}
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing name",
			body: "description: d\nmodule: m.cue\nstage: vertex\nexpect: {void: true}\n",
			want: "name is required",
		},
		{
			name: "missing description",
			body: "name: n\nmodule: m.cue\nstage: vertex\nexpect: {void: true}\n",
			want: "description is required",
		},
		{
			name: "missing module",
			body: "name: n\ndescription: d\nstage: vertex\nexpect: {void: true}\n",
			want: "module is required",
		},
		{
			name: "module not found",
			body: "name: n\ndescription: d\nmodule: nope.cue\nstage: vertex\nexpect: {void: true}\n",
			want: "module not found",
		},
		{
			name: "missing stage",
			body: "name: n\ndescription: d\nmodule: m.cue\nexpect: {void: true}\n",
			want: "stage is required",
		},
		{
			name: "no outcome",
			body: "name: n\ndescription: d\nmodule: m.cue\nstage: vertex\n",
			want: "exactly one of result, error, void",
		},
		{
			name: "two outcomes",
			body: "name: n\ndescription: d\nmodule: m.cue\nstage: vertex\nexpect: {void: true, error: OUT_OF_RANGE}\n",
			want: "exactly one of result, error, void",
		},
		{
			name: "unknown assertion",
			body: "name: n\ndescription: d\nmodule: m.cue\nstage: vertex\nexpect: {void: true}\nassertions: [{type: final_state}]\n",
			want: `unknown assertion type "final_state"`,
		},
		{
			name: "trace_count without kind",
			body: "name: n\ndescription: d\nmodule: m.cue\nstage: vertex\nexpect: {void: true}\nassertions: [{type: trace_count, count: 1}]\n",
			want: "kind is required for trace_count",
		},
		{
			name: "trace_order without kinds",
			body: "name: n\ndescription: d\nmodule: m.cue\nstage: vertex\nexpect: {void: true}\nassertions: [{type: trace_order}]\n",
			want: "kinds list is required",
		},
		{
			name: "scope_value without variable",
			body: "name: n\ndescription: d\nmodule: m.cue\nstage: vertex\nexpect: {void: true}\nassertions: [{type: scope_value}]\n",
			want: "variable is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, tempModuleDir(t), tt.body)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestFindScenarioFiles(t *testing.T) {
	files, err := FindScenarioFiles(filepath.Join("testdata", "scenarios"), "")
	require.NoError(t, err)
	assert.Len(t, files, 8)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "block_early_return.yaml"), files[0])

	files, err = FindScenarioFiles(filepath.Join("testdata", "scenarios"), "*_add")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "scalar_add.yaml"),
		filepath.Join("testdata", "scenarios", "vec_add.yaml"),
	}, files)

	_, err = FindScenarioFiles(filepath.Join("testdata", "scenarios"), "[")
	assert.Error(t, err)
}
