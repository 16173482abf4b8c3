package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "shaderwalk", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"compile", "validate", "run", "test", "history", "replay"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "0", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	run, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	stage := run.Flags().Lookup("stage")
	require.NotNil(t, stage)
	assert.Equal(t, "vertex", stage.DefValue)

	for _, name := range []string{"arg", "db", "legacy-sequencing"} {
		assert.NotNil(t, run.Flags().Lookup(name), name)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "--format", "xml", "shader.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.cue", addModule)

	t.Run("success", func(t *testing.T) {
		out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
		code := Execute([]string{"run", path, "--arg", "40"}, strings.NewReader(""), out, errOut)
		assert.Equal(t, ExitSuccess, code)
		assert.Equal(t, "42\n", out.String())
	})

	t.Run("missing module", func(t *testing.T) {
		out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
		code := Execute([]string{"validate", filepath.Join(dir, "nope.cue")}, strings.NewReader(""), out, errOut)
		assert.Equal(t, ExitCommandError, code)
		assert.Contains(t, errOut.String(), "Error:")
	})

	t.Run("unknown flag", func(t *testing.T) {
		out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
		code := Execute([]string{"run", path, "--bogus"}, strings.NewReader(""), out, errOut)
		assert.Equal(t, ExitCommandError, code)
		assert.Contains(t, errOut.String(), "unknown flag")
	})
}
