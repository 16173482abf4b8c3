package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "[2, 3, 4]"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	details := map[string]string{"stage": "compute"}
	require.NoError(t, formatter.Error("DIVISION_BY_ZERO", "integer division by zero", details))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DIVISION_BY_ZERO", resp.Error.Code)
	assert.Equal(t, "integer division by zero", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_JSONDoesNotEscapeHTML(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success("vec3<f32>"))
	assert.Contains(t, buf.String(), "vec3<f32>")
}

func TestOutputFormatter_TextError(t *testing.T) {
	tests := []struct {
		name        string
		verbose     int
		wantDetails bool
	}{
		{"quiet", 0, false},
		{"verbose", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}

			require.NoError(t, formatter.Error("E005", "module not found: x.cue", map[string]string{"path": "x.cue"}))
			assert.Contains(t, buf.String(), "Error [E005]: module not found: x.cue")
			if tt.wantDetails {
				assert.Contains(t, buf.String(), "Details:")
			} else {
				assert.NotContains(t, buf.String(), "Details:")
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: 1}

	formatter.VerboseLog("Wrote %d bytes", 12)
	assert.Empty(t, out.String())
	assert.Equal(t, "Wrote 12 bytes\n", errOut.String())

	quiet := &OutputFormatter{Format: "text", Writer: out}
	quiet.VerboseLog("ignored")
	assert.Empty(t, out.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := WrapExitError(ExitFailure, "run failed", errors.New("boom"))
	assert.Equal(t, "run failed: boom", wrapped.Error())
	assert.Equal(t, "boom", errors.Unwrap(wrapped).Error())
}
