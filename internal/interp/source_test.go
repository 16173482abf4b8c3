package interp

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shaderwalk/internal/value"
)

func TestStaticSource(t *testing.T) {
	src := NewStaticSource("a", "b")
	ctx := context.Background()

	line, err := src.Next(ctx, ArgumentRequest{})
	require.NoError(t, err)
	assert.Equal(t, "a", line)
	line, err = src.Next(ctx, ArgumentRequest{})
	require.NoError(t, err)
	assert.Equal(t, "b", line)

	_, err = src.Next(ctx, ArgumentRequest{})
	assert.ErrorIs(t, err, ErrSourceExhausted)
}

func TestPromptSource(t *testing.T) {
	var prompts bytes.Buffer
	src := NewPromptSource(strings.NewReader("42\r\n1, 2, 3"), &prompts)
	ctx := context.Background()

	line, err := src.Next(ctx, ArgumentRequest{Name: "n", Type: value.I32})
	require.NoError(t, err)
	assert.Equal(t, "42", line)

	line, err = src.Next(ctx, ArgumentRequest{Name: "v", Type: tyVec3f.Inner})
	require.NoError(t, err)
	assert.Equal(t, "1, 2, 3", line)

	_, err = src.Next(ctx, ArgumentRequest{Name: "w", Type: value.F32})
	assert.ErrorIs(t, err, ErrSourceExhausted)

	assert.Equal(t,
		"Enter value for argument `n` (i32): "+
			"Enter value for argument `v` (vec3<f32>): "+
			"Enter value for argument `w` (f32): ",
		prompts.String())
}

func TestRecordingSource(t *testing.T) {
	rec := &RecordingSource{Source: NewStaticSource("1", "2")}
	ctx := context.Background()

	_, err := rec.Next(ctx, ArgumentRequest{})
	require.NoError(t, err)
	_, err = rec.Next(ctx, ArgumentRequest{})
	require.NoError(t, err)
	_, err = rec.Next(ctx, ArgumentRequest{})
	require.Error(t, err)

	assert.Equal(t, []string{"1", "2"}, rec.Lines)
}

func TestSourcesHonourCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStaticSource("1").Next(ctx, ArgumentRequest{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewPromptSource(strings.NewReader("1\n"), &bytes.Buffer{}).Next(ctx, ArgumentRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
