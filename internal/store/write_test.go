package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRun_AssignsSequentialSeq(t *testing.T) {
	st := createTestStore(t)
	ctx := t.Context()

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		seq, err := st.WriteRun(ctx, testRun(id))
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), seq)
	}
}

func TestWriteRun_DuplicateIDKeepsFirst(t *testing.T) {
	st := createTestStore(t)
	ctx := t.Context()

	seq, err := st.WriteRun(ctx, testRun("run-1"))
	require.NoError(t, err)

	dup := testRun("run-1")
	dup.ModuleHash = "hash-b"
	again, err := st.WriteRun(ctx, dup)
	require.NoError(t, err)
	assert.Equal(t, seq, again)

	run, err := st.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "hash-a", run.ModuleHash)

	runs, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestWriteRun_EmptyID(t *testing.T) {
	st := createTestStore(t)
	_, err := st.WriteRun(t.Context(), testRun(""))
	assert.ErrorContains(t, err, "empty id")
}

func TestWriteRun_FailedRun(t *testing.T) {
	st := createTestStore(t)
	ctx := t.Context()

	run := testRun("run-err")
	run.Result = nil
	run.ErrorCode = "SIZE_MISMATCH"
	run.ErrorMessage = "operands have different lengths"
	_, err := st.WriteRun(ctx, run)
	require.NoError(t, err)

	got, err := st.ReadRun(ctx, "run-err")
	require.NoError(t, err)
	assert.True(t, got.Failed())
	assert.False(t, got.Void())
	assert.Nil(t, got.Result)
	assert.Equal(t, "SIZE_MISMATCH", got.ErrorCode)
	assert.Equal(t, "operands have different lengths", got.ErrorMessage)
}

func TestWriteRun_VoidRun(t *testing.T) {
	st := createTestStore(t)
	ctx := t.Context()

	run := testRun("run-void")
	run.Result = nil
	run.Args = nil
	_, err := st.WriteRun(ctx, run)
	require.NoError(t, err)

	got, err := st.ReadRun(ctx, "run-void")
	require.NoError(t, err)
	assert.True(t, got.Void())
	assert.Equal(t, []string{}, got.Args)
}
