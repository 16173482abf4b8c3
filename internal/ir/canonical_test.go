package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", IRString("vec3<f32>"), `"vec3<f32>"`},
		{"go string", "main", `"main"`},
		{"int", IRInt(-7), "-7"},
		{"go int", 3, "3"},
		{"bool", IRBool(false), "false"},
		{"empty array", IRArray{}, "[]"},
		{"empty object", IRObject{}, "{}"},
		{"slice any", []any{int64(1), "x", true}, `[1,"x",true]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalCanonicalKeyOrder(t *testing.T) {
	obj := IRObject{
		"types":     IRArray{},
		"functions": IRArray{},
		"Z":         IRObject{"b": IRInt(1), "a": IRInt(2)},
	}
	got, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"Z":{"a":2,"b":1},"functions":[],"types":[]}`, string(got))
}

func TestMarshalCanonicalRejectsFloatAndNull(t *testing.T) {
	_, err := MarshalCanonical(float32(1.5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")

	_, err = MarshalCanonical(map[string]any{"x": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")
}

func TestMarshalCanonicalNoHTMLEscapeAndNFC(t *testing.T) {
	got, err := MarshalCanonical(IRString("a<b && c>d"))
	require.NoError(t, err)
	assert.Equal(t, `"a<b && c>d"`, string(got))

	composed, err := MarshalCanonical(IRString("caf\u00e9"))
	require.NoError(t, err)
	decomposed, err := MarshalCanonical(IRString("cafe\u0301"))
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	got, err := MarshalCanonical(IRString("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(got))

	// literal backslash text is left alone
	got, err = MarshalCanonical(IRString(`\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(got))
}

func TestSortedKeysUTF16Order(t *testing.T) {
	obj := IRObject{"a": IRInt(1), "A": IRInt(2), "aa": IRInt(3), "\U0001F600": IRInt(4), "\uff01": IRInt(5)}
	// U+1F600 encodes as surrogates 0xD83D.. which sort before U+FF01.
	assert.Equal(t, []string{"A", "a", "aa", "\U0001F600", "\uff01"}, obj.SortedKeys())
}
