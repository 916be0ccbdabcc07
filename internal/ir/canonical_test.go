package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalPrimitives(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "hello", `"hello"`},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"empty array", []any{}, "[]"},
		{"array", []any{"a", 1, true}, `["a",1,true]`},
		{"empty object", map[string]any{}, "{}"},
		{"no html escaping", "<a>&</a>", `"<a>&</a>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(3.14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = MarshalCanonical(map[string]any{"x": 1.0})
	require.Error(t, err)
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)

	_, err = MarshalCanonical([]any{nil})
	require.Error(t, err)
}

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b": 2,
		"a": 1,
		"c": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"c":3}`, string(got))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+FF5A (FULLWIDTH z) is the single UTF-16 code unit 0xFF5A;
	// U+10400 (DESERET CAPITAL LONG I) is a surrogate pair starting
	// 0xD801. UTF-16 order puts the surrogate pair first even though
	// its code point is larger. UTF-8 byte order would disagree.
	got, err := MarshalCanonical(map[string]any{
		"ｚ":     1,
		"\U00010400": 2,
	})
	require.NoError(t, err)

	surrogate := strings.Index(string(got), "\U00010400")
	fullwidth := strings.Index(string(got), "ｚ")
	require.NotEqual(t, -1, surrogate)
	require.NotEqual(t, -1, fullwidth)
	assert.Less(t, surrogate, fullwidth)
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "e" + COMBINING ACUTE ACCENT normalizes to precomposed U+00E9.
	decomposed, err := MarshalCanonical("é")
	require.NoError(t, err)
	precomposed, err := MarshalCanonical("é")
	require.NoError(t, err)
	assert.Equal(t, string(precomposed), string(decomposed))
}

func TestMarshalCanonicalDeterministic(t *testing.T) {
	obj := map[string]any{
		"name":    "fetch",
		"params":  []any{map[string]any{"name": "url", "type": "String"}},
		"nested":  map[string]any{"z": true, "a": false},
		"counter": int64(9),
	}

	first, err := MarshalCanonical(obj)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalCanonical(obj)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}
