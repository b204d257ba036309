package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/docproj/projerrors"
)

func TestDecode_PreservesOrderAndTypes(t *testing.T) {
	d, err := Decode([]byte(`
zeta: 1
alpha: 2.5
mid: "text"
flag: true
nothing: null
nested:
  b: 1
  a: 2
list: [1, [2, 3], {x: y}]
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid", "flag", "nothing", "nested", "list"}, d.Names())
	assert.Equal(t, KindInt, d.Get("zeta").Kind())
	assert.Equal(t, KindDouble, d.Get("alpha").Kind())
	assert.Equal(t, KindString, d.Get("mid").Kind())
	assert.Equal(t, KindBool, d.Get("flag").Kind())
	assert.Equal(t, KindNull, d.Get("nothing").Kind())
	assert.Equal(t, []string{"b", "a"}, d.Get("nested").Document().Names())

	list := d.Get("list").ArrayValues()
	require.Len(t, list, 3)
	assert.True(t, list[1].IsArray())
	assert.True(t, list[2].IsDocument())
}

func TestDecode_JSON(t *testing.T) {
	d, err := Decode([]byte(`{"b": 1, "a": {"c": [1, 2]}}`))
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"c":[1,2]}}`, Doc(d).String())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"scalar", "42"},
		{"sequence", "[1, 2]"},
		{"malformed", "{a: [1, 2"},
		{"complex key", "? [a, b]\n: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input), WithSource("input.yaml"))
			require.Error(t, err)
			assert.ErrorIs(t, err, projerrors.ErrParse)
			assert.Contains(t, err.Error(), "input.yaml")
		})
	}
}

func TestDecodeAll(t *testing.T) {
	t.Run("JSON array", func(t *testing.T) {
		docs, err := DecodeAll([]byte(`[{"a": 1}, {"a": 2}]`))
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.True(t, docs[1].Get("a").Equal(Int(2)))
	})

	t.Run("multi-document stream", func(t *testing.T) {
		docs, err := DecodeAll([]byte("a: 1\n---\n- a: 2\n- a: 3\n---\n"))
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.True(t, docs[2].Get("a").Equal(Int(3)))
	})

	t.Run("sequence of scalars", func(t *testing.T) {
		_, err := DecodeAll([]byte(`[1, 2]`))
		assert.ErrorIs(t, err, projerrors.ErrParse)
	})
}

func TestDecode_NormalizedFieldNames(t *testing.T) {
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"
	input := []byte(`{"` + decomposed + `": 1}`)

	plain, err := Decode(input)
	require.NoError(t, err)
	assert.False(t, plain.Has(composed))

	normalized, err := Decode(input, WithNormalizedFieldNames())
	require.NoError(t, err)
	assert.True(t, normalized.Has(composed))
}

func TestEncodeJSON(t *testing.T) {
	d := New()
	d.Set("b", Double(2))
	d.Set("hidden", Missing())
	d.Set("a", Array([]Value{Int(1), Null()}))

	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2.0,"a":[1,null]}`, string(data))

	indented, err := EncodeJSON(d, MustDecode(`{x: 1}`))
	require.NoError(t, err)
	assert.Contains(t, string(indented), "[\n  {\n")
}

func TestEncodeYAML_RoundTrip(t *testing.T) {
	orig := MustDecode(`{z: 1, a: {y: [1, 2.5, "s", null, true]}, m: 3.0}`)

	data, err := EncodeYAML(orig)
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, orig.Equal(back), "round trip changed the document:\n%s", data)
	assert.Equal(t, KindDouble, back.Get("m").Kind(), "integral doubles stay doubles")
}
