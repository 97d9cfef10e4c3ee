package borsh_test

import (
	"testing"

	"github.com/eluv-io/errors-go"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/borsh-go/format/borsh"
)

var point = borsh.MustRecord(
	borsh.F("x", borsh.U8),
	borsh.F("y", borsh.String),
)

func TestRecord(t *testing.T) {
	require.Equal(t, "Record{x:U8,y:String}", point.String())
	require.Equal(t, borsh.KindRecord, point.Kind())
	require.False(t, point.Strict())
	require.True(t, point.ExactSize())

	bts, err := borsh.Encode(point, map[string]interface{}{"y": "ab", "x": 5})
	require.NoError(t, err)
	require.Equal(t, []byte{5, 2, 0, 0, 0, 'a', 'b'}, bts)

	v, err := borsh.Decode(point, bts)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"x": uint8(5), "y": "ab"}, v)

	// maps with string-kinded keys are accepted
	type name string
	bts2, err := borsh.Encode(point, map[name]interface{}{"x": 5, "y": "ab"})
	require.NoError(t, err)
	require.Equal(t, bts, bts2)

	// extra keys are ignored in non-strict mode
	bts2, err = borsh.Encode(point, map[string]interface{}{"x": 5, "y": "ab", "z": true})
	require.NoError(t, err)
	require.Equal(t, bts, bts2)
}

func TestRecordErrors(t *testing.T) {
	_, err := borsh.Encode(point, map[string]interface{}{"x": 5})
	require.Error(t, err)
	require.True(t, errors.IsKind(borsh.K.Lookup, err))

	_, err = borsh.Encode(point, []interface{}{5, "ab"})
	require.True(t, errors.IsKind(borsh.K.Type, err))

	_, err = borsh.Encode(point, map[int]interface{}{1: 5})
	require.True(t, errors.IsKind(borsh.K.Type, err))

	_, err = borsh.Encode(point, map[string]interface{}{"x": 500, "y": "ab"})
	require.True(t, errors.IsKind(borsh.K.Range, err))

	_, err = borsh.Decode(point, []byte{5, 9, 0, 0, 0, 'a'})
	require.True(t, errors.IsKind(borsh.K.Truncated, err))
}

func TestRecordStrict(t *testing.T) {
	strict := point.WithStrict(true)
	require.True(t, strict.Strict())
	require.False(t, point.Strict())
	require.Equal(t, "Record{x:U8,y:String}[strict]", strict.String())

	_, err := borsh.Encode(strict, map[string]interface{}{"x": 1, "y": "a"})
	require.NoError(t, err)

	_, err = borsh.Encode(strict, map[string]interface{}{"x": 1, "y": "a", "z": 2, "a": 3})
	require.Error(t, err)
	require.True(t, errors.IsKind(borsh.K.Value, err))
	require.Contains(t, err.Error(), "extra keys")

	// missing keys are reported first
	_, err = borsh.Encode(strict, map[string]interface{}{"x": 1, "z": 2})
	require.Error(t, err)
	require.True(t, errors.IsKind(borsh.K.Value, err))
	require.Contains(t, err.Error(), "missing keys")
}

func TestRecordConstruction(t *testing.T) {
	_, err := borsh.NewRecord(borsh.F("a", borsh.U8), borsh.F("a", borsh.U16))
	require.Error(t, err)
	require.True(t, errors.IsKind(borsh.K.Value, err))

	_, err = borsh.NewRecord(borsh.F("", borsh.U8))
	require.True(t, errors.IsKind(borsh.K.Value, err))

	_, err = borsh.NewRecord(borsh.F("a", nil))
	require.True(t, errors.IsKind(borsh.K.Type, err))

	require.Panics(t, func() { borsh.MustRecord(borsh.F("a", nil)) })

	// fields keep declaration order, not name order
	r := borsh.MustRecord(borsh.F("b", borsh.U8), borsh.F("a", borsh.U8))
	fields := r.Fields()
	require.Equal(t, "b", fields[0].Name)
	require.Equal(t, "a", fields[1].Name)
	bts, err := borsh.Encode(r, map[string]interface{}{"a": 1, "b": 2})
	require.NoError(t, err)
	require.Equal(t, []byte{2, 1}, bts)

	// the returned fields are a copy
	fields[0].Name = "c"
	require.Equal(t, "b", r.Fields()[0].Name)

	empty := borsh.MustRecord()
	bts, err = borsh.Encode(empty, map[string]interface{}{})
	require.NoError(t, err)
	require.Empty(t, bts)
	n, fixed := empty.Sizeof().Fixed()
	require.True(t, fixed)
	require.Equal(t, 0, n)
}

func TestRecordPadding(t *testing.T) {
	r := borsh.MustRecord(
		borsh.F("a", borsh.U8),
		borsh.F("_pad", borsh.Padding(borsh.U16)),
		borsh.F("b", borsh.U8),
	)
	n, fixed := r.Sizeof().Fixed()
	require.True(t, fixed)
	require.Equal(t, 4, n)

	// padding keys are optional, also in strict mode
	for _, typ := range []*borsh.Record{r, r.WithStrict(true)} {
		bts, err := borsh.Encode(typ, map[string]interface{}{"a": 1, "b": 2})
		require.NoError(t, err)
		require.Equal(t, []byte{1, 0, 0, 2}, bts)

		bts, err = borsh.Encode(typ, map[string]interface{}{"a": 1, "_pad": 7, "b": 2})
		require.NoError(t, err)
		require.Equal(t, []byte{1, 0, 0, 2}, bts)
	}

	// padding fields are omitted from decoded records
	v, err := borsh.Decode(r, []byte{1, 0xaa, 0xbb, 2})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"a": uint8(1), "b": uint8(2)}, v)
}

func TestRecordSizePolicy(t *testing.T) {
	r := borsh.MustRecord(
		borsh.F("id", borsh.U64),
		borsh.F("name", borsh.String),
		borsh.F("key", borsh.PubKey),
	)
	require.False(t, r.Sizeof().IsFixed())

	inexact := r.WithExactSize(false)
	require.False(t, inexact.ExactSize())
	require.True(t, r.ExactSize())
	require.Equal(t, "Record{id:U64,name:String,key:PubKey}[inexact]", inexact.String())
	require.Equal(t, "Record{id:U64,name:String,key:PubKey}[strict,inexact]", inexact.WithStrict(true).String())

	n, fixed := inexact.Sizeof().Fixed()
	require.True(t, fixed)
	require.Equal(t, 40, n)

	// the size is a lower bound: encoding still grows as needed
	bts, err := borsh.Encode(inexact, map[string]interface{}{
		"id":   1,
		"name": "a longer name than the buffer can hold",
		"key":  pubKeyBytes(),
	})
	require.NoError(t, err)
	require.Len(t, bts, 40+4+len("a longer name than the buffer can hold"))
}
