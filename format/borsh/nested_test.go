package borsh_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/borsh-go/format/borsh"
)

var (
	inner = borsh.MustRecord(
		borsh.F("x", borsh.U8),
		borsh.F("y", borsh.String),
	)
	outer = borsh.MustRecord(
		borsh.F("w", borsh.U16),
		borsh.F("inner", inner),
		borsh.F("list", borsh.Vector(inner)),
	)
)

func TestNestedRecords(t *testing.T) {
	in := map[string]interface{}{
		"w":     65535,
		"inner": map[string]interface{}{"x": 255, "y": "nested-data"},
		"list": []interface{}{
			map[string]interface{}{"x": 1, "y": "a"},
			map[string]interface{}{"x": 2, "y": ""},
		},
	}

	bts, err := borsh.Encode(outer, in)
	require.NoError(t, err)

	expected := []byte{0xff, 0xff, 0xff, 11, 0, 0, 0}
	expected = append(expected, "nested-data"...)
	expected = append(expected, 2, 0, 0, 0)
	expected = append(expected, 1, 1, 0, 0, 0, 'a')
	expected = append(expected, 2, 0, 0, 0, 0)
	require.Equal(t, expected, bts)

	v, err := borsh.Decode(outer, bts)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{
		"w":     uint16(65535),
		"inner": map[string]interface{}{"x": uint8(255), "y": "nested-data"},
		"list": []interface{}{
			map[string]interface{}{"x": uint8(1), "y": "a"},
			map[string]interface{}{"x": uint8(2), "y": ""},
		},
	}, v)

	// decoded values encode to the same bytes
	again, err := borsh.Encode(outer, v)
	require.NoError(t, err)
	require.Equal(t, bts, again)
}

func TestRoundTripAllKinds(t *testing.T) {
	big128, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)

	typ := borsh.MustRecord(
		borsh.F("u8", borsh.U8),
		borsh.F("u16", borsh.U16),
		borsh.F("u32", borsh.U32),
		borsh.F("u64", borsh.U64),
		borsh.F("u128", borsh.U128),
		borsh.F("i8", borsh.I8),
		borsh.F("i16", borsh.I16),
		borsh.F("i32", borsh.I32),
		borsh.F("i64", borsh.I64),
		borsh.F("i128", borsh.I128),
		borsh.F("f32", borsh.F32),
		borsh.F("f64", borsh.F64),
		borsh.F("bool", borsh.Bool),
		borsh.F("string", borsh.String),
		borsh.F("bytes", borsh.Bytes),
		borsh.F("opt", borsh.Optional(borsh.I32)),
		borsh.F("none", borsh.Optional(borsh.I32)),
		borsh.F("array", borsh.Array(borsh.Bool, 2)),
		borsh.F("vector", borsh.Vector(borsh.F64)),
		borsh.F("set", borsh.Set(borsh.String)),
		borsh.F("map", borsh.Map(borsh.String, borsh.Vector(borsh.U8))),
		borsh.F("key", borsh.PubKey),
		borsh.F("pad", borsh.Padding(borsh.U32)),
	).WithStrict(true)

	in := map[string]interface{}{
		"u8":     uint8(1),
		"u16":    uint16(2),
		"u32":    uint32(3),
		"u64":    uint64(4),
		"u128":   big.NewInt(5),
		"i8":     int8(-1),
		"i16":    int16(-2),
		"i32":    int32(-3),
		"i64":    int64(-4),
		"i128":   big128,
		"f32":    float32(0.5),
		"f64":    0.25,
		"bool":   true,
		"string": "héllo",
		"bytes":  []byte{0, 1},
		"opt":    int32(42),
		"none":   nil,
		"array":  []interface{}{true, false},
		"vector": []interface{}{1.5, -1.5},
		"set":    []interface{}{"a", "b"},
		"map": map[interface{}]interface{}{
			"k": []interface{}{uint8(1), uint8(2)},
		},
		"key": base58Key(),
	}

	bts, err := borsh.Encode(typ, in)
	require.NoError(t, err)
	v, err := borsh.Decode(typ, bts)
	require.NoError(t, err)
	require.Equal(t, in, v)
}

func base58Key() string {
	v, err := borsh.Decode(borsh.PubKey, pubKeyBytes())
	if err != nil {
		panic(err)
	}
	return v.(string)
}
