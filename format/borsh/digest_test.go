package borsh_test

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/eluv-io/borsh-go/format/borsh"
)

func TestDigest(t *testing.T) {
	typ := borsh.Map(borsh.String, borsh.Set(borsh.U32))

	a := map[string]interface{}{
		"x": []int{3, 2, 1},
		"y": []int{},
		"z": []int{7, 7},
	}
	b := []borsh.Entry{
		{Key: "z", Value: []uint32{7}},
		{Key: "x", Value: []uint32{1, 2, 3}},
		{Key: "y", Value: []uint32{}},
	}

	h1, err := borsh.Digest(typ, a)
	require.NoError(t, err)
	h2, err := borsh.Digest(typ, b)
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	bts, err := borsh.Encode(typ, a)
	require.NoError(t, err)
	require.Equal(t, borsh.Hash(blake3.Sum256(bts)), h1)

	decoded, err := base58.Decode(h1.String())
	require.NoError(t, err)
	require.Equal(t, h1[:], decoded)

	h3, err := borsh.Digest(typ, map[string]interface{}{"x": []int{1}})
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)

	_, err = borsh.Digest(typ, "not a map")
	require.Error(t, err)
}

func TestContextDigest(t *testing.T) {
	ctx := borsh.NewContext(borsh.Options{Reuse: true})
	h, err := ctx.Digest(borsh.U8, 1)
	require.NoError(t, err)
	require.Equal(t, borsh.Hash(blake3.Sum256([]byte{1})), h)
}
