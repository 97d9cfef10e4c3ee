package borsh_test

import (
	"fmt"
	"testing"

	"github.com/eluv-io/errors-go"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/borsh-go/format/borsh"
)

func TestMemoGet(t *testing.T) {
	memo := borsh.NewMemo(0)

	builds := 0
	build := func() (borsh.Type, error) {
		builds++
		return borsh.Vector(point), nil
	}

	first, err := memo.Get("points", build)
	require.NoError(t, err)
	second, err := memo.Get("points", build)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, builds)
	require.Equal(t, 1, memo.Len())

	stats := memo.Stats()
	require.Equal(t, "borsh-descriptors", stats.Name)
	require.Equal(t, borsh.DefaultMemoSize, stats.Config.MaxItems)
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(1), stats.Misses)
}

func TestMemoErrors(t *testing.T) {
	memo := borsh.NewMemo(4)

	_, err := memo.Get("bad", func() (borsh.Type, error) {
		return borsh.NewRecord(borsh.F("a", borsh.U8), borsh.F("a", borsh.U8))
	})
	require.Error(t, err)
	require.True(t, errors.IsKind(borsh.K.Value, err))

	_, err = memo.Get("nil", func() (borsh.Type, error) { return nil, nil })
	require.True(t, errors.IsKind(borsh.K.Type, err))

	// failures are not cached
	require.Equal(t, 0, memo.Len())
	typ, err := memo.Get("bad", func() (borsh.Type, error) { return borsh.U8, nil })
	require.NoError(t, err)
	require.Equal(t, borsh.U8, typ)
	require.Equal(t, int64(2), memo.Stats().Errors)
}

func TestMemoEviction(t *testing.T) {
	memo := borsh.NewMemo(2)
	for i := 0; i < 3; i++ {
		_, err := memo.Get(fmt.Sprint("array", i), func() (borsh.Type, error) {
			return borsh.Array(borsh.U8, i), nil
		})
		require.NoError(t, err)
	}
	require.Equal(t, 2, memo.Len())
	require.Equal(t, int64(3), memo.Stats().Added)
	require.Equal(t, int64(1), memo.Stats().Removed)

	// the evicted descriptor is built again
	builds := 0
	_, err := memo.Get("array0", func() (borsh.Type, error) {
		builds++
		return borsh.Array(borsh.U8, 0), nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, builds)
}

func TestMemoIntern(t *testing.T) {
	memo := borsh.NewMemo(0)

	a := memo.Intern(borsh.Map(borsh.String, borsh.Vector(borsh.U8)))
	b := memo.Intern(borsh.Map(borsh.String, borsh.Vector(borsh.U8)))
	require.Same(t, a, b)

	c := memo.Intern(borsh.Map(borsh.String, borsh.Vector(borsh.U16)))
	require.NotSame(t, a, c)
	require.Equal(t, 2, memo.Len())

	require.Nil(t, memo.Intern(nil))
}

func TestMemoNil(t *testing.T) {
	var memo *borsh.Memo

	typ, err := memo.Get("x", func() (borsh.Type, error) { return borsh.U8, nil })
	require.NoError(t, err)
	require.Equal(t, borsh.U8, typ)

	vec := borsh.Vector(borsh.U8)
	require.Same(t, vec, memo.Intern(vec))
	require.Equal(t, 0, memo.Len())
	require.Equal(t, int64(0), memo.Stats().Hits)
}
