package borsh_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/eluv-io/errors-go"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/borsh-go/format/borsh"
)

var tagged = borsh.MustRecord(
	borsh.F("id", borsh.U32),
	borsh.F("tags", borsh.Set(borsh.String)),
	borsh.F("attrs", borsh.Map(borsh.String, borsh.I64)),
)

func taggedValue(i int) map[string]interface{} {
	return map[string]interface{}{
		"id":    i,
		"tags":  []string{"t" + fmt.Sprint(i%3), "common", "z"},
		"attrs": map[string]interface{}{"a": i, "b": -i, fmt.Sprint("k", i): 0},
	}
}

func TestContextModes(t *testing.T) {
	fresh := borsh.NewContext(borsh.DefaultOptions())
	reuse := borsh.NewContext(borsh.Options{Reuse: true, Validate: true, BufferSize: 8})

	require.Equal(t, borsh.DefaultBufferSize, fresh.Options().BufferSize)
	require.True(t, reuse.Options().Reuse)

	var results [][]byte
	for i := 0; i < 5; i++ {
		expected, err := fresh.Encode(tagged, taggedValue(i))
		require.NoError(t, err)

		bts, err := reuse.Encode(tagged, taggedValue(i))
		require.NoError(t, err)
		require.Equal(t, expected, bts)
		results = append(results, bts)

		v, err := reuse.Decode(tagged, bts)
		require.NoError(t, err)
		w, err := fresh.Decode(tagged, bts)
		require.NoError(t, err)
		require.Equal(t, w, v)
	}

	// results are owned by the caller and not overwritten by later calls
	for i, bts := range results {
		expected, err := fresh.Encode(tagged, taggedValue(i))
		require.NoError(t, err)
		require.Equal(t, expected, bts)
	}
}

func TestContextConcurrency(t *testing.T) {
	for _, opts := range []borsh.Options{
		borsh.DefaultOptions(),
		{Reuse: true, Validate: true},
	} {
		ctx := borsh.NewContext(opts)
		wg := sync.WaitGroup{}
		errs := make(chan error, 100)
		for g := 0; g < 10; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 10; i++ {
					n := g*10 + i
					bts, err := ctx.Encode(tagged, taggedValue(n))
					if err != nil {
						errs <- err
						return
					}
					v, err := ctx.Decode(tagged, bts)
					if err != nil {
						errs <- err
						return
					}
					if id := v.(map[string]interface{})["id"]; id != uint32(n) {
						errs <- errors.E("roundtrip", errors.K.Invalid, "expected", n, "actual", id)
						return
					}
				}
			}(g)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	}
}

func TestContextErrors(t *testing.T) {
	ctx := borsh.NewContext(borsh.DefaultOptions())

	_, err := ctx.Encode(nil, 1)
	require.True(t, errors.IsKind(borsh.K.Type, err))
	_, err = ctx.Decode(nil, []byte{1})
	require.True(t, errors.IsKind(borsh.K.Type, err))

	_, err = ctx.Decode(borsh.U32, nil)
	require.True(t, errors.IsKind(borsh.K.Truncated, err))

	// trailing bytes are ignored at the top level
	v, err := ctx.Decode(borsh.U16, []byte{1, 0, 0xff, 0xff})
	require.NoError(t, err)
	require.Equal(t, uint16(1), v)

	// a failed call does not affect the next one in reuse mode
	reuse := borsh.NewContext(borsh.Options{Reuse: true, Validate: true})
	_, err = reuse.Encode(point, map[string]interface{}{"x": 1})
	require.Error(t, err)
	bts, err := reuse.Encode(point, map[string]interface{}{"x": 1, "y": "z"})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 1, 0, 0, 0, 'z'}, bts)
}

func TestContextMetrics(t *testing.T) {
	set := metrics.NewSet()
	m := borsh.NewMetrics(set, "test")
	ctx := borsh.NewContext(borsh.Options{Validate: true, Metrics: m})

	bts, err := ctx.Encode(point, map[string]interface{}{"x": 1, "y": "abc"})
	require.NoError(t, err)
	_, err = ctx.Decode(point, append(bts, 0xff))
	require.NoError(t, err)
	_, err = ctx.Encode(point, map[string]interface{}{"x": 1})
	require.Error(t, err)

	require.Equal(t, uint64(1), m.Encodes.Get())
	require.Equal(t, uint64(len(bts)), m.EncodedBytes.Get())
	require.Equal(t, uint64(1), m.Decodes.Get())
	// consumed bytes only
	require.Equal(t, uint64(len(bts)), m.DecodedBytes.Get())
	require.Equal(t, uint64(1), m.Failures.Get())

	// same set and name share the counters
	require.Equal(t, uint64(1), borsh.NewMetrics(set, "test").Encodes.Get())
	require.Equal(t, uint64(0), borsh.NewMetrics(set, "other").Encodes.Get())
}

func TestPackageFunctions(t *testing.T) {
	bts, err := borsh.Encode(borsh.Vector(borsh.U8), []byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, []byte{2, 0, 0, 0, 1, 2}, bts)

	v, err := borsh.Decode(borsh.Vector(borsh.U8), bts)
	require.NoError(t, err)
	require.Equal(t, []interface{}{uint8(1), uint8(2)}, v)

	// validation is on
	_, err = borsh.Encode(borsh.U8, -1)
	require.True(t, errors.IsKind(borsh.K.Range, err))
}
