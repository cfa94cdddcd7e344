package workload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqlist/internal/config"
	"seqlist/pkg/datastruct/list"
)

func blockFactory(b int) Factory {
	return func() (list.List[string], error) {
		l, err := list.New[string](b)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}

func linkedFactory() (list.List[string], error) {
	return list.Make[string](), nil
}

func smallBench() config.BenchConfig {
	return config.BenchConfig{Size: 200, Ops: 500, Seed: 9, ValueLen: 4}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"append", "insert", "remove", "get", "set", "mixed"} {
		k, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, Kind(s), k)
	}
	_, err := ParseKind("shuffle")
	assert.Error(t, err)
}

func TestRunner_AllKinds(t *testing.T) {
	r := NewRunner(smallBench())
	for _, k := range []Kind{Append, Insert, Remove, Get, Set, Mixed} {
		t.Run(string(k), func(t *testing.T) {
			res, err := r.Run(context.Background(), "block", k, blockFactory(8))
			require.NoError(t, err)
			assert.Equal(t, 500, res.Ops)
			assert.Equal(t, k, res.Workload)
			assert.True(t, res.HasStats)
			assert.GreaterOrEqual(t, res.NsPerOp(), 0.0)

			switch k {
			case Append, Insert:
				assert.Equal(t, 700, res.Stats.Size)
			case Remove:
				assert.Equal(t, 200, res.Stats.Size)
			case Get, Set:
				assert.Equal(t, 200, res.Stats.Size)
			}

			lres, err := r.Run(context.Background(), "linked", k, linkedFactory)
			require.NoError(t, err)
			assert.False(t, lres.HasStats)
		})
	}
}

func TestRunner_SameSequenceAcrossImpls(t *testing.T) {
	r := NewRunner(smallBench())
	var block, linked list.List[string]
	_, err := r.Run(context.Background(), "block", Mixed, func() (list.List[string], error) {
		l, err := list.New[string](3)
		block = l
		return l, err
	})
	require.NoError(t, err)
	_, err = r.Run(context.Background(), "linked", Mixed, func() (list.List[string], error) {
		linked = list.Make[string]()
		return linked, nil
	})
	require.NoError(t, err)
	assert.Equal(t, linked.Range(0, linked.Len()), block.Range(0, block.Len()))
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(smallBench()).Run(ctx, "block", Get, blockFactory(4))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_FactoryError(t *testing.T) {
	_, err := NewRunner(smallBench()).Run(context.Background(), "block", Get, blockFactory(0))
	require.ErrorIs(t, err, list.ErrInvalidBlockSize)
}

func TestResult_NsPerOp(t *testing.T) {
	assert.Equal(t, 0.0, Result{}.NsPerOp())
	assert.Equal(t, 50.0, Result{Ops: 2, Elapsed: 100}.NsPerOp())
}
