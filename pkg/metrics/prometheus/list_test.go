package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqlist/pkg/datastruct/list"
	"seqlist/pkg/malloc"
	"seqlist/pkg/metrics"
)

func TestNewListMetrics_Disabled(t *testing.T) {
	metrics.Disable()
	assert.Nil(t, NewListMetrics("block"))
}

func TestListMetrics_Counts(t *testing.T) {
	reg := metrics.InitRegistry()
	t.Cleanup(metrics.Disable)

	m := NewListMetrics("unit")
	require.NotNil(t, m)
	m.ObserveSpread(3)
	m.ObserveSpread(3)
	m.ObserveGather(3)
	m.RecordBlocks(7)
	m.RecordAllocFailure()

	c := collectorsFor(reg)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.spreads.WithLabelValues("unit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.gathers.WithLabelValues("unit")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.blocks.WithLabelValues("unit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.allocFailures.WithLabelValues("unit")))

	// 同一 registry 上再次构造不会重复注册
	assert.NotPanics(t, func() { NewListMetrics("other") })
}

func TestListMetrics_WiredIntoBlockList(t *testing.T) {
	reg := metrics.InitRegistry()
	t.Cleanup(metrics.Disable)

	l, err := list.New[int](3,
		list.WithMetrics[int](NewListMetrics("wired")),
		list.WithAllocator[int](malloc.NewPool[int](2)),
	)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		require.NoError(t, l.Add(i))
	}
	// 第三个块分配失败
	require.ErrorIs(t, l.Add(8), list.ErrOutOfMemory)

	c := collectorsFor(reg)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.blocks.WithLabelValues("wired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.allocFailures.WithLabelValues("wired")))
}
