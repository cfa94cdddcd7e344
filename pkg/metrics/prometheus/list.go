package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"seqlist/pkg/datastruct/list"
	"seqlist/pkg/metrics"
)

type listCollectors struct {
	spreads       *prometheus.CounterVec
	gathers       *prometheus.CounterVec
	rebalanced    *prometheus.HistogramVec
	blocks        *prometheus.GaugeVec
	allocFailures *prometheus.CounterVec
}

var (
	mu         sync.Mutex
	registered = map[*prometheus.Registry]*listCollectors{}
)

func collectorsFor(reg *prometheus.Registry) *listCollectors {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := registered[reg]; ok {
		return c
	}
	f := promauto.With(reg)
	c := &listCollectors{
		spreads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "seqlist_spreads_total",
			Help: "Number of spread rebalances (b full blocks split into b+1)",
		}, []string{"list"}),
		gathers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "seqlist_gathers_total",
			Help: "Number of gather rebalances (b sparse blocks merged into b-1)",
		}, []string{"list"}),
		rebalanced: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seqlist_rebalance_blocks",
			Help:    "Blocks touched by a single spread or gather",
			Buckets: prometheus.ExponentialBuckets(2, 2, 12),
		}, []string{"list", "kind"}),
		blocks: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "seqlist_blocks",
			Help: "Blocks currently linked into the list",
		}, []string{"list"}),
		allocFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "seqlist_alloc_failures_total",
			Help: "Block allocations refused by the allocator",
		}, []string{"list"}),
	}
	registered[reg] = c
	return c
}

// listMetrics 是 list.Metrics 的 Prometheus 实现
type listMetrics struct {
	spreads       prometheus.Counter
	gathers       prometheus.Counter
	spreadBlocks  prometheus.Observer
	gatherBlocks  prometheus.Observer
	blocks        prometheus.Gauge
	allocFailures prometheus.Counter
}

// NewListMetrics 返回以 name 为 list 标签的指标，未启用时返回 nil
func NewListMetrics(name string) list.Metrics {
	reg := metrics.GetRegistry()
	if reg == nil {
		return nil
	}
	c := collectorsFor(reg)
	return &listMetrics{
		spreads:       c.spreads.WithLabelValues(name),
		gathers:       c.gathers.WithLabelValues(name),
		spreadBlocks:  c.rebalanced.WithLabelValues(name, "spread"),
		gatherBlocks:  c.rebalanced.WithLabelValues(name, "gather"),
		blocks:        c.blocks.WithLabelValues(name),
		allocFailures: c.allocFailures.WithLabelValues(name),
	}
}

func (m *listMetrics) ObserveSpread(blocks int) {
	m.spreads.Inc()
	m.spreadBlocks.Observe(float64(blocks))
}

func (m *listMetrics) ObserveGather(blocks int) {
	m.gathers.Inc()
	m.gatherBlocks.Observe(float64(blocks))
}

func (m *listMetrics) RecordBlocks(count int) {
	m.blocks.Set(float64(count))
}

func (m *listMetrics) RecordAllocFailure() {
	m.allocFailures.Inc()
}
