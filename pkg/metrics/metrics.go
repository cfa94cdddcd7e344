// Package metrics 持有进程级 Prometheus registry
//
// 未调用 InitRegistry 时 IsEnabled 为 false，pkg/metrics/prometheus 中的构造函数
// 返回 nil，BlockList 将其视为不采集指标
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry 创建带 Go runtime 与进程采集器的 registry，重复调用会替换旧的
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mu.Lock()
	registry = reg
	mu.Unlock()
	return reg
}

func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry 未启用时返回 nil
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// Disable 丢弃 registry，主要用于测试
func Disable() {
	mu.Lock()
	registry = nil
	mu.Unlock()
}
