// Package workload 在 list.List 实现上回放可复现的随机操作序列
package workload

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"seqlist/internal/config"
	"seqlist/pkg/datastruct/list"
	"seqlist/pkg/logger"
	"seqlist/pkg/utils"
)

type Kind string

const (
	Append Kind = "append"
	Insert Kind = "insert"
	Remove Kind = "remove"
	Get    Kind = "get"
	Set    Kind = "set"
	Mixed  Kind = "mixed"
)

// ParseKind 将配置中的名称转换为 Kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Append, Insert, Remove, Get, Set, Mixed:
		return k, nil
	}
	return "", fmt.Errorf("unknown workload %q", s)
}

// Factory 创建一个空链表
type Factory func() (list.List[string], error)

// statser 由 BlockList 实现
type statser interface {
	Stats() list.Stats
}

type Result struct {
	Impl     string
	Workload Kind
	Ops      int
	Elapsed  time.Duration
	// Stats 仅当实现为 BlockList 时有效
	Stats    list.Stats
	HasStats bool
}

func (r Result) NsPerOp() float64 {
	if r.Ops == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Ops)
}

// 每隔多少次操作检查一次 ctx
const ctxCheckInterval = 1024

// 预生成的值个数，避免计时中包含字符串生成
const valuePoolSize = 1024

// Runner 按 BenchConfig 执行基准负载
type Runner struct {
	size     int
	ops      int
	seed     uint64
	valueLen int
}

func NewRunner(cfg config.BenchConfig) *Runner {
	return &Runner{
		size:     cfg.Size,
		ops:      cfg.Ops,
		seed:     cfg.Seed,
		valueLen: cfg.ValueLen,
	}
}

// Run 预填充 size 个元素后执行 ops 次 kind 操作，仅对操作阶段计时
// 相同 seed 下不同实现看到的操作序列完全一致
func (r *Runner) Run(ctx context.Context, impl string, kind Kind, newList Factory) (Result, error) {
	l, err := newList()
	if err != nil {
		return Result{}, fmt.Errorf("%s: create list: %w", impl, err)
	}
	rng := utils.NewRand(r.seed)
	values := make([]string, valuePoolSize)
	for i := range values {
		values[i] = utils.RandString(rng, r.valueLen)
	}

	prefill := r.size
	if kind == Remove {
		// 保证删除阶段不会把链表删空
		prefill += r.ops
	}
	for i := 0; i < prefill; i++ {
		if err := l.Add(values[i%valuePoolSize]); err != nil {
			return Result{}, fmt.Errorf("%s: prefill at %d: %w", impl, i, err)
		}
	}
	logger.Debug("workload prefilled", "impl", impl, "workload", string(kind), "size", l.Len())

	start := time.Now()
	for i := 0; i < r.ops; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("%s/%s interrupted after %d ops: %w", impl, kind, i, err)
			}
		}
		if err := step(l, kind, rng, values[i%valuePoolSize]); err != nil {
			return Result{}, fmt.Errorf("%s/%s op %d: %w", impl, kind, i, err)
		}
	}
	res := Result{
		Impl:     impl,
		Workload: kind,
		Ops:      r.ops,
		Elapsed:  time.Since(start),
	}
	if s, ok := l.(statser); ok {
		res.Stats = s.Stats()
		res.HasStats = true
	}
	logger.Debug("workload done", "impl", impl, "workload", string(kind),
		"ops", res.Ops, "elapsed", res.Elapsed)
	return res, nil
}

func step(l list.List[string], kind Kind, rng *rand.Rand, val string) error {
	switch kind {
	case Append:
		return l.Add(val)
	case Insert:
		return l.Insert(rng.IntN(l.Len()+1), val)
	case Remove:
		l.Remove(rng.IntN(l.Len()))
	case Get:
		if l.Len() > 0 {
			l.Get(rng.IntN(l.Len()))
		}
	case Set:
		if l.Len() > 0 {
			l.Set(rng.IntN(l.Len()), val)
		}
	case Mixed:
		// 40% get, 20% set, 20% insert, 20% remove
		p := rng.IntN(10)
		switch {
		case l.Len() == 0 || p < 2:
			return l.Insert(rng.IntN(l.Len()+1), val)
		case p < 4:
			l.Remove(rng.IntN(l.Len()))
		case p < 6:
			l.Set(rng.IntN(l.Len()), val)
		default:
			l.Get(rng.IntN(l.Len()))
		}
	default:
		return fmt.Errorf("unknown workload %q", kind)
	}
	return nil
}
