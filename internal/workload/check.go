package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"seqlist/pkg/datastruct/list"
	"seqlist/pkg/logger"
	"seqlist/pkg/malloc"
	"seqlist/pkg/utils"
)

var ErrMismatch = errors.New("block list diverged from reference")

// CheckReport 一次差分检查的结果
type CheckReport struct {
	BlockSize    int
	Ops          int
	AllocRefused int
	Final        list.Stats
}

// Checker 用 LinkedList 作为参照，对 BlockList 执行随机操作并逐步比对
type Checker struct {
	Ops       int
	Seed      uint64
	MaxBlocks int
	// Options 附加到被测 BlockList，例如指标或日志
	Options []list.Option[int]
}

// Run 对块大小 blockSize 执行检查，每步后校验结构不变量
// MaxBlocks > 0 时使用受限分配器，额外验证分配失败不改变链表
func (c *Checker) Run(ctx context.Context, blockSize int) (CheckReport, error) {
	report := CheckReport{BlockSize: blockSize}
	opts := slices.Clone(c.Options)
	var pool *malloc.Pool[int]
	if c.MaxBlocks > 0 {
		pool = malloc.NewPool[int](c.MaxBlocks)
		opts = append(opts, list.WithAllocator[int](pool))
	}
	bl, err := list.New[int](blockSize, opts...)
	if err != nil {
		return report, err
	}
	ref := list.Make[int]()
	rng := utils.NewRand(c.Seed + uint64(blockSize))

	for i := 0; i < c.Ops; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return report, err
			}
		}
		refused, err := checkStep(bl, ref, rng, i)
		if err != nil {
			return report, fmt.Errorf("block size %d, op %d: %w", blockSize, i, err)
		}
		if refused {
			report.AllocRefused++
		}
		if err := bl.Verify(); err != nil {
			return report, fmt.Errorf("block size %d, op %d: %w", blockSize, i, err)
		}
		report.Ops++
	}
	if err := sameContents(bl, ref); err != nil {
		return report, fmt.Errorf("block size %d: %w", blockSize, err)
	}
	report.Final = bl.Stats()

	released := bl.Destroy()
	if pool != nil {
		if st := pool.Stats(); st.InUse != 0 {
			return report, fmt.Errorf("block size %d: %w: %d buffers still in use after destroy", blockSize, ErrMismatch, st.InUse)
		}
	}
	logger.Debug("check done", "block_size", blockSize, "ops", report.Ops,
		"released", released, "refused", report.AllocRefused)
	return report, nil
}

// checkStep 对两个链表执行同一随机操作，返回分配是否被拒绝
func checkStep(bl *list.BlockList[int], ref *list.LinkedList[int], rng *rand.Rand, val int) (bool, error) {
	n := ref.Len()
	p := rng.IntN(100)
	switch {
	case n == 0 || p < 35:
		i := rng.IntN(n + 1)
		if err := bl.Insert(i, val); err != nil {
			if !errors.Is(err, list.ErrOutOfMemory) {
				return false, err
			}
			// 分配失败时链表必须保持原样
			return true, sameContents(bl, ref)
		}
		_ = ref.Insert(i, val)
	case p < 45:
		if err := bl.Add(val); err != nil {
			if !errors.Is(err, list.ErrOutOfMemory) {
				return false, err
			}
			return true, sameContents(bl, ref)
		}
		_ = ref.Add(val)
	case p < 75:
		i := rng.IntN(n)
		if got, want := bl.Remove(i), ref.Remove(i); got != want {
			return false, fmt.Errorf("%w: remove(%d) = %d, want %d", ErrMismatch, i, got, want)
		}
	case p < 85:
		i := rng.IntN(n)
		if got, want := bl.Set(i, val), ref.Set(i, val); got != want {
			return false, fmt.Errorf("%w: set(%d) returned %d, want %d", ErrMismatch, i, got, want)
		}
	case p < 95:
		i := rng.IntN(n)
		if got, want := bl.Get(i), ref.Get(i); got != want {
			return false, fmt.Errorf("%w: get(%d) = %d, want %d", ErrMismatch, i, got, want)
		}
	default:
		got, ok1 := bl.RemoveLast()
		want, ok2 := ref.RemoveLast()
		if got != want || ok1 != ok2 {
			return false, fmt.Errorf("%w: removeLast = (%d, %v), want (%d, %v)", ErrMismatch, got, ok1, want, ok2)
		}
	}
	if bl.Len() != ref.Len() {
		return false, fmt.Errorf("%w: len %d, want %d", ErrMismatch, bl.Len(), ref.Len())
	}
	return false, nil
}

func sameContents(bl *list.BlockList[int], ref *list.LinkedList[int]) error {
	if bl.Len() != ref.Len() {
		return fmt.Errorf("%w: len %d, want %d", ErrMismatch, bl.Len(), ref.Len())
	}
	got := bl.Range(0, bl.Len())
	want := ref.Range(0, ref.Len())
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%w: element %d is %d, want %d", ErrMismatch, i, got[i], want[i])
		}
	}
	return nil
}
