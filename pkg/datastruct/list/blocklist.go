package list

import (
	"fmt"
	"iter"
	"log/slog"
	"math"

	"seqlist/pkg/malloc"
)

// BlockList 由定长环形块组成的双向循环链表
// 除最后一块外每块元素数保持在 [b-1, b+1]，浪费空间为 O(b + n/b)
type BlockList[T any] struct {
	root    node[T] // 哨兵，不存放数据
	size    int
	b       int
	blocks  int
	spreads uint64
	gathers uint64

	alloc   Allocator[T]
	metrics Metrics
	logger  *slog.Logger
}

type node[T any] struct {
	blk  *Block[T]
	prev *node[T]
	next *node[T]
}

type Stats struct {
	Size      int
	Blocks    int
	BlockSize int
	// Slack 已分配但未使用的槽位数
	Slack   int
	Spreads uint64
	Gathers uint64
}

// New 创建块大小为 blockSize 的空链表，每块容量为 blockSize+1
func New[T any](blockSize int, opts ...Option[T]) (*BlockList[T], error) {
	if blockSize < 1 {
		return nil, ErrInvalidBlockSize
	}
	l := &BlockList[T]{
		b:     blockSize,
		alloc: malloc.Heap[T]{},
	}
	l.root.next = &l.root
	l.root.prev = &l.root
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// MakeBlockList 使用堆分配器创建链表并依次追加 vals
func MakeBlockList[T any](blockSize int, vals ...T) *BlockList[T] {
	l, err := New[T](blockSize)
	if err != nil {
		panic(err)
	}
	for _, v := range vals {
		// 堆分配器不会失败
		_ = l.Add(v)
	}
	return l
}

// SqrtBlockSize 返回 ceil(sqrt(n))，至少为 1
func SqrtBlockSize(n int) int {
	b := int(math.Ceil(math.Sqrt(float64(n))))
	if b < 1 {
		return 1
	}
	return b
}

func (l *BlockList[T]) Len() int {
	return l.size
}

func (l *BlockList[T]) BlockSize() int {
	return l.b
}

func (l *BlockList[T]) Stats() Stats {
	return Stats{
		Size:      l.size,
		Blocks:    l.blocks,
		BlockSize: l.b,
		Slack:     l.blocks*(l.b+1) - l.size,
		Spreads:   l.spreads,
		Gathers:   l.gathers,
	}
}

func (l *BlockList[T]) checkIndex(index, limit int) {
	if index < 0 || index >= limit {
		panic(fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfBound, index, l.size))
	}
}

// locate 将全局下标映射为 (节点, 块内偏移)，从较近的一端开始扫描
func (l *BlockList[T]) locate(index int) (*node[T], int) {
	if index < l.size/2 {
		u := l.root.next
		for index >= u.blk.Len() {
			index -= u.blk.Len()
			u = u.next
		}
		return u, index
	}
	u := &l.root
	beg := l.size
	for index < beg {
		u = u.prev
		beg -= u.blk.Len()
	}
	return u, index - beg
}

// newNode 分配一个未接入链表的节点，失败时不修改任何结构
func (l *BlockList[T]) newNode() (*node[T], error) {
	buf, err := l.alloc.Alloc(l.b + 1)
	if err != nil {
		if l.metrics != nil {
			l.metrics.RecordAllocFailure()
		}
		if l.logger != nil {
			l.logger.Debug("block allocation failed", "block_size", l.b, "blocks", l.blocks, "err", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return &node[T]{blk: NewBlock(buf[:l.b+1])}, nil
}

// addBefore 将 u 接入到 w 之前
func (l *BlockList[T]) addBefore(w, u *node[T]) {
	u.prev = w.prev
	u.next = w
	u.next.prev = u
	u.prev.next = u
	l.blocks++
	if l.metrics != nil {
		l.metrics.RecordBlocks(l.blocks)
	}
}

// unlink 摘除节点并归还其块的存储
func (l *BlockList[T]) unlink(u *node[T]) {
	u.prev.next = u.next
	u.next.prev = u.prev
	u.blk.Reset()
	l.alloc.Free(u.blk.buf)
	u.blk = nil
	u.prev = nil
	u.next = nil
	l.blocks--
	if l.metrics != nil {
		l.metrics.RecordBlocks(l.blocks)
	}
}

// Get 获取指定索引位置的元素
func (l *BlockList[T]) Get(index int) T {
	l.checkIndex(index, l.size)
	u, j := l.locate(index)
	return u.blk.Get(j)
}

// Set 修改指定索引位置的元素并返回旧值
func (l *BlockList[T]) Set(index int, val T) T {
	l.checkIndex(index, l.size)
	u, j := l.locate(index)
	return u.blk.Set(j, val)
}

// Add 尾插，最后一块已满时新建一块
func (l *BlockList[T]) Add(val T) error {
	last := l.root.prev
	if last == &l.root || last.blk.Full() {
		u, err := l.newNode()
		if err != nil {
			return err
		}
		l.addBefore(&l.root, u)
		last = u
	}
	last.blk.Add(last.blk.Len(), val)
	l.size++
	return nil
}

// Insert 在 index 处插入
// 从目标块开始向后找第一个未满的块，把每块的末尾元素依次后移一块腾出空位；
// 若连续 b 块都已满则先 spread
func (l *BlockList[T]) Insert(index int, val T) error {
	l.checkIndex(index, l.size+1)
	if index == l.size {
		return l.Add(val)
	}
	u, j := l.locate(index)
	w := u
	r := 0
	for r < l.b && w != &l.root && w.blk.Full() {
		w = w.next
		r++
	}
	if r == l.b {
		if err := l.spread(u); err != nil {
			return err
		}
		w = u
	} else if w == &l.root {
		nu, err := l.newNode()
		if err != nil {
			return err
		}
		l.addBefore(&l.root, nu)
		w = nu
	}
	for w != u {
		w.blk.Add(0, w.prev.blk.Remove(w.prev.blk.Len()-1))
		w = w.prev
	}
	u.blk.Add(j, val)
	l.size++
	return nil
}

// spread 在 u 起的 b 个满块之后插入新块，向后逐个搬运使 b+1 块各有 b 个元素
func (l *BlockList[T]) spread(u *node[T]) error {
	nu, err := l.newNode()
	if err != nil {
		return err
	}
	w := u
	for k := 0; k < l.b; k++ {
		w = w.next
	}
	l.addBefore(w, nu)
	w = nu
	for w != u {
		for w.blk.Len() < l.b {
			w.blk.Add(0, w.prev.blk.Remove(w.prev.blk.Len()-1))
		}
		w = w.prev
	}
	l.spreads++
	if l.metrics != nil {
		l.metrics.ObserveSpread(l.b + 1)
	}
	if l.logger != nil {
		l.logger.Debug("spread", "block_size", l.b, "blocks", l.blocks, "size", l.size)
	}
	return nil
}

// Remove 删除 index 处的元素并返回
// 若从目标块起连续 b 块都只有 b-1 个元素则先 gather
func (l *BlockList[T]) Remove(index int) T {
	l.checkIndex(index, l.size)
	u, j := l.locate(index)
	w := u
	r := 0
	for r < l.b && w != &l.root && w.blk.Len() == l.b-1 {
		w = w.next
		r++
	}
	if r == l.b {
		l.gather(u)
	}
	val := u.blk.Remove(j)
	w = u
	for w.blk.Len() < l.b-1 && w.next != &l.root {
		w.blk.Add(w.blk.Len(), w.next.blk.Remove(0))
		w = w.next
	}
	if w.blk.Len() == 0 {
		l.unlink(w)
	}
	l.size--
	return val
}

// gather 把 u 起的 b 个各有 b-1 个元素的块合并成 b-1 个满 b 的块，删除最后一块
func (l *BlockList[T]) gather(u *node[T]) {
	w := u
	for k := 0; k < l.b-1; k++ {
		for w.blk.Len() < l.b {
			w.blk.Add(w.blk.Len(), w.next.blk.Remove(0))
		}
		w = w.next
	}
	l.unlink(w)
	l.gathers++
	if l.metrics != nil {
		l.metrics.ObserveGather(l.b)
	}
	if l.logger != nil {
		l.logger.Debug("gather", "block_size", l.b, "blocks", l.blocks, "size", l.size)
	}
}

// RemoveLast 删除尾元素，链表为空时返回 false
func (l *BlockList[T]) RemoveLast() (T, bool) {
	if l.size == 0 {
		var zero T
		return zero, false
	}
	return l.Remove(l.size - 1), true
}

// Destroy 释放所有块，返回释放的节点数；之后链表为空且可继续使用
func (l *BlockList[T]) Destroy() int {
	released := 0
	for u := l.root.next; u != &l.root; {
		next := u.next
		l.unlink(u)
		released++
		u = next
	}
	l.size = 0
	return released
}

// ForEach 遍历链表, consumer 返回 false 时提前停止
func (l *BlockList[T]) ForEach(consumer Consumer[T]) {
	i := 0
	for u := l.root.next; u != &l.root; u = u.next {
		for j := 0; j < u.blk.Len(); j++ {
			if !consumer(i, u.blk.Get(j)) {
				return
			}
			i++
		}
	}
}

func (l *BlockList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		l.ForEach(yield)
	}
}

// Contains 是否存在某个满足条件的值
func (l *BlockList[T]) Contains(exp Expected[T]) bool {
	contains := false
	l.ForEach(func(i int, actual T) bool {
		if exp(actual) {
			contains = true
			return false
		}
		return true
	})
	return contains
}

// Range 返回区间 [start, end) 的切片
func (l *BlockList[T]) Range(start int, end int) []T {
	if start < 0 || start > l.size || end < 0 || end > l.size {
		panic(fmt.Errorf("%w: range [%d, %d), size %d", ErrIndexOutOfBound, start, end, l.size))
	}
	if start > end {
		panic(fmt.Errorf("%w: start %d > end %d", ErrIndexOutOfBound, start, end))
	}
	slice := make([]T, 0, end-start)
	if start == end {
		return slice
	}
	u, j := l.locate(start)
	for len(slice) < end-start {
		slice = append(slice, u.blk.Get(j))
		j++
		if j == u.blk.Len() {
			u, j = u.next, 0
		}
	}
	return slice
}

// RemoveAllByVal 删除所有满足 exp 的元素
func (l *BlockList[T]) RemoveAllByVal(exp Expected[T]) int {
	return l.removeWhere(exp, 0)
}

// RemoveByVal 从头部开始删除前 count 个满足条件的元素
func (l *BlockList[T]) RemoveByVal(exp Expected[T], count int) int {
	return l.removeWhere(exp, count)
}

func (l *BlockList[T]) removeWhere(exp Expected[T], count int) int {
	removed := 0
	i := 0
	u, j := l.root.next, 0
	for i < l.size {
		if exp(u.blk.Get(j)) {
			l.Remove(i)
			removed++
			if removed == count {
				break
			}
			// 删除可能触发 gather 或借位，重新定位
			if i < l.size {
				u, j = l.locate(i)
			}
			continue
		}
		i++
		j++
		if j == u.blk.Len() {
			u, j = u.next, 0
		}
	}
	return removed
}

// ReverseRemoveByVal 从尾部开始删除前 count 个满足条件的元素
func (l *BlockList[T]) ReverseRemoveByVal(exp Expected[T], count int) int {
	removed := 0
	i := l.size - 1
	if i < 0 {
		return 0
	}
	u := l.root.prev
	j := u.blk.Len() - 1
	for i >= 0 {
		if exp(u.blk.Get(j)) {
			l.Remove(i)
			removed++
			if removed == count {
				break
			}
			i--
			if i >= 0 {
				u, j = l.locate(i)
			}
			continue
		}
		i--
		j--
		if j < 0 {
			u = u.prev
			if u != &l.root {
				j = u.blk.Len() - 1
			}
		}
	}
	return removed
}

// Verify 检查环形链接、计数与各块占用区间
func (l *BlockList[T]) Verify() error {
	total, blocks := 0, 0
	for u := l.root.next; u != &l.root; u = u.next {
		if u.next.prev != u || u.prev.next != u {
			return fmt.Errorf("%w: broken link at block %d", ErrCorrupted, blocks)
		}
		if u.blk == nil || u.blk.Cap() != l.b+1 {
			return fmt.Errorf("%w: block %d has wrong capacity", ErrCorrupted, blocks)
		}
		n := u.blk.Len()
		if u.next == &l.root {
			if n < 1 || n > l.b+1 {
				return fmt.Errorf("%w: last block %d holds %d", ErrCorrupted, blocks, n)
			}
		} else if n < l.b-1 || n > l.b+1 {
			return fmt.Errorf("%w: block %d holds %d, want [%d, %d]", ErrCorrupted, blocks, n, l.b-1, l.b+1)
		}
		total += n
		blocks++
	}
	if l.root.prev.next != &l.root {
		return fmt.Errorf("%w: broken sentinel", ErrCorrupted)
	}
	if total != l.size {
		return fmt.Errorf("%w: blocks hold %d, size is %d", ErrCorrupted, total, l.size)
	}
	if blocks != l.blocks {
		return fmt.Errorf("%w: counted %d blocks, tracked %d", ErrCorrupted, blocks, l.blocks)
	}
	return nil
}

// layout 返回每块元素数
func (l *BlockList[T]) layout() []int {
	counts := make([]int, 0, l.blocks)
	for u := l.root.next; u != &l.root; u = u.next {
		counts = append(counts, u.blk.Len())
	}
	return counts
}
