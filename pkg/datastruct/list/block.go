package list

import "fmt"

// Block 定长环形缓冲区，容量在创建后不再变化
// 逻辑偏移 j 的元素位于 buf[(head+j) % cap]
type Block[T any] struct {
	buf  []T
	head int
	n    int
}

// NewBlock 使用 buf 作为底层存储创建空块，不会再分配内存
func NewBlock[T any](buf []T) *Block[T] {
	if len(buf) == 0 {
		panic("block buffer is empty")
	}
	return &Block[T]{buf: buf}
}

func (b *Block[T]) Len() int {
	return b.n
}

func (b *Block[T]) Cap() int {
	return len(b.buf)
}

func (b *Block[T]) Full() bool {
	return b.n == len(b.buf)
}

func (b *Block[T]) slot(j int) int {
	return (b.head + j) % len(b.buf)
}

func (b *Block[T]) check(j, n int) {
	if j < 0 || j >= n {
		panic(fmt.Errorf("%w: offset %d, block len %d", ErrIndexOutOfBound, j, b.n))
	}
}

// Get 返回逻辑偏移 j 处的元素
func (b *Block[T]) Get(j int) T {
	b.check(j, b.n)
	return b.buf[b.slot(j)]
}

// Set 覆盖逻辑偏移 j 处的元素并返回旧值
func (b *Block[T]) Set(j int, val T) T {
	b.check(j, b.n)
	p := b.slot(j)
	old := b.buf[p]
	b.buf[p] = val
	return old
}

// Add 在逻辑偏移 j 处插入，移动较短的一侧
func (b *Block[T]) Add(j int, val T) {
	if b.Full() {
		panic(ErrBlockFull)
	}
	b.check(j, b.n+1)
	c := len(b.buf)
	if j < b.n/2 {
		// 前 j 个元素整体前移一格，head 后退
		old := b.head
		b.head = (b.head + c - 1) % c
		b.shiftDown(old, j)
	} else {
		b.shiftUp(b.slot(j), b.n-j)
	}
	b.buf[b.slot(j)] = val
	b.n++
}

// Remove 删除逻辑偏移 j 处的元素并返回，移动较短的一侧补齐空位
func (b *Block[T]) Remove(j int) T {
	b.check(j, b.n)
	var zero T
	c := len(b.buf)
	val := b.buf[b.slot(j)]
	if j < b.n/2 {
		b.shiftUp(b.head, j)
		b.buf[b.head] = zero
		b.head = (b.head + 1) % c
	} else {
		b.shiftDown(b.slot(j+1), b.n-j-1)
		b.buf[b.slot(b.n-1)] = zero
	}
	b.n--
	return val
}

// Reset 清空块内所有元素，便于 GC 回收
func (b *Block[T]) Reset() {
	var zero T
	for j := 0; j < b.n; j++ {
		b.buf[b.slot(j)] = zero
	}
	b.head = 0
	b.n = 0
}

// shiftDown 将从物理位置 src 开始的 count 个元素各向低位移动一格
// 跨越环绕边界时拆成至多两段 copy，外加边界上的单个元素
func (b *Block[T]) shiftDown(src, count int) {
	c := len(b.buf)
	for count > 0 {
		if src == 0 {
			b.buf[c-1] = b.buf[0]
			src, count = 1%c, count-1
			continue
		}
		run := min(count, c-src)
		copy(b.buf[src-1:src-1+run], b.buf[src:src+run])
		src = (src + run) % c
		count -= run
	}
}

// shiftUp 将从物理位置 src 开始的 count 个元素各向高位移动一格，从尾部开始搬运
func (b *Block[T]) shiftUp(src, count int) {
	if count == 0 {
		return
	}
	c := len(b.buf)
	last := (src + count - 1) % c
	for count > 0 {
		if last == c-1 {
			b.buf[0] = b.buf[c-1]
			last, count = c-2, count-1
			continue
		}
		run := min(count, last+1)
		copy(b.buf[last-run+2:last+2], b.buf[last-run+1:last+1])
		last = (last - run + c) % c
		count -= run
	}
}
