package malloc

import "sync"

// Pool 限定同时在用缓冲区数量的分配器，回收的缓冲区按容量放入空闲链表复用
// 可被多个链表共享，内部加锁
type Pool[T any] struct {
	mu    sync.Mutex
	max   int
	free  map[int][][]T
	inUse map[*T]int
	stats PoolStats
}

type PoolStats struct {
	Allocs   int
	Frees    int
	Reused   int
	InUse    int
	Cached   int
	Failures int
}

// NewPool 创建分配器，maxBuffers <= 0 表示不限制
func NewPool[T any](maxBuffers int) *Pool[T] {
	return &Pool[T]{
		max:   maxBuffers,
		free:  make(map[int][][]T),
		inUse: make(map[*T]int),
	}
}

// Alloc 返回长度为 capacity 的清零缓冲区，超出上限时返回 ErrPoolExhausted
func (p *Pool[T]) Alloc(capacity int) ([]T, error) {
	if capacity <= 0 {
		return nil, ErrSizeMustBePositive
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.max > 0 && p.stats.InUse >= p.max {
		p.stats.Failures++
		return nil, ErrPoolExhausted
	}
	var buf []T
	if cached := p.free[capacity]; len(cached) > 0 {
		buf = cached[len(cached)-1]
		cached[len(cached)-1] = nil
		p.free[capacity] = cached[:len(cached)-1]
		p.stats.Cached--
		p.stats.Reused++
	} else {
		buf = make([]T, capacity)
	}
	p.inUse[&buf[0]] = capacity
	p.stats.Allocs++
	p.stats.InUse++
	return buf, nil
}

// Free 归还缓冲区，重复归还或归还非本池分配的缓冲区会 panic
func (p *Pool[T]) Free(buf []T) {
	if len(buf) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	capacity, ok := p.inUse[&buf[0]]
	if !ok {
		panic(ErrInvalidPointer)
	}
	delete(p.inUse, &buf[0])
	buf = buf[:capacity]
	clear(buf)
	p.free[capacity] = append(p.free[capacity], buf)
	p.stats.Cached++
	p.stats.Frees++
	p.stats.InUse--
}

// Purge 丢弃空闲链表中缓存的缓冲区
func (p *Pool[T]) Purge() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.free)
	p.stats.Cached = 0
}

func (p *Pool[T]) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
