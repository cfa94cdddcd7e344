package malloc

// Heap 直接从 Go 堆分配，从不失败，Free 交给 GC
type Heap[T any] struct{}

func (Heap[T]) Alloc(capacity int) ([]T, error) {
	if capacity <= 0 {
		return nil, ErrSizeMustBePositive
	}
	return make([]T, capacity), nil
}

func (Heap[T]) Free(buf []T) {}
