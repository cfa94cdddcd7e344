package list

import "log/slog"

// Allocator 为块分配定长底层存储，Alloc 失败时链表保持原状
type Allocator[T any] interface {
	Alloc(capacity int) ([]T, error)
	Free(buf []T)
}

// Metrics 可选的观测接口，为 nil 时跳过
type Metrics interface {
	ObserveSpread(blocks int)
	ObserveGather(blocks int)
	RecordBlocks(count int)
	RecordAllocFailure()
}

type Option[T any] func(l *BlockList[T])

func WithAllocator[T any](a Allocator[T]) Option[T] {
	return func(l *BlockList[T]) {
		if a != nil {
			l.alloc = a
		}
	}
}

func WithMetrics[T any](m Metrics) Option[T] {
	return func(l *BlockList[T]) {
		l.metrics = m
	}
}

// WithLogger 在 debug 级别记录 spread/gather 与分配失败
func WithLogger[T any](lg *slog.Logger) Option[T] {
	return func(l *BlockList[T]) {
		l.logger = lg
	}
}
