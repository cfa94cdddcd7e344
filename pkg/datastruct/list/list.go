package list

import "iter"

// Expected 判断元素是否符合条件
type Expected[T any] func(a T) bool

// Consumer 遍历回调，返回 false 时停止遍历
type Consumer[T any] func(i int, v T) bool

// List 按下标访问的序列，BlockList 与 LinkedList 均实现该接口
type List[T any] interface {
	Len() int
	Get(index int) T
	Set(index int, val T) T
	Add(val T) error
	Insert(index int, val T) error
	Remove(index int) T
	RemoveLast() (T, bool)
	RemoveAllByVal(exp Expected[T]) int
	RemoveByVal(exp Expected[T], count int) int
	ReverseRemoveByVal(exp Expected[T], count int) int
	ForEach(consumer Consumer[T])
	Contains(exp Expected[T]) bool
	Range(start int, end int) []T
	All() iter.Seq2[int, T]
}

var (
	_ List[int] = (*BlockList[int])(nil)
	_ List[int] = (*LinkedList[int])(nil)
)
