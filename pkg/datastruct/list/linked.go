package list

import (
	"fmt"
	"iter"
)

type linkedNode[T any] struct {
	val  T
	prev *linkedNode[T]
	next *linkedNode[T]
}

// LinkedList 普通双向链表，每个元素一个节点
type LinkedList[T any] struct {
	first *linkedNode[T]
	last  *linkedNode[T]
	size  int
}

// Make 依次追加 vals
func Make[T any](vals ...T) *LinkedList[T] {
	list := &LinkedList[T]{}
	for _, v := range vals {
		_ = list.Add(v)
	}
	return list
}

func (list *LinkedList[T]) checkIndex(index, limit int) {
	if index < 0 || index >= limit {
		panic(fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfBound, index, list.size))
	}
}

// Add 尾插，从不失败
func (list *LinkedList[T]) Add(val T) error {
	n := &linkedNode[T]{val: val}
	if list.size == 0 {
		list.first = n
		list.last = n
	} else {
		n.prev = list.last
		list.last.next = n
		list.last = n
	}
	list.size++
	return nil
}

// find 根据 index 查找节点,从较近的一端开始
func (list *LinkedList[T]) find(index int) (n *linkedNode[T]) {
	if index < list.size/2 {
		n = list.first
		for i := 0; i < index; i++ {
			n = n.next
		}
	} else {
		n = list.last
		for i := list.size - 1; i > index; i-- {
			n = n.prev
		}
	}
	return n
}

func (list *LinkedList[T]) Get(index int) T {
	list.checkIndex(index, list.size)
	return list.find(index).val
}

func (list *LinkedList[T]) Set(index int, val T) T {
	list.checkIndex(index, list.size)
	n := list.find(index)
	old := n.val
	n.val = val
	return old
}

func (list *LinkedList[T]) Insert(index int, val T) error {
	list.checkIndex(index, list.size+1)
	if index == list.size {
		return list.Add(val)
	}
	p := list.find(index)
	n := &linkedNode[T]{
		val:  val,
		prev: p.prev,
		next: p,
	}
	if p.prev != nil {
		p.prev.next = n
	} else {
		list.first = n
	}
	p.prev = n
	list.size++
	return nil
}

func (list *LinkedList[T]) removeNode(n *linkedNode[T]) {
	if n.prev == nil {
		list.first = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		list.last = n.prev
	} else {
		n.next.prev = n.prev
	}
	// 断开连接，帮助 GC
	n.prev = nil
	n.next = nil
	list.size--
}

func (list *LinkedList[T]) Remove(index int) T {
	list.checkIndex(index, list.size)
	n := list.find(index)
	list.removeNode(n)
	return n.val
}

func (list *LinkedList[T]) RemoveLast() (T, bool) {
	if list.last == nil {
		var zero T
		return zero, false
	}
	n := list.last
	list.removeNode(n)
	return n.val, true
}

func (list *LinkedList[T]) RemoveAllByVal(exp Expected[T]) int {
	return list.RemoveByVal(exp, 0)
}

// RemoveByVal 删除前 count 个满足条件的节点，count <= 0 时全部删除
func (list *LinkedList[T]) RemoveByVal(exp Expected[T], count int) int {
	removed := 0
	for n := list.first; n != nil; {
		next := n.next
		if exp(n.val) {
			list.removeNode(n)
			removed++
			if removed == count {
				break
			}
		}
		n = next
	}
	return removed
}

func (list *LinkedList[T]) ReverseRemoveByVal(exp Expected[T], count int) int {
	removed := 0
	for n := list.last; n != nil; {
		prev := n.prev
		if exp(n.val) {
			list.removeNode(n)
			removed++
			if removed == count {
				break
			}
		}
		n = prev
	}
	return removed
}

func (list *LinkedList[T]) Len() int {
	return list.size
}

func (list *LinkedList[T]) ForEach(consumer Consumer[T]) {
	i := 0
	for n := list.first; n != nil; n = n.next {
		if !consumer(i, n.val) {
			break
		}
		i++
	}
}

func (list *LinkedList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		list.ForEach(yield)
	}
}

func (list *LinkedList[T]) Contains(exp Expected[T]) bool {
	contains := false
	list.ForEach(func(i int, actual T) bool {
		if exp(actual) {
			contains = true
			return false
		}
		return true
	})
	return contains
}

// Range 返回区间 [start, end) 的切片
func (list *LinkedList[T]) Range(start int, end int) []T {
	if start < 0 || start > list.size || end < 0 || end > list.size || start > end {
		panic(fmt.Errorf("%w: range [%d, %d), size %d", ErrIndexOutOfBound, start, end, list.size))
	}
	slice := make([]T, 0, end-start)
	if start == end {
		return slice
	}
	n := list.find(start)
	for len(slice) < end-start {
		slice = append(slice, n.val)
		n = n.next
	}
	return slice
}
