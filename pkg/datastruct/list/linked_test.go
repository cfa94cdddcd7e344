package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedList_MakeAndAdd(t *testing.T) {
	l1 := Make(1, 2, 3)
	assert.Equal(t, 3, l1.Len())
	assert.Equal(t, 1, l1.Get(0))
	assert.Equal(t, 3, l1.Get(2))

	l2 := Make[string]()
	require.NoError(t, l2.Add("a"))
	require.NoError(t, l2.Add("b"))
	assert.Equal(t, 2, l2.Len())
	assert.Equal(t, "b", l2.Get(1))
}

func TestLinkedList_GetSet(t *testing.T) {
	l := Make(10, 20, 30)
	assert.Equal(t, 20, l.Set(1, 999))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []int{10, 999, 30}, l.Range(0, 3))
}

func TestLinkedList_Insert(t *testing.T) {
	l := Make(2.0, 3.0)
	require.NoError(t, l.Insert(0, 1))
	require.NoError(t, l.Insert(3, 4))
	require.NoError(t, l.Insert(2, 2.5))
	assert.Equal(t, []float64{1, 2, 2.5, 3, 4}, l.Range(0, l.Len()))
}

func TestLinkedList_Remove(t *testing.T) {
	l := Make(1, 2, 3)
	assert.Equal(t, 2, l.Remove(1))
	assert.Equal(t, []int{1, 3}, l.Range(0, 2))
	assert.Equal(t, 1, l.Remove(0))
	assert.Equal(t, 3, l.Remove(0))
	assert.Equal(t, 0, l.Len())

	l = Make(1, 2)
	v, ok := l.RemoveLast()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, l.Get(0))

	_, ok = Make[int]().RemoveLast()
	assert.False(t, ok)
}

func TestLinkedList_RemoveByVal(t *testing.T) {
	isVal := func(target int) Expected[int] {
		return func(val int) bool { return val == target }
	}
	l := Make(1, 2, 2, 3, 2)
	assert.Equal(t, 3, l.RemoveAllByVal(isVal(2)))
	assert.Equal(t, []int{1, 3}, l.Range(0, 2))

	l = Make(2, 1, 2, 2, 3)
	assert.Equal(t, 2, l.RemoveByVal(isVal(2), 2))
	assert.Equal(t, []int{1, 2, 3}, l.Range(0, 3))

	l = Make(1, 2, 2, 3, 2)
	assert.Equal(t, 1, l.ReverseRemoveByVal(isVal(2), 1))
	assert.Equal(t, 3, l.Get(l.Len()-1))
}

func TestLinkedList_RangeAndForEach(t *testing.T) {
	l := Make(0, 1, 2, 3, 4)
	assert.Equal(t, []int{1, 2, 3}, l.Range(1, 4))
	assert.Equal(t, []int{2}, l.Range(2, 3))
	assert.Empty(t, l.Range(5, 5))

	found := false
	l.ForEach(func(i int, v int) bool {
		if v == 3 {
			found = true
			return false
		}
		return true
	})
	assert.True(t, found)
	assert.True(t, l.Contains(func(a int) bool { return a == 4 }))

	sum := 0
	for _, v := range l.All() {
		sum += v
	}
	assert.Equal(t, 10, sum)
}

func TestLinkedList_Panics(t *testing.T) {
	l := Make(1, 2, 3)
	requireOutOfBound(t, func() { l.Get(-1) })
	requireOutOfBound(t, func() { l.Get(3) })
	requireOutOfBound(t, func() { l.Set(3, 0) })
	requireOutOfBound(t, func() { l.Remove(3) })
	requireOutOfBound(t, func() { _ = l.Insert(4, 0) })
	requireOutOfBound(t, func() { l.Range(0, 4) })
	requireOutOfBound(t, func() { l.Range(2, 1) })
	var nilList *LinkedList[int]
	assert.Panics(t, func() { _ = nilList.Add(1) })
}
