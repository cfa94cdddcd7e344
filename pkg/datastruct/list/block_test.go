package list

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockContents[T any](b *Block[T]) []T {
	out := make([]T, 0, b.Len())
	for j := 0; j < b.Len(); j++ {
		out = append(out, b.Get(j))
	}
	return out
}

func requireOutOfBound(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %v", r)
		require.ErrorIs(t, err, ErrIndexOutOfBound)
	}()
	f()
}

func TestBlock_AddFrontAndBack(t *testing.T) {
	b := NewBlock(make([]int, 5))
	b.Add(0, 3)
	b.Add(0, 2)
	b.Add(0, 1)
	b.Add(3, 4)
	b.Add(4, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, blockContents(b))
	assert.True(t, b.Full())
	assert.Equal(t, 5, b.Cap())
}

func TestBlock_AddMiddleWraparound(t *testing.T) {
	b := NewBlock(make([]int, 6))
	// 让 head 落到缓冲区尾部，后续移动必然跨越边界
	for i := 0; i < 4; i++ {
		b.Add(0, 10-i)
	}
	b.Remove(3)
	b.Remove(2)
	b.Add(2, 9)
	b.Add(1, 100)
	b.Add(2, 200)
	assert.Equal(t, []int{7, 100, 200, 8, 9}, blockContents(b))

	assert.Equal(t, 200, b.Remove(2))
	assert.Equal(t, 7, b.Remove(0))
	assert.Equal(t, []int{100, 8, 9}, blockContents(b))
}

func TestBlock_SetReturnsOld(t *testing.T) {
	b := NewBlock(make([]string, 3))
	b.Add(0, "a")
	b.Add(1, "b")
	assert.Equal(t, "b", b.Set(1, "c"))
	assert.Equal(t, "c", b.Get(1))
	assert.Equal(t, "c", b.Get(1))
}

func TestBlock_Bounds(t *testing.T) {
	b := NewBlock(make([]int, 2))
	requireOutOfBound(t, func() { b.Get(0) })
	requireOutOfBound(t, func() { b.Add(1, 1) })
	b.Add(0, 1)
	requireOutOfBound(t, func() { b.Set(1, 1) })
	requireOutOfBound(t, func() { b.Remove(-1) })
	b.Add(1, 2)
	require.PanicsWithValue(t, ErrBlockFull, func() { b.Add(0, 3) })
}

func TestBlock_RemoveClearsSlot(t *testing.T) {
	buf := make([]*int, 4)
	b := NewBlock(buf)
	for i := 0; i < 4; i++ {
		v := i
		b.Add(b.Len(), &v)
	}
	b.Remove(0)
	b.Remove(2)
	live := 0
	for _, p := range buf {
		if p != nil {
			live++
		}
	}
	assert.Equal(t, 2, live)

	b.Reset()
	assert.Equal(t, 0, b.Len())
	for _, p := range buf {
		assert.Nil(t, p)
	}
}

func TestBlock_RandomAgainstSlice(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for capacity := 1; capacity <= 8; capacity++ {
		b := NewBlock(make([]int, capacity))
		var ref []int
		for step := 0; step < 3000; step++ {
			if b.Len() < capacity && (b.Len() == 0 || r.IntN(2) == 0) {
				j := r.IntN(b.Len() + 1)
				b.Add(j, step)
				ref = append(ref[:j], append([]int{step}, ref[j:]...)...)
			} else {
				j := r.IntN(b.Len())
				got := b.Remove(j)
				require.Equal(t, ref[j], got, "capacity %d step %d", capacity, step)
				ref = append(ref[:j], ref[j+1:]...)
			}
			require.Equal(t, len(ref), b.Len())
			if len(ref) > 0 {
				require.Equal(t, ref, blockContents(b), "capacity %d step %d", capacity, step)
			}
		}
	}
}
