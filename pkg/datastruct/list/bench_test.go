package list

import "testing"

const benchSize = 10000

func benchLists() map[string]func() List[int] {
	return map[string]func() List[int]{
		"block": func() List[int] { return MakeBlockList[int](SqrtBlockSize(benchSize)) },
		"linked": func() List[int] { return Make[int]() },
	}
}

func BenchmarkList_Add(b *testing.B) {
	for name, mk := range benchLists() {
		b.Run(name, func(b *testing.B) {
			l := mk()
			for i := 0; i < b.N; i++ {
				_ = l.Add(i)
			}
		})
	}
}

func BenchmarkList_Get(b *testing.B) {
	for name, mk := range benchLists() {
		b.Run(name, func(b *testing.B) {
			l := mk()
			for i := 0; i < benchSize; i++ {
				_ = l.Add(i)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				l.Get(i * 7919 % benchSize)
			}
		})
	}
}

func BenchmarkList_InsertMiddle(b *testing.B) {
	for name, mk := range benchLists() {
		b.Run(name, func(b *testing.B) {
			l := mk()
			for i := 0; i < benchSize; i++ {
				_ = l.Add(i)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = l.Insert(l.Len()/2, i)
				l.Remove(l.Len() / 2)
			}
		})
	}
}

func BenchmarkList_Range(b *testing.B) {
	for name, mk := range benchLists() {
		b.Run(name, func(b *testing.B) {
			l := mk()
			for i := 0; i < 1000; i++ {
				_ = l.Add(i)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = l.Range(0, 1000)
			}
		})
	}
}
