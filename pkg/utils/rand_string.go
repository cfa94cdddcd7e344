package utils

import (
	"math/rand/v2"
)

var letters = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// NewRand 返回以 seed 确定的随机源，相同 seed 生成相同序列
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandString 生成长度为 n 的随机字符串
func RandString(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[r.IntN(len(letters))]
	}
	return string(b)
}

// RandIndex 生成 [0, size) 的随机排列
func RandIndex(r *rand.Rand, size int) []int {
	return r.Perm(size)
}
