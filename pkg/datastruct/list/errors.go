package list

import "errors"

var (
	ErrIndexOutOfBound  = errors.New("index out of bound")
	ErrBlockFull        = errors.New("block is full")
	ErrInvalidBlockSize = errors.New("block size must be at least 1")
	ErrOutOfMemory      = errors.New("out of memory")
	ErrCorrupted        = errors.New("list invariant violated")
)
