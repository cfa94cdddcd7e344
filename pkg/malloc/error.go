package malloc

import "errors"

var (
	ErrSizeMustBePositive = errors.New("the size must be greater than zero")
	ErrPoolExhausted      = errors.New("buffer pool exhausted")
	ErrInvalidPointer     = errors.New("invalid pointer")
)
