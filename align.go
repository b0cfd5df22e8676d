package arena

import (
	"golang.org/x/exp/constraints"
)

// MaxAlign is the largest alignment Allocate accepts. Every block base is
// aligned to it, so offsets aligned within a block are aligned in memory.
const MaxAlign = 16

// alignUp rounds n up to the next multiple of align, which must be a power
// of two. Already aligned values are returned unchanged.
func alignUp[T constraints.Integer](n, align T) T {
	return (n + align - 1) &^ (align - 1)
}

func isPowerOfTwo[T constraints.Integer](n T) bool {
	return n > 0 && n&(n-1) == 0
}

func validAlignment(align int) bool {
	return isPowerOfTwo(align) && align <= MaxAlign
}
