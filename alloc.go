package arena

import (
	"math"
	"unsafe"
)

// ptrAlign is the alignment AllocBytes uses.
const ptrAlign = int(unsafe.Sizeof(uintptr(0)))

// Alloc returns a pointer to a zeroed T stored inside the arena.
// The pointer is valid until the enclosing Mark is cleared or the arena is
// destroyed. T must not hold Go pointers the arena would hide from the
// garbage collector.
func Alloc[T any](a *Arena) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	b, err := a.Allocate(size, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return &zero, nil
	}
	clear(b)
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), nil
}

// AllocSlice allocates a zeroed slice of n elements of type T inside the
// arena. Returns nil if n <= 0.
func AllocSlice[T any](a *Arena, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return make([]T, n), nil
	}
	if n > math.MaxInt/elemSize {
		return nil, newAllocationError(math.MaxInt, ErrOutOfMemory)
	}
	b, err := a.Allocate(elemSize*n, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}

// AllocBytesCopy copies b into the arena.
func AllocBytesCopy(a *Arena, b []byte) ([]byte, error) {
	dst, err := a.Allocate(len(b), 1)
	if err != nil {
		return nil, err
	}
	copy(dst, b)
	return dst, nil
}

// AllocString copies s into the arena and returns a string backed by arena
// memory.
func AllocString(a *Arena, s string) (string, error) {
	if s == "" {
		return "", nil
	}
	dst, err := a.Allocate(len(s), 1)
	if err != nil {
		return "", err
	}
	copy(dst, s)
	return unsafe.String(unsafe.SliceData(dst), len(dst)), nil
}
