package arena

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type testStruct struct {
	a int64
	b int32
	c int16
	d int8
}

func TestAlloc(t *testing.T) {
	a, _ := newTestArena(t, WithBlockCapacity(1024))
	defer a.Destroy()

	ptr, err := Alloc[int](a)
	require.NoError(t, err)
	require.NotNil(t, ptr)
	require.Equal(t, 0, *ptr)

	s, err := Alloc[testStruct](a)
	require.NoError(t, err)
	require.Equal(t, testStruct{}, *s)

	*ptr = 42
	s.a = 100
	require.Equal(t, 42, *ptr)
	require.Equal(t, int64(100), s.a)
}

func TestAllocZeroesReusedMemory(t *testing.T) {
	a, _ := newTestArena(t, WithBlockCapacity(1024))
	defer a.Destroy()

	a.Mark()
	dirty, err := a.Allocate(64, 8)
	require.NoError(t, err)
	for i := range dirty {
		dirty[i] = 0xff
	}
	a.Clear()

	v, err := Alloc[[8]uint64](a)
	require.NoError(t, err)
	require.Equal(t, [8]uint64{}, *v)
	require.Equal(t, addr(dirty), uintptr(unsafe.Pointer(v)))
}

func TestAllocZeroSizedType(t *testing.T) {
	a, _ := newTestArena(t, WithBlockCapacity(64))
	defer a.Destroy()

	p, err := Alloc[struct{}](a)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, 0, a.SizeInUse())
}

func TestAllocSlice(t *testing.T) {
	a, _ := newTestArena(t, WithBlockCapacity(1024))
	defer a.Destroy()

	slice, err := AllocSlice[int](a, 10)
	require.NoError(t, err)
	require.Len(t, slice, 10)
	require.Equal(t, 10, cap(slice))
	for _, v := range slice {
		require.Zero(t, v)
	}

	empty, err := AllocSlice[int](a, 0)
	require.NoError(t, err)
	require.Nil(t, empty)

	negative, err := AllocSlice[int](a, -1)
	require.NoError(t, err)
	require.Nil(t, negative)

	for i := range slice {
		slice[i] = i * 2
	}
	for i := range slice {
		require.Equal(t, i*2, slice[i])
	}

	zst, err := AllocSlice[struct{}](a, 3)
	require.NoError(t, err)
	require.Len(t, zst, 3)
}

func TestAllocSliceTooLarge(t *testing.T) {
	a, _ := newTestArena(t, WithBlockCapacity(64))
	defer a.Destroy()

	_, err := AllocSlice[uint64](a, int(^uint(0)>>1)/4)
	var ae *AllocationError
	require.ErrorAs(t, err, &ae)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestAllocAlignment(t *testing.T) {
	a, _ := newTestArena(t, WithBlockCapacity(1024))
	defer a.Destroy()

	_, err := a.Allocate(3, 1)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		p, err := Alloc[int64](a)
		require.NoError(t, err)
		require.Zero(t, uintptr(unsafe.Pointer(p))%unsafe.Alignof(int64(0)), "pointer %d", i)
		b, err := Alloc[byte](a)
		require.NoError(t, err)
		require.NotNil(t, b)
	}
}

func TestAllocString(t *testing.T) {
	a, _ := newTestArena(t, WithBlockCapacity(64))
	defer a.Destroy()

	src := []byte("project/config.duru")
	s, err := AllocString(a, string(src))
	require.NoError(t, err)
	src[0] = 'X'
	require.Equal(t, "project/config.duru", s)
	require.Equal(t, len(s), a.SizeInUse())

	empty, err := AllocString(a, "")
	require.NoError(t, err)
	require.Equal(t, "", empty)
	require.Equal(t, len(s), a.SizeInUse())
}

func TestAllocBytesCopy(t *testing.T) {
	a, _ := newTestArena(t, WithBlockCapacity(64))
	defer a.Destroy()

	in := []byte{1, 2, 3, 4}
	out, err := AllocBytesCopy(a, in)
	require.NoError(t, err)
	in[0] = 9
	require.Equal(t, []byte{1, 2, 3, 4}, out)
	require.Equal(t, 4, cap(out))
}

func BenchmarkAlloc(b *testing.B) {
	a, _ := newTestArena(b)
	defer a.Destroy()

	b.Run("Alloc[int]", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = Alloc[int](a)
			if i%1000 == 999 {
				a.Reset()
			}
		}
	})

	b.Run("AllocString", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = AllocString(a, "src/duru/configuration")
			if i%1000 == 999 {
				a.Reset()
			}
		}
	})
}

func BenchmarkAllocSlice(b *testing.B) {
	a, _ := newTestArena(b)
	defer a.Destroy()
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("AllocSlice-%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = AllocSlice[int](a, size)
				if i%100 == 99 {
					a.Reset()
				}
			}
		})
	}
}
