package arena

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/markarena/internal/mmap"
)

// Source supplies the buffers behind arena blocks. It is the arena's only
// contact with the system allocator.
//
// Reserve must return a buffer of exactly n bytes whose first byte is
// aligned to MaxAlign, or an error. Release is called once per reserved
// buffer, with the same slice, when the arena is destroyed.
type Source interface {
	Reserve(n int) ([]byte, error)
	Release(b []byte) error
}

// HeapSource reserves blocks from the Go heap.
type HeapSource struct{}

// Reserve allocates n bytes, over-allocating by MaxAlign so the returned
// slice can start on an aligned address.
func (HeapSource) Reserve(n int) (b []byte, err error) {
	if n < 0 {
		return nil, errors.Errorf("negative reservation %d", n)
	}
	defer func() {
		// make panics on lengths the runtime can never satisfy.
		if r := recover(); r != nil {
			b, err = nil, errors.Wrapf(ErrOutOfMemory, "heap: %v", r)
		}
	}()
	buf := make([]byte, n+MaxAlign)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	shift := int(alignUp(addr, MaxAlign) - addr)
	return buf[shift : shift+n : shift+n], nil
}

// Release drops the buffer; the garbage collector reclaims it.
func (HeapSource) Release([]byte) error { return nil }

// MmapSource reserves each block as an anonymous private mapping, keeping
// large arenas out of the Go heap. Only available on unix systems.
type MmapSource struct{}

// MmapSupported reports whether MmapSource works on this platform.
const MmapSupported = mmap.Supported

func (MmapSource) Reserve(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("negative reservation %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	b, err := mmap.Map(n)
	if err != nil {
		return nil, errors.Wrapf(ErrOutOfMemory, "mmap: %v", err)
	}
	return b, nil
}

func (MmapSource) Release(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return errors.Wrap(mmap.Unmap(b), "munmap")
}

// CheckedSource wraps another Source and accounts for every reservation.
// With a non-zero Limit it refuses reservations that would take the
// outstanding byte total past Limit. It is safe for concurrent use so a
// single instance can back many arenas.
type CheckedSource struct {
	Source Source // defaults to HeapSource
	Limit  int    // 0 means unlimited

	mu       sync.Mutex
	size     int
	live     int
	reserves int
	releases int
}

// NewCheckedSource returns a CheckedSource around src.
func NewCheckedSource(src Source) *CheckedSource {
	return &CheckedSource{Source: src}
}

func (c *CheckedSource) source() Source {
	if c.Source == nil {
		return HeapSource{}
	}
	return c.Source
}

func (c *CheckedSource) Reserve(n int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Limit > 0 && n > c.Limit-c.size {
		return nil, errors.Wrapf(ErrOutOfMemory, "limit of %d bytes reached with %d outstanding", c.Limit, c.size)
	}
	b, err := c.source().Reserve(n)
	if err != nil {
		return nil, err
	}
	c.size += len(b)
	c.live++
	c.reserves++
	return b, nil
}

func (c *CheckedSource) Release(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live == 0 {
		return errors.New("checked: release without a matching reserve")
	}
	if err := c.source().Release(b); err != nil {
		return err
	}
	c.size -= len(b)
	c.live--
	c.releases++
	return nil
}

// CurrentSize returns the number of reserved bytes not yet released.
func (c *CheckedSource) CurrentSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Live returns the number of buffers not yet released.
func (c *CheckedSource) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// Reserves returns how many buffers were handed out in total.
func (c *CheckedSource) Reserves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reserves
}

// Releases returns how many buffers were given back in total.
func (c *CheckedSource) Releases() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releases
}

// TestingT is the subset of testing.TB used by AssertSize.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertSize fails t if the outstanding byte count differs from sz.
func (c *CheckedSource) AssertSize(t TestingT, sz int) {
	t.Helper()
	if got := c.CurrentSize(); got != sz {
		t.Errorf("invalid memory size exp=%d, got=%d (%s)", sz, got, c)
	}
}

func (c *CheckedSource) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("live=%d reserves=%d releases=%d", c.live, c.reserves, c.releases)
}
