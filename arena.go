package arena

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/pavanmanishd/markarena/internal/logger"
)

// noCopy makes go vet flag copies of an Arena.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Arena is a block-based bump allocator with a checkpoint stack.
// Not goroutine-safe: use one Arena per goroutine.
type Arena struct {
	noCopy noCopy

	blocks        registry
	active        int
	marks         markStack
	blockCapacity int
	source        Source
	log           logrus.FieldLogger
	name          string
	stats         stats
	destroyed     bool
}

// New creates an Arena and eagerly reserves its first block.
func New(opts ...Option) (*Arena, error) {
	o := options{
		blockCapacity: DefaultBlockCapacity,
		source:        HeapSource{},
		log:           logger.L,
	}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Arena{
		blockCapacity: o.blockCapacity,
		source:        o.source,
		name:          o.name,
	}
	a.log = o.log.WithFields(logrus.Fields{"prefix": "arena", "arena": o.name})

	buf, err := a.reserve(a.blockCapacity)
	if err != nil {
		return nil, err
	}
	a.blocks = newRegistry()
	a.blocks.push(block{buf: buf})
	a.marks = newMarkStack()
	return a, nil
}

// Allocate returns size bytes aligned to alignment. The span belongs to the
// arena: it stays valid until a Clear rolls back past it or Destroy runs.
// Its capacity is clipped to size.
//
// Allocate panics with a *UsageError if size is negative or alignment is
// not a power of two no greater than MaxAlign. It returns an
// *AllocationError when a new block is needed and cannot be reserved.
func (a *Arena) Allocate(size, alignment int) ([]byte, error) {
	a.panicIfDestroyed("Allocate")
	if size < 0 {
		usagePanic("Allocate", "negative size %d", size)
	}
	if !validAlignment(alignment) {
		usagePanic("Allocate", "alignment %d is not a power of two in [1, %d]", alignment, MaxAlign)
	}

	// Fast path: bump within the active block.
	b := a.blocks.at(a.active)
	off := alignUp(b.size, alignment)
	if off <= b.capacity() && size <= b.capacity()-off {
		end := off + size
		b.size = end
		return b.buf[off:end:end], nil
	}
	return a.allocateSlow(size)
}

// allocateSlow moves to the next block. Among the blocks after the active
// one it picks the largest, since every one of them is free; if none can
// hold size, a new block is reserved.
func (a *Arena) allocateSlow(size int) ([]byte, error) {
	next := a.blocks.count
	best := -1
	for i := a.active + 1; i < a.blocks.count; i++ {
		if c := a.blocks.at(i).capacity(); c > best {
			best, next = c, i
		}
	}

	if next == a.blocks.count || best < size {
		capacity := max(size, a.blockCapacity)
		if !a.blocks.ensureSlot() {
			a.stats.failures.Add(1)
			return nil, newAllocationError(capacity, ErrOutOfMemory)
		}
		buf, err := a.reserve(capacity)
		if err != nil {
			return nil, err
		}
		next = a.blocks.push(block{buf: buf})
	} else {
		a.stats.reused.Add(1)
		a.log.WithFields(logrus.Fields{"block": next, "capacity": best}).Debug("reusing block")
	}

	a.blocks.swap(next, a.active+1)
	a.active++
	b := a.blocks.at(a.active)
	b.size = size
	return b.buf[:size:size], nil
}

// reserve gets a block buffer from the source and records the outcome.
func (a *Arena) reserve(n int) ([]byte, error) {
	buf, err := a.source.Reserve(n)
	if err == nil && len(buf) != n {
		_ = a.source.Release(buf)
		buf, err = nil, ErrOutOfMemory
	}
	if err != nil {
		a.stats.failures.Add(1)
		a.log.WithError(err).WithField("size", n).Warn("could not reserve block")
		return nil, newAllocationError(n, err)
	}
	a.stats.reserved.Add(1)
	a.stats.reservedBytes.Add(int64(n))
	a.log.WithFields(logrus.Fields{"size": n, "blocks": a.blocks.count + 1}).Debug("reserved block")
	return buf, nil
}

// Mark pushes a checkpoint of the current allocation position. Everything
// allocated after it is released by the matching Clear.
func (a *Arena) Mark() {
	a.panicIfDestroyed("Mark")
	m := mark{block: a.active, size: a.blocks.at(a.active).size}
	if !a.marks.push(m) {
		panic(newAllocationError(a.marks.depth()+1, ErrOutOfMemory))
	}
}

// Clear rolls the arena back to the most recent Mark and pops it. Spans
// allocated since that Mark must no longer be used. Clear panics with a
// *UsageError if there is no outstanding Mark.
func (a *Arena) Clear() {
	a.panicIfDestroyed("Clear")
	m, ok := a.marks.pop()
	if !ok {
		usagePanic("Clear", "no outstanding Mark")
	}
	a.active = m.block
	a.blocks.at(a.active).size = m.size
}

// Scope runs fn between a Mark and its Clear. The Clear also runs if fn
// panics. Marks fn leaves outstanding are cleared with it; if fn already
// cleared the Scope's own mark, nothing more is cleared.
func (a *Arena) Scope(fn func() error) error {
	a.Mark()
	depth := a.marks.depth()
	defer func() {
		for !a.destroyed && a.marks.depth() >= depth {
			a.Clear()
		}
	}()
	return fn()
}

// Reset drops every outstanding Mark and rolls the arena back to empty,
// keeping all blocks for reuse.
func (a *Arena) Reset() {
	a.panicIfDestroyed("Reset")
	a.marks.count = 0
	a.active = 0
	a.blocks.at(0).size = 0
}

// MarkDepth returns the number of outstanding marks.
func (a *Arena) MarkDepth() int {
	if a.destroyed {
		return 0
	}
	return a.marks.depth()
}

// Destroy releases every block back to its source and makes the arena
// unusable. Any later allocation, Mark, Clear, Reset or Destroy panics; the
// size accessors report zero.
func (a *Arena) Destroy() error {
	a.panicIfDestroyed("Destroy")
	var err error
	for i := 0; i < a.blocks.count; i++ {
		err = multierr.Append(err, a.source.Release(a.blocks.at(i).buf))
	}
	a.log.WithField("blocks", a.blocks.count).Debug("destroyed")
	a.blocks = registry{}
	a.marks = markStack{}
	a.active = 0
	a.destroyed = true
	return err
}

func (a *Arena) panicIfDestroyed(op string) {
	if a.destroyed {
		usagePanic(op, "use after Destroy")
	}
}

// AllocBytes returns n pointer-aligned bytes, or nil if n <= 0. It panics
// if a new block cannot be reserved.
func (a *Arena) AllocBytes(n int) []byte {
	if n <= 0 {
		a.panicIfDestroyed("AllocBytes")
		return nil
	}
	b, err := a.Allocate(n, ptrAlign)
	if err != nil {
		panic(err)
	}
	return b
}
