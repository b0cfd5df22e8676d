package arena

import "math"

// block is a single buffer owned by an arena.
type block struct {
	buf  []byte // backing memory, len(buf) is the capacity
	size int    // high-water mark, 0 <= size <= len(buf)
}

func (b *block) capacity() int { return len(b.buf) }

// registry is the ordered list of blocks. elems holds the allocated slots
// and count of them are occupied. It starts with one slot and doubles.
type registry struct {
	elems []block
	count int
}

func newRegistry() registry {
	return registry{elems: make([]block, 1)}
}

// at returns the block at index i. The pointer is valid until the next
// call to ensureSlot.
func (r *registry) at(i int) *block {
	return &r.elems[i]
}

// ensureSlot makes room for one more block without appending it.
func (r *registry) ensureSlot() bool {
	if r.count < len(r.elems) {
		return true
	}
	n, ok := grownLength(len(r.elems))
	if !ok {
		return false
	}
	elems := make([]block, n)
	copy(elems, r.elems[:r.count])
	r.elems = elems
	return true
}

// push appends b. ensureSlot must have succeeded first.
func (r *registry) push(b block) int {
	r.elems[r.count] = b
	r.count++
	return r.count - 1
}

func (r *registry) swap(i, j int) {
	if i != j {
		r.elems[i], r.elems[j] = r.elems[j], r.elems[i]
	}
}

// grownLength doubles n, with 1 as the first length.
func grownLength(n int) (int, bool) {
	if n == 0 {
		return 1, true
	}
	if n > math.MaxInt/2 {
		return 0, false
	}
	return n * 2, true
}
