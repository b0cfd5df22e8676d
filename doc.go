// Package arena implements a region allocator with mark/clear checkpoints.
//
// # Overview
//
// An Arena hands out byte spans by bumping an offset inside large blocks.
// Nothing is freed individually. Instead a caller pushes a checkpoint with
// Mark and later pops it with Clear, which releases every span allocated
// since the checkpoint in O(1). Blocks are kept after a Clear and reused by
// later allocations, so a steady allocate/rollback loop stops touching the
// system allocator once the arena has warmed up.
//
// # Basic Usage
//
//	a, err := arena.New() // 1 MiB blocks
//	if err != nil {
//		return err
//	}
//	defer a.Destroy()
//
//	a.Mark()
//	buf, err := a.Allocate(512, 8)
//	...
//	a.Clear() // buf must not be used any more
//
// Typed helpers allocate zeroed values with their natural alignment:
//
//	p, err := arena.Alloc[header](a)
//	xs, err := arena.AllocSlice[uint32](a, 128)
//	s, err := arena.AllocString(a, path)
//
// Values stored in arena memory must not contain Go pointers: the garbage
// collector does not scan arena blocks.
//
// # Block Reuse
//
// When the active block is exhausted the arena looks at the blocks after
// it, which are all free, and takes the one with the largest capacity. If
// none is big enough for the request a new block of
// max(request, BlockCapacity) bytes is reserved from the arena's Source.
//
// # Errors
//
// Allocate returns an *AllocationError when a block cannot be reserved; the
// arena is unchanged and can still be used. Contract violations (Clear
// without Mark, a bad alignment, use after Destroy) panic with a
// *UsageError.
//
// # Thread Safety
//
// An Arena is not safe for concurrent use. Give each goroutine its own.
// Stats and Collector are the exception: they read atomic counters and may
// be used from any goroutine.
package arena
