package arena

import (
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

// stats are cumulative slow-path counters. They are atomics so a
// Collector can read them while the owning goroutine allocates.
type stats struct {
	reserved      atomic.Int64
	reservedBytes atomic.Int64
	failures      atomic.Int64
	reused        atomic.Int64
}

// Stats is a snapshot of an arena's cumulative block activity.
type Stats struct {
	BlocksReserved      int64 // Blocks obtained from the Source
	BytesReserved       int64 // Bytes obtained from the Source
	ReservationFailures int64 // Times a new block could not be obtained
	BlocksReused        int64 // Times an existing free block was reselected
}

// Stats returns the cumulative counters. Unlike the other accessors it may
// be called from any goroutine.
func (a *Arena) Stats() Stats {
	return Stats{
		BlocksReserved:      a.stats.reserved.Load(),
		BytesReserved:       a.stats.reservedBytes.Load(),
		ReservationFailures: a.stats.failures.Load(),
		BlocksReused:        a.stats.reused.Load(),
	}
}

// SizeInUse returns the number of bytes currently allocated, including
// alignment padding. Blocks past the active one are free and not counted.
func (a *Arena) SizeInUse() int {
	if a.destroyed {
		return 0
	}
	sum := 0
	for i := 0; i <= a.active; i++ {
		sum += a.blocks.at(i).size
	}
	return sum
}

// NumBlocks returns the number of blocks the arena owns.
func (a *Arena) NumBlocks() int {
	if a.destroyed {
		return 0
	}
	return a.blocks.count
}

// Capacity returns the total capacity (in bytes) of all blocks.
func (a *Arena) Capacity() int {
	if a.destroyed {
		return 0
	}
	sum := 0
	for i := 0; i < a.blocks.count; i++ {
		sum += a.blocks.at(i).capacity()
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// BlockCapacity returns the default block capacity of this arena.
func (a *Arena) BlockCapacity() int {
	return a.blockCapacity
}

// Name returns the label given with WithName.
func (a *Arena) Name() string {
	return a.name
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:     a.SizeInUse(),
		Capacity:      a.Capacity(),
		NumBlocks:     a.NumBlocks(),
		BlockCapacity: a.BlockCapacity(),
		MarkDepth:     a.MarkDepth(),
		Utilization:   a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse     int     // Bytes currently allocated
	Capacity      int     // Total capacity in bytes
	NumBlocks     int     // Number of blocks
	BlockCapacity int     // Default block capacity
	MarkDepth     int     // Outstanding marks
	Utilization   float64 // Ratio of used to total capacity (0.0-1.0)
}

func (m ArenaMetrics) String() string {
	return fmt.Sprintf("in use %s of %s in %d blocks (%.2f%%), %d marks",
		humanize.IBytes(uint64(m.SizeInUse)),
		humanize.IBytes(uint64(m.Capacity)),
		m.NumBlocks,
		m.Utilization*100,
		m.MarkDepth,
	)
}
