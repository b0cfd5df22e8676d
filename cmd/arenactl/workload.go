package main

import (
	"fmt"
	"math/rand"

	"github.com/pavanmanishd/markarena"
)

// workload mimics a tokenizer: each round marks the arena, copies a batch of
// tokens into it, opens a nested scope for a lookahead pass and rolls
// everything back at the end.
type workload struct {
	allocs int
	size   int
	rnd    *rand.Rand
}

// validateWorkload checks the --allocs and --size flags.
func validateWorkload(allocs, size int) error {
	if allocs < 0 {
		return fmt.Errorf("--allocs must not be negative, got %d", allocs)
	}
	if size <= 0 {
		return fmt.Errorf("--size must be positive, got %d", size)
	}
	return nil
}

func newWorkload(allocs, size int, seed int64) *workload {
	return &workload{allocs: allocs, size: size, rnd: rand.New(rand.NewSource(seed))}
}

// round runs one batch and returns the peak bytes in use.
func (w *workload) round(a *arena.Arena) (int, error) {
	peak := 0
	err := a.Scope(func() error {
		for i := 0; i < w.allocs; i++ {
			n := 1 + w.rnd.Intn(w.size)
			buf, err := a.Allocate(n, 1<<w.rnd.Intn(5))
			if err != nil {
				return err
			}
			buf[0] = byte(i)
		}

		return a.Scope(func() error {
			for i := 0; i < w.allocs/4; i++ {
				if _, err := arena.AllocSlice[uint32](a, 1+w.rnd.Intn(w.size)); err != nil {
					return err
				}
			}
			peak = a.SizeInUse()
			return nil
		})
	})
	return peak, err
}
