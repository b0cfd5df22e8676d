package arena_test

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pavanmanishd/markarena"
)

func newArena(b *testing.B, blockCapacity int) *arena.Arena {
	b.Helper()
	log := logrus.New()
	log.Level = logrus.PanicLevel
	a, err := arena.New(arena.WithBlockCapacity(blockCapacity), arena.WithLogger(log))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = a.Destroy() })
	return a
}
