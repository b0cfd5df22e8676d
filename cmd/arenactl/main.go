// Command arenactl exercises a markarena Arena with a synthetic
// tokenizer workload and reports what the allocator did.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/sirupsen/logrus"

	"github.com/pavanmanishd/markarena"
	"github.com/pavanmanishd/markarena/internal/logger"
)

// globalFlags are shared by every command.
type globalFlags struct {
	blockSize *string
	source    *string
	logLevel  *string
}

func (g *globalFlags) newArena(name string) (*arena.Arena, error) {
	capacity, err := arena.ParseBlockCapacity(*g.blockSize)
	if err != nil {
		return nil, fmt.Errorf("invalid --block-size: %w", err)
	}
	src, err := sourceByName(*g.source)
	if err != nil {
		return nil, err
	}
	return arena.New(
		arena.WithBlockCapacity(capacity),
		arena.WithSource(src),
		arena.WithName(name),
	)
}

func (g *globalFlags) setup(*kingpin.ParseContext) error {
	level, err := logrus.ParseLevel(*g.logLevel)
	if err != nil {
		return err
	}
	logger.L.SetLevel(level)
	return nil
}

func sourceByName(name string) (arena.Source, error) {
	switch strings.ToLower(name) {
	case "heap":
		return arena.HeapSource{}, nil
	case "mmap":
		if !arena.MmapSupported {
			return nil, fmt.Errorf("mmap source is not supported on this platform")
		}
		return arena.MmapSource{}, nil
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}

func main() {
	app := kingpin.New("arenactl", "Drive a mark/clear arena allocator.")
	g := &globalFlags{
		blockSize: app.Flag("block-size", "Default block capacity, e.g. 64KB or 1MB.").Default("1MB").String(),
		source:    app.Flag("source", "Where blocks come from.").Default("heap").Enum("heap", "mmap"),
		logLevel:  app.Flag("log-level", "Log level (debug, info, warn, error).").Default("info").String(),
	}
	app.PreAction(g.setup)

	addBenchCommand(app, g)
	addServeCommand(app, g)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
