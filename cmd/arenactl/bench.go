package main

import (
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// benchCommand runs the workload a fixed number of rounds and prints a
// summary.
type benchCommand struct {
	g      *globalFlags
	rounds *int
	allocs *int
	size   *int
	seed   *int64
}

func (cmd *benchCommand) run(*kingpin.ParseContext) error {
	if err := validateWorkload(*cmd.allocs, *cmd.size); err != nil {
		return err
	}
	if *cmd.rounds < 0 {
		return fmt.Errorf("--rounds must not be negative, got %d", *cmd.rounds)
	}
	a, err := cmd.g.newArena("bench")
	if err != nil {
		exitWithErr(err)
	}

	w := newWorkload(*cmd.allocs, *cmd.size, *cmd.seed)
	peak := 0
	start := time.Now()
	for i := 0; i < *cmd.rounds; i++ {
		p, err := w.round(a)
		if err != nil {
			exitWithErr(fmt.Errorf("round %d: %w", i, err))
		}
		peak = max(peak, p)
	}
	elapsed := time.Since(start)

	bold := color.New(color.Bold)
	bold.Println("Workload:")
	fmt.Printf("\trounds: %d, allocations per round: %d, elapsed: %v\n",
		*cmd.rounds, *cmd.allocs+*cmd.allocs/4, elapsed)
	fmt.Printf("\tpeak in use: %s\n", humanize.IBytes(uint64(peak)))

	bold.Println("Arena:")
	fmt.Printf("\t%s\n", a.Metrics())

	s := a.Stats()
	bold.Println("Source:")
	fmt.Printf("\tblocks reserved: %d (%s), reused: %d, failures: %d\n",
		s.BlocksReserved,
		humanize.IBytes(uint64(s.BytesReserved)),
		s.BlocksReused,
		s.ReservationFailures,
	)

	return a.Destroy()
}

func addBenchCommand(app *kingpin.Application, g *globalFlags) {
	cmd := &benchCommand{g: g}
	bench := app.Command("bench", "Run the workload and print allocator stats.").Action(cmd.run)
	cmd.rounds = bench.Flag("rounds", "Number of rounds.").Default("1000").Int()
	cmd.allocs = bench.Flag("allocs", "Allocations per round.").Default("256").Int()
	cmd.size = bench.Flag("size", "Maximum allocation size in bytes.").Default("512").Int()
	cmd.seed = bench.Flag("seed", "Random seed.").Default("1").Int64()
}
