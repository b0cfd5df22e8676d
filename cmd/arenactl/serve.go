package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/pavanmanishd/markarena"
	"github.com/pavanmanishd/markarena/internal/logger"
)

// serveCommand runs the workload continuously and exposes the arena
// counters on /metrics.
type serveCommand struct {
	g        *globalFlags
	listen   *string
	interval *time.Duration
	allocs   *int
	size     *int
}

func (cmd *serveCommand) run(*kingpin.ParseContext) (err error) {
	if err := validateWorkload(*cmd.allocs, *cmd.size); err != nil {
		return err
	}
	if *cmd.interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %v", *cmd.interval)
	}
	a, err := cmd.g.newArena("serve")
	if err != nil {
		exitWithErr(err)
	}

	reg := prometheus.NewRegistry()
	c := arena.NewCollector("arenactl")
	c.Register(a.Name(), a)
	defer func() {
		c.Unregister(a.Name())
		err = multierr.Append(err, a.Destroy())
	}()
	reg.MustRegister(c, collectors.NewGoCollector())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: *cmd.listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- cmd.loop(ctx, a) }()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.L.WithField("addr", *cmd.listen).Info("serving metrics")
	if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		// The loop must stop using the arena before it is destroyed.
		stop()
		<-done
		return serveErr
	}
	return <-done
}

// loop owns the arena until ctx is cancelled.
func (cmd *serveCommand) loop(ctx context.Context, a *arena.Arena) error {
	w := newWorkload(*cmd.allocs, *cmd.size, time.Now().UnixNano())
	ticker := time.NewTicker(*cmd.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.round(a); err != nil {
				logger.L.WithError(err).Warn("round failed")
			}
		}
	}
}

func addServeCommand(app *kingpin.Application, g *globalFlags) {
	cmd := &serveCommand{g: g}
	serve := app.Command("serve", "Run the workload in a loop and serve Prometheus metrics.").Action(cmd.run)
	cmd.listen = serve.Flag("listen", "Address to serve /metrics on.").Default(":9464").String()
	cmd.interval = serve.Flag("interval", "Pause between rounds.").Default("10ms").Duration()
	cmd.allocs = serve.Flag("allocs", "Allocations per round.").Default("256").Int()
	cmd.size = serve.Flag("size", "Maximum allocation size in bytes.").Default("512").Int()
}
