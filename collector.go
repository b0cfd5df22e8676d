package arena

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports the cumulative Stats of registered arenas as
// Prometheus counters labelled by arena name. It only reads the atomic
// stats, so scrapes may run while the arenas are in use.
type Collector struct {
	mu     sync.Mutex
	arenas map[string]*Arena

	blocksReserved      *prometheus.Desc
	bytesReserved       *prometheus.Desc
	reservationFailures *prometheus.Desc
	blocksReused        *prometheus.Desc
}

// NewCollector returns an empty Collector whose metric names start with
// namespace.
func NewCollector(namespace string) *Collector {
	labels := []string{"arena"}
	return &Collector{
		arenas: make(map[string]*Arena),
		blocksReserved: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "blocks_reserved_total"),
			"Blocks obtained from the arena's source.",
			labels, nil,
		),
		bytesReserved: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "bytes_reserved_total"),
			"Bytes obtained from the arena's source.",
			labels, nil,
		),
		reservationFailures: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "reservation_failures_total"),
			"Times the arena could not obtain a new block.",
			labels, nil,
		),
		blocksReused: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "arena", "blocks_reused_total"),
			"Times a free block was reselected instead of reserving a new one.",
			labels, nil,
		),
	}
}

// Register adds a under name, replacing any arena already using it.
func (c *Collector) Register(name string, a *Arena) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arenas[name] = a
}

// Unregister removes the arena registered under name.
func (c *Collector) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.arenas, name)
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.blocksReserved
	ch <- c.bytesReserved
	ch <- c.reservationFailures
	ch <- c.blocksReused
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	names := make([]string, 0, len(c.arenas))
	for name := range c.arenas {
		names = append(names, name)
	}
	sort.Strings(names)
	snapshots := make([]Stats, len(names))
	for i, name := range names {
		snapshots[i] = c.arenas[name].Stats()
	}
	c.mu.Unlock()

	for i, name := range names {
		s := snapshots[i]
		ch <- prometheus.MustNewConstMetric(c.blocksReserved, prometheus.CounterValue, float64(s.BlocksReserved), name)
		ch <- prometheus.MustNewConstMetric(c.bytesReserved, prometheus.CounterValue, float64(s.BytesReserved), name)
		ch <- prometheus.MustNewConstMetric(c.reservationFailures, prometheus.CounterValue, float64(s.ReservationFailures), name)
		ch <- prometheus.MustNewConstMetric(c.blocksReused, prometheus.CounterValue, float64(s.BlocksReused), name)
	}
}
