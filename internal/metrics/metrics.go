// Package metrics exports tape statistics to Prometheus.
package metrics

import (
	"sync"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "gradtape"

// StatsSource yields tape statistics. *autodiff.Context implements it, but a
// Context is not safe for concurrent use; scrape a Snapshot instead when the
// context is busy on another goroutine.
type StatsSource interface {
	Stats() autodiff.Stats
}

// Snapshot holds the last Stats it was given. It is safe for concurrent use.
type Snapshot struct {
	mu sync.RWMutex
	s  autodiff.Stats
}

// Update replaces the stored stats.
func (s *Snapshot) Update(stats autodiff.Stats) {
	s.mu.Lock()
	s.s = stats
	s.mu.Unlock()
}

// Stats returns the stored stats.
func (s *Snapshot) Stats() autodiff.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s
}

// Collector is a prometheus.Collector reading from a StatsSource on every
// scrape.
type Collector struct {
	src StatsSource

	nodes      *prometheus.Desc
	capacity   *prometheus.Desc
	inUse      *prometheus.Desc
	reserved   *prometheus.Desc
	peak       *prometheus.Desc
	blocks     *prometheus.Desc
	depth      *prometheus.Desc
	passes     *prometheus.Desc
	recoveries *prometheus.Desc
	resets     *prometheus.Desc
}

// NewCollector creates a collector for src. An empty namespace selects
// DefaultNamespace.
func NewCollector(namespace string, src StatsSource, labels prometheus.Labels) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, labels)
	}
	return &Collector{
		src:        src,
		nodes:      desc("nodes", "Nodes currently on the tape."),
		capacity:   desc("node_capacity", "Nodes that fit on the tape without reallocating."),
		inUse:      desc("arena_in_use_bytes", "Bytes handed out by the operand arenas."),
		reserved:   desc("arena_reserved_bytes", "Bytes owned by the operand arenas."),
		peak:       desc("arena_peak_bytes", "High-water mark of arena bytes in use."),
		blocks:     desc("arena_blocks", "Blocks owned by the operand arenas."),
		depth:      desc("scope_depth", "Open nested scopes."),
		passes:     desc("reverse_passes_total", "Reverse passes run."),
		recoveries: desc("recoveries_total", "Nested scopes recovered."),
		resets:     desc("resets_total", "Tape resets and frees."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodes
	ch <- c.capacity
	ch <- c.inUse
	ch <- c.reserved
	ch <- c.peak
	ch <- c.blocks
	ch <- c.depth
	ch <- c.passes
	ch <- c.recoveries
	ch <- c.resets
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	gauge := func(d *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v))
	}
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}

	gauge(c.nodes, s.Nodes)
	gauge(c.capacity, s.NodeCapacity)
	gauge(c.inUse, s.ArenaInUse)
	gauge(c.reserved, s.ArenaReserved)
	gauge(c.peak, s.ArenaPeak)
	gauge(c.blocks, s.Blocks)
	gauge(c.depth, s.Depth)
	counter(c.passes, s.Passes)
	counter(c.recoveries, s.Recoveries)
	counter(c.resets, s.Resets)
}
