// Package metrics exposes Prometheus collectors for recipe extraction.
package metrics

import (
	"time"

	"github.com/horvbalint/recet/internal/extraction"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recet"

// Collector records extraction pipeline activity. It implements extraction.Observer.
type Collector struct {
	transitions *prometheus.CounterVec
	outcomes    *prometheus.CounterVec
	lookups     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewCollector registers the extraction metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "transitions_total",
			Help:      "Pipeline state transitions.",
		}, []string{"from", "to"}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "outcomes_total",
			Help:      "Finished extractions by final state and error kind.",
		}, []string{"state", "kind"}),
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "lookups_total",
			Help:      "Reference lookups by table and result.",
		}, []string{"table", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "duration_seconds",
			Help:      "Wall time of one extraction.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"state"}),
	}
}

func (c *Collector) Transition(from, to extraction.State) {
	c.transitions.WithLabelValues(string(from), string(to)).Inc()
}

func (c *Collector) Lookup(table extraction.Table, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.lookups.WithLabelValues(string(table), result).Inc()
}

func (c *Collector) Finished(final extraction.State, kind extraction.ErrorKind, elapsed time.Duration) {
	k := string(kind)
	if k == "" {
		k = "none"
	}
	c.outcomes.WithLabelValues(string(final), k).Inc()
	c.duration.WithLabelValues(string(final)).Observe(elapsed.Seconds())
}

var _ extraction.Observer = (*Collector)(nil)
