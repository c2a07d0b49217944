// Package metrics holds the Prometheus collectors of the routing pipeline.
// Each Collector owns a private registry, so several optimizers (and tests)
// can coexist in one process without duplicate-registration panics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "qroute"

// Stage names used as label values.
const (
	StageBuild   = "build"
	StageEncode  = "encode"
	StageSolve   = "solve"
	StageDecode  = "decode"
	StageCompare = "compare"
)

// Outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Collector holds the pipeline metrics.
type Collector struct {
	registry *prometheus.Registry

	Runs          *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	Cities        prometheus.Histogram
	Variables     prometheus.Histogram
	Samples       prometheus.Counter
	ValidFraction prometheus.Histogram
	TourCost      prometheus.Gauge
}

// NewCollector creates a collector registered on its own registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Optimization runs by solver and outcome.",
		}, []string{"solver", "outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		Cities: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cities",
			Help:      "Number of cities per run.",
			Buckets:   prometheus.LinearBuckets(3, 1, 14),
		}),
		Variables: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "qubo_variables",
			Help:      "Number of QUBO variables per run.",
			Buckets:   prometheus.ExponentialBuckets(9, 2, 6),
		}),
		Samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Reads returned by samplers.",
		}),
		ValidFraction: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "valid_sample_fraction",
			Help:      "Share of reads per run that encode a valid tour.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		TourCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_tour_cost",
			Help:      "Cost of the most recent decoded tour.",
		}),
	}
	c.registry.MustRegister(c.Runs, c.StageDuration, c.Cities, c.Variables, c.Samples, c.ValidFraction, c.TourCost)

	return c
}

// Registry exposes the private registry, e.g. for promhttp.HandlerFor.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveStage records the duration of one stage. A nil Collector is a no-op.
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordRun counts one finished run. A nil Collector is a no-op.
func (c *Collector) RecordRun(solver, outcome string) {
	if c == nil {
		return
	}
	c.Runs.WithLabelValues(solver, outcome).Inc()
}

// RecordProblem records the instance size. A nil Collector is a no-op.
func (c *Collector) RecordProblem(cities, vars int) {
	if c == nil {
		return
	}
	c.Cities.Observe(float64(cities))
	c.Variables.Observe(float64(vars))
}

// RecordSamples records the reads of one solve. A nil Collector is a no-op.
func (c *Collector) RecordSamples(reads int, validFraction float64) {
	if c == nil {
		return
	}
	c.Samples.Add(float64(reads))
	c.ValidFraction.Observe(validFraction)
}

// RecordCost sets the last tour cost. A nil Collector is a no-op.
func (c *Collector) RecordCost(cost float64) {
	if c == nil {
		return
	}
	c.TourCost.Set(cost)
}
