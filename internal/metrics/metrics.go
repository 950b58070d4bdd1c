// Package metrics records builder growth, pool usage, and pipeline activity
// as Prometheus metrics.
package metrics

import (
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/dshills/gapseq/internal/seq"
	"github.com/dshills/gapseq/internal/seq/pool"
)

// Registry holds all metrics for a gapseq process.
type Registry struct {
	// Builder growth
	GrowthEventsTotal   *prometheus.CounterVec
	GrowthMovedElements *prometheus.CounterVec
	GrowthNewCapacity   prometheus.Histogram

	// Pipeline
	StepsTotal   *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
	ScriptsTotal *prometheus.CounterVec
	RunsTotal    *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.Mutex
	pools    map[string]bool
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		pools:    make(map[string]bool),
	}
	r.initGrowthMetrics()
	r.initPipelineMetrics()
	return r
}

func (r *Registry) initGrowthMetrics() {
	r.GrowthEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gapseq_growth_events_total",
			Help: "Total number of builder growth decisions",
		},
		[]string{"kind"}, // shift, recenter, reallocate
	)

	r.GrowthMovedElements = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gapseq_growth_moved_elements_total",
			Help: "Elements copied by growth decisions",
		},
		[]string{"kind"},
	)

	r.GrowthNewCapacity = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gapseq_growth_new_capacity",
			Help:    "Backing array capacity after a reallocation",
			Buckets: prometheus.ExponentialBuckets(16, 4, 10),
		},
	)
}

func (r *Registry) initPipelineMetrics() {
	r.StepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gapseq_pipeline_steps_total",
			Help: "Total number of pipeline steps applied",
		},
		[]string{"op", "status"}, // ok, error
	)

	r.StepDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gapseq_pipeline_step_duration_seconds",
			Help:    "Duration of pipeline steps in seconds",
			Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
		},
		[]string{"op"},
	)

	r.ScriptsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gapseq_script_runs_total",
			Help: "Total number of Lua script runs",
		},
		[]string{"status"},
	)

	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gapseq_runs_total",
			Help: "Total number of CLI runs",
		},
		[]string{"status"},
	)
}

// RecordGrowth records one builder growth decision.
func (r *Registry) RecordGrowth(e seq.GrowthEvent) {
	kind := e.Kind.String()
	r.GrowthEventsTotal.WithLabelValues(kind).Inc()
	r.GrowthMovedElements.WithLabelValues(kind).Add(float64(e.Len))
	if e.Kind == seq.GrowReallocate {
		r.GrowthNewCapacity.Observe(float64(e.NewCap))
	}
}

// RecordStep records a pipeline step with its duration.
func (r *Registry) RecordStep(op string, err error, duration time.Duration) {
	r.StepsTotal.WithLabelValues(op, status(err)).Inc()
	r.StepDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordScript records a Lua script run.
func (r *Registry) RecordScript(err error) {
	r.ScriptsTotal.WithLabelValues(status(err)).Inc()
}

// RecordRun records a complete CLI run.
func (r *Registry) RecordRun(err error) {
	r.RunsTotal.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// StatsSource is anything reporting pool statistics, such as
// *pool.ArrayPool[rune].
type StatsSource interface {
	Stats() pool.Stats
}

// RegisterPool exports the counters of src under the given pool label.
// Registering the same name twice is a no-op.
func (r *Registry) RegisterPool(name string, src StatsSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pools[name] {
		return
	}
	r.pools[name] = true

	labels := prometheus.Labels{"pool": name}
	counter := func(metric, help string, read func(pool.Stats) int64) {
		promauto.With(r.registry).NewCounterFunc(
			prometheus.CounterOpts{
				Name:        metric,
				Help:        help,
				ConstLabels: labels,
			},
			func() float64 { return float64(read(src.Stats())) },
		)
	}

	counter("gapseq_pool_rented_total", "Arrays handed out by the pool",
		func(s pool.Stats) int64 { return s.Rented })
	counter("gapseq_pool_returned_total", "Arrays put back into the pool",
		func(s pool.Stats) int64 { return s.Returned })
	counter("gapseq_pool_allocated_total", "Arrays the pool had to allocate",
		func(s pool.Stats) int64 { return s.Allocated })
	counter("gapseq_pool_dropped_total", "Returned arrays the pool discarded",
		func(s pool.Stats) int64 { return s.Dropped })

	promauto.With(r.registry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "gapseq_pool_outstanding",
			Help:        "Arrays currently rented and not yet returned",
			ConstLabels: labels,
		},
		func() float64 { return float64(src.Stats().Outstanding()) },
	)
}

// Gather returns the current metric families.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.registry.Gather()
}

// Prometheus returns the underlying registry, for serving or testing.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// WriteText writes every metric family to w in the Prometheus text
// exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
