// Package metrics exports reactive engine activity as Prometheus metrics.
//
// A Collector implements reactive.Observer; install it with
// reactive.WithObserver:
//
//	reg := prometheus.NewRegistry()
//	rt := reactive.NewRuntime(reactive.WithObserver(metrics.New(metrics.WithRegistry(reg))))
//
// Metrics collected (default namespace "reactor"):
//   - reactor_tracks_total: new subscriptions by target kind
//   - reactor_triggers_total: writes that reached subscribers, by target kind
//   - reactor_notified_effects_total: effects notified by writes, excluding the writer
//   - reactor_effect_runs_total: tracked effect runs by status (ok, panic)
//   - reactor_effect_run_duration_seconds: tracked effect run duration
//   - reactor_effects_stopped_total: effects stopped
//   - reactor_computed_evaluations_total: computed recomputations
//   - reactor_computed_duration_seconds: computed recomputation duration
//   - reactor_run_depth: current depth of the run stack
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for run durations.
	// Default: 10µs to ~1s, exponential.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactor",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records engine events. It is safe to share between runtimes.
type Collector struct {
	tracks           *prometheus.CounterVec
	triggers         *prometheus.CounterVec
	notified         prometheus.Counter
	effectRuns       *prometheus.CounterVec
	effectDuration   prometheus.Histogram
	effectsStopped   prometheus.Counter
	computedTotal    prometheus.Counter
	computedDuration prometheus.Histogram
	runDepth         prometheus.Gauge
}

// New creates a Collector and registers its metrics. It panics if a metric
// with the same name is already registered, as promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		tracks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tracks_total",
			Help:        "Total number of new subscriptions recorded",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of writes that notified subscribers",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		notified: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notified_effects_total",
			Help:        "Total number of effects notified by writes, excluding the writing effect",
			ConstLabels: config.ConstLabels,
		}),

		effectRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of tracked effect runs",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		effectDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_run_duration_seconds",
			Help:        "Tracked effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		effectsStopped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_stopped_total",
			Help:        "Total number of effects stopped",
			ConstLabels: config.ConstLabels,
		}),

		computedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computed_evaluations_total",
			Help:        "Total number of computed value recomputations",
			ConstLabels: config.ConstLabels,
		}),

		computedDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computed_duration_seconds",
			Help:        "Computed value recomputation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		runDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "run_depth",
			Help:        "Current depth of the effect run stack",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// OnTrack counts a new subscription by target kind.
func (c *Collector) OnTrack(ev reactive.TrackEvent) {
	c.tracks.WithLabelValues(ev.Kind).Inc()
}

// OnTrigger counts the write and the effects it notifies.
func (c *Collector) OnTrigger(ev reactive.TriggerEvent) {
	c.triggers.WithLabelValues(ev.Kind).Inc()
	c.notified.Add(float64(ev.Notified))
}

// EffectStart updates the run depth gauge.
func (c *Collector) EffectStart(ev reactive.EffectEvent) {
	c.runDepth.Set(float64(ev.Depth))
}

// EffectEnd counts the run by status and observes its duration.
func (c *Collector) EffectEnd(ev reactive.EffectEvent, panicked bool) {
	status := "ok"
	if panicked {
		status = "panic"
	}
	c.effectRuns.WithLabelValues(status).Inc()
	c.effectDuration.Observe(ev.Duration.Seconds())
	c.runDepth.Set(float64(ev.Depth - 1))
}

// EffectStopped counts a stopped effect.
func (c *Collector) EffectStopped(reactive.EffectEvent) {
	c.effectsStopped.Inc()
}

// OnComputed counts a recomputation and observes its duration.
func (c *Collector) OnComputed(ev reactive.ComputedEvent) {
	c.computedTotal.Inc()
	c.computedDuration.Observe(ev.Duration.Seconds())
}

var _ reactive.Observer = (*Collector)(nil)
