// Package tracing records reactive effect runs as OpenTelemetry spans.
//
// Each tracked run becomes a span. A run started while another is on the
// run stack becomes its child, so a write that cascades through computed
// values and effects shows up as one tree. Writes that notify subscribers
// are recorded as span events on the run that performed them.
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	rt := reactive.NewRuntime(reactive.WithObserver(tracing.New(tracing.WithTracerProvider(tp))))
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Default tracer name.
const defaultTracerName = "reactor"

// Config configures a Tracer.
type Config struct {
	// TracerName is the name of the tracer (default: "reactor").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider.
	TracerProvider trace.TracerProvider

	// TrackEvents adds a span event for every new subscription.
	// Subscriptions are frequent, so this is off by default.
	TrackEvents bool

	// Context is the parent of top-level runs (default: context.Background()).
	Context context.Context
}

// Option configures a Tracer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithTrackEvents enables span events for subscriptions.
func WithTrackEvents(enabled bool) Option {
	return func(c *Config) {
		c.TrackEvents = enabled
	}
}

// WithContext sets the parent context of top-level runs, for example the
// context of the request that caused them.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

func defaultConfig() Config {
	return Config{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Tracer implements reactive.Observer. Like the Runtime it observes, a
// Tracer must not be used from more than one goroutine at a time.
type Tracer struct {
	config Config
	tracer trace.Tracer

	// spans mirrors the runtime's run stack.
	spans []runSpan
}

type runSpan struct {
	ctx  context.Context
	span trace.Span
}

// New creates a Tracer.
func New(opts ...Option) *Tracer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{
		config: config,
		tracer: tp.Tracer(config.TracerName),
	}
}

// Context returns the context of the innermost traced run, or the base
// context when no run is in progress.
func (t *Tracer) Context() context.Context {
	if n := len(t.spans); n > 0 {
		return t.spans[n-1].ctx
	}
	return t.config.Context
}

// SetContext replaces the parent context of top-level runs.
func (t *Tracer) SetContext(ctx context.Context) {
	t.config.Context = ctx
}

func (t *Tracer) current() trace.Span {
	if n := len(t.spans); n > 0 {
		return t.spans[n-1].span
	}
	return nil
}

// EffectStart opens a span for the run, as a child of the enclosing run's span.
func (t *Tracer) EffectStart(ev reactive.EffectEvent) {
	name := ev.Effect.Name()
	kind := "effect"
	if ev.Effect.Computed() {
		kind = "computed"
	}
	ctx, span := t.tracer.Start(t.Context(), "reactive."+kind,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("reactive.effect.name", name),
			attribute.Int64("reactive.effect.id", int64(ev.Effect.ID())),
			attribute.Int("reactive.depth", ev.Depth),
		),
	)
	t.spans = append(t.spans, runSpan{ctx: ctx, span: span})
}

// EffectEnd ends the run's span, with an error status if the run panicked.
func (t *Tracer) EffectEnd(ev reactive.EffectEvent, panicked bool) {
	n := len(t.spans)
	if n == 0 {
		return
	}
	span := t.spans[n-1].span
	t.spans[n-1] = runSpan{}
	t.spans = t.spans[:n-1]

	span.SetAttributes(attribute.Int("reactive.deps", ev.Effect.Deps()))
	if panicked {
		span.SetStatus(codes.Error, "effect panicked")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// OnTrigger records the write as an event on the current span.
func (t *Tracer) OnTrigger(ev reactive.TriggerEvent) {
	span := t.current()
	if span == nil {
		return
	}
	span.AddEvent("reactive.trigger", trace.WithAttributes(
		attribute.String("reactive.target", ev.Kind),
		attribute.String("reactive.key", ev.Key),
		attribute.Int("reactive.subscribers", ev.Subscribers),
		attribute.Int("reactive.notified", ev.Notified),
	))
}

// OnTrack records a new subscription as an event when TrackEvents is set.
func (t *Tracer) OnTrack(ev reactive.TrackEvent) {
	if !t.config.TrackEvents {
		return
	}
	span := t.current()
	if span == nil {
		return
	}
	span.AddEvent("reactive.track", trace.WithAttributes(
		attribute.String("reactive.target", ev.Kind),
		attribute.String("reactive.key", ev.Key),
	))
}

// EffectStopped records the stop as an event on the current span.
func (t *Tracer) EffectStopped(ev reactive.EffectEvent) {
	span := t.current()
	if span == nil {
		return
	}
	span.AddEvent("reactive.stop", trace.WithAttributes(
		attribute.String("reactive.effect.name", ev.Effect.Name()),
	))
}

// OnComputed records a recomputation as an event on the current span.
func (t *Tracer) OnComputed(ev reactive.ComputedEvent) {
	span := t.current()
	if span == nil {
		return
	}
	span.AddEvent("reactive.computed", trace.WithAttributes(
		attribute.String("reactive.effect.name", ev.Effect.Name()),
		attribute.Int64("reactive.duration_us", ev.Duration.Microseconds()),
	))
}

var _ reactive.Observer = (*Tracer)(nil)
