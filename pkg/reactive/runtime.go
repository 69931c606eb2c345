package reactive

import (
	"errors"
	"log/slog"
	"sync/atomic"

	rerrors "github.com/vango-dev/reactor/internal/errors"
)

// Runtime owns a subscription graph and the stack of running effects.
// It is the explicit context every reactive value is created from.
//
// A Runtime is not safe for concurrent use.
type Runtime struct {
	graph *graph

	// stack holds the running effects; the top is the current effect.
	stack []*Effect

	// scope is the Scope that owns newly created effects, if any.
	scope *Scope

	// paused disables tracking for the current effect while Untracked runs.
	paused bool

	logger   *slog.Logger
	observer Observer
	onPanic  func(error)
	debug    DebugConfig
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for misuse warnings and debug tracing.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithObserver attaches an Observer notified of tracks, triggers, and effect runs.
// Use MultiObserver to attach several.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		rt.observer = o
	}
}

// WithPanicHandler sets the function that receives panics recovered while
// notifying subscribers. The error joins one *EffectPanic per failed
// subscriber. The default handler re-panics with that error once every
// sibling subscriber has been notified.
func WithPanicHandler(fn func(error)) Option {
	return func(rt *Runtime) {
		rt.onPanic = fn
	}
}

// WithRecover makes the runtime log panics recovered while notifying
// subscribers at Error level instead of re-panicking them.
func WithRecover() Option {
	return func(rt *Runtime) {
		rt.onPanic = func(err error) {
			rerr := rerrors.New("R005").Wrap(err)
			rt.logger.Error("reactive: "+rerr.Message, "err", rerr)
		}
	}
}

// WithDebug enables debug logging of reads, writes, and effect runs.
func WithDebug(cfg DebugConfig) Option {
	return func(rt *Runtime) {
		rt.debug = cfg
	}
}

// DebugConfig controls debug logging. Every message is logged at Debug level.
type DebugConfig struct {
	// LogTrack logs each new subscription.
	LogTrack bool

	// LogTrigger logs each write that notifies subscribers.
	LogTrigger bool

	// LogEffectRuns logs each tracked effect run.
	LogEffectRuns bool
}

// NewRuntime creates a Runtime with an empty graph.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		graph:   newGraph(),
		logger:  slog.Default(),
		onPanic: func(err error) { panic(err) },
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Active returns the effect currently running, or nil.
func (rt *Runtime) Active() *Effect {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// Depth returns the number of effects currently running.
func (rt *Runtime) Depth() int {
	return len(rt.stack)
}

// SubscriberCount returns the number of effects subscribed to key of target.
// target is a raw object, an *Observable, a *Ref, or a *Computed.
func (rt *Runtime) SubscriberCount(target any, key string) int {
	id, ok := identityOf(target)
	if !ok {
		return 0
	}
	return rt.graph.count(id, key)
}

// TrackedTargets returns the number of targets that currently have subscribers.
func (rt *Runtime) TrackedTargets() int {
	return rt.graph.size()
}

// track records that the current effect read (t, key).
func (rt *Runtime) track(t targetKey, key string) {
	e := rt.Active()
	if e == nil || !e.active || rt.paused {
		return
	}
	if !rt.graph.track(t, key, e) {
		return
	}
	if rt.debug.LogTrack {
		rt.logger.Debug("reactive: track", "target", t.kind.String(), "key", key, "effect", e.Name())
	}
	if rt.observer != nil {
		rt.observer.OnTrack(TrackEvent{Kind: t.kind.String(), Key: key, Effect: e})
	}
}

// trigger notifies every subscriber of (t, key) except the running effect.
// Each subscriber runs in isolation: a panic is recovered so siblings still
// run, and all recovered panics are handed to the panic handler afterwards.
func (rt *Runtime) trigger(t targetKey, key string) {
	subs := rt.graph.subscribers(t, key)
	if len(subs) == 0 {
		return
	}
	invoker := rt.Active()

	if rt.debug.LogTrigger {
		rt.logger.Debug("reactive: trigger", "target", t.kind.String(), "key", key, "subscribers", len(subs))
	}
	if rt.observer != nil {
		notified := 0
		for _, e := range subs {
			if e != invoker && e.active {
				notified++
			}
		}
		rt.observer.OnTrigger(TriggerEvent{
			Kind:        t.kind.String(),
			Key:         key,
			Subscribers: len(subs),
			Notified:    notified,
			Invoker:     invoker,
		})
	}

	var errs []error
	for _, e := range subs {
		// Skipping only the invoker lets other running effects observe the write.
		if e == invoker || !e.active {
			continue
		}
		if err := rt.invoke(e); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		rt.onPanic(errors.Join(errs...))
	}
}

// invoke runs e's scheduler, or e itself, converting a panic into an error.
func (rt *Runtime) invoke(e *Effect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newEffectPanic(e, r)
		}
	}()
	if e.scheduler != nil {
		e.scheduler()
	} else {
		e.Run()
	}
	return nil
}

// push makes e the current effect.
func (rt *Runtime) push(e *Effect) {
	rt.stack = append(rt.stack, e)
}

// pop removes the current effect, restoring the one below it.
func (rt *Runtime) pop() {
	n := len(rt.stack)
	rt.stack[n-1] = nil
	rt.stack = rt.stack[:n-1]
}

// Untracked runs fn with tracking paused, so reads inside fn create no
// subscriptions. The running effect stays current: writes inside fn still
// do not re-run it, and effects created inside fn track their own reads.
func (rt *Runtime) Untracked(fn func()) {
	prev := rt.paused
	rt.paused = true
	defer func() { rt.paused = prev }()
	fn()
}

// globalIDCounter is the source of effect IDs.
var globalIDCounter uint64

// nextID returns the next unique ID. IDs are never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
