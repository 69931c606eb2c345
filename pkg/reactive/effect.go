package reactive

import (
	"fmt"
	"time"
)

// Effect is a computation that re-runs when a value it read during its
// last run changes.
//
// Every run starts by dropping all subscriptions of the previous run, so
// the dependency set always matches what the most recent run read. An
// Effect keeps its subscriptions, and thereby stays reachable from the
// targets it read, until Stop is called.
type Effect struct {
	id uint64
	rt *Runtime

	// fn is the wrapped computation.
	fn func()

	// scheduler, when set, is invoked on invalidation instead of Run.
	scheduler func()

	// onStop runs once when the effect is stopped.
	onStop func()

	name string

	// computed marks the internal effect of a Computed.
	computed bool

	// scope owns the effect, and every effect created while it runs.
	scope *Scope

	// active is false once Stop has been called.
	active bool

	// deps are the subscriber sets this effect currently belongs to.
	deps []*dep
}

// EffectOption is an option for configuring an Effect.
type EffectOption interface {
	applyEffect(e *effectConfig)
}

type effectConfig struct {
	lazy      bool
	scheduler func()
	onStop    func()
	name      string
}

type effectOptionFunc func(*effectConfig)

func (f effectOptionFunc) applyEffect(c *effectConfig) { f(c) }

// Lazy skips the initial run; the effect tracks nothing until Run is called.
func Lazy() EffectOption {
	return effectOptionFunc(func(c *effectConfig) {
		c.lazy = true
	})
}

// WithScheduler replaces the automatic re-run on invalidation. fn is called
// whenever a dependency changes; it decides if and when to call Run.
func WithScheduler(fn func()) EffectOption {
	return effectOptionFunc(func(c *effectConfig) {
		c.scheduler = fn
	})
}

// WithOnStop registers fn to run once when the effect is stopped.
func WithOnStop(fn func()) EffectOption {
	return effectOptionFunc(func(c *effectConfig) {
		c.onStop = fn
	})
}

// WithName labels the effect in logs, metrics, and traces.
func WithName(name string) EffectOption {
	return effectOptionFunc(func(c *effectConfig) {
		c.name = name
	})
}

// Effect registers fn as a reactive computation and runs it once, unless
// the Lazy option is given. The returned handle re-runs or stops it.
//
// Example:
//
//	e := rt.Effect(func() {
//	    fmt.Println("count is", state.Get("count"))
//	})
//	defer e.Stop()
func (rt *Runtime) Effect(fn func(), opts ...EffectOption) *Effect {
	var cfg effectConfig
	for _, opt := range opts {
		opt.applyEffect(&cfg)
	}

	e := rt.newEffect(fn, cfg)
	if !cfg.lazy {
		e.Run()
	}
	return e
}

// newEffect creates an effect without running it and registers it with the
// current scope.
func (rt *Runtime) newEffect(fn func(), cfg effectConfig) *Effect {
	e := &Effect{
		id:        nextID(),
		rt:        rt,
		fn:        fn,
		scheduler: cfg.scheduler,
		onStop:    cfg.onStop,
		name:      cfg.name,
		active:    true,
		scope:     rt.scope,
	}
	if e.name == "" {
		e.name = fmt.Sprintf("effect-%d", e.id)
	}
	if rt.scope != nil {
		rt.scope.adopt(e)
	}
	return e
}

// ID returns the unique identifier of the effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the effect's label.
func (e *Effect) Name() string {
	return e.name
}

// Computed reports whether e is the internal effect of a Computed.
func (e *Effect) Computed() bool {
	return e.computed
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return e.active
}

// Deps returns the number of subscriber sets the effect belongs to.
func (e *Effect) Deps() int {
	return len(e.deps)
}

// Run executes the computation.
//
// A stopped effect calls the computation directly, without tracking.
// An active effect becomes the current effect, drops every subscription
// from its previous run, and collects new ones while the computation runs.
// Effects created during the run belong to e's Scope, wherever Run is
// called from. The previous current effect and Scope are restored on
// return, including when the computation panics; the panic then propagates
// to the caller.
func (e *Effect) Run() {
	if !e.active {
		e.fn()
		return
	}

	rt := e.rt
	prevScope, prevPaused := rt.scope, rt.paused
	rt.scope, rt.paused = e.scope, false
	rt.push(e)

	var start time.Time
	if rt.observer != nil {
		start = time.Now()
		rt.observer.EffectStart(EffectEvent{Effect: e, Depth: len(rt.stack)})
	}
	if rt.debug.LogEffectRuns {
		rt.logger.Debug("reactive: run", "effect", e.name, "depth", len(rt.stack))
	}

	completed := false
	defer func() {
		if rt.observer != nil {
			rt.observer.EffectEnd(EffectEvent{
				Effect:   e,
				Depth:    len(rt.stack),
				Duration: time.Since(start),
			}, !completed)
		}
		rt.pop()
		rt.scope, rt.paused = prevScope, prevPaused
	}()

	rt.graph.removeEffect(e)
	e.fn()
	completed = true
}

// Stop detaches the effect from every subscription and disables future
// re-runs. Stop is idempotent.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.rt.graph.removeEffect(e)
	e.active = false
	if e.rt.observer != nil {
		e.rt.observer.EffectStopped(EffectEvent{Effect: e, Depth: len(e.rt.stack)})
	}
	if e.onStop != nil {
		e.onStop()
	}
}
