// Package reactive is a push-based dependency-tracking engine.
//
// Reading a tracked field while an effect is running records that the
// effect depends on it. Writing the field later re-runs exactly the effects
// that read it during their most recent run. Derived values are built on
// the same mechanism and recompute lazily.
//
// # Core Types
//
// A Runtime holds the subscription graph and the stack of running effects.
// Everything else is created from one:
//
//	rt := reactive.NewRuntime()
//
// Observable wraps a map or struct pointer and routes field access through
// the graph:
//
//	state := rt.Reactive(map[string]any{"count": 0}).(*reactive.Observable)
//	rt.Effect(func() {
//	    fmt.Println("count is", state.Get("count"))
//	})
//	state.Set("count", 10) // effect re-runs, prints 10
//	state.Set("count", 10) // equal value, nothing happens
//
// Ref boxes a single value:
//
//	a := reactive.NewRef(rt, 10)
//	a.SetValue(15)
//
// Computed caches a derived value and only recomputes after a dependency
// changed and the value is read again:
//
//	sum := reactive.NewComputed(rt, func() int { return a.Value() + b.Value() })
//	sum.Value() // computes
//	sum.Value() // cached
//
// # Dependency Rules
//
// Subscriptions are rebuilt from scratch on every run, so an effect whose
// branch stops reading a field stops being notified about it. A write never
// re-runs the effect that is performing it. Effects hold their subscriptions
// until Stop is called; use a Scope to stop a group of them together.
//
// # Thread Safety
//
// A Runtime is not safe for concurrent use. All operations are synchronous:
// a write returns only after every notified effect, and every effect those
// effects notified in turn, has finished. Use one Runtime per goroutine or
// guard it externally.
package reactive
