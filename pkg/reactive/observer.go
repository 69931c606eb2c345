package reactive

import "time"

// Observer receives engine events. Implementations must not read or write
// reactive values from inside a callback.
type Observer interface {
	// OnTrack is called when a running effect subscribes to a new (target, key).
	OnTrack(TrackEvent)

	// OnTrigger is called when a write notifies a non-empty subscriber set.
	OnTrigger(TriggerEvent)

	// EffectStart is called when a tracked run begins.
	EffectStart(EffectEvent)

	// EffectEnd is called when a tracked run returns or panics.
	EffectEnd(ev EffectEvent, panicked bool)

	// EffectStopped is called once when an effect is stopped.
	EffectStopped(EffectEvent)

	// OnComputed is called after a computed value was recomputed.
	OnComputed(ComputedEvent)
}

// TrackEvent describes a new subscription.
type TrackEvent struct {
	// Kind is the target kind: map, struct, fields, ref, or computed.
	Kind   string
	Key    string
	Effect *Effect
}

// TriggerEvent describes a write that notifies subscribers.
type TriggerEvent struct {
	Kind string
	Key  string

	// Subscribers is the size of the subscriber set at the time of the write.
	Subscribers int

	// Notified is the number of those subscribers the write notifies: all of
	// them but the invoker and effects already stopped.
	Notified int

	// Invoker is the effect performing the write, or nil.
	Invoker *Effect
}

// EffectEvent describes an effect run or stop.
type EffectEvent struct {
	Effect *Effect

	// Depth is the run-stack depth, counting the effect itself while running.
	Depth int

	// Duration is set on EffectEnd.
	Duration time.Duration
}

// ComputedEvent describes a recomputation.
type ComputedEvent struct {
	// Effect is the computed value's internal effect.
	Effect   *Effect
	Duration time.Duration
}

// NopObserver implements Observer with no-ops. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) OnTrack(TrackEvent) {}
func (NopObserver) OnTrigger(TriggerEvent) {}
func (NopObserver) EffectStart(EffectEvent) {}
func (NopObserver) EffectEnd(EffectEvent, bool) {}
func (NopObserver) EffectStopped(EffectEvent) {}
func (NopObserver) OnComputed(ComputedEvent) {}

// MultiObserver fans events out to several observers, in order.
type MultiObserver []Observer

func (m MultiObserver) OnTrack(ev TrackEvent) {
	for _, o := range m {
		o.OnTrack(ev)
	}
}

func (m MultiObserver) OnTrigger(ev TriggerEvent) {
	for _, o := range m {
		o.OnTrigger(ev)
	}
}

func (m MultiObserver) EffectStart(ev EffectEvent) {
	for _, o := range m {
		o.EffectStart(ev)
	}
}

func (m MultiObserver) EffectEnd(ev EffectEvent, panicked bool) {
	for _, o := range m {
		o.EffectEnd(ev, panicked)
	}
}

func (m MultiObserver) EffectStopped(ev EffectEvent) {
	for _, o := range m {
		o.EffectStopped(ev)
	}
}

func (m MultiObserver) OnComputed(ev ComputedEvent) {
	for _, o := range m {
		o.OnComputed(ev)
	}
}
