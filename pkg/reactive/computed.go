package reactive

import (
	"fmt"
	"time"
)

// Computed is a lazily recomputed, cached value derived from other
// reactive values.
//
// A Computed starts dirty. Reading it while dirty runs the getter, caches
// the result, and marks it clean. When anything the getter read changes,
// the Computed only marks itself dirty and notifies its own subscribers;
// the getter runs again on the next read. Reading a clean Computed returns
// the cache without running the getter.
type Computed[T any] struct {
	rt  *Runtime
	key targetKey

	getter func() T
	setter func(T)

	value T
	dirty bool

	// computing guards against the getter reading its own Computed.
	computing bool

	effect *Effect
}

// NewComputed creates a read-only Computed from getter.
// The getter does not run until the first read.
//
// Example:
//
//	sum := reactive.NewComputed(rt, func() int { return a.Value() + b.Value() })
//	fmt.Println(sum.Value())
func NewComputed[T any](rt *Runtime, getter func() T) *Computed[T] {
	return newComputed(rt, getter, nil)
}

// NewWritableComputed creates a Computed whose writes are passed to setter.
func NewWritableComputed[T any](rt *Runtime, get func() T, set func(T)) *Computed[T] {
	return newComputed(rt, get, set)
}

func newComputed[T any](rt *Runtime, get func() T, set func(T)) *Computed[T] {
	c := &Computed[T]{
		rt:     rt,
		getter: get,
		setter: set,
		dirty:  true,
	}
	c.key = boxKey(c, kindComputed)

	c.effect = rt.newEffect(func() {
		c.value = c.getter()
	}, effectConfig{scheduler: c.invalidate})
	c.effect.name = fmt.Sprintf("computed-%d", c.effect.id)
	c.effect.computed = true
	return c
}

// invalidate is the internal effect's scheduler: Clean -> Dirty, then tell
// subscribers of this Computed to pull again. Dirty -> Dirty does nothing.
func (c *Computed[T]) invalidate() {
	if c.dirty {
		return
	}
	c.dirty = true
	c.rt.trigger(c.key, ValueKey)
}

// Value returns the cached value, recomputing it first if dirty. The current
// effect is subscribed whether or not a recomputation happens.
//
// Reads made by the getter are attributed to the Computed, not to the
// effect reading it.
func (c *Computed[T]) Value() T {
	c.rt.track(c.key, ValueKey)
	return c.Peek()
}

// Peek is like Value but does not subscribe the current effect.
func (c *Computed[T]) Peek() T {
	// The internal effect may have been stopped by its Scope.
	if !c.dirty && c.effect.active {
		return c.value
	}
	if c.computing {
		c.rt.warn("R003", ErrCircularComputed, "%s", c.effect.name)
		return c.value
	}

	c.computing = true
	defer func() { c.computing = false }()

	start := time.Now()
	c.effect.Run()
	// A stopped Computed no longer hears about changes, so it never caches.
	c.dirty = !c.effect.active

	if c.rt.observer != nil {
		c.rt.observer.OnComputed(ComputedEvent{Effect: c.effect, Duration: time.Since(start)})
	}
	return c.value
}

// SetValue passes v to the setter. Without a setter the write is ignored
// and a warning is logged.
func (c *Computed[T]) SetValue(v T) {
	if c.setter == nil {
		c.rt.warn("R002", ErrReadOnly, "%s", c.effect.name)
		return
	}
	c.setter(v)
}

// Dirty reports whether the next read will run the getter.
func (c *Computed[T]) Dirty() bool {
	return c.dirty || !c.effect.active
}

// Effect returns the internal effect that runs the getter.
func (c *Computed[T]) Effect() *Effect {
	return c.effect
}

// Stop detaches the Computed from its dependencies. Later reads run the
// getter every time.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
	c.dirty = true
}

func (c *Computed[T]) reactiveKey() targetKey { return c.key }
func (c *Computed[T]) anyValue() any { return c.Value() }
