package reactive

// ValueKey is the single key tracked for a Ref or Computed.
const ValueKey = "value"

// Ref boxes a single value so it takes part in dependency tracking the same
// way an object field does.
type Ref[T any] struct {
	rt    *Runtime
	key   targetKey
	value T
	equal func(T, T) bool
}

// NewRef creates a Ref holding initial.
func NewRef[T any](rt *Runtime, initial T) *Ref[T] {
	r := &Ref[T]{rt: rt, value: initial}
	r.key = boxKey(r, kindRef)
	r.equal = equalFunc[T](nil)
	return r
}

// Value returns the current value and subscribes the current effect.
func (r *Ref[T]) Value() T {
	r.rt.track(r.key, ValueKey)
	return r.value
}

// Peek returns the current value without subscribing.
func (r *Ref[T]) Peek() T {
	return r.value
}

// SetValue stores v and notifies subscribers if it differs from the
// current value.
func (r *Ref[T]) SetValue(v T) {
	if r.equal(r.value, v) {
		return
	}
	r.value = v
	r.rt.trigger(r.key, ValueKey)
}

// Update replaces the value with fn applied to the current one, without
// subscribing the current effect.
func (r *Ref[T]) Update(fn func(T) T) {
	r.SetValue(fn(r.value))
}

// WithEquals configures the equality used by SetValue.
func (r *Ref[T]) WithEquals(fn func(T, T) bool) *Ref[T] {
	r.equal = equalFunc(fn)
	return r
}

func (r *Ref[T]) reactiveKey() targetKey { return r.key }
func (r *Ref[T]) anyValue() any { return r.Value() }

// IsRef reports whether v is a *Ref or a *Computed.
func IsRef(v any) bool {
	_, ok := v.(cell)
	return ok
}

// Unref returns the tracked value of a *Ref or *Computed, or v itself.
func Unref(v any) any {
	if c, ok := v.(cell); ok {
		return c.anyValue()
	}
	return v
}
