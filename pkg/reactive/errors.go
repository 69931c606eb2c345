package reactive

import (
	"errors"
	"fmt"
	"runtime/debug"

	rerrors "github.com/vango-dev/reactor/internal/errors"
)

// ErrNotObject is returned when a value without identity is made reactive.
// Only non-nil maps with string keys, pointers to structs, and pointers
// implementing Fields can be observed.
var ErrNotObject = errors.New("reactive: value is not an object")

// ErrReadOnly is reported when a computed value without a setter is written.
var ErrReadOnly = errors.New("reactive: computed value is read-only")

// ErrCircularComputed is reported when a computed value reads itself while computing.
var ErrCircularComputed = errors.New("reactive: computed value read itself")

// ErrUnknownField is reported when a struct target has no exported field of that name.
var ErrUnknownField = errors.New("reactive: unknown field")

// ErrFieldType is reported when a written value is not assignable to the field.
var ErrFieldType = errors.New("reactive: value not assignable to field")

// EffectPanic is a panic recovered while a write was notifying subscribers.
type EffectPanic struct {
	// Effect is the name of the subscriber that panicked.
	Effect string

	// EffectID is the ID of the subscriber that panicked.
	EffectID uint64

	// Value is the recovered panic value.
	Value any

	// Stack is the goroutine stack at the point of recovery.
	Stack []byte
}

func newEffectPanic(e *Effect, v any) *EffectPanic {
	return &EffectPanic{
		Effect:   e.name,
		EffectID: e.id,
		Value:    v,
		Stack:    debug.Stack(),
	}
}

// Error implements the error interface.
func (p *EffectPanic) Error() string {
	return fmt.Sprintf("reactive: effect %s panicked: %v", p.Effect, p.Value)
}

// Unwrap returns the panic value when it was an error.
func (p *EffectPanic) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// warn logs a coded misuse warning. Misuse never stops the caller.
func (rt *Runtime) warn(code string, cause error, detail string, args ...any) {
	err := rerrors.New(code).WithDetailf(detail, args...).Wrap(cause)
	rt.logger.Warn("reactive: "+err.Message, "err", err)
}
