package demo

import (
	"fmt"
	"io"

	"github.com/vango-dev/reactor/pkg/reactive"
)

func init() {
	register(Scenario{
		Name:        "store",
		Description: "a counter store with state, derived getters and actions",
		run:         runStore,
	})
}

// CounterStore keeps a count and a display name, and derives a few values
// from them. Actions are the only writers.
type CounterStore struct {
	Count *reactive.Ref[int]
	Name  *reactive.Ref[string]

	Double  *reactive.Computed[int]
	IsEven  *reactive.Computed[bool]
	Message *reactive.Computed[string]
}

// NewCounterStore builds a store on rt starting from zero.
func NewCounterStore(rt *reactive.Runtime, name string) *CounterStore {
	s := &CounterStore{
		Count: reactive.NewRef(rt, 0),
		Name:  reactive.NewRef(rt, name),
	}
	s.Double = reactive.NewComputed(rt, func() int {
		return s.Count.Value() * 2
	})
	s.IsEven = reactive.NewComputed(rt, func() bool {
		return s.Count.Value()%2 == 0
	})
	s.Message = reactive.NewComputed(rt, func() string {
		return fmt.Sprintf("%s: %d (%s)", s.Name.Value(), s.Count.Value(), parity(s.IsEven.Value()))
	})
	return s
}

func (s *CounterStore) Increment() {
	s.Count.Update(func(n int) int { return n + 1 })
}

func (s *CounterStore) Decrement() {
	s.Count.Update(func(n int) int { return n - 1 })
}

func (s *CounterStore) IncrementBy(n int) {
	s.Count.Update(func(c int) int { return c + n })
}

func (s *CounterStore) Reset() {
	s.Count.SetValue(0)
}

func (s *CounterStore) SetName(name string) {
	s.Name.SetValue(name)
}

// String reads every getter without tracking.
func (s *CounterStore) String() string {
	return fmt.Sprintf("count=%d double=%d even=%v message=%q",
		s.Count.Peek(), s.Double.Peek(), s.IsEven.Peek(), s.Message.Peek())
}

func parity(even bool) string {
	if even {
		return "even"
	}
	return "odd"
}

func runStore(rt *reactive.Runtime, w io.Writer) {
	store := NewCounterStore(rt, "Vue Counter")

	rt.Effect(func() {
		printf(w, "watch: count = %d", store.Count.Value())
	}, reactive.WithName("store-watch"))
	printf(w, "state: %s", store)

	steps := []struct {
		label string
		do    func()
	}{
		{"increment", store.Increment},
		{"incrementBy 5", func() { store.IncrementBy(5) }},
		{"setName Go Counter", func() { store.SetName("Go Counter") }},
		{"decrement", store.Decrement},
		{"reset", store.Reset},
	}
	for _, step := range steps {
		printf(w, "%s", step.label)
		step.do()
		printf(w, "state: %s", store)
	}
}
