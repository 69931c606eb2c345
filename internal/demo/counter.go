package demo

import (
	"io"

	"github.com/vango-dev/reactor/pkg/reactive"
)

func init() {
	register(Scenario{
		Name:        "counter",
		Description: "a reusable counter composed from refs and computeds",
		run:         runCounter,
	})
}

// Counter is a self-contained counter with a fixed step and a handful of
// derived flags.
type Counter struct {
	Count *reactive.Ref[int]

	IsZero     *reactive.Computed[bool]
	IsPositive *reactive.Computed[bool]
	IsNegative *reactive.Computed[bool]
	IsEven     *reactive.Computed[bool]
	Double     *reactive.Computed[int]
	Status     *reactive.Computed[string]

	initial int
	step    int
}

// NewCounter returns a Counter starting at initial. A step below one is
// treated as one.
func NewCounter(rt *reactive.Runtime, initial, step int) *Counter {
	if step < 1 {
		step = 1
	}
	c := &Counter{
		Count:   reactive.NewRef(rt, initial),
		initial: initial,
		step:    step,
	}
	c.IsZero = reactive.NewComputed(rt, func() bool { return c.Count.Value() == 0 })
	c.IsPositive = reactive.NewComputed(rt, func() bool { return c.Count.Value() > 0 })
	c.IsNegative = reactive.NewComputed(rt, func() bool { return c.Count.Value() < 0 })
	c.IsEven = reactive.NewComputed(rt, func() bool { return c.Count.Value()%2 == 0 })
	c.Double = reactive.NewComputed(rt, func() int { return c.Count.Value() * 2 })
	c.Status = reactive.NewComputed(rt, func() string {
		n := c.Count.Value()
		switch {
		case n > 10:
			return "very large"
		case n < 0:
			return "negative"
		case n == 0:
			return "zero"
		default:
			return "counting"
		}
	})
	return c
}

// Increment adds amount, or the counter's step when amount is omitted.
func (c *Counter) Increment(amount ...int) {
	d := c.step
	if len(amount) > 0 {
		d = amount[0]
	}
	c.Count.Update(func(n int) int { return n + d })
}

// Decrement subtracts amount, or the counter's step when amount is omitted.
func (c *Counter) Decrement(amount ...int) {
	d := c.step
	if len(amount) > 0 {
		d = amount[0]
	}
	c.Count.Update(func(n int) int { return n - d })
}

// Reset restores the initial value.
func (c *Counter) Reset() {
	c.Count.SetValue(c.initial)
}

func (c *Counter) Set(n int) {
	c.Count.SetValue(n)
}

func runCounter(rt *reactive.Runtime, w io.Writer) {
	c1 := NewCounter(rt, 0, 1)
	c2 := NewCounter(rt, 10, 5)

	rt.Effect(func() {
		printf(w, "counter1 status: %s", c1.Status.Value())
	}, reactive.WithName("counter1-status"))
	rt.Effect(func() {
		printf(w, "counter2 status: %s", c2.Status.Value())
	}, reactive.WithName("counter2-status"))

	report := func() {
		printf(w, "counter1: count=%d double=%d even=%v zero=%v",
			c1.Count.Peek(), c1.Double.Peek(), c1.IsEven.Peek(), c1.IsZero.Peek())
		printf(w, "counter2: count=%d positive=%v negative=%v",
			c2.Count.Peek(), c2.IsPositive.Peek(), c2.IsNegative.Peek())
	}
	report()

	printf(w, "counter1 increment")
	c1.Increment()
	printf(w, "counter2 increment")
	c2.Increment()
	report()

	printf(w, "counter1 decrement 3")
	c1.Decrement(3)
	printf(w, "counter2 reset")
	c2.Reset()
	report()
}
