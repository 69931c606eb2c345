package demo

import (
	"io"

	"github.com/vango-dev/reactor/pkg/reactive"
)

func init() {
	register(Scenario{
		Name:        "computed",
		Description: "a cached sum recomputed only after an input changed",
		run:         runComputed,
	})
}

func runComputed(rt *reactive.Runtime, w io.Writer) {
	num1 := reactive.NewRef(rt, 10)
	num2 := reactive.NewRef(rt, 20)

	sum := reactive.NewComputed(rt, func() int {
		a, b := num1.Value(), num2.Value()
		printf(w, "  compute sum: %d + %d", a, b)
		return a + b
	})

	printf(w, "first read")
	printf(w, "sum = %d", sum.Value())
	printf(w, "second read")
	printf(w, "sum = %d", sum.Value())

	rt.Effect(func() {
		printf(w, "computed effect: sum = %d", sum.Value())
	}, reactive.WithName("sum"))

	printf(w, "set num1 = 15")
	num1.SetValue(15)
	printf(w, "set num2 = 25")
	num2.SetValue(25)
}
