package demo

import (
	"io"

	"github.com/vango-dev/reactor/pkg/reactive"
)

func init() {
	register(Scenario{
		Name:        "reactive",
		Description: "two effects over one object, each re-run only by its own field",
		run:         runReactive,
	})
	register(Scenario{
		Name:        "precise",
		Description: "writes re-run only the effects that read the written key",
		run:         runPrecise,
	})
	register(Scenario{
		Name:        "ref",
		Description: "boxed primitives take part in tracking",
		run:         runRef,
	})
	register(Scenario{
		Name:        "nested",
		Description: "nested objects are wrapped on read",
		run:         runNested,
	})
	register(Scenario{
		Name:        "self-increment",
		Description: "an effect writing what it reads does not re-trigger itself",
		run:         runSelfIncrement,
	})
}

func runReactive(rt *reactive.Runtime, w io.Writer) {
	state := rt.Reactive(map[string]any{
		"count":   0,
		"message": "hello",
	}).(*reactive.Observable)

	rt.Effect(func() {
		printf(w, "effect1: count = %v", state.Get("count"))
	}, reactive.WithName("effect1"))
	rt.Effect(func() {
		printf(w, "effect2: message = %v", state.Get("message"))
	}, reactive.WithName("effect2"))

	printf(w, "set count = 10")
	state.Set("count", 10)
	printf(w, "set count = 10 again")
	state.Set("count", 10)
	printf(w, "set message = hello vue")
	state.Set("message", "hello vue")
}

type document struct {
	Text  string
	Count int
}

func runPrecise(rt *reactive.Runtime, w io.Writer) {
	obj := rt.Reactive(&document{Text: "hello"}).(*reactive.Observable)

	rt.Effect(func() {
		printf(w, "text effect: %v", obj.Get("Text"))
	}, reactive.WithName("text"))
	rt.Effect(func() {
		printf(w, "count effect: %v", obj.Get("Count"))
	}, reactive.WithName("count"))

	printf(w, "set Text = hello vue")
	obj.Set("Text", "hello vue")
	printf(w, "set Count = 100")
	obj.Set("Count", 100)
}

func runRef(rt *reactive.Runtime, w io.Writer) {
	count := reactive.NewRef(rt, 0)
	message := reactive.NewRef(rt, "hello")

	rt.Effect(func() {
		printf(w, "ref effect: count = %d", count.Value())
	}, reactive.WithName("ref"))

	printf(w, "set count = 100")
	count.SetValue(100)
	printf(w, "set message = hello ref")
	message.SetValue("hello ref")
}

func runNested(rt *reactive.Runtime, w io.Writer) {
	nested := rt.Reactive(map[string]any{
		"user": map[string]any{
			"name": "link",
			"age":  25,
		},
		"settings": map[string]any{
			"theme": "dark",
		},
	}).(*reactive.Observable)

	user := func() *reactive.Observable {
		return nested.Get("user").(*reactive.Observable)
	}

	rt.Effect(func() {
		printf(w, "nested effect: user.name = %v", user().Get("name"))
	}, reactive.WithName("nested"))

	printf(w, "set user.name = vue")
	user().Set("name", "vue")
	printf(w, "set user.age = 30")
	user().Set("age", 30)
	printf(w, "replace user")
	nested.Set("user", map[string]any{"name": "evan", "age": 40})
}

func runSelfIncrement(rt *reactive.Runtime, w io.Writer) {
	data := rt.Reactive(map[string]any{"foo": 1}).(*reactive.Observable)

	rt.Effect(func() {
		foo := data.Get("foo").(int)
		printf(w, "self-increment: foo = %d", foo)
		data.Set("foo", foo+1)
	}, reactive.WithName("self-increment"))

	printf(w, "foo is now %v", data.Peek("foo"))
	printf(w, "set foo = 10")
	data.Set("foo", 10)
	printf(w, "foo is now %v", data.Peek("foo"))
}
