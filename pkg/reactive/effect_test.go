package reactive

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEffectRunsOnCreate(t *testing.T) {
	rt := NewRuntime()

	ran := 0
	rt.Effect(func() { ran++ })

	if ran != 1 {
		t.Errorf("effect should run once on creation, ran %d times", ran)
	}
}

func TestEffectLazy(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 0)

	ran := 0
	e := rt.Effect(func() {
		_ = count.Value()
		ran++
	}, Lazy())

	if ran != 0 {
		t.Fatalf("lazy effect should not run on creation, ran %d times", ran)
	}
	count.SetValue(1)
	if ran != 0 {
		t.Fatalf("lazy effect tracks nothing before its first run, ran %d times", ran)
	}

	e.Run()
	count.SetValue(2)
	if ran != 2 {
		t.Errorf("expected 2 runs after manual run and a write, got %d", ran)
	}
}

func TestEffectReRunsOnChange(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"count": 0}).(*Observable)

	var seen []any
	rt.Effect(func() {
		seen = append(seen, state.Get("count"))
	})

	state.Set("count", 10)
	state.Set("count", 10)

	if diff := cmp.Diff([]any{0, 10}, seen); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestEffectDropsStaleDependencies(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"ok": true, "text": "hello"}).(*Observable)

	runs := 0
	rt.Effect(func() {
		runs++
		if state.Get("ok").(bool) {
			_ = state.Get("text")
		}
	})

	state.Set("ok", false)
	if runs != 2 {
		t.Fatalf("expected 2 runs, got %d", runs)
	}

	state.Set("text", "bye")
	if runs != 2 {
		t.Errorf("write to a key no longer read should not re-run the effect, got %d runs", runs)
	}
	if n := rt.SubscriberCount(state, "text"); n != 0 {
		t.Errorf("expected no subscribers for text, got %d", n)
	}
}

func TestEffectStop(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 1)
	b := NewRef(rt, 1)
	derived := NewComputed(rt, func() int { return b.Value() * 2 })

	runs := 0
	stopped := 0
	e := rt.Effect(func() {
		runs++
		_ = a.Value()
		_ = derived.Value()
	}, WithOnStop(func() { stopped++ }))

	e.Stop()
	e.Stop()

	a.SetValue(2)
	b.SetValue(2)

	if runs != 1 {
		t.Errorf("stopped effect should never re-run, ran %d times", runs)
	}
	if stopped != 1 {
		t.Errorf("OnStop should run exactly once, ran %d times", stopped)
	}
	if e.Active() {
		t.Error("effect should be inactive after Stop")
	}
	if rt.SubscriberCount(a, ValueKey) != 0 || rt.SubscriberCount(derived, ValueKey) != 0 {
		t.Error("stopped effect should hold no subscriptions")
	}
}

func TestStoppedEffectRunsUntracked(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 1)

	runs := 0
	e := rt.Effect(func() {
		runs++
		_ = a.Value()
	})
	e.Stop()

	e.Run()
	if runs != 2 {
		t.Fatalf("manual run of a stopped effect should call the computation, ran %d times", runs)
	}
	if e.Deps() != 0 {
		t.Errorf("stopped effect should not track, has %d deps", e.Deps())
	}
	if rt.Depth() != 0 {
		t.Errorf("stopped effect should not be pushed, depth %d", rt.Depth())
	}
}

func TestEffectStopsItselfMidRun(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 0)
	b := NewRef(rt, 0)

	var e *Effect
	e = rt.Effect(func() {
		if a.Value() > 0 {
			e.Stop()
			_ = b.Value()
		}
	})

	a.SetValue(1)
	if e.Deps() != 0 {
		t.Errorf("reads after Stop should not track, has %d deps", e.Deps())
	}
	if rt.SubscriberCount(b, ValueKey) != 0 {
		t.Error("b should have no subscribers")
	}
}

func TestEffectScheduler(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 0)

	runs, scheduled := 0, 0
	var e *Effect
	e = rt.Effect(func() {
		_ = count.Value()
		runs++
	}, WithScheduler(func() { scheduled++ }))

	count.SetValue(1)
	count.SetValue(2)
	if runs != 1 || scheduled != 2 {
		t.Fatalf("scheduler should replace re-runs: runs=%d scheduled=%d", runs, scheduled)
	}

	e.Run()
	if runs != 2 {
		t.Errorf("manual run should execute, runs=%d", runs)
	}
}

func TestEffectSelfTriggerGuard(t *testing.T) {
	rt := NewRuntime()
	data := rt.Reactive(map[string]any{"foo": 1}).(*Observable)

	runs := 0
	rt.Effect(func() {
		runs++
		data.Set("foo", data.Get("foo").(int)+1)
	})

	if runs != 1 {
		t.Errorf("an effect must not re-run from its own write, ran %d times", runs)
	}
	if got := data.Peek("foo"); got != 2 {
		t.Errorf("foo = %v, want 2", got)
	}

	data.Set("foo", 10)
	if runs != 2 {
		t.Errorf("an external write should re-run the effect once, ran %d times", runs)
	}
	if got := data.Peek("foo"); got != 11 {
		t.Errorf("foo = %v, want 11", got)
	}
}

func TestEffectWritesNotifyOtherEffects(t *testing.T) {
	rt := NewRuntime()
	src := NewRef(rt, 0)
	mirror := NewRef(rt, 0)

	var log []string
	rt.Effect(func() {
		log = append(log, fmt.Sprintf("reader %d", mirror.Value()))
	})
	rt.Effect(func() {
		v := src.Value()
		mirror.SetValue(v)
		log = append(log, fmt.Sprintf("writer %d", v))
	})

	src.SetValue(5)

	want := []string{"reader 0", "writer 0", "reader 5", "writer 5"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedEffectsAttribution(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"x": 0, "y": 0, "z": 0}).(*Observable)

	var log []string
	var inner *Effect
	outer := rt.Effect(func() {
		log = append(log, "outer")
		_ = state.Get("x")
		if inner != nil {
			inner.Stop()
		}
		inner = rt.Effect(func() {
			log = append(log, "inner")
			_ = state.Get("y")
		})
		// Read after the nested effect finished still belongs to outer.
		_ = state.Get("z")
	})

	if rt.Active() != nil {
		t.Fatal("no effect should be current after creation returns")
	}

	log = nil
	state.Set("y", 1)
	if diff := cmp.Diff([]string{"inner"}, log); diff != "" {
		t.Errorf("write to y (-want +got):\n%s", diff)
	}

	log = nil
	state.Set("x", 1)
	if diff := cmp.Diff([]string{"outer", "inner"}, log); diff != "" {
		t.Errorf("write to x (-want +got):\n%s", diff)
	}

	log = nil
	state.Set("z", 1)
	if diff := cmp.Diff([]string{"outer", "inner"}, log); diff != "" {
		t.Errorf("write to z (-want +got):\n%s", diff)
	}

	if outer.Deps() != 2 {
		t.Errorf("outer should depend on x and z only, has %d deps", outer.Deps())
	}
	if inner.Deps() != 1 {
		t.Errorf("inner should depend on y only, has %d deps", inner.Deps())
	}
}

func TestEffectPanicRestoresStack(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 0)

	outer := rt.Effect(func() {}, Lazy())
	failing := rt.Effect(func() {
		_ = a.Value()
		panic("boom")
	}, Lazy())

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("expected panic to propagate, got %v", r)
			}
		}()
		rt.push(outer)
		defer rt.pop()
		failing.Run()
	}()

	if rt.Depth() != 0 {
		t.Errorf("stack should be empty after panic, depth %d", rt.Depth())
	}
}

func TestEffectPanicRestoresPreviousEffect(t *testing.T) {
	rt := NewRuntime()
	b := NewRef(rt, 0)

	var innerPanicked bool
	outer := rt.Effect(func() {
		func() {
			defer func() { innerPanicked = recover() != nil }()
			rt.Effect(func() { panic("inner") })
		}()
		_ = b.Value()
	})

	if !innerPanicked {
		t.Fatal("inner panic should reach the outer computation")
	}
	if rt.SubscriberCount(b, ValueKey) != 1 || outer.Deps() != 1 {
		t.Error("read after a recovered nested panic should belong to the outer effect")
	}
}

func TestTriggerIsolatesPanics(t *testing.T) {
	var handled error
	rt := NewRuntime(WithPanicHandler(func(err error) { handled = err }))
	count := NewRef(rt, 0)

	var log []string
	rt.Effect(func() {
		_ = count.Value()
		log = append(log, "first")
	}, WithName("first"))
	rt.Effect(func() {
		if count.Value() > 0 {
			panic(errors.New("exploded"))
		}
	}, WithName("second"))
	rt.Effect(func() {
		_ = count.Value()
		log = append(log, "third")
	}, WithName("third"))

	log = nil
	count.SetValue(1)

	if diff := cmp.Diff([]string{"first", "third"}, log); diff != "" {
		t.Errorf("siblings should still run (-want +got):\n%s", diff)
	}

	var ep *EffectPanic
	if !errors.As(handled, &ep) {
		t.Fatalf("expected *EffectPanic, got %v", handled)
	}
	if ep.Effect != "second" {
		t.Errorf("panic attributed to %q, want second", ep.Effect)
	}
	if ep.Unwrap() == nil || ep.Unwrap().Error() != "exploded" {
		t.Errorf("Unwrap() = %v, want the panic error", ep.Unwrap())
	}
	if len(ep.Stack) == 0 {
		t.Error("expected a captured stack")
	}
	if rt.Depth() != 0 {
		t.Errorf("stack should be empty, depth %d", rt.Depth())
	}
}

func TestTriggerDefaultRepanics(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 0)

	after := 0
	rt.Effect(func() {
		if count.Value() > 0 {
			panic("bad")
		}
	})
	rt.Effect(func() {
		_ = count.Value()
		after++
	})

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected an error panic, got %v", r)
		}
		if !strings.Contains(err.Error(), "panicked: bad") {
			t.Errorf("unexpected panic error: %v", err)
		}
		if after != 2 {
			t.Errorf("sibling should run before the panic surfaces, ran %d times", after)
		}
	}()
	count.SetValue(1)
	t.Fatal("SetValue should have panicked")
}

func TestTriggerWithRecoverLogs(t *testing.T) {
	rt, logs := newTestRuntime(t, WithRecover())
	count := NewRef(rt, 0)
	rt.Effect(func() {
		if count.Value() > 0 {
			panic("bad")
		}
	}, WithName("fragile"))

	count.SetValue(1)

	out := logs.String()
	for _, want := range []string{"level=ERROR", "R005", "effect fragile panicked: bad"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q in:\n%s", want, out)
		}
	}
}

func TestEffectSkipsSubscriberStoppedMidNotification(t *testing.T) {
	rt := NewRuntime()
	count := NewRef(rt, 0)

	var victim *Effect
	victimRuns := 0
	rt.Effect(func() {
		if count.Value() > 0 {
			victim.Stop()
		}
	})
	victim = rt.Effect(func() {
		_ = count.Value()
		victimRuns++
	})

	count.SetValue(1)
	if victimRuns != 1 {
		t.Errorf("an effect stopped during notification must not run, ran %d times", victimRuns)
	}
}

func TestEffectNames(t *testing.T) {
	rt := NewRuntime()
	named := rt.Effect(func() {}, WithName("render"))
	anon := rt.Effect(func() {})

	if named.Name() != "render" {
		t.Errorf("Name() = %q, want render", named.Name())
	}
	if want := fmt.Sprintf("effect-%d", anon.ID()); anon.Name() != want {
		t.Errorf("Name() = %q, want %q", anon.Name(), want)
	}
	if named.ID() == anon.ID() {
		t.Error("effect IDs must be unique")
	}
}

func TestUntracked(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 0)
	b := NewRef(rt, 0)

	runs := 0
	rt.Effect(func() {
		runs++
		_ = a.Value()
		rt.Untracked(func() {
			_ = b.Value()
		})
	})

	b.SetValue(1)
	if runs != 1 {
		t.Errorf("untracked read should not subscribe, ran %d times", runs)
	}
	a.SetValue(1)
	if runs != 2 {
		t.Errorf("tracked read should still subscribe, ran %d times", runs)
	}
}

func TestUntrackedWriteKeepsSelfTriggerGuard(t *testing.T) {
	rt := NewRuntime()
	state := rt.Reactive(map[string]any{"n": 0}).(*Observable)

	runs := 0
	rt.Effect(func() {
		runs++
		n := state.Get("n").(int)
		if n < 5 {
			rt.Untracked(func() { state.Set("n", n+1) })
		}
	})

	if runs != 1 {
		t.Errorf("a write inside Untracked must not re-run the running effect, ran %d times", runs)
	}
	if got := state.Peek("n"); got != 1 {
		t.Errorf("n = %v, want 1", got)
	}
	if rt.Depth() != 0 {
		t.Errorf("run stack should be empty afterwards, depth %d", rt.Depth())
	}
}

func TestEffectCreatedInsideUntrackedTracks(t *testing.T) {
	rt := NewRuntime()
	a := NewRef(rt, 0)

	outerRuns, innerRuns := 0, 0
	rt.Effect(func() {
		outerRuns++
		rt.Untracked(func() {
			rt.Effect(func() {
				_ = a.Value()
				innerRuns++
			})
		})
	})

	a.SetValue(1)
	if outerRuns != 1 {
		t.Errorf("outer effect read nothing tracked, ran %d times", outerRuns)
	}
	if innerRuns != 2 {
		t.Errorf("inner effect should track its own reads, ran %d times", innerRuns)
	}
}
