package reactive

import "testing"

func TestGraphTrackIsIdempotent(t *testing.T) {
	rt := NewRuntime()
	g := rt.graph
	e := rt.newEffect(func() {}, effectConfig{})
	target := map[string]any{"a": 1}
	id, _ := objectIdentity(target)

	if !g.track(id, "a", e) {
		t.Fatal("first track should subscribe")
	}
	if g.track(id, "a", e) {
		t.Error("second track of the same pair should be a no-op")
	}
	if got := g.count(id, "a"); got != 1 {
		t.Errorf("expected 1 subscriber, got %d", got)
	}
	if got := len(e.deps); got != 1 {
		t.Errorf("expected 1 back-reference, got %d", got)
	}
}

func TestGraphSubscriberOrder(t *testing.T) {
	rt := NewRuntime()
	g := rt.graph
	id, _ := objectIdentity(map[string]any{})

	var effects []*Effect
	for i := 0; i < 4; i++ {
		e := rt.newEffect(func() {}, effectConfig{})
		effects = append(effects, e)
		g.track(id, "k", e)
	}

	// Removing from the middle keeps the remaining order.
	g.removeEffect(effects[1])

	subs := g.subscribers(id, "k")
	want := []*Effect{effects[0], effects[2], effects[3]}
	if len(subs) != len(want) {
		t.Fatalf("expected %d subscribers, got %d", len(want), len(subs))
	}
	for i := range want {
		if subs[i] != want[i] {
			t.Errorf("subscriber %d = %s, want %s", i, subs[i].Name(), want[i].Name())
		}
	}
}

func TestGraphSnapshotIsIndependent(t *testing.T) {
	rt := NewRuntime()
	g := rt.graph
	id, _ := objectIdentity(map[string]any{})
	a := rt.newEffect(func() {}, effectConfig{})
	b := rt.newEffect(func() {}, effectConfig{})
	g.track(id, "k", a)

	snapshot := g.subscribers(id, "k")
	g.track(id, "k", b)
	g.removeEffect(a)

	if len(snapshot) != 1 || snapshot[0] != a {
		t.Error("snapshot should not observe later graph changes")
	}
}

func TestGraphRemoveEffectPrunes(t *testing.T) {
	rt := NewRuntime()
	g := rt.graph
	e := rt.newEffect(func() {}, effectConfig{})
	other := rt.newEffect(func() {}, effectConfig{})

	t1, _ := objectIdentity(map[string]any{})
	t2, _ := objectIdentity(&struct{ X int }{})
	g.track(t1, "a", e)
	g.track(t1, "b", e)
	g.track(t2, "X", e)
	g.track(t2, "X", other)

	if g.size() != 2 {
		t.Fatalf("expected 2 tracked targets, got %d", g.size())
	}

	g.removeEffect(e)

	if len(e.deps) != 0 {
		t.Errorf("expected no back-references, got %d", len(e.deps))
	}
	if g.size() != 1 {
		t.Errorf("expected t1 to be pruned, %d targets remain", g.size())
	}
	if got := g.count(t2, "X"); got != 1 {
		t.Errorf("expected other effect to stay subscribed, got %d", got)
	}
	if g.subscribers(t1, "a") != nil {
		t.Error("expected no subscribers for pruned target")
	}
}

func TestTargetKindString(t *testing.T) {
	tests := []struct {
		kind targetKind
		want string
	}{
		{kindMap, "map"},
		{kindStruct, "struct"},
		{kindFields, "fields"},
		{kindRef, "ref"},
		{kindComputed, "computed"},
		{targetKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
