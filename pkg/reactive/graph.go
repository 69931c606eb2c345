package reactive

import (
	"reflect"
	"unsafe"
)

// targetKind classifies a tracked target for logging and metrics.
type targetKind uint8

const (
	kindMap targetKind = iota + 1
	kindStruct
	kindFields
	kindRef
	kindComputed
)

// String returns a human-readable name for the target kind.
func (k targetKind) String() string {
	switch k {
	case kindMap:
		return "map"
	case kindStruct:
		return "struct"
	case kindFields:
		return "fields"
	case kindRef:
		return "ref"
	case kindComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// targetKey is the stable identity of a tracked target.
// The pointer keeps the target reachable while it has subscribers; entries
// are pruned as soon as the last subscriber leaves.
type targetKey struct {
	typ  reflect.Type
	ptr  unsafe.Pointer
	kind targetKind
}

// boxKey returns the identity of a Ref or Computed cell.
func boxKey[P any](p *P, kind targetKind) targetKey {
	return targetKey{typ: reflect.TypeOf(p), ptr: unsafe.Pointer(p), kind: kind}
}

// dep is the ordered subscriber set of one (target, key) pair.
type dep struct {
	owner *targetEntry
	key   string
	subs  []*Effect
}

func (d *dep) has(e *Effect) bool {
	for _, s := range d.subs {
		if s == e {
			return true
		}
	}
	return false
}

// remove deletes e while preserving subscription order.
func (d *dep) remove(e *Effect) {
	for i, s := range d.subs {
		if s == e {
			copy(d.subs[i:], d.subs[i+1:])
			d.subs[len(d.subs)-1] = nil
			d.subs = d.subs[:len(d.subs)-1]
			return
		}
	}
}

type targetEntry struct {
	key  targetKey
	deps map[string]*dep
}

// graph maps (target, key) pairs to the effects that read them.
type graph struct {
	targets map[targetKey]*targetEntry
}

func newGraph() *graph {
	return &graph{targets: make(map[targetKey]*targetEntry)}
}

// track subscribes e to (t, key). It reports whether a new subscription was made.
func (g *graph) track(t targetKey, key string, e *Effect) bool {
	entry := g.targets[t]
	if entry == nil {
		entry = &targetEntry{key: t, deps: make(map[string]*dep)}
		g.targets[t] = entry
	}
	d := entry.deps[key]
	if d == nil {
		d = &dep{owner: entry, key: key}
		entry.deps[key] = d
	}
	if d.has(e) {
		return false
	}
	d.subs = append(d.subs, e)
	e.deps = append(e.deps, d)
	return true
}

// subscribers returns a snapshot of the effects subscribed to (t, key),
// in subscription order. The snapshot is safe to iterate while effects
// resubscribe or stop.
func (g *graph) subscribers(t targetKey, key string) []*Effect {
	entry := g.targets[t]
	if entry == nil {
		return nil
	}
	d := entry.deps[key]
	if d == nil || len(d.subs) == 0 {
		return nil
	}
	snapshot := make([]*Effect, len(d.subs))
	copy(snapshot, d.subs)
	return snapshot
}

// removeEffect detaches e from every set it belongs to, using e's own
// back-references. Sets and targets left empty are dropped.
func (g *graph) removeEffect(e *Effect) {
	for i, d := range e.deps {
		d.remove(e)
		if len(d.subs) == 0 {
			entry := d.owner
			if entry.deps[d.key] == d {
				delete(entry.deps, d.key)
			}
			if len(entry.deps) == 0 && g.targets[entry.key] == entry {
				delete(g.targets, entry.key)
			}
		}
		e.deps[i] = nil
	}
	e.deps = e.deps[:0]
}

// count returns the number of subscribers of (t, key).
func (g *graph) count(t targetKey, key string) int {
	entry := g.targets[t]
	if entry == nil {
		return 0
	}
	if d := entry.deps[key]; d != nil {
		return len(d.subs)
	}
	return 0
}

// size returns the number of targets that currently have subscribers.
func (g *graph) size() int {
	return len(g.targets)
}
