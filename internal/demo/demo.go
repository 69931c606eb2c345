// Package demo contains small programs built on pkg/reactive. Each one
// writes a line log of what its effects observe, so the engine's behavior
// can be watched from the CLI and asserted in tests.
package demo

import (
	"fmt"
	"io"
	"sort"

	rerrors "github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
)

// Scenario is a named demo program.
type Scenario struct {
	Name        string
	Description string

	run func(rt *reactive.Runtime, w io.Writer)
}

// Exec runs the scenario on rt inside its own Scope, which is stopped when
// the scenario returns so rt is left without subscriptions.
func (s Scenario) Exec(rt *reactive.Runtime, w io.Writer) {
	scope := rt.NewScope()
	defer scope.Stop()
	scope.Run(func() {
		s.run(rt, w)
	})
}

var scenarios = map[string]Scenario{}

func register(s Scenario) {
	scenarios[s.Name] = s
}

// All returns every scenario, sorted by name.
func All() []Scenario {
	all := make([]Scenario, 0, len(scenarios))
	for _, s := range scenarios {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, bool) {
	s, ok := scenarios[name]
	return s, ok
}

// Run executes the named scenario on a fresh Runtime built from opts.
func Run(w io.Writer, name string, opts ...reactive.Option) error {
	s, ok := Lookup(name)
	if !ok {
		return rerrors.New("X001").
			WithDetailf("no demo named %q", name).
			WithSuggestion("Run `reactor demo --list` to see the available demos")
	}
	s.Exec(reactive.NewRuntime(opts...), w)
	return nil
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
