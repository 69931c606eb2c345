package demo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	rerrors "github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
)

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestScenarios(t *testing.T) {
	tests := map[string][]string{
		"reactive": {
			"effect1: count = 0",
			"effect2: message = hello",
			"set count = 10",
			"effect1: count = 10",
			"set count = 10 again",
			"set message = hello vue",
			"effect2: message = hello vue",
		},
		"precise": {
			"text effect: hello",
			"count effect: 0",
			"set Text = hello vue",
			"text effect: hello vue",
			"set Count = 100",
			"count effect: 100",
		},
		"ref": {
			"ref effect: count = 0",
			"set count = 100",
			"ref effect: count = 100",
			"set message = hello ref",
		},
		"nested": {
			"nested effect: user.name = link",
			"set user.name = vue",
			"nested effect: user.name = vue",
			"set user.age = 30",
			"replace user",
			"nested effect: user.name = evan",
		},
		"self-increment": {
			"self-increment: foo = 1",
			"foo is now 2",
			"set foo = 10",
			"self-increment: foo = 10",
			"foo is now 11",
		},
		"computed": {
			"first read",
			"  compute sum: 10 + 20",
			"sum = 30",
			"second read",
			"sum = 30",
			"computed effect: sum = 30",
			"set num1 = 15",
			"  compute sum: 15 + 20",
			"computed effect: sum = 35",
			"set num2 = 25",
			"  compute sum: 15 + 25",
			"computed effect: sum = 40",
		},
		"store": {
			"watch: count = 0",
			`state: count=0 double=0 even=true message="Vue Counter: 0 (even)"`,
			"increment",
			"watch: count = 1",
			`state: count=1 double=2 even=false message="Vue Counter: 1 (odd)"`,
			"incrementBy 5",
			"watch: count = 6",
			`state: count=6 double=12 even=true message="Vue Counter: 6 (even)"`,
			"setName Go Counter",
			`state: count=6 double=12 even=true message="Go Counter: 6 (even)"`,
			"decrement",
			"watch: count = 5",
			`state: count=5 double=10 even=false message="Go Counter: 5 (odd)"`,
			"reset",
			"watch: count = 0",
			`state: count=0 double=0 even=true message="Go Counter: 0 (even)"`,
		},
		"counter": {
			"counter1 status: zero",
			"counter2 status: counting",
			"counter1: count=0 double=0 even=true zero=true",
			"counter2: count=10 positive=true negative=false",
			"counter1 increment",
			"counter1 status: counting",
			"counter2 increment",
			"counter2 status: very large",
			"counter1: count=1 double=2 even=false zero=false",
			"counter2: count=15 positive=true negative=false",
			"counter1 decrement 3",
			"counter1 status: negative",
			"counter2 reset",
			"counter2 status: counting",
			"counter1: count=-2 double=-4 even=true zero=false",
			"counter2: count=10 positive=true negative=false",
		},
	}

	if len(tests) != len(All()) {
		t.Fatalf("expected a test for each of the %d scenarios, have %d", len(All()), len(tests))
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Run(&buf, name); err != nil {
				t.Fatalf("Run(%q): %v", name, err)
			}
			if diff := cmp.Diff(want, lines(buf.String())); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunUnknown(t *testing.T) {
	err := Run(&bytes.Buffer{}, "nope")
	if rerrors.Code(err) != "X001" {
		t.Fatalf("expected X001, got %v", err)
	}
	if !strings.Contains(err.Error(), `"nope"`) {
		t.Errorf("error should name the demo: %v", err)
	}
}

func TestAllSorted(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Errorf("scenarios not sorted: %q before %q", all[i-1].Name, all[i].Name)
		}
	}
	for _, s := range all {
		if s.Description == "" {
			t.Errorf("scenario %q has no description", s.Name)
		}
	}
}

func TestExecLeavesNoSubscriptions(t *testing.T) {
	rt := reactive.NewRuntime()
	for _, s := range All() {
		s.Exec(rt, &bytes.Buffer{})
		if n := rt.TrackedTargets(); n != 0 {
			t.Errorf("%s: %d targets still tracked after Exec", s.Name, n)
		}
	}
}

func TestCounterStep(t *testing.T) {
	rt := reactive.NewRuntime()
	c := NewCounter(rt, 3, 0)
	c.Increment()
	if got := c.Count.Peek(); got != 4 {
		t.Errorf("step below one should count by one, got %d", got)
	}
	c.Increment(10)
	c.Decrement()
	if got := c.Count.Peek(); got != 13 {
		t.Errorf("count = %d, want 13", got)
	}
	c.Set(-1)
	if c.Status.Value() != "negative" || !c.IsNegative.Value() {
		t.Errorf("status = %q", c.Status.Value())
	}
	c.Reset()
	if c.Count.Peek() != 3 {
		t.Errorf("reset should restore the initial value, got %d", c.Count.Peek())
	}
}
