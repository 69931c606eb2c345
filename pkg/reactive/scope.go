package reactive

// Scope owns the effects created while it runs, so they can be stopped
// together. Scopes nest: a Scope created while another one runs is its
// child and is stopped with it.
type Scope struct {
	rt       *Runtime
	parent   *Scope
	children []*Scope
	effects  []*Effect
	cleanups []func()
	stopped  bool
}

// NewScope creates a Scope, as a child of the currently running Scope if any.
func (rt *Runtime) NewScope() *Scope {
	s := &Scope{rt: rt, parent: rt.scope}
	if s.parent != nil {
		s.parent.children = append(s.parent.children, s)
	}
	return s
}

// Run calls fn with s as the current Scope. Effects and Computed values
// created inside fn belong to s. Running a stopped Scope logs a warning
// and does not call fn.
func (s *Scope) Run(fn func()) {
	if s.stopped {
		s.rt.warn("R006", nil, "scope has been stopped")
		return
	}
	prev := s.rt.scope
	s.rt.scope = s
	defer func() { s.rt.scope = prev }()
	fn()
}

// OnCleanup registers fn to run when the Scope stops.
func (s *Scope) OnCleanup(fn func()) {
	if s.stopped {
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// Effects returns the number of effects owned directly by s.
func (s *Scope) Effects() int {
	return len(s.effects)
}

// Stopped reports whether Stop has been called.
func (s *Scope) Stopped() bool {
	return s.stopped
}

// Stop stops every owned effect and child Scope, children first, then runs
// cleanups in reverse registration order. Stop is idempotent.
func (s *Scope) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true

	for i := len(s.children) - 1; i >= 0; i-- {
		s.children[i].Stop()
	}
	s.children = nil

	for _, e := range s.effects {
		e.Stop()
	}
	s.effects = nil

	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil

	if s.parent != nil && !s.parent.stopped {
		s.parent.removeChild(s)
	}
}

func (s *Scope) adopt(e *Effect) {
	if s.stopped {
		return
	}
	s.effects = append(s.effects, e)
}

func (s *Scope) removeChild(child *Scope) {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}
