// Package state implements deferred finite state machines whose transitions are
// applied at a tick boundary, with optional sub-states bound to a parent state and
// entity scopes that are despawned when their state is left.
package state

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrInactive is returned by Set on a sub-state whose parent is not in a state that
// enables it.
var ErrInactive = errors.New("state machine is not active")

// TransitionError reports a transition that is not in the machine's allowed edges.
type TransitionError struct {
	Machine string
	From    any
	To      any
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: transition %v -> %v is not allowed", e.Machine, e.From, e.To)
}

// Despawner removes every entity registered under a scope.
type Despawner interface {
	DespawnScope(scope any) int
}

type scopeKey struct {
	machine string
	state   any
}

// binding ties a sub-state's activation to its parent's state.
type binding[P comparable] struct {
	leave  func(next P)
	arrive func(next P)
	drop   func()
}

// Machine is a state machine over S. Set records a pending transition; Apply
// performs it. Nothing observable changes between the two.
type Machine[S comparable] struct {
	name     string
	initial  S
	current  S
	pending  *S
	active   bool
	edges    map[S]map[S]bool
	enter    map[S][]func()
	exit     map[S][]func()
	children []binding[S]

	world Despawner
	log   *zap.Logger
}

// New returns an active machine in state initial. Enter hooks of initial do not run
// until Enter is called.
func New[S comparable](name string, initial S, world Despawner, log *zap.Logger) *Machine[S] {
	return &Machine[S]{
		name:    name,
		initial: initial,
		current: initial,
		active:  true,
		enter:   map[S][]func(){},
		exit:    map[S][]func(){},
		world:   world,
		log:     log.With(zap.String("machine", name)),
	}
}

// Sub returns a machine that exists only while pred(parent state) holds. It is
// activated in state def after the parent's enter hooks run, and deactivated,
// despawning its current scope, before the parent's exit hooks run.
func Sub[S, P comparable](parent *Machine[P], name string, def S, pred func(P) bool, world Despawner, log *zap.Logger) *Machine[S] {
	child := New(name, def, world, log)
	child.active = false
	parent.children = append(parent.children, binding[P]{
		leave: func(next P) {
			if child.active && !pred(next) {
				child.Deactivate()
			}
		},
		arrive: func(next P) {
			if !child.active && pred(next) {
				child.Activate()
			}
		},
		drop: child.Deactivate,
	})
	return child
}

// Name returns the machine name used in logs and errors.
func (m *Machine[S]) Name() string {
	return m.name
}

// Allow adds from -> to to the allowed edges. A machine with no edges allows any
// transition.
func (m *Machine[S]) Allow(from, to S) *Machine[S] {
	if m.edges == nil {
		m.edges = map[S]map[S]bool{}
	}
	if m.edges[from] == nil {
		m.edges[from] = map[S]bool{}
	}
	m.edges[from][to] = true
	return m
}

func (m *Machine[S]) allowed(from, to S) bool {
	if from == to || m.edges == nil {
		return true
	}
	return m.edges[from][to]
}

// OnEnter registers fn to run whenever s is entered.
func (m *Machine[S]) OnEnter(s S, fn func()) {
	m.enter[s] = append(m.enter[s], fn)
}

// OnExit registers fn to run whenever s is left.
func (m *Machine[S]) OnExit(s S, fn func()) {
	m.exit[s] = append(m.exit[s], fn)
}

// Scope returns the key entities owned by state s are registered under.
func (m *Machine[S]) Scope(s S) any {
	return scopeKey{machine: m.name, state: s}
}

// Current returns the current state, or false when the machine is inactive.
func (m *Machine[S]) Current() (S, bool) {
	if !m.active {
		var zero S
		return zero, false
	}
	return m.current, true
}

// Is reports whether the machine is active and in state s.
func (m *Machine[S]) Is(s S) bool {
	return m.active && m.current == s
}

// Active reports whether the machine exists.
func (m *Machine[S]) Active() bool {
	return m.active
}

// Set requests a transition to s, applied by the next Apply. A later Set in the same
// tick replaces the earlier one. Requesting the current state is accepted and
// applies as a no-op.
func (m *Machine[S]) Set(s S) error {
	if !m.active {
		return ErrInactive
	}
	if !m.allowed(m.current, s) {
		return &TransitionError{Machine: m.name, From: m.current, To: s}
	}
	m.pending = &s
	return nil
}

// Pending returns the requested state, if any.
func (m *Machine[S]) Pending() (S, bool) {
	if m.pending == nil {
		var zero S
		return zero, false
	}
	return *m.pending, true
}

// Apply performs the pending transition and reports whether the state changed.
func (m *Machine[S]) Apply() bool {
	if !m.active || m.pending == nil {
		return false
	}
	next := *m.pending
	m.pending = nil
	if next == m.current {
		return false
	}

	prev := m.current
	for _, c := range m.children {
		c.leave(next)
	}
	m.runExit(prev)
	m.current = next
	m.log.Debug("transition", zap.Any("from", prev), zap.Any("to", next))
	m.runEnter(next)
	for _, c := range m.children {
		c.arrive(next)
	}
	return true
}

// Enter runs the enter hooks of the current state and activates enabled sub-states.
// It is called once at startup.
func (m *Machine[S]) Enter() {
	if !m.active {
		return
	}
	m.runEnter(m.current)
	for _, c := range m.children {
		c.arrive(m.current)
	}
}

// Activate brings a sub-state into existence in its default state.
func (m *Machine[S]) Activate() {
	if m.active {
		return
	}
	m.active = true
	m.current = m.initial
	m.pending = nil
	m.log.Debug("activated", zap.Any("state", m.current))
	m.Enter()
}

// Deactivate tears a sub-state down, leaving its current state.
func (m *Machine[S]) Deactivate() {
	if !m.active {
		return
	}
	for _, c := range m.children {
		c.drop()
	}
	m.runExit(m.current)
	m.active = false
	m.pending = nil
	m.log.Debug("deactivated", zap.Any("state", m.current))
}

func (m *Machine[S]) runEnter(s S) {
	for _, fn := range m.enter[s] {
		fn()
	}
}

func (m *Machine[S]) runExit(s S) {
	for _, fn := range m.exit[s] {
		fn()
	}
	if m.world != nil {
		if n := m.world.DespawnScope(m.Scope(s)); n > 0 {
			m.log.Debug("despawned scope", zap.Any("state", s), zap.Int("entities", n))
		}
	}
}
