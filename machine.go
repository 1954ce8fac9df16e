package sojourn

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/sojourn-fsm/sojourn/clock"
)

var (
	// ErrDuplicateEntry is returned by New when the declarative entry list
	// names the same state twice.
	ErrDuplicateEntry = errors.New("duplicate state in entry list")

	// ErrNegativeElapsed is returned by Restore for a snapshot whose
	// elapsed time is negative.
	ErrNegativeElapsed = errors.New("snapshot elapsed time is negative")
)

// Machine is the engine core: one mutable (current, previous, elapsed) cell
// plus the trigger and update registries evaluated against it every tick.
//
// A Machine is confined to a single goroutine: all registrations, ticks and
// reads must happen on the thread that drives it (the clock's delivery
// goroutine, or the caller's loop for manually ticked machines). It takes
// no locks of its own.
type Machine[T comparable] struct {
	id     string
	logger *slog.Logger
	hooks  Hooks[T]

	current  T
	previous T
	elapsed  time.Duration

	// seq increments on every completed transition. Tick evaluation
	// captures it to detect that a fired action changed the state.
	seq uint64

	// Trigger registry. Records keep registration order; handles are
	// stable integers, and fired holds the handles of predicate triggers
	// already consumed during the current sojourn.
	timedTriggers    []timedRecord[T]
	predTriggers     []predRecord[T]
	timedTransitions []timedTransition[T]
	predTransitions  []predTransition[T]
	enterMatches     []enterMatch[T]
	nextHandle       int
	fired            map[int]struct{}

	// Change notifications and the entry dictionary.
	transitionListeners []func(from T, stay time.Duration)
	changeListeners     []func()
	entries             map[T][]func()

	// Update registry.
	globalUpdates []func(elapsed time.Duration)
	scopedUpdates map[T][]func(elapsed time.Duration)

	// Lifecycle.
	phase         Phase
	clockSource   clock.Source
	clockProvider func() clock.Source
	cadence       clock.Cadence
	mode          clock.Mode
	unsubscribe   func()
	ownerAlive    func() bool
}

// Entry pairs a state with the listeners invoked when the machine enters
// it. A slice of entries forms the declarative entry dictionary consumed
// once by New.
type Entry[T comparable] struct {
	State     T
	Listeners []func()
}

// New creates a machine starting in initial, with elapsed zero and previous
// equal to initial. It returns ErrDuplicateEntry if the entry list passed
// via WithEntries names a state twice.
func New[T comparable](initial T, opts ...Option[T]) (*Machine[T], error) {
	m := &Machine[T]{
		id:            xid.New().String(),
		logger:        slog.Default(),
		current:       initial,
		previous:      initial,
		fired:         make(map[int]struct{}),
		entries:       make(map[T][]func()),
		scopedUpdates: make(map[T][]func(elapsed time.Duration)),
	}

	cfg := config[T]{machine: m}
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, e := range cfg.entryList {
		if _, dup := m.entries[e.State]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateEntry, e.State)
		}
		listeners := make([]func(), len(e.Listeners))
		copy(listeners, e.Listeners)
		m.entries[e.State] = listeners
	}

	return m, nil
}

// ID returns the machine's instance identifier.
func (m *Machine[T]) ID() string { return m.id }

// Current returns the current state.
func (m *Machine[T]) Current() T {
	m.touch()
	return m.current
}

// Previous returns the state held immediately before the most recent
// transition. Before the first transition it equals the initial state.
func (m *Machine[T]) Previous() T {
	m.touch()
	return m.previous
}

// Elapsed returns the time spent in the current state since the last
// transition.
func (m *Machine[T]) Elapsed() time.Duration {
	m.touch()
	return m.elapsed
}

// Is reports whether the machine is currently in state s.
func (m *Machine[T]) Is(s T) bool {
	m.touch()
	return m.current == s
}

// Set transitions the machine to next. Setting the current state again is a
// no-op: elapsed keeps running and nothing fires. Otherwise the transition
// completes (previous updated, elapsed reset, per-sojourn trigger
// consumption cleared) and then, synchronously and in order: the full
// transition listeners, the entry listeners for next, the matching
// immediate triggers, and the simple change listeners. A listener may call
// Set again; the nested transition runs depth-first before control returns.
func (m *Machine[T]) Set(next T) {
	m.touch()
	if next == m.current {
		return
	}

	from := m.current
	stay := m.elapsed
	m.previous = from
	m.current = next
	m.elapsed = 0
	m.seq++
	clear(m.fired)

	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(from, next, stay)
	}
	for _, fn := range m.transitionListeners {
		fn(from, stay)
	}
	for _, fn := range m.entries[next] {
		fn()
	}
	for _, r := range m.enterMatches {
		if r.match(next) {
			r.action(next)
		}
	}
	for _, fn := range m.changeListeners {
		fn()
	}
}

// OnTransition registers the full change notification, invoked with the old
// state and the time spent in it.
func (m *Machine[T]) OnTransition(fn func(from T, stay time.Duration)) {
	m.transitionListeners = append(m.transitionListeners, fn)
}

// OnChange registers the simple change notification, invoked with no
// arguments after every transition.
func (m *Machine[T]) OnChange(fn func()) {
	m.changeListeners = append(m.changeListeners, fn)
}
