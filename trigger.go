package sojourn

import "time"

// Trigger registry records. Every record carries a stable integer handle;
// registration order is evaluation order within each category.

type timedRecord[T comparable] struct {
	handle int
	state  T
	at     time.Duration
	action func()
}

type predRecord[T comparable] struct {
	handle int
	state  T
	pred   func() bool
	action func()
}

type timedTransition[T comparable] struct {
	handle int
	state  T
	at     time.Duration
	target func() T
}

type predTransition[T comparable] struct {
	handle int
	state  T
	pred   func() bool
	target T
}

type enterMatch[T comparable] struct {
	handle int
	match  func(T) bool
	action func(T)
}

func (m *Machine[T]) handle() int {
	h := m.nextHandle
	m.nextHandle++
	return h
}

// At registers a timed trigger: action fires exactly once per sojourn in
// state, on the tick whose window [prev, elapsed) contains at. A window
// entirely behind at is never replayed.
func (m *Machine[T]) At(state T, at time.Duration, action func()) {
	m.timedTriggers = append(m.timedTriggers, timedRecord[T]{
		handle: m.handle(), state: state, at: at, action: action,
	})
}

// When registers a predicate trigger: action fires on the first tick pred
// returns true while in state, at most once per continuous sojourn. The
// consumption mark is cleared when the state is re-entered.
func (m *Machine[T]) When(state T, pred func() bool, action func()) {
	m.predTriggers = append(m.predTriggers, predRecord[T]{
		handle: m.handle(), state: state, pred: pred, action: action,
	})
}

// TransitionAt registers a timed transition from state to to, using the
// same half-open window as At.
func (m *Machine[T]) TransitionAt(state T, at time.Duration, to T) {
	m.TransitionAtFunc(state, at, func() T { return to })
}

// TransitionAtFunc is TransitionAt with the target computed at fire time.
func (m *Machine[T]) TransitionAtFunc(state T, at time.Duration, to func() T) {
	m.timedTransitions = append(m.timedTransitions, timedTransition[T]{
		handle: m.handle(), state: state, at: at, target: to,
	})
}

// TransitionWhen registers a predicate transition from state to to. Unlike
// When it is not one-shot: the predicate is evaluated every tick spent in
// state, since leaving the state already disarms it.
func (m *Machine[T]) TransitionWhen(state T, pred func() bool, to T) {
	m.predTransitions = append(m.predTransitions, predTransition[T]{
		handle: m.handle(), state: state, pred: pred, target: to,
	})
}

// OnEnterMatch registers an immediate trigger: action fires synchronously
// inside Set whenever the machine enters a state satisfying match, without
// waiting for a tick.
func (m *Machine[T]) OnEnterMatch(match func(T) bool, action func(T)) {
	m.enterMatches = append(m.enterMatches, enterMatch[T]{
		handle: m.handle(), match: match, action: action,
	})
}

// inWindow is the half-open window test: a timestamp fires exactly once
// regardless of tick granularity.
func inWindow(at, prev, elapsed time.Duration) bool {
	return prev <= at && at < elapsed
}

// fireTimedTriggers runs step one of the tick order. Evaluation stops if an
// action transitions the machine (seq moved), since the window no longer
// describes the current sojourn.
func (m *Machine[T]) fireTimedTriggers(origin T, seq uint64, prev, now time.Duration) {
	for _, r := range m.timedTriggers {
		if m.seq != seq {
			return
		}
		if r.state == origin && inWindow(r.at, prev, now) {
			r.action()
		}
	}
}

// firePredTriggers runs step two: unconsumed predicate triggers for the
// current sojourn.
func (m *Machine[T]) firePredTriggers(origin T, seq uint64) {
	for _, r := range m.predTriggers {
		if m.seq != seq {
			return
		}
		if r.state != origin {
			continue
		}
		if _, consumed := m.fired[r.handle]; consumed {
			continue
		}
		if r.pred() {
			m.fired[r.handle] = struct{}{}
			r.action()
		}
	}
}

// fireTimedTransitions runs step three. The first transition that fires
// moves seq and ends evaluation for the old state.
func (m *Machine[T]) fireTimedTransitions(origin T, seq uint64, prev, now time.Duration) {
	for _, r := range m.timedTransitions {
		if m.seq != seq {
			return
		}
		if r.state == origin && inWindow(r.at, prev, now) {
			m.Set(r.target())
		}
	}
}

// firePredTransitions runs step four, with the same stop-on-change rule.
func (m *Machine[T]) firePredTransitions(origin T, seq uint64) {
	for _, r := range m.predTransitions {
		if m.seq != seq {
			return
		}
		if r.state == origin && r.pred() {
			m.Set(r.target)
		}
	}
}
