package sojourn

import "time"

// Phase is the machine's lifecycle position.
type Phase int

const (
	// PhaseUninitialized means registered but not yet receiving ticks,
	// waiting for the clock source to become available.
	PhaseUninitialized Phase = iota
	// PhaseActive means subscribed and receiving one tick per clock cycle
	// (or manually ticked, for machines with no clock bound).
	PhaseActive
	// PhaseCleanedUp is terminal: no further ticks are processed, though
	// read accessors remain valid.
	PhaseCleanedUp
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseActive:
		return "active"
	case PhaseCleanedUp:
		return "cleaned_up"
	default:
		return "unknown"
	}
}

// Phase returns the machine's current lifecycle phase.
func (m *Machine[T]) Phase() Phase { return m.phase }

// touch performs the lazy Uninitialized -> Active move. A machine with a
// clock provider stays Uninitialized for as long as the provider returns
// nil; one with no clock at all activates immediately (it is driven by
// manual Tick calls). Subscription happens at most once, so no tick is
// dropped or double-counted around the activation edge.
func (m *Machine[T]) touch() {
	if m.phase != PhaseUninitialized {
		return
	}
	src := m.clockSource
	if src == nil && m.clockProvider != nil {
		src = m.clockProvider()
		if src == nil {
			return
		}
		m.clockSource = src
	}
	m.phase = PhaseActive
	if src != nil {
		m.unsubscribe = src.Subscribe(m.cadence, m.mode, m.Tick)
	}
	m.logger.Debug("machine activated",
		"machine", m.id, "state", m.current)
}

// Tick processes one delta-time value. The order is fixed: owner-liveness
// check, elapsed advance, timed triggers, predicate triggers, timed
// transitions, predicate transitions, update registry. A tick with dt <= 0
// fires nothing at all and leaves elapsed unchanged, so a paused clock
// cannot re-fire window tests forever. Ticks after cleanup are ignored.
func (m *Machine[T]) Tick(dt time.Duration) {
	m.touch()
	if m.phase == PhaseCleanedUp {
		return
	}
	if m.ownerAlive != nil && !m.ownerAlive() {
		m.logger.Debug("owner gone, cleaning up", "machine", m.id)
		m.Cleanup()
		return
	}

	var start time.Time
	if m.hooks.OnTick != nil {
		start = time.Now()
	}

	if dt > 0 {
		prev := m.elapsed
		m.elapsed += dt
		now := m.elapsed
		origin := m.current
		seq := m.seq

		m.fireTimedTriggers(origin, seq, prev, now)
		m.firePredTriggers(origin, seq)
		m.fireTimedTransitions(origin, seq, prev, now)
		m.firePredTransitions(origin, seq)

		m.runUpdates()
	}

	if m.hooks.OnTick != nil {
		m.hooks.OnTick(dt, time.Since(start))
	}
}

// Cleanup unsubscribes from the clock and makes the machine terminal.
// Idempotent: cleaning up twice, or a machine that never subscribed, is a
// safe no-op.
func (m *Machine[T]) Cleanup() {
	if m.phase == PhaseCleanedUp {
		return
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.phase = PhaseCleanedUp
	if m.hooks.OnCleanup != nil {
		m.hooks.OnCleanup()
	}
	m.logger.Debug("machine cleaned up", "machine", m.id, "state", m.current)
}
