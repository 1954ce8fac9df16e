/*
Package sojourn is a tick-driven, declarative state-machine engine, generic
over any comparable state type.

A Machine tracks one mutable cell (the current state, the previous state,
and the time elapsed since the last transition) and fires caller-registered
behaviors from a per-frame clock tick: one-shot timed and predicate
triggers, automatic transitions, and per-tick update callbacks. The machine
never generates ticks itself; it consumes delta-time values from an injected
clock.Source, or from manual Tick calls when the host owns the loop.

# Concept

Registration is additive and may happen before or during operation. Each
tick the machine advances elapsed time and evaluates, in a fixed order, the
records registered for the current state: timed triggers, then predicate
triggers, then timed transitions, then predicate transitions. The first
transition that fires ends transition evaluation for the old state, and
update callbacks always run last against the resulting state. A timed record
fires exactly once per sojourn, on the tick whose half-open window
[prev, elapsed) contains its timestamp; a predicate trigger fires at most
once per continuous stay in its state and is re-armed on re-entry.

# Usage

	type door string

	const (
		Closed  door = "closed"
		Opening door = "opening"
		Open    door = "open"
		Closing door = "closing"
	)

	m, err := sojourn.New(Closed)
	if err != nil {
		log.Fatal(err)
	}

	m.TransitionAt(Opening, 2*time.Second, Open)
	m.TransitionAt(Closing, 2*time.Second, Closed)
	m.TransitionWhen(Closed, buttonPressed, Opening)
	m.TransitionWhen(Open, func() bool { return !buttonPressed() }, Closing)

	m.OnTransition(func(from door, stay time.Duration) {
		log.Printf("%s -> %s after %s", from, m.Current(), stay)
	})

	for i := 0; i < frames; i++ {
		m.Tick(16 * time.Millisecond)
	}

# Lifecycle

A machine bound to a clock.Source moves through three phases: Uninitialized
(registered, waiting for the clock to become available), Active (subscribed,
one tick per clock cycle), and CleanedUp (unsubscribed and terminal; reads
stay valid, ticks are ignored). Cleanup happens explicitly via Cleanup, or
automatically once the owner-liveness probe installed with WithOwner reports
the owning object gone.

# Persistence

Snapshot and Restore move the machine through a minimal (state, elapsed)
pair. Restoring is a raw overwrite: no change notifications fire and no
per-sojourn trigger consumption is reset. The store package and its adapters
persist snapshots to memory, files, Redis, or SQLite.
*/
package sojourn
