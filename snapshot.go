package sojourn

import (
	"math"
	"time"
)

// Snapshot is the minimal persistable form of a machine: the current state
// and the elapsed time of the current sojourn, in seconds. It is suitable
// for embedding in any serialization scheme.
type Snapshot[T comparable] struct {
	State          T       `json:"state" yaml:"state"`
	ElapsedSeconds float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
}

// Elapsed returns the snapshot's elapsed time as a duration. The seconds
// value is rounded, not truncated, so Snapshot followed by Restore is
// lossless at nanosecond granularity.
func (s Snapshot[T]) Elapsed() time.Duration {
	return time.Duration(math.Round(s.ElapsedSeconds * float64(time.Second)))
}

// Snapshot captures the machine's (state, elapsed) pair.
func (m *Machine[T]) Snapshot() Snapshot[T] {
	m.touch()
	return Snapshot[T]{
		State:          m.current,
		ElapsedSeconds: m.elapsed.Seconds(),
	}
}

// Restore overwrites current and elapsed from a snapshot. It is a raw
// state restore, not a simulated transition: no change notifications or
// entry listeners fire, and per-sojourn trigger consumption is not reset.
// The previous state is left untouched. Restore rejects snapshots with
// negative elapsed time with ErrNegativeElapsed.
func (m *Machine[T]) Restore(s Snapshot[T]) error {
	m.touch()
	if s.ElapsedSeconds < 0 {
		return ErrNegativeElapsed
	}
	m.current = s.State
	m.elapsed = s.Elapsed()
	return nil
}
