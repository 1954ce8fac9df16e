package sojourn

import "time"

// OnUpdate registers a global per-tick callback: it runs every tick,
// whatever the current state, receiving the elapsed time of the current
// sojourn.
func (m *Machine[T]) OnUpdate(fn func(elapsed time.Duration)) {
	m.globalUpdates = append(m.globalUpdates, fn)
}

// OnUpdateIn registers a per-tick callback scoped to state: it runs every
// tick spent in state, receiving elapsed.
func (m *Machine[T]) OnUpdateIn(state T, fn func(elapsed time.Duration)) {
	m.scopedUpdates[state] = append(m.scopedUpdates[state], fn)
}

// runUpdates runs the update registry: globals in registration order, then
// the callbacks scoped to the current state in registration order. Each
// invocation is isolated: a panic is recovered, logged, reported through
// the hook, and the remaining callbacks still run.
func (m *Machine[T]) runUpdates() {
	for _, fn := range m.globalUpdates {
		m.runIsolated(fn)
	}
	for _, fn := range m.scopedUpdates[m.current] {
		m.runIsolated(fn)
	}
}

func (m *Machine[T]) runIsolated(fn func(elapsed time.Duration)) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("update callback panicked",
				"machine", m.id,
				"state", m.current,
				"panic", r)
			if m.hooks.OnUpdatePanic != nil {
				m.hooks.OnUpdatePanic(r)
			}
		}
	}()
	fn(m.elapsed)
}
