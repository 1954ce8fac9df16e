package sojourn

import "time"

// Hooks carries observability callbacks for a machine. All fields are
// optional. Hooks run synchronously on the machine's goroutine, before the
// equivalent caller-registered listeners, and must not call back into the
// machine.
type Hooks[T comparable] struct {
	// OnTick fires for every processed tick, including zero-delta ticks,
	// with the delta time and the wall time evaluation took.
	OnTick func(dt, took time.Duration)

	// OnTransition fires after the state cell is updated and before any
	// listeners run.
	OnTransition func(from, to T, stay time.Duration)

	// OnUpdatePanic fires when an update callback panics; the panic is
	// recovered and remaining callbacks still run.
	OnUpdatePanic func(recovered any)

	// OnCleanup fires once, when the machine enters the cleaned-up phase.
	OnCleanup func()
}
