package sojourn

import (
	"log/slog"

	"github.com/sojourn-fsm/sojourn/clock"
)

// config collects construction-time settings that are not plain machine
// fields (the entry list needs duplicate validation before it is adopted).
type config[T comparable] struct {
	machine   *Machine[T]
	entryList []Entry[T]
}

// Option configures a machine at construction.
type Option[T comparable] func(*config[T])

// WithLogger sets the structured logger used for update-callback failures
// and lifecycle events. Defaults to slog.Default().
func WithLogger[T comparable](logger *slog.Logger) Option[T] {
	return func(c *config[T]) {
		if logger != nil {
			c.machine.logger = logger
		}
	}
}

// WithHooks installs observability hooks.
func WithHooks[T comparable](hooks Hooks[T]) Option[T] {
	return func(c *config[T]) {
		c.machine.hooks = hooks
	}
}

// WithEntries supplies the declarative entry dictionary: an ordered list of
// (state, listeners) pairs consumed once by New. Naming a state twice makes
// New fail with ErrDuplicateEntry.
func WithEntries[T comparable](entries ...Entry[T]) Option[T] {
	return func(c *config[T]) {
		c.entryList = append(c.entryList, entries...)
	}
}

// WithClock binds the machine to an already-available tick source. The
// machine subscribes lazily, on first access or first tick opportunity.
func WithClock[T comparable](src clock.Source) Option[T] {
	return func(c *config[T]) {
		c.machine.clockSource = src
	}
}

// WithClockProvider binds the machine to a tick source that may not exist
// yet. The provider is polled on every access while it returns nil; the
// machine stays Uninitialized until it yields a source.
func WithClockProvider[T comparable](provider func() clock.Source) Option[T] {
	return func(c *config[T]) {
		c.machine.clockProvider = provider
	}
}

// WithCadence selects which clock channel drives the machine. Fixed for
// the machine's lifetime. Defaults to clock.Normal.
func WithCadence[T comparable](cadence clock.Cadence) Option[T] {
	return func(c *config[T]) {
		c.machine.cadence = cadence
	}
}

// WithTimeMode selects real or scaled delta time. Fixed for the machine's
// lifetime. Defaults to clock.Real.
func WithTimeMode[T comparable](mode clock.Mode) Option[T] {
	return func(c *config[T]) {
		c.machine.mode = mode
	}
}

// WithOwner installs the owner-liveness probe. It is queried at the start
// of every tick; the first false answer cleans the machine up and discards
// that tick.
func WithOwner[T comparable](alive func() bool) Option[T] {
	return func(c *config[T]) {
		c.machine.ownerAlive = alive
	}
}
