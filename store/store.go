// Package store defines the persistence port for machine snapshots.
//
// A machine's snapshot is two fields: a state value and a non-negative
// elapsed time. Adapters (memory, file, redis, sqlite) persist the portable
// Record form, in which the state is a string produced by a caller-supplied
// Codec. This keeps adapters non-generic while machines stay generic over
// their state type.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sojourn-fsm/sojourn"
)

// ErrNotFound is returned by Load for an unknown snapshot ID.
var ErrNotFound = errors.New("snapshot not found")

// Record is the portable snapshot form adapters persist.
type Record struct {
	State          string  `json:"state" yaml:"state"`
	ElapsedSeconds float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
}

// Store persists snapshot records keyed by ID.
type Store interface {
	// Save persists the record under id, overwriting any previous one.
	Save(ctx context.Context, id string, rec Record) error

	// Load retrieves the record for id. Returns ErrNotFound if absent.
	Load(ctx context.Context, id string) (Record, error)

	// Delete removes the record for id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored records.
	List(ctx context.Context) ([]string, error)
}

// Codec converts state values to and from their persisted string form.
type Codec[T comparable] interface {
	EncodeState(T) (string, error)
	DecodeState(string) (T, error)
}

// StringCodec is the identity codec for string-kinded state types.
type StringCodec[T ~string] struct{}

func (StringCodec[T]) EncodeState(s T) (string, error) { return string(s), nil }

func (StringCodec[T]) DecodeState(s string) (T, error) { return T(s), nil }

// FuncCodec adapts a pair of functions into a Codec.
type FuncCodec[T comparable] struct {
	Encode func(T) (string, error)
	Decode func(string) (T, error)
}

func (c FuncCodec[T]) EncodeState(s T) (string, error) { return c.Encode(s) }

func (c FuncCodec[T]) DecodeState(s string) (T, error) { return c.Decode(s) }

// Persist saves the machine's current snapshot under id.
func Persist[T comparable](ctx context.Context, s Store, id string, m *sojourn.Machine[T], codec Codec[T]) error {
	snap := m.Snapshot()
	state, err := codec.EncodeState(snap.State)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return s.Save(ctx, id, Record{
		State:          state,
		ElapsedSeconds: snap.ElapsedSeconds,
	})
}

// Resume loads the record under id and restores it onto the machine. Like
// Machine.Restore, this fires no notifications.
func Resume[T comparable](ctx context.Context, s Store, id string, m *sojourn.Machine[T], codec Codec[T]) error {
	rec, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	state, err := codec.DecodeState(rec.State)
	if err != nil {
		return fmt.Errorf("decode state %q: %w", rec.State, err)
	}
	return m.Restore(sojourn.Snapshot[T]{
		State:          state,
		ElapsedSeconds: rec.ElapsedSeconds,
	})
}
