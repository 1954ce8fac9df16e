package store

import (
	"context"
	"errors"
	"testing"
)

// RunContract is a reusable test suite that verifies an adapter complies
// with the Store interface. Adapter test files call it with a fresh, empty
// store.
func RunContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := s.Load(ctx, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Save_Load_RoundTrip", func(t *testing.T) {
		want := Record{State: "open", ElapsedSeconds: 1.5}
		if err := s.Save(ctx, "door", want); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := s.Load(ctx, "door")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got != want {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
		}
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		if err := s.Save(ctx, "door", Record{State: "closing", ElapsedSeconds: 0}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := s.Load(ctx, "door")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.State != "closing" {
			t.Errorf("expected overwritten state 'closing', got %q", got.State)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := s.Save(ctx, "second", Record{State: "idle"}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		ids, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		lookup := make(map[string]bool, len(ids))
		for _, id := range ids {
			lookup[id] = true
		}
		for _, id := range []string{"door", "second"} {
			if !lookup[id] {
				t.Errorf("id %s missing from list %v", id, ids)
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.Delete(ctx, "door"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := s.Load(ctx, "door"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		// Deleting again must be a no-op.
		if err := s.Delete(ctx, "door"); err != nil {
			t.Fatalf("second delete failed: %v", err)
		}
	})
}
