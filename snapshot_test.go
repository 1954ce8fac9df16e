package sojourn_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sojourn-fsm/sojourn"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m, err := sojourn.New(idle)
	if err != nil {
		t.Fatal(err)
	}
	m.Set(working)
	m.Tick(1500 * time.Millisecond)

	snap := m.Snapshot()
	if snap.State != working || snap.ElapsedSeconds != 1.5 {
		t.Fatalf("snapshot = %+v", snap)
	}

	// Drift away, then restore.
	m.Set(done)
	m.Tick(10 * time.Second)

	notified := 0
	m.OnChange(func() { notified++ })
	m.OnTransition(func(phase, time.Duration) { notified++ })

	if err := m.Restore(snap); err != nil {
		t.Fatal(err)
	}
	if m.Current() != working {
		t.Errorf("current = %s, want %s", m.Current(), working)
	}
	if m.Elapsed() != 1500*time.Millisecond {
		t.Errorf("elapsed = %s, want 1.5s", m.Elapsed())
	}
	if notified != 0 {
		t.Errorf("restore fired %d notifications, want 0", notified)
	}
	// Raw restore: previous is deliberately left stale.
	if m.Previous() != working {
		t.Errorf("previous = %s, want the stale %s", m.Previous(), working)
	}
}

func TestSnapshotRoundTripKeepsNanoseconds(t *testing.T) {
	// Durations whose seconds value has no exact float64 representation
	// must still survive the snapshot's seconds encoding exactly.
	durations := []time.Duration{
		74*time.Hour + 40*time.Minute + 58241334655*time.Nanosecond,
		time.Nanosecond,
		333333333 * time.Nanosecond,
		99*time.Hour + 999999999*time.Nanosecond,
	}
	for _, d := range durations {
		m, err := sojourn.New(idle)
		if err != nil {
			t.Fatal(err)
		}
		m.Tick(d)

		if err := m.Restore(m.Snapshot()); err != nil {
			t.Fatal(err)
		}
		if got := m.Elapsed(); got != d {
			t.Errorf("elapsed after round trip = %s, want %s", got, d)
		}
	}
}

func TestRestoreRejectsNegativeElapsed(t *testing.T) {
	m, err := sojourn.New(idle)
	if err != nil {
		t.Fatal(err)
	}
	snapErr := m.Restore(sojourn.Snapshot[phase]{State: working, ElapsedSeconds: -1})
	if !errors.Is(snapErr, sojourn.ErrNegativeElapsed) {
		t.Fatalf("expected ErrNegativeElapsed, got %v", snapErr)
	}
}

func TestRestoreDoesNotResetTriggerConsumption(t *testing.T) {
	m, err := sojourn.New(idle)
	if err != nil {
		t.Fatal(err)
	}

	fired := 0
	m.When(idle, func() bool { return true }, func() { fired++ })
	m.Tick(time.Second)
	if fired != 1 {
		t.Fatalf("predicate trigger fired %d times, want 1", fired)
	}

	// Restoring into the same state is not a re-entry; the trigger stays
	// consumed for this sojourn.
	if err := m.Restore(sojourn.Snapshot[phase]{State: idle, ElapsedSeconds: 0}); err != nil {
		t.Fatal(err)
	}
	m.Tick(time.Second)
	if fired != 1 {
		t.Errorf("restore must not re-arm predicate triggers, fired %d times", fired)
	}
}
