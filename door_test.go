package sojourn_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sojourn-fsm/sojourn"
)

// End-to-end scenario: a door driven by a button, with two-second travel
// times in each direction.
func TestDoorScenario(t *testing.T) {
	type door string
	const (
		closed  door = "closed"
		opening door = "opening"
		open    door = "open"
		closing door = "closing"
	)

	m, err := sojourn.New(closed)
	require.NoError(t, err)

	pressed := false
	m.TransitionAt(opening, 2*time.Second, open)
	m.TransitionAt(closing, 2*time.Second, closed)
	m.TransitionWhen(closed, func() bool { return pressed }, opening)
	m.TransitionWhen(open, func() bool { return !pressed }, closing)

	pressed = true

	// Tick 1: the predicate transition fires; the sojourn restarts.
	m.Tick(time.Second)
	require.Equal(t, opening, m.Current())
	require.Equal(t, time.Duration(0), m.Elapsed())

	// Ticks 2 and 3 accumulate travel time; the half-open window [1s,2s)
	// does not contain the 2s timestamp yet.
	m.Tick(time.Second)
	require.Equal(t, opening, m.Current())
	require.Equal(t, time.Second, m.Elapsed())

	m.Tick(time.Second)
	require.Equal(t, opening, m.Current())
	require.Equal(t, 2*time.Second, m.Elapsed())

	// Tick 4: elapsed first exceeds 2s, window [2s,3s) contains it.
	m.Tick(time.Second)
	require.Equal(t, open, m.Current())

	// Release the button: the door closes and eventually latches.
	pressed = false
	m.Tick(time.Second)
	require.Equal(t, closing, m.Current())

	m.Tick(time.Second)
	m.Tick(time.Second)
	m.Tick(time.Second)
	require.Equal(t, closed, m.Current())
}
