package main

import (
	"fmt"
	"time"

	"github.com/muesli/termenv"

	"github.com/sojourn-fsm/sojourn"
)

// The demo machine: a sliding door with a travel time of two seconds,
// opened and closed by a button.
type door string

const (
	doorClosed  door = "closed"
	doorOpening door = "opening"
	doorOpen    door = "open"
	doorClosing door = "closing"
)

const doorTravelTime = 2 * time.Second

var doorColors = map[door]string{
	doorClosed:  "#fb7185",
	doorOpening: "#e879f9",
	doorOpen:    "#818cf8",
	doorClosing: "#c084fc",
}

// buildDoor wires the door rules around a button probe. Pressing the
// button opens the door; releasing it closes the door again.
func buildDoor(pressed func() bool, opts ...sojourn.Option[door]) (*sojourn.Machine[door], error) {
	m, err := sojourn.New(doorClosed, opts...)
	if err != nil {
		return nil, err
	}

	m.TransitionWhen(doorClosed, pressed, doorOpening)
	m.TransitionWhen(doorOpen, func() bool { return !pressed() }, doorClosing)
	m.TransitionAt(doorOpening, doorTravelTime, doorOpen)
	m.TransitionAt(doorClosing, doorTravelTime, doorClosed)

	// Reverse mid-travel when the button flips.
	m.TransitionWhen(doorOpening, func() bool { return !pressed() }, doorClosing)
	m.TransitionWhen(doorClosing, pressed, doorOpening)

	return m, nil
}

// reportTransitions prints a colored line for every door transition.
func reportTransitions(m *sojourn.Machine[door], colored bool) {
	profile := termenv.ColorProfile()
	m.OnTransition(func(from door, stay time.Duration) {
		to := m.Current()
		label := string(to)
		if colored {
			label = termenv.String(label).
				Foreground(profile.Color(doorColors[to])).
				Bold().String()
		}
		fmt.Printf("door: %s -> %s (after %s)\n", from, label, stay.Round(10*time.Millisecond))
	})
}
