package clock

import "time"

// Manual is a deterministic Source driven by explicit Advance calls.
// It is intended for tests and for hosts that already own a frame loop and
// want to forward their own delta times.
//
// Manual assumes single-thread confinement: Advance, Subscribe and
// SetScale must all be called from the same goroutine.
type Manual struct {
	subs  []*subscriber
	scale float64
}

// NewManual creates a Manual source with time scale 1.0.
func NewManual() *Manual {
	return &Manual{scale: 1.0}
}

// Subscribe implements Source.
func (m *Manual) Subscribe(c Cadence, mode Mode, fn func(dt time.Duration)) func() {
	sub := &subscriber{cadence: c, mode: mode, fn: fn}
	m.subs = append(m.subs, sub)
	return func() { sub.done.Store(true) }
}

// SetScale changes the multiplier applied to Scaled-mode subscribers.
// A scale of 0 pauses scaled time entirely.
func (m *Manual) SetScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	m.scale = scale
}

// Scale returns the current time scale.
func (m *Manual) Scale() float64 { return m.scale }

// Advance runs one cycle: Normal subscribers first, then Late, each
// receiving dt (scaled for Scaled-mode subscribers).
func (m *Manual) Advance(dt time.Duration) {
	fire(m.subs, Normal, dt, m.scale)
	fire(m.subs, Late, dt, m.scale)
	m.subs = compact(m.subs)
}

// AdvanceFixed fires the Fixed channel once with dt.
func (m *Manual) AdvanceFixed(dt time.Duration) {
	fire(m.subs, Fixed, dt, m.scale)
	m.subs = compact(m.subs)
}
