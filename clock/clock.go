// Package clock provides the tick sources that drive sojourn machines.
//
// A machine never generates its own ticks. It subscribes to a Source, which
// delivers one delta-time value per cycle on the cadence the subscriber
// selected. The package ships two implementations: Driver, a wall-clock
// frame loop for real applications, and Manual, a deterministic source for
// tests and embedded game loops.
package clock

import (
	"sync/atomic"
	"time"
)

// Cadence selects which of the three notification channels a subscriber
// receives. Every cycle fires Fixed zero or more times (catching up on the
// fixed-step accumulator), then Normal once, then Late once.
type Cadence int

const (
	// Normal fires once per cycle with the cycle's delta time.
	Normal Cadence = iota
	// Late fires once per cycle, after all Normal subscribers.
	Late
	// Fixed fires on a fixed-step schedule decoupled from the cycle rate.
	Fixed
)

func (c Cadence) String() string {
	switch c {
	case Normal:
		return "normal"
	case Late:
		return "late"
	case Fixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Mode selects how delta time is measured for a subscriber.
type Mode int

const (
	// Real delivers unscaled wall-clock delta time.
	Real Mode = iota
	// Scaled multiplies delta time by the source's current time scale,
	// so a paused or slowed source delivers smaller (or zero) deltas.
	Scaled
)

func (m Mode) String() string {
	if m == Scaled {
		return "scaled"
	}
	return "real"
}

// Source delivers delta-time ticks to subscribers.
//
// Subscribe registers fn on the given cadence and returns a cancel func.
// Cancelling twice, or cancelling after the source stopped, is a no-op.
// Subscribers on the same cadence are invoked in subscription order.
type Source interface {
	Subscribe(c Cadence, m Mode, fn func(dt time.Duration)) (cancel func())
}

// subscriber is the shared registration record used by Manual and Driver.
// done is atomic because Driver permits cancellation from any goroutine,
// including from inside a tick handler.
type subscriber struct {
	cadence Cadence
	mode    Mode
	fn      func(dt time.Duration)
	done    atomic.Bool
}

// fire delivers dt to every live subscriber on cadence c, applying scale to
// Scaled-mode subscribers. Delivery is in subscription order.
func fire(subs []*subscriber, c Cadence, dt time.Duration, scale float64) {
	for _, s := range subs {
		if s.done.Load() || s.cadence != c {
			continue
		}
		d := dt
		if s.mode == Scaled {
			d = time.Duration(float64(dt) * scale)
		}
		s.fn(d)
	}
}

// compact drops cancelled subscribers. Called outside delivery.
func compact(subs []*subscriber) []*subscriber {
	live := subs[:0]
	for _, s := range subs {
		if !s.done.Load() {
			live = append(live, s)
		}
	}
	return live
}
