package clock

import (
	"context"
	"sync"
	"time"
)

const (
	defaultFrameInterval = 16667 * time.Microsecond // ~60 cycles/sec
	defaultFixedStep     = 20 * time.Millisecond
)

// Driver is a wall-clock Source. Run executes a frame loop: each frame it
// measures the real time since the previous frame, catches up the
// fixed-step accumulator (Fixed channel), then fires Normal and Late.
//
// Unlike Manual, Driver is safe for cross-goroutine Subscribe and SetScale;
// delivery itself happens on the Run goroutine, which is the thread the
// design confines machines to.
type Driver struct {
	frame time.Duration
	fixed time.Duration

	mu    sync.Mutex
	subs  []*subscriber
	scale float64
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithFrameInterval sets the target cycle interval (default ~16.7ms).
func WithFrameInterval(d time.Duration) DriverOption {
	return func(drv *Driver) {
		if d > 0 {
			drv.frame = d
		}
	}
}

// WithFixedStep sets the fixed-step interval for the Fixed cadence
// (default 20ms).
func WithFixedStep(d time.Duration) DriverOption {
	return func(drv *Driver) {
		if d > 0 {
			drv.fixed = d
		}
	}
}

// WithScale sets the initial time scale for Scaled-mode subscribers.
func WithScale(scale float64) DriverOption {
	return func(drv *Driver) {
		drv.scale = scale
	}
}

// NewDriver creates a Driver with the given options.
func NewDriver(opts ...DriverOption) *Driver {
	d := &Driver{
		frame: defaultFrameInterval,
		fixed: defaultFixedStep,
		scale: 1.0,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.scale < 0 {
		d.scale = 0
	}
	return d
}

// Subscribe implements Source.
func (d *Driver) Subscribe(c Cadence, m Mode, fn func(dt time.Duration)) func() {
	sub := &subscriber{cadence: c, mode: m, fn: fn}
	d.mu.Lock()
	d.subs = append(d.subs, sub)
	d.mu.Unlock()
	return func() { sub.done.Store(true) }
}

// SetScale changes the multiplier applied to Scaled-mode subscribers.
func (d *Driver) SetScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	d.mu.Lock()
	d.scale = scale
	d.mu.Unlock()
}

// Scale returns the current time scale.
func (d *Driver) Scale() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scale
}

// Run drives the frame loop until ctx is done. It always returns
// ctx.Err()'s cause via ctx (context.Canceled on a clean stop).
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.frame)
	defer ticker.Stop()

	last := time.Now()
	var fixedAcc time.Duration
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			fixedAcc = d.step(dt, fixedAcc)
		}
	}
}

// step runs one cycle with real delta dt and returns the remaining
// fixed-step accumulator. Split from Run so cycles are testable without
// wall-clock sleeps.
func (d *Driver) step(dt time.Duration, fixedAcc time.Duration) time.Duration {
	d.mu.Lock()
	subs := make([]*subscriber, len(d.subs))
	copy(subs, d.subs)
	scale := d.scale
	d.mu.Unlock()

	fixedAcc += dt
	for fixedAcc >= d.fixed {
		fire(subs, Fixed, d.fixed, scale)
		fixedAcc -= d.fixed
	}
	fire(subs, Normal, dt, scale)
	fire(subs, Late, dt, scale)

	d.mu.Lock()
	d.subs = compact(d.subs)
	d.mu.Unlock()
	return fixedAcc
}
