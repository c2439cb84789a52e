package grove

import "time"

// FrameClock converts wall-clock instants into per-frame dt in seconds.
// A zero TargetFPS or MaxDelta falls back to 60 FPS and a quarter second.
type FrameClock struct {
	TargetFPS float32
	MaxDelta  float32

	last    time.Time
	started bool
}

// NewFrameClock returns a clock configured from cfg.
func NewFrameClock(cfg FrameConfig) *FrameClock {
	return &FrameClock{TargetFPS: cfg.TargetFPS, MaxDelta: cfg.MaxDelta}
}

// Budget returns the nominal frame duration in seconds.
func (c *FrameClock) Budget() float32 {
	if c.TargetFPS <= 0 {
		return 1.0 / 60
	}
	return 1 / c.TargetFPS
}

// Tick returns the seconds elapsed since the previous Tick, clamped to
// MaxDelta. The first Tick, and any tick where time went backwards, returns
// the frame budget.
func (c *FrameClock) Tick(now time.Time) float32 {
	if !c.started {
		c.started = true
		c.last = now
		return c.Budget()
	}
	elapsed := now.Sub(c.last)
	c.last = now
	if elapsed <= 0 {
		return c.Budget()
	}
	dt := float32(elapsed.Seconds())
	limit := c.MaxDelta
	if limit <= 0 {
		limit = 0.25
	}
	if dt > limit {
		dt = limit
	}
	return dt
}

// Reset forgets the previous instant.
func (c *FrameClock) Reset() {
	c.started = false
}
