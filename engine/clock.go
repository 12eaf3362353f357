package engine

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Clock measures the time between ticks and keeps a moving average of the
// frame time over a fixed window.
type Clock struct {
	now func() time.Time

	last    time.Time
	started bool
	dt      time.Duration

	samples    []float64 // frame times in seconds
	writeIndex int
	count      int
}

// NewClock creates a clock averaging over window frames (60 when window < 1).
func NewClock(window int) *Clock {
	if window < 1 {
		window = 60
	}
	return &Clock{
		now:     time.Now,
		samples: make([]float64, window),
	}
}

// Reset forgets the previous tick so the next Tick measures from now.
func (c *Clock) Reset() {
	c.last = c.now()
	c.started = true
	c.dt = 0
}

// Tick records the time since the previous tick (or since Reset).
func (c *Clock) Tick() {
	now := c.now()
	if !c.started {
		c.last = now
		c.started = true
		return
	}

	c.dt = now.Sub(c.last)
	c.last = now

	c.samples[c.writeIndex] = c.dt.Seconds()
	c.writeIndex = (c.writeIndex + 1) % len(c.samples)
	if c.count < len(c.samples) {
		c.count++
	}
}

// Dt returns the duration of the last frame.
func (c *Clock) Dt() time.Duration {
	return c.dt
}

// AvgFramerate returns frames per second averaged over the window, or 0 before
// the first measured frame.
func (c *Clock) AvgFramerate() float64 {
	if c.count == 0 {
		return 0
	}
	mean := stat.Mean(c.samples[:c.count], nil)
	if mean <= 0 {
		return 0
	}
	return 1 / mean
}
