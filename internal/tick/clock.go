// Package tick holds the discrete clock and the action queue that drive a
// simulation run. One tick is 0.6 seconds of game time.
package tick

import (
	"errors"
	"math"
)

type Tick int

const (
	Duration = 0.6 // seconds per tick
	PerHour  = 6000
)

var ErrTickLimit = errors.New("tick: clock reached its tick limit")

func (t Tick) Seconds() float64 { return float64(t) * Duration }

// FromSeconds rounds up so a delay is never shorter than requested.
func FromSeconds(s float64) Tick {
	if s <= 0 {
		return 0
	}
	return Tick(math.Ceil(s/Duration - 1e-9))
}

// Clock is owned by a single run and is not safe for concurrent use.
type Clock struct {
	now Tick
	max Tick
}

// NewClock returns a clock at tick 0 that refuses to pass max. A max of zero
// or less means unbounded.
func NewClock(max Tick) *Clock {
	return &Clock{max: max}
}

func (c *Clock) Current() Tick { return c.now }
func (c *Clock) Max() Tick     { return c.max }

func (c *Clock) Remaining() Tick {
	if c.max <= 0 {
		return math.MaxInt
	}
	return c.max - c.now
}

// Advance moves exactly one tick forward and returns the new tick. At the
// limit it returns the unchanged tick and ErrTickLimit.
func (c *Clock) Advance() (Tick, error) {
	if c.max > 0 && c.now >= c.max {
		return c.now, ErrTickLimit
	}
	c.now++
	return c.now, nil
}
