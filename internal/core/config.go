package core

import "time"

// DefaultDT is the simulated time advanced by one tick, in seconds.
const DefaultDT = 0.016

// RuntimeConfig contains the clock settings handed to a running fight.
type RuntimeConfig struct {
	TickRate int     // Simulation steps per second of wall-clock time
	DT       float64 // Simulated seconds per step
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
// Five steps per second matches a client polling state every 200ms.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 5,
		DT:       DefaultDT,
	}
}

// Interval returns the wall-clock time between two steps.
func (c RuntimeConfig) Interval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = DefaultConfig().TickRate
	}
	return time.Second / time.Duration(rate)
}
