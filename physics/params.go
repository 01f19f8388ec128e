/*
Package physics moves a cart along a track curve and frames it.

The speed of the cart depends on the phase it is in. While it is pulled up
the lift hill, it travels at constant lift speed. Then it falls freely, with
its speed following from conservation of energy relative to the highest point
of the track. Finally it is braked linearly down to zero at the end of the
deceleration section, which is where the lift starts again:

	          peak
	         /    \          free fall
	  lift  /      \__    __/\___
	       /          \__/       \______ deceleration
	 ─────┘                             └────── (wraps to lift start)

Phases are derived from the cart's curve index and a few landmark indices
(see Params). Because indices wrap modulo the point count, the lift phase
spans the end of the point array and its beginning up to a small margin past
the peak.

The only state carried from one speed query to the next is the speed
reached during free fall, which the deceleration phase scales down. This
state is explicit (type State) and owned by the caller.

Frames along the track (tangent, normal, binormal) are derived by finite
differences, looking one simulated step ahead along the curve. The normal
points along the net non-gravitational force, i.e. the force of the rails
onto the cart.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package physics

import (
	"fmt"

	"github.com/npillmayer/coaster"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'coaster.physics'
func tracer() tracing.Trace {
	return tracing.Select("coaster.physics")
}

// Params holds the landmark indices and physical constants of a track.
// They are fixed for a run.
type Params struct {
	LiftStart      int     // index where the lift chain starts
	DecelStart     int     // index where braking starts
	LiftCrossover  int     // indices past the peak still pulled by the chain
	DecelEndOffset int     // braking ends this many indices past LiftStart
	Gravity        float64 // m/s²
	LiftSpeed      float64 // m/s
}

// DefaultParams returns the parameters of the reference track, a curve of
// roughly 180.000 points.
func DefaultParams() Params {
	return Params{
		LiftStart:      168000,
		DecelStart:     140000,
		LiftCrossover:  150,
		DecelEndOffset: 500,
		Gravity:        9.81,
		LiftSpeed:      1.0,
	}
}

// Validate checks parameters against a curve with n points.
func (p Params) Validate(n int) error {
	if p.LiftStart < 0 || p.LiftStart >= n {
		return fmt.Errorf("%w: lift start %d not in [0,%d)", coaster.ErrInvalidInput, p.LiftStart, n)
	}
	if p.DecelStart < 0 || p.DecelStart >= n {
		return fmt.Errorf("%w: deceleration start %d not in [0,%d)", coaster.ErrInvalidInput, p.DecelStart, n)
	}
	if p.LiftCrossover < 0 || p.DecelEndOffset < 0 {
		return fmt.Errorf("%w: landmark offsets must not be negative", coaster.ErrInvalidInput)
	}
	if p.Gravity <= 0 || p.LiftSpeed <= 0 {
		return fmt.Errorf("%w: gravity and lift speed must be positive", coaster.ErrInvalidInput)
	}
	return nil
}
