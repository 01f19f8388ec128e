package layout

import (
	"fmt"

	"github.com/npillmayer/coaster"
)

// Layout is a plan together with the knots where the ride's landmarks are:
// the bottom of the lift hill and the beginning of the brake section.
// The highest knot should come early, but not first: the lift phase wraps
// around the end of the point array and runs up to the peak.
type Layout struct {
	Plan  *Plan
	Lift  int // knot where the lift chain starts
	Brake int // knot where braking starts
}

// Demo returns the built-in demo layout, a loop of about 200 m with a
// 12 m first drop, two camel backs and a level brake run into the station.
func Demo() Layout {
	plan := Nullplan().
		Knot(coaster.P(10, 6), 10.5).Curve().
		Knot(coaster.P(22, 0), 12).Curve(). // top of the lift hill
		Knot(coaster.P(48, 6), 1.5).Curve().
		Knot(coaster.P(62, 24), 7).Curve().
		Knot(coaster.P(50, 42), 1.5).Curve().
		Knot(coaster.P(26, 50), 5).Curve().
		Knot(coaster.P(4, 40), 1).Straight(). // brakes
		Knot(coaster.P(-8, 22), 1).Curve(). // station, lift chain starts
		Cycle()
	return Layout{Plan: plan, Lift: 7, Brake: 6}
}

// Validate checks the plan and the landmark knots.
func (l Layout) Validate() error {
	if err := l.Plan.Validate(); err != nil {
		return err
	}
	n := l.Plan.N()
	if l.Lift < 0 || l.Lift >= n || l.Brake < 0 || l.Brake >= n {
		return fmt.Errorf("%w: landmark knots %d, %d not in [0,%d)", coaster.ErrInvalidInput, l.Lift, l.Brake, n)
	}
	if l.Brake >= l.Lift {
		return fmt.Errorf("%w: brake knot must come before lift knot", coaster.ErrInvalidInput)
	}
	return nil
}

// Landmarks returns the positions of the lift and brake knots as fractions
// of the track length, see KnotFractions.
func (l Layout) Landmarks(controls *Controls) (lift, brake float64, err error) {
	if err = l.Validate(); err != nil {
		return 0, 0, err
	}
	fr, err := KnotFractions(l.Plan, controls)
	if err != nil {
		return 0, 0, err
	}
	return fr[l.Lift], fr[l.Brake], nil
}
