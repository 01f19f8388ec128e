package track

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/physics"
)

// Segment is a straight beam.
type Segment struct {
	From, To mgl64.Vec3
}

// Range is an inclusive range of curve indices. A range with From > To
// wraps around the end of the curve.
type Range struct {
	From, To int
}

// Contains is a predicate: is index i within the range?
func (r Range) Contains(i int) bool {
	if r.From <= r.To {
		return i >= r.From && i <= r.To
	}
	return i >= r.From || i <= r.To
}

// SupportOptions control where supports are placed.
type SupportOptions struct {
	Granularity int     // curve indices between two supports
	Ground      float64 // height of the ground
	Lean        float64 // length of the knee of an angled support
	SkipRanges  []Range // curve indices without supports
	Zones       []*Zone // plan-view areas without supports
}

// DefaultSupportOptions returns options suitable for a curve reparameterized
// at 1000 points per unit of length.
func DefaultSupportOptions() SupportOptions {
	return SupportOptions{Granularity: 1000, Ground: -0.1, Lean: 0.2}
}

func (o SupportOptions) validate() error {
	if o.Granularity <= 0 {
		return fmt.Errorf("%w: support granularity must be positive, is %d", coaster.ErrInvalidInput, o.Granularity)
	}
	if o.Lean < 0 {
		return fmt.Errorf("%w: support lean must not be negative, is %g", coaster.ErrInvalidInput, o.Lean)
	}
	return nil
}

func (o SupportOptions) skipped(i int) bool {
	for _, r := range o.SkipRanges {
		if r.Contains(i) {
			return true
		}
	}
	return false
}

// Supports places support beams every Granularity-th curve index. Where the
// track's normal points upwards, a vertical beam runs from the track to the
// ground. Where it points downwards, i.e. the cart hangs upside down, the
// support first leans away from the track by Lean along the inverted normal
// and then runs down vertically.
//
// Indices within one of the skip ranges get no support, neither do track
// points at or below ground level, nor supports whose foot lies within one of
// the exclusion zones.
func Supports(m *physics.Model, dt float64, st physics.State, opts SupportOptions) ([]Segment, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	c := m.Curve()
	f := newFramer(m, dt, st)
	excl := Exclude(opts.Zones...)
	var beams []Segment
	var skipped int
	for i := 0; i < c.N(); i += opts.Granularity {
		fr, err := f.at(i)
		if err != nil {
			return nil, err
		}
		cur := c.At(i)
		if opts.skipped(i) || cur.Y() <= opts.Ground {
			skipped++
			continue
		}
		top := cur
		if fr.Normal.Y() < 0 {
			top = cur.Sub(fr.Normal.Mul(opts.Lean))
		}
		foot := mgl64.Vec3{top.X(), opts.Ground, top.Z()}
		if excl.Contains(coaster.P(foot.X(), foot.Z())) {
			skipped++
			continue
		}
		if top != cur {
			beams = append(beams, Segment{From: cur, To: top})
		}
		beams = append(beams, Segment{From: top, To: foot})
	}
	tracer().Infof("supports: %d beams, %d positions skipped, %d degenerate frames",
		len(beams), skipped, f.degenerate)
	return beams, nil
}
