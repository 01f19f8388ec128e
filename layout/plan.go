package layout

import (
	"fmt"
	"math"

	"github.com/npillmayer/coaster"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'coaster.layout'
func tracer() tracing.Trace {
	return tracing.Select("coaster.layout")
}

var (
	// ErrNilPlan indicates a nil plan pointer.
	ErrNilPlan = fmt.Errorf("%w: plan must not be nil", coaster.ErrInvalidInput)
	// ErrTooFewKnots indicates a plan with fewer than 3 knots.
	ErrTooFewKnots = fmt.Errorf("%w: plan has too few knots", coaster.ErrInvalidInput)
	// ErrInvalidKnot indicates a knot coordinate or height containing NaN/Inf.
	ErrInvalidKnot = fmt.Errorf("%w: plan has invalid knot", coaster.ErrInvalidInput)
	// ErrDegenerateSegment indicates two consecutive knots collapsing to one point.
	ErrDegenerateSegment = fmt.Errorf("%w: plan has degenerate segment", coaster.ErrInvalidInput)
	// ErrDuplicateTerminalKnot indicates a plan redundantly repeating its first
	// knot as its last one.
	ErrDuplicateTerminalKnot = fmt.Errorf("%w: plan must not repeat first knot as terminal knot",
		coaster.ErrInvalidInput)
)

// Tensions are kept between these bounds.
const (
	minTension = 0.75
	maxTension = 4.0
)

// Plan is a closed track loop in plan view, with a height at every knot.
// To construct a plan, start with Nullplan(), which creates an empty plan,
// and then extend it.
type Plan struct {
	points   []coaster.Pair // knot i
	heights  []float64      // height at knot i
	tensions []coaster.Pair // pre- and post-tension at knot i
	closed   bool
}

// Nullplan creates an empty plan, to be extended by subsequent builder
// calls. The following example plans a loop of four knots, connected by
// curves, one of them a tense one.
//
//	plan := Nullplan().Knot(P(0,0), 1).Curve().Knot(P(30,0), 8).Curve().
//	    Knot(P(30,20), 3).Straight().Knot(P(0,20), 1).Curve().Cycle()
func Nullplan() *Plan {
	return &Plan{}
}

// Knot adds a knot at plan position p with track height h.
// Part of builder functionality.
func (plan *Plan) Knot(p coaster.Pair, h float64) *Plan {
	plan.points = append(plan.points, p)
	plan.heights = append(plan.heights, h)
	return plan
}

// Curve connects two knots with a smooth curve.
// Part of builder functionality.
func (plan *Plan) Curve() *Plan {
	if plan.N() == 0 {
		panic("cannot add curve to empty plan")
	}
	return plan.TensionCurve(1.0, 1.0)
}

// Straight connects two knots with a curve of maximum tension, which is as
// close to a straight line as a Hobby spline gets.
// Part of builder functionality.
func (plan *Plan) Straight() *Plan {
	if plan.N() == 0 {
		panic("cannot add straight to empty plan")
	}
	return plan.TensionCurve(maxTension, maxTension)
}

// TensionCurve connects two knots with a tense curve.
// Part of builder functionality.
//
// Tensions are adapted to lie between 3/4 and 4.
func (plan *Plan) TensionCurve(t1, t2 float64) *Plan {
	if plan.N() == 0 {
		panic("cannot add curve to empty plan")
	}
	if t1 != 1.0 {
		plan.SetPostTension(plan.N()-1, t1)
	}
	if t2 != 1.0 {
		plan.SetPreTension(plan.N(), t2)
	}
	return plan
}

// Cycle closes the plan. Part of builder functionality.
func (plan *Plan) Cycle() *Plan {
	plan.closed = true
	if n := plan.N(); n > 0 && len(plan.tensions) > n {
		// pre-tension of the closing join belongs to the first knot
		pre := real(plan.tensions[n])
		plan.tensions = plan.tensions[:n]
		plan.SetPreTension(0, pre)
	}
	return plan
}

// IsCycle is a predicate: has the plan been closed?
func (plan *Plan) IsCycle() bool {
	return plan.closed
}

// N returns the knot count of the plan.
func (plan *Plan) N() int {
	if plan == nil {
		return 0
	}
	return len(plan.points)
}

func (plan *Plan) wrap(i int) int {
	n := plan.N()
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Z returns the knot at position (i mod N).
func (plan *Plan) Z(i int) coaster.Pair {
	return plan.points[plan.wrap(i)]
}

// Height returns the height at knot (i mod N).
func (plan *Plan) Height(i int) float64 {
	return plan.heights[plan.wrap(i)]
}

// SetPreTension is a property setter.
func (plan *Plan) SetPreTension(i int, tension float64) *Plan {
	plan.tensions = extendC(plan.tensions, i, 1+1i)
	post := imag(plan.tensions[i])
	plan.tensions[i] = coaster.P(clampTension(tension), post)
	return plan
}

// SetPostTension is a property setter.
func (plan *Plan) SetPostTension(i int, tension float64) *Plan {
	plan.tensions = extendC(plan.tensions, i, 1+1i)
	pre := real(plan.tensions[i])
	plan.tensions[i] = coaster.P(pre, clampTension(tension))
	return plan
}

// PreTension returns the tension before knot i (mod N).
func (plan *Plan) PreTension(i int) float64 {
	return real(getC(plan.tensions, plan.wrap(i), 1+1i))
}

// PostTension returns the tension after knot i (mod N).
func (plan *Plan) PostTension(i int) float64 {
	return imag(getC(plan.tensions, plan.wrap(i), 1+1i))
}

func clampTension(t float64) float64 {
	return math.Min(maxTension, math.Max(minTension, math.Abs(t)))
}

// Transform returns a copy of the plan with all knots transformed by at.
// Heights and tensions are unchanged. Hobby splines are invariant under
// similarity transforms, so for rotations, translations and uniform
// scalings the solved controls transform along with the knots.
func (plan *Plan) Transform(at coaster.AT) *Plan {
	t := &Plan{
		points:   make([]coaster.Pair, plan.N()),
		heights:  append([]float64(nil), plan.heights...),
		tensions: append([]coaster.Pair(nil), plan.tensions...),
		closed:   plan.closed,
	}
	for i, p := range plan.points {
		t.points[i] = at.Transform(p)
	}
	return t
}

// Validate checks if a plan is solvable by Hobby interpolation.
func (plan *Plan) Validate() error {
	if plan == nil {
		return ErrNilPlan
	}
	n := plan.N()
	if !plan.closed {
		return fmt.Errorf("%w: plan is not closed", coaster.ErrInvalidInput)
	}
	if n < 3 {
		return fmt.Errorf("%w: cycle needs at least 3 knots, got %d", ErrTooFewKnots, n)
	}
	if plan.points[0].Equal(plan.points[n-1]) {
		return ErrDuplicateTerminalKnot
	}
	for i := 0; i < n; i++ {
		x, z, h := plan.points[i].X(), plan.points[i].Z(), plan.heights[i]
		for _, f := range []float64{x, z, h} {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w at knot %d", ErrInvalidKnot, i)
			}
		}
	}
	for i := 0; i < n; i++ {
		if coaster.Is0(plan.d(i)) {
			return fmt.Errorf("%w between knots %d and %d", ErrDegenerateSegment, i, (i+1)%n)
		}
	}
	return nil
}

func (plan *Plan) delta(i int) coaster.Pair {
	return plan.Z(i+1) - plan.Z(i)
}

func (plan *Plan) d(i int) float64 {
	return plan.delta(i).Abs()
}
