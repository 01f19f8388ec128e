package layout

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/curve"
)

// Point evaluates the track between knot i and knot i+1 at spline parameter
// t ∈ [0,1]. The plan view follows the cubic Bézier segment, the height is
// blended with a smoothstep.
func Point(plan *Plan, controls *Controls, i int, t float64) mgl64.Vec3 {
	j := plan.wrap(i + 1)
	i = plan.wrap(i)
	p := bezier(plan.Z(i), controls.PostControl(i), controls.PreControl(j), plan.Z(j), t)
	s := t * t * (3 - 2*t)
	h := plan.Height(i) + (plan.Height(j)-plan.Height(i))*s
	return mgl64.Vec3{p.X(), h, p.Z()}
}

func bezier(z0, c0, c1, z1 coaster.Pair, t float64) coaster.Pair {
	s := 1 - t
	b0 := complex(s*s*s, 0)
	b1 := complex(3*s*s*t, 0)
	b2 := complex(3*s*t*t, 0)
	b3 := complex(t*t*t, 0)
	return coaster.Pair(b0*z0.C() + b1*c0.C() + b2*c1.C() + b3*z1.C())
}

// segmentSteps estimates how many samples segment i needs for the given
// spacing, from the length of its control polygon (an upper bound of the
// arc length) and its height difference.
func segmentSteps(plan *Plan, controls *Controls, i int, spacing float64) int {
	j := plan.wrap(i + 1)
	poly := (controls.PostControl(i) - plan.Z(i)).Abs() +
		(controls.PreControl(j) - controls.PostControl(i)).Abs() +
		(plan.Z(j) - controls.PreControl(j)).Abs()
	l := math.Hypot(poly, plan.Height(j)-plan.Height(i))
	return max(1, int(math.Ceil(l/spacing)))
}

// Sample turns a solved plan into a closed track curve, with points roughly
// spacing apart. Samples are equidistant in spline parameter, not in arc
// length; reparameterize the result before running physics on it.
func Sample(plan *Plan, controls *Controls, spacing float64) (*curve.Curve, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if controls == nil {
		return nil, fmt.Errorf("%w: plan has no controls", coaster.ErrInvalidInput)
	}
	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: sample spacing must be positive, is %g", coaster.ErrInvalidInput, spacing)
	}
	var pts []mgl64.Vec3
	for i := 0; i < plan.N(); i++ {
		steps := segmentSteps(plan, controls, i, spacing)
		for k := 0; k < steps; k++ {
			pts = append(pts, Point(plan, controls, i, float64(k)/float64(steps)))
		}
	}
	c := curve.New(pts, true)
	tracer().Infof("sampled %d knots into %s", plan.N(), c)
	return c, nil
}

// KnotFractions returns, for every knot, the arc length of the track from
// knot 0 up to the knot, as a fraction of the total length. On a curve
// reparameterized by arc length and starting at knot 0, knot k therefore
// sits at about index fraction[k]·N.
func KnotFractions(plan *Plan, controls *Controls) ([]float64, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if controls == nil {
		return nil, fmt.Errorf("%w: plan has no controls", coaster.ErrInvalidInput)
	}
	const steps = 256
	n := plan.N()
	acc := make([]float64, n+1)
	for i := 0; i < n; i++ {
		l, prev := 0.0, Point(plan, controls, i, 0)
		for k := 1; k <= steps; k++ {
			p := Point(plan, controls, i, float64(k)/steps)
			l += p.Sub(prev).Len()
			prev = p
		}
		acc[i+1] = acc[i] + l
	}
	fractions := make([]float64, n)
	for i := range fractions {
		fractions[i] = acc[i] / acc[n]
	}
	return fractions, nil
}
