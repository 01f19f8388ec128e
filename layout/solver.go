package layout

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/coaster"
)

// Controls collects calculated spline control points.
type Controls struct {
	prec  []coaster.Pair // control point i-
	postc []coaster.Pair // control point i+
}

// SetPreControl sets the incoming control point of knot i.
func (ctrls *Controls) SetPreControl(i int, c coaster.Pair) {
	ctrls.prec = extendC(ctrls.prec, i, coaster.Pair(cmplx.NaN()))
	ctrls.prec[i] = c
}

// SetPostControl sets the outgoing control point of knot i.
func (ctrls *Controls) SetPostControl(i int, c coaster.Pair) {
	ctrls.postc = extendC(ctrls.postc, i, coaster.Pair(cmplx.NaN()))
	ctrls.postc[i] = c
}

// PreControl returns the incoming control point of knot i, or NaN if unknown.
func (ctrls *Controls) PreControl(i int) coaster.Pair {
	return getC(ctrls.prec, i, coaster.Pair(cmplx.NaN()))
}

// PostControl returns the outgoing control point of knot i, or NaN if unknown.
func (ctrls *Controls) PostControl(i int) coaster.Pair {
	return getC(ctrls.postc, i, coaster.Pair(cmplx.NaN()))
}

// FindControls finds the Hobby-spline control points for a plan.
// It validates the plan and returns an error for invalid geometry.
func FindControls(plan *Plan) (*Controls, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	n := plan.N()
	u := make([]float64, n+2)
	v := make([]float64, n+2)
	w := make([]float64, n+2)
	theta := make([]float64, n+2)
	u[0], v[0], w[0] = 0, 0, 1
	buildEqs(plan, u, v, w)
	solveCycle(plan, theta, u, v, w)
	controls := setControls(plan, theta, &Controls{})
	tracer().Debugf("plan = %s", AsString(plan, controls))
	return controls, nil
}

// MustFindControls is like FindControls, but panics on invalid plans.
// Intended for built-in layouts and tests.
func MustFindControls(plan *Plan) *Controls {
	c, err := FindControls(plan)
	if err != nil {
		panic(err)
	}
	return c
}

// Turning angle at knot i.
func (plan *Plan) psi(i int) float64 {
	psi := cmplx.Phase(plan.delta(i).C()) - cmplx.Phase(plan.delta(i-1).C())
	return reduceAngle(psi)
}

// buildEqs eliminates the tridiagonal part of the cyclic system of mock
// curvature equations. w carries the dependency on theta.0, which is only
// known after going round the cycle once.
func buildEqs(plan *Plan, u, v, w []float64) {
	n := plan.N()
	for i := 1; i <= n; i++ {
		a0 := recip(plan.PostTension(i - 1))
		a1 := recip(plan.PostTension(i))
		b1 := recip(plan.PreTension(i))
		b2 := recip(plan.PreTension(i + 1))
		A := a0 / (square(b1) * plan.d(i-1))
		B := (3 - a0) / (square(b1) * plan.d(i-1))
		C := (3 - b2) / (square(a1) * plan.d(i))
		D := b2 / (square(a1) * plan.d(i))
		t := B - u[i-1]*A + C
		u[i] = D / t
		v[i] = (-B*plan.psi(i) - D*plan.psi(i+1) - A*v[i-1]) / t
		w[i] = -A * w[i-1] / t
	}
}

func solveCycle(plan *Plan, theta, u, v, w []float64) {
	n := plan.N()
	var a, b float64 = 0, 1
	for i := n; i > 0; i-- {
		a = v[i] - a*u[i]
		b = w[i] - b*u[i]
	}
	t0 := (v[n] - a*u[n]) / (1 - (w[n] - b*u[n]))
	v[0] = t0
	for i := 1; i <= n; i++ {
		v[i] += w[i] * t0
	}
	theta[0], theta[n] = t0, t0
	for i := n - 1; i > 0; i-- {
		theta[i] = v[i] - u[i]*theta[i+1]
	}
}

func setControls(plan *Plan, theta []float64, controls *Controls) *Controls {
	n := plan.N()
	for i := 0; i < n; i++ {
		phi := -plan.psi(i+1) - theta[i+1]
		a := recip(plan.PostTension(i))
		b := recip(plan.PreTension(i + 1))
		p2, p3 := controlOffsets(phi, theta[i], a, b, plan.delta(i))
		controls.SetPostControl(i, plan.Z(i)+p2)
		controls.SetPreControl((i+1)%n, plan.Z(i+1)-p3)
	}
	return controls
}

// --- Hobby's velocity function ----------------------------------------------

func hobbyParamsAlphaBeta(theta, phi float64) (float64, float64) {
	constA := 1.41421356     // sqrt(2), empiric constants as explained by J.Hobby
	constB := 0.0625         // 1/16
	constC := 0.38196601125  // (3 - sqrt(5)) / 2
	constCC := 0.61803398875 // 1 - c
	st, ct := math.Sincos(theta)
	sf, cf := math.Sincos(phi)
	alpha := constA * (st - constB*sf) * (sf - constB*st) * (ct - cf)
	beta := 1 + constCC*ct + constC*cf
	return alpha, beta
}

// controlOffsets calculates the offsets of the control points between knot i
// and knot i+1, relative to the respective knot. dvec is the chord.
func controlOffsets(phi, theta, a, b float64, dvec coaster.Pair) (coaster.Pair, coaster.Pair) {
	alpha, beta := hobbyParamsAlphaBeta(theta, phi)
	rho := (2 + alpha) / beta
	sigma := (2 - alpha) / beta
	st, ct := math.Sincos(theta)
	sf, cf := math.Sincos(phi)
	dx, dz := dvec.X(), dvec.Z()
	uv1 := coaster.P(dx*ct-dz*st, dx*st+dz*ct)
	uv2 := coaster.P(dx*cf+dz*sf, -dx*sf+dz*cf)
	return uv1 * coaster.P(a/3*rho, 0), uv2 * coaster.P(b/3*sigma, 0)
}

// --- Helpers ----------------------------------------------------------------

// Extend a slice of pairs to make room for index i.
// Will do nothing if the slice is already large enough.
func extendC(arr []coaster.Pair, i int, deflt coaster.Pair) []coaster.Pair {
	l := len(arr)
	if i >= l {
		arr = append(arr, make([]coaster.Pair, i-l+1)...)
		for ; i >= l; i-- {
			arr[i] = deflt
		}
	}
	return arr
}

// Get a value from a slice if present, default value deflt otherwise.
func getC(arr []coaster.Pair, i int, deflt coaster.Pair) coaster.Pair {
	if i >= len(arr) {
		return deflt
	}
	return arr[i]
}

// Reduce an angle to fit into -pi .. pi.
func reduceAngle(a float64) float64 {
	if math.Abs(a) > math.Pi {
		if a > 0 {
			a -= 2 * math.Pi
		} else {
			a += 2 * math.Pi
		}
	}
	return a
}

func recip(a float64) float64 {
	if math.IsNaN(a) {
		return 1.0
	}
	return 1.0 / a
}

func square(a float64) float64 {
	return a * a
}

func ptstring(p coaster.Pair, iscontrol bool) string {
	if cmplx.IsNaN(p.C()) {
		return "(<unknown>)"
	}
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f)", round(p.X()), round(p.Z()))
	}
	return fmt.Sprintf("(%.4g,%.4g)", round(p.X()), round(p.Z()))
}

func round(x float64) float64 {
	if x >= 0 {
		return float64(int64(x*10000.0+0.5)) / 10000.0
	}
	return float64(int64(x*10000.0-0.5)) / 10000.0
}
