package curve

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
)

// reparamTolerance is the relative slack allowed when comparing the
// accumulated arc length against Δs.
const reparamTolerance = 1e-9

// Reparameterize produces a curve whose consecutive points are spaced
// (approximately) evenly by arc length. n controls the density: the target
// spacing is Δs = Length()/n.
//
// The input is walked point by point, accumulating the distance between
// consecutive points. Whenever the accumulated distance reaches Δs, the
// current point is emitted and the accumulator is reset. Reaching Δs is
// judged with a relative tolerance, so that an input already spaced by Δs
// is kept point for point despite rounding in the segment lengths. The first point is
// always emitted. This is a greedy threshold, not a resampling: no new points
// are interpolated, hence the result never has more points than the input.
// The final segment is not re-aligned with the first point.
//
// The result inherits the closed flag of c.
func Reparameterize(c *Curve, n int) (*Curve, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: subdivision count must be positive, is %d", coaster.ErrInvalidInput, n)
	}
	length := c.Length()
	if coaster.Is0(length) {
		return nil, fmt.Errorf("%w: curve has zero length", coaster.ErrInvalidInput)
	}
	deltaS := length / float64(n)
	tracer().Debugf("reparameterize %s with n=%d, Δs=%.6g", c, n, deltaS)
	pts := make([]mgl64.Vec3, 0, min(n+1, c.N()))
	pts = append(pts, c.points[0])
	threshold := deltaS * (1 - reparamTolerance)
	var acc float64
	for i := 1; i < c.N(); i++ {
		acc += c.points[i].Sub(c.points[i-1]).Len()
		if acc >= threshold {
			pts = append(pts, c.points[i])
			acc = 0
		}
	}
	r := &Curve{points: pts, closed: c.closed}
	tracer().Infof("reparameterized curve: %d -> %d points", c.N(), r.N())
	return r, nil
}

// Prepare runs the load-time pipeline on a raw curve: cubic subdivision
// followed by arc-length reparameterization with n = ⌊length × scale⌋.
// Scale is the number of points per unit of arc length, so the resulting
// spacing is roughly 1/scale.
func Prepare(c *Curve, subdivisions int, scale float64) (*Curve, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("%w: scale must be positive, is %g", coaster.ErrInvalidInput, scale)
	}
	smooth, err := Subdivide(c, subdivisions)
	if err != nil {
		return nil, err
	}
	n := int(math.Floor(smooth.Length() * scale))
	return Reparameterize(smooth, n)
}
