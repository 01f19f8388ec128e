package curve

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
)

// Subdivide smooths a curve by repeated cubic B-spline subdivision
// (Lane–Riesenfeld). Every iteration doubles the number of segments:
// each point P.i is replaced by (P.i-1 + 6 P.i + P.i+1)/8 and a new point
// (P.i + P.i+1)/2 is inserted after it.
//
// Closed curves wrap around. Open curves keep their first and last point.
// Zero iterations return a copy of c.
func Subdivide(c *Curve, iterations int) (*Curve, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if iterations < 0 {
		return nil, fmt.Errorf("%w: negative subdivision count %d", coaster.ErrInvalidInput, iterations)
	}
	pts := c.Points()
	for k := 0; k < iterations; k++ {
		if c.closed {
			pts = subdivideClosed(pts)
		} else {
			pts = subdivideOpen(pts)
		}
	}
	tracer().Debugf("subdivided curve %d times: %d -> %d points", iterations, c.N(), len(pts))
	return &Curve{points: pts, closed: c.closed}, nil
}

func subdivideClosed(pts []mgl64.Vec3) []mgl64.Vec3 {
	n := len(pts)
	out := make([]mgl64.Vec3, 0, 2*n)
	for i := 0; i < n; i++ {
		prev, cur, next := pts[(i+n-1)%n], pts[i], pts[(i+1)%n]
		out = append(out, vertexPoint(prev, cur, next), midPoint(cur, next))
	}
	return out
}

func subdivideOpen(pts []mgl64.Vec3) []mgl64.Vec3 {
	n := len(pts)
	out := make([]mgl64.Vec3, 0, 2*n-1)
	out = append(out, pts[0])
	for i := 0; i < n-1; i++ {
		if i > 0 {
			out = append(out, vertexPoint(pts[i-1], pts[i], pts[i+1]))
		}
		out = append(out, midPoint(pts[i], pts[i+1]))
	}
	return append(out, pts[n-1])
}

func vertexPoint(prev, cur, next mgl64.Vec3) mgl64.Vec3 {
	return prev.Add(cur.Mul(6)).Add(next).Mul(1.0 / 8.0)
}

func midPoint(a, b mgl64.Vec3) mgl64.Vec3 {
	return a.Add(b).Mul(0.5)
}
