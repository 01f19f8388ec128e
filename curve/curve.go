// Package curve holds the track curve: an ordered sequence of 3D points with
// closed-loop index semantics.
//
// A curve is built once, from a file or procedurally, prepared once (see
// Prepare) and then treated as immutable for the rest of a run. All
// functions in this package return new curves rather than modifying their
// arguments.
package curve

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'coaster.curve'
func tracer() tracing.Trace {
	return tracing.Select("coaster.curve")
}

// Curve is an ordered sequence of 3D points. Indices wrap modulo the point
// count. Y is the vertical axis.
type Curve struct {
	points []mgl64.Vec3
	closed bool
}

// New creates a curve from a sequence of points. The points are copied.
func New(points []mgl64.Vec3, closed bool) *Curve {
	c := &Curve{
		points: make([]mgl64.Vec3, len(points)),
		closed: closed,
	}
	copy(c.points, points)
	return c
}

// N returns the point count.
func (c *Curve) N() int {
	if c == nil {
		return 0
	}
	return len(c.points)
}

// IsClosed is a predicate: does the last point connect back to the first?
func (c *Curve) IsClosed() bool {
	return c.closed
}

// Wrap maps any index, including negative ones, into [0,N).
// Wrap panics for an empty curve.
func (c *Curve) Wrap(i int) int {
	n := len(c.points)
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// At returns the point at position (i mod N).
func (c *Curve) At(i int) mgl64.Vec3 {
	return c.points[c.Wrap(i)]
}

// Points returns a copy of the point sequence.
func (c *Curve) Points() []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, len(c.points))
	copy(pts, c.points)
	return pts
}

// Length is the arc length of the curve, i.e. the sum of distances between
// consecutive points. For closed curves the segment from the last point back
// to the first is included.
func (c *Curve) Length() float64 {
	n := c.N()
	if n < 2 {
		return 0
	}
	var l float64
	for i := 1; i < n; i++ {
		l += c.points[i].Sub(c.points[i-1]).Len()
	}
	if c.closed {
		l += c.points[0].Sub(c.points[n-1]).Len()
	}
	return l
}

// Spacing is the average distance between consecutive points. It is the
// distance a single index step covers on a reparameterized curve.
func (c *Curve) Spacing() float64 {
	if c.N() == 0 {
		return 0
	}
	return c.Length() / float64(c.N())
}

// Validate checks that the curve can take part in geometric operations:
// at least two points, all of them finite.
func (c *Curve) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: curve is nil", coaster.ErrInvalidInput)
	}
	if n := c.N(); n < 2 {
		return fmt.Errorf("%w: curve needs at least 2 points, has %d", coaster.ErrInvalidInput, n)
	}
	for i, p := range c.points {
		for _, x := range p {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("%w: point %d has invalid coordinate", coaster.ErrInvalidInput, i)
			}
		}
	}
	return nil
}

// String returns a short description of the curve, for debugging.
func (c *Curve) String() string {
	if c.N() == 0 {
		return "curve[]"
	}
	kind := "open"
	if c.closed {
		kind = "closed"
	}
	return fmt.Sprintf("curve[%s, n=%d, length=%.4g]", kind, c.N(), c.Length())
}
