package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/curve"
)

// State is the simulation state carried between consecutive speed queries.
// The speed computed during free fall is the starting point of the linear
// deceleration.
type State struct {
	FallSpeed float64 // last speed computed in phase Fall
}

// Model is the speed model of a cart on a given track. A model does not
// hold any mutable state; the caller passes the carried State explicitly.
//
// The track curve is treated as immutable, hence the model caches the height
// and index of the peak and the positions of the deceleration landmarks.
type Model struct {
	curve       *curve.Curve
	params      Params
	maxHeight   float64
	maxIndex    int
	spacing     float64
	decelStart  mgl64.Vec3
	decelEnd    mgl64.Vec3
	decelLength float64
}

// NewModel creates a speed model for a curve. The curve should have been
// reparameterized by arc length, as position advancing assumes uniform
// spacing of points.
func NewModel(c *curve.Curve, p Params) (*Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(c.N()); err != nil {
		return nil, err
	}
	m := &Model{curve: c, params: p, spacing: c.Spacing()}
	var err error
	if m.maxHeight, m.maxIndex, err = curve.Highest(c); err != nil {
		return nil, err
	}
	m.decelStart = c.At(p.DecelStart)
	m.decelEnd = c.At(p.LiftStart + p.DecelEndOffset)
	m.decelLength = m.decelStart.Sub(m.decelEnd).Len()
	tracer().Infof("speed model for %s: peak %.4g at %d, braking %d..%d",
		c, m.maxHeight, m.maxIndex, p.DecelStart, c.Wrap(p.LiftStart+p.DecelEndOffset))
	return m, nil
}

// Curve returns the track curve of the model.
func (m *Model) Curve() *curve.Curve {
	return m.curve
}

// Params returns the landmark parameters of the model.
func (m *Model) Params() Params {
	return m.params
}

// Peak returns height and index of the highest point of the track.
func (m *Model) Peak() (float64, int) {
	return m.maxHeight, m.maxIndex
}

// Classify determines the phase at curve index i (taken modulo N).
func (m *Model) Classify(i int) Phase {
	return classify(m.params, m.maxIndex, m.curve.Wrap(i))
}

// Speed computes the speed of the cart at index i (taken modulo N) and the
// phase it is in.
//
// In phase Fall the computed speed is stored in st, where it is picked up by
// subsequent queries in phase Decelerating. If st is nil, a zero state is
// used and nothing is carried over.
//
// Speed fails with ErrNumericDegeneracy if the deceleration section has zero
// length.
func (m *Model) Speed(i int, st *State) (float64, Phase, error) {
	if st == nil {
		st = &State{}
	}
	i = m.curve.Wrap(i)
	phase := classify(m.params, m.maxIndex, i)
	pos := m.curve.At(i)
	var speed float64
	switch phase {
	case Lift:
		speed = m.params.LiftSpeed
	case Fall:
		// the extra half lift speed stands in for the momentum off the chain
		speed = freefallSpeed(m.params.Gravity, m.maxHeight, pos.Y()) + m.params.LiftSpeed/2
		st.FallSpeed = speed
	case Decelerating:
		if coaster.Is0(m.decelLength) {
			return 0, phase, fmt.Errorf("%w: deceleration section has zero length", coaster.ErrNumericDegeneracy)
		}
		speed = st.FallSpeed * pos.Sub(m.decelEnd).Len() / m.decelLength
	}
	return speed, phase, nil
}

// freefallSpeed is the speed after falling from height maxH to h, by
// conservation of energy.
func freefallSpeed(g, maxH, h float64) float64 {
	return math.Sqrt(2 * g * math.Max(0, maxH-h))
}

// Advance computes the curve index a cart reaches from index cur, travelling
// at speed for a time step dt.
func (m *Model) Advance(cur int, speed, dt float64) int {
	return advance(m.curve.N(), m.spacing, cur, speed, dt)
}

// Advance computes the curve index a cart reaches from index cur, travelling
// at speed for a time step dt.
//
// Points are assumed to be spaced uniformly by the average spacing of c,
// which holds for reparameterized curves. The distance travelled is truncated
// to whole index steps, so up to one step's worth of distance is lost per
// call. The result is always a valid index; it wraps around the end of the
// curve. A speed or time step that is not positive leaves the index unchanged.
func Advance(c *curve.Curve, cur int, speed, dt float64) int {
	return advance(c.N(), c.Spacing(), cur, speed, dt)
}

func advance(n int, spacing float64, cur int, speed, dt float64) int {
	if n == 0 {
		return 0
	}
	wrap := func(i int) int {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	if spacing <= 0 || !(speed > 0) || !(dt > 0) {
		return wrap(cur)
	}
	ds := speed * dt
	if math.IsInf(ds, 1) {
		return wrap(cur)
	}
	steps := math.Floor(ds / spacing)
	return wrap(cur + int(math.Mod(steps, float64(n))))
}
