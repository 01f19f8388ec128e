package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
)

// Frame is an orthonormal frame along the track: the direction of travel,
// the track's "up" and the axis across the rails.
type Frame struct {
	Tangent  mgl64.Vec3
	Normal   mgl64.Vec3
	Binormal mgl64.Vec3
}

// Upright is the frame of a cart travelling along +z on level track. It
// serves as a fallback if no frame could be computed yet.
func Upright() Frame {
	t, n := mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0}
	return Frame{Tangent: t, Normal: n, Binormal: t.Cross(n)}
}

// Orientation returns the frame as a 4×4 matrix with columns binormal,
// normal and tangent and without translation. Callers apply the position of
// the cart separately.
func (f Frame) Orientation() mgl64.Mat4 {
	return mgl64.Mat3FromCols(f.Binormal, f.Normal, f.Tangent).Mat4()
}

// Orthonormal is a predicate: are all axes of unit length and pairwise
// perpendicular, within tolerance tol?
func (f Frame) Orthonormal(tol float64) bool {
	for _, v := range []mgl64.Vec3{f.Tangent, f.Normal, f.Binormal} {
		if math.Abs(v.Len()-1) > tol {
			return false
		}
	}
	return math.Abs(f.Tangent.Dot(f.Normal)) <= tol &&
		math.Abs(f.Tangent.Dot(f.Binormal)) <= tol &&
		math.Abs(f.Normal.Dot(f.Binormal)) <= tol
}

// --- Finite differences ----------------------------------------------------

// All frame queries take the carried state by value: looking ahead along the
// track must not disturb the state of the ride.

func checkTimeStep(dt float64) error {
	if !(dt > 0) {
		return fmt.Errorf("%w: time step must be positive, is %g", coaster.ErrInvalidInput, dt)
	}
	return nil
}

// next is the index the cart reaches from i within one time step.
func (m *Model) next(i int, dt float64, st *State) (int, error) {
	v, _, err := m.Speed(i, st)
	if err != nil {
		return i, err
	}
	return m.Advance(i, v, dt), nil
}

func (m *Model) velocity(i int, dt float64, st *State) (mgl64.Vec3, error) {
	j, err := m.next(i, dt, st)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return m.curve.At(j).Sub(m.curve.At(i)).Mul(1 / dt), nil
}

// Velocity is the finite difference of position between index i and the
// index one time step ahead.
func (m *Model) Velocity(i int, dt float64, st State) (mgl64.Vec3, error) {
	if err := checkTimeStep(dt); err != nil {
		return mgl64.Vec3{}, err
	}
	return m.velocity(i, dt, &st)
}

// Acceleration is the finite difference of velocity between index i and
// the index one time step ahead. Being a difference of differences, it is
// sensitive to dt and to the truncation of Advance; it is the main source of
// jitter in the frames.
func (m *Model) Acceleration(i int, dt float64, st State) (mgl64.Vec3, error) {
	if err := checkTimeStep(dt); err != nil {
		return mgl64.Vec3{}, err
	}
	j, err := m.next(i, dt, &st)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	vnext, err := m.velocity(j, dt, &st)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	vcur, err := m.velocity(i, dt, &st)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return vnext.Sub(vcur).Mul(1 / dt), nil
}

// --- Frame axes ------------------------------------------------------------

// Tangent is the unit direction from index i towards the index one time
// step ahead.
func (m *Model) Tangent(i int, dt float64, st State) (mgl64.Vec3, error) {
	if err := checkTimeStep(dt); err != nil {
		return mgl64.Vec3{}, err
	}
	j, err := m.next(i, dt, &st)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return normalize(m.curve.At(j).Sub(m.curve.At(i)), "tangent")
}

// Normal is the unit direction of acceleration plus gravity compensation,
// i.e. of the force the rails exert onto the cart. It is not yet
// orthogonal to the tangent; Frame takes care of that.
func (m *Model) Normal(i int, dt float64, st State) (mgl64.Vec3, error) {
	acc, err := m.Acceleration(i, dt, st)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return normalize(acc.Add(mgl64.Vec3{0, m.params.Gravity, 0}), "normal")
}

// Binormal is the unit vector across the rails, tangent × normal.
func (m *Model) Binormal(i int, dt float64, st State) (mgl64.Vec3, error) {
	f, err := m.Frame(i, dt, st)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return f.Binormal, nil
}

// Frame computes the orthonormal frame at index i. The normal is
// re-derived from binormal and tangent, which makes the frame orthonormal
// regardless of how well the finite differences behave.
//
// Frame fails with ErrNumericDegeneracy if the cart would not move within
// dt, if acceleration and gravity cancel out, or if the normal is parallel
// to the tangent. Callers are expected to substitute a fallback frame, e.g.
// the last valid one.
func (m *Model) Frame(i int, dt float64, st State) (Frame, error) {
	t, err := m.Tangent(i, dt, st)
	if err != nil {
		return Frame{}, err
	}
	n, err := m.Normal(i, dt, st)
	if err != nil {
		return Frame{}, err
	}
	b, err := normalize(t.Cross(n), "binormal")
	if err != nil {
		return Frame{}, err
	}
	n = b.Cross(t)
	return Frame{Tangent: t, Normal: n, Binormal: b}, nil
}

// Orientation is the orientation matrix of the frame at index i, see
// Frame.Orientation.
func (m *Model) Orientation(i int, dt float64, st State) (mgl64.Mat4, error) {
	f, err := m.Frame(i, dt, st)
	if err != nil {
		return mgl64.Ident4(), err
	}
	return f.Orientation(), nil
}

func normalize(v mgl64.Vec3, what string) (mgl64.Vec3, error) {
	l := v.Len()
	if coaster.Is0(l) || math.IsNaN(l) {
		return mgl64.Vec3{}, fmt.Errorf("%w: %s has length %g", coaster.ErrNumericDegeneracy, what, l)
	}
	return v.Mul(1 / l), nil
}
