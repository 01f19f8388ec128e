package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/curve"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameTol = 1e-9

func TestUprightFrame(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f := Upright()
	assert.True(t, f.Orthonormal(frameTol))
	m := f.Orientation()
	assert.Equal(t, mgl64.Vec4{0, 0, 0, 1}, m.Col(3))
	assert.Equal(t, f.Tangent.Vec4(0), m.Col(2))
	assert.Equal(t, f.Normal.Vec4(0), m.Col(1))
	assert.Equal(t, f.Binormal.Vec4(0), m.Col(0))
}

func TestFramesAreOrthonormal(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := testModel(t)
	st := State{FallSpeed: 10}
	ok := 0
	for i := 0; i < trackN; i++ {
		f, err := m.Frame(i, 0.1, st)
		if err != nil {
			require.True(t, errors.Is(err, coaster.ErrNumericDegeneracy), "index %d: %v", i, err)
			continue
		}
		ok++
		if !f.Orthonormal(frameTol) {
			t.Fatalf("frame at %d is not orthonormal: %v", i, f)
		}
		o := f.Orientation()
		assert.InDelta(t, 1.0, math.Abs(o.Det()), 1e-9)
	}
	assert.Greater(t, ok, trackN*9/10)
}

func TestFrameOnLevelRingPointsUp(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := uniformRing(trackN)
	p := testParams()
	p.LiftStart, p.DecelStart = 0, 0 // all lift
	m, err := NewModel(c, p)
	require.NoError(t, err)
	f, err := m.Frame(250, 2, State{})
	require.NoError(t, err)
	assert.True(t, f.Orthonormal(frameTol))
	// centripetal acceleration tilts the normal inwards, gravity dominates
	assert.Greater(t, f.Normal.Y(), 0.9)
	assert.InDelta(t, 0.0, f.Tangent.Y(), 1e-9)
}

func TestFrameQueriesDoNotMutateState(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := testModel(t)
	st := State{FallSpeed: 4}
	_, err := m.Frame(300, 0.1, st)
	require.NoError(t, err)
	assert.Equal(t, 4.0, st.FallSpeed)
	a, err := m.Acceleration(750, 0.1, st)
	require.NoError(t, err)
	b, err := m.Acceleration(750, 0.1, st)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFrameAxesAgree(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := testModel(t)
	st := State{}
	f, err := m.Frame(400, 0.1, st)
	require.NoError(t, err)
	tg, err := m.Tangent(400, 0.1, st)
	require.NoError(t, err)
	b, err := m.Binormal(400, 0.1, st)
	require.NoError(t, err)
	assert.Equal(t, f.Tangent, tg)
	assert.Equal(t, f.Binormal, b)
	n, err := m.Normal(400, 0.1, st)
	require.NoError(t, err)
	// the raw normal lies in the plane spanned by tangent and frame normal
	assert.InDelta(t, 0.0, n.Dot(f.Binormal), 1e-9)
	o, err := m.Orientation(400, 0.1, st)
	require.NoError(t, err)
	assert.Equal(t, f.Orientation(), o)
}

func TestFrameInvalidTimeStep(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := testModel(t)
	for _, dt := range []float64{0, -0.1, math.NaN()} {
		_, err := m.Frame(400, dt, State{})
		assert.True(t, errors.Is(err, coaster.ErrInvalidInput), "dt=%g", dt)
		_, err = m.Velocity(400, dt, State{})
		assert.True(t, errors.Is(err, coaster.ErrInvalidInput), "dt=%g", dt)
	}
	o, err := m.Orientation(400, 0, State{})
	assert.Error(t, err)
	assert.Equal(t, mgl64.Ident4(), o)
}

func TestFrameDegenerateTangent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := testModel(t)
	// the cart does not leave its index within such a tiny time step
	_, err := m.Frame(400, 1e-6, State{})
	assert.True(t, errors.Is(err, coaster.ErrNumericDegeneracy))
}

func TestFrameDegenerateVerticalClimb(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := make([]mgl64.Vec3, trackN)
	for i := range pts {
		pts[i] = mgl64.Vec3{0, float64(i) * 0.01, 0}
	}
	p := testParams()
	p.LiftStart, p.DecelStart, p.LiftSpeed = 0, 0, 1
	m, err := NewModel(curve.New(pts, false), p)
	require.NoError(t, err)
	// constant speed straight up: the normal is parallel to the tangent
	v, err := m.Velocity(100, 0.05, State{})
	require.NoError(t, err)
	assert.True(t, v.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-6))
	_, err = m.Frame(100, 0.05, State{})
	assert.True(t, errors.Is(err, coaster.ErrNumericDegeneracy))
}

func TestFrameDegenerateFreeFall(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// straight down from the peak at index 0, falling all the way
	const n, s, dt = 1024, 1.0 / 16, 0.25
	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		pts[i] = mgl64.Vec3{0, -float64(i) * s, 0}
	}
	p := Params{LiftStart: n - 1, DecelStart: n - 1, Gravity: 8, LiftSpeed: 2}
	m, err := NewModel(curve.New(pts, false), p)
	require.NoError(t, err)
	require.Equal(t, Fall, m.Classify(7))
	// from 7 the cart reaches 21, from there 43: the speed-up matches gravity
	require.Equal(t, 21, m.Advance(7, math.Sqrt(7)+1, dt))
	require.Equal(t, 43, m.Advance(21, math.Sqrt(21)+1, dt))
	acc, err := m.Acceleration(7, dt, State{})
	require.NoError(t, err)
	assert.True(t, acc.ApproxEqualThreshold(mgl64.Vec3{0, -8, 0}, 1e-12), "acceleration is %v", acc)
	tangent, err := m.Tangent(7, dt, State{})
	require.NoError(t, err)
	assert.True(t, tangent.ApproxEqualThreshold(mgl64.Vec3{0, -1, 0}, 1e-12))

	_, err = m.Normal(7, dt, State{})
	assert.True(t, errors.Is(err, coaster.ErrNumericDegeneracy))
	assert.Contains(t, err.Error(), "normal has length")
	_, err = m.Frame(7, dt, State{})
	assert.True(t, errors.Is(err, coaster.ErrNumericDegeneracy))
	assert.Contains(t, err.Error(), "normal has length")
}
