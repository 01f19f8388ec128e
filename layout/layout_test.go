package layout

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/curve"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	f()
}

// circle of diameter 2 around (2,1), level at height h
func circlePlan(h float64) *Plan {
	return Nullplan().
		Knot(coaster.P(1, 1), h).Curve().
		Knot(coaster.P(2, 2), h).Curve().
		Knot(coaster.P(3, 1), h).Curve().
		Knot(coaster.P(2, 0), h).Curve().Cycle()
}

func testplan() *Plan {
	return Nullplan().Knot(coaster.P(1, 1), 0).Curve().Knot(coaster.P(2, 2), 1).
		Curve().Knot(coaster.P(3, 1), 0).Curve().Cycle()
}

func TestSliceEnlargement(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	arr := make([]coaster.Pair, 0)
	arr = extendC(arr, 3, 2+1i)
	assert.Equal(t, coaster.Pair(2+1i), arr[3])
	assert.Equal(t, coaster.Pair(7), getC(arr, 4, 7))
}

func TestCreatePlan(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	plan := testplan()
	assert.Equal(t, 3, plan.N())
	assert.True(t, plan.IsCycle())
	assert.Equal(t, plan.Z(1), plan.Z(plan.N()+1))
	assert.Equal(t, plan.Z(2), plan.Z(-1))
	assert.Equal(t, 1.0, plan.Height(4))
}

func TestAsStringSnapshot(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	want := "(1,1) .. (2,2) .. (3,1) .. (2,0) .. cycle"
	if got := AsString(circlePlan(0), nil); got != want {
		t.Fatalf("AsString mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestSetTension(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	plan := Nullplan().Knot(coaster.P(1, 1), 0).TensionCurve(1.0, 2.0).
		Knot(coaster.P(2, 1), 0).TensionCurve(0.1, 9).
		Knot(coaster.P(2, 2), 0).Straight().Cycle()
	assert.Equal(t, 1.0, plan.PostTension(0))
	assert.Equal(t, 2.0, plan.PreTension(1))
	assert.Equal(t, 0.75, plan.PostTension(1), "clamped to minimum")
	assert.Equal(t, 4.0, plan.PreTension(2), "clamped to maximum")
	assert.Equal(t, 4.0, plan.PostTension(2))
	assert.Equal(t, 4.0, plan.PreTension(0), "closing join belongs to knot 0")
	assert.Equal(t, 4.0, plan.PreTension(3))
}

func TestPsiCycle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	plan := testplan()
	assert.InDelta(t, -90.0, plan.psi(1)/coaster.Deg2Rad, 0.01)
	assert.InDelta(t, -135.0, plan.psi(2)/coaster.Deg2Rad, 0.01)
	assert.InDelta(t, plan.psi(1), plan.psi(plan.N()+1), 1e-12)
	assert.InDelta(t, math.Sqrt(2), plan.d(0), 1e-12)
	assert.Equal(t, coaster.P(1, -1), plan.delta(1))
}

func TestControlsDeterministicSnapshot(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	controls, err := FindControls(circlePlan(0))
	require.NoError(t, err)
	table := []struct {
		got  coaster.Pair
		x, z float64
	}{
		{controls.PostControl(0), 1.0000, 1.5523},
		{controls.PreControl(1), 1.4477, 2.0000},
		{controls.PostControl(2), 3.0000, 0.4477},
		{controls.PreControl(0), 1.0000, 0.4477},
	}
	for i, test := range table {
		if math.Abs(test.got.X()-test.x) > 0.0002 || math.Abs(test.got.Z()-test.z) > 0.0002 {
			t.Errorf("%d) unexpected control point %v, want (%g,%g)", i+1, test.got, test.x, test.z)
		}
	}
}

func TestControlsFollowSimilarityTransforms(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelInfo)
	plan := Demo().Plan
	at := coaster.Rotation(0.3).Combine(coaster.Scaling(2)).Combine(coaster.Translation(coaster.P(5, -3)))
	c1 := MustFindControls(plan)
	c2 := MustFindControls(plan.Transform(at))
	for i := 0; i < plan.N(); i++ {
		want := at.Transform(c1.PostControl(i))
		got := c2.PostControl(i)
		assert.InDelta(t, 0, (want - got).Abs(), 1e-6, "post control %d", i)
		want = at.Transform(c1.PreControl(i))
		got = c2.PreControl(i)
		assert.InDelta(t, 0, (want - got).Abs(), 1e-6, "pre control %d", i)
	}
}

func TestFindControlsRejectsInvalidPlans(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	table := []struct {
		plan *Plan
		err  error
	}{
		{nil, ErrNilPlan},
		{Nullplan().Knot(coaster.P(0, 0), 0).Curve().Knot(coaster.P(1, 0), 0).Curve().Cycle(), ErrTooFewKnots},
		{Nullplan().Knot(coaster.P(0, 0), 0).Curve().Knot(coaster.P(1, 0), 0).Curve().
			Knot(coaster.P(0, 0), 0).Curve().Cycle(), ErrDuplicateTerminalKnot},
		{Nullplan().Knot(coaster.P(0, 0), 0).Curve().Knot(coaster.P(0, 0), 0).Curve().
			Knot(coaster.P(1, 1), 0).Curve().Cycle(), ErrDegenerateSegment},
		{Nullplan().Knot(coaster.P(0, 0), 0).Curve().Knot(coaster.P(1, 0), math.NaN()).Curve().
			Knot(coaster.P(1, 1), 0).Curve().Cycle(), ErrInvalidKnot},
		{Nullplan().Knot(coaster.P(0, 0), 0).Curve().Knot(coaster.P(1, 0), 0).Curve().
			Knot(coaster.P(1, 1), 0), coaster.ErrInvalidInput}, // not closed
	}
	for i, test := range table {
		_, err := FindControls(test.plan)
		if !errors.Is(err, test.err) {
			t.Errorf("%d) expected %v, got %v", i+1, test.err, err)
		}
		if !errors.Is(err, coaster.ErrInvalidInput) {
			t.Errorf("%d) expected error to be an invalid input, got %v", i+1, err)
		}
	}
}

func TestMustFindControlsPanics(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	mustPanic(t, func() { MustFindControls(Nullplan().Knot(coaster.P(0, 0), 0).Cycle()) })
	mustPanic(t, func() { Nullplan().Curve() })
	mustPanic(t, func() { Nullplan().Straight() })
	mustPanic(t, func() { Nullplan().TensionCurve(1.2, 0.9) })
}

func TestSampleCircle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	plan := circlePlan(2)
	controls := MustFindControls(plan)
	c, err := Sample(plan, controls, 0.01)
	require.NoError(t, err)
	assert.True(t, c.IsClosed())
	assert.InDelta(t, 2*math.Pi, c.Length(), 0.01) // Hobby's circle is close to round
	assert.InDelta(t, 1.0, c.At(0).X(), 1e-12)
	assert.InDelta(t, 1.0, c.At(0).Z(), 1e-12)
	for i := 0; i < c.N(); i++ {
		p := c.At(i)
		assert.Equal(t, 2.0, p.Y())
		d := c.At(i + 1).Sub(p).Len()
		if d > 0.015 {
			t.Fatalf("sample %d is %g away from its successor", i, d)
		}
	}
}

func TestSampleBlendsHeights(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	plan := testplan()
	controls := MustFindControls(plan)
	assert.Equal(t, 0.0, Point(plan, controls, 0, 0).Y())
	assert.Equal(t, 0.5, Point(plan, controls, 0, 0.5).Y())
	assert.Equal(t, 1.0, Point(plan, controls, 0, 1).Y())
	c, err := Sample(plan, controls, 0.05)
	require.NoError(t, err)
	h, _, err := curve.Highest(c)
	require.NoError(t, err)
	assert.Equal(t, 1.0, h)
	l, _, err := curve.Lowest(c)
	require.NoError(t, err)
	assert.Equal(t, 0.0, l)
}

func TestSampleRejectsInvalidInput(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	plan := testplan()
	controls := MustFindControls(plan)
	for _, spacing := range []float64{0, -1, math.NaN()} {
		_, err := Sample(plan, controls, spacing)
		assert.True(t, errors.Is(err, coaster.ErrInvalidInput))
	}
	_, err := Sample(plan, nil, 0.1)
	assert.True(t, errors.Is(err, coaster.ErrInvalidInput))
	_, err = KnotFractions(plan, nil)
	assert.True(t, errors.Is(err, coaster.ErrInvalidInput))
}

func TestKnotFractions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	plan := circlePlan(0)
	fr, err := KnotFractions(plan, MustFindControls(plan))
	require.NoError(t, err)
	require.Len(t, fr, 4)
	for i, f := range fr {
		assert.InDelta(t, float64(i)/4, f, 1e-6)
	}
}

func TestDemoLayout(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	demo := Demo()
	require.NoError(t, demo.Validate())
	controls := MustFindControls(demo.Plan)
	lift, brake, err := demo.Landmarks(controls)
	require.NoError(t, err)
	assert.Greater(t, brake, 0.5)
	assert.Greater(t, lift, brake)
	assert.Less(t, lift, 1.0)
	c, err := Sample(demo.Plan, controls, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, 200, c.Length(), 40)
	h, i, err := curve.Highest(c)
	require.NoError(t, err)
	assert.Equal(t, 12.0, h)
	fr, _ := KnotFractions(demo.Plan, controls)
	assert.InDelta(t, fr[1], float64(i)/float64(c.N()), 0.01, "peak sits at knot 1")
	l, _, _ := curve.Lowest(c)
	assert.Equal(t, 1.0, l)
}

func TestLayoutValidate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	demo := Demo()
	demo.Lift, demo.Brake = demo.Brake, demo.Lift
	assert.True(t, errors.Is(demo.Validate(), coaster.ErrInvalidInput))
	demo = Demo()
	demo.Lift = 99
	_, _, err := demo.Landmarks(MustFindControls(demo.Plan))
	assert.True(t, errors.Is(err, coaster.ErrInvalidInput))
}

// Plan a circle of diameter 2 around (2,1). The builder returns a skeleton
// plan, FindControls finds the spline control points for it.
func ExampleFindControls() {
	plan := Nullplan().Knot(coaster.P(1, 1), 0).Curve().Knot(coaster.P(2, 2), 0).Curve().
		Knot(coaster.P(3, 1), 0).Curve().Knot(coaster.P(2, 0), 0).Curve().Cycle()
	fmt.Printf("skeleton plan = %s\n", AsString(plan, nil))
	controls, err := FindControls(plan)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("smooth plan =\n%s\n", AsString(plan, controls))
	// Output:
	// skeleton plan = (1,1) .. (2,2) .. (3,1) .. (2,0) .. cycle
	// smooth plan =
	// (1,1) .. controls (1.0000,1.5523) and (1.4477,2.0000)
	//   .. (2,2) .. controls (2.5523,2.0000) and (3.0000,1.5523)
	//   .. (3,1) .. controls (3.0000,0.4477) and (2.5523,0.0000)
	//   .. (2,0) .. controls (1.4477,0.0000) and (1.0000,0.4477)
	//   .. cycle
}
