package report

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/curve"
	"github.com/npillmayer/coaster/physics"
	"github.com/npillmayer/coaster/ride"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRide(t *testing.T) *ride.Ride {
	t.Helper()
	const n = 1000
	pts := make([]mgl64.Vec3, n)
	for i := range pts {
		s, c := math.Sincos(2 * math.Pi * float64(i) / n)
		pts[i] = mgl64.Vec3{10 * c, 2.5 * (1 + math.Cos(2*math.Pi*float64(i-100)/n)), 10 * s}
	}
	p := physics.Params{LiftStart: 900, DecelStart: 700, LiftCrossover: 10, DecelEndOffset: 20, Gravity: 9.81, LiftSpeed: 2}
	opts := ride.DefaultOptions()
	opts.TimeStep, opts.CarDistance = 0.1, 50
	r, err := ride.New(curve.New(pts, true), p, opts)
	require.NoError(t, err)
	return r
}

func TestCollectLap(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := testRide(t)
	prof, err := Collect(r, 5000, 1)
	require.NoError(t, err)
	require.Greater(t, prof.Len(), 10)
	assert.Equal(t, 1, r.Laps())
	assert.InDelta(t, 0.1, prof.T[0], 1e-12)
	assert.InDelta(t, 0.1*float64(prof.Len()), prof.T[prof.Len()-1], 1e-9)
	assert.Len(t, prof.Height, prof.Len())

	summary := prof.Summary()
	require.Len(t, summary, 3)
	assert.Equal(t, physics.Lift, summary[0].Phase)
	assert.Equal(t, physics.Fall, summary[1].Phase)
	assert.Equal(t, physics.Decelerating, summary[2].Phase)
	assert.Equal(t, 2.0, summary[0].MaxSpeed)
	assert.Greater(t, summary[1].MaxSpeed, summary[0].MaxSpeed)
	total := 0.0
	for _, s := range summary {
		total += s.Duration
	}
	assert.InDelta(t, prof.T[prof.Len()-1]-prof.T[0], total, 1e-9)
}

func TestCollectSteps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	prof, err := Collect(testRide(t), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, prof.Len())
	_, err = Collect(testRide(t), 0, 0)
	assert.True(t, errors.Is(err, coaster.ErrInvalidInput))
}

func TestAdd(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := testRide(t)
	var prof Profile
	for k := 1; k <= 3; k++ {
		snap, err := r.Step()
		require.NoError(t, err)
		prof.Add(0.5*float64(k), snap)
		assert.Equal(t, snap.Speed, prof.Speed[k-1])
		assert.Equal(t, snap.Position.Y(), prof.Height[k-1])
		assert.Equal(t, snap.Phase, prof.Phases[k-1])
	}
	assert.Equal(t, []float64{0.5, 1, 1.5}, prof.T)
	assert.Equal(t, 3, prof.Len())
	collected, err := Collect(testRide(t), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, collected.Speed, prof.Speed)
	assert.Equal(t, collected.Height, prof.Height)
}

func TestFromSamples(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	prof, err := FromSamples([]float64{1, 2, 3}, []float64{2, 4, 1})
	require.NoError(t, err)
	assert.Equal(t, 3, prof.Len())
	assert.Nil(t, prof.Summary(), "no phases, no summary")
	_, err = FromSamples([]float64{1, 2}, []float64{2})
	assert.True(t, errors.Is(err, coaster.ErrInvalidInput))
}

func TestTerminal(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, "no samples\n", Terminal(Profile{}, 40, 5))
	prof, err := Collect(testRide(t), 300, 1)
	require.NoError(t, err)
	out := Terminal(prof, 40, 8)
	t.Logf("\n%s", out)
	assert.Contains(t, out, "speed [m/s] over time")
	assert.Contains(t, out, "Lift")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 8)
}

func TestWritePNG(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	prof, err := Collect(testRide(t), 100, 0)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, prof, 4, 3))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.True(t, errors.Is(WritePNG(&buf, prof, 0, 3), coaster.ErrInvalidInput))
	assert.True(t, errors.Is(WritePNG(&buf, Profile{}, 4, 3), coaster.ErrInvalidInput))
}

func TestSavePNG(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	prof, err := FromSamples([]float64{0, 1, 2, 3}, []float64{1, 3, 2, 0})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "charts", "speed.png")
	require.NoError(t, SavePNG(prof, path, 4, 3))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(100))
}
