package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/physics"
	"github.com/npillmayer/coaster/ride"
	"github.com/npillmayer/coaster/track"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "", s.Track.File)
	assert.Equal(t, 1000.0, s.Track.Scale)
	assert.Equal(t, -1, s.Physics.LiftStart)
	assert.Equal(t, 150, s.Physics.LiftCrossover)
	assert.Equal(t, ride.DefaultOptions(), s.RideOptions())
	assert.Equal(t, track.DefaultRailOptions(), s.RailOptions())
	assert.Equal(t, track.DefaultSupportOptions(), s.SupportOptions())
	assert.True(t, s.Telemetry.Enabled)
	assert.Equal(t, 500, s.Telemetry.BatchSize)
	assert.Equal(t, 1, s.Ride.Laps)
	assert.Equal(t, s, Default())
}

func TestLoadYAML(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := writeConfig(t, "coaster.yaml", `
logLevel: debug
track:
  file: tracks/reference.txt
  subdivisions: 2
physics:
  liftStart: 168000
  decelStart: 140000
ride:
  cars: 5
supports:
  skip:
    - from: 22000
      to: 25500
  zones:
    - {minX: -1, minZ: -1, maxX: 1, maxZ: 1}
`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "tracks/reference.txt", s.Track.File)
	assert.Equal(t, 2, s.Track.Subdivisions)
	assert.Equal(t, 1000.0, s.Track.Scale, "defaults fill in missing keys")
	assert.Equal(t, 5, s.RideOptions().Cars)
	assert.Equal(t, 350, s.RideOptions().CarDistance)

	p, err := s.Physics(180000)
	require.NoError(t, err)
	assert.Equal(t, physics.DefaultParams(), p)

	opts := s.SupportOptions()
	assert.Equal(t, []track.Range{{From: 22000, To: 25500}}, opts.SkipRanges)
	require.Len(t, opts.Zones, 1)
	assert.True(t, track.Exclude(opts.Zones...).Contains(coaster.P(0, 0)))
}

func TestLoadJSON(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := writeConfig(t, "coaster.json", `{
		"physics": { "liftAt": 0.5, "decelAt": 0.25, "gravity": 1.62 },
		"audio": { "enabled": false },
		"telemetry": { "dsn": "ride.db", "every": 1 }
	}`)
	s, err := Load(path)
	require.NoError(t, err)
	p, err := s.Physics(1000)
	require.NoError(t, err)
	assert.Equal(t, 500, p.LiftStart)
	assert.Equal(t, 250, p.DecelStart)
	assert.Equal(t, 1.62, p.Gravity)
	assert.False(t, s.RideOptions().Audio.Enabled)
	assert.Equal(t, "ride.db", s.Telemetry.DSN)
	assert.Equal(t, 1, s.Telemetry.Every)
}

func TestLoadMissingFile(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Load("/nonexistent/coaster.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestPhysicsLandmarks(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	table := []struct {
		liftStart int
		liftAt    float64
		lift      int
		valid     bool
	}{
		{-1, 0.93, 930, true},
		{-1, 0, 0, true},
		{42, 0.93, 42, true}, // index wins
		{-1, 1, 0, false},
		{-1, -0.1, 0, false},
		{1000, 0, 0, false}, // out of range
	}
	for i, test := range table {
		s := Default()
		s.Physics.LiftStart = test.liftStart
		s.Physics.LiftAt = test.liftAt
		p, err := s.Physics(1000)
		if !test.valid {
			assert.True(t, errors.Is(err, coaster.ErrInvalidInput), "%d) expected invalid input", i+1)
			continue
		}
		require.NoError(t, err, "%d)", i+1)
		assert.Equal(t, test.lift, p.LiftStart, "%d)", i+1)
		assert.Equal(t, 780, p.DecelStart, "%d)", i+1)
	}
}
