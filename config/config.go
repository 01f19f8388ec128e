/*
Package config loads the settings of a coaster run.

Settings are read with viper from a JSON, YAML or TOML file, the format
chosen by file extension. Every key has a default, so a file need only
contain what deviates from them, and an empty path yields the defaults:

	s, err := config.Load("coaster.yaml")
	...
	p, err := s.Physics(c.N())

Landmarks of the track may be given as curve indices or as fractions of the
track length. Indices win if both are present; fractions are resolved
against the point count of the prepared curve.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package config

import (
	"fmt"
	"math"

	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/physics"
	"github.com/npillmayer/coaster/ride"
	"github.com/npillmayer/coaster/track"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/viper"
)

// tracer writes to trace with key 'coaster.config'
func tracer() tracing.Trace {
	return tracing.Select("coaster.config")
}

// Settings is the complete configuration of a run.
type Settings struct {
	LogLevel  string            `mapstructure:"logLevel"`
	Track     TrackSettings     `mapstructure:"track"`
	Physics   PhysicsSettings   `mapstructure:"physics"`
	Ride      RideSettings      `mapstructure:"ride"`
	Audio     AudioSettings     `mapstructure:"audio"`
	Rails     RailSettings      `mapstructure:"rails"`
	Supports  SupportSettings   `mapstructure:"supports"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
	Report    ReportSettings    `mapstructure:"report"`
}

// TrackSettings select the track curve. Without a file, the built-in demo
// layout is sampled.
type TrackSettings struct {
	File         string  `mapstructure:"file"`
	Subdivisions int     `mapstructure:"subdivisions"`
	Scale        float64 `mapstructure:"scale"`   // points per unit of arc length
	Spacing      float64 `mapstructure:"spacing"` // sampling distance for the demo layout
}

// PhysicsSettings hold the landmarks and constants of the speed model.
// An index of -1 means the corresponding fraction is used.
type PhysicsSettings struct {
	LiftStart      int     `mapstructure:"liftStart"`
	DecelStart     int     `mapstructure:"decelStart"`
	LiftAt         float64 `mapstructure:"liftAt"`
	DecelAt        float64 `mapstructure:"decelAt"`
	LiftCrossover  int     `mapstructure:"liftCrossover"`
	DecelEndOffset int     `mapstructure:"decelEndOffset"`
	Gravity        float64 `mapstructure:"gravity"`
	LiftSpeed      float64 `mapstructure:"liftSpeed"`
}

// RideSettings configure the simulation loop and the train.
type RideSettings struct {
	TimeStep      float64 `mapstructure:"timeStep"`
	SnapTolerance int     `mapstructure:"snapTolerance"`
	CarDistance   int     `mapstructure:"carDistance"`
	Cars          int     `mapstructure:"cars"`
	CarScale      float64 `mapstructure:"carScale"`
	Steps         int     `mapstructure:"steps"` // 0 runs until Laps are done
	Laps          int     `mapstructure:"laps"`
}

// AudioSettings configure the sound cues.
type AudioSettings struct {
	Enabled  bool    `mapstructure:"enabled"`
	Volume   float64 `mapstructure:"volume"`
	LiftFade int     `mapstructure:"liftFade"`
	RoarFade int     `mapstructure:"roarFade"`
}

// RailSettings configure the rail ribbon.
type RailSettings struct {
	Granularity int     `mapstructure:"granularity"`
	Width       float64 `mapstructure:"width"`
}

// SupportSettings configure the support beams.
type SupportSettings struct {
	Granularity int          `mapstructure:"granularity"`
	Ground      float64      `mapstructure:"ground"`
	Lean        float64      `mapstructure:"lean"`
	Skip        []SkipRange  `mapstructure:"skip"`
	Zones       []BoxSetting `mapstructure:"zones"`
}

// SkipRange is a range of curve indices without supports.
type SkipRange struct {
	From int `mapstructure:"from"`
	To   int `mapstructure:"to"`
}

// BoxSetting is an axis-aligned exclusion zone in the plan view.
type BoxSetting struct {
	MinX float64 `mapstructure:"minX"`
	MinZ float64 `mapstructure:"minZ"`
	MaxX float64 `mapstructure:"maxX"`
	MaxZ float64 `mapstructure:"maxZ"`
}

// TelemetrySettings configure the telemetry recorder. An empty DSN records
// into an in-memory database.
type TelemetrySettings struct {
	Enabled   bool   `mapstructure:"enabled"`
	DSN       string `mapstructure:"dsn"`
	BatchSize int    `mapstructure:"batchSize"`
	Every     int    `mapstructure:"every"` // record every n-th step
}

// ReportSettings configure the speed-profile charts.
type ReportSettings struct {
	PNG            string  `mapstructure:"png"`
	Width          float64 `mapstructure:"width"`  // inches
	Height         float64 `mapstructure:"height"` // inches
	TerminalWidth  int     `mapstructure:"terminalWidth"`
	TerminalHeight int     `mapstructure:"terminalHeight"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("track.file", "")
	v.SetDefault("track.subdivisions", 4)
	v.SetDefault("track.scale", 1000.0)
	v.SetDefault("track.spacing", 0.001)

	p := physics.DefaultParams()
	v.SetDefault("physics.liftStart", -1)
	v.SetDefault("physics.decelStart", -1)
	v.SetDefault("physics.liftAt", 0.93)
	v.SetDefault("physics.decelAt", 0.78)
	v.SetDefault("physics.liftCrossover", p.LiftCrossover)
	v.SetDefault("physics.decelEndOffset", p.DecelEndOffset)
	v.SetDefault("physics.gravity", p.Gravity)
	v.SetDefault("physics.liftSpeed", p.LiftSpeed)

	r := ride.DefaultOptions()
	v.SetDefault("ride.timeStep", r.TimeStep)
	v.SetDefault("ride.snapTolerance", r.SnapTolerance)
	v.SetDefault("ride.carDistance", r.CarDistance)
	v.SetDefault("ride.cars", r.Cars)
	v.SetDefault("ride.carScale", r.CarScale)
	v.SetDefault("ride.steps", 0)
	v.SetDefault("ride.laps", 1)

	v.SetDefault("audio.enabled", r.Audio.Enabled)
	v.SetDefault("audio.volume", r.Audio.Volume)
	v.SetDefault("audio.liftFade", r.Audio.LiftFade)
	v.SetDefault("audio.roarFade", r.Audio.RoarFade)

	rails := track.DefaultRailOptions()
	v.SetDefault("rails.granularity", rails.Granularity)
	v.SetDefault("rails.width", rails.Width)

	sup := track.DefaultSupportOptions()
	v.SetDefault("supports.granularity", sup.Granularity)
	v.SetDefault("supports.ground", sup.Ground)
	v.SetDefault("supports.lean", sup.Lean)
	v.SetDefault("supports.skip", []SkipRange{})
	v.SetDefault("supports.zones", []BoxSetting{})

	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.dsn", "")
	v.SetDefault("telemetry.batchSize", 500)
	v.SetDefault("telemetry.every", 10)

	v.SetDefault("report.png", "")
	v.SetDefault("report.width", 8.0)
	v.SetDefault("report.height", 4.0)
	v.SetDefault("report.terminalWidth", 70)
	v.SetDefault("report.terminalHeight", 12)
}

// Default returns the default settings.
func Default() Settings {
	s, err := Load("")
	if err != nil { // defaults always unmarshal
		panic(err)
	}
	return s
}

// Load reads settings from a config file. Keys missing from the file take
// their defaults. An empty path yields the defaults.
func Load(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
		tracer().Infof("settings read from %s", v.ConfigFileUsed())
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return s, nil
}

// Physics resolves the physics settings against a curve of n points.
func (s Settings) Physics(n int) (physics.Params, error) {
	ps := s.Physics
	lift, err := landmark("lift start", ps.LiftStart, ps.LiftAt, n)
	if err != nil {
		return physics.Params{}, err
	}
	decel, err := landmark("deceleration start", ps.DecelStart, ps.DecelAt, n)
	if err != nil {
		return physics.Params{}, err
	}
	p := physics.Params{
		LiftStart:      lift,
		DecelStart:     decel,
		LiftCrossover:  ps.LiftCrossover,
		DecelEndOffset: ps.DecelEndOffset,
		Gravity:        ps.Gravity,
		LiftSpeed:      ps.LiftSpeed,
	}
	return p, p.Validate(n)
}

func landmark(name string, index int, fraction float64, n int) (int, error) {
	if index >= 0 {
		return index, nil
	}
	if fraction < 0 || fraction >= 1 || math.IsNaN(fraction) {
		return 0, fmt.Errorf("%w: %s at %g is not a fraction of the track", coaster.ErrInvalidInput, name, fraction)
	}
	return int(math.Floor(fraction * float64(n))), nil
}

// RideOptions converts ride and audio settings. Tracking stations are left
// to the caller, as they depend on the track.
func (s Settings) RideOptions() ride.Options {
	return ride.Options{
		TimeStep:      s.Ride.TimeStep,
		SnapTolerance: s.Ride.SnapTolerance,
		CarDistance:   s.Ride.CarDistance,
		Cars:          s.Ride.Cars,
		CarScale:      s.Ride.CarScale,
		Audio: ride.AudioOptions{
			Enabled:  s.Audio.Enabled,
			Volume:   s.Audio.Volume,
			LiftFade: s.Audio.LiftFade,
			RoarFade: s.Audio.RoarFade,
		},
	}
}

// RailOptions converts the rail settings.
func (s Settings) RailOptions() track.RailOptions {
	return track.RailOptions{Granularity: s.Rails.Granularity, Width: s.Rails.Width}
}

// SupportOptions converts the support settings.
func (s Settings) SupportOptions() track.SupportOptions {
	opts := track.SupportOptions{
		Granularity: s.Supports.Granularity,
		Ground:      s.Supports.Ground,
		Lean:        s.Supports.Lean,
	}
	for _, r := range s.Supports.Skip {
		opts.SkipRanges = append(opts.SkipRanges, track.Range{From: r.From, To: r.To})
	}
	for _, b := range s.Supports.Zones {
		opts.Zones = append(opts.Zones, track.Box(coaster.P(b.MinX, b.MinZ), coaster.P(b.MaxX, b.MaxZ)))
	}
	return opts
}
