/*
Package ride runs the simulation of a train going round a track.

A Ride owns the only mutable state of a simulation: the curve index of the
train and the physics state carried from the fall phase into the brakes.
Both are updated exactly once per call to Step. Everything a renderer or an
audio engine needs per frame is handed out as a Snapshot; a ride itself
neither renders nor plays sounds.

	r, err := ride.New(c, physics.DefaultParams(), ride.DefaultOptions())
	for {
	    snap, err := r.Step()
	    ...
	    draw(snap.Position, snap.Orientation, r.Cars())
	}

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package ride

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/curve"
	"github.com/npillmayer/coaster/physics"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'coaster.ride'
func tracer() tracing.Trace {
	return tracing.Select("coaster.ride")
}

// Options configure a ride.
type Options struct {
	TimeStep      float64 // simulated seconds per step
	SnapTolerance int     // indices below lift start which snap onto it
	CarDistance   int     // curve indices between neighbouring cars
	Cars          int     // number of cars of the train
	CarScale      float64 // uniform scale of a car model
	Audio         AudioOptions
	Stations      Tracking // tracking camera stations, may be empty
}

// DefaultOptions returns the options of the reference ride: three cars,
// one step per frame of about 1/66 s.
func DefaultOptions() Options {
	return Options{
		TimeStep:      0.015,
		SnapTolerance: 2,
		CarDistance:   350,
		Cars:          3,
		CarScale:      0.1,
		Audio:         DefaultAudioOptions(),
	}
}

func (o Options) validate(n int) error {
	if !(o.TimeStep > 0) {
		return fmt.Errorf("%w: time step must be positive, is %g", coaster.ErrInvalidInput, o.TimeStep)
	}
	if o.SnapTolerance < 0 || o.CarDistance < 0 || o.Cars < 1 {
		return fmt.Errorf("%w: snap tolerance %d, car distance %d, cars %d",
			coaster.ErrInvalidInput, o.SnapTolerance, o.CarDistance, o.Cars)
	}
	if (o.Cars-1)*o.CarDistance >= n {
		return fmt.Errorf("%w: train of %d cars does not fit onto %d points",
			coaster.ErrInvalidInput, o.Cars, n)
	}
	return nil
}

// Snapshot is the state of a ride after a step.
type Snapshot struct {
	Step        int           // number of the step, starting at 1
	Lap         int           // number of completed laps
	Index       int           // curve index of the centre car
	Speed       float64       // speed the step was taken with
	Phase       physics.Phase // phase the step was taken in
	Position    mgl64.Vec3    // position of the centre car
	Frame       physics.Frame
	Orientation mgl64.Mat4 // orientation of the centre car, without translation
	Degenerate  bool       // frame could not be computed, last valid frame reused
	Audio       AudioState
}

// Ride is a simulation context. It is not safe for concurrent use.
type Ride struct {
	model *physics.Model
	opts  Options
	index int
	state physics.State
	step  int
	lap   int
	frame physics.Frame // last valid frame
	audio *AudioCues
}

// New creates a ride on a curve, which should have been reparameterized by
// arc length. The train starts at the bottom of the lift hill.
func New(c *curve.Curve, p physics.Params, opts Options) (*Ride, error) {
	m, err := physics.NewModel(c, p)
	if err != nil {
		return nil, err
	}
	return NewWithModel(m, opts)
}

// NewWithModel creates a ride from an existing speed model.
func NewWithModel(m *physics.Model, opts Options) (*Ride, error) {
	if err := opts.validate(m.Curve().N()); err != nil {
		return nil, err
	}
	_, peak := m.Peak()
	r := &Ride{
		model: m,
		opts:  opts,
		index: m.Params().LiftStart,
		frame: physics.Upright(),
		audio: NewAudioCues(opts.Audio, m.Params(), peak),
	}
	if fr, err := m.Frame(r.index, opts.TimeStep, r.state); err == nil {
		r.frame = fr
	}
	tracer().Infof("ride on %s starts at %d", m.Curve(), r.index)
	return r, nil
}

// Model returns the speed model of the ride.
func (r *Ride) Model() *physics.Model {
	return r.model
}

// Options returns the options of the ride.
func (r *Ride) Options() Options {
	return r.opts
}

// Index returns the current curve index of the centre car.
func (r *Ride) Index() int {
	return r.index
}

// State returns the carried physics state.
func (r *Ride) State() physics.State {
	return r.state
}

// Laps returns the number of completed laps.
func (r *Ride) Laps() int {
	return r.lap
}

// Step advances the simulation by one time step: the train is moved at the
// speed of its current position, then framed at its new position.
//
// A degenerate frame is not an error. The last valid frame is reused and the
// snapshot is flagged. Step fails only if no speed can be determined.
func (r *Ride) Step() (Snapshot, error) {
	c, p := r.model.Curve(), r.model.Params()
	from := r.index
	if r.index >= p.LiftStart-r.opts.SnapTolerance && r.index <= p.LiftStart {
		r.index = p.LiftStart
	}
	speed, phase, err := r.model.Speed(r.index, &r.state)
	if err != nil {
		tracer().Errorf("no speed at index %d: %v", r.index, err)
		return Snapshot{}, err
	}
	r.index = r.model.Advance(r.index, speed, r.opts.TimeStep)
	if passes(c.N(), from, r.index, p.LiftStart) {
		r.lap++
	}
	r.step++
	snap := Snapshot{
		Step:     r.step,
		Lap:      r.lap,
		Index:    r.index,
		Speed:    speed,
		Phase:    phase,
		Position: c.At(r.index),
		Audio:    r.audio.Update(r.index),
	}
	snap.Frame, snap.Degenerate, err = r.frameAt(r.index)
	if err != nil {
		return snap, err
	}
	snap.Orientation = snap.Frame.Orientation()
	return snap, nil
}

// frameAt computes the frame at index i and remembers it as the last valid
// frame. On numeric degeneracy, the last valid frame is returned and flagged
// as degenerate.
func (r *Ride) frameAt(i int) (physics.Frame, bool, error) {
	fr, degenerate, err := r.peekFrame(i)
	if err == nil && !degenerate {
		r.frame = fr
	}
	return fr, degenerate, err
}

// peekFrame is frameAt without touching the state of the ride.
func (r *Ride) peekFrame(i int) (physics.Frame, bool, error) {
	fr, err := r.model.Frame(i, r.opts.TimeStep, r.state)
	if err != nil {
		if errors.Is(err, coaster.ErrNumericDegeneracy) {
			tracer().Debugf("degenerate frame at %d: %v", i, err)
			return r.frame, true, nil
		}
		return r.frame, false, err
	}
	return fr, false, nil
}

// passes is a predicate: does a move from index 'from' to index 'to' on a
// closed curve of n points pass mark? Arriving on mark counts, leaving it
// does not.
func passes(n, from, to, mark int) bool {
	dist := func(a, b int) int { return ((b-a)%n + n) % n }
	d := dist(from, mark)
	return d > 0 && d <= dist(from, to)
}

// Run performs steps until fn returns false or an error occurs. Steps with
// a non-positive count run until stopped by fn.
func (r *Ride) Run(steps int, fn func(Snapshot) bool) error {
	for k := 0; steps <= 0 || k < steps; k++ {
		snap, err := r.Step()
		if err != nil {
			return err
		}
		if fn != nil && !fn(snap) {
			return nil
		}
	}
	return nil
}
