/*
Package report charts the speed profile of a ride.

A Profile is collected either by running a ride or from recorded telemetry.
It may then be rendered to a PNG with gonum/plot or as a chart on the
terminal:

	prof, err := report.Collect(r, 0, 1)
	err = report.SavePNG(prof, "speed.png", 8, 4)
	fmt.Println(report.Terminal(prof, 70, 12))

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/physics"
	"github.com/npillmayer/coaster/ride"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'coaster.report'
func tracer() tracing.Trace {
	return tracing.Select("coaster.report")
}

// Profile is speed and height of the train over simulated time.
// Phases may be empty for profiles read from telemetry.
type Profile struct {
	T      []float64
	Speed  []float64
	Height []float64
	Phases []physics.Phase
}

// Len returns the number of samples.
func (p Profile) Len() int {
	return len(p.T)
}

// Add appends the sample of a ride snapshot taken at time t.
func (p *Profile) Add(t float64, snap ride.Snapshot) {
	p.T = append(p.T, t)
	p.Speed = append(p.Speed, snap.Speed)
	p.Height = append(p.Height, snap.Position.Y())
	p.Phases = append(p.Phases, snap.Phase)
}

// Collect runs a ride and records its profile. It stops after the given
// number of laps has been completed or, if steps is positive, after that
// many steps, whichever comes first. At least one of them must be positive.
func Collect(r *ride.Ride, steps, laps int) (Profile, error) {
	if steps <= 0 && laps <= 0 {
		return Profile{}, fmt.Errorf("%w: neither steps nor laps limit the ride", coaster.ErrInvalidInput)
	}
	var prof Profile
	dt := r.Options().TimeStep
	err := r.Run(steps, func(snap ride.Snapshot) bool {
		prof.Add(float64(snap.Step)*dt, snap)
		return laps <= 0 || snap.Lap < laps
	})
	tracer().Debugf("collected %d samples", prof.Len())
	return prof, err
}

// FromSamples creates a profile from time and speed series, e.g. as read
// from telemetry.
func FromSamples(t, speed []float64) (Profile, error) {
	if len(t) != len(speed) {
		return Profile{}, fmt.Errorf("%w: %d times for %d speeds", coaster.ErrInvalidInput, len(t), len(speed))
	}
	return Profile{T: append([]float64(nil), t...), Speed: append([]float64(nil), speed...)}, nil
}

// PhaseSummary sums up the samples of a profile within a phase.
type PhaseSummary struct {
	Phase    physics.Phase
	Duration float64 // simulated time spent in the phase
	MaxSpeed float64
}

// Summary sums up the profile per phase, in the order the phases are passed
// during a lap. Phases without samples are left out.
func (p Profile) Summary() []PhaseSummary {
	if len(p.Phases) != p.Len() {
		return nil
	}
	sums := make(map[physics.Phase]*PhaseSummary)
	for i, ph := range p.Phases {
		s, ok := sums[ph]
		if !ok {
			s = &PhaseSummary{Phase: ph}
			sums[ph] = s
		}
		if i > 0 {
			s.Duration += p.T[i] - p.T[i-1]
		}
		s.MaxSpeed = math.Max(s.MaxSpeed, p.Speed[i])
	}
	var summary []PhaseSummary
	for _, ph := range []physics.Phase{physics.Lift, physics.Fall, physics.Decelerating} {
		if s, ok := sums[ph]; ok {
			summary = append(summary, *s)
		}
	}
	return summary
}

// Terminal renders the speed profile as a chart of width × height
// characters for the terminal, followed by the phase summary.
func Terminal(p Profile, width, height int) string {
	if p.Len() == 0 {
		return "no samples\n"
	}
	var b strings.Builder
	b.WriteString(asciigraph.Plot(p.Speed,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(1),
		asciigraph.Caption("speed [m/s] over time"),
	))
	b.WriteString("\n")
	for _, s := range p.Summary() {
		fmt.Fprintf(&b, "%-13s %8.2f s   max %6.2f m/s\n", s.Phase, s.Duration, s.MaxSpeed)
	}
	return b.String()
}
