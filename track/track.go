/*
Package track builds the visible structure of a ride from its track curve:
the rails, a ribbon following the binormal of the cart's frame, and support
beams from the track down to the ground.

Both are sampled coarsely, every so many curve indices, and both rely on the
frames of package physics. Where a frame is degenerate, the previous valid
frame is reused.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package track

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/physics"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'coaster.track'
func tracer() tracing.Trace {
	return tracing.Select("coaster.track")
}

// Mesh is a vertex list with one normal per vertex.
type Mesh struct {
	Vertices []mgl64.Vec3
	Normals  []mgl64.Vec3
}

// N returns the vertex count of the mesh.
func (m Mesh) N() int {
	return len(m.Vertices)
}

func (m *Mesh) add(v, n mgl64.Vec3) {
	m.Vertices = append(m.Vertices, v)
	m.Normals = append(m.Normals, n)
}

// framer hands out frames along the track, substituting the last valid
// frame (initially the upright one) for degenerate ones.
type framer struct {
	model      *physics.Model
	dt         float64
	st         physics.State
	last       physics.Frame
	degenerate int
}

func newFramer(m *physics.Model, dt float64, st physics.State) *framer {
	return &framer{model: m, dt: dt, st: st, last: physics.Upright()}
}

func (f *framer) at(i int) (physics.Frame, error) {
	fr, err := f.model.Frame(i, f.dt, f.st)
	if err != nil {
		if !errors.Is(err, coaster.ErrNumericDegeneracy) {
			return fr, err
		}
		f.degenerate++
		tracer().Debugf("degenerate frame at %d, reusing last one", i)
		return f.last, nil
	}
	f.last = fr
	return fr, nil
}
