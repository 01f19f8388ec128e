package track

import (
	"fmt"

	"github.com/npillmayer/coaster"
	"github.com/npillmayer/coaster/physics"
)

// RailOptions control the resolution and size of the rail ribbon.
type RailOptions struct {
	Granularity int     // curve indices between two cross sections
	Width       float64 // distance of either rail from the track centre
}

// DefaultRailOptions returns options suitable for a curve reparameterized at
// 1000 points per unit of length.
func DefaultRailOptions() RailOptions {
	return RailOptions{Granularity: 200, Width: 0.05}
}

func (o RailOptions) validate() error {
	if o.Granularity <= 0 {
		return fmt.Errorf("%w: rail granularity must be positive, is %d", coaster.ErrInvalidInput, o.Granularity)
	}
	if !(o.Width > 0) {
		return fmt.Errorf("%w: rail width must be positive, is %g", coaster.ErrInvalidInput, o.Width)
	}
	return nil
}

// Rails builds the rail ribbon of a track: for every Granularity-th curve
// index a cross section of two vertices, right and left of the track centre
// along the binormal, both with the frame's normal. The ribbon is closed by
// repeating the first cross section at the end.
//
// Frames are computed with time step dt and carried state st, see
// physics.Model.Frame.
func Rails(m *physics.Model, dt float64, st physics.State, opts RailOptions) (Mesh, error) {
	var mesh Mesh
	if err := opts.validate(); err != nil {
		return mesh, err
	}
	c := m.Curve()
	f := newFramer(m, dt, st)
	var normal = f.last.Normal
	for i := 0; i < c.N()-1; i += opts.Granularity {
		fr, err := f.at(i)
		if err != nil {
			return Mesh{}, err
		}
		cur, side := c.At(i), fr.Binormal.Mul(opts.Width)
		normal = fr.Normal
		mesh.add(cur.Add(side), normal)
		mesh.add(cur.Sub(side), normal)
	}
	mesh.add(mesh.Vertices[0], normal)
	mesh.add(mesh.Vertices[1], normal)
	tracer().Infof("rails: %d cross sections, %d degenerate frames", mesh.N()/2, f.degenerate)
	return mesh, nil
}
