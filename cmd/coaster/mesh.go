package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster/config"
	"github.com/npillmayer/coaster/physics"
	"github.com/npillmayer/coaster/track"
)

type meshStats struct {
	rails    int
	supports int
}

// writeMesh writes the rails of a track as a strip of quads and its
// supports as line elements to a Wavefront OBJ file.
//
// Frames are computed with the fall speed the train carries into the
// brakes, so that the brake run is framed as well.
func writeMesh(w io.Writer, m *physics.Model, s config.Settings) (meshStats, error) {
	var stats meshStats
	var st physics.State
	if _, _, err := m.Speed(m.Params().DecelStart-1, &st); err != nil {
		return stats, err
	}
	dt := s.Ride.TimeStep
	rails, err := track.Rails(m, dt, st, s.RailOptions())
	if err != nil {
		return stats, err
	}
	supports, err := track.Supports(m, dt, st, s.SupportOptions())
	if err != nil {
		return stats, err
	}
	stats.rails, stats.supports = rails.N(), len(supports)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# coaster track: %d rail vertices, %d support beams\n", rails.N(), len(supports))
	fmt.Fprintln(bw, "o rails")
	for k, v := range rails.Vertices {
		writeVec(bw, "v", v)
		writeVec(bw, "vn", rails.Normals[k])
	}
	for k := 0; k+3 < rails.N(); k += 2 {
		a, b, c, d := k+1, k+2, k+4, k+3 // OBJ indices are 1-based
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d %d//%d\n", a, a, b, b, c, c, d, d)
	}
	fmt.Fprintln(bw, "o supports")
	base := rails.N()
	for k, seg := range supports {
		writeVec(bw, "v", seg.From)
		writeVec(bw, "v", seg.To)
		fmt.Fprintf(bw, "l %d %d\n", base+2*k+1, base+2*k+2)
	}
	return stats, bw.Flush()
}

func writeVec(w io.Writer, tag string, v mgl64.Vec3) {
	fmt.Fprintf(w, "%s %.6f %.6f %.6f\n", tag, v.X(), v.Y(), v.Z())
}
