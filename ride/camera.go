package ride

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/coaster/physics"
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Station is a fixed camera position watching the train while it travels
// from curve index From up to the From of the next station.
type Station struct {
	From int
	Eye  mgl64.Vec3
}

// Tracking is a set of camera stations along the track. The station with
// the highest From also covers the indices below the lowest From, as the
// track wraps around.
type Tracking []Station

// NewTracking creates a tracking camera setup, sorting stations by index.
func NewTracking(stations ...Station) Tracking {
	t := append(Tracking(nil), stations...)
	sort.Slice(t, func(i, j int) bool { return t[i].From < t[j].From })
	return t
}

// ReferenceTracking returns the stations along the reference track, one of
// them placed relative to the track's peak.
func ReferenceTracking(peak int) Tracking {
	return NewTracking(
		Station{From: 172000, Eye: mgl64.Vec3{-10, 5, 10}},
		Station{From: peak - 500, Eye: mgl64.Vec3{-7, 6, 0.5}},
		Station{From: 16000, Eye: mgl64.Vec3{0, 2, -6.5}},
		Station{From: 34523, Eye: mgl64.Vec3{-1, 1, 3}},
		Station{From: 84000, Eye: mgl64.Vec3{-5, 0.1, 0}},
		Station{From: 145000, Eye: mgl64.Vec3{3, 1, 0}},
	)
}

// Station returns the station responsible for curve index i.
// It returns false if there are no stations.
func (t Tracking) Station(i int) (Station, bool) {
	if len(t) == 0 {
		return Station{}, false
	}
	k := sort.Search(len(t), func(k int) bool { return t[k].From > i })
	if k == 0 {
		return t[len(t)-1], true
	}
	return t[k-1], true
}

// View returns the view matrix of the station responsible for index i,
// looking at target. Without stations, the identity is returned.
func (t Tracking) View(i int, target mgl64.Vec3) mgl64.Mat4 {
	s, ok := t.Station(i)
	if !ok {
		return mgl64.Ident4()
	}
	return mgl64.LookAtV(s.Eye, target, worldUp)
}

// OnBoard returns the view matrix of a camera riding along, height above
// the track at pos, looking along the tangent of frame f.
func OnBoard(f physics.Frame, pos mgl64.Vec3, height float64) mgl64.Mat4 {
	eye := pos.Add(f.Normal.Mul(height))
	return mgl64.LookAtV(eye, eye.Add(f.Tangent), f.Normal)
}
