package track

import (
	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/coaster"
)

// Zone is a polygonal area in plan view where no support may stand, e.g.
// a path for visitors or the inside of a loop.
// To construct a zone, start with NullZone() and add knots, or use Box().
type Zone struct {
	contour polyclip.Contour
}

// NullZone creates an empty zone, to be extended by subsequent builder calls.
func NullZone() *Zone {
	return &Zone{}
}

// Knot adds a corner to the zone. Part of builder functionality.
func (z *Zone) Knot(p coaster.Pair) *Zone {
	z.contour.Add(polyclip.Point{X: p.X(), Y: p.Z()})
	return z
}

// Cycle closes the zone. The closing edge is implicit, so Cycle
// just ends the builder chain.
func (z *Zone) Cycle() *Zone {
	return z
}

// N returns the number of corners.
func (z *Zone) N() int {
	return len(z.contour)
}

// Box creates a rectangular zone from two opposite corners.
func Box(a, b coaster.Pair) *Zone {
	return NullZone().Knot(a).Knot(coaster.P(b.X(), a.Z())).Knot(b).Knot(coaster.P(a.X(), b.Z())).Cycle()
}

// Exclusion is the union of a set of zones.
type Exclusion struct {
	area polyclip.Polygon
}

// Exclude merges zones into a single exclusion area. Zones with fewer than
// three corners are ignored.
func Exclude(zones ...*Zone) Exclusion {
	var area polyclip.Polygon
	for _, z := range zones {
		if z == nil || z.N() < 3 {
			continue
		}
		p := polyclip.Polygon{z.contour}
		if len(area) == 0 {
			area = p
			continue
		}
		area = area.Construct(polyclip.UNION, p)
	}
	return Exclusion{area: area}
}

// IsEmpty is a predicate: does the exclusion cover no area at all?
func (e Exclusion) IsEmpty() bool {
	return len(e.area) == 0
}

// Contains is a predicate: does plan point p lie within the exclusion?
// The union of zones may have holes, hence contours are counted even-odd.
func (e Exclusion) Contains(p coaster.Pair) bool {
	pt := polyclip.Point{X: p.X(), Y: p.Z()}
	inside := false
	for _, c := range e.area {
		if c.Contains(pt) {
			inside = !inside
		}
	}
	return inside
}
