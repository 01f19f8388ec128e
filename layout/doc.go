/*
Package layout generates track curves procedurally. A track is planned as a
closed loop of knots in the plan view (the XZ-plane seen from above), each
knot carrying a height. The plan view is interpolated by John Hobby's spline
algorithm, the same one MetaFont and MetaPost use for their paths, which
yields pleasantly round curves without the overshooting of ordinary
interpolating splines. Heights are blended between knots with a smoothstep,
so every knot is a crest, a valley or a plateau of the track.

The primary source of information for "Hobby-splines" is:

	Smooth, Easy to Compute Interpolating Splines -- John D. Hobby
	Computer Science Dept. Stanford University
	Report No. STAN-CS-85-1047, Jan 1985
	http://i.stanford.edu/pub/cstr/reports/cs/tr/85/1047/CS-TR-85-1047.pdf

The practical algorithm is explained in

	Computers & Typesetting, Vol. B & D.
	http://www-cs-faculty.stanford.edu/~knuth/abcde.html

# Usage

Clients build a plan with a builder and then let the solver find the spline
control points:

	plan := Nullplan().Knot(P(20,0), 12).Curve().Knot(P(40,5), 2).
	    TensionCurve(1.5, 1.5).Knot(P(55,20), 7).Curve().Cycle()
	controls, err := FindControls(plan)
	track, err := Sample(plan, controls, 0.05)

The sampled track is a closed curve.Curve, ready to be prepared for the
physics engine (see curve.Prepare). Only cyclic plans are supported: a
roller-coaster track always returns to its station.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package layout

import "fmt"

// AsString returns a plan, optionally including spline control points, as a
// (debugging) string. The string contains newlines if control point
// information is present. Otherwise it will include the knot coordinates in
// one line.
//
// Example, a circle of diameter 2 around (2,1), all knots at height 0:
//
//	(1,1) .. controls (1.0000,1.5523) and (1.4477,2.0000)
//	  .. (2,2) .. controls (2.5523,2.0000) and (3.0000,1.5523)
//	  .. (3,1) .. controls (3.0000,0.4477) and (2.5523,0.0000)
//	  .. (2,0) .. controls (1.4477,0.0000) and (1.0000,0.4477)
//	  .. cycle
func AsString(plan *Plan, contr *Controls) string {
	var s string
	for i := 0; i < plan.N(); i++ {
		if i > 0 {
			if contr != nil {
				s += fmt.Sprintf(" and %s\n  .. ", ptstring(contr.PreControl(i), true))
			} else {
				s += " .. "
			}
		}
		s += ptstring(plan.Z(i), false)
		if contr != nil {
			s += fmt.Sprintf(" .. controls %s", ptstring(contr.PostControl(i), true))
		}
	}
	if plan.N() > 0 {
		if contr != nil {
			s += fmt.Sprintf(" and %s\n ", ptstring(contr.PreControl(0), true))
		}
		s += " .. cycle"
	}
	return s
}
