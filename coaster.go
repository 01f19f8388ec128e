/*
Package coaster implements the curve physics and framing engine of a
roller-coaster animation: arc-length reparameterization of a track curve,
a phase-based speed model, and orthonormal frames along the track.

This root package holds numeric helpers shared by the sub-packages, a
plan-view point type with affine transformations, and the error taxonomy.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package coaster

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// === Errors ================================================================

var (
	// ErrInvalidInput flags arguments no computation can be performed on:
	// empty or too small curves, zero subdivision counts, bad landmarks.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNumericDegeneracy flags a normalization of a (nearly) zero-length
	// vector, e.g. on a straight, level piece of track.
	ErrNumericDegeneracy = errors.New("numeric degeneracy")
)

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// === Pair Data Type ========================================================

// Pair is a point in the plan view of a track, i.e. the XZ-plane seen from
// above. X maps to the real part, Z to the imaginary part.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// P is a quick notation for contructing a pair from floats.
func P(x, z float64) Pair {
	return Pair(complex(x, z))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p.C())
}

// Z is the z-part of a pair (depth in world space).
func (p Pair) Z() float64 {
	return imag(p.C())
}

// Zap rounds both parts to Epsilon.
func (p Pair) Zap() Pair {
	return P(Zap(p.X()), Zap(p.Z()))
}

// Equal compares two pairs.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Z()-p2.Z())
}

// Abs is the distance of p from the origin.
func (p Pair) Abs() float64 {
	return cmplx.Abs(p.C())
}

// === Affine Transformations ================================================

// AT is an affine transform of the plan view.
type AT []float64 // a 3x3 matrix, flattened by rows

func newAT() AT {
	return make([]float64, 9)
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

func (m AT) col(col int) []float64 {
	return []float64{m[col], m[3+col], m[6+col]}
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dx,dz).
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.X())
	m.set(1, 2, p.Z())
	return m
}

// Rotation transform. Rotate a point counter-clockwise around the origin.
// Argument is in radians.
func Rotation(theta float64) AT {
	m := newAT()
	sin, cos := math.Sincos(theta)
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	m.set(2, 2, 1.0)
	return m
}

// Scaling transform, uniform in both directions.
func Scaling(s float64) AT {
	m := Identity()
	m.set(0, 0, s)
	m.set(1, 1, s)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	return fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

func dotProd(vec1, vec2 []float64) float64 {
	return vec1[0]*vec2[0] + vec1[1]*vec2[1] + vec1[2]*vec2[2]
}

// Combine 2 affine transformations to a new one: m is applied first, then n.
// Returns a new transformation without changing the arguments.
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

// Transform a plan point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	v := []float64{p.X(), p.Z(), 1.0}
	return P(dotProd(m.row(0), v), dotProd(m.row(1), v))
}
