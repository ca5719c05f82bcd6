package geom2d

import "math"

// UnitVec is a Vec2 with the invariant X*X+Y*Y == 1. A distinguished
// zero value (both components zero) is the "invalid" sentinel used
// where no normal direction is defined yet.
type UnitVec = Vec2

// UnitZero is the invalid/undefined unit vector sentinel.
var UnitZero = UnitVec{}

// IsValidUnit reports whether u is a unit vector (or explicitly the
// zero sentinel, which callers must check for separately when they
// need a real direction).
func IsValidUnit(u UnitVec) bool {
	lenSqr := u.LenSqr()
	return Aeq(lenSqr, 1) || (lenSqr == 0)
}

// Normalize returns v scaled to unit length, and the original length.
// The zero vector normalizes to the zero sentinel.
func Normalize(v Vec2) (UnitVec, float64) {
	length := v.Len()
	if length < Epsilon {
		return UnitZero, 0
	}
	inv := 1.0 / length
	return Vec2{v.X * inv, v.Y * inv}, length
}

// UnitFromAngle builds a unit vector pointing at the given angle in
// radians, measured counter-clockwise from the positive X axis.
func UnitFromAngle(angle float64) UnitVec {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// Rot is a rotation represented as a cosine/sine pair, equivalent to a
// UnitVec but named distinctly where a type carries "this is an
// orientation" rather than "this is a direction" intent.
type Rot struct {
	C, S float64 // cos(angle), sin(angle)
}

// Identity is the zero rotation.
var Identity = Rot{C: 1, S: 0}

// NewRot builds a rotation from an angle in radians.
func NewRot(angle float64) Rot {
	return Rot{C: math.Cos(angle), S: math.Sin(angle)}
}

// Angle returns the angle in radians this rotation represents.
func (q Rot) Angle() float64 { return math.Atan2(q.S, q.C) }

// XAxis returns the rotated local x-axis.
func (q Rot) XAxis() Vec2 { return Vec2{q.C, q.S} }

// YAxis returns the rotated local y-axis.
func (q Rot) YAxis() Vec2 { return Vec2{-q.S, q.C} }

// MulRot composes two rotations: q then r (apply q first).
func MulRot(q, r Rot) Rot {
	return Rot{C: q.C*r.C - q.S*r.S, S: q.S*r.C + q.C*r.S}
}

// MulTRot returns the rotation that maps r onto q, i.e. inverse(q)*r.
func MulTRot(q, r Rot) Rot {
	return Rot{C: q.C*r.C + q.S*r.S, S: q.C*r.S - q.S*r.C}
}

// Rotate applies rotation q to vector v.
func Rotate(q Rot, v Vec2) Vec2 {
	return Vec2{q.C*v.X - q.S*v.Y, q.S*v.X + q.C*v.Y}
}

// InverseRotate applies the inverse of rotation q to vector v.
func InverseRotate(q Rot, v Vec2) Vec2 {
	return Vec2{q.C*v.X + q.S*v.Y, -q.S*v.X + q.C*v.Y}
}
