package geom2d

import "math"

// Vec2 is a 2 element vector, also used as a point.
type Vec2 struct {
	X, Y float64
}

// Zero is the additive identity vector.
var Zero = Vec2{}

// Add returns a+b.
func Add(a, b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }

// Sub returns a-b.
func Sub(a, b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

// Neg returns -a.
func Neg(a Vec2) Vec2 { return Vec2{-a.X, -a.Y} }

// Scale returns a scaled by s.
func Scale(a Vec2, s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Mul returns the component-wise product of a and b.
func Mul(a, b Vec2) Vec2 { return Vec2{a.X * b.X, a.Y * b.Y} }

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 { return a.X*b.X + a.Y*b.Y }

// Cross2 returns the 2D scalar cross product (the z component of the
// 3D cross product of a and b extended with z=0).
func Cross2(a, b Vec2) float64 { return a.X*b.Y - a.Y*b.X }

// CrossVS returns the vector v rotated -90 degrees and scaled by s:
// the 3D cross product of v (z=0) with the scalar s (as (0,0,s)).
func CrossVS(v Vec2, s float64) Vec2 { return Vec2{s * v.Y, -s * v.X} }

// CrossSV returns the 3D cross product of scalar s (as (0,0,s)) with v.
func CrossSV(s float64, v Vec2) Vec2 { return Vec2{-s * v.Y, s * v.X} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// LenSqr returns the squared Euclidean length of v.
func (v Vec2) LenSqr() float64 { return v.X*v.X + v.Y*v.Y }

// DistSqr returns the squared distance between a and b.
func DistSqr(a, b Vec2) float64 { return Sub(a, b).LenSqr() }

// Dist returns the distance between a and b.
func Dist(a, b Vec2) float64 { return Sub(a, b).Len() }

// IsValid reports whether neither component of v is NaN or infinite.
func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Min returns the component-wise minimum of a and b.
func Min(a, b Vec2) Vec2 { return Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)} }

// Max returns the component-wise maximum of a and b.
func Max(a, b Vec2) Vec2 { return Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)} }

// LerpV linearly interpolates from a to b by ratio t.
func LerpV(a, b Vec2, t float64) Vec2 {
	return Vec2{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t)}
}

// Mat22 is a 2x2 matrix stored by column, used for the contact block
// solver's effective-mass matrix.
type Mat22 struct {
	Col1, Col2 Vec2
}

// NewMat22Cols builds a matrix from two column vectors.
func NewMat22Cols(c1, c2 Vec2) Mat22 { return Mat22{c1, c2} }

// MulMV returns the matrix-vector product A*v.
func MulMV(a Mat22, v Vec2) Vec2 {
	return Vec2{a.Col1.X*v.X + a.Col2.X*v.Y, a.Col1.Y*v.X + a.Col2.Y*v.Y}
}

// Det returns the determinant of a.
func (a Mat22) Det() float64 { return a.Col1.X*a.Col2.Y - a.Col2.X*a.Col1.Y }

// Inverse returns the inverse of a, or the zero matrix if a is singular.
func (a Mat22) Inverse() Mat22 {
	det := a.Det()
	if det != 0 {
		det = 1.0 / det
	}
	return Mat22{
		Col1: Vec2{det * a.Col2.Y, -det * a.Col1.Y},
		Col2: Vec2{-det * a.Col2.X, det * a.Col1.X},
	}
}

// Solve returns x such that a*x = b, assuming a is invertible.
func (a Mat22) Solve(b Vec2) Vec2 {
	a11, a12, a21, a22 := a.Col1.X, a.Col2.X, a.Col1.Y, a.Col2.Y
	det := a11*a22 - a12*a21
	if det != 0 {
		det = 1.0 / det
	}
	return Vec2{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}
