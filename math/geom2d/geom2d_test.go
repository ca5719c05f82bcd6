package geom2d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// While the functions below are not complicated, they are foundational
// such that it is better to test each one of them than have the bugs
// discovered later from other code.

func TestVectorAlgebra(t *testing.T) {
	a, b := Vec2{1, 2}, Vec2{3, -1}
	assert.Equal(t, Vec2{4, 1}, Add(a, b))
	assert.Equal(t, Vec2{-2, 3}, Sub(a, b))
	assert.Equal(t, Vec2{-1, -2}, Neg(a))
	assert.Equal(t, Vec2{2, 4}, Scale(a, 2))
	assert.InDelta(t, 1, Dot(a, b), Epsilon)
	assert.InDelta(t, -7, Cross2(a, b), Epsilon)
}

func TestUnitAndRotate(t *testing.T) {
	u, length := Normalize(Vec2{3, 4})
	assert.InDelta(t, 5, length, Epsilon)
	assert.True(t, IsValidUnit(u))
	assert.InDelta(t, 0, u.X-0.6, Epsilon)
	assert.InDelta(t, 0, u.Y-0.8, Epsilon)

	zero, zeroLen := Normalize(Vec2{})
	assert.Equal(t, UnitZero, zero)
	assert.Zero(t, zeroLen)
}

func TestRotationRoundTrip(t *testing.T) {
	q := NewRot(0.7)
	v := Vec2{2, -3}
	rotated := Rotate(q, v)
	back := InverseRotate(q, rotated)
	assert.InDelta(t, v.X, back.X, 1e-9)
	assert.InDelta(t, v.Y, back.Y, 1e-9)
}

func TestTransformRoundTrip(t *testing.T) {
	xf := NewTransform(Vec2{1, 2}, NewRot(1.2))
	v := Vec2{-4, 5}
	back := InverseTransformPoint(xf, TransformPoint(xf, v))
	assert.InDelta(t, v.X, back.X, 1e-9)
	assert.InDelta(t, v.Y, back.Y, 1e-9)
}

func TestSweepGetTransformAtOne(t *testing.T) {
	s := Sweep{
		Pos0: Position{Linear: Vec2{0, 0}, Angular: 0},
		Pos1: Position{Linear: Vec2{2, 0}, Angular: HalfPi},
	}
	xf := s.GetTransform(1)
	assert.InDelta(t, 2, xf.P.X, 1e-9)
	assert.InDelta(t, 0, xf.P.Y, 1e-9)
	assert.InDelta(t, HalfPi, xf.Q.Angle(), 1e-9)
}

func TestSweepAdvance0PreservesEndTransform(t *testing.T) {
	s := Sweep{
		Pos0: Position{Linear: Vec2{0, 0}, Angular: 0},
		Pos1: Position{Linear: Vec2{4, 2}, Angular: 1.0},
	}
	before := s.GetTransform(1)
	s.Advance0(0.3)
	assert.InDelta(t, 0.3, s.Alpha0, 1e-9)
	after := s.GetTransform(1)
	assert.InDelta(t, before.P.X, after.P.X, 1e-9)
	assert.InDelta(t, before.P.Y, after.P.Y, 1e-9)
}

func TestNang(t *testing.T) {
	assert.InDelta(t, 0, Nang(TwoPi), 1e-9)
	assert.InDelta(t, Pi/2, Nang(Pi/2), 1e-9)
	assert.InDelta(t, -Pi/2, Nang(-Pi/2-TwoPi), 1e-9)
}

func TestMat22SolveRoundTrip(t *testing.T) {
	m := Mat22{Col1: Vec2{2, 0}, Col2: Vec2{0, 4}}
	b := Vec2{6, 8}
	x := m.Solve(b)
	got := MulMV(m, x)
	assert.InDelta(t, b.X, got.X, 1e-9)
	assert.InDelta(t, b.Y, got.Y, 1e-9)
}

func TestClampLerp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(5, -1, 1))
	assert.Equal(t, -1.0, Clamp(-5, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))
	assert.InDelta(t, 1.5, Lerp(1, 2, 0.5), Epsilon)
}

func TestIsValid(t *testing.T) {
	assert.True(t, Vec2{1, 2}.IsValid())
	assert.False(t, Vec2{math.NaN(), 0}.IsValid())
	assert.False(t, Vec2{math.Inf(1), 0}.IsValid())
}
