package physics

import "github.com/gazed/rigid2d/math/geom2d"

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	LowerBound, UpperBound geom2d.Vec2
}

// Contains reports whether o lies entirely within a.
func (a AABB) Contains(o AABB) bool {
	return a.LowerBound.X <= o.LowerBound.X && a.LowerBound.Y <= o.LowerBound.Y &&
		o.UpperBound.X <= a.UpperBound.X && o.UpperBound.Y <= a.UpperBound.Y
}

// Overlaps reports whether a and b share any area.
func (a AABB) Overlaps(b AABB) bool {
	d1 := geom2d.Sub(b.LowerBound, a.UpperBound)
	d2 := geom2d.Sub(a.LowerBound, b.UpperBound)
	if d1.X > 0 || d1.Y > 0 {
		return false
	}
	if d2.X > 0 || d2.Y > 0 {
		return false
	}
	return true
}

// Union returns the smallest AABB containing both a and b.
func Union(a, b AABB) AABB {
	return AABB{
		LowerBound: geom2d.Min(a.LowerBound, b.LowerBound),
		UpperBound: geom2d.Max(a.UpperBound, b.UpperBound),
	}
}

// Perimeter returns the AABB's perimeter, used by the dynamic tree as
// a cheap proxy for surface-area-heuristic cost.
func (a AABB) Perimeter() float64 {
	wx := a.UpperBound.X - a.LowerBound.X
	wy := a.UpperBound.Y - a.LowerBound.Y
	return 2 * (wx + wy)
}

// Center returns the AABB's midpoint.
func (a AABB) Center() geom2d.Vec2 {
	return geom2d.Scale(geom2d.Add(a.LowerBound, a.UpperBound), 0.5)
}

// Extents returns the AABB's half-widths.
func (a AABB) Extents() geom2d.Vec2 {
	return geom2d.Scale(geom2d.Sub(a.UpperBound, a.LowerBound), 0.5)
}

// Extend grows a by margin in every direction, used by the broad phase
// to build "fat" AABBs that tolerate small motion without a tree
// update.
func (a AABB) Extend(margin float64) AABB {
	m := geom2d.Vec2{X: margin, Y: margin}
	return AABB{LowerBound: geom2d.Sub(a.LowerBound, m), UpperBound: geom2d.Add(a.UpperBound, m)}
}

// RayCast reports whether the segment input.P1->input.P2 intersects a,
// using the slab method.
func (a AABB) RayCast(input RayCastInput) bool {
	tmin, tmax := -1e300, input.MaxFraction
	p, d := input.P1, geom2d.Sub(input.P2, input.P1)

	axis := func(p0, d0, lo, hi float64) bool {
		if d0 == 0 {
			return p0 >= lo && p0 <= hi
		}
		inv := 1.0 / d0
		t1, t2 := (lo-p0)*inv, (hi-p0)*inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		return tmin <= tmax
	}
	if !axis(p.X, d.X, a.LowerBound.X, a.UpperBound.X) {
		return false
	}
	if !axis(p.Y, d.Y, a.LowerBound.Y, a.UpperBound.Y) {
		return false
	}
	return tmax >= 0
}
