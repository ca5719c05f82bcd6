package physics

import (
	"errors"
	"math"
	"sort"

	"github.com/gazed/rigid2d/math/geom2d"
)

// ShapeType enumerates the shape variants a Fixture can hold. Shape is
// modeled as a tagged union (a Go interface implemented by exactly
// these four concrete types) rather than a deep class hierarchy: the
// uniform operations below are implemented per-type instead of by
// virtual dispatch.
type ShapeType int

const (
	CircleShape ShapeType = iota
	EdgeShape
	PolygonShape
	ChainShape
)

// MaxPolygonVertices bounds the vertex count of a convex polygon.
const MaxPolygonVertices = 8

// MassData is the mass, center of mass, and rotational inertia (about
// the shape's local origin) a shape contributes, scaled by a density.
type MassData struct {
	Mass   float64
	Center geom2d.Vec2
	I      float64
}

// RayCastInput is a ray segment from P1 to P1+MaxFraction*(P2-P1).
type RayCastInput struct {
	P1, P2      geom2d.Vec2
	MaxFraction float64
}

// RayCastOutput is the result of a successful ray cast: the hit
// fraction along the input segment and the surface normal there.
type RayCastOutput struct {
	Normal   geom2d.Vec2
	Fraction float64
}

// DistanceProxy is the uniform query interface the GJK distance
// routine and CollideShapes use: a small immutable point set plus a
// rounding radius. A circle is modeled as a one-vertex proxy.
type DistanceProxy struct {
	Vertices []geom2d.Vec2
	Radius   float64
}

// Count returns the number of vertices in the proxy.
func (p DistanceProxy) Count() int { return len(p.Vertices) }

// Vertex returns the i'th vertex.
func (p DistanceProxy) Vertex(i int) geom2d.Vec2 { return p.Vertices[i] }

// Support returns the index of the vertex most extreme in direction d.
func (p DistanceProxy) Support(d geom2d.Vec2) int {
	best, bestValue := 0, geom2d.Dot(p.Vertices[0], d)
	for i := 1; i < len(p.Vertices); i++ {
		v := geom2d.Dot(p.Vertices[i], d)
		if v > bestValue {
			best, bestValue = i, v
		}
	}
	return best
}

// SupportVertex returns the vertex most extreme in direction d.
func (p DistanceProxy) SupportVertex(d geom2d.Vec2) geom2d.Vec2 {
	return p.Vertices[p.Support(d)]
}

// Shape is a convex collision primitive in local space, centered
// conceptually at its own origin; combine with a Transform to place it
// in world space.
type Shape interface {
	Type() ShapeType
	ChildCount() int
	ComputeAABB(xf geom2d.Transform, childIndex int) AABB
	ComputeMass(density float64) MassData
	Proxy(childIndex int) DistanceProxy
	TestPoint(xf geom2d.Transform, p geom2d.Vec2) bool
	RayCast(input RayCastInput, xf geom2d.Transform, childIndex int) (RayCastOutput, bool)
}

// Circle is a disc of the given radius centered at Center in the
// shape's local frame.
type Circle struct {
	Center geom2d.Vec2
	Radius float64
}

// NewCircle builds a Circle shape. ErrInvalidArgument is returned for a
// negative radius.
func NewCircle(center geom2d.Vec2, radius float64) (*Circle, error) {
	if radius < 0 {
		return nil, ErrInvalidArgument
	}
	return &Circle{Center: center, Radius: radius}, nil
}

func (c *Circle) Type() ShapeType  { return CircleShape }
func (c *Circle) ChildCount() int  { return 1 }
func (c *Circle) Proxy(int) DistanceProxy {
	return DistanceProxy{Vertices: []geom2d.Vec2{c.Center}, Radius: c.Radius}
}

func (c *Circle) ComputeAABB(xf geom2d.Transform, _ int) AABB {
	p := geom2d.TransformPoint(xf, c.Center)
	return AABB{
		LowerBound: geom2d.Vec2{X: p.X - c.Radius, Y: p.Y - c.Radius},
		UpperBound: geom2d.Vec2{X: p.X + c.Radius, Y: p.Y + c.Radius},
	}
}

func (c *Circle) ComputeMass(density float64) MassData {
	mass := density * geom2d.Pi * c.Radius * c.Radius
	// I about the shape origin: the disc's own inertia plus the
	// parallel-axis term for its offset center.
	i := mass * (0.5*c.Radius*c.Radius + geom2d.Dot(c.Center, c.Center))
	return MassData{Mass: mass, Center: c.Center, I: i}
}

func (c *Circle) TestPoint(xf geom2d.Transform, p geom2d.Vec2) bool {
	center := geom2d.TransformPoint(xf, c.Center)
	return geom2d.DistSqr(p, center) <= c.Radius*c.Radius
}

func (c *Circle) RayCast(input RayCastInput, xf geom2d.Transform, _ int) (RayCastOutput, bool) {
	position := geom2d.TransformPoint(xf, c.Center)
	s := geom2d.Sub(input.P1, position)
	b := s.LenSqr() - c.Radius*c.Radius

	r := geom2d.Sub(input.P2, input.P1)
	rr := r.LenSqr()
	if rr < geom2d.Epsilon {
		return RayCastOutput{}, false
	}
	c1 := geom2d.Dot(s, r)
	sigma := c1*c1 - rr*b
	if sigma < 0 || rr < geom2d.Epsilon {
		return RayCastOutput{}, false
	}
	t := -(c1 + math.Sqrt(sigma))
	if 0 <= t && t <= input.MaxFraction*rr {
		t /= rr
		normal, _ := geom2d.Normalize(geom2d.Add(s, geom2d.Scale(r, t)))
		return RayCastOutput{Normal: normal, Fraction: t}, true
	}
	return RayCastOutput{}, false
}

// Edge is a line segment from V1 to V2. V0 and V3 are optional ghost
// neighbor vertices populated when the edge is a child of a Chain; the
// narrow-phase uses them to suppress spurious "internal" collision
// normals at interior chain vertices.
type Edge struct {
	V0, V1, V2, V3         geom2d.Vec2
	HasVertex0, HasVertex3 bool
	Radius                 float64
}

// NewEdge builds a two-sided Edge shape with no ghost vertices.
func NewEdge(v1, v2 geom2d.Vec2) *Edge {
	return &Edge{V1: v1, V2: v2}
}

func (e *Edge) Type() ShapeType { return EdgeShape }
func (e *Edge) ChildCount() int { return 1 }
func (e *Edge) Proxy(int) DistanceProxy {
	return DistanceProxy{Vertices: []geom2d.Vec2{e.V1, e.V2}, Radius: e.Radius}
}

// asPolygon re-expresses e as a degenerate two-vertex Polygon so
// CollideShapes can reuse CollidePolygons/CollidePolygonAndCircle
// instead of a third narrow-phase routine: an edge's two normals are
// just the face normals of its two (identical, opposite-facing)
// "edges" V1->V2 and V2->V1.
func (e *Edge) asPolygon() *Polygon {
	edge := geom2d.Sub(e.V2, e.V1)
	n0, _ := geom2d.Normalize(geom2d.Vec2{X: edge.Y, Y: -edge.X})
	return &Polygon{
		Vertices: []geom2d.Vec2{e.V1, e.V2},
		Normals:  []geom2d.UnitVec{n0, geom2d.Neg(n0)},
		Radius:   e.Radius,
	}
}

func (e *Edge) ComputeAABB(xf geom2d.Transform, _ int) AABB {
	v1 := geom2d.TransformPoint(xf, e.V1)
	v2 := geom2d.TransformPoint(xf, e.V2)
	lower, upper := geom2d.Min(v1, v2), geom2d.Max(v1, v2)
	r := geom2d.Vec2{X: e.Radius, Y: e.Radius}
	return AABB{LowerBound: geom2d.Sub(lower, r), UpperBound: geom2d.Add(upper, r)}
}

func (e *Edge) ComputeMass(float64) MassData {
	center := geom2d.Scale(geom2d.Add(e.V1, e.V2), 0.5)
	return MassData{Mass: 0, Center: center, I: 0}
}

func (e *Edge) TestPoint(geom2d.Transform, geom2d.Vec2) bool { return false }

func (e *Edge) RayCast(input RayCastInput, xf geom2d.Transform, _ int) (RayCastOutput, bool) {
	p1 := geom2d.InverseTransformPoint(xf, input.P1)
	p2 := geom2d.InverseTransformPoint(xf, input.P2)
	d := geom2d.Sub(p2, p1)

	v1, v2 := e.V1, e.V2
	e2 := geom2d.Sub(v2, v1)
	normal, _ := geom2d.Normalize(geom2d.Vec2{X: e2.Y, Y: -e2.X})

	denom := geom2d.Dot(d, normal)
	if denom == 0 {
		return RayCastOutput{}, false
	}
	t := geom2d.Dot(geom2d.Sub(v1, p1), normal) / denom
	if t < 0 || t > input.MaxFraction {
		return RayCastOutput{}, false
	}
	point := geom2d.Add(p1, geom2d.Scale(d, t))
	e2LenSqr := e2.LenSqr()
	if e2LenSqr == 0 {
		return RayCastOutput{}, false
	}
	s := geom2d.Dot(geom2d.Sub(point, v1), e2) / e2LenSqr
	if s < 0 || s > 1 {
		return RayCastOutput{}, false
	}
	if denom > 0 {
		normal = geom2d.Neg(normal)
	}
	worldNormal := geom2d.Rotate(xf.Q, normal)
	return RayCastOutput{Normal: worldNormal, Fraction: t}, true
}

// Polygon is a convex polygon of up to MaxPolygonVertices vertices in
// counter-clockwise order, plus a rounding radius applied uniformly to
// every edge and vertex (zero for a sharp polygon).
type Polygon struct {
	Vertices []geom2d.Vec2
	Normals  []geom2d.UnitVec
	Centroid geom2d.Vec2
	Radius   float64
}

// NewBox builds an axis-aligned box polygon of the given half-widths
// centered at the local origin.
func NewBox(hx, hy float64) *Polygon {
	p, _ := NewPolygon([]geom2d.Vec2{
		{X: -hx, Y: -hy}, {X: hx, Y: -hy}, {X: hx, Y: hy}, {X: -hx, Y: hy},
	})
	return p
}

// NewPolygon builds a convex polygon from an unordered point set by
// computing its convex hull. Points inside the hull, or on a hull edge
// between two corners, are dropped rather than rejected, so a
// non-convex point set yields its hull instead of an error. Returns
// ErrInvalidArgument if the hull has fewer than 3 or more than
// MaxPolygonVertices vertices.
func NewPolygon(points []geom2d.Vec2) (*Polygon, error) {
	hull := convexHull(points)
	if len(hull) < 3 || len(hull) > MaxPolygonVertices {
		return nil, ErrInvalidArgument
	}
	poly := &Polygon{Vertices: hull, Normals: make([]geom2d.UnitVec, len(hull))}
	n := len(hull)
	for i := 0; i < n; i++ {
		edge := geom2d.Sub(hull[(i+1)%n], hull[i])
		if edge.LenSqr() < geom2d.Epsilon*geom2d.Epsilon {
			return nil, ErrInvalidArgument
		}
		normal, _ := geom2d.Normalize(geom2d.Vec2{X: edge.Y, Y: -edge.X})
		poly.Normals[i] = normal
	}
	poly.Centroid = polygonCentroid(hull)
	return poly, nil
}

// convexHull computes the counter-clockwise convex hull of points via
// the monotone-chain (Andrew's) algorithm, deduplicating nearly
// coincident input points first.
func convexHull(points []geom2d.Vec2) []geom2d.Vec2 {
	uniq := make([]geom2d.Vec2, 0, len(points))
	for _, p := range points {
		dup := false
		for _, u := range uniq {
			if geom2d.DistSqr(p, u) < 4*geom2d.Epsilon {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return uniq
	}
	sort.Slice(uniq, func(i, j int) bool {
		if uniq[i].X != uniq[j].X {
			return uniq[i].X < uniq[j].X
		}
		return uniq[i].Y < uniq[j].Y
	})

	cross := func(o, a, b geom2d.Vec2) float64 {
		return geom2d.Cross2(geom2d.Sub(a, o), geom2d.Sub(b, o))
	}

	lower := make([]geom2d.Vec2, 0, len(uniq))
	for _, p := range uniq {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	upper := make([]geom2d.Vec2, 0, len(uniq))
	for i := len(uniq) - 1; i >= 0; i-- {
		p := uniq[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	lower = lower[:len(lower)-1]
	upper = upper[:len(upper)-1]
	hull := append(lower, upper...)

	// Rotate the ring to start at the rightmost (then lowest) vertex,
	// so face 0 of an axis-aligned box is its +x face. Separating-axis
	// ties break toward the first face tested, and reference results
	// (which face a tied manifold reports) are stated against this
	// winding.
	start := 0
	for i, v := range hull {
		if v.X > hull[start].X || (v.X == hull[start].X && v.Y < hull[start].Y) {
			start = i
		}
	}
	return append(hull[start:], hull[:start]...)
}

func polygonCentroid(vs []geom2d.Vec2) geom2d.Vec2 {
	center := geom2d.Vec2{}
	area := 0.0
	origin := vs[0]
	const inv3 = 1.0 / 3.0
	for i := 1; i+1 < len(vs); i++ {
		e1 := geom2d.Sub(vs[i], origin)
		e2 := geom2d.Sub(vs[i+1], origin)
		d := geom2d.Cross2(e1, e2)
		triArea := 0.5 * d
		area += triArea
		center = geom2d.Add(center, geom2d.Scale(geom2d.Add(e1, e2), triArea*inv3))
	}
	if area > geom2d.Epsilon {
		center = geom2d.Scale(center, 1.0/area)
	}
	return geom2d.Add(center, origin)
}

func (p *Polygon) Type() ShapeType { return PolygonShape }
func (p *Polygon) ChildCount() int { return 1 }
func (p *Polygon) Proxy(int) DistanceProxy {
	return DistanceProxy{Vertices: p.Vertices, Radius: p.Radius}
}

func (p *Polygon) ComputeAABB(xf geom2d.Transform, _ int) AABB {
	lower := geom2d.TransformPoint(xf, p.Vertices[0])
	upper := lower
	for i := 1; i < len(p.Vertices); i++ {
		v := geom2d.TransformPoint(xf, p.Vertices[i])
		lower = geom2d.Min(lower, v)
		upper = geom2d.Max(upper, v)
	}
	r := geom2d.Vec2{X: p.Radius, Y: p.Radius}
	return AABB{LowerBound: geom2d.Sub(lower, r), UpperBound: geom2d.Add(upper, r)}
}

func (p *Polygon) ComputeMass(density float64) MassData {
	// Standard polygon mass/centroid/inertia formula, decomposed into
	// triangles fanned from Vertices[0].
	center := geom2d.Vec2{}
	area := 0.0
	I := 0.0
	origin := p.Vertices[0]
	const inv3 = 1.0 / 3.0
	for i := 1; i+1 < len(p.Vertices); i++ {
		e1 := geom2d.Sub(p.Vertices[i], origin)
		e2 := geom2d.Sub(p.Vertices[i+1], origin)
		d := geom2d.Cross2(e1, e2)
		triArea := 0.5 * d
		area += triArea
		center = geom2d.Add(center, geom2d.Scale(geom2d.Add(e1, e2), triArea*inv3))

		intx2 := e1.X*e1.X + e2.X*e1.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e2.Y*e1.Y + e2.Y*e2.Y
		I += (0.25 * inv3 * d) * (intx2 + inty2)
	}
	mass := density * area
	if area > geom2d.Epsilon {
		center = geom2d.Scale(center, 1.0/area)
	}
	I = density * I
	// Shift I from the fan origin to the centroid, then to the shape
	// origin (parallel axis theorem applied twice).
	I -= mass * geom2d.Dot(center, center)
	trueCenter := geom2d.Add(center, origin)
	I += mass * geom2d.Dot(trueCenter, trueCenter)
	return MassData{Mass: mass, Center: trueCenter, I: I}
}

func (p *Polygon) TestPoint(xf geom2d.Transform, point geom2d.Vec2) bool {
	local := geom2d.InverseTransformPoint(xf, point)
	for i := range p.Vertices {
		if geom2d.Dot(p.Normals[i], geom2d.Sub(local, p.Vertices[i])) > 0 {
			return false
		}
	}
	return true
}

func (p *Polygon) RayCast(input RayCastInput, xf geom2d.Transform, _ int) (RayCastOutput, bool) {
	p1 := geom2d.InverseTransformPoint(xf, input.P1)
	p2 := geom2d.InverseTransformPoint(xf, input.P2)
	d := geom2d.Sub(p2, p1)

	lower, upper := 0.0, input.MaxFraction
	index := -1
	for i := range p.Vertices {
		numerator := geom2d.Dot(p.Normals[i], geom2d.Sub(p.Vertices[i], p1))
		denominator := geom2d.Dot(p.Normals[i], d)
		if denominator == 0 {
			if numerator < 0 {
				return RayCastOutput{}, false
			}
			continue
		}
		t := numerator / denominator
		if denominator < 0 && t > lower {
			lower, index = t, i
		} else if denominator > 0 && t < upper {
			upper = t
		}
		if upper < lower {
			return RayCastOutput{}, false
		}
	}
	if index >= 0 {
		worldNormal := geom2d.Rotate(xf.Q, p.Normals[index])
		return RayCastOutput{Normal: worldNormal, Fraction: lower}, true
	}
	return RayCastOutput{}, false
}

// Chain is an open polyline of N>=2 vertices, decomposed into N-1 Edge
// children whose ghost vertices are populated from their chain
// neighbors.
type Chain struct {
	Vertices []geom2d.Vec2
}

// NewChain builds a Chain shape. ErrInvalidArgument is returned for
// fewer than 2 vertices.
func NewChain(vertices []geom2d.Vec2) (*Chain, error) {
	if len(vertices) < 2 {
		return nil, ErrInvalidArgument
	}
	return &Chain{Vertices: vertices}, nil
}

func (c *Chain) Type() ShapeType { return ChainShape }
func (c *Chain) ChildCount() int { return len(c.Vertices) - 1 }

// edgeAt materializes child i as a ghost-vertex-aware Edge.
func (c *Chain) edgeAt(i int) *Edge {
	e := &Edge{V1: c.Vertices[i], V2: c.Vertices[i+1]}
	if i > 0 {
		e.V0, e.HasVertex0 = c.Vertices[i-1], true
	}
	if i+2 < len(c.Vertices) {
		e.V3, e.HasVertex3 = c.Vertices[i+2], true
	}
	return e
}

func (c *Chain) Proxy(childIndex int) DistanceProxy { return c.edgeAt(childIndex).Proxy(0) }

func (c *Chain) ComputeAABB(xf geom2d.Transform, childIndex int) AABB {
	return c.edgeAt(childIndex).ComputeAABB(xf, 0)
}

func (c *Chain) ComputeMass(float64) MassData { return MassData{} }

func (c *Chain) TestPoint(geom2d.Transform, geom2d.Vec2) bool { return false }

func (c *Chain) RayCast(input RayCastInput, xf geom2d.Transform, childIndex int) (RayCastOutput, bool) {
	return c.edgeAt(childIndex).RayCast(input, xf, 0)
}

// ErrInvalidArgument is returned by shape constructors and World
// creation calls given a value outside its documented domain (negative
// circle radius, a polygon point set whose hull has fewer than 3 or
// more than MaxPolygonVertices vertices, NaN/Inf body position or
// angle, nil shape, negative or NaN density, NaN friction or
// restitution, vertex radius outside World's configured [min, max]).
var ErrInvalidArgument = errors.New("physics: invalid argument")
