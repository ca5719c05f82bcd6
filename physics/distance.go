package physics

import (
	"log/slog"

	"github.com/gazed/rigid2d/math/geom2d"
)

// DistanceInput describes a closest-point query between two proxies
// placed by their respective transforms.
type DistanceInput struct {
	ProxyA, ProxyB   DistanceProxy
	TransformA, TransformB geom2d.Transform
	UseRadii         bool
}

// DistanceOutput is the result of a closest-point query: the nearest
// point on each proxy, the distance between them, and the number of
// GJK iterations the query took.
type DistanceOutput struct {
	PointA, PointB geom2d.Vec2
	Distance       float64
	Iterations     int
}

// SimplexCache lets repeated Distance calls between the same pair of
// fixtures (across steps) reuse the previous step's witness simplex as
// a warm start, the way the velocity solver warm-starts impulses.
type SimplexCache struct {
	Count    int
	IndexA   [3]int
	IndexB   [3]int
}

type simplexVertex struct {
	wA, wB, w geom2d.Vec2
	a         float64 // barycentric weight
	indexA    int
	indexB    int
}

type simplex struct {
	v      [3]simplexVertex
	count  int
}

func (s *simplex) readCache(cache *SimplexCache, proxyA DistanceProxy, xfA geom2d.Transform, proxyB DistanceProxy, xfB geom2d.Transform) {
	s.count = cache.Count
	for i := 0; i < s.count; i++ {
		v := &s.v[i]
		v.indexA = cache.IndexA[i]
		v.indexB = cache.IndexB[i]
		wALocal := proxyA.Vertex(v.indexA)
		wBLocal := proxyB.Vertex(v.indexB)
		v.wA = geom2d.TransformPoint(xfA, wALocal)
		v.wB = geom2d.TransformPoint(xfB, wBLocal)
		v.w = geom2d.Sub(v.wB, v.wA)
		v.a = -1
	}
	if s.count == 0 {
		v := &s.v[0]
		v.indexA, v.indexB = 0, 0
		wALocal := proxyA.Vertex(0)
		wBLocal := proxyB.Vertex(0)
		v.wA = geom2d.TransformPoint(xfA, wALocal)
		v.wB = geom2d.TransformPoint(xfB, wBLocal)
		v.w = geom2d.Sub(v.wB, v.wA)
		v.a = 1
		s.count = 1
	}
}

func (s *simplex) writeCache(cache *SimplexCache) {
	cache.Count = s.count
	for i := 0; i < s.count; i++ {
		cache.IndexA[i] = s.v[i].indexA
		cache.IndexB[i] = s.v[i].indexB
	}
}

func (s *simplex) searchDirection() geom2d.Vec2 {
	switch s.count {
	case 1:
		return geom2d.Neg(s.v[0].w)
	case 2:
		e12 := geom2d.Sub(s.v[1].w, s.v[0].w)
		sgn := geom2d.Cross2(e12, geom2d.Neg(s.v[0].w))
		if sgn > 0 {
			return geom2d.CrossSV(1, e12)
		}
		return geom2d.CrossSV(-1, e12)
	default:
		return geom2d.Vec2{}
	}
}

func (s *simplex) closestPoint() geom2d.Vec2 {
	switch s.count {
	case 1:
		return s.v[0].w
	case 2:
		return geom2d.Add(geom2d.Scale(s.v[0].w, s.v[0].a), geom2d.Scale(s.v[1].w, s.v[1].a))
	default:
		return geom2d.Vec2{}
	}
}

func (s *simplex) witnessPoints() (pA, pB geom2d.Vec2) {
	switch s.count {
	case 1:
		return s.v[0].wA, s.v[0].wB
	case 2:
		pA = geom2d.Add(geom2d.Scale(s.v[0].wA, s.v[0].a), geom2d.Scale(s.v[1].wA, s.v[1].a))
		pB = geom2d.Add(geom2d.Scale(s.v[0].wB, s.v[0].a), geom2d.Scale(s.v[1].wB, s.v[1].a))
		return
	default:
		pA = geom2d.Add(geom2d.Add(geom2d.Scale(s.v[0].wA, s.v[0].a), geom2d.Scale(s.v[1].wA, s.v[1].a)), geom2d.Scale(s.v[2].wA, s.v[2].a))
		pB = pA
		return
	}
}

// solve2 computes barycentric coordinates for the closest point to the
// origin on segment v0-v1, dropping to a single vertex when the origin
// projects outside the segment.
func (s *simplex) solve2() {
	w1, w2 := s.v[0].w, s.v[1].w
	e12 := geom2d.Sub(w2, w1)

	d12_2 := -geom2d.Dot(w1, e12)
	if d12_2 <= 0 {
		s.v[0].a = 1
		s.count = 1
		return
	}
	d12_1 := geom2d.Dot(w2, e12)
	if d12_1 <= 0 {
		s.v[0] = s.v[1]
		s.v[0].a = 1
		s.count = 1
		return
	}
	inv := 1.0 / (d12_1 + d12_2)
	s.v[0].a = d12_1 * inv
	s.v[1].a = d12_2 * inv
	s.count = 2
}

// solve3 handles the degenerate case where the origin lies inside the
// triangle formed by three support points: used only to detect overlap
// (Distance reports zero distance), since shape interpenetration is
// otherwise resolved by CollideShapes rather than Distance.
func (s *simplex) solve3() {
	w1, w2, w3 := s.v[0].w, s.v[1].w, s.v[2].w

	e12 := geom2d.Sub(w2, w1)
	d12_1 := geom2d.Dot(w2, e12)
	d12_2 := -geom2d.Dot(w1, e12)

	e13 := geom2d.Sub(w3, w1)
	d13_1 := geom2d.Dot(w3, e13)
	d13_2 := -geom2d.Dot(w1, e13)

	e23 := geom2d.Sub(w3, w2)
	d23_1 := geom2d.Dot(w3, e23)
	d23_2 := -geom2d.Dot(w2, e23)

	n123 := geom2d.Cross2(e12, e13)

	d123_1 := n123 * geom2d.Cross2(w2, w3)
	d123_2 := n123 * geom2d.Cross2(w3, w1)
	d123_3 := n123 * geom2d.Cross2(w1, w2)

	if d12_2 <= 0 && d13_2 <= 0 {
		s.v[0].a = 1
		s.count = 1
		return
	}
	if d12_1 > 0 && d12_2 > 0 && d123_3 <= 0 {
		inv := 1.0 / (d12_1 + d12_2)
		s.v[0].a = d12_1 * inv
		s.v[1].a = d12_2 * inv
		s.count = 2
		return
	}
	if d13_1 > 0 && d13_2 > 0 && d123_2 <= 0 {
		inv := 1.0 / (d13_1 + d13_2)
		s.v[0].a = d13_1 * inv
		s.v[1] = s.v[2]
		s.v[1].a = d13_2 * inv
		s.count = 2
		return
	}
	if d23_1 <= 0 && d23_2 <= 0 {
		s.v[1].a = 1
		s.v[0] = s.v[1]
		s.count = 1
		return
	}
	if d23_1 > 0 && d23_2 > 0 && d123_1 <= 0 {
		inv := 1.0 / (d23_1 + d23_2)
		s.v[1].a = d23_1 * inv
		s.v[2].a = d23_2 * inv
		s.v[0] = s.v[1]
		s.v[1] = s.v[2]
		s.count = 2
		return
	}
	inv := 1.0 / (d123_1 + d123_2 + d123_3)
	s.v[0].a = d123_1 * inv
	s.v[1].a = d123_2 * inv
	s.v[2].a = d123_3 * inv
	s.count = 3
}

// Distance computes the closest points between two convex proxies by
// the GJK iterative simplex algorithm, specialized to two dimensions
// (so the simplex never needs more than a triangle). cache carries a
// witness simplex between calls for warm-starting; pass a fresh
// &SimplexCache{} for a cold start.
func Distance(input DistanceInput, cache *SimplexCache) DistanceOutput {
	proxyA, proxyB := input.ProxyA, input.ProxyB
	xfA, xfB := input.TransformA, input.TransformB

	var s simplex
	s.readCache(cache, proxyA, xfA, proxyB, xfB)

	const maxIters = 20
	saveA := [3]int{}
	saveB := [3]int{}
	iter := 0
	for ; iter < maxIters; iter++ {
		saveCount := s.count
		for i := 0; i < saveCount; i++ {
			saveA[i] = s.v[i].indexA
			saveB[i] = s.v[i].indexB
		}

		switch s.count {
		case 1:
		case 2:
			s.solve2()
		case 3:
			s.solve3()
		}

		if s.count == 3 {
			break
		}

		d := s.searchDirection()
		if d.LenSqr() < geom2d.Epsilon*geom2d.Epsilon {
			break
		}

		var vertex simplexVertex
		vertex.indexA = proxyA.Support(geom2d.InverseRotate(xfA.Q, geom2d.Neg(d)))
		vertex.wA = geom2d.TransformPoint(xfA, proxyA.Vertex(vertex.indexA))
		vertex.indexB = proxyB.Support(geom2d.InverseRotate(xfB.Q, d))
		vertex.wB = geom2d.TransformPoint(xfB, proxyB.Vertex(vertex.indexB))
		vertex.w = geom2d.Sub(vertex.wB, vertex.wA)

		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vertex.indexA == saveA[i] && vertex.indexB == saveB[i] {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}

		s.v[s.count] = vertex
		s.count++
	}
	if iter == maxIters {
		// Non-convergence is recovered, not surfaced: the best witness
		// pair found so far is still returned below.
		slog.Warn("gjk distance query exhausted its iteration budget",
			"iterations", iter)
	}

	pA, pB := s.witnessPoints()
	distance := geom2d.Dist(pA, pB)
	s.writeCache(cache)

	out := DistanceOutput{PointA: pA, PointB: pB, Distance: distance, Iterations: iter}
	if input.UseRadii {
		if distance < geom2d.Epsilon {
			mid := geom2d.Scale(geom2d.Add(pA, pB), 0.5)
			out.PointA, out.PointB = mid, mid
			out.Distance = 0
			return out
		}
		normal, _ := geom2d.Normalize(geom2d.Sub(pB, pA))
		out.PointA = geom2d.Add(pA, geom2d.Scale(normal, proxyA.Radius))
		out.PointB = geom2d.Sub(pB, geom2d.Scale(normal, proxyB.Radius))
		out.Distance = distance - proxyA.Radius - proxyB.Radius
		if out.Distance < 0 {
			out.Distance = 0
		}
	}
	return out
}
