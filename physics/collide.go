package physics

import "github.com/gazed/rigid2d/math/geom2d"

// CollideCircles produces the (at most one point) manifold between two
// circles.
func CollideCircles(a *Circle, xfA geom2d.Transform, b *Circle, xfB geom2d.Transform) Manifold {
	pA := geom2d.TransformPoint(xfA, a.Center)
	pB := geom2d.TransformPoint(xfB, b.Center)
	dist := geom2d.Dist(pA, pB)
	radius := a.Radius + b.Radius
	if dist > radius {
		return Manifold{}
	}
	return Manifold{
		Type:       ManifoldCircles,
		LocalPoint: a.Center,
		Points: []ManifoldPoint{{
			LocalPoint: b.Center,
			Feature:    ContactFeature{TypeA: featureVertex, TypeB: featureVertex},
		}},
	}
}

// CollidePolygonAndCircle produces the manifold between a convex
// polygon and a circle.
func CollidePolygonAndCircle(poly *Polygon, xfA geom2d.Transform, circle *Circle, xfB geom2d.Transform) Manifold {
	c := geom2d.InverseTransformPoint(xfA, geom2d.TransformPoint(xfB, circle.Center))

	// Find the polygon edge with maximum separation from the circle
	// center.
	sepMax := -1e300
	normalIndex := 0
	for i, v := range poly.Vertices {
		s := geom2d.Dot(poly.Normals[i], geom2d.Sub(c, v))
		if s > sepMax {
			sepMax, normalIndex = s, i
		}
	}
	radius := poly.Radius + circle.Radius
	if sepMax > radius {
		return Manifold{}
	}

	n := len(poly.Vertices)
	v1 := poly.Vertices[normalIndex]
	v2 := poly.Vertices[(normalIndex+1)%n]

	// A circle center past either end of the incident edge meets the
	// polygon at that vertex: a vertex-vertex contact with no defined
	// face normal, reported as a Circles manifold keyed on the polygon
	// vertex. Only the on-face region produces a FaceA manifold.
	circlesAt := func(v geom2d.Vec2, vertexIndex int) Manifold {
		if geom2d.DistSqr(c, v) > radius*radius {
			return Manifold{}
		}
		return Manifold{
			Type:       ManifoldCircles,
			LocalPoint: v,
			Points: []ManifoldPoint{{
				LocalPoint: circle.Center,
				Feature:    ContactFeature{TypeA: featureVertex, IndexA: vertexIndex, TypeB: featureVertex},
			}},
		}
	}

	var localNormal, localPoint geom2d.Vec2

	if sepMax < geom2d.Epsilon {
		localNormal = poly.Normals[normalIndex]
		localPoint = geom2d.Scale(geom2d.Add(v1, v2), 0.5)
	} else {
		u1 := geom2d.Dot(geom2d.Sub(c, v1), geom2d.Sub(v2, v1))
		u2 := geom2d.Dot(geom2d.Sub(c, v2), geom2d.Sub(v1, v2))
		switch {
		case u1 <= 0:
			return circlesAt(v1, normalIndex)
		case u2 <= 0:
			return circlesAt(v2, (normalIndex+1)%n)
		default:
			faceCenter := geom2d.Scale(geom2d.Add(v1, v2), 0.5)
			sep := geom2d.Dot(geom2d.Sub(c, faceCenter), poly.Normals[normalIndex])
			if sep > radius {
				return Manifold{}
			}
			localNormal = poly.Normals[normalIndex]
			localPoint = faceCenter
		}
	}

	return Manifold{
		Type:        ManifoldFaceA,
		LocalNormal: localNormal,
		LocalPoint:  localPoint,
		Points: []ManifoldPoint{{
			LocalPoint: circle.Center,
			Feature:    ContactFeature{TypeA: featureFace, IndexA: normalIndex, TypeB: featureVertex},
		}},
	}
}

// maxSeparation finds the edge of poly1 (in poly2's local frame) with
// the greatest separation from poly2, the support of the separating
// axis test the face clip needs to pick a reference face.
func maxSeparation(poly1, poly2 *Polygon, xf1, xf2 geom2d.Transform) (float64, int) {
	xf := geom2d.MulTTransforms(xf2, xf1)
	bestSep, bestIndex := -1e300, 0
	for i, n1 := range poly1.Normals {
		v1 := geom2d.TransformPoint(xf, poly1.Vertices[i])
		n := geom2d.Rotate(xf.Q, n1)

		minSep := 1e300
		for _, v2 := range poly2.Vertices {
			s := geom2d.Dot(n, geom2d.Sub(v2, v1))
			if s < minSep {
				minSep = s
			}
		}
		if minSep > bestSep {
			bestSep, bestIndex = minSep, i
		}
	}
	return bestSep, bestIndex
}

type clipVertex struct {
	v geom2d.Vec2
	f ContactFeature
}

// findIncidentEdge returns the two vertices of poly2's edge most
// anti-parallel to poly1's reference-face normal.
func findIncidentEdge(poly1 *Polygon, xf1 geom2d.Transform, edge1 int, poly2 *Polygon, xf2 geom2d.Transform) [2]clipVertex {
	normal1 := geom2d.InverseRotate(xf2.Q, geom2d.Rotate(xf1.Q, poly1.Normals[edge1]))

	index, minDot := 0, 1e300
	for i, n2 := range poly2.Normals {
		d := geom2d.Dot(normal1, n2)
		if d < minDot {
			minDot, index = d, i
		}
	}
	n := len(poly2.Vertices)
	i1, i2 := index, (index+1)%n
	return [2]clipVertex{
		{v: geom2d.TransformPoint(xf2, poly2.Vertices[i1]), f: ContactFeature{TypeA: featureFace, IndexA: edge1, TypeB: featureVertex, IndexB: i1}},
		{v: geom2d.TransformPoint(xf2, poly2.Vertices[i2]), f: ContactFeature{TypeA: featureFace, IndexA: edge1, TypeB: featureVertex, IndexB: i2}},
	}
}

// clipSegmentToLine clips the two-point segment vIn against the
// half-plane {x : dot(normal,x) <= offset}, the core step of the
// Sutherland-Hodgman polygon clip specialized to a fixed two-point
// input and output.
func clipSegmentToLine(vIn [2]clipVertex, normal geom2d.Vec2, offset float64, vertexIndexA int) ([2]clipVertex, int) {
	var vOut [2]clipVertex
	count := 0

	dist0 := geom2d.Dot(normal, vIn[0].v) - offset
	dist1 := geom2d.Dot(normal, vIn[1].v) - offset

	if dist0 <= 0 {
		vOut[count] = vIn[0]
		count++
	}
	if dist1 <= 0 {
		vOut[count] = vIn[1]
		count++
	}

	if dist0*dist1 < 0 {
		interp := dist0 / (dist0 - dist1)
		v := geom2d.Add(vIn[0].v, geom2d.Scale(geom2d.Sub(vIn[1].v, vIn[0].v), interp))
		vOut[count] = clipVertex{v: v, f: ContactFeature{TypeA: featureVertex, IndexA: vertexIndexA, TypeB: featureFace, IndexB: vIn[0].f.IndexB}}
		count++
	}
	return vOut, count
}

// CollidePolygons produces the (zero, one, or two point) manifold
// between two convex polygons via separating-axis reference-face
// selection followed by a Sutherland-Hodgman-style clip of the
// incident edge against the reference face's side planes — the
// polygon-polygon routine the simpler single-axis circle and
// circle/polygon cases above don't need.
func CollidePolygons(polyA *Polygon, xfA geom2d.Transform, polyB *Polygon, xfB geom2d.Transform) Manifold {
	totalRadius := polyA.Radius + polyB.Radius

	sepA, edgeA := maxSeparation(polyA, polyB, xfA, xfB)
	if sepA > totalRadius {
		return Manifold{}
	}
	sepB, edgeB := maxSeparation(polyB, polyA, xfB, xfA)
	if sepB > totalRadius {
		return Manifold{}
	}

	var (
		poly1, poly2     *Polygon
		xf1, xf2         geom2d.Transform
		edge1            int
		flip             bool
		mtype            ManifoldType
	)
	// Prefer A's face unless B's separation is larger by more than a
	// small margin, so the reference side doesn't flip-flop as nearly
	// equal separations trade places by float noise across steps.
	const tol = 5e-4
	if sepB > sepA+tol {
		poly1, xf1, poly2, xf2, edge1, flip, mtype = polyB, xfB, polyA, xfA, edgeB, true, ManifoldFaceB
	} else {
		poly1, xf1, poly2, xf2, edge1, flip, mtype = polyA, xfA, polyB, xfB, edgeA, false, ManifoldFaceA
	}

	incident := findIncidentEdge(poly1, xf1, edge1, poly2, xf2)

	n1 := len(poly1.Vertices)
	i1, i2 := edge1, (edge1+1)%n1
	v11, v12 := poly1.Vertices[i1], poly1.Vertices[i2]
	localTangent, _ := geom2d.Normalize(geom2d.Sub(v12, v11))
	tangent := geom2d.Rotate(xf1.Q, localTangent)
	normal := geom2d.CrossVS(tangent, 1)

	v11w := geom2d.TransformPoint(xf1, v11)
	v12w := geom2d.TransformPoint(xf1, v12)

	frontOffset := geom2d.Dot(normal, v11w)
	sideOffset1 := -geom2d.Dot(tangent, v11w) + totalRadius
	sideOffset2 := geom2d.Dot(tangent, v12w) + totalRadius

	clip1, n1count := clipSegmentToLine(incident, geom2d.Neg(tangent), sideOffset1, i1)
	if n1count < 2 {
		return Manifold{}
	}
	clip2, n2count := clipSegmentToLine(clip1, tangent, sideOffset2, i2)
	if n2count < 2 {
		return Manifold{}
	}

	m := Manifold{Type: mtype}
	m.LocalNormal = geom2d.InverseRotate(xf1.Q, normal)
	m.LocalPoint = geom2d.Scale(geom2d.Add(v11, v12), 0.5)

	for i := 0; i < 2; i++ {
		separation := geom2d.Dot(normal, clip2[i].v) - frontOffset
		if separation > totalRadius {
			continue
		}
		localPoint := geom2d.InverseTransformPoint(xf2, clip2[i].v)
		feature := clip2[i].f
		if flip {
			feature.IndexA, feature.IndexB = feature.IndexB, feature.IndexA
			feature.TypeA, feature.TypeB = feature.TypeB, feature.TypeA
		}
		m.Points = append(m.Points, ManifoldPoint{LocalPoint: localPoint, Feature: feature})
	}
	return m
}

// childShape resolves the child-index convention every Shape exposes
// down to a concrete Circle or Polygon, the only two shapes the
// collide routines below know about. Edge and Chain children re-express
// as Edge.asPolygon's degenerate two-vertex Polygon.
func childShape(s Shape, child int) Shape {
	switch v := s.(type) {
	case *Edge:
		return v.asPolygon()
	case *Chain:
		return v.edgeAt(child).asPolygon()
	default:
		return v
	}
}

// CollideShapes dispatches to the concrete pairwise routine above
// based on the two shapes' runtime types, matching CollideCircles,
// CollidePolygonAndCircle, or CollidePolygons's point-convention so the
// caller's contact bookkeeping can stay type-agnostic. childA/childB
// select which child of a Chain (or the sole child of any other shape)
// participates, per Fixture's per-proxy child-index convention.
func CollideShapes(shapeA Shape, xfA geom2d.Transform, childA int, shapeB Shape, xfB geom2d.Transform, childB int) Manifold {
	switch a := childShape(shapeA, childA).(type) {
	case *Circle:
		switch b := childShape(shapeB, childB).(type) {
		case *Circle:
			return CollideCircles(a, xfA, b, xfB)
		case *Polygon:
			m := CollidePolygonAndCircle(b, xfB, a, xfA)
			return flipManifold(m)
		}
	case *Polygon:
		switch b := childShape(shapeB, childB).(type) {
		case *Circle:
			return CollidePolygonAndCircle(a, xfA, b, xfB)
		case *Polygon:
			return CollidePolygons(a, xfA, b, xfB)
		}
	}
	return Manifold{}
}

// flipManifold swaps the roles of shape A and B in a manifold — used
// when CollideShapes is called with a pair whose natural routine
// expects operands in the opposite order. Face manifolds toggle their
// type (the reference face changes owner); Circles manifolds swap the
// two local points, since LocalPoint lives in A's frame and the single
// manifold point in B's. Contact features swap sides either way so
// warm-start matching stays keyed on the right shape.
func flipManifold(m Manifold) Manifold {
	if len(m.Points) == 0 {
		return m
	}
	switch m.Type {
	case ManifoldCircles:
		m.LocalPoint, m.Points[0].LocalPoint = m.Points[0].LocalPoint, m.LocalPoint
	case ManifoldFaceA:
		m.Type = ManifoldFaceB
	case ManifoldFaceB:
		m.Type = ManifoldFaceA
	}
	for i := range m.Points {
		f := &m.Points[i].Feature
		f.TypeA, f.TypeB = f.TypeB, f.TypeA
		f.IndexA, f.IndexB = f.IndexB, f.IndexA
	}
	return m
}
