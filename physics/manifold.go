package physics

import "github.com/gazed/rigid2d/math/geom2d"

// ManifoldType distinguishes how a manifold's points and normal are
// interpreted when the solver reconstructs world-space contact data
// each step (shapes move between manifold generation and solving).
type ManifoldType int

const (
	ManifoldCircles ManifoldType = iota
	ManifoldFaceA
	ManifoldFaceB
)

// ContactFeature identifies which vertex or edge of each shape
// produced a manifold point, so that across steps (as shapes slide)
// the contact's cached impulse can be matched to the "same" physical
// contact point for warm-starting rather than reset to zero.
type ContactFeature struct {
	IndexA, IndexB   int
	TypeA, TypeB     uint8
}

const (
	featureVertex uint8 = iota
	featureFace
)

// ManifoldPoint is one point of contact: a local-space anchor (stored
// in the frame of the shape that does not own the reference face:
// shape B for Circles and FaceA manifolds, shape A for FaceB) plus
// accumulated impulses carried from the previous step for
// warm-starting.
type ManifoldPoint struct {
	LocalPoint     geom2d.Vec2
	NormalImpulse  float64
	TangentImpulse float64
	Feature        ContactFeature
}

// Manifold is the output of CollideShapes: up to two points of contact
// between a shape pair, plus the data needed to reconstruct world-space
// positions and the contact normal on demand.
type Manifold struct {
	Type        ManifoldType
	LocalNormal geom2d.Vec2
	LocalPoint  geom2d.Vec2
	Points      []ManifoldPoint
}

// WorldManifold is a Manifold evaluated at a specific pair of
// transforms: the world-space normal and per-point positions and
// separations the solver actually operates on.
type WorldManifold struct {
	Normal     geom2d.Vec2
	Points     []geom2d.Vec2
	Separations []float64
}

// Evaluate computes the world-space manifold for m at transforms xfA,
// xfB, given the two shapes' rounding radii.
func (m Manifold) Evaluate(xfA geom2d.Transform, radiusA float64, xfB geom2d.Transform, radiusB float64) WorldManifold {
	var wm WorldManifold
	if len(m.Points) == 0 {
		return wm
	}

	switch m.Type {
	case ManifoldCircles:
		normal := geom2d.Vec2{X: 1}
		pointA := geom2d.TransformPoint(xfA, m.LocalPoint)
		pointB := geom2d.TransformPoint(xfB, m.Points[0].LocalPoint)
		if geom2d.DistSqr(pointA, pointB) > geom2d.Epsilon*geom2d.Epsilon {
			normal, _ = geom2d.Normalize(geom2d.Sub(pointB, pointA))
		}
		cA := geom2d.Add(pointA, geom2d.Scale(normal, radiusA))
		cB := geom2d.Sub(pointB, geom2d.Scale(normal, radiusB))
		wm.Normal = normal
		wm.Points = []geom2d.Vec2{geom2d.Scale(geom2d.Add(cA, cB), 0.5)}
		wm.Separations = []float64{geom2d.Dot(geom2d.Sub(cB, cA), normal)}

	case ManifoldFaceA, ManifoldFaceB:
		refXf, refRadius := xfA, radiusA
		incXf, incRadius := xfB, radiusB
		if m.Type == ManifoldFaceB {
			refXf, refRadius, incXf, incRadius = xfB, radiusB, xfA, radiusA
		}
		normal := geom2d.Rotate(refXf.Q, m.LocalNormal)
		planePoint := geom2d.TransformPoint(refXf, m.LocalPoint)

		wm.Normal = normal
		if m.Type == ManifoldFaceB {
			wm.Normal = geom2d.Neg(normal)
		}
		wm.Points = make([]geom2d.Vec2, len(m.Points))
		wm.Separations = make([]float64, len(m.Points))
		for i, p := range m.Points {
			clipPoint := geom2d.TransformPoint(incXf, p.LocalPoint)
			cA := geom2d.Add(clipPoint, geom2d.Scale(normal, refRadius-geom2d.Dot(geom2d.Sub(clipPoint, planePoint), normal)))
			cB := geom2d.Sub(clipPoint, geom2d.Scale(normal, incRadius))
			wm.Points[i] = geom2d.Scale(geom2d.Add(cA, cB), 0.5)
			wm.Separations[i] = geom2d.Dot(geom2d.Sub(cB, cA), normal)
		}
	}
	return wm
}
