package physics

import (
	"math"
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCollidePolygonsIdenticalOverlap mirrors the "two identical
// overlapping unit squares" scenario: every face reports the same -2
// separation, the first-encountered-wins tie-break picks face 0 (the
// +x face) as the reference, and the manifold reports that face's
// midpoint with the incident square's two -x vertices clipped in.
func TestCollidePolygonsIdenticalOverlap(t *testing.T) {
	box := NewBox(1, 1)
	identity := geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))

	m := CollidePolygons(box, identity, box, identity)
	require.Equal(t, ManifoldFaceA, m.Type)
	assert.InDelta(t, 1, m.LocalNormal.X, 1e-9)
	assert.InDelta(t, 0, m.LocalNormal.Y, 1e-9)
	assert.Equal(t, geom2d.Vec2{X: 1, Y: 0}, m.LocalPoint)

	require.Len(t, m.Points, 2)
	assert.Equal(t, geom2d.Vec2{X: -1, Y: 1}, m.Points[0].LocalPoint)
	assert.Equal(t, geom2d.Vec2{X: -1, Y: -1}, m.Points[1].LocalPoint)
	for _, p := range m.Points {
		assert.Equal(t, uint8(featureFace), p.Feature.TypeA)
		assert.Equal(t, 0, p.Feature.IndexA)
		assert.Equal(t, uint8(featureVertex), p.Feature.TypeB)
	}
	assert.Equal(t, 2, m.Points[0].Feature.IndexB)
	assert.Equal(t, 3, m.Points[1].Feature.IndexB)
}

// TestCollidePolygonAndCircleCornerContact has a unit circle resting
// on a triangle's top vertex: a vertex-vertex contact, so the manifold
// is Circles — the polygon's vertex and the circle's center in their
// respective local frames, with no face normal defined.
func TestCollidePolygonAndCircleCornerContact(t *testing.T) {
	triangle := &Polygon{
		Vertices: []geom2d.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 0, Y: 1}},
		Normals: []geom2d.UnitVec{
			{X: 0, Y: -1},
			{X: 2 / math.Sqrt(5), Y: 1 / math.Sqrt(5)},
			{X: -2 / math.Sqrt(5), Y: 1 / math.Sqrt(5)},
		},
	}
	circle, err := NewCircle(geom2d.Vec2{X: 0, Y: 2}, 1)
	require.NoError(t, err)
	identity := geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))

	m := CollidePolygonAndCircle(triangle, identity, circle, identity)
	require.Len(t, m.Points, 1)
	assert.Equal(t, ManifoldCircles, m.Type)
	assert.Equal(t, geom2d.UnitZero, m.LocalNormal)
	assert.Equal(t, geom2d.Vec2{X: 0, Y: 1}, m.LocalPoint)
	assert.Equal(t, geom2d.Vec2{X: 0, Y: 2}, m.Points[0].LocalPoint)
	assert.Equal(t, uint8(featureVertex), m.Points[0].Feature.TypeA)
	assert.Equal(t, 2, m.Points[0].Feature.IndexA)
	assert.Equal(t, uint8(featureVertex), m.Points[0].Feature.TypeB)
}

// TestCollideEdgeAndPolygonFace has an edge lying beneath a unit box;
// it reports a FaceA manifold with the box's two bottom corners clipped
// in, exercising the Edge.asPolygon() narrow-phase path.
func TestCollideEdgeAndPolygonFace(t *testing.T) {
	edge := NewEdge(geom2d.Vec2{X: -1}, geom2d.Vec2{X: 1})
	edgeXf := geom2d.NewTransform(geom2d.Vec2{X: 0, Y: -1}, geom2d.NewRot(0))
	box := NewBox(1, 1)
	boxXf := geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))

	m := CollideShapes(edge, edgeXf, 0, box, boxXf, 0)
	require.Equal(t, ManifoldFaceA, m.Type)
	assert.InDelta(t, 0, m.LocalNormal.X, 1e-9)
	assert.InDelta(t, 1, m.LocalNormal.Y, 1e-9)
	require.Len(t, m.Points, 2)

	wm := m.Evaluate(edgeXf, 0, boxXf, 0)
	require.Len(t, wm.Points, 2)
	for _, s := range wm.Separations {
		assert.InDelta(t, 0, s, 1e-9)
	}
}

// TestCollidePolygonAndCircleRotatedFace covers a rotated rectangle
// touching a circle along its local +X face.
func TestCollidePolygonAndCircleRotatedFace(t *testing.T) {
	rect := NewBox(2.2, 4.8)
	rectXf := geom2d.NewTransform(geom2d.Vec2{X: -1}, geom2d.NewRot(math.Pi/4))
	circle, err := NewCircle(geom2d.Vec2{}, 1)
	require.NoError(t, err)
	circleXf := geom2d.NewTransform(geom2d.Vec2{X: 3}, geom2d.NewRot(0))

	m := CollidePolygonAndCircle(rect, rectXf, circle, circleXf)
	require.Len(t, m.Points, 1)
	assert.Equal(t, ManifoldFaceA, m.Type)
	assert.InDelta(t, 1, m.LocalNormal.X, 1e-9)
	assert.InDelta(t, 0, m.LocalNormal.Y, 1e-9)
	assert.InDelta(t, 2.2, m.LocalPoint.X, 1e-6)
	assert.InDelta(t, 0, m.LocalPoint.Y, 1e-6)
}

// TestCollideCirclesNoOverlapReturnsEmpty checks the trivial rejection
// path: two circles far enough apart never produce a manifold point.
func TestCollideCirclesNoOverlapReturnsEmpty(t *testing.T) {
	a, _ := NewCircle(geom2d.Vec2{}, 1)
	b, _ := NewCircle(geom2d.Vec2{}, 1)
	xfA := geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))
	xfB := geom2d.NewTransform(geom2d.Vec2{X: 10}, geom2d.NewRot(0))
	m := CollideCircles(a, xfA, b, xfB)
	assert.Empty(t, m.Points)
}
