package physics

import (
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifoldEvaluateCirclesComputesMidpointAndSeparation(t *testing.T) {
	a, _ := NewCircle(geom2d.Vec2{}, 1)
	b, _ := NewCircle(geom2d.Vec2{}, 1)
	xfA := geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))
	xfB := geom2d.NewTransform(geom2d.Vec2{X: 1.5}, geom2d.NewRot(0))

	m := CollideCircles(a, xfA, b, xfB)
	require.Len(t, m.Points, 1)

	wm := m.Evaluate(xfA, a.Radius, xfB, b.Radius)
	require.Len(t, wm.Points, 1)
	assert.Equal(t, geom2d.Vec2{X: 1, Y: 0}, wm.Normal)
	assert.InDelta(t, 0.75, wm.Points[0].X, 1e-9)
	assert.InDelta(t, -0.5, wm.Separations[0], 1e-9)
}

func TestManifoldEvaluateFaceBFlipsNormal(t *testing.T) {
	box := NewBox(1, 1)
	identity := geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))

	m := CollidePolygons(box, identity, box, identity)
	require.Equal(t, ManifoldFaceA, m.Type)

	flipped := flipManifold(m)
	require.Equal(t, ManifoldFaceB, flipped.Type)

	wmA := m.Evaluate(identity, 0, identity, 0)
	wmB := flipped.Evaluate(identity, 0, identity, 0)
	assert.InDelta(t, wmA.Normal.X, -wmB.Normal.X, 1e-9)
	assert.InDelta(t, wmA.Normal.Y, -wmB.Normal.Y, 1e-9)
}
