package physics

import (
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoxIsConvexCCWWithOrthogonalNormals(t *testing.T) {
	box := NewBox(1, 1)
	n := len(box.Vertices)
	require.Equal(t, 4, n)
	for i := 0; i < n; i++ {
		edge := geom2d.Sub(box.Vertices[(i+1)%n], box.Vertices[i])
		assert.InDelta(t, 0, geom2d.Dot(box.Normals[i], edge), 1e-9)
		assert.True(t, geom2d.IsValidUnit(box.Normals[i]))
	}
}

func TestNewPolygonRejectsDegenerateInput(t *testing.T) {
	_, err := NewPolygon([]geom2d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCircleComputeAABB(t *testing.T) {
	c, err := NewCircle(geom2d.Vec2{}, 0.5)
	require.NoError(t, err)
	xf := geom2d.NewTransform(geom2d.Vec2{X: 2, Y: 3}, geom2d.NewRot(0))
	aabb := c.ComputeAABB(xf, 0)
	assert.InDelta(t, 1.5, aabb.LowerBound.X, 1e-9)
	assert.InDelta(t, 2.5, aabb.LowerBound.Y, 1e-9)
	assert.InDelta(t, 2.5, aabb.UpperBound.X, 1e-9)
	assert.InDelta(t, 3.5, aabb.UpperBound.Y, 1e-9)
}

func TestChainChildCountAndEdgeGhostVertices(t *testing.T) {
	chain, err := NewChain([]geom2d.Vec2{{X: 0}, {X: 1}, {X: 2}, {X: 3}})
	require.NoError(t, err)
	require.Equal(t, 3, chain.ChildCount())

	middle := chain.edgeAt(1)
	assert.True(t, middle.HasVertex0)
	assert.True(t, middle.HasVertex3)
	assert.Equal(t, geom2d.Vec2{X: 0}, middle.V0)
	assert.Equal(t, geom2d.Vec2{X: 3}, middle.V3)

	first := chain.edgeAt(0)
	assert.False(t, first.HasVertex0)
	assert.True(t, first.HasVertex3)
}
