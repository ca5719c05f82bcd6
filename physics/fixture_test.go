package physics

import (
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
)

func TestShouldCollideFilterGroupOverridesCategory(t *testing.T) {
	a := Filter{CategoryBits: 0x1, MaskBits: 0x0, GroupIndex: 5}
	b := Filter{CategoryBits: 0x2, MaskBits: 0x0, GroupIndex: 5}
	assert.True(t, shouldCollideFilter(a, b), "matching positive group always collides")

	a.GroupIndex, b.GroupIndex = -3, -3
	assert.False(t, shouldCollideFilter(a, b), "matching negative group never collides")
}

func TestShouldCollideFilterFallsBackToCategoryMask(t *testing.T) {
	a := Filter{CategoryBits: 0x1, MaskBits: 0x2}
	b := Filter{CategoryBits: 0x2, MaskBits: 0x1}
	assert.True(t, shouldCollideFilter(a, b))

	c := Filter{CategoryBits: 0x4, MaskBits: 0x4}
	assert.False(t, shouldCollideFilter(a, c))
}

func TestFixtureTestPointUsesBodyTransform(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})
	def := DefaultBodyDef()
	def.Position = geom2d.Vec2{X: 2, Y: 0}
	body, err := w.CreateBody(def)
	assert.NoError(t, err)

	circle, _ := NewCircle(geom2d.Vec2{}, 1)
	fdef := DefaultFixtureDef()
	fdef.Shape = circle
	fixture, err := w.CreateFixture(body, fdef)
	assert.NoError(t, err)

	assert.True(t, fixture.TestPoint(geom2d.Vec2{X: 2, Y: 0.5}))
	assert.False(t, fixture.TestPoint(geom2d.Vec2{X: 2, Y: 5}))
}
