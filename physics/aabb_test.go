package physics

import (
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
)

func TestAABBOverlapsAndContains(t *testing.T) {
	a := AABB{LowerBound: geom2d.Vec2{X: 0, Y: 0}, UpperBound: geom2d.Vec2{X: 2, Y: 2}}
	b := AABB{LowerBound: geom2d.Vec2{X: 1, Y: 1}, UpperBound: geom2d.Vec2{X: 3, Y: 3}}
	c := AABB{LowerBound: geom2d.Vec2{X: 10, Y: 10}, UpperBound: geom2d.Vec2{X: 12, Y: 12}}

	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
	assert.True(t, a.Contains(AABB{LowerBound: geom2d.Vec2{X: 0.5, Y: 0.5}, UpperBound: geom2d.Vec2{X: 1.5, Y: 1.5}}))
	assert.False(t, a.Contains(b))
}

func TestAABBUnionAndExtend(t *testing.T) {
	a := AABB{LowerBound: geom2d.Vec2{X: 0, Y: 0}, UpperBound: geom2d.Vec2{X: 1, Y: 1}}
	b := AABB{LowerBound: geom2d.Vec2{X: 2, Y: -1}, UpperBound: geom2d.Vec2{X: 3, Y: 0.5}}
	u := Union(a, b)
	assert.Equal(t, geom2d.Vec2{X: 0, Y: -1}, u.LowerBound)
	assert.Equal(t, geom2d.Vec2{X: 3, Y: 1}, u.UpperBound)

	fat := a.Extend(0.5)
	assert.Equal(t, geom2d.Vec2{X: -0.5, Y: -0.5}, fat.LowerBound)
	assert.Equal(t, geom2d.Vec2{X: 1.5, Y: 1.5}, fat.UpperBound)
}

func TestAABBRayCastHitsAndMisses(t *testing.T) {
	box := AABB{LowerBound: geom2d.Vec2{X: -1, Y: -1}, UpperBound: geom2d.Vec2{X: 1, Y: 1}}

	hit := box.RayCast(RayCastInput{P1: geom2d.Vec2{X: -5, Y: 0}, P2: geom2d.Vec2{X: 5, Y: 0}, MaxFraction: 1})
	assert.True(t, hit)

	miss := box.RayCast(RayCastInput{P1: geom2d.Vec2{X: -5, Y: 5}, P2: geom2d.Vec2{X: 5, Y: 5}, MaxFraction: 1})
	assert.False(t, miss)

	tooShort := box.RayCast(RayCastInput{P1: geom2d.Vec2{X: 5, Y: 0}, P2: geom2d.Vec2{X: -5, Y: 0}, MaxFraction: 0.01})
	assert.False(t, tooShort)
}
