package physics

import (
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dynamicBodyWithMass(t *testing.T, w *World, pos geom2d.Vec2) *Body {
	t.Helper()
	def := DefaultBodyDef()
	def.Type = DynamicBody
	def.Position = pos
	body, err := w.CreateBody(def)
	require.NoError(t, err)
	_, err = w.CreateFixture(body, fixtureDefWithCircle(0.5))
	require.NoError(t, err)
	return body
}

func TestApplyLinearImpulseChangesVelocityImmediately(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})
	body := dynamicBodyWithMass(t, w, geom2d.Vec2{})

	body.ApplyLinearImpulse(geom2d.Vec2{X: 2}, body.WorldCenter(), true)

	assert.InDelta(t, 2*body.invMass, body.LinearVelocity().X, 1e-9)
	assert.InDelta(t, 0, body.AngularVelocity(), 1e-9)
}

func TestApplyLinearImpulseOffCenterAddsSpin(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})
	body := dynamicBodyWithMass(t, w, geom2d.Vec2{})

	point := geom2d.Add(body.WorldCenter(), geom2d.Vec2{Y: 0.5})
	body.ApplyLinearImpulse(geom2d.Vec2{X: 1}, point, true)

	assert.NotEqual(t, 0.0, body.AngularVelocity())
}

func TestSetAwakeFalseZeroesVelocityButNotPosition(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})
	body := dynamicBodyWithMass(t, w, geom2d.Vec2{X: 3, Y: 4})
	body.ApplyLinearImpulse(geom2d.Vec2{X: 1}, body.WorldCenter(), true)
	require.NotEqual(t, 0.0, body.LinearVelocity().X)

	body.SetAwake(false)

	assert.Equal(t, geom2d.Vec2{}, body.LinearVelocity())
	assert.Equal(t, 0.0, body.AngularVelocity())
	assert.False(t, body.IsAwake())
	assert.Equal(t, geom2d.Vec2{X: 3, Y: 4}, body.Position())
}

func TestSetAwakeOnStaticBodyIsNoOp(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})
	def := DefaultBodyDef()
	def.Type = StaticBody
	body, err := w.CreateBody(def)
	require.NoError(t, err)

	body.SetAwake(false)
	assert.False(t, body.IsAwake())
	body.SetAwake(true)
	assert.False(t, body.IsAwake(), "a static body never reports awake")
}

func TestSetAwakeTruePropagatesAcrossTouchingContact(t *testing.T) {
	w := NewWorld(geom2d.Vec2{X: 0, Y: -10})
	a := dynamicBodyWithMass(t, w, geom2d.Vec2{})
	b := dynamicBodyWithMass(t, w, geom2d.Vec2{X: 0.9})

	contact := touchingContact(a, b)
	linkContact(a, b, contact)

	a.SetAwake(false)
	b.SetAwake(false)
	require.False(t, a.IsAwake())
	require.False(t, b.IsAwake())

	a.SetAwake(true)
	assert.True(t, b.IsAwake(), "waking a should wake b across their touching contact")
}
