package physics

import (
	"math"
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFreeFallUnderGravity checks one dynamic body at (0,1), gravity
// (0,-10), dt=0.01: after one step the velocity is (0,-0.1) and the
// position.y is 0.999.
func TestFreeFallUnderGravity(t *testing.T) {
	w := NewWorld(geom2d.Vec2{X: 0, Y: -10})
	def := DefaultBodyDef()
	def.Type = DynamicBody
	def.Position = geom2d.Vec2{X: 0, Y: 1}
	body, err := w.CreateBody(def)
	require.NoError(t, err)

	conf := DefaultStepConf()
	conf.DT = 0.01
	conf.DoTOI = false
	_, err = w.Step(&conf)
	require.NoError(t, err)

	assert.InDelta(t, 0, body.LinearVelocity().X, 1e-12)
	assert.InDelta(t, -0.1, body.LinearVelocity().Y, 1e-12)
	assert.InDelta(t, 0.999, body.Position().Y, 1e-12)
}

// TestWorldStepLockedDuringStepRejectsMutation checks that a
// BeginContact callback that tries to mutate the world observes
// ErrWorldLocked and the attempted mutation has no effect.
func TestWorldStepLockedDuringStepRejectsMutation(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})
	bodyCountBefore := 0

	listener := &reentrantListener{world: w}
	w.SetContactListener(listener)

	defA := DefaultBodyDef()
	defA.Type = DynamicBody
	defA.Position = geom2d.Vec2{X: -0.5}
	bodyA, err := w.CreateBody(defA)
	require.NoError(t, err)
	_, err = w.CreateFixture(bodyA, fixtureDefWithCircle(1))
	require.NoError(t, err)

	defB := DefaultBodyDef()
	defB.Type = DynamicBody
	defB.Position = geom2d.Vec2{X: 0.5}
	bodyB, err := w.CreateBody(defB)
	require.NoError(t, err)
	_, err = w.CreateFixture(bodyB, fixtureDefWithCircle(1))
	require.NoError(t, err)

	bodyCountBefore = len(w.bodyList)

	conf := DefaultStepConf()
	conf.DT = 0.01
	_, err = w.Step(&conf)
	require.NoError(t, err)

	require.True(t, listener.attempted)
	assert.ErrorIs(t, listener.mutationErr, ErrWorldLocked)
	assert.Equal(t, bodyCountBefore, len(w.bodyList))
	assert.False(t, w.IsLocked())
}

type reentrantListener struct {
	world       *World
	attempted   bool
	mutationErr error
}

func (l *reentrantListener) BeginContact(c *Contact) {
	if l.attempted {
		return
	}
	l.attempted = true
	_, l.mutationErr = l.world.CreateBody(DefaultBodyDef())
}
func (l *reentrantListener) EndContact(c *Contact)                 {}
func (l *reentrantListener) PreSolve(c *Contact, old Manifold)     {}
func (l *reentrantListener) PostSolve(c *Contact, impulse []float64) {}

func fixtureDefWithCircle(radius float64) FixtureDef {
	def := DefaultFixtureDef()
	c, _ := NewCircle(geom2d.Vec2{}, radius)
	def.Shape = c
	def.Density = 1
	def.Restitution = 0
	return def
}

// TestHeadOnCirclesMeetSymmetrically drives two equal circles at each
// other with mirrored velocities and no gravity or restitution: once
// they touch, neither center has crossed the midline and their x
// positions stay equal and opposite.
func TestHeadOnCirclesMeetSymmetrically(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})

	defA := DefaultBodyDef()
	defA.Type = DynamicBody
	defA.Position = geom2d.Vec2{X: -11}
	defA.LinearVelocity = geom2d.Vec2{X: 10}
	bodyA, err := w.CreateBody(defA)
	require.NoError(t, err)
	_, err = w.CreateFixture(bodyA, fixtureDefWithCircle(1))
	require.NoError(t, err)

	defB := DefaultBodyDef()
	defB.Type = DynamicBody
	defB.Position = geom2d.Vec2{X: 11}
	defB.LinearVelocity = geom2d.Vec2{X: -10}
	bodyB, err := w.CreateBody(defB)
	require.NoError(t, err)
	_, err = w.CreateFixture(bodyB, fixtureDefWithCircle(1))
	require.NoError(t, err)

	listener := &touchRecorder{}
	w.SetContactListener(listener)

	conf := DefaultStepConf()
	conf.DT = 0.01
	steps := 0
	for ; steps < 200 && !listener.touched; steps++ {
		_, err := w.Step(&conf)
		require.NoError(t, err)
	}
	require.True(t, listener.touched, "circles should touch within 2 seconds")

	elapsed := float64(steps) * conf.DT
	assert.InDelta(t, 1.01, elapsed, 0.05)
	assert.LessOrEqual(t, bodyA.Position().X, 0.0)
	assert.GreaterOrEqual(t, bodyB.Position().X, 0.0)
	assert.InDelta(t, bodyA.Position().X, -bodyB.Position().X, 1e-6)
}

type touchRecorder struct {
	touched bool
}

func (l *touchRecorder) BeginContact(c *Contact)                   { l.touched = true }
func (l *touchRecorder) EndContact(c *Contact)                     {}
func (l *touchRecorder) PreSolve(c *Contact, old Manifold)         {}
func (l *touchRecorder) PostSolve(c *Contact, impulse []float64)   {}

// TestBulletDoesNotTunnelThroughThinWall fires a small fast bullet body
// at a thin static wall: a discrete step alone would carry it clear
// through, but the TOI sub-step stops it on the near side.
func TestBulletDoesNotTunnelThroughThinWall(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})

	wallDef := DefaultBodyDef()
	wallDef.Type = StaticBody
	wall, err := w.CreateBody(wallDef)
	require.NoError(t, err)
	wallFixture := DefaultFixtureDef()
	wallFixture.Shape = NewBox(0.1, 2)
	_, err = w.CreateFixture(wall, wallFixture)
	require.NoError(t, err)

	bulletDef := DefaultBodyDef()
	bulletDef.Type = DynamicBody
	bulletDef.Position = geom2d.Vec2{X: -2}
	bulletDef.LinearVelocity = geom2d.Vec2{X: 100}
	bulletDef.Bullet = true
	bullet, err := w.CreateBody(bulletDef)
	require.NoError(t, err)
	_, err = w.CreateFixture(bullet, fixtureDefWithCircle(0.25))
	require.NoError(t, err)

	conf := DefaultStepConf()
	conf.DT = 1.0 / 60.0
	for i := 0; i < 60; i++ {
		_, err := w.Step(&conf)
		require.NoError(t, err)
	}

	assert.Less(t, bullet.Position().X, 0.0, "bullet must stay on the near side of the wall")
}

// TestCreateBodyRejectsInvalidAndOverCapacity covers the creation-time
// error paths: NaN positions and the configured body cap.
func TestCreateBodyRejectsInvalidAndOverCapacity(t *testing.T) {
	def := DefaultWorldDef(geom2d.Vec2{})
	def.MaxBodies = 1
	w := NewWorldFromDef(def)

	bad := DefaultBodyDef()
	bad.Position = geom2d.Vec2{X: math.NaN()}
	_, err := w.CreateBody(bad)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = w.CreateBody(DefaultBodyDef())
	require.NoError(t, err)
	_, err = w.CreateBody(DefaultBodyDef())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

// TestCreateFixtureRejectsOutOfRangeVertexRadius covers the world's
// configured vertex radius band.
func TestCreateFixtureRejectsOutOfRangeVertexRadius(t *testing.T) {
	def := DefaultWorldDef(geom2d.Vec2{})
	def.MaxVertexRadius = 2
	w := NewWorldFromDef(def)

	body, err := w.CreateBody(DefaultBodyDef())
	require.NoError(t, err)

	_, err = w.CreateFixture(body, fixtureDefWithCircle(5))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// TestSetEnabledRemovesAndRestoresProxies checks that disabling a body
// removes its broad-phase presence (and contacts) and re-enabling
// restores it.
func TestSetEnabledRemovesAndRestoresProxies(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})
	body := dynamicBodyWithMass(t, w, geom2d.Vec2{})
	require.Len(t, body.fixtures[0].proxies, 1)

	require.NoError(t, body.SetEnabled(false))
	assert.False(t, body.IsEnabled())
	assert.Empty(t, body.fixtures[0].proxies)

	require.NoError(t, body.SetEnabled(true))
	assert.True(t, body.IsEnabled())
	assert.Len(t, body.fixtures[0].proxies, 1)
}

// TestRayCastReportsClosestHitWhenClipping checks the callback contract:
// returning each hit's fraction clips the remaining ray, so the hit
// surviving to the end is the closest one.
func TestRayCastReportsClosestHitWhenClipping(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})

	makeTarget := func(x float64) *Fixture {
		def := DefaultBodyDef()
		def.Position = geom2d.Vec2{X: x}
		body, err := w.CreateBody(def)
		require.NoError(t, err)
		f, err := w.CreateFixture(body, fixtureDefWithCircle(0.5))
		require.NoError(t, err)
		return f
	}
	near := makeTarget(2)
	makeTarget(5)

	var hit *Fixture
	var hitFraction float64
	w.RayCast(geom2d.Vec2{X: -1}, geom2d.Vec2{X: 10}, func(f *Fixture, point, normal geom2d.Vec2, fraction float64) float64 {
		hit = f
		hitFraction = fraction
		return fraction
	})

	require.NotNil(t, hit)
	assert.Same(t, near, hit)
	assert.InDelta(t, (1.5+1.0)/11.0, hitFraction, 1e-6)
}

// TestDestroyBodySaysGoodbyeToFixturesAndJoints checks the destruction
// listener hears about everything destroyed implicitly with its body.
func TestDestroyBodySaysGoodbyeToFixturesAndJoints(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})
	a := dynamicBodyWithMass(t, w, geom2d.Vec2{})
	b := dynamicBodyWithMass(t, w, geom2d.Vec2{X: 5})

	joint := NewDistanceJoint(DistanceJointDef{BodyA: a, BodyB: b, Length: 5})
	require.NoError(t, w.CreateJoint(joint))

	listener := &goodbyeRecorder{}
	w.SetDestructionListener(listener)

	require.NoError(t, w.DestroyBody(a))
	assert.Len(t, listener.fixtures, 1)
	assert.Len(t, listener.joints, 1)
	assert.Empty(t, b.joints, "joint must be unlinked from the surviving body too")
}

type goodbyeRecorder struct {
	fixtures []*Fixture
	joints   []Joint
}

func (l *goodbyeRecorder) SayGoodbyeFixture(f *Fixture) { l.fixtures = append(l.fixtures, f) }
func (l *goodbyeRecorder) SayGoodbyeJoint(j Joint)      { l.joints = append(l.joints, j) }

// TestWarmStartPersistsAcrossSteps checks that every ContactFeature of
// a resting box's contact survives into the next step, which is what
// lets matchWarmStart carry its impulses forward, and that each
// matched point's normal impulse stays non-negative.
func TestWarmStartPersistsAcrossSteps(t *testing.T) {
	w := NewWorld(geom2d.Vec2{X: 0, Y: -10})

	groundDef := DefaultBodyDef()
	groundDef.Type = StaticBody
	ground, err := w.CreateBody(groundDef)
	require.NoError(t, err)
	groundFixture := DefaultFixtureDef()
	groundFixture.Shape = NewBox(10, 1)
	_, err = w.CreateFixture(ground, groundFixture)
	require.NoError(t, err)

	boxDef := DefaultBodyDef()
	boxDef.Type = DynamicBody
	boxDef.Position = geom2d.Vec2{X: 0, Y: 1.05}
	box, err := w.CreateBody(boxDef)
	require.NoError(t, err)
	boxFixture := DefaultFixtureDef()
	boxFixture.Shape = NewBox(1, 1)
	boxFixture.Density = 1
	_, err = w.CreateFixture(box, boxFixture)
	require.NoError(t, err)

	conf := DefaultStepConf()
	conf.DT = 1.0 / 60.0

	var lastContact *Contact
	for i := 0; i < 20; i++ {
		_, err := w.Step(&conf)
		require.NoError(t, err)
	}

	for _, c := range w.contacts {
		if c.IsTouching() {
			lastContact = c
		}
	}
	require.NotNil(t, lastContact, "expected box to be resting on ground by now")

	before := make([]ManifoldPoint, len(lastContact.manifold.Points))
	copy(before, lastContact.manifold.Points)
	require.NotEmpty(t, before)

	_, err = w.Step(&conf)
	require.NoError(t, err)

	var after *Contact
	for _, c := range w.contacts {
		if c == lastContact {
			after = c
		}
	}
	require.NotNil(t, after)
	for _, op := range before {
		found := false
		for _, np := range after.manifold.Points {
			if np.Feature == op.Feature {
				found = true
				assert.GreaterOrEqual(t, np.NormalImpulse, 0.0)
			}
		}
		assert.True(t, found, "contact feature should persist across steps")
	}
}
