package physics

import (
	"math"
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDistanceJointHoldsBodiesApart checks a rigid distance joint: two
// dynamic bodies starting closer together than the joint's rest length
// get pulled apart (against gravity pulling them down together) until
// their separation converges on Length.
func TestDistanceJointHoldsBodiesApart(t *testing.T) {
	w := NewWorld(geom2d.Vec2{X: 0, Y: -10})

	defA := DefaultBodyDef()
	defA.Type = DynamicBody
	defA.Position = geom2d.Vec2{X: 0, Y: 0}
	bodyA, err := w.CreateBody(defA)
	require.NoError(t, err)
	_, err = w.CreateFixture(bodyA, fixtureDefWithCircle(0.2))
	require.NoError(t, err)

	defB := DefaultBodyDef()
	defB.Type = DynamicBody
	defB.Position = geom2d.Vec2{X: 0, Y: -1}
	bodyB, err := w.CreateBody(defB)
	require.NoError(t, err)
	_, err = w.CreateFixture(bodyB, fixtureDefWithCircle(0.2))
	require.NoError(t, err)

	joint := NewDistanceJoint(DistanceJointDef{
		BodyA:  bodyA,
		BodyB:  bodyB,
		Length: 3,
	})
	require.NoError(t, w.CreateJoint(joint))

	conf := DefaultStepConf()
	conf.DT = 1.0 / 60.0
	conf.DoTOI = false
	for i := 0; i < 120; i++ {
		_, err := w.Step(&conf)
		require.NoError(t, err)
	}

	sep := bodyA.Position().Y - bodyB.Position().Y
	assert.InDelta(t, 3, sep, 0.05)
}

// TestDistanceJointDestroyUnlinksBoth checks that DestroyJoint removes
// the joint from the world's joint list and both bodies' joint edges,
// so a later step no longer constrains their separation.
func TestDistanceJointDestroyUnlinksBoth(t *testing.T) {
	w := NewWorld(geom2d.Vec2{})

	defA := DefaultBodyDef()
	bodyA, err := w.CreateBody(defA)
	require.NoError(t, err)
	defB := DefaultBodyDef()
	bodyB, err := w.CreateBody(defB)
	require.NoError(t, err)

	joint := NewDistanceJoint(DistanceJointDef{BodyA: bodyA, BodyB: bodyB, Length: 1})
	require.NoError(t, w.CreateJoint(joint))
	require.Len(t, w.joints, 1)
	require.Len(t, bodyA.joints, 1)
	require.Len(t, bodyB.joints, 1)

	require.NoError(t, w.DestroyJoint(joint))
	assert.Empty(t, w.joints)
	assert.Empty(t, bodyA.joints)
	assert.Empty(t, bodyB.joints)
}

// TestRevoluteJointMotorDrivesAngularVelocity checks that a revolute
// joint's motor, enabled with enough torque budget, converges bodyB's
// angular velocity on MotorSpeed relative to bodyA after enough
// velocity-constraint iterations within a single solve.
func TestRevoluteJointMotorDrivesAngularVelocity(t *testing.T) {
	bodyA := &Body{bodyType: StaticBody}
	bodyA.mass, bodyA.invMass = 0, 0
	bodyA.i, bodyA.invI = 0, 0
	bodyA.xf = geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))

	bodyB := &Body{bodyType: DynamicBody}
	bodyB.mass, bodyB.invMass = 1, 1
	bodyB.i, bodyB.invI = 1, 1
	bodyB.xf = geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))

	joint := NewRevoluteJoint(RevoluteJointDef{
		BodyA: bodyA, BodyB: bodyB,
		EnableMotor:    true,
		MotorSpeed:     math.Pi,
		MaxMotorTorque: 1000,
	})

	data := &solverData{dt: 1.0 / 60.0, invDt: 60}
	joint.initVelocityConstraints(data)
	for i := 0; i < 50; i++ {
		joint.solveVelocityConstraints(data)
	}

	assert.InDelta(t, math.Pi, bodyB.angularVelocity-bodyA.angularVelocity, 1e-6)
}

// TestWeldJointLocksRelativeAngularVelocity checks that a weld joint's
// angular constraint alone (isolated from the linear term by zero
// anchor offsets) drives bodyB's spin to match bodyA's after one solve.
func TestWeldJointLocksRelativeAngularVelocity(t *testing.T) {
	bodyA := &Body{bodyType: StaticBody}
	bodyA.xf = geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))

	bodyB := &Body{bodyType: DynamicBody}
	bodyB.mass, bodyB.invMass = 1, 1
	bodyB.i, bodyB.invI = 1, 1
	bodyB.xf = geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))
	bodyB.angularVelocity = 2

	joint := NewWeldJoint(WeldJointDef{BodyA: bodyA, BodyB: bodyB})
	data := &solverData{dt: 1.0 / 60.0, invDt: 60}
	joint.initVelocityConstraints(data)
	joint.solveVelocityConstraints(data)

	assert.InDelta(t, 0, bodyB.angularVelocity-bodyA.angularVelocity, 1e-9)
}

// TestFrictionJointDampsRelativeVelocity checks that a friction joint
// with enough force/torque budget zeroes the relative linear velocity
// between two anchor points coincident with each body's origin.
func TestFrictionJointDampsRelativeVelocity(t *testing.T) {
	bodyA := &Body{bodyType: StaticBody}
	bodyA.xf = geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))

	bodyB := &Body{bodyType: DynamicBody}
	bodyB.mass, bodyB.invMass = 1, 1
	bodyB.i, bodyB.invI = 1, 1
	bodyB.xf = geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))
	bodyB.linearVelocity = geom2d.Vec2{X: 5}

	joint := NewFrictionJoint(FrictionJointDef{BodyA: bodyA, BodyB: bodyB, MaxForce: 1000, MaxTorque: 1000})
	data := &solverData{dt: 1.0 / 60.0, invDt: 60}
	joint.initVelocityConstraints(data)
	for i := 0; i < 5; i++ {
		joint.solveVelocityConstraints(data)
	}

	assert.InDelta(t, 0, bodyB.linearVelocity.X, 1e-6)
}

// TestPrismaticJointMotorDrivesAlongAxis checks that a prismatic
// joint's motor converges the relative velocity along its axis on
// MotorSpeed.
func TestPrismaticJointMotorDrivesAlongAxis(t *testing.T) {
	bodyA := &Body{bodyType: StaticBody}
	bodyA.xf = geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))

	bodyB := &Body{bodyType: DynamicBody}
	bodyB.mass, bodyB.invMass = 1, 1
	bodyB.i, bodyB.invI = 1, 1
	bodyB.xf = geom2d.NewTransform(geom2d.Vec2{X: 1}, geom2d.NewRot(0))

	joint := NewPrismaticJoint(PrismaticJointDef{
		BodyA: bodyA, BodyB: bodyB,
		LocalAxisA:    geom2d.Vec2{X: 1},
		EnableMotor:   true,
		MotorSpeed:    2,
		MaxMotorForce: 1000,
	})

	data := &solverData{dt: 1.0 / 60.0, invDt: 60}
	joint.initVelocityConstraints(data)
	for i := 0; i < 30; i++ {
		joint.solveVelocityConstraints(data)
	}

	assert.InDelta(t, 2, bodyB.linearVelocity.X, 1e-6)
}
