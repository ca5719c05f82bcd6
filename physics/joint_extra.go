package physics

import "github.com/gazed/rigid2d/math/geom2d"

// The joint kinds below are built the same way as revoluteJoint and
// distanceJoint but each constrains a narrower degree of freedom, so
// the per-joint math is correspondingly shorter. Weld and rope joints
// have velocity and position passes; mouse and friction joints are
// velocity-only (their position pass moves nothing and reports done).

// WeldJointDef rigidly fuses two bodies at a shared anchor, locking
// both relative translation and rotation.
type WeldJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB geom2d.Vec2
	ReferenceAngle             float64
	CollideConnected           bool
}

type weldJoint struct {
	jointBase
	localAnchorA, localAnchorB geom2d.Vec2
	referenceAngle             float64

	rA, rB  geom2d.Vec2
	impulse [3]float64 // (angular, linear.x, linear.y)
}

// NewWeldJoint constructs a joint that removes all relative motion
// between two bodies.
func NewWeldJoint(def WeldJointDef) *weldJoint {
	return &weldJoint{
		jointBase: jointBase{jtype: WeldJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected},
		localAnchorA: def.LocalAnchorA, localAnchorB: def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
	}
}

func (j *weldJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) {
	return geom2d.TransformPoint(j.bodyA.xf, j.localAnchorA), geom2d.TransformPoint(j.bodyB.xf, j.localAnchorB)
}
func (j *weldJoint) ReactionForce(invDt float64) geom2d.Vec2 {
	return geom2d.Scale(geom2d.Vec2{X: j.impulse[1], Y: j.impulse[2]}, invDt)
}
func (j *weldJoint) ReactionTorque(invDt float64) float64 { return invDt * j.impulse[0] }

func (j *weldJoint) initVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	j.invMassA, j.invMassB, j.invIA, j.invIB = bA.invMass, bB.invMass, bA.invI, bB.invI
	j.rA = geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	j.rB = geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))
}

func (j *weldJoint) solveVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB

	if iA+iB > 0 {
		cdotAngular := bB.angularVelocity - bA.angularVelocity
		impulse := -cdotAngular / (iA + iB)
		j.impulse[0] += impulse
		bA.angularVelocity -= iA * impulse
		bB.angularVelocity += iB * impulse
	}

	vA := geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, j.rA))
	vB := geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, j.rB))
	cdot := geom2d.Sub(vB, vA)

	k := geom2d.Mat22{}
	k.Col1.X = mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k.Col1.Y = -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k.Col2.X = k.Col1.Y
	k.Col2.Y = mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	impulse := k.Solve(geom2d.Neg(cdot))
	j.impulse[1] += impulse.X
	j.impulse[2] += impulse.Y

	bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(impulse, mA))
	bA.angularVelocity -= iA * geom2d.Cross2(j.rA, impulse)
	bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(impulse, mB))
	bB.angularVelocity += iB * geom2d.Cross2(j.rB, impulse)
}

func (j *weldJoint) solvePositionConstraints(data *solverData) bool {
	bA, bB := j.bodyA, j.bodyB
	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB

	angularError := 0.0
	if iA+iB > 0 {
		c := bB.sweep.Pos1.Angular - bA.sweep.Pos1.Angular - j.referenceAngle
		impulse := -c / (iA + iB)
		bA.sweep.Pos1.Angular -= iA * impulse
		bB.sweep.Pos1.Angular += iB * impulse
		angularError = geom2d.Clamp(c, -1, 1)
		if angularError < 0 {
			angularError = -angularError
		}
	}

	rA := geom2d.Rotate(geom2d.NewRot(bA.sweep.Pos1.Angular), geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(geom2d.NewRot(bB.sweep.Pos1.Angular), geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))
	c := geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, rB), geom2d.Add(bA.sweep.Pos1.Linear, rA))
	positionError := c.Len()

	k := geom2d.Mat22{}
	k.Col1.X = mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k.Col1.Y = -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k.Col2.X = k.Col1.Y
	k.Col2.Y = mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X
	impulse := geom2d.Neg(k.Solve(c))

	bA.sweep.Pos1.Linear = geom2d.Sub(bA.sweep.Pos1.Linear, geom2d.Scale(impulse, mA))
	bA.sweep.Pos1.Angular -= iA * geom2d.Cross2(rA, impulse)
	bB.sweep.Pos1.Linear = geom2d.Add(bB.sweep.Pos1.Linear, geom2d.Scale(impulse, mB))
	bB.sweep.Pos1.Angular += iB * geom2d.Cross2(rB, impulse)
	bA.synchronizeTransform()
	bB.synchronizeTransform()

	return positionError < 0.005 && angularError < 0.05
}

// MouseJointDef drags a point on BodyB toward a world target, used for
// interactive picking; it has no BodyA counterpart constraint (BodyA
// is conventionally a static anchor body).
type MouseJointDef struct {
	BodyA, BodyB *Body
	Target       geom2d.Vec2
	MaxForce     float64
	Stiffness    float64
	Damping      float64
}

type mouseJoint struct {
	jointBase
	localAnchorB geom2d.Vec2
	target       geom2d.Vec2
	maxForce     float64
	stiffness, damping float64

	impulse geom2d.Vec2
	beta, gamma float64
	rB     geom2d.Vec2
	mass   geom2d.Mat22
	c0     geom2d.Vec2
}

// NewMouseJoint constructs a soft point-to-point constraint.
func NewMouseJoint(def MouseJointDef) *mouseJoint {
	j := &mouseJoint{
		jointBase: jointBase{jtype: MouseJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: true},
		target:    def.Target,
		maxForce:  def.MaxForce,
		stiffness: def.Stiffness,
		damping:   def.Damping,
	}
	j.localAnchorB = geom2d.InverseTransformPoint(def.BodyB.xf, def.Target)
	return j
}

// SetTarget updates the world point the joint pulls BodyB toward.
func (j *mouseJoint) SetTarget(target geom2d.Vec2) { j.target = target }

func (j *mouseJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) { return j.target, j.target }
func (j *mouseJoint) ReactionForce(invDt float64) geom2d.Vec2 {
	return geom2d.Scale(j.impulse, invDt)
}
func (j *mouseJoint) ReactionTorque(float64) float64 { return 0 }

func (j *mouseJoint) initVelocityConstraints(data *solverData) {
	bB := j.bodyB
	j.invMassB, j.invIB = bB.invMass, bB.invI
	j.rB = geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))

	k := geom2d.Mat22{}
	k.Col1.X = j.invMassB + j.invIB*j.rB.Y*j.rB.Y
	k.Col1.Y = -j.invIB * j.rB.X * j.rB.Y
	k.Col2.X = k.Col1.Y
	k.Col2.Y = j.invMassB + j.invIB*j.rB.X*j.rB.X
	j.mass = k

	j.c0 = geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, j.rB), j.target)
}

func (j *mouseJoint) solveVelocityConstraints(data *solverData) {
	bB := j.bodyB
	cdot := geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, j.rB))
	cdot = geom2d.Add(cdot, geom2d.Scale(j.c0, j.beta))

	impulse := j.mass.Solve(geom2d.Neg(cdot))
	oldImpulse := j.impulse
	j.impulse = geom2d.Add(j.impulse, impulse)
	maxImpulse := j.maxForce * data.dt
	if j.impulse.Len() > maxImpulse {
		j.impulse = geom2d.Scale(j.impulse, maxImpulse/j.impulse.Len())
	}
	impulse = geom2d.Sub(j.impulse, oldImpulse)

	bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(impulse, j.invMassB))
	bB.angularVelocity += j.invIB * geom2d.Cross2(j.rB, impulse)
}

func (j *mouseJoint) solvePositionConstraints(*solverData) bool { return true }

// RopeJointDef caps the maximum distance between two anchors without
// pulling them together, the one-sided cousin of DistanceJoint.
type RopeJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB geom2d.Vec2
	MaxLength                  float64
	CollideConnected           bool
}

type ropeJoint struct {
	jointBase
	localAnchorA, localAnchorB geom2d.Vec2
	maxLength                  float64

	u       geom2d.Vec2
	mass    float64
	impulse float64
	length  float64
}

// NewRopeJoint constructs a maximum-distance constraint.
func NewRopeJoint(def RopeJointDef) *ropeJoint {
	return &ropeJoint{
		jointBase: jointBase{jtype: RopeJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected},
		localAnchorA: def.LocalAnchorA, localAnchorB: def.LocalAnchorB,
		maxLength: def.MaxLength,
	}
}

func (j *ropeJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) {
	return geom2d.TransformPoint(j.bodyA.xf, j.localAnchorA), geom2d.TransformPoint(j.bodyB.xf, j.localAnchorB)
}
func (j *ropeJoint) ReactionForce(invDt float64) geom2d.Vec2 { return geom2d.Scale(j.u, j.impulse*invDt) }
func (j *ropeJoint) ReactionTorque(float64) float64          { return 0 }

func (j *ropeJoint) initVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	j.invMassA, j.invMassB, j.invIA, j.invIB = bA.invMass, bB.invMass, bA.invI, bB.invI

	rA := geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))
	j.u = geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, rB), geom2d.Add(bA.sweep.Pos1.Linear, rA))
	j.length = j.u.Len()

	c := j.length - j.maxLength
	if c > 0 {
		// taut: behaves like a rigid distance joint this step
	}
	if j.length > geom2d.Epsilon {
		j.u = geom2d.Scale(j.u, 1/j.length)
	}
	crA, crB := geom2d.Cross2(rA, j.u), geom2d.Cross2(rB, j.u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	if invMass > 0 {
		j.mass = 1 / invMass
	}
}

func (j *ropeJoint) solveVelocityConstraints(data *solverData) {
	if j.length <= j.maxLength {
		j.impulse = 0
		return
	}
	bA, bB := j.bodyA, j.bodyB
	rA := geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))

	vpA := geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, rA))
	vpB := geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, rB))
	cdot := geom2d.Dot(j.u, geom2d.Sub(vpB, vpA))

	c := j.length - j.maxLength
	impulse := -j.mass * (cdot + maxFloat(c, 0)/0.016)
	oldImpulse := j.impulse
	j.impulse = minFloat(0, oldImpulse+impulse)
	impulse = j.impulse - oldImpulse

	p := geom2d.Scale(j.u, impulse)
	bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(p, j.invMassA))
	bA.angularVelocity -= j.invIA * geom2d.Cross2(rA, p)
	bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(p, j.invMassB))
	bB.angularVelocity += j.invIB * geom2d.Cross2(rB, p)
}

func (j *ropeJoint) solvePositionConstraints(*solverData) bool {
	bA, bB := j.bodyA, j.bodyB
	rA := geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))
	d := geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, rB), geom2d.Add(bA.sweep.Pos1.Linear, rA))
	length := d.Len()
	c := geom2d.Clamp(length-j.maxLength, 0, 0.2)
	if c == 0 {
		return true
	}
	u := geom2d.Vec2{}
	if length > geom2d.Epsilon {
		u = geom2d.Scale(d, 1/length)
	}
	crA, crB := geom2d.Cross2(rA, u), geom2d.Cross2(rB, u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	var impulse float64
	if invMass > 0 {
		impulse = -c / invMass
	}
	p := geom2d.Scale(u, impulse)
	bA.sweep.Pos1.Linear = geom2d.Sub(bA.sweep.Pos1.Linear, geom2d.Scale(p, j.invMassA))
	bA.sweep.Pos1.Angular -= j.invIA * geom2d.Cross2(rA, p)
	bB.sweep.Pos1.Linear = geom2d.Add(bB.sweep.Pos1.Linear, geom2d.Scale(p, j.invMassB))
	bB.sweep.Pos1.Angular += j.invIB * geom2d.Cross2(rB, p)
	bA.synchronizeTransform()
	bB.synchronizeTransform()
	return c < 0.01
}

// FrictionJointDef applies bounded linear and angular friction between
// two bodies without pinning any relative position, used to damp
// relative sliding (e.g. a top-down "dry ground" drag).
type FrictionJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB geom2d.Vec2
	MaxForce, MaxTorque        float64
	CollideConnected           bool
}

type frictionJoint struct {
	jointBase
	localAnchorA, localAnchorB geom2d.Vec2
	maxForce, maxTorque        float64

	rA, rB         geom2d.Vec2
	linearImpulse  geom2d.Vec2
	angularImpulse float64
	linearMass     geom2d.Mat22
	angularMass    float64
}

// NewFrictionJoint constructs a bounded friction constraint.
func NewFrictionJoint(def FrictionJointDef) *frictionJoint {
	return &frictionJoint{
		jointBase: jointBase{jtype: FrictionJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected},
		localAnchorA: def.LocalAnchorA, localAnchorB: def.LocalAnchorB,
		maxForce: def.MaxForce, maxTorque: def.MaxTorque,
	}
}

func (j *frictionJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) {
	return geom2d.TransformPoint(j.bodyA.xf, j.localAnchorA), geom2d.TransformPoint(j.bodyB.xf, j.localAnchorB)
}
func (j *frictionJoint) ReactionForce(invDt float64) geom2d.Vec2 {
	return geom2d.Scale(j.linearImpulse, invDt)
}
func (j *frictionJoint) ReactionTorque(invDt float64) float64 { return invDt * j.angularImpulse }

func (j *frictionJoint) initVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	j.invMassA, j.invMassB, j.invIA, j.invIB = bA.invMass, bB.invMass, bA.invI, bB.invI
	j.rA = geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	j.rB = geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))

	if j.invIA+j.invIB > 0 {
		j.angularMass = 1 / (j.invIA + j.invIB)
	}
	k := geom2d.Mat22{}
	k.Col1.X = j.invMassA + j.invMassB + j.invIA*j.rA.Y*j.rA.Y + j.invIB*j.rB.Y*j.rB.Y
	k.Col1.Y = -j.invIA*j.rA.X*j.rA.Y - j.invIB*j.rB.X*j.rB.Y
	k.Col2.X = k.Col1.Y
	k.Col2.Y = j.invMassA + j.invMassB + j.invIA*j.rA.X*j.rA.X + j.invIB*j.rB.X*j.rB.X
	j.linearMass = k
}

func (j *frictionJoint) solveVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB

	cdotAngular := bB.angularVelocity - bA.angularVelocity
	impulse := -j.angularMass * cdotAngular
	oldImpulse := j.angularImpulse
	maxImpulse := j.maxTorque * data.dt
	j.angularImpulse = geom2d.Clamp(oldImpulse+impulse, -maxImpulse, maxImpulse)
	impulse = j.angularImpulse - oldImpulse
	bA.angularVelocity -= j.invIA * impulse
	bB.angularVelocity += j.invIB * impulse

	vA := geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, j.rA))
	vB := geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, j.rB))
	cdot := geom2d.Sub(vB, vA)

	linImpulse := j.linearMass.Solve(geom2d.Neg(cdot))
	oldLinear := j.linearImpulse
	j.linearImpulse = geom2d.Add(j.linearImpulse, linImpulse)
	maxLinear := j.maxForce * data.dt
	if j.linearImpulse.Len() > maxLinear {
		j.linearImpulse = geom2d.Scale(j.linearImpulse, maxLinear/j.linearImpulse.Len())
	}
	linImpulse = geom2d.Sub(j.linearImpulse, oldLinear)

	bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(linImpulse, j.invMassA))
	bA.angularVelocity -= j.invIA * geom2d.Cross2(j.rA, linImpulse)
	bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(linImpulse, j.invMassB))
	bB.angularVelocity += j.invIB * geom2d.Cross2(j.rB, linImpulse)
}

func (j *frictionJoint) solvePositionConstraints(*solverData) bool { return true }

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
