package physics

import "github.com/gazed/rigid2d/math/geom2d"

// The joints in this file see lighter use in typical scenes (sliders,
// pulleys, gears) so they get a single combined velocity+position pass
// rather than revoluteJoint's separate limit/motor/point stages — the
// same simplification PlayRho's WheelJoint takes relative to its
// RevoluteJoint.

// PrismaticJointDef constrains a body to slide along an axis fixed in
// BodyA, eliminating relative rotation and off-axis translation.
type PrismaticJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB geom2d.Vec2
	LocalAxisA                 geom2d.Vec2
	ReferenceAngle             float64
	EnableLimit                bool
	LowerTranslation, UpperTranslation float64
	EnableMotor                bool
	MotorSpeed, MaxMotorForce  float64
	CollideConnected           bool
}

type prismaticJoint struct {
	jointBase
	localAnchorA, localAnchorB geom2d.Vec2
	localAxisA                 geom2d.UnitVec
	referenceAngle             float64
	enableLimit, enableMotor   bool
	lower, upper               float64
	motorSpeed, maxMotorForce  float64

	axis, perp geom2d.Vec2
	s1, s2     float64
	a1, a2     float64
	k11, k12, k22 float64
	impulse    geom2d.Vec2 // (perp, angular)
	motorImpulse float64
	axialMass  float64
}

// NewPrismaticJoint constructs a slider joint along LocalAxisA.
func NewPrismaticJoint(def PrismaticJointDef) *prismaticJoint {
	axis, _ := geom2d.Normalize(def.LocalAxisA)
	return &prismaticJoint{
		jointBase: jointBase{jtype: PrismaticJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected},
		localAnchorA: def.LocalAnchorA, localAnchorB: def.LocalAnchorB,
		localAxisA:     axis,
		referenceAngle: def.ReferenceAngle,
		enableLimit:    def.EnableLimit,
		lower:          def.LowerTranslation,
		upper:          def.UpperTranslation,
		enableMotor:    def.EnableMotor,
		motorSpeed:     def.MotorSpeed,
		maxMotorForce:  def.MaxMotorForce,
	}
}

func (j *prismaticJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) {
	return geom2d.TransformPoint(j.bodyA.xf, j.localAnchorA), geom2d.TransformPoint(j.bodyB.xf, j.localAnchorB)
}
func (j *prismaticJoint) ReactionForce(invDt float64) geom2d.Vec2 {
	return geom2d.Scale(geom2d.Add(geom2d.Scale(j.perp, j.impulse.X), geom2d.Scale(j.axis, j.motorImpulse)), invDt)
}
func (j *prismaticJoint) ReactionTorque(invDt float64) float64 { return invDt * j.impulse.Y }

func (j *prismaticJoint) translation() float64 {
	bA, bB := j.bodyA, j.bodyB
	d := geom2d.Sub(bB.sweep.Pos1.Linear, bA.sweep.Pos1.Linear)
	axis := geom2d.Rotate(bA.xf.Q, j.localAxisA)
	return geom2d.Dot(d, axis)
}

func (j *prismaticJoint) initVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	j.invMassA, j.invMassB, j.invIA, j.invIB = bA.invMass, bB.invMass, bA.invI, bB.invI

	rA := geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))
	d := geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, rB), geom2d.Add(bA.sweep.Pos1.Linear, rA))

	j.axis = geom2d.Rotate(bA.xf.Q, j.localAxisA)
	j.a1 = geom2d.Cross2(geom2d.Add(d, rA), j.axis)
	j.a2 = geom2d.Cross2(rB, j.axis)

	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB
	k := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	if k > 0 {
		j.axialMass = 1 / k
	}

	j.perp = geom2d.Vec2{X: -j.axis.Y, Y: j.axis.X}
	j.s1 = geom2d.Cross2(geom2d.Add(d, rA), j.perp)
	j.s2 = geom2d.Cross2(rB, j.perp)

	j.k11 = mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	j.k12 = iA*j.s1 + iB*j.s2
	j.k22 = iA + iB
	if j.k22 == 0 {
		j.k22 = 1
	}
}

func (j *prismaticJoint) solveVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB

	if j.enableMotor {
		cdot := geom2d.Dot(j.axis, geom2d.Sub(bB.linearVelocity, bA.linearVelocity)) + j.a2*bB.angularVelocity - j.a1*bA.angularVelocity
		impulse := j.axialMass * (j.motorSpeed - cdot)
		old := j.motorImpulse
		maxImpulse := j.maxMotorForce * data.dt
		j.motorImpulse = geom2d.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old

		p := geom2d.Scale(j.axis, impulse)
		la, lb := impulse*j.a1, impulse*j.a2
		bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(p, mA))
		bA.angularVelocity -= iA * la
		bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(p, mB))
		bB.angularVelocity += iB * lb
	}

	cdot1 := geom2d.Dot(j.perp, geom2d.Sub(bB.linearVelocity, bA.linearVelocity)) + j.s2*bB.angularVelocity - j.s1*bA.angularVelocity
	cdot2 := bB.angularVelocity - bA.angularVelocity

	k := geom2d.Mat22{Col1: geom2d.Vec2{X: j.k11, Y: j.k12}, Col2: geom2d.Vec2{X: j.k12, Y: j.k22}}
	impulse := k.Solve(geom2d.Vec2{X: -cdot1, Y: -cdot2})
	j.impulse = geom2d.Add(j.impulse, impulse)

	p := geom2d.Scale(j.perp, impulse.X)
	la := impulse.X*j.s1 + impulse.Y
	lb := impulse.X*j.s2 + impulse.Y
	bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(p, mA))
	bA.angularVelocity -= iA * la
	bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(p, mB))
	bB.angularVelocity += iB * lb
}

func (j *prismaticJoint) solvePositionConstraints(*solverData) bool {
	bA, bB := j.bodyA, j.bodyB
	rA := geom2d.Rotate(geom2d.NewRot(bA.sweep.Pos1.Angular), geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(geom2d.NewRot(bB.sweep.Pos1.Angular), geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))
	d := geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, rB), geom2d.Add(bA.sweep.Pos1.Linear, rA))

	axis := geom2d.Rotate(geom2d.NewRot(bA.sweep.Pos1.Angular), j.localAxisA)
	a1 := geom2d.Cross2(geom2d.Add(d, rA), axis)
	a2 := geom2d.Cross2(rB, axis)
	perp := geom2d.Vec2{X: -axis.Y, Y: axis.X}
	s1 := geom2d.Cross2(geom2d.Add(d, rA), perp)
	s2 := geom2d.Cross2(rB, perp)

	c1 := geom2d.Dot(perp, d)
	c2 := bB.sweep.Pos1.Angular - bA.sweep.Pos1.Angular - j.referenceAngle

	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB
	k11 := mA + mB + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}
	k := geom2d.Mat22{Col1: geom2d.Vec2{X: k11, Y: k12}, Col2: geom2d.Vec2{X: k12, Y: k22}}
	impulse := k.Solve(geom2d.Vec2{X: -c1, Y: -c2})

	p := geom2d.Scale(perp, impulse.X)
	la := impulse.X*s1 + impulse.Y
	lb := impulse.X*s2 + impulse.Y
	bA.sweep.Pos1.Linear = geom2d.Sub(bA.sweep.Pos1.Linear, geom2d.Scale(p, mA))
	bA.sweep.Pos1.Angular -= iA * la
	bB.sweep.Pos1.Linear = geom2d.Add(bB.sweep.Pos1.Linear, geom2d.Scale(p, mB))
	bB.sweep.Pos1.Angular += iB * lb
	bA.synchronizeTransform()
	bB.synchronizeTransform()

	_ = a1
	_ = a2
	return (c1*c1 + c2*c2) < 0.005*0.005
}

// WheelJointDef is a prismatic-style suspension axis combined with a
// free-spinning wheel rotation, the spring/damper left for the caller
// to approximate with repeated ApplyForce calls rather than modeled
// as its own soft constraint (kept to the same scope as
// PrismaticJoint rather than introducing a second soft-constraint
// implementation like distanceJoint's).
type WheelJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB geom2d.Vec2
	LocalAxisA                 geom2d.Vec2
	EnableMotor                bool
	MotorSpeed, MaxMotorTorque float64
	CollideConnected           bool
}

type wheelJoint struct {
	prismaticJoint
}

// NewWheelJoint constructs a suspension joint; translation limits are
// left disabled since a wheel's suspension travel is usually governed
// by a spring the caller drives externally.
func NewWheelJoint(def WheelJointDef) *wheelJoint {
	w := &wheelJoint{prismaticJoint: *NewPrismaticJoint(PrismaticJointDef{
		BodyA: def.BodyA, BodyB: def.BodyB,
		LocalAnchorA: def.LocalAnchorA, LocalAnchorB: def.LocalAnchorB,
		LocalAxisA:  def.LocalAxisA,
		EnableMotor: def.EnableMotor, MotorSpeed: def.MotorSpeed, MaxMotorForce: def.MaxMotorTorque,
	})}
	w.jtype = WheelJoint
	return w
}

// MotorJointDef drives the relative pose between two bodies toward a
// target offset and angle, the way a kinematic-character "glue" joint
// does, rather than constraining it exactly like WeldJoint.
type MotorJointDef struct {
	BodyA, BodyB     *Body
	LinearOffset     geom2d.Vec2
	AngularOffset    float64
	MaxForce         float64
	MaxTorque        float64
	CorrectionFactor float64
	CollideConnected bool
}

type motorJoint struct {
	jointBase
	linearOffset     geom2d.Vec2
	angularOffset    float64
	maxForce         float64
	maxTorque        float64
	correctionFactor float64

	rA, rB         geom2d.Vec2
	linearImpulse  geom2d.Vec2
	angularImpulse float64
	linearMass     geom2d.Mat22
	angularMass    float64
	linearError    geom2d.Vec2
	angularError   float64
}

// NewMotorJoint constructs a soft target-tracking joint.
func NewMotorJoint(def MotorJointDef) *motorJoint {
	cf := def.CorrectionFactor
	if cf == 0 {
		cf = 0.3
	}
	return &motorJoint{
		jointBase:        jointBase{jtype: MotorJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected},
		linearOffset:     def.LinearOffset,
		angularOffset:    def.AngularOffset,
		maxForce:         def.MaxForce,
		maxTorque:        def.MaxTorque,
		correctionFactor: cf,
	}
}

func (j *motorJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) {
	return j.bodyA.sweep.Pos1.Linear, j.bodyB.sweep.Pos1.Linear
}
func (j *motorJoint) ReactionForce(invDt float64) geom2d.Vec2 {
	return geom2d.Scale(j.linearImpulse, invDt)
}
func (j *motorJoint) ReactionTorque(invDt float64) float64 { return invDt * j.angularImpulse }

func (j *motorJoint) initVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	j.invMassA, j.invMassB, j.invIA, j.invIB = bA.invMass, bB.invMass, bA.invI, bB.invI

	j.angularError = bB.sweep.Pos1.Angular - bA.sweep.Pos1.Angular - j.angularOffset
	if j.invIA+j.invIB > 0 {
		j.angularMass = 1 / (j.invIA + j.invIB)
	}

	j.rA = geom2d.Rotate(bA.xf.Q, geom2d.Sub(geom2d.Vec2{}, bA.sweep.LocalCenter))
	j.rB = geom2d.Rotate(bB.xf.Q, geom2d.Sub(geom2d.Vec2{}, bB.sweep.LocalCenter))

	j.linearError = geom2d.Sub(geom2d.Sub(bB.sweep.Pos1.Linear, bA.sweep.Pos1.Linear),
		geom2d.Rotate(geom2d.NewRot(bA.sweep.Pos1.Angular), j.linearOffset))

	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB
	k := geom2d.Mat22{}
	k.Col1.X = mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k.Col1.Y = -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k.Col2.X = k.Col1.Y
	k.Col2.Y = mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.linearMass = k
}

func (j *motorJoint) solveVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB
	invH := 0.0
	if data.dt > 0 {
		invH = 1 / data.dt
	}

	cdotAngular := bB.angularVelocity - bA.angularVelocity + invH*j.correctionFactor*j.angularError
	impulse := -j.angularMass * cdotAngular
	old := j.angularImpulse
	maxImpulse := j.maxTorque * data.dt
	j.angularImpulse = geom2d.Clamp(old+impulse, -maxImpulse, maxImpulse)
	impulse = j.angularImpulse - old
	bA.angularVelocity -= iA * impulse
	bB.angularVelocity += iB * impulse

	vA := geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, j.rA))
	vB := geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, j.rB))
	cdot := geom2d.Add(geom2d.Sub(vB, vA), geom2d.Scale(j.linearError, invH*j.correctionFactor))

	linImpulse := j.linearMass.Solve(geom2d.Neg(cdot))
	oldLinear := j.linearImpulse
	j.linearImpulse = geom2d.Add(j.linearImpulse, linImpulse)
	maxLinear := j.maxForce * data.dt
	if j.linearImpulse.Len() > maxLinear {
		j.linearImpulse = geom2d.Scale(j.linearImpulse, maxLinear/j.linearImpulse.Len())
	}
	linImpulse = geom2d.Sub(j.linearImpulse, oldLinear)

	bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(linImpulse, mA))
	bA.angularVelocity -= iA * geom2d.Cross2(j.rA, linImpulse)
	bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(linImpulse, mB))
	bB.angularVelocity += iB * geom2d.Cross2(j.rB, linImpulse)
}

func (j *motorJoint) solvePositionConstraints(*solverData) bool { return true }

// PulleyJointDef couples two bodies through a fixed-length "rope" run
// over two ground anchors, so that shortening one side lengthens the
// other by the pulley ratio.
type PulleyJointDef struct {
	BodyA, BodyB               *Body
	GroundAnchorA, GroundAnchorB geom2d.Vec2
	LocalAnchorA, LocalAnchorB geom2d.Vec2
	LengthA, LengthB           float64
	Ratio                      float64
}

type pulleyJoint struct {
	jointBase
	groundAnchorA, groundAnchorB geom2d.Vec2
	localAnchorA, localAnchorB   geom2d.Vec2
	lengthA, lengthB             float64
	ratio                        float64
	constant                     float64

	uA, uB  geom2d.Vec2
	rA, rB  geom2d.Vec2
	mass    float64
	impulse float64
}

// NewPulleyJoint constructs a pulley constraint; a zero Ratio is
// treated as 1 (an even pulley).
func NewPulleyJoint(def PulleyJointDef) *pulleyJoint {
	ratio := def.Ratio
	if ratio == 0 {
		ratio = 1
	}
	return &pulleyJoint{
		jointBase:     jointBase{jtype: PulleyJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: true},
		groundAnchorA: def.GroundAnchorA, groundAnchorB: def.GroundAnchorB,
		localAnchorA: def.LocalAnchorA, localAnchorB: def.LocalAnchorB,
		lengthA: def.LengthA, lengthB: def.LengthB,
		ratio:    ratio,
		constant: def.LengthA + ratio*def.LengthB,
	}
}

func (j *pulleyJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) {
	return geom2d.TransformPoint(j.bodyA.xf, j.localAnchorA), geom2d.TransformPoint(j.bodyB.xf, j.localAnchorB)
}
func (j *pulleyJoint) ReactionForce(invDt float64) geom2d.Vec2 {
	return geom2d.Scale(j.uB, j.impulse*invDt)
}
func (j *pulleyJoint) ReactionTorque(float64) float64 { return 0 }

func (j *pulleyJoint) initVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	j.invMassA, j.invMassB, j.invIA, j.invIB = bA.invMass, bB.invMass, bA.invI, bB.invI

	j.rA = geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	j.rB = geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))

	pA := geom2d.Add(bA.sweep.Pos1.Linear, j.rA)
	pB := geom2d.Add(bB.sweep.Pos1.Linear, j.rB)

	j.uA = geom2d.Sub(pA, j.groundAnchorA)
	j.uB = geom2d.Sub(pB, j.groundAnchorB)

	lenA, lenB := j.uA.Len(), j.uB.Len()
	if lenA > 10*geom2d.Epsilon {
		j.uA = geom2d.Scale(j.uA, 1/lenA)
	} else {
		j.uA = geom2d.Vec2{}
	}
	if lenB > 10*geom2d.Epsilon {
		j.uB = geom2d.Scale(j.uB, 1/lenB)
	} else {
		j.uB = geom2d.Vec2{}
	}

	ruA := geom2d.Cross2(j.rA, j.uA)
	ruB := geom2d.Cross2(j.rB, j.uB)

	mA := j.invMassA + j.invIA*ruA*ruA
	mB := j.invMassB + j.invIB*ruB*ruB
	k := mA + j.ratio*j.ratio*mB
	if k > 0 {
		j.mass = 1 / k
	}
}

func (j *pulleyJoint) solveVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	vpA := geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, j.rA))
	vpB := geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, j.rB))

	cdot := -geom2d.Dot(j.uA, vpA) - j.ratio*geom2d.Dot(j.uB, vpB)
	impulse := -j.mass * cdot
	j.impulse += impulse

	pA := geom2d.Scale(j.uA, -impulse)
	pB := geom2d.Scale(j.uB, -j.ratio*impulse)
	bA.linearVelocity = geom2d.Add(bA.linearVelocity, geom2d.Scale(pA, j.invMassA))
	bA.angularVelocity += j.invIA * geom2d.Cross2(j.rA, pA)
	bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(pB, j.invMassB))
	bB.angularVelocity += j.invIB * geom2d.Cross2(j.rB, pB)
}

func (j *pulleyJoint) solvePositionConstraints(*solverData) bool {
	bA, bB := j.bodyA, j.bodyB
	rA := geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))

	uA := geom2d.Sub(geom2d.Add(bA.sweep.Pos1.Linear, rA), j.groundAnchorA)
	uB := geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, rB), j.groundAnchorB)
	lenA, lenB := uA.Len(), uB.Len()
	if lenA > 10*geom2d.Epsilon {
		uA = geom2d.Scale(uA, 1/lenA)
	}
	if lenB > 10*geom2d.Epsilon {
		uB = geom2d.Scale(uB, 1/lenB)
	}

	c := j.constant - lenA - j.ratio*lenB
	impulse := -c
	if c < -10 {
		impulse = 10
	}

	ruA := geom2d.Cross2(rA, uA)
	ruB := geom2d.Cross2(rB, uB)
	mA := j.invMassA + j.invIA*ruA*ruA
	mB := j.invMassB + j.invIB*ruB*ruB
	k := mA + j.ratio*j.ratio*mB
	if k > 0 {
		impulse /= k
	}

	pA := geom2d.Scale(uA, -impulse)
	pB := geom2d.Scale(uB, -j.ratio*impulse)
	bA.sweep.Pos1.Linear = geom2d.Add(bA.sweep.Pos1.Linear, geom2d.Scale(pA, j.invMassA))
	bA.sweep.Pos1.Angular += j.invIA * geom2d.Cross2(rA, pA)
	bB.sweep.Pos1.Linear = geom2d.Add(bB.sweep.Pos1.Linear, geom2d.Scale(pB, j.invMassB))
	bB.sweep.Pos1.Angular += j.invIB * geom2d.Cross2(rB, pB)
	bA.synchronizeTransform()
	bB.synchronizeTransform()

	return c > -0.01
}

// GearJointDef couples the angular velocities of BodyA and BodyB by a
// fixed ratio (wA + Ratio*wB = 0), the way a mechanical gear pair
// couples two wheels. JointA and JointB are stored but not read:
// translation along a prismatic joint is not coupled, and no position
// correction is applied.
type GearJointDef struct {
	BodyA, BodyB *Body
	JointA, JointB Joint
	Ratio        float64
}

type gearJoint struct {
	jointBase
	jointA, jointB Joint
	ratio          float64
	mass           float64
	impulse        float64
}

// NewGearJoint constructs a ratio constraint between the angular
// velocities of def.BodyA and def.BodyB; a zero Ratio is treated as 1.
func NewGearJoint(def GearJointDef) *gearJoint {
	ratio := def.Ratio
	if ratio == 0 {
		ratio = 1
	}
	return &gearJoint{
		jointBase: jointBase{jtype: GearJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: true},
		jointA:    def.JointA, jointB: def.JointB,
		ratio: ratio,
	}
}

func (j *gearJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) {
	return j.bodyA.sweep.Pos1.Linear, j.bodyB.sweep.Pos1.Linear
}
func (j *gearJoint) ReactionForce(float64) geom2d.Vec2 { return geom2d.Vec2{} }
func (j *gearJoint) ReactionTorque(invDt float64) float64 { return invDt * j.impulse }

func (j *gearJoint) initVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	j.invIA, j.invIB = bA.invI, bB.invI
	if j.invIA+j.ratio*j.ratio*j.invIB > 0 {
		j.mass = 1 / (j.invIA + j.ratio*j.ratio*j.invIB)
	}
}

func (j *gearJoint) solveVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	cdot := bA.angularVelocity + j.ratio*bB.angularVelocity
	impulse := -j.mass * cdot
	j.impulse += impulse
	bA.angularVelocity += j.invIA * impulse
	bB.angularVelocity += j.invIB * j.ratio * impulse
}

func (j *gearJoint) solvePositionConstraints(*solverData) bool { return true }
