package physics

import "github.com/gazed/rigid2d/math/geom2d"

// JointType enumerates the joint kinds a World can create.
type JointType int

const (
	RevoluteJoint JointType = iota
	PrismaticJoint
	DistanceJoint
	WeldJoint
	MouseJoint
	RopeJoint
	PulleyJoint
	GearJoint
	WheelJoint
	FrictionJoint
	MotorJoint
)

// JointEdge links a Body to one Joint it participates in, forming the
// joint adjacency list the island builder's graph traversal walks
// alongside Contact edges.
type JointEdge struct {
	other *Body
	joint Joint
}

// solverData carries the step timing a Joint's solver methods read;
// joints read and write body velocities and sweep positions directly.
type solverData struct {
	dt    float64
	invDt float64
}

// Joint is the contract every joint kind implements so the island
// solver can treat them uniformly: warm-start from the previous step's
// accumulated impulse, solve velocity constraints iteratively, then
// (for joints that drift, unlike pure velocity joints) correct
// position error directly.
type Joint interface {
	Type() JointType
	BodyA() *Body
	BodyB() *Body
	CollideConnected() bool
	initVelocityConstraints(data *solverData)
	solveVelocityConstraints(data *solverData)
	solvePositionConstraints(data *solverData) bool
	Anchor() (geom2d.Vec2, geom2d.Vec2)
	ReactionForce(invDt float64) geom2d.Vec2
	ReactionTorque(invDt float64) float64
}

// jointBase holds the fields every concrete joint needs, the way
// b2Joint's base class centralizes BodyA/BodyB/CollideConnected
// bookkeeping for each concrete b2*Joint subclass.
type jointBase struct {
	jtype            JointType
	bodyA, bodyB     *Body
	collideConnected bool
	invMassA, invMassB float64
	invIA, invIB       float64
}

func (j *jointBase) Type() JointType       { return j.jtype }
func (j *jointBase) BodyA() *Body          { return j.bodyA }
func (j *jointBase) BodyB() *Body          { return j.bodyB }
func (j *jointBase) CollideConnected() bool { return j.collideConnected }

// DistanceJointDef pins two anchor points at a fixed distance, solved
// with a single scalar constraint, grounded on PlayRho's DistanceJoint.
type DistanceJointDef struct {
	BodyA, BodyB     *Body
	LocalAnchorA, LocalAnchorB geom2d.Vec2
	Length           float64
	Stiffness        float64 // nonzero only switches off position correction; no spring is modeled
	Damping          float64
	CollideConnected bool
}

type distanceJoint struct {
	jointBase
	localAnchorA, localAnchorB geom2d.Vec2
	length                     float64
	stiffness, damping         float64

	u         geom2d.Vec2
	mass      float64
	impulse   float64
	bias, gamma float64
}

// NewDistanceJoint constructs a distance joint with a rigid velocity
// constraint. Stiffness and Damping add no spring or damper: a nonzero
// Stiffness only skips the position correction pass, so length error
// that builds up is not corrected.
func NewDistanceJoint(def DistanceJointDef) *distanceJoint {
	return &distanceJoint{
		jointBase: jointBase{
			jtype: DistanceJoint, bodyA: def.BodyA, bodyB: def.BodyB,
			collideConnected: def.CollideConnected,
		},
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		length:       def.Length,
		stiffness:    def.Stiffness,
		damping:      def.Damping,
	}
}

func (j *distanceJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) {
	return geom2d.TransformPoint(j.bodyA.xf, j.localAnchorA), geom2d.TransformPoint(j.bodyB.xf, j.localAnchorB)
}

func (j *distanceJoint) ReactionForce(invDt float64) geom2d.Vec2 {
	return geom2d.Scale(j.u, j.impulse*invDt)
}

func (j *distanceJoint) ReactionTorque(float64) float64 { return 0 }

func (j *distanceJoint) initVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	j.invMassA, j.invMassB = bA.invMass, bB.invMass
	j.invIA, j.invIB = bA.invI, bB.invI

	rA := geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))
	j.u = geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, rB), geom2d.Add(bA.sweep.Pos1.Linear, rA))

	length := j.u.Len()
	if length > geom2d.Epsilon {
		j.u = geom2d.Scale(j.u, 1/length)
	} else {
		j.u = geom2d.Vec2{}
	}

	crA := geom2d.Cross2(rA, j.u)
	crB := geom2d.Cross2(rB, j.u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	if invMass > 0 {
		j.mass = 1 / invMass
	}
}

func (j *distanceJoint) solveVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	rA := geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))

	vpA := geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, rA))
	vpB := geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, rB))
	cdot := geom2d.Dot(j.u, geom2d.Sub(vpB, vpA))

	impulse := -j.mass * cdot
	j.impulse += impulse

	p := geom2d.Scale(j.u, impulse)
	bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(p, j.invMassA))
	bA.angularVelocity -= j.invIA * geom2d.Cross2(rA, p)
	bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(p, j.invMassB))
	bB.angularVelocity += j.invIB * geom2d.Cross2(rB, p)
}

func (j *distanceJoint) solvePositionConstraints(data *solverData) bool {
	if j.stiffness > 0 {
		return true // nonzero stiffness: no position correction
	}
	bA, bB := j.bodyA, j.bodyB
	rA := geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))

	d := geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, rB), geom2d.Add(bA.sweep.Pos1.Linear, rA))
	length, u := d.Len(), geom2d.Vec2{}
	if length > geom2d.Epsilon {
		u = geom2d.Scale(d, 1/length)
	}
	c := length - j.length
	impulseC := geom2d.Clamp(c, -0.2, 0.2)

	crA := geom2d.Cross2(rA, u)
	crB := geom2d.Cross2(rB, u)
	invMass := j.invMassA + j.invIA*crA*crA + j.invMassB + j.invIB*crB*crB
	var impulse float64
	if invMass > 0 {
		impulse = -impulseC / invMass
	}

	p := geom2d.Scale(u, impulse)
	bA.sweep.Pos1.Linear = geom2d.Sub(bA.sweep.Pos1.Linear, geom2d.Scale(p, j.invMassA))
	bA.sweep.Pos1.Angular -= j.invIA * geom2d.Cross2(rA, p)
	bB.sweep.Pos1.Linear = geom2d.Add(bB.sweep.Pos1.Linear, geom2d.Scale(p, j.invMassB))
	bB.sweep.Pos1.Angular += j.invIB * geom2d.Cross2(rB, p)
	bA.synchronizeTransform()
	bB.synchronizeTransform()

	return c < 0.005
}

// RevoluteJointDef pins two bodies together at a shared point, leaving
// relative rotation free (optionally limited or motorized).
type RevoluteJointDef struct {
	BodyA, BodyB               *Body
	LocalAnchorA, LocalAnchorB geom2d.Vec2
	ReferenceAngle             float64
	EnableLimit                bool
	LowerAngle, UpperAngle     float64
	EnableMotor                bool
	MotorSpeed, MaxMotorTorque float64
	CollideConnected           bool
}

type revoluteJoint struct {
	jointBase
	localAnchorA, localAnchorB geom2d.Vec2
	referenceAngle             float64
	enableLimit, enableMotor   bool
	lowerAngle, upperAngle     float64
	motorSpeed, maxMotorTorque float64

	impulse      geom2d.Vec2
	motorImpulse float64
	lowerImpulse, upperImpulse float64

	rA, rB geom2d.Vec2
	mass   geom2d.Mat22
	axialMass float64
}

// NewRevoluteJoint constructs a pin joint between two bodies.
func NewRevoluteJoint(def RevoluteJointDef) *revoluteJoint {
	return &revoluteJoint{
		jointBase: jointBase{
			jtype: RevoluteJoint, bodyA: def.BodyA, bodyB: def.BodyB,
			collideConnected: def.CollideConnected,
		},
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		enableLimit:    def.EnableLimit,
		lowerAngle:     def.LowerAngle,
		upperAngle:     def.UpperAngle,
		enableMotor:    def.EnableMotor,
		motorSpeed:     def.MotorSpeed,
		maxMotorTorque: def.MaxMotorTorque,
	}
}

func (j *revoluteJoint) Anchor() (geom2d.Vec2, geom2d.Vec2) {
	return geom2d.TransformPoint(j.bodyA.xf, j.localAnchorA), geom2d.TransformPoint(j.bodyB.xf, j.localAnchorB)
}

func (j *revoluteJoint) ReactionForce(invDt float64) geom2d.Vec2 {
	return geom2d.Scale(j.impulse, invDt)
}

func (j *revoluteJoint) ReactionTorque(invDt float64) float64 {
	return invDt * (j.motorImpulse + j.lowerImpulse - j.upperImpulse)
}

func (j *revoluteJoint) angle() float64 {
	return j.bodyB.sweep.Pos1.Angular - j.bodyA.sweep.Pos1.Angular - j.referenceAngle
}

func (j *revoluteJoint) initVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	j.invMassA, j.invMassB = bA.invMass, bB.invMass
	j.invIA, j.invIB = bA.invI, bB.invI

	j.rA = geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	j.rB = geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))

	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB
	k := geom2d.Mat22{}
	k.Col1.X = mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k.Col1.Y = -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k.Col2.X = k.Col1.Y
	k.Col2.Y = mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.mass = k

	if iA+iB > 0 {
		j.axialMass = 1 / (iA + iB)
	}
	if !j.enableMotor {
		j.motorImpulse = 0
	}
}

func (j *revoluteJoint) solveVelocityConstraints(data *solverData) {
	bA, bB := j.bodyA, j.bodyB
	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB

	if j.enableMotor {
		cdot := bB.angularVelocity - bA.angularVelocity - j.motorSpeed
		impulse := -j.axialMass * cdot
		old := j.motorImpulse
		maxImpulse := j.maxMotorTorque * data.dt
		j.motorImpulse = geom2d.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		bA.angularVelocity -= iA * impulse
		bB.angularVelocity += iB * impulse
	}

	if j.enableLimit {
		angle := j.angle()
		if angle <= j.lowerAngle {
			c := angle - j.lowerAngle
			cdot := bB.angularVelocity - bA.angularVelocity
			impulse := -j.axialMass * (cdot + geom2d.Clamp(c+0.01, -0.2, 0)*j.axialMass)
			old := j.lowerImpulse
			j.lowerImpulse = maxFloat(old+impulse, 0)
			impulse = j.lowerImpulse - old
			bA.angularVelocity -= iA * impulse
			bB.angularVelocity += iB * impulse
		}
		if angle >= j.upperAngle {
			c := j.upperAngle - angle
			cdot := bA.angularVelocity - bB.angularVelocity
			impulse := -j.axialMass * (cdot + geom2d.Clamp(c+0.01, -0.2, 0)*j.axialMass)
			old := j.upperImpulse
			j.upperImpulse = maxFloat(old+impulse, 0)
			impulse = j.upperImpulse - old
			bA.angularVelocity += iA * impulse
			bB.angularVelocity -= iB * impulse
		}
	}

	vA, wA := bA.linearVelocity, bA.angularVelocity
	vB, wB := bB.linearVelocity, bB.angularVelocity

	cdot := geom2d.Sub(geom2d.Add(vB, geom2d.CrossSV(wB, j.rB)), geom2d.Add(vA, geom2d.CrossSV(wA, j.rA)))
	impulse := j.mass.Solve(geom2d.Neg(cdot))
	j.impulse = geom2d.Add(j.impulse, impulse)

	bA.linearVelocity = geom2d.Sub(vA, geom2d.Scale(impulse, mA))
	bA.angularVelocity = wA - iA*geom2d.Cross2(j.rA, impulse)
	bB.linearVelocity = geom2d.Add(vB, geom2d.Scale(impulse, mB))
	bB.angularVelocity = wB + iB*geom2d.Cross2(j.rB, impulse)
}

func (j *revoluteJoint) solvePositionConstraints(data *solverData) bool {
	bA, bB := j.bodyA, j.bodyB
	rA := geom2d.Rotate(bA.xf.Q, geom2d.Sub(j.localAnchorA, bA.sweep.LocalCenter))
	rB := geom2d.Rotate(bB.xf.Q, geom2d.Sub(j.localAnchorB, bB.sweep.LocalCenter))

	c := geom2d.Sub(geom2d.Add(bB.sweep.Pos1.Linear, rB), geom2d.Add(bA.sweep.Pos1.Linear, rA))
	positionError := c.Len()

	mA, mB, iA, iB := j.invMassA, j.invMassB, j.invIA, j.invIB
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

	return positionError < 0.005
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
