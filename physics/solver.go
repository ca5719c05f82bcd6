package physics

import (
	"math"

	"github.com/gazed/rigid2d/math/geom2d"
)

// velocityConstraintPoint is the per-manifold-point working state for
// one contact's velocity solve: the moment arms from each body's center
// to the contact point, the accumulated impulses (warm-started from the
// matched manifold point), the effective masses, and the restitution
// bias baked in once per step.
type velocityConstraintPoint struct {
	rA, rB                       geom2d.Vec2
	normalImpulse, tangentImpulse float64
	normalMass, tangentMass       float64
	velocityBias                  float64
}

// contactVelocityConstraint is one contact's working state for the
// velocity iteration loop, built fresh each step from its Manifold.
type contactVelocityConstraint struct {
	contact      *Contact
	bodyA, bodyB *Body

	normal     geom2d.Vec2
	points     [2]velocityConstraintPoint
	pointCount int

	friction, restitution, tangentSpeed float64
	invMassA, invMassB, invIA, invIB     float64

	// block solver state, valid only when blockSolve is true.
	k          geom2d.Mat22
	normalMass geom2d.Mat22
	blockSolve bool
}

// newContactVelocityConstraint builds the working state for one touching
// contact from its current world manifold, computing effective masses
// and the restitution bias the way b2ContactSolver::InitializeVelocityConstraints
// does. dtRatio rescales the impulses carried over from the previous
// step when the step size changed (dt * invDt0); it is 1 for a constant
// step and for TOI sub-steps.
func newContactVelocityConstraint(c *Contact, conf *StepConf, dtRatio float64) contactVelocityConstraint {
	bA, bB := c.fixtureA.body, c.fixtureB.body
	radiusA := c.fixtureA.shape.Proxy(c.childA).Radius
	radiusB := c.fixtureB.shape.Proxy(c.childB).Radius
	wm := c.manifold.Evaluate(bA.xf, radiusA, bB.xf, radiusB)

	vc := contactVelocityConstraint{
		contact:     c,
		bodyA:       bA,
		bodyB:       bB,
		normal:      wm.Normal,
		pointCount:  len(c.manifold.Points),
		friction:    c.friction,
		restitution: c.restitution,
		tangentSpeed: c.tangentSpeed,
		invMassA:    bA.invMass,
		invMassB:    bB.invMass,
		invIA:       bA.invI,
		invIB:       bB.invI,
	}

	tangent := geom2d.CrossVS(vc.normal, 1)

	for i := 0; i < vc.pointCount; i++ {
		mp := &c.manifold.Points[i]
		p := &vc.points[i]

		p.rA = geom2d.Sub(wm.Points[i], bA.sweep.Pos1.Linear)
		p.rB = geom2d.Sub(wm.Points[i], bB.sweep.Pos1.Linear)
		p.normalImpulse = mp.NormalImpulse * dtRatio
		p.tangentImpulse = mp.TangentImpulse * dtRatio

		rnA := geom2d.Cross2(p.rA, vc.normal)
		rnB := geom2d.Cross2(p.rB, vc.normal)
		kNormal := vc.invMassA + vc.invMassB + vc.invIA*rnA*rnA + vc.invIB*rnB*rnB
		if kNormal > 0 {
			p.normalMass = 1.0 / kNormal
		}

		rtA := geom2d.Cross2(p.rA, tangent)
		rtB := geom2d.Cross2(p.rB, tangent)
		kTangent := vc.invMassA + vc.invMassB + vc.invIA*rtA*rtA + vc.invIB*rtB*rtB
		if kTangent > 0 {
			p.tangentMass = 1.0 / kTangent
		}

		relVelN := geom2d.Dot(vc.normal, geom2d.Sub(
			geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, p.rB)),
			geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, p.rA)),
		))
		if relVelN < -conf.VelocityThreshold {
			p.velocityBias = -vc.restitution * relVelN
		}
	}

	if vc.pointCount == 2 && conf.DoBlockSolve {
		p0, p1 := &vc.points[0], &vc.points[1]
		rn1A := geom2d.Cross2(p0.rA, vc.normal)
		rn1B := geom2d.Cross2(p0.rB, vc.normal)
		rn2A := geom2d.Cross2(p1.rA, vc.normal)
		rn2B := geom2d.Cross2(p1.rB, vc.normal)

		k11 := vc.invMassA + vc.invMassB + vc.invIA*rn1A*rn1A + vc.invIB*rn1B*rn1B
		k22 := vc.invMassA + vc.invMassB + vc.invIA*rn2A*rn2A + vc.invIB*rn2B*rn2B
		k12 := vc.invMassA + vc.invMassB + vc.invIA*rn1A*rn2A + vc.invIB*rn1B*rn2B

		const maxConditionNumber = 1000.0
		if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
			vc.k = geom2d.NewMat22Cols(geom2d.Vec2{X: k11, Y: k12}, geom2d.Vec2{X: k12, Y: k22})
			vc.normalMass = vc.k.Inverse()
			vc.blockSolve = true
		}
	}

	return vc
}

// warmStart reapplies each point's impulse from the previous step (or,
// for a freshly-matched feature, zero) before the first velocity
// iteration, so the solver starts close to the steady-state impulse
// instead of from rest every step.
func (vc *contactVelocityConstraint) warmStart() {
	bA, bB := vc.bodyA, vc.bodyB
	tangent := geom2d.CrossVS(vc.normal, 1)
	for i := 0; i < vc.pointCount; i++ {
		p := vc.points[i]
		impulse := geom2d.Add(geom2d.Scale(vc.normal, p.normalImpulse), geom2d.Scale(tangent, p.tangentImpulse))
		bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(impulse, vc.invMassA))
		bA.angularVelocity -= vc.invIA * geom2d.Cross2(p.rA, impulse)
		bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(impulse, vc.invMassB))
		bB.angularVelocity += vc.invIB * geom2d.Cross2(p.rB, impulse)
	}
}

// solveVelocity runs one Gauss-Seidel pass over the contact's points:
// friction first (clamped to the current normal impulse, matching
// b2ContactSolver's ordering so friction never exceeds what the normal
// impulse that step would actually allow), then the normal impulse
// itself, using the two-point block solver when available and falling
// back to the four-case pivot Box2D's SolveVelocityConstraints uses when
// the block solution would drive an impulse negative. Returns the
// largest per-point impulse change, for the caller's convergence check.
func (vc *contactVelocityConstraint) solveVelocity() float64 {
	bA, bB := vc.bodyA, vc.bodyB
	normal := vc.normal
	tangent := geom2d.CrossVS(normal, 1)
	maxDelta := 0.0

	// Friction.
	for i := 0; i < vc.pointCount; i++ {
		p := &vc.points[i]
		dv := geom2d.Sub(
			geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, p.rB)),
			geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, p.rA)),
		)
		vt := geom2d.Dot(dv, tangent) - vc.tangentSpeed
		lambda := p.tangentMass * -vt

		maxFriction := vc.friction * p.normalImpulse
		newImpulse := geom2d.Clamp(p.tangentImpulse+lambda, -maxFriction, maxFriction)
		lambda = newImpulse - p.tangentImpulse
		p.tangentImpulse = newImpulse

		impulse := geom2d.Scale(tangent, lambda)
		bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(impulse, vc.invMassA))
		bA.angularVelocity -= vc.invIA * geom2d.Cross2(p.rA, impulse)
		bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(impulse, vc.invMassB))
		bB.angularVelocity += vc.invIB * geom2d.Cross2(p.rB, impulse)

		if math.Abs(lambda) > maxDelta {
			maxDelta = math.Abs(lambda)
		}
	}

	// Normal, single point or degenerate block.
	if vc.pointCount == 1 || !vc.blockSolve {
		for i := 0; i < vc.pointCount; i++ {
			p := &vc.points[i]
			dv := geom2d.Sub(
				geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, p.rB)),
				geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, p.rA)),
			)
			vn := geom2d.Dot(dv, normal)
			lambda := -p.normalMass * (vn - p.velocityBias)

			newImpulse := math.Max(p.normalImpulse+lambda, 0)
			lambda = newImpulse - p.normalImpulse
			p.normalImpulse = newImpulse

			impulse := geom2d.Scale(normal, lambda)
			bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(impulse, vc.invMassA))
			bA.angularVelocity -= vc.invIA * geom2d.Cross2(p.rA, impulse)
			bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(impulse, vc.invMassB))
			bB.angularVelocity += vc.invIB * geom2d.Cross2(p.rB, impulse)

			if math.Abs(lambda) > maxDelta {
				maxDelta = math.Abs(lambda)
			}
		}
		return maxDelta
	}

	// Two-point block solve: find the simultaneous normal impulses that
	// satisfy both points' velocity constraints, falling back through
	// the four Box2D cases in priority order when the unconstrained
	// solution would require a negative impulse at one or both points.
	p1, p2 := &vc.points[0], &vc.points[1]

	dv1 := geom2d.Sub(
		geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, p1.rB)),
		geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, p1.rA)),
	)
	dv2 := geom2d.Sub(
		geom2d.Add(bB.linearVelocity, geom2d.CrossSV(bB.angularVelocity, p2.rB)),
		geom2d.Add(bA.linearVelocity, geom2d.CrossSV(bA.angularVelocity, p2.rA)),
	)

	vn1 := geom2d.Dot(dv1, normal)
	vn2 := geom2d.Dot(dv2, normal)

	// a is the currently accumulated impulse pair; b is the relative
	// normal velocity the constraint would have if no further impulse
	// were applied beyond a.
	a := geom2d.Vec2{X: p1.normalImpulse, Y: p2.normalImpulse}
	b := geom2d.Vec2{X: vn1 - p1.velocityBias, Y: vn2 - p2.velocityBias}
	b = geom2d.Sub(b, geom2d.MulMV(vc.k, a))

	apply := func(x geom2d.Vec2) {
		d := geom2d.Sub(x, a)
		p1Impulse := geom2d.Scale(normal, d.X)
		p2Impulse := geom2d.Scale(normal, d.Y)

		bA.linearVelocity = geom2d.Sub(bA.linearVelocity, geom2d.Scale(geom2d.Add(p1Impulse, p2Impulse), vc.invMassA))
		bA.angularVelocity -= vc.invIA * (geom2d.Cross2(p1.rA, p1Impulse) + geom2d.Cross2(p2.rA, p2Impulse))
		bB.linearVelocity = geom2d.Add(bB.linearVelocity, geom2d.Scale(geom2d.Add(p1Impulse, p2Impulse), vc.invMassB))
		bB.angularVelocity += vc.invIB * (geom2d.Cross2(p1.rB, p1Impulse) + geom2d.Cross2(p2.rB, p2Impulse))

		if math.Abs(d.X) > maxDelta {
			maxDelta = math.Abs(d.X)
		}
		if math.Abs(d.Y) > maxDelta {
			maxDelta = math.Abs(d.Y)
		}
		p1.normalImpulse, p2.normalImpulse = x.X, x.Y
	}

	// Case 1: vn = 0 for both points (the unconstrained solution).
	x := geom2d.Neg(geom2d.MulMV(vc.normalMass, b))
	if x.X >= 0 && x.Y >= 0 {
		apply(x)
		return maxDelta
	}

	// Case 2: vn1 = 0, x2 clamped to zero.
	x = geom2d.Vec2{X: -p1.normalMass * b.X, Y: 0}
	vn2Check := vc.k.Col1.Y*x.X + b.Y
	if x.X >= 0 && vn2Check >= 0 {
		apply(x)
		return maxDelta
	}

	// Case 3: vn2 = 0, x1 clamped to zero.
	x = geom2d.Vec2{X: 0, Y: -p2.normalMass * b.Y}
	vn1Check := vc.k.Col2.X*x.Y + b.X
	if x.Y >= 0 && vn1Check >= 0 {
		apply(x)
		return maxDelta
	}

	// Case 4: both impulses clamped to zero.
	if b.X >= 0 && b.Y >= 0 {
		apply(geom2d.Vec2{})
		return maxDelta
	}

	// No case satisfies the non-negativity constraints (ill-conditioned
	// contact); leave impulses as they were rather than apply something
	// nonphysical.
	return maxDelta
}

// storeImpulses writes the converged impulses back into the contact's
// manifold so the next step's matchWarmStart can find them.
func (vc *contactVelocityConstraint) storeImpulses() {
	for i := 0; i < vc.pointCount; i++ {
		vc.contact.manifold.Points[i].NormalImpulse = vc.points[i].normalImpulse
		vc.contact.manifold.Points[i].TangentImpulse = vc.points[i].tangentImpulse
	}
}

// velocityConvergedTol is the per-iteration impulse-delta floor below
// which the velocity loop treats an island as converged and exits early
// rather than spending the remaining configured iterations on a contact
// set that's already settled.
const velocityConvergedTol = 1e-10

// solvePositionIteration runs one Gauss-Seidel pass of the contact
// position corrector (pseudo-velocities applied directly to sweep.Pos1,
// Box2D's NGS correction) over every contact in the island, re-deriving
// each contact's world manifold from the bodies' current poses via
// Manifold.Evaluate rather than caching a separate position-constraint
// manifold, since the local geometry baked into Manifold never changes
// within a step. Returns the most negative separation observed, for the
// caller's early-exit check.
func (w *World) solvePositionIteration(isl *island, resolutionRate, maxLinearCorrection, linearSlop float64) float64 {
	minSeparation := 0.0
	for _, c := range isl.contacts {
		bA, bB := c.fixtureA.body, c.fixtureB.body
		radiusA := c.fixtureA.shape.Proxy(c.childA).Radius
		radiusB := c.fixtureB.shape.Proxy(c.childB).Radius
		wm := c.manifold.Evaluate(bA.xf, radiusA, bB.xf, radiusB)

		for i := range c.manifold.Points {
			sep := wm.Separations[i]
			if sep < minSeparation {
				minSeparation = sep
			}

			C := geom2d.Clamp(resolutionRate*(sep+linearSlop), -maxLinearCorrection, 0)

			point := wm.Points[i]
			rA := geom2d.Sub(point, bA.sweep.Pos1.Linear)
			rB := geom2d.Sub(point, bB.sweep.Pos1.Linear)

			rnA := geom2d.Cross2(rA, wm.Normal)
			rnB := geom2d.Cross2(rB, wm.Normal)
			k := bA.invMass + bB.invMass + bA.invI*rnA*rnA + bB.invI*rnB*rnB

			impulse := 0.0
			if k > 0 {
				impulse = -C / k
			}
			P := geom2d.Scale(wm.Normal, impulse)

			bA.sweep.Pos1.Linear = geom2d.Sub(bA.sweep.Pos1.Linear, geom2d.Scale(P, bA.invMass))
			bA.sweep.Pos1.Angular -= bA.invI * geom2d.Cross2(rA, P)
			bB.sweep.Pos1.Linear = geom2d.Add(bB.sweep.Pos1.Linear, geom2d.Scale(P, bB.invMass))
			bB.sweep.Pos1.Angular += bB.invI * geom2d.Cross2(rB, P)

			bA.synchronizeTransform()
			bB.synchronizeTransform()
		}
	}
	return minSeparation
}

// integrateForces applies gravity, accumulated force/torque, and linear
// and angular damping to every dynamic body in the island, the way
// b2Island::Solve's first body loop does. Kinematic and static bodies
// are skipped, so neither gravity nor applied forces change their
// velocity.
func integrateForces(isl *island, gravity geom2d.Vec2, h float64) {
	for _, b := range isl.bodies {
		if b.bodyType != DynamicBody {
			continue
		}
		b.linearVelocity = geom2d.Add(b.linearVelocity,
			geom2d.Scale(geom2d.Add(geom2d.Scale(gravity, b.gravityScale), geom2d.Scale(b.force, b.invMass)), h))
		b.angularVelocity += h * b.invI * b.torque

		b.linearVelocity = geom2d.Scale(b.linearVelocity, 1.0/(1.0+h*b.linearDamping))
		b.angularVelocity *= 1.0 / (1.0 + h*b.angularDamping)
	}
}

// integratePositions advances every non-static body's sweep by its
// current velocity, clamping translation and rotation to conf's limits
// so a solver blowup (huge impulse from a badly-conditioned contact)
// can't teleport a body clear across the world in one step.
func integratePositions(isl *island, h, maxTranslation, maxRotation float64) {
	for _, b := range isl.bodies {
		if b.bodyType == StaticBody {
			continue
		}

		translation := geom2d.Scale(b.linearVelocity, h)
		if translation.LenSqr() > maxTranslation*maxTranslation {
			ratio := maxTranslation / translation.Len()
			b.linearVelocity = geom2d.Scale(b.linearVelocity, ratio)
		}

		rotation := h * b.angularVelocity
		if rotation*rotation > maxRotation*maxRotation {
			ratio := maxRotation / math.Abs(rotation)
			b.angularVelocity *= ratio
		}

		b.sweep.Pos1.Linear = geom2d.Add(b.sweep.Pos1.Linear, geom2d.Scale(b.linearVelocity, h))
		b.sweep.Pos1.Angular += h * b.angularVelocity
		b.synchronizeTransform()
	}
}

// solveIsland runs the full velocity+position solve for one island over
// a full step: force integration, warm starting, the velocity iteration
// loop, position integration, and the position correction loop, finally
// reporting PostSolve impulses and updating each body's sleep timer.
func (w *World) solveIsland(isl *island, conf *StepConf) {
	h := conf.DT
	data := &solverData{dt: h}
	if h > 0 {
		data.invDt = 1.0 / h
	}

	integrateForces(isl, w.gravity, h)

	dtRatio := h * w.invDt0
	vcs := make([]contactVelocityConstraint, len(isl.contacts))
	for i, c := range isl.contacts {
		vcs[i] = newContactVelocityConstraint(c, conf, dtRatio)
	}

	for _, j := range isl.joints {
		j.initVelocityConstraints(data)
	}

	if conf.DoWarmStart {
		for i := range vcs {
			vcs[i].warmStart()
		}
	}

	for iter := 0; iter < conf.RegVelocityIterations; iter++ {
		for _, j := range isl.joints {
			j.solveVelocityConstraints(data)
		}
		maxDelta := 0.0
		for i := range vcs {
			if d := vcs[i].solveVelocity(); d > maxDelta {
				maxDelta = d
			}
		}
		if iter > 0 && maxDelta < velocityConvergedTol {
			break
		}
	}

	for i := range vcs {
		vcs[i].storeImpulses()
	}

	integratePositions(isl, h, conf.MaxTranslation, conf.MaxRotation)

	for iter := 0; iter < conf.RegPositionIterations; iter++ {
		minSep := w.solvePositionIteration(isl, conf.RegResolutionRate, conf.MaxLinearCorrection, conf.LinearSlop)
		jointsOkay := true
		for _, j := range isl.joints {
			if !j.solvePositionConstraints(data) {
				jointsOkay = false
			}
		}
		if minSep >= conf.regMinSeparation() && jointsOkay {
			break
		}
	}

	w.reportAndSleep(isl, conf, vcs)
}

// reportAndSleep fires PostSolve for every contact in the island, then
// advances or resets each dynamic body's idle timer and
// puts the whole island to sleep once every body in it has been below
// the sleep velocity thresholds for min_still_time_to_sleep.
func (w *World) reportAndSleep(isl *island, conf *StepConf, vcs []contactVelocityConstraint) {
	if w.contactListener != nil {
		for i := range vcs {
			impulses := make([]float64, vcs[i].pointCount)
			for j := 0; j < vcs[i].pointCount; j++ {
				impulses[j] = vcs[i].points[j].normalImpulse
			}
			w.contactListener.PostSolve(vcs[i].contact, impulses)
		}
	}

	minSleepTime := math.Inf(1)
	for _, b := range isl.bodies {
		if b.invMass == 0 {
			continue
		}
		if b.flags&flagAutoSleep == 0 ||
			b.angularVelocity*b.angularVelocity > conf.AngularSleepTolerance*conf.AngularSleepTolerance ||
			b.linearVelocity.LenSqr() > conf.LinearSleepTolerance*conf.LinearSleepTolerance {
			b.sleepTime = 0
		} else {
			b.sleepTime += conf.DT
		}
		if b.sleepTime < minSleepTime {
			minSleepTime = b.sleepTime
		}
	}

	if minSleepTime >= conf.MinStillTimeToSleep {
		for _, b := range isl.bodies {
			if b.bodyType == DynamicBody {
				b.SetAwake(false)
			}
		}
	}
}

// solveTOIIsland runs a reduced-scope solve for a TOI sub-step over the
// remaining fraction h of the step: no warm starting, no force or
// damping integration, no acceleration (the bodies' velocities are
// whatever they already are at the moment of impact), and a tighter
// minimum separation, matching Box2D's b2Island::SolveTOI. Position
// correction runs first, at the impact pose, so the pair is pushed to
// non-penetration before the remainder of the step is integrated;
// seedA/seedB then restart their sweeps from the corrected pose so the
// next TOI query this step measures from here.
func (w *World) solveTOIIsland(isl *island, conf *StepConf, h float64, seedA, seedB *Body) {
	for iter := 0; iter < conf.TOIPositionIterations; iter++ {
		minSep := w.solvePositionIteration(isl, conf.TOIResolutionRate, conf.MaxLinearCorrection, conf.LinearSlop)
		if minSep >= conf.toiMinSeparation() {
			break
		}
	}

	seedA.sweep.Pos0 = seedA.sweep.Pos1
	seedB.sweep.Pos0 = seedB.sweep.Pos1

	vcs := make([]contactVelocityConstraint, len(isl.contacts))
	for i, c := range isl.contacts {
		vcs[i] = newContactVelocityConstraint(c, conf, 1)
	}

	for iter := 0; iter < conf.TOIVelocityIterations; iter++ {
		maxDelta := 0.0
		for i := range vcs {
			if d := vcs[i].solveVelocity(); d > maxDelta {
				maxDelta = d
			}
		}
		if iter > 0 && maxDelta < velocityConvergedTol {
			break
		}
	}
	for i := range vcs {
		vcs[i].storeImpulses()
	}

	integratePositions(isl, h, conf.MaxTranslation, conf.MaxRotation)
}
