package physics

import "github.com/gazed/rigid2d/math/geom2d"

// BodyType selects how a Body participates in simulation: a Static
// body never moves and has infinite mass, a Kinematic body is moved
// only by its prescribed velocity and never responds to forces or
// contacts, and a Dynamic body is fully simulated.
type BodyType int

const (
	StaticBody BodyType = iota
	KinematicBody
	DynamicBody
)

// BodyDef is the set of parameters needed to construct a Body. Zero
// value is a static body at the origin.
type BodyDef struct {
	Type           BodyType
	Position       geom2d.Vec2
	Angle          float64
	LinearVelocity geom2d.Vec2
	AngularVelocity float64
	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64
	AllowSleep     bool
	Awake          bool
	FixedRotation  bool
	Bullet         bool
	UserData       interface{}
}

// DefaultBodyDef returns a BodyDef with a simulation loop's implicit
// defaults: sleeping allowed, awake, full gravity.
func DefaultBodyDef() BodyDef {
	return BodyDef{AllowSleep: true, Awake: true, GravityScale: 1}
}

// bodyFlags are the boolean state bits packed in Body.flags, mirroring
// b2Body's flag field rather than one bool field per property.
type bodyFlags uint32

const (
	flagIsland bodyFlags = 1 << iota
	flagAwake
	flagAutoSleep
	flagBullet
	flagFixedRotation
	flagActive
	flagToi
)

// Body is a rigid body: a point mass (computed from its fixtures'
// densities) located by a Transform, carrying linear and angular
// velocity, plus the Sweep describing its motion across one step for
// continuous collision.
type Body struct {
	id       int
	bodyType BodyType
	flags    bodyFlags

	xf    geom2d.Transform
	sweep geom2d.Sweep

	linearVelocity  geom2d.Vec2
	angularVelocity float64

	force  geom2d.Vec2
	torque float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	mass, invMass float64
	i, invI       float64

	sleepTime float64

	fixtures      []*Fixture
	joints        []*JointEdge
	contactEdges  []ContactEdge

	world    *World
	userData interface{}
}

// ID returns the body's stable handle, valid for the body's lifetime
// within its World.
func (b *Body) ID() int { return b.id }

// Type returns the body's simulation category.
func (b *Body) Type() BodyType { return b.bodyType }

// Transform returns the body's current world transform (origin, not
// center of mass).
func (b *Body) Transform() geom2d.Transform { return b.xf }

// Position returns the world position of the body's origin.
func (b *Body) Position() geom2d.Vec2 { return b.xf.P }

// Angle returns the body's rotation in radians.
func (b *Body) Angle() float64 { return b.sweep.Pos1.Angular }

// WorldCenter returns the world position of the body's center of mass.
func (b *Body) WorldCenter() geom2d.Vec2 { return b.sweep.Pos1.Linear }

// LinearVelocity returns the linear velocity of the body's center of
// mass.
func (b *Body) LinearVelocity() geom2d.Vec2 { return b.linearVelocity }

// AngularVelocity returns the body's angular velocity in radians per
// second.
func (b *Body) AngularVelocity() float64 { return b.angularVelocity }

// Mass returns the body's total mass. Static and kinematic bodies
// always report zero.
func (b *Body) Mass() float64 { return b.mass }

// SetLinearVelocity overrides the body's linear velocity, waking it if
// the new velocity is nonzero. Ignored for static bodies.
func (b *Body) SetLinearVelocity(v geom2d.Vec2) {
	if b.bodyType == StaticBody {
		return
	}
	if v.LenSqr() > 0 {
		b.SetAwake(true)
	}
	b.linearVelocity = v
}

// SetAngularVelocity overrides the body's angular velocity, waking it
// if nonzero. Ignored for static bodies.
func (b *Body) SetAngularVelocity(omega float64) {
	if b.bodyType == StaticBody {
		return
	}
	if omega*omega > 0 {
		b.SetAwake(true)
	}
	b.angularVelocity = omega
}

// SetType changes the body's simulation category, recomputing its mass
// data and discarding its contacts so the next step re-evaluates every
// pair under the new rules. Returns ErrWorldLocked mid-Step.
func (b *Body) SetType(bodyType BodyType) error {
	w := b.world
	if w != nil && w.locked {
		return ErrWorldLocked
	}
	if b.bodyType == bodyType {
		return nil
	}
	b.bodyType = bodyType
	b.resetMassData()

	if bodyType == StaticBody {
		b.linearVelocity = geom2d.Vec2{}
		b.angularVelocity = 0
		b.sweep.Pos0 = b.sweep.Pos1
		b.flags &^= flagAwake
	} else {
		b.SetAwake(true)
	}
	b.force = geom2d.Vec2{}
	b.torque = 0

	if w != nil {
		for len(b.contactEdges) > 0 {
			w.destroyContact(b.contactEdges[0].contact)
		}
		for _, f := range b.fixtures {
			for _, p := range f.proxies {
				w.broadPhase.TouchProxy(p.proxyID)
			}
		}
	}
	return nil
}

// IsAwake reports whether the body currently participates in the
// velocity/position solve.
func (b *Body) IsAwake() bool { return b.flags&flagAwake != 0 }

// IsBullet reports whether the body is flagged for continuous
// collision (TOI) against other dynamic bodies.
func (b *Body) IsBullet() bool { return b.flags&flagBullet != 0 }

// SetAwake forces the body awake (resetting its sleep timer) or
// immediately puts it to sleep (zeroing its velocities). Waking a
// sleeping body also wakes every body connected to it by a touching
// contact or a joint, matching Body::SetAwake's propagation.
func (b *Body) SetAwake(flag bool) {
	if b.bodyType == StaticBody {
		return
	}
	if flag {
		if b.flags&flagAwake != 0 {
			return
		}
		b.flags |= flagAwake
		b.sleepTime = 0
		for _, ce := range b.contactEdges {
			if ce.contact.IsTouching() {
				ce.other.SetAwake(true)
			}
		}
		for _, je := range b.joints {
			je.other.SetAwake(true)
		}
		return
	}
	b.flags &^= flagAwake
	b.sleepTime = 0
	b.linearVelocity = geom2d.Vec2{}
	b.angularVelocity = 0
	b.force = geom2d.Vec2{}
	b.torque = 0
}

// IsEnabled reports whether the body participates in simulation at all.
func (b *Body) IsEnabled() bool { return b.flags&flagActive != 0 }

// SetEnabled removes the body from simulation entirely (false) or
// restores it (true). Disabling destroys its broad-phase proxies and
// contacts so the broad phase never pairs it; enabling recreates the
// proxies and lets the next Step re-pair it. Returns ErrWorldLocked
// mid-Step, like every other structural mutation.
func (b *Body) SetEnabled(flag bool) error {
	w := b.world
	if w != nil && w.locked {
		return ErrWorldLocked
	}
	if flag == (b.flags&flagActive != 0) {
		return nil
	}
	if flag {
		b.flags |= flagActive
		if w != nil {
			for _, f := range b.fixtures {
				w.createFixtureProxies(f)
			}
			w.newFixtures = true
		}
		return nil
	}
	b.flags &^= flagActive
	if w != nil {
		for len(b.contactEdges) > 0 {
			w.destroyContact(b.contactEdges[0].contact)
		}
		for _, f := range b.fixtures {
			w.destroyFixtureProxies(f)
		}
	}
	return nil
}

// SetAllowSleeping toggles whether the body may be put to sleep by the
// island solver's idle-time heuristic; disabling it also wakes the
// body immediately, matching Body::SetAllowSleeping.
func (b *Body) SetAllowSleeping(flag bool) {
	if flag {
		b.flags |= flagAutoSleep
		return
	}
	b.flags &^= flagAutoSleep
	b.SetAwake(true)
}

// ApplyForce applies a force at a world point, waking the body first.
// Off-center forces also contribute torque.
func (b *Body) ApplyForce(force, point geom2d.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&flagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&flagAwake == 0 {
		return
	}
	b.force = geom2d.Add(b.force, force)
	b.torque += geom2d.Cross2(geom2d.Sub(point, b.sweep.Pos1.Linear), force)
}

// ApplyForceToCenter applies a force through the center of mass,
// contributing no torque.
func (b *Body) ApplyForceToCenter(force geom2d.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&flagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&flagAwake == 0 {
		return
	}
	b.force = geom2d.Add(b.force, force)
}

// ApplyTorque applies a torque about the center of mass.
func (b *Body) ApplyTorque(torque float64, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&flagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&flagAwake == 0 {
		return
	}
	b.torque += torque
}

// ApplyLinearImpulse applies an instantaneous impulse at a world
// point, immediately changing velocity.
func (b *Body) ApplyLinearImpulse(impulse, point geom2d.Vec2, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&flagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&flagAwake == 0 {
		return
	}
	b.linearVelocity = geom2d.Add(b.linearVelocity, geom2d.Scale(impulse, b.invMass))
	b.angularVelocity += b.invI * geom2d.Cross2(geom2d.Sub(point, b.sweep.Pos1.Linear), impulse)
}

// ApplyAngularImpulse applies an instantaneous angular impulse.
func (b *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if b.bodyType != DynamicBody {
		return
	}
	if wake && b.flags&flagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&flagAwake == 0 {
		return
	}
	b.angularVelocity += b.invI * impulse
}

// SetTransform teleports the body to a new position and angle,
// bypassing the velocity solver, and resets its sweep so interpolation
// and TOI start cleanly from here. Synchronizes fixture proxies
// immediately.
func (b *Body) SetTransform(position geom2d.Vec2, angle float64) {
	b.xf.Q = geom2d.NewRot(angle)
	b.xf.P = geom2d.Sub(position, geom2d.Rotate(b.xf.Q, b.sweep.LocalCenter))

	b.sweep.Pos1.Linear = geom2d.TransformPoint(b.xf, b.sweep.LocalCenter)
	b.sweep.Pos1.Angular = angle
	b.sweep.Pos0 = b.sweep.Pos1
	b.sweep.Alpha0 = 0

	if b.world != nil {
		b.world.synchronizeFixtures(b)
	}
}

// resetMassData recomputes mass, center of mass, and rotational
// inertia from the body's current fixtures, the way b2Body::ResetMassData
// does after any fixture is added or removed.
func (b *Body) resetMassData() {
	b.mass, b.invMass, b.i, b.invI = 0, 0, 0, 0

	if b.bodyType != DynamicBody {
		b.sweep.LocalCenter = geom2d.Vec2{}
		b.sweep.Pos0.Linear = b.xf.P
		b.sweep.Pos1.Linear = b.xf.P
		return
	}

	localCenter := geom2d.Vec2{}
	for _, f := range b.fixtures {
		if f.density == 0 {
			continue
		}
		md := f.shape.ComputeMass(f.density)
		b.mass += md.Mass
		localCenter = geom2d.Add(localCenter, geom2d.Scale(md.Center, md.Mass))
		b.i += md.I
	}

	if b.mass > 0 {
		b.invMass = 1.0 / b.mass
		localCenter = geom2d.Scale(localCenter, b.invMass)
	} else {
		b.mass, b.invMass = 1, 1
	}

	if b.i > 0 && b.flags&flagFixedRotation == 0 {
		b.i -= b.mass * geom2d.Dot(localCenter, localCenter)
		b.invI = 1.0 / b.i
	} else {
		b.i, b.invI = 0, 0
	}

	oldCenter := b.sweep.Pos1.Linear
	b.sweep.LocalCenter = localCenter
	b.sweep.Pos1.Linear = geom2d.TransformPoint(b.xf, localCenter)
	b.sweep.Pos0.Linear = b.sweep.Pos1.Linear

	b.linearVelocity = geom2d.Add(b.linearVelocity,
		geom2d.CrossSV(b.angularVelocity, geom2d.Sub(b.sweep.Pos1.Linear, oldCenter)))
}

// synchronizeTransform recomputes xf from the sweep's current end
// pose, used after the position solver updates sweep.Pos1 in place.
func (b *Body) synchronizeTransform() {
	b.xf.Q = geom2d.NewRot(b.sweep.Pos1.Angular)
	b.xf.P = geom2d.Sub(b.sweep.Pos1.Linear, geom2d.Rotate(b.xf.Q, b.sweep.LocalCenter))
}

// advanceToAlpha rolls the body's sweep forward to a fractional time
// within the current step and commits it as the body's new authoritative
// pose, matching b2Body::Advance. Used once the TOI solver has settled
// on the earliest impact fraction for this step: the time between alpha
// and 1 that would have carried the body past the impact is discarded,
// and the next Step starts the body fresh from here.
func (b *Body) advanceToAlpha(alpha float64) {
	b.sweep.Advance0(alpha)
	b.sweep.Pos1 = b.sweep.Pos0
	b.synchronizeTransform()
}

// shouldCollideBodies reports whether a and b should ever generate a
// contact: never for two non-dynamic bodies, and never if a joint
// between them disables collision.
func shouldCollideBodies(a, b *Body) bool {
	if a.bodyType != DynamicBody && b.bodyType != DynamicBody {
		return false
	}
	for _, je := range a.joints {
		if je.other == b && !je.joint.CollideConnected() {
			return false
		}
	}
	return true
}
