package physics

import "github.com/gazed/rigid2d/math/geom2d"

// ContactEdge links a Body to one Contact it participates in, the
// contact-graph counterpart of JointEdge; the island builder walks
// both.
type ContactEdge struct {
	other   *Body
	contact *Contact
}

// contactFlags track a Contact's lifecycle bits as a single bitset
// rather than several separate bool fields.
type contactFlags uint32

const (
	contactTouching contactFlags = 1 << iota
	contactEnabled
	contactFiltering
	contactIsland
	contactHasTOI
)

// Contact is a persistent record of a (fixtureA, childA)/(fixtureB,
// childB) pair the broad phase reported as possibly overlapping. It
// survives across steps so its Manifold's per-point impulses can be
// warm-started, matched by ContactFeature identity (surviving
// vertex/face sliding) instead of by nearest-distance search.
type Contact struct {
	fixtureA, fixtureB   *Fixture
	childA, childB       int
	friction, restitution float64
	tangentSpeed         float64
	manifold             Manifold
	flags                contactFlags
	toi                  float64
	toiCount             int
	nodeA, nodeB         ContactEdge
}

// FixtureA returns the first fixture in the pair.
func (c *Contact) FixtureA() *Fixture { return c.fixtureA }

// FixtureB returns the second fixture in the pair.
func (c *Contact) FixtureB() *Fixture { return c.fixtureB }

// IsTouching reports whether the contact's manifold currently has at
// least one point.
func (c *Contact) IsTouching() bool { return c.flags&contactTouching != 0 }

// Manifold returns the contact's current (local-space) manifold.
func (c *Contact) Manifold() Manifold { return c.manifold }

// SetEnabled lets a BeginContact listener veto an otherwise-touching
// contact for this step (e.g. one-way platforms), matching
// b2Contact::SetEnabled.
func (c *Contact) SetEnabled(flag bool) {
	if flag {
		c.flags |= contactEnabled
	} else {
		c.flags &^= contactEnabled
	}
}

// SetTangentSpeed sets the target relative surface speed used by
// friction, e.g. to simulate a conveyor belt, matching Box2D's
// b2Contact::SetTangentSpeed.
func (c *Contact) SetTangentSpeed(speed float64) { c.tangentSpeed = speed }

// newContact builds a fresh, not-yet-touching contact for a fixture
// pair, combining their material properties once up front rather than
// recombining friction/restitution on every solve.
func newContact(fA *Fixture, childA int, fB *Fixture, childB int) *Contact {
	return &Contact{
		fixtureA: fA, childA: childA,
		fixtureB: fB, childB: childB,
		friction:    combineFriction(fA.friction, fB.friction),
		restitution: combineRestitution(fA.restitution, fB.restitution),
		flags:       contactEnabled,
	}
}

// update re-evaluates the contact's manifold for the fixtures' current
// transforms, preserves warm-start impulses for points whose
// ContactFeature matches the previous manifold, fires BeginContact,
// EndContact and PreSolve on listener (when non-nil) as the touching
// state requires, and returns (wasTouching, isTouching).
func (c *Contact) update(listener ContactListener) (wasTouching, isTouching bool) {
	// A PreSolve veto only lasts the step it was issued in.
	c.flags |= contactEnabled
	wasTouching = c.flags&contactTouching != 0

	oldManifold := c.manifold
	if c.fixtureA.isSensor || c.fixtureB.isSensor {
		shapeA, shapeB := c.fixtureA.shape, c.fixtureB.shape
		proxyA := shapeA.Proxy(c.childA)
		proxyB := shapeB.Proxy(c.childB)
		out := Distance(DistanceInput{
			ProxyA: proxyA, ProxyB: proxyB,
			TransformA: c.fixtureA.body.xf, TransformB: c.fixtureB.body.xf,
			UseRadii: true,
		}, &SimplexCache{})
		isTouching = out.Distance < 10*geom2d.Epsilon
		c.manifold = Manifold{}
	} else {
		c.manifold = CollideShapes(c.fixtureA.shape, c.fixtureA.body.xf, c.childA, c.fixtureB.shape, c.fixtureB.body.xf, c.childB)
		isTouching = len(c.manifold.Points) > 0
		c.matchWarmStart(oldManifold)
	}

	if isTouching {
		c.flags |= contactTouching
	} else {
		c.flags &^= contactTouching
	}

	if listener == nil {
		return
	}
	if !wasTouching && isTouching {
		listener.BeginContact(c)
	} else if wasTouching && !isTouching {
		listener.EndContact(c)
	}
	if isTouching {
		listener.PreSolve(c, oldManifold)
	}
	return
}

// matchWarmStart copies NormalImpulse/TangentImpulse from old into
// c.manifold's points sharing the same ContactFeature, so a contact
// point persisting across a step (even as the shapes slide and its
// local coordinates shift) keeps its accumulated impulse instead of
// restarting from zero and briefly under-resolving the constraint.
func (c *Contact) matchWarmStart(old Manifold) {
	for i := range c.manifold.Points {
		p := &c.manifold.Points[i]
		for _, op := range old.Points {
			if op.Feature == p.Feature {
				p.NormalImpulse = op.NormalImpulse
				p.TangentImpulse = op.TangentImpulse
				break
			}
		}
	}
}

// ContactListener receives notifications as contacts begin and end
// touching, and may inspect or veto a contact just before (PreSolve)
// or just after (PostSolve) the solver processes it, matching
// b2ContactListener's four hooks.
type ContactListener interface {
	BeginContact(c *Contact)
	EndContact(c *Contact)
	PreSolve(c *Contact, oldManifold Manifold)
	PostSolve(c *Contact, impulse []float64)
}

// shouldCreateContact decides whether two fixtures are even eligible
// for a Contact: their bodies aren't the same body,
// the bodies pass shouldCollideBodies (joint exclusion, at least one
// dynamic), and their filters allow it.
func shouldCreateContact(fA, fB *Fixture) bool {
	if fA.body == fB.body {
		return false
	}
	if !shouldCollideBodies(fA.body, fB.body) {
		return false
	}
	return shouldCollideFilter(fA.filter, fB.filter)
}
