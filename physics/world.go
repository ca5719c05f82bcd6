package physics

import (
	"log/slog"
	"math"

	"github.com/gazed/rigid2d/math/geom2d"
)

// contactKey identifies a Contact by its (fixture, child) pair on each
// side, normalized so (A,B) and (B,A) hash the same. A map keyed this
// way gives World.contacts random-access lookup/removal that a flat
// scan by identity doesn't give cheaply as fixture counts grow.
type contactKey struct {
	fixtureA, childA int
	fixtureB, childB int
}

func newContactKey(fA *Fixture, childA int, fB *Fixture, childB int) contactKey {
	if fA.id < fB.id || (fA.id == fB.id && childA <= childB) {
		return contactKey{fA.id, childA, fB.id, childB}
	}
	return contactKey{fB.id, childB, fA.id, childA}
}

// WorldDef carries the construction-time limits and margins a World is
// built with. The zero value is not usable; start from DefaultWorldDef.
type WorldDef struct {
	Gravity            geom2d.Vec2
	AABBExtension      float64
	DisplaceMultiplier float64
	MinVertexRadius    float64
	MaxVertexRadius    float64
	MaxBodies          int
	MaxJoints          int
}

// DefaultWorldDef returns the margins NewWorld uses: a 0.1 broad-phase
// fattening, twice-displacement prediction, and generous entity caps.
func DefaultWorldDef(gravity geom2d.Vec2) WorldDef {
	return WorldDef{
		Gravity:            gravity,
		AABBExtension:      0.1,
		DisplaceMultiplier: 2.0,
		MinVertexRadius:    0,
		MaxVertexRadius:    255,
		MaxBodies:          1 << 16,
		MaxJoints:          1 << 16,
	}
}

// DestructionListener is told when a Fixture or Joint is destroyed
// implicitly as a side effect of destroying its owning body, so callers
// holding references can drop them before they dangle.
type DestructionListener interface {
	SayGoodbyeFixture(f *Fixture)
	SayGoodbyeJoint(j Joint)
}

// World owns every Body, Fixture, Joint, and Contact in a simulation,
// and drives Step, the single entry point that advances all of them by
// one fixed interval, centralizing the bookkeeping (broad phase,
// persistent contacts, islands) that b2World centralizes rather than
// leaving it to the caller.
type World struct {
	bodies      map[int]*Body
	bodyList    []*Body
	nextBodyID  int

	fixtures     map[int]*Fixture
	nextFixtureID int

	joints []Joint

	// contacts indexes by pair key for lookup; contactList preserves
	// creation order so per-step iteration (update, TOI scan) is
	// deterministic rather than following Go's randomized map order.
	contacts    map[contactKey]*Contact
	contactList []*Contact

	broadPhase *BroadPhase

	gravity geom2d.Vec2
	locked  bool
	invDt0  float64

	newFixtures bool

	contactListener     ContactListener
	destructionListener DestructionListener

	logger *slog.Logger

	aabbExtension      float64
	displaceMultiplier float64
	minVertexRadius    float64
	maxVertexRadius    float64
	maxBodies          int
	maxJoints          int
}

// NewWorld returns an empty World with the given gravity vector and
// Box2D-equivalent broad-phase margins.
func NewWorld(gravity geom2d.Vec2) *World {
	return NewWorldFromDef(DefaultWorldDef(gravity))
}

// NewWorldFromDef returns an empty World with def's limits and margins.
func NewWorldFromDef(def WorldDef) *World {
	return &World{
		bodies:             make(map[int]*Body),
		fixtures:           make(map[int]*Fixture),
		contacts:           make(map[contactKey]*Contact),
		broadPhase:         NewBroadPhase(),
		gravity:            def.Gravity,
		logger:             slog.Default(),
		aabbExtension:      def.AABBExtension,
		displaceMultiplier: def.DisplaceMultiplier,
		minVertexRadius:    def.MinVertexRadius,
		maxVertexRadius:    def.MaxVertexRadius,
		maxBodies:          def.MaxBodies,
		maxJoints:          def.MaxJoints,
	}
}

// Gravity returns the world's current gravity vector.
func (w *World) Gravity() geom2d.Vec2 { return w.gravity }

// SetGravity changes the gravity every dynamic body feels next Step.
func (w *World) SetGravity(gravity geom2d.Vec2) { w.gravity = gravity }

// SetContactListener installs the listener notified as contacts begin,
// end, and are solved. Pass nil to stop receiving notifications.
func (w *World) SetContactListener(l ContactListener) { w.contactListener = l }

// SetDestructionListener installs the listener told about fixtures and
// joints destroyed implicitly when their body is destroyed.
func (w *World) SetDestructionListener(l DestructionListener) { w.destructionListener = l }

// SetLogger overrides the *slog.Logger used for TOI root-finder
// failure warnings, e.g. to scope it under a component attribute. The
// GJK distance query logs through slog's default logger instead.
func (w *World) SetLogger(logger *slog.Logger) { w.logger = logger }

// IsLocked reports whether the world is mid-Step; CreateBody,
// DestroyBody, CreateFixture, DestroyFixture, CreateJoint, and
// DestroyJoint all refuse to run while true.
func (w *World) IsLocked() bool { return w.locked }

// CreateBody adds a new Body to the world.
func (w *World) CreateBody(def BodyDef) (*Body, error) {
	if w.locked {
		return nil, ErrWorldLocked
	}
	if !def.Position.IsValid() || math.IsNaN(def.Angle) || math.IsInf(def.Angle, 0) {
		return nil, ErrInvalidArgument
	}
	if len(w.bodyList) >= w.maxBodies {
		return nil, ErrCapacityExceeded
	}

	w.nextBodyID++
	b := &Body{
		id:       w.nextBodyID,
		bodyType: def.Type,
		world:    w,
		userData: def.UserData,

		linearVelocity:  def.LinearVelocity,
		angularVelocity: def.AngularVelocity,
		linearDamping:   def.LinearDamping,
		angularDamping:  def.AngularDamping,
		gravityScale:    def.GravityScale,
	}

	b.xf.Q = geom2d.NewRot(def.Angle)
	b.xf.P = def.Position
	b.sweep.Pos0.Linear = def.Position
	b.sweep.Pos0.Angular = def.Angle
	b.sweep.Pos1 = b.sweep.Pos0

	if def.AllowSleep {
		b.flags |= flagAutoSleep
	}
	if def.Awake || def.Type != StaticBody {
		b.flags |= flagAwake
	}
	if def.FixedRotation {
		b.flags |= flagFixedRotation
	}
	if def.Bullet {
		b.flags |= flagBullet
	}
	b.flags |= flagActive

	if def.Type == DynamicBody {
		b.mass, b.invMass = 1, 1
	}

	w.bodies[b.id] = b
	w.bodyList = append(w.bodyList, b)
	return b, nil
}

// DestroyBody removes a body and everything attached to it: its
// fixtures (and their broad-phase proxies), its contacts, and any
// joint referencing it.
func (w *World) DestroyBody(b *Body) error {
	if w.locked {
		return ErrWorldLocked
	}

	for len(b.contactEdges) > 0 {
		w.destroyContact(b.contactEdges[0].contact)
	}

	for len(b.joints) > 0 {
		j := b.joints[0].joint
		if w.destructionListener != nil {
			w.destructionListener.SayGoodbyeJoint(j)
		}
		w.destroyJoint(j)
	}

	for _, f := range append([]*Fixture(nil), b.fixtures...) {
		if w.destructionListener != nil {
			w.destructionListener.SayGoodbyeFixture(f)
		}
		w.destroyFixtureProxies(f)
		delete(w.fixtures, f.id)
	}
	b.fixtures = nil

	delete(w.bodies, b.id)
	for i, other := range w.bodyList {
		if other == b {
			w.bodyList = append(w.bodyList[:i], w.bodyList[i+1:]...)
			break
		}
	}
	return nil
}

// CreateFixture attaches a Shape to a Body, creating one broad-phase
// proxy per shape child, and recomputes the body's mass data.
func (w *World) CreateFixture(b *Body, def FixtureDef) (*Fixture, error) {
	if w.locked {
		return nil, ErrWorldLocked
	}
	if def.Shape == nil {
		return nil, ErrInvalidArgument
	}
	if r := def.Shape.Proxy(0).Radius; r < w.minVertexRadius || r > w.maxVertexRadius {
		return nil, ErrInvalidArgument
	}
	if def.Density < 0 || math.IsNaN(def.Density) || math.IsNaN(def.Friction) || math.IsNaN(def.Restitution) {
		return nil, ErrInvalidArgument
	}

	w.nextFixtureID++
	f := &Fixture{
		id:          w.nextFixtureID,
		body:        b,
		shape:       def.Shape,
		density:     def.Density,
		friction:    def.Friction,
		restitution: def.Restitution,
		isSensor:    def.IsSensor,
		filter:      def.Filter,
		userData:    def.UserData,
	}

	if b.flags&flagActive != 0 {
		w.createFixtureProxies(f)
	}

	w.fixtures[f.id] = f
	b.fixtures = append(b.fixtures, f)
	w.newFixtures = true

	if f.density > 0 {
		b.resetMassData()
	}
	b.SetAwake(true)
	return f, nil
}

// DestroyFixture removes a fixture from its body, destroying its
// broad-phase proxies and any contact it participates in.
func (w *World) DestroyFixture(f *Fixture) error {
	if w.locked {
		return ErrWorldLocked
	}

	b := f.body
	for _, ce := range append([]ContactEdge(nil), b.contactEdges...) {
		if ce.contact.fixtureA == f || ce.contact.fixtureB == f {
			w.destroyContact(ce.contact)
		}
	}

	w.destroyFixtureProxies(f)
	delete(w.fixtures, f.id)
	for i, other := range b.fixtures {
		if other == f {
			b.fixtures = append(b.fixtures[:i], b.fixtures[i+1:]...)
			break
		}
	}

	b.resetMassData()
	b.SetAwake(true)
	return nil
}

func (w *World) createFixtureProxies(f *Fixture) {
	b := f.body
	childCount := f.shape.ChildCount()
	f.proxies = make([]fixtureProxy, childCount)
	for i := 0; i < childCount; i++ {
		aabb := f.shape.ComputeAABB(b.xf, i).Extend(w.aabbExtension)
		proxyID := w.broadPhase.CreateProxy(aabb, encodeProxyUserData(f.id, i))
		f.proxies[i] = fixtureProxy{aabb: aabb, fixture: f, childIndex: i, proxyID: proxyID}
	}
}

func (w *World) destroyFixtureProxies(f *Fixture) {
	for _, p := range f.proxies {
		w.broadPhase.DestroyProxy(p.proxyID)
	}
	f.proxies = nil
}

// CreateJoint adds a constraint between two bodies, waking both.
func (w *World) CreateJoint(j Joint) error {
	if w.locked {
		return ErrWorldLocked
	}
	if len(w.joints) >= w.maxJoints {
		return ErrCapacityExceeded
	}

	bA, bB := j.BodyA(), j.BodyB()
	bA.joints = append(bA.joints, &JointEdge{other: bB, joint: j})
	bB.joints = append(bB.joints, &JointEdge{other: bA, joint: j})
	w.joints = append(w.joints, j)

	bA.SetAwake(true)
	bB.SetAwake(true)

	if !j.CollideConnected() {
		w.refilterJointedBodies(bA, bB)
	}
	return nil
}

// refilterJointedBodies forces every contact between a and b to be
// re-evaluated next step, since a newly added joint may have just
// disabled their collision.
func (w *World) refilterJointedBodies(a, b *Body) {
	for _, ce := range a.contactEdges {
		if ce.other == b {
			ce.contact.flags |= contactFiltering
		}
	}
}

// DestroyJoint removes a joint, unlinking it from both bodies.
func (w *World) DestroyJoint(j Joint) error {
	if w.locked {
		return ErrWorldLocked
	}
	w.destroyJoint(j)
	return nil
}

func (w *World) destroyJoint(j Joint) {
	bA, bB := j.BodyA(), j.BodyB()
	bA.SetAwake(true)
	bB.SetAwake(true)

	removeJointEdge(bA, j)
	removeJointEdge(bB, j)

	for i, other := range w.joints {
		if other == j {
			w.joints = append(w.joints[:i], w.joints[i+1:]...)
			break
		}
	}
}

func removeJointEdge(b *Body, j Joint) {
	for i, je := range b.joints {
		if je.joint == j {
			b.joints = append(b.joints[:i], b.joints[i+1:]...)
			return
		}
	}
}

// synchronizeFixtures recomputes every one of b's fixture proxies'
// tight AABB from its current transform and updates the broad phase,
// predicting the next step's displacement so a fast-moving body's fat
// AABB already covers where it's headed.
func (w *World) synchronizeFixtures(b *Body) {
	displacement := geom2d.Scale(geom2d.Sub(b.sweep.Pos1.Linear, b.sweep.Pos0.Linear), w.displaceMultiplier)
	for _, f := range b.fixtures {
		for i := range f.proxies {
			p := &f.proxies[i]
			aabb := f.shape.ComputeAABB(b.xf, p.childIndex)
			if p.aabb.Contains(aabb) {
				continue
			}
			fat := aabb.Extend(w.aabbExtension)
			p.aabb = fat
			w.broadPhase.MoveProxy(p.proxyID, fat, displacement)
		}
	}
}

// refilterFixture forces every broad-phase proxy of f to be re-paired
// on the next UpdatePairs, used after its Filter changes.
func (w *World) refilterFixture(f *Fixture) {
	for _, p := range f.proxies {
		w.broadPhase.TouchProxy(p.proxyID)
	}
	for _, ce := range f.body.contactEdges {
		if ce.contact.fixtureA == f || ce.contact.fixtureB == f {
			ce.contact.flags |= contactFiltering
		}
	}
}

// encodeProxyUserData packs a fixture ID and child shape index into
// the single int the broad phase stores per proxy, avoiding a second
// map lookup from proxyID to fixture on every pair it reports.
func encodeProxyUserData(fixtureID, child int) int {
	return fixtureID<<20 | child
}

func decodeProxyUserData(code int) (fixtureID, child int) {
	return code >> 20, code & 0xFFFFF
}

// Step advances the simulation by conf.DT: updates existing contacts,
// discovers new ones from the broad phase, solves every island of
// awake bodies, resynchronizes proxies for anything that moved, and
// (if enabled) resolves any continuous-collision events the discrete
// step would otherwise have tunneled through.
func (w *World) Step(conf *StepConf) (StepStats, error) {
	if w.locked {
		return StepStats{}, ErrWorldLocked
	}
	w.locked = true
	defer func() { w.locked = false }()

	if w.newFixtures {
		w.findNewContacts()
		w.newFixtures = false
	}

	stats := StepStats{ProxyCount: len(w.broadPhase.proxies)}

	// dt == 0 still performs the proxy and contact maintenance above but
	// skips the solve: warm starting with a zero-length step would inject
	// stored impulses into velocities with nothing to balance them.
	if conf.DT > 0 {
		w.updateContacts()

		islands := buildIslands(w.bodyList)
		for _, isl := range islands {
			w.solveIsland(isl, conf)
		}

		for _, b := range w.bodyList {
			if b.bodyType != StaticBody && b.flags&flagAwake != 0 {
				w.synchronizeFixtures(b)
			}
		}

		w.findNewContacts()

		stats.Islands = len(islands)

		if conf.DoTOI {
			stats.TOIEvents = w.solveTOI(conf)
		}

		w.invDt0 = 1.0 / conf.DT
	}

	stats.Contacts = len(w.contactList)
	return stats, nil
}

// updateContacts re-evaluates every existing contact's manifold,
// firing Begin/End/PreSolve notifications, but skips pairs where
// neither body is awake (nothing could have changed) or neither side
// is dynamic (two statics/kinematics never need re-evaluation).
func (w *World) updateContacts() {
	for _, c := range append([]*Contact(nil), w.contactList...) {
		bA, bB := c.fixtureA.body, c.fixtureB.body

		if c.flags&contactFiltering != 0 {
			c.flags &^= contactFiltering
			if !shouldCreateContact(c.fixtureA, c.fixtureB) {
				w.destroyContact(c)
				continue
			}
		}

		activeA := bA.bodyType == DynamicBody && bA.flags&flagAwake != 0
		activeB := bB.bodyType == DynamicBody && bB.flags&flagAwake != 0
		if !activeA && !activeB {
			continue
		}

		proxyIDA := c.fixtureA.proxies[c.childA].proxyID
		proxyIDB := c.fixtureB.proxies[c.childB].proxyID
		if !w.broadPhase.FatAABB(proxyIDA).Overlaps(w.broadPhase.FatAABB(proxyIDB)) {
			w.destroyContact(c)
			continue
		}

		c.update(w.contactListener)
	}
}

// findNewContacts drains the broad phase's moved-proxy pair list and
// creates a Contact for every pair that's eligible and doesn't already
// have one.
func (w *World) findNewContacts() {
	for _, pair := range w.broadPhase.UpdatePairs() {
		fidA, childA := decodeProxyUserData(w.broadPhase.UserData(pair.ProxyA))
		fidB, childB := decodeProxyUserData(w.broadPhase.UserData(pair.ProxyB))

		fA, okA := w.fixtures[fidA]
		fB, okB := w.fixtures[fidB]
		if !okA || !okB {
			continue
		}

		key := newContactKey(fA, childA, fB, childB)
		if _, exists := w.contacts[key]; exists {
			continue
		}
		if !shouldCreateContact(fA, fB) {
			continue
		}

		c := newContact(fA, childA, fB, childB)
		w.contacts[key] = c
		w.contactList = append(w.contactList, c)

		bA, bB := fA.body, fB.body
		c.nodeA = ContactEdge{other: bB, contact: c}
		c.nodeB = ContactEdge{other: bA, contact: c}
		bA.contactEdges = append(bA.contactEdges, c.nodeA)
		bB.contactEdges = append(bB.contactEdges, c.nodeB)
	}
}

// destroyContact fires EndContact if the pair was touching, unlinks
// the contact from both bodies' edge lists, and drops it from the
// world's key map and ordered list. Called when the pair's fat AABBs
// separate, a filter or joint change disallows the pair, or either
// side's fixture/body is destroyed.
func (w *World) destroyContact(c *Contact) {
	if c.flags&contactTouching != 0 && w.contactListener != nil {
		w.contactListener.EndContact(c)
	}

	removeContactEdge(c.fixtureA.body, c)
	removeContactEdge(c.fixtureB.body, c)

	key := newContactKey(c.fixtureA, c.childA, c.fixtureB, c.childB)
	delete(w.contacts, key)
	for i, other := range w.contactList {
		if other == c {
			w.contactList = append(w.contactList[:i], w.contactList[i+1:]...)
			break
		}
	}
}

func removeContactEdge(b *Body, c *Contact) {
	for i, ce := range b.contactEdges {
		if ce.contact == c {
			b.contactEdges = append(b.contactEdges[:i], b.contactEdges[i+1:]...)
			return
		}
	}
}

// QueryAABB invokes callback with every (fixture, child) whose
// broad-phase fat AABB overlaps aabb; callback returns false to stop
// early.
func (w *World) QueryAABB(aabb AABB, callback func(f *Fixture, child int) bool) {
	w.broadPhase.Query(aabb, func(userData int) bool {
		fid, child := decodeProxyUserData(userData)
		f, ok := w.fixtures[fid]
		if !ok {
			return true
		}
		return callback(f, child)
	})
}

// RayCastCallback is invoked once per fixture the segment actually hits
// (broad-phase candidates are narrow-phased against the shape first),
// with the world-space hit point, surface normal, and hit fraction
// along the segment. Its return value steers the traversal: -1 ignores
// this hit and continues at the ray's current length, 0 terminates, a
// fraction shorter than the current length clips the remaining ray to
// it (finding the closest hit by returning each fraction as it
// arrives), and 1 continues without clipping further.
type RayCastCallback func(f *Fixture, point, normal geom2d.Vec2, fraction float64) float64

// RayCast traces the segment p1->p2 through the broad phase, narrow-
// phasing each candidate fixture and reporting actual hits to callback.
func (w *World) RayCast(p1, p2 geom2d.Vec2, callback RayCastCallback) {
	w.broadPhase.RayCast(RayCastInput{P1: p1, P2: p2, MaxFraction: 1}, func(sub RayCastInput, userData int) float64 {
		fid, child := decodeProxyUserData(userData)
		f, ok := w.fixtures[fid]
		if !ok {
			return sub.MaxFraction
		}
		out, hit := f.shape.RayCast(sub, f.body.xf, child)
		if !hit {
			return sub.MaxFraction
		}
		point := geom2d.Add(geom2d.Scale(p1, 1-out.Fraction), geom2d.Scale(p2, out.Fraction))
		value := callback(f, point, out.Normal, out.Fraction)
		if value < 0 {
			return sub.MaxFraction
		}
		return value
	})
}

// findMinTOIContact scans every enabled, not-yet-exhausted contact for
// the earliest time of impact within this step, advancing each
// candidate pair's sweeps to a common alpha0 as it goes (matching
// b2World::SolveTOI's per-contact alignment) and caching the result on
// the contact so a later round in the same Step doesn't recompute it.
func (w *World) findMinTOIContact(conf *StepConf) (*Contact, float64) {
	var minContact *Contact
	minAlpha := 1.0

	for _, c := range w.contactList {
		if c.flags&contactEnabled == 0 {
			continue
		}
		if c.toiCount >= conf.MaxSubSteps {
			continue
		}
		if c.fixtureA.isSensor || c.fixtureB.isSensor {
			continue
		}

		bA, bB := c.fixtureA.body, c.fixtureB.body
		typeA, typeB := bA.bodyType, bB.bodyType

		activeA := bA.flags&flagAwake != 0 && typeA != StaticBody
		activeB := bB.flags&flagAwake != 0 && typeB != StaticBody
		if !activeA && !activeB {
			continue
		}
		collideA := bA.flags&flagBullet != 0 || typeA != DynamicBody
		collideB := bB.flags&flagBullet != 0 || typeB != DynamicBody
		if !collideA && !collideB {
			continue
		}

		var alpha float64
		if c.flags&contactHasTOI != 0 {
			alpha = c.toi
		} else {
			alpha0 := math.Max(bA.sweep.Alpha0, bB.sweep.Alpha0)
			if bA.sweep.Alpha0 < alpha0 {
				bA.sweep.Advance0(alpha0)
			}
			if bB.sweep.Alpha0 < alpha0 {
				bB.sweep.Advance0(alpha0)
			}

			proxyA := c.fixtureA.shape.Proxy(c.childA)
			proxyB := c.fixtureB.shape.Proxy(c.childB)

			out := TimeOfImpact(TOIInput{
				ProxyA: proxyA, ProxyB: proxyB,
				SweepA: bA.sweep, SweepB: bB.sweep,
				TMax:         1.0,
				Target:       conf.TargetDepth,
				Tolerance:    conf.Tolerance,
				MaxRootIters: conf.MaxRootIters,
				MaxTOIIters:  conf.MaxTOIIters,
			})

			switch out.State {
			case TOITouching:
				alpha = math.Min(alpha0+(1-alpha0)*out.T, 1.0)
			case TOIFailed:
				w.logger.Warn("time of impact root finder did not converge",
					"fixtureA", c.fixtureA.id, "fixtureB", c.fixtureB.id)
				alpha = 1.0
			default:
				alpha = 1.0
			}

			c.toi = alpha
			c.flags |= contactHasTOI
		}

		if alpha < minAlpha {
			minAlpha = alpha
			minContact = c
		}
	}

	return minContact, minAlpha
}

// buildTOIIsland gathers the reduced island the TOI solver runs over:
// the impact pair, plus every body touching either of them once it too
// has been tentatively advanced to the impact time and its contact
// re-evaluated at the new poses. A neighbor whose contact turns out not
// to touch at the impact time is rolled back to its backed-up sweep and
// excluded, matching b2World::SolveTOI's per-edge processing. Dynamic
// neighbors join only when one side of the pair is a bullet, so a TOI
// event against the static world doesn't drag in whole dynamic stacks.
func (w *World) buildTOIIsland(seedA, seedB *Body, seed *Contact, minAlpha float64) *island {
	isl := &island{bodies: []*Body{seedA, seedB}, contacts: []*Contact{seed}}
	seenBodies := map[*Body]bool{seedA: true, seedB: true}
	seenContacts := map[*Contact]bool{seed: true}

	for _, b := range []*Body{seedA, seedB} {
		if b.bodyType != DynamicBody {
			continue
		}
		for _, ce := range b.contactEdges {
			c := ce.contact
			if seenContacts[c] {
				continue
			}
			other := ce.other
			if other.bodyType == DynamicBody &&
				b.flags&flagBullet == 0 && other.flags&flagBullet == 0 {
				continue
			}
			if c.fixtureA.isSensor || c.fixtureB.isSensor {
				continue
			}

			backup := other.sweep
			if !seenBodies[other] {
				other.advanceToAlpha(minAlpha)
			}

			c.update(w.contactListener)
			if !c.IsTouching() || c.flags&contactEnabled == 0 {
				other.sweep = backup
				other.synchronizeTransform()
				continue
			}

			seenContacts[c] = true
			isl.contacts = append(isl.contacts, c)

			if seenBodies[other] {
				continue
			}
			seenBodies[other] = true
			if other.bodyType != StaticBody {
				other.SetAwake(true)
			}
			isl.bodies = append(isl.bodies, other)
		}
	}
	return isl
}

// solveTOI resolves continuous-collision events left over after the
// discrete step: repeatedly finds the earliest impact among eligible
// contacts, commits both bodies to that instant, solves a small island
// around the impact to separate them, and resyncs the broad phase,
// until no contact reports an impact before the end of the step.
func (w *World) solveTOI(conf *StepConf) int {
	for _, b := range w.bodyList {
		b.sweep.Alpha0 = 0
	}
	for _, c := range w.contactList {
		c.flags &^= contactHasTOI
		c.toiCount = 0
	}

	events := 0
	maxSteps := 8 * (len(w.contactList) + 1)

	for step := 0; step < maxSteps; step++ {
		minContact, minAlpha := w.findMinTOIContact(conf)
		if minContact == nil || minAlpha >= 1.0-10*geom2d.Epsilon {
			break
		}

		bA, bB := minContact.fixtureA.body, minContact.fixtureB.body
		backupA, backupB := bA.sweep, bB.sweep

		bA.advanceToAlpha(minAlpha)
		bB.advanceToAlpha(minAlpha)

		minContact.update(w.contactListener)
		minContact.flags &^= contactHasTOI
		minContact.toiCount++

		if !minContact.IsTouching() || minContact.flags&contactEnabled == 0 {
			// The TOI query's prediction didn't survive the manifold
			// re-evaluation; rewind and let the scan pick the next event.
			bA.sweep, bB.sweep = backupA, backupB
			bA.synchronizeTransform()
			bB.synchronizeTransform()
			continue
		}

		bA.SetAwake(true)
		bB.SetAwake(true)

		isl := w.buildTOIIsland(bA, bB, minContact, minAlpha)
		w.solveTOIIsland(isl, conf, (1.0-minAlpha)*conf.DT, bA, bB)
		events++

		// The solve moved every island body; their cached TOIs (and those
		// of anything touching them) are stale now.
		for _, b := range isl.bodies {
			if b.bodyType == StaticBody {
				continue
			}
			w.synchronizeFixtures(b)
			for _, ce := range b.contactEdges {
				ce.contact.flags &^= contactHasTOI
			}
		}
		w.findNewContacts()
	}

	return events
}
