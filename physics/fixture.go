package physics

import (
	"math"

	"github.com/gazed/rigid2d/math/geom2d"
)

// Filter controls which fixture pairs the broad phase allows to
// generate contacts. When two fixtures share the same nonzero
// GroupIndex, a positive group always collides and a negative group
// never does; otherwise they collide only if
// (CategoryBits & other.MaskBits) != 0 in both directions.
type Filter struct {
	CategoryBits uint16
	MaskBits     uint16
	GroupIndex   int16
}

// DefaultFilter collides with everything.
func DefaultFilter() Filter {
	return Filter{CategoryBits: 0x0001, MaskBits: 0xFFFF}
}

// shouldCollideFilter applies Filter's group/category/mask rule,
// matching Box2D's b2ShouldCollide / b2Filter.
func shouldCollideFilter(a, b Filter) bool {
	if a.GroupIndex == b.GroupIndex && a.GroupIndex != 0 {
		return a.GroupIndex > 0
	}
	return a.CategoryBits&b.MaskBits != 0 && a.MaskBits&b.CategoryBits != 0
}

// FixtureDef describes a Shape to attach to a Body, along with its
// material and filtering properties.
type FixtureDef struct {
	Shape       Shape
	Density     float64
	Friction    float64
	Restitution float64
	IsSensor    bool
	Filter      Filter
	UserData    interface{}
}

// DefaultFixtureDef returns friction 0.2 (matching Box2D's default)
// and the default collide-with-everything filter.
func DefaultFixtureDef() FixtureDef {
	return FixtureDef{Friction: 0.2, Filter: DefaultFilter()}
}

// fixtureProxy is one broad-phase entry for a fixture's child shape
// (a Circle, Edge, or Polygon has one child; a Chain has one per
// segment).
type fixtureProxy struct {
	aabb       AABB
	fixture    *Fixture
	childIndex int
	proxyID    int
}

// Fixture binds a Shape to a Body with material and filtering
// properties, and owns the broad-phase proxies for the shape's
// children.
type Fixture struct {
	id       int
	body     *Body
	shape    Shape
	density  float64
	friction float64
	restitution float64
	isSensor bool
	filter   Filter
	proxies  []fixtureProxy
	userData interface{}
}

// ID returns the fixture's stable handle.
func (f *Fixture) ID() int { return f.id }

// Body returns the owning body.
func (f *Fixture) Body() *Body { return f.body }

// Shape returns the fixture's collision geometry.
func (f *Fixture) Shape() Shape { return f.shape }

// IsSensor reports whether the fixture generates contacts that report
// touching/separated but never resolve velocity (a trigger volume).
func (f *Fixture) IsSensor() bool { return f.isSensor }

// Friction returns the fixture's Coulomb friction coefficient.
func (f *Fixture) Friction() float64 { return f.friction }

// Restitution returns the fixture's bounciness coefficient.
func (f *Fixture) Restitution() float64 { return f.restitution }

// SetFilter updates the fixture's collision filter and forces every
// existing contact touching it to be re-evaluated next step.
func (f *Fixture) SetFilter(filter Filter) {
	f.filter = filter
	if f.body == nil || f.body.world == nil {
		return
	}
	f.body.world.refilterFixture(f)
}

// TestPoint reports whether p (in world space) lies inside the
// fixture's shape.
func (f *Fixture) TestPoint(p geom2d.Vec2) bool {
	return f.shape.TestPoint(f.body.xf, p)
}

// combineFriction geometrically averages two fixtures' friction;
// newContact calls it once and stores the result on the contact.
func combineFriction(a, b float64) float64 {
	if a*b <= 0 {
		return 0
	}
	return math.Sqrt(a * b)
}

// combineRestitution takes the larger of two fixtures' restitution,
// matching b2MixRestitution.
func combineRestitution(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
