package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awakeDynamicBody() *Body {
	return &Body{bodyType: DynamicBody, flags: flagAwake | flagActive}
}

func touchingContact(a, b *Body) *Contact {
	return &Contact{
		fixtureA: &Fixture{body: a},
		fixtureB: &Fixture{body: b},
		flags:    contactEnabled | contactTouching,
	}
}

func linkContact(a, b *Body, c *Contact) {
	a.contactEdges = append(a.contactEdges, ContactEdge{other: b, contact: c})
	b.contactEdges = append(b.contactEdges, ContactEdge{other: a, contact: c})
}

func linkJoint(a, b *Body, j Joint) {
	a.joints = append(a.joints, &JointEdge{other: b, joint: j})
	b.joints = append(b.joints, &JointEdge{other: a, joint: j})
}

// TestBuildIslandsGroupsJointedBodiesTogether checks two dynamic bodies
// linked only by a joint (no touching contact) land in the same
// island, and an unconnected third body gets its own.
func TestBuildIslandsGroupsJointedBodiesTogether(t *testing.T) {
	a := awakeDynamicBody()
	b := awakeDynamicBody()
	c := awakeDynamicBody()

	joint := NewDistanceJoint(DistanceJointDef{BodyA: a, BodyB: b, Length: 1})
	linkJoint(a, b, joint)

	islands := buildIslands([]*Body{a, b, c})
	require.Len(t, islands, 2)

	var jointIsland, loneIsland *island
	for _, isl := range islands {
		if len(isl.bodies) == 2 {
			jointIsland = isl
		} else {
			loneIsland = isl
		}
	}
	require.NotNil(t, jointIsland)
	require.NotNil(t, loneIsland)
	assert.ElementsMatch(t, []*Body{a, b}, jointIsland.bodies)
	assert.Equal(t, []*Body{c}, loneIsland.bodies)
	assert.Len(t, jointIsland.joints, 1)
}

// TestBuildIslandsStaticBodyAppearsInBothIslandsWithoutMerging checks
// a static body touched by two otherwise-unconnected dynamic bodies
// appears in both islands rather than merging them into one.
func TestBuildIslandsStaticBodyAppearsInBothIslandsWithoutMerging(t *testing.T) {
	ground := &Body{bodyType: StaticBody}
	a := awakeDynamicBody()
	b := awakeDynamicBody()

	linkContact(a, ground, touchingContact(a, ground))
	linkContact(b, ground, touchingContact(b, ground))

	islands := buildIslands([]*Body{a, b, ground})
	require.Len(t, islands, 2)

	for _, isl := range islands {
		assert.Len(t, isl.bodies, 2)
		assert.Contains(t, isl.bodies, ground)
	}
}

// TestBuildIslandsSkipsSleepingBodies checks a dynamic body without
// flagAwake set never seeds or joins an island.
func TestBuildIslandsSkipsSleepingBodies(t *testing.T) {
	awake := awakeDynamicBody()
	asleep := &Body{bodyType: DynamicBody}

	islands := buildIslands([]*Body{awake, asleep})
	require.Len(t, islands, 1)
	assert.Equal(t, []*Body{awake}, islands[0].bodies)
}
