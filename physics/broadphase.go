package physics

import (
	"sort"

	"github.com/gazed/rigid2d/math/geom2d"
)

// Pair is an unordered pair of broad-phase proxy IDs whose fat AABBs
// overlap.
type Pair struct {
	ProxyA, ProxyB int
}

// BroadPhase finds pairs of fixtures whose AABBs may overlap, using a
// DynamicTree as its spatial index instead of an O(n^2) pair scan: the
// tree prunes most pairs without testing them, the way World.Step
// needs for scenes with more than a handful of bodies.
type BroadPhase struct {
	tree    *DynamicTree
	moved   map[int]bool
	proxies map[int]int // proxyID -> fixture/child userData
}

// NewBroadPhase returns an empty broad phase.
func NewBroadPhase() *BroadPhase {
	return &BroadPhase{
		tree:    NewDynamicTree(),
		moved:   make(map[int]bool),
		proxies: make(map[int]int),
	}
}

// CreateProxy inserts aabb into the tree, tagged with userData (a
// fixture+child index encoded by the caller), and marks it moved so it
// is paired against on the next UpdatePairs.
func (bp *BroadPhase) CreateProxy(aabb AABB, userData int) int {
	id := bp.tree.CreateProxy(aabb, userData)
	bp.proxies[id] = userData
	bp.moved[id] = true
	return id
}

// DestroyProxy removes a proxy from the tree.
func (bp *BroadPhase) DestroyProxy(id int) {
	delete(bp.moved, id)
	delete(bp.proxies, id)
	bp.tree.DestroyProxy(id)
}

// MoveProxy updates a proxy's AABB, marking it moved if the tree had
// to reinsert it.
func (bp *BroadPhase) MoveProxy(id int, aabb AABB, displacement geom2d.Vec2) {
	if bp.tree.MoveProxy(id, aabb, displacement) {
		bp.moved[id] = true
	}
}

// TouchProxy forces id to be re-paired on the next UpdatePairs even
// though its AABB hasn't moved enough to require reinsertion — used
// when a fixture's filter data changes.
func (bp *BroadPhase) TouchProxy(id int) { bp.moved[id] = true }

// FatAABB returns a proxy's current fat AABB.
func (bp *BroadPhase) FatAABB(id int) AABB { return bp.tree.FatAABB(id) }

// UserData returns the userData a proxy was created with.
func (bp *BroadPhase) UserData(id int) int { return bp.tree.UserData(id) }

// UpdatePairs queries the tree for every proxy that moved since the
// last call, collects candidate overlap pairs, deduplicates them, and
// clears the moved set. The caller is responsible for turning each
// surviving Pair into a Contact (creating one if none already exists
// for that fixture/child combination).
func (bp *BroadPhase) UpdatePairs() []Pair {
	var pairs []Pair
	seen := make(map[[2]int]bool)

	movedIDs := make([]int, 0, len(bp.moved))
	for id := range bp.moved {
		movedIDs = append(movedIDs, id)
	}
	sort.Ints(movedIDs)

	for _, moved := range movedIDs {
		fatAABB := bp.tree.FatAABB(moved)
		bp.tree.Query(fatAABB, func(other int) bool {
			if other == moved {
				return true
			}
			// Avoid double-reporting a pair where both ends moved: only
			// the smaller ID reports it, unless only one side moved.
			if other < moved && bp.moved[other] {
				return true
			}
			key := [2]int{moved, other}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if seen[key] {
				return true
			}
			seen[key] = true
			pairs = append(pairs, Pair{ProxyA: key[0], ProxyB: key[1]})
			return true
		})
	}

	bp.moved = make(map[int]bool)
	return pairs
}

// Query invokes callback with the userData of every proxy whose fat
// AABB overlaps aabb.
func (bp *BroadPhase) Query(aabb AABB, callback func(userData int) bool) {
	bp.tree.Query(aabb, callback)
}

// RayCast invokes callback with the userData of every proxy the ray
// may intersect; the callback's return value clips or terminates the
// traversal per DynamicTree.RayCast's contract.
func (bp *BroadPhase) RayCast(input RayCastInput, callback func(sub RayCastInput, userData int) float64) {
	bp.tree.RayCast(input, callback)
}
