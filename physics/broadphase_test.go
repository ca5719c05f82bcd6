package physics

import (
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
)

func TestBroadPhaseUpdatePairsDedupesAndClearsMoved(t *testing.T) {
	bp := NewBroadPhase()
	a := bp.CreateProxy(unitAABB(0, 0), 1)
	b := bp.CreateProxy(unitAABB(0.2, 0), 2)

	pairs := bp.UpdatePairs()
	assert.Len(t, pairs, 1)
	key := [2]int{a, b}
	if key[0] > key[1] {
		key[0], key[1] = key[1], key[0]
	}
	assert.Equal(t, key[0], pairs[0].ProxyA)
	assert.Equal(t, key[1], pairs[0].ProxyB)

	// Nothing moved since; the second call reports no pairs.
	assert.Empty(t, bp.UpdatePairs())
}

func TestBroadPhaseUpdatePairsSkipsNonOverlapping(t *testing.T) {
	bp := NewBroadPhase()
	bp.CreateProxy(unitAABB(0, 0), 1)
	bp.CreateProxy(unitAABB(100, 100), 2)

	assert.Empty(t, bp.UpdatePairs())
}

func TestBroadPhaseMoveProxyRetriggersPairing(t *testing.T) {
	bp := NewBroadPhase()
	a := bp.CreateProxy(unitAABB(0, 0), 1)
	bp.CreateProxy(unitAABB(100, 100), 2)
	bp.UpdatePairs()

	bp.MoveProxy(a, unitAABB(100, 100), geom2d.Vec2{X: 100, Y: 100})
	pairs := bp.UpdatePairs()
	assert.Len(t, pairs, 1)
}
