package physics

import (
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepAt(x float64, x1 float64) geom2d.Sweep {
	return geom2d.Sweep{
		Pos0: geom2d.Position{Linear: geom2d.Vec2{X: x}},
		Pos1: geom2d.Position{Linear: geom2d.Vec2{X: x1}},
	}
}

// TestTimeOfImpactFindsApproachingCircles has a fast-moving circle swept
// toward a stationary one, closing to within the target separation band
// by the end of the step, and checks the root-finder converges to a t
// where the separation lands within that band, preventing the
// tunneling a discrete step alone would allow. TimeOfImpact compares
// raw center separation against Target/Tolerance rather than deriving
// a band from the shape radii, so the sweep's endpoint is chosen to
// land centers within that fixed band rather than at surface contact.
func TestTimeOfImpactFindsApproachingCircles(t *testing.T) {
	a, _ := NewCircle(geom2d.Vec2{}, 1)
	b, _ := NewCircle(geom2d.Vec2{}, 1)

	conf := DefaultStepConf()
	out := TimeOfImpact(TOIInput{
		ProxyA: a.Proxy(0), ProxyB: b.Proxy(0),
		SweepA: sweepAt(-3, -0.005), SweepB: sweepAt(0, 0),
		TMax:         1,
		Target:       conf.TargetDepth,
		Tolerance:    conf.Tolerance,
		MaxRootIters: conf.MaxRootIters,
		MaxTOIIters:  conf.MaxTOIIters,
	})

	require.Equal(t, TOITouching, out.State)
	assert.Greater(t, out.T, 0.0)
	assert.Less(t, out.T, 1.0)
}

// TestTimeOfImpactSeparatedShapesNeverTouch covers the "separated" exit:
// two circles that never get within the target band over the whole
// sweep report TOISeparated with T == TMax.
func TestTimeOfImpactSeparatedShapesNeverTouch(t *testing.T) {
	a, _ := NewCircle(geom2d.Vec2{}, 1)
	b, _ := NewCircle(geom2d.Vec2{}, 1)

	conf := DefaultStepConf()
	out := TimeOfImpact(TOIInput{
		ProxyA: a.Proxy(0), ProxyB: b.Proxy(0),
		SweepA: sweepAt(-10, -8), SweepB: sweepAt(0, 0),
		TMax:         1,
		Target:       conf.TargetDepth,
		Tolerance:    conf.Tolerance,
		MaxRootIters: conf.MaxRootIters,
		MaxTOIIters:  conf.MaxTOIIters,
	})

	assert.Equal(t, TOISeparated, out.State)
	assert.Equal(t, 1.0, out.T)
}

// TestTimeOfImpactAlreadyOverlappingAtStart covers the "overlapped"
// exit: shapes already closer than the target band at t=0 report
// TOIOverlapped rather than hunting for a root that doesn't exist.
func TestTimeOfImpactAlreadyOverlappingAtStart(t *testing.T) {
	a, _ := NewCircle(geom2d.Vec2{}, 1)
	b, _ := NewCircle(geom2d.Vec2{}, 1)

	conf := DefaultStepConf()
	out := TimeOfImpact(TOIInput{
		ProxyA: a.Proxy(0), ProxyB: b.Proxy(0),
		SweepA: sweepAt(0, 0), SweepB: sweepAt(0, 0),
		TMax:         1,
		Target:       conf.TargetDepth,
		Tolerance:    conf.Tolerance,
		MaxRootIters: conf.MaxRootIters,
		MaxTOIIters:  conf.MaxTOIIters,
	})

	assert.Equal(t, TOIOverlapped, out.State)
}
