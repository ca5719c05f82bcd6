package physics

import (
	"testing"

	"github.com/gazed/rigid2d/math/geom2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityXf() geom2d.Transform {
	return geom2d.NewTransform(geom2d.Vec2{}, geom2d.NewRot(0))
}

func TestDistanceBetweenSeparatedCircles(t *testing.T) {
	a, _ := NewCircle(geom2d.Vec2{}, 1)
	b, _ := NewCircle(geom2d.Vec2{}, 1)
	xfB := geom2d.NewTransform(geom2d.Vec2{X: 5}, geom2d.NewRot(0))

	out := Distance(DistanceInput{
		ProxyA: a.Proxy(0), ProxyB: b.Proxy(0),
		TransformA: identityXf(), TransformB: xfB,
		UseRadii: true,
	}, &SimplexCache{})

	assert.InDelta(t, 3, out.Distance, 1e-6)
}

func TestDistanceBetweenTouchingCirclesIsZero(t *testing.T) {
	a, _ := NewCircle(geom2d.Vec2{}, 1)
	b, _ := NewCircle(geom2d.Vec2{}, 1)
	xfB := geom2d.NewTransform(geom2d.Vec2{X: 2}, geom2d.NewRot(0))

	out := Distance(DistanceInput{
		ProxyA: a.Proxy(0), ProxyB: b.Proxy(0),
		TransformA: identityXf(), TransformB: xfB,
		UseRadii: true,
	}, &SimplexCache{})

	assert.InDelta(t, 0, out.Distance, 1e-6)
}

func TestDistanceCacheRoundTripsThroughWriteAndRead(t *testing.T) {
	a, _ := NewCircle(geom2d.Vec2{}, 1)
	b, _ := NewCircle(geom2d.Vec2{}, 1)
	xfB := geom2d.NewTransform(geom2d.Vec2{X: 5}, geom2d.NewRot(0))

	cache := &SimplexCache{}
	out1 := Distance(DistanceInput{
		ProxyA: a.Proxy(0), ProxyB: b.Proxy(0),
		TransformA: identityXf(), TransformB: xfB,
		UseRadii: true,
	}, cache)
	require.Greater(t, cache.Count, 0)

	out2 := Distance(DistanceInput{
		ProxyA: a.Proxy(0), ProxyB: b.Proxy(0),
		TransformA: identityXf(), TransformB: xfB,
		UseRadii: true,
	}, cache)

	assert.InDelta(t, out1.Distance, out2.Distance, 1e-9)
}

func TestDistanceOverlappingPolygonsReportsSmallDistance(t *testing.T) {
	boxA := NewBox(1, 1)
	boxB := NewBox(1, 1)
	xfB := geom2d.NewTransform(geom2d.Vec2{X: 0.5}, geom2d.NewRot(0))

	out := Distance(DistanceInput{
		ProxyA: boxA.Proxy(0), ProxyB: boxB.Proxy(0),
		TransformA: identityXf(), TransformB: xfB,
		UseRadii: false,
	}, &SimplexCache{})

	assert.InDelta(t, 0, out.Distance, 1e-6)
}
