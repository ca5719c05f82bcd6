package physics

import (
	"math"

	"github.com/gazed/rigid2d/math/geom2d"
)

// TOIState classifies the outcome of a TimeOfImpact query.
type TOIState int

const (
	TOIUnknown TOIState = iota
	TOIFailed
	TOIOverlapped
	TOISeparated
	TOITouching
)

// TOIInput describes a continuous-collision query between two proxies,
// each sweeping from Pos0 to Pos1 over [0, TMax]. Target and Tolerance
// are the separation band the root finder converges into, named
// target_depth and tolerance rather than derived from shape radii, so
// the caller supplies them straight from StepConf.
type TOIInput struct {
	ProxyA, ProxyB DistanceProxy
	SweepA, SweepB geom2d.Sweep
	TMax           float64
	Target         float64
	Tolerance      float64
	MaxRootIters   int
	MaxTOIIters    int
}

// TOIOutput is the result of a TimeOfImpact query: T is meaningful only
// when State is TOITouching or TOISeparated (TOISeparated reports
// T == TMax, meaning no impact occurs in the swept interval).
type TOIOutput struct {
	State TOIState
	T     float64
}

// sepFnType mirrors Box2D's b2SeparationFunction::Type: which proxy
// contributes the reference feature (a single vertex, or an edge
// spanning two vertices) that the separating axis is measured against.
type sepFnType int

const (
	sepPoints sepFnType = iota
	sepFaceA
	sepFaceB
)

// separationFunction evaluates the signed separation along a fixed axis
// (chosen from the GJK simplex at t1) as a function of time, letting the
// root finder treat "do these shapes first touch" as a 1D root-find
// instead of repeated full GJK queries.
type separationFunction struct {
	proxyA, proxyB DistanceProxy
	sweepA, sweepB geom2d.Sweep
	typ            sepFnType
	localPoint     geom2d.Vec2
	axis           geom2d.Vec2
}

func (f *separationFunction) initialize(cache *SimplexCache, proxyA DistanceProxy, sweepA geom2d.Sweep, proxyB DistanceProxy, sweepB geom2d.Sweep, t1 float64) float64 {
	f.proxyA, f.proxyB = proxyA, proxyB
	f.sweepA, f.sweepB = sweepA, sweepB

	count := cache.Count
	xfA := sweepA.GetTransform(t1)
	xfB := sweepB.GetTransform(t1)

	if count == 1 {
		f.typ = sepPoints
		localPointA := proxyA.Vertex(cache.IndexA[0])
		localPointB := proxyB.Vertex(cache.IndexB[0])
		pointA := geom2d.TransformPoint(xfA, localPointA)
		pointB := geom2d.TransformPoint(xfB, localPointB)
		axis := geom2d.Sub(pointB, pointA)
		n, s := geom2d.Normalize(axis)
		f.axis = n
		return s
	}

	if cache.IndexA[0] == cache.IndexA[1] {
		f.typ = sepFaceB
		localPointB1 := proxyB.Vertex(cache.IndexB[0])
		localPointB2 := proxyB.Vertex(cache.IndexB[1])

		axis, _ := geom2d.Normalize(geom2d.CrossVS(geom2d.Sub(localPointB2, localPointB1), 1))
		normal := geom2d.Rotate(xfB.Q, axis)

		f.localPoint = geom2d.Scale(geom2d.Add(localPointB1, localPointB2), 0.5)
		pointB := geom2d.TransformPoint(xfB, f.localPoint)

		localPointA := proxyA.Vertex(cache.IndexA[0])
		pointA := geom2d.TransformPoint(xfA, localPointA)

		s := geom2d.Dot(geom2d.Sub(pointA, pointB), normal)
		if s < 0 {
			axis = geom2d.Neg(axis)
			s = -s
		}
		f.axis = axis
		return s
	}

	f.typ = sepFaceA
	localPointA1 := proxyA.Vertex(cache.IndexA[0])
	localPointA2 := proxyA.Vertex(cache.IndexA[1])

	axis, _ := geom2d.Normalize(geom2d.CrossVS(geom2d.Sub(localPointA2, localPointA1), 1))
	normal := geom2d.Rotate(xfA.Q, axis)

	f.localPoint = geom2d.Scale(geom2d.Add(localPointA1, localPointA2), 0.5)
	pointA := geom2d.TransformPoint(xfA, f.localPoint)

	localPointB := proxyB.Vertex(cache.IndexB[0])
	pointB := geom2d.TransformPoint(xfB, localPointB)

	s := geom2d.Dot(geom2d.Sub(pointB, pointA), normal)
	if s < 0 {
		axis = geom2d.Neg(axis)
		s = -s
	}
	f.axis = axis
	return s
}

// findMinSeparation returns the separation along f.axis at time t, along
// with the vertex indices that currently realize it (used to re-evaluate
// the same witness pair at other times without a fresh support query).
func (f *separationFunction) findMinSeparation(t float64) (sep float64, indexA, indexB int) {
	xfA := f.sweepA.GetTransform(t)
	xfB := f.sweepB.GetTransform(t)

	switch f.typ {
	case sepPoints:
		axisA := geom2d.InverseRotate(xfA.Q, f.axis)
		axisB := geom2d.InverseRotate(xfB.Q, geom2d.Neg(f.axis))
		indexA = f.proxyA.Support(axisA)
		indexB = f.proxyB.Support(axisB)
		pointA := geom2d.TransformPoint(xfA, f.proxyA.Vertex(indexA))
		pointB := geom2d.TransformPoint(xfB, f.proxyB.Vertex(indexB))
		return geom2d.Dot(geom2d.Sub(pointB, pointA), f.axis), indexA, indexB

	case sepFaceA:
		normal := geom2d.Rotate(xfA.Q, f.axis)
		pointA := geom2d.TransformPoint(xfA, f.localPoint)
		axisB := geom2d.InverseRotate(xfB.Q, geom2d.Neg(normal))
		indexA = -1
		indexB = f.proxyB.Support(axisB)
		pointB := geom2d.TransformPoint(xfB, f.proxyB.Vertex(indexB))
		return geom2d.Dot(geom2d.Sub(pointB, pointA), normal), indexA, indexB

	default: // sepFaceB
		normal := geom2d.Rotate(xfB.Q, f.axis)
		pointB := geom2d.TransformPoint(xfB, f.localPoint)
		axisA := geom2d.InverseRotate(xfA.Q, geom2d.Neg(normal))
		indexB = -1
		indexA = f.proxyA.Support(axisA)
		pointA := geom2d.TransformPoint(xfA, f.proxyA.Vertex(indexA))
		return geom2d.Dot(geom2d.Sub(pointA, pointB), normal), indexA, indexB
	}
}

// evaluate returns the separation at time t for a fixed witness pair,
// used by the root finder once FindMinSeparation has identified which
// vertices matter.
func (f *separationFunction) evaluate(indexA, indexB int, t float64) float64 {
	xfA := f.sweepA.GetTransform(t)
	xfB := f.sweepB.GetTransform(t)

	switch f.typ {
	case sepPoints:
		pointA := geom2d.TransformPoint(xfA, f.proxyA.Vertex(indexA))
		pointB := geom2d.TransformPoint(xfB, f.proxyB.Vertex(indexB))
		return geom2d.Dot(geom2d.Sub(pointB, pointA), f.axis)

	case sepFaceA:
		normal := geom2d.Rotate(xfA.Q, f.axis)
		pointA := geom2d.TransformPoint(xfA, f.localPoint)
		pointB := geom2d.TransformPoint(xfB, f.proxyB.Vertex(indexB))
		return geom2d.Dot(geom2d.Sub(pointB, pointA), normal)

	default:
		normal := geom2d.Rotate(xfB.Q, f.axis)
		pointB := geom2d.TransformPoint(xfB, f.localPoint)
		pointA := geom2d.TransformPoint(xfA, f.proxyA.Vertex(indexA))
		return geom2d.Dot(geom2d.Sub(pointA, pointB), normal)
	}
}

// TimeOfImpact computes the first instant within [0, input.TMax] at
// which two swept convex proxies come within input.Target (+/-
// input.Tolerance) of each other, by conservative advancement: each
// round pins down a separating axis with a GJK distance query, then
// root-finds along that axis for the time it crosses the target band,
// repeating with a fresh axis if the configuration changed enough that
// the old axis no longer bounds the motion.
func TimeOfImpact(input TOIInput) TOIOutput {
	output := TOIOutput{State: TOIUnknown, T: input.TMax}

	sweepA, sweepB := input.SweepA, input.SweepB
	sweepA.NormalizeAngles()
	sweepB.NormalizeAngles()

	tMax := input.TMax
	target := input.Target
	tolerance := input.Tolerance

	t1 := 0.0
	maxIters := input.MaxTOIIters
	if maxIters <= 0 {
		maxIters = 20
	}
	maxRootIters := input.MaxRootIters
	if maxRootIters <= 0 {
		maxRootIters = 50
	}

	cache := &SimplexCache{}

	for iter := 0; ; iter++ {
		xfA := sweepA.GetTransform(t1)
		xfB := sweepB.GetTransform(t1)

		distOut := Distance(DistanceInput{
			ProxyA: input.ProxyA, TransformA: xfA,
			ProxyB: input.ProxyB, TransformB: xfB,
		}, cache)

		if distOut.Distance < target-tolerance {
			if t1 > 0 {
				output.State = TOIFailed
			} else {
				output.State = TOIOverlapped
			}
			output.T = t1
			break
		}
		if distOut.Distance < target+tolerance {
			output.State = TOITouching
			output.T = t1
			break
		}

		var fcn separationFunction
		fcn.initialize(cache, input.ProxyA, sweepA, input.ProxyB, sweepB, t1)

		done := false
		t2 := tMax
		pushBackIter := 0
		for {
			s2, indexA, indexB := fcn.findMinSeparation(t2)

			if s2 > target+tolerance {
				output.State = TOISeparated
				output.T = tMax
				done = true
				break
			}
			if s2 > target-tolerance {
				t1 = t2
				break
			}

			s1 := fcn.evaluate(indexA, indexB, t1)
			if s1 < target-tolerance {
				output.State = TOIFailed
				output.T = t1
				done = true
				break
			}
			if s1 <= target+tolerance {
				output.State = TOITouching
				output.T = t1
				done = true
				break
			}

			a1, a2 := t1, t2
			for rootIter := 0; ; rootIter++ {
				var t float64
				if rootIter&1 != 0 {
					t = a1 + (target-s1)*(a2-a1)/(s2-s1)
				} else {
					t = 0.5 * (a1 + a2)
				}
				s := fcn.evaluate(indexA, indexB, t)
				if math.Abs(s-target) < tolerance {
					t2 = t
					break
				}
				if s > target {
					a1, s1 = t, s
				} else {
					a2, s2 = t, s
				}
				if rootIter == maxRootIters-1 {
					break
				}
			}

			pushBackIter++
			if pushBackIter == MaxPolygonVertices {
				break
			}
		}

		if done {
			break
		}
		if iter == maxIters-1 {
			output.State = TOIFailed
			output.T = t1
			break
		}
	}

	return output
}
