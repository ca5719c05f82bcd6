package geom2d

// Transform is a rigid-body transformation: rotate then translate.
type Transform struct {
	P Vec2
	Q Rot
}

// IdentityTransform is the transform with no rotation or translation.
var IdentityTransform = Transform{Q: Identity}

// NewTransform builds a transform from a position and rotation.
func NewTransform(p Vec2, q Rot) Transform { return Transform{P: p, Q: q} }

// TransformPoint returns rotate(v, xf.Q) + xf.P: v taken from the
// transform's local frame into world space.
func TransformPoint(xf Transform, v Vec2) Vec2 {
	return Add(Rotate(xf.Q, v), xf.P)
}

// InverseTransformPoint returns the inverse of TransformPoint: v taken
// from world space into xf's local frame.
func InverseTransformPoint(xf Transform, v Vec2) Vec2 {
	return InverseRotate(xf.Q, Sub(v, xf.P))
}

// MulTransforms composes two transforms: apply a then b.
func MulTransforms(a, b Transform) Transform {
	return Transform{
		Q: MulRot(a.Q, b.Q),
		P: Add(Rotate(a.Q, b.P), a.P),
	}
}

// MulTTransforms returns the transform that maps a's frame onto b's
// frame: inverse(a) composed with b.
func MulTTransforms(a, b Transform) Transform {
	return Transform{
		Q: MulTRot(a.Q, b.Q),
		P: InverseRotate(a.Q, Sub(b.P, a.P)),
	}
}
