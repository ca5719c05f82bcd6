package geom2d

// Position is a body pose: a linear position plus an angle in radians.
type Position struct {
	Linear  Vec2
	Angular float64
}

// Sweep describes the motion of a body's center of mass over one time
// step, for continuous collision detection. Pos0 is the pose at the
// start of the step (or at Alpha0, if part of the step has already been
// consumed by a prior TOI sub-step); Pos1 is the pose at the end.
// LocalCenter is the center of mass in the body's local frame.
type Sweep struct {
	LocalCenter Vec2
	Pos0, Pos1  Position
	Alpha0      float64
}

// GetTransform returns the world transform of the body's origin (not
// its center of mass) interpolated to beta in [0, 1] between Pos0 and
// Pos1, then shifted by the local center offset.
func (s Sweep) GetTransform(beta float64) Transform {
	var pos Position
	pos.Linear = LerpV(s.Pos0.Linear, s.Pos1.Linear, beta)
	pos.Angular = Lerp(s.Pos0.Angular, s.Pos1.Angular, beta)

	xf := Transform{Q: NewRot(pos.Angular)}
	xf.P = Sub(pos.Linear, Rotate(xf.Q, s.LocalCenter))
	return xf
}

// Advance0 moves Pos0 forward to alpha, which must satisfy
// Alpha0 <= alpha < 1. Pos0 is rewritten to the pose at alpha
// (interpolated between the current Pos0 and Pos1) and Alpha0 is
// updated to alpha. Used by TOI sub-stepping to shrink the remaining
// sweep interval without disturbing Pos1, the step's final pose.
func (s *Sweep) Advance0(alpha float64) {
	if s.Alpha0 >= alpha {
		return
	}
	beta := (alpha - s.Alpha0) / (1.0 - s.Alpha0)
	s.Pos0.Linear = LerpV(s.Pos0.Linear, s.Pos1.Linear, beta)
	s.Pos0.Angular = Lerp(s.Pos0.Angular, s.Pos1.Angular, beta)
	s.Alpha0 = alpha
}

// NormalizeAngles reduces Pos0.Angular into (-2*Pi, 2*Pi) and applies
// the identical shift to Pos1.Angular, so their difference (and hence
// the interpolated angular velocity GetTransform implies) is preserved.
// See DESIGN.md's Open Question decision on the two normalization
// strategies the core could have chosen between.
func (s *Sweep) NormalizeAngles() {
	twoPi := TwoPi
	angle := s.Pos0.Angular
	turns := 0.0
	for angle > twoPi {
		angle -= twoPi
		turns += twoPi
	}
	for angle < -twoPi {
		angle += twoPi
		turns -= twoPi
	}
	s.Pos0.Angular -= turns
	s.Pos1.Angular -= turns
}
