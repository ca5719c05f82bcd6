package physics

import "errors"

// ErrWorldLocked is returned by any World mutation (CreateBody,
// DestroyBody, CreateJoint, DestroyJoint, fixture creation/removal)
// attempted while a Step is in progress — typically from inside a
// contact or joint callback. Queue the change and apply it after Step
// returns instead.
var ErrWorldLocked = errors.New("physics: world is locked during step")

// ErrCapacityExceeded is returned by CreateBody and CreateJoint when
// the world's configured MaxBodies or MaxJoints cap would be exceeded;
// nothing is created and the world is unchanged.
var ErrCapacityExceeded = errors.New("physics: capacity exceeded")
