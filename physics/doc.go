// Package physics is a real-time simulation of 2D rigid-body physics.
// Physics applies simulated forces to rigid bodies built from one or
// more fixed shapes, and resolves the contacts and joints between them
// with a sequential-impulse solver.
//
// A World owns every Body, Fixture, Joint, and Contact. Bodies are
// moved by repeated calls to World.Step, never by the application
// directly poking at position or velocity outside of the exposed
// setters.
//
// Package physics is provided as the simulation core of the gazed-vu
// fork; it has no GUI, rendering, or I/O dependencies of its own.
//
//	broadphase.go   : dynamic AABB tree + moved-proxy bookkeeping
//	dynamictree.go  : the tree itself
//	shape.go        : Circle/Edge/Polygon/Chain + DistanceProxy
//	distance.go     : GJK closest-point queries
//	collide.go      : per-shape-pair contact manifold generation
//	contact.go      : cached manifold + touching/warm-start bookkeeping
//	toi.go          : conservative-advancement time-of-impact
//	island.go       : DFS partition of the body/contact/joint graph
//	solver.go       : velocity + position sequential-impulse iteration
//	joint.go        : joint kinds sharing one solver contract
//	body.go         : rigid body state
//	world.go        : orchestrates one Step
package physics
