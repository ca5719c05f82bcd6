package physics

// island is a connected component of awake, non-static bodies plus the
// contacts and joints linking them, and the static bodies they touch —
// the unit the solver processes independently. A static body never
// propagates a traversal (it can't merge two otherwise-separate
// clusters into one island) but it does get a slot in isl.bodies, since
// the velocity/position solve reads its (zero) inverse mass and current
// pose directly rather than special-casing "body not in this island".
// This is an explicit-DFS pass rather than union-find: contacts/joints
// need to be collected per-island too, not just body membership, which
// union-find alone doesn't give you.
type island struct {
	bodies   []*Body
	contacts []*Contact
	joints   []Joint
}

// buildIslands partitions every awake non-static body reachable through
// touching contacts or joints into islands. A static body may appear in
// more than one island (it's never marked permanently visited, only
// de-duplicated within the island currently being built), matching
// b2Island::Solve's treatment of static neighbors.
func buildIslands(bodies []*Body) []*island {
	islanded := make(map[*Body]bool, len(bodies))
	var islands []*island

	for _, seed := range bodies {
		if seed.bodyType == StaticBody || islanded[seed] ||
			seed.flags&flagAwake == 0 || seed.flags&flagActive == 0 {
			continue
		}

		isl := &island{bodies: []*Body{seed}}
		islanded[seed] = true
		staticSeen := make(map[*Body]bool)
		stack := []*Body{seed}

		seenContacts := make(map[*Contact]bool)
		seenJoints := make(map[Joint]bool)

		addNeighbor := func(other *Body) {
			if other.bodyType == StaticBody {
				if !staticSeen[other] {
					staticSeen[other] = true
					isl.bodies = append(isl.bodies, other)
				}
				return
			}
			if islanded[other] {
				return
			}
			// A sleeping body dragged in by an awake neighbor wakes.
			other.SetAwake(true)
			islanded[other] = true
			isl.bodies = append(isl.bodies, other)
			stack = append(stack, other)
		}

		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if b.bodyType == StaticBody {
				continue
			}

			for _, ce := range b.contactEdges {
				c := ce.contact
				if !c.IsTouching() || c.flags&contactEnabled == 0 {
					continue
				}
				if c.fixtureA.isSensor || c.fixtureB.isSensor {
					continue
				}
				if !seenContacts[c] {
					seenContacts[c] = true
					isl.contacts = append(isl.contacts, c)
				}
				addNeighbor(ce.other)
			}

			for _, je := range b.joints {
				if je.other.flags&flagActive == 0 {
					continue
				}
				if !seenJoints[je.joint] {
					seenJoints[je.joint] = true
					isl.joints = append(isl.joints, je.joint)
				}
				addNeighbor(je.other)
			}
		}

		islands = append(islands, isl)
	}
	return islands
}
