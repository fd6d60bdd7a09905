package family

import (
	"github.com/matzehuels/kintree/pkg/errors"
)

// Verify audits the whole store: every edge is mirrored on both ends, no
// person has more than [MaxParents] parents, parent pairs have different
// genders (unless allowed), and parent edges form no cycle.
//
// Mutations keep these properties, so a failure means records were corrupted
// outside the store. Violations are CONSISTENCY errors.
func (s *Store) Verify() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := verifyPersons(s.persons, s.order, s.opts); err != nil {
		s.logger.Error("graph consistency violated", "err", err)
		return err
	}
	return nil
}

func verifyPersons(persons map[string]*Person, order []string, opts Options) error {
	if err := verifyEdges(persons, order, opts); err != nil {
		return err
	}
	return detectCycles(persons, order)
}

func verifyEdges(persons map[string]*Person, order []string, opts Options) error {
	inconsistent := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeConsistency, format, args...)
	}
	for _, id := range order {
		p := persons[id]
		if len(p.Parents) > MaxParents {
			return inconsistent("%s has %d parents", id, len(p.Parents))
		}
		if dup := firstDuplicate(p.Parents); dup != "" {
			return inconsistent("%s lists parent %s twice", id, dup)
		}
		if dup := firstDuplicate(p.Children); dup != "" {
			return inconsistent("%s lists child %s twice", id, dup)
		}
		for _, pid := range p.Parents {
			parent, ok := persons[pid]
			if !ok {
				return inconsistent("%s references unknown parent %s", id, pid)
			}
			if !parent.HasChild(id) {
				return inconsistent("%s lists parent %s, but %s does not list it as a child", id, pid, pid)
			}
		}
		for _, cid := range p.Children {
			child, ok := persons[cid]
			if !ok {
				return inconsistent("%s references unknown child %s", id, cid)
			}
			if !child.HasParent(id) {
				return inconsistent("%s lists child %s, but %s does not list it as a parent", id, cid, cid)
			}
		}
		if p.Spouse != "" {
			if p.Spouse == id {
				return inconsistent("%s is their own spouse", id)
			}
			partner, ok := persons[p.Spouse]
			if !ok {
				return inconsistent("%s references unknown spouse %s", id, p.Spouse)
			}
			if partner.Spouse != id {
				return inconsistent("%s lists spouse %s, but %s does not list it back", id, p.Spouse, p.Spouse)
			}
		}
		if !opts.AllowSameGenderParents && len(p.Parents) == 2 {
			a, b := persons[p.Parents[0]], persons[p.Parents[1]]
			if a.Gender == b.Gender {
				return inconsistent("parents %s and %s of %s are both %s", a.ID, b.ID, id, a.Gender)
			}
		}
	}
	return nil
}

// detectCycles runs a white/gray/black depth-first search over child edges.
func detectCycles(persons map[string]*Person, order []string) error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(persons))
	var cycleAt string

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range persons[id].Children {
			switch color[child] {
			case white:
				dfs(child)
				if cycleAt != "" {
					return
				}
			case gray:
				cycleAt = child
				return
			}
		}
		color[id] = black
	}

	for _, id := range order {
		if color[id] == white {
			dfs(id)
			if cycleAt != "" {
				return errors.New(errors.ErrCodeConsistency, "parent edges contain a cycle through %s", cycleAt)
			}
		}
	}
	return nil
}
