package family

import (
	"github.com/matzehuels/kintree/pkg/errors"
)

// checkParents validates a candidate parent list for childID against the
// staged graph: count, duplicates, self reference, gender pair, birth order
// and acyclicity.
func (t *txn) checkParents(childID string, parents []string) error {
	if dup := firstDuplicate(parents); dup != "" {
		return errors.Relationship(errors.RuleDuplicateParent, childID, []string{dup},
			"parent %s is listed more than once", dup)
	}
	if len(parents) > MaxParents {
		return errors.Relationship(errors.RuleMaxParents, childID, parents,
			"a person has at most %d parents, got %d", MaxParents, len(parents))
	}

	child, _ := t.peek(childID)
	resolved := make([]*Person, 0, len(parents))
	for _, id := range parents {
		if id == childID {
			return errors.Relationship(errors.RuleSelfReference, childID, []string{id},
				"a person cannot be their own parent")
		}
		p, ok := t.peek(id)
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "person %s not found", id)
		}
		// Existing edges may point at inactive parents; new ones may not.
		if !p.Active && !child.HasParent(id) {
			return errors.New(errors.ErrCodeNotFound, "person %s is not active", id)
		}
		resolved = append(resolved, p)
	}

	if err := t.checkParentGenders(childID, resolved); err != nil {
		return err
	}

	if t.s.opts.EnforceBirthOrder {
		for _, p := range resolved {
			if err := errors.ValidateBirthOrder(childID, p.ID, child.BirthDate, p.BirthDate); err != nil {
				return err
			}
		}
	}

	for _, p := range resolved {
		if child.HasParent(p.ID) {
			continue
		}
		cycle, err := t.reachesAncestor(p.ID, childID)
		if err != nil {
			return err
		}
		if cycle {
			return errors.Relationship(errors.RuleCycle, childID, []string{p.ID},
				"%s is a descendant of %s and cannot become their parent", p.ID, childID)
		}
	}
	return nil
}

func (t *txn) checkParentGenders(childID string, parents []*Person) error {
	if t.s.opts.AllowSameGenderParents || len(parents) < 2 {
		return nil
	}
	if parents[0].Gender == parents[1].Gender {
		return errors.Relationship(errors.RuleParentGender, childID, []string{parents[0].ID, parents[1].ID},
			"parents %s and %s are both %s", parents[0].ID, parents[1].ID, parents[0].Gender)
	}
	return nil
}

// checkAsParent re-validates the parent-pair and birth-order rules for every
// child of id, after id's gender or birth date changed.
func (t *txn) checkAsParent(id string) error {
	p, _ := t.peek(id)
	for _, childID := range p.Children {
		child, ok := t.peek(childID)
		if !ok {
			continue
		}
		parents := make([]*Person, 0, len(child.Parents))
		for _, pid := range child.Parents {
			if q, ok := t.peek(pid); ok {
				parents = append(parents, q)
			}
		}
		if err := t.checkParentGenders(childID, parents); err != nil {
			return err
		}
		if t.s.opts.EnforceBirthOrder {
			if err := errors.ValidateBirthOrder(childID, id, child.BirthDate, p.BirthDate); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkAsChild re-validates birth order against id's own parents.
func (t *txn) checkAsChild(id string) error {
	if !t.s.opts.EnforceBirthOrder {
		return nil
	}
	p, _ := t.peek(id)
	for _, pid := range p.Parents {
		if q, ok := t.peek(pid); ok {
			if err := errors.ValidateBirthOrder(id, pid, p.BirthDate, q.BirthDate); err != nil {
				return err
			}
		}
	}
	return nil
}

// reachesAncestor walks up from start, one generation per step, and reports
// whether target is start itself or one of its ancestors.
//
// Each generation's frontier is deduplicated but there is no global visited
// set, so a cycle already present in the stored graph keeps the frontier
// alive. The walk gives up after depthBound generations and reports that as
// a CONSISTENCY error.
func (t *txn) reachesAncestor(start, target string) (bool, error) {
	bound := t.s.depthBound(t.size())
	frontier := []string{start}

	for depth := 0; len(frontier) > 0; depth++ {
		if depth > bound {
			err := errors.New(errors.ErrCodeConsistency,
				"ancestor walk from %s exceeded %d generations: stored parent edges contain a cycle", start, bound)
			t.s.logger.Error("graph consistency violated", "start", start, "bound", bound, "err", err)
			return false, err
		}

		seen := make(map[string]bool, len(frontier))
		var next []string
		for _, id := range frontier {
			if id == target {
				return true, nil
			}
			p, ok := t.peek(id)
			if !ok {
				continue
			}
			for _, parent := range p.Parents {
				if !seen[parent] {
					seen[parent] = true
					next = append(next, parent)
				}
			}
		}
		frontier = next
	}
	return false, nil
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return ""
}
