package family

import (
	"slices"

	"github.com/matzehuels/kintree/pkg/errors"
)

// txn stages the persons touched by one mutation. Reads see staged copies
// first; writes always go to a copy, so the committed map is never modified
// until commit.
type txn struct {
	s       *Store
	staged  map[string]*Person
	created []string
}

func (s *Store) begin() *txn {
	return &txn{s: s, staged: make(map[string]*Person)}
}

// peek returns the current view of id without staging it. The result must
// not be modified.
func (t *txn) peek(id string) (*Person, bool) {
	if p, ok := t.staged[id]; ok {
		return p, true
	}
	p, ok := t.s.persons[id]
	return p, ok
}

// edit returns a staged, writable copy of id.
func (t *txn) edit(id string) *Person {
	if p, ok := t.staged[id]; ok {
		return p
	}
	p := t.s.persons[id].clone()
	t.staged[id] = p
	return p
}

// insert stages a brand new person.
func (t *txn) insert(p *Person) {
	t.staged[p.ID] = p
	t.created = append(t.created, p.ID)
}

// size is the number of persons visible to the transaction.
func (t *txn) size() int { return len(t.s.persons) + len(t.created) }

// requireActive resolves a reference that must name an active person.
func (t *txn) requireActive(id string) (*Person, error) {
	p, ok := t.peek(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "person %s not found", id)
	}
	if !p.Active {
		return nil, errors.New(errors.ErrCodeNotFound, "person %s is not active", id)
	}
	return p, nil
}

// commit swaps the staged copies in and bumps the revision.
func (t *txn) commit() uint64 {
	s := t.s
	for _, id := range t.created {
		s.order = append(s.order, id)
	}
	for id, p := range t.staged {
		s.persons[id] = p
	}
	s.rev++
	return s.rev
}

// =============================================================================
// Edge operations
// =============================================================================
//
// Each operation updates both ends of an edge. They are idempotent and do no
// validation; callers check rules first.

func (t *txn) addParentEdge(childID, parentID string) {
	child := t.edit(childID)
	if !child.HasParent(parentID) {
		child.Parents = append(child.Parents, parentID)
	}
	parent := t.edit(parentID)
	if !parent.HasChild(childID) {
		parent.Children = append(parent.Children, childID)
	}
}

func (t *txn) removeParentEdge(childID, parentID string) {
	if _, ok := t.peek(childID); ok {
		child := t.edit(childID)
		child.Parents = slices.DeleteFunc(child.Parents, func(id string) bool { return id == parentID })
	}
	if _, ok := t.peek(parentID); ok {
		parent := t.edit(parentID)
		parent.Children = slices.DeleteFunc(parent.Children, func(id string) bool { return id == childID })
	}
}

func (t *txn) setSpouseEdge(a, b string) {
	t.edit(a).Spouse = b
	t.edit(b).Spouse = a
}

// clearSpouseEdge removes id's spouse edge from both sides.
func (t *txn) clearSpouseEdge(id string) {
	p, ok := t.peek(id)
	if !ok || p.Spouse == "" {
		return
	}
	partner := p.Spouse
	t.edit(id).Spouse = ""
	if q, ok := t.peek(partner); ok && q.Spouse == id {
		t.edit(partner).Spouse = ""
	}
}

// =============================================================================
// Validated relationship changes
// =============================================================================

// replaceParents makes parents the exact parent list of childID. Retained
// parents keep their position in their own Children lists.
func (t *txn) replaceParents(childID string, parents []string) error {
	if err := t.checkParents(childID, parents); err != nil {
		return err
	}
	child, _ := t.peek(childID)
	for _, old := range slices.Clone(child.Parents) {
		if !slices.Contains(parents, old) {
			t.removeParentEdge(childID, old)
		}
	}
	for _, p := range parents {
		t.addParentEdge(childID, p)
	}
	t.edit(childID).Parents = slices.Clone(parents)
	return nil
}

// addParent adds one parent to childID. Adding an existing parent is a no-op.
func (t *txn) addParent(childID, parentID string) error {
	child, _ := t.peek(childID)
	if child.HasParent(parentID) {
		return nil
	}
	next := append(slices.Clone(child.Parents), parentID)
	if err := t.checkParents(childID, next); err != nil {
		return err
	}
	t.addParentEdge(childID, parentID)
	return nil
}

// replaceChildren makes children the exact child list of parentID.
func (t *txn) replaceChildren(parentID string, children []string) error {
	if dup := firstDuplicate(children); dup != "" {
		return errors.Relationship(errors.RuleDuplicateParent, dup, []string{parentID},
			"child %s is listed more than once", dup)
	}
	parent, _ := t.peek(parentID)
	for _, old := range slices.Clone(parent.Children) {
		if !slices.Contains(children, old) {
			t.removeParentEdge(old, parentID)
		}
	}
	for _, c := range children {
		if err := t.addParent(c, parentID); err != nil {
			return err
		}
	}
	return nil
}

// setSpouse points a and b at each other, retracting a's previous spouse.
// An empty b clears a's spouse.
func (t *txn) setSpouse(a, b string) error {
	if b == "" {
		t.clearSpouseEdge(a)
		return nil
	}
	if a == b {
		return errors.Relationship(errors.RuleSelfReference, a, []string{b},
			"a person cannot be their own spouse")
	}
	pa, _ := t.peek(a)
	if pa.Spouse == b {
		return nil
	}
	pb, _ := t.peek(b)
	if pb.Spouse != "" && pb.Spouse != a {
		return errors.Relationship(errors.RuleSpouseTaken, a, []string{b, pb.Spouse},
			"person %s is already married to %s", b, pb.Spouse)
	}
	t.clearSpouseEdge(a)
	t.setSpouseEdge(a, b)
	return nil
}

// detach removes every edge of id on both sides.
func (t *txn) detach(id string) {
	p, _ := t.peek(id)
	for _, parent := range slices.Clone(p.Parents) {
		t.removeParentEdge(id, parent)
	}
	for _, child := range slices.Clone(p.Children) {
		t.removeParentEdge(child, id)
	}
	t.clearSpouseEdge(id)
}
