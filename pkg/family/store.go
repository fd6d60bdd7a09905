package family

import (
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/observability"
)

// Options configures a Store.
type Options struct {
	// AllowSameGenderParents disables the rule that two parents of a person
	// must have different genders.
	AllowSameGenderParents bool

	// EnforceBirthOrder rejects parent edges where the parent is not strictly
	// older than the child. Only applies when both birth dates are known.
	EnforceBirthOrder bool

	// MaxAncestorDepth bounds the ancestor walk used for cycle detection.
	// Zero uses the number of stored persons, which no acyclic chain can exceed.
	MaxAncestorDepth int

	// NewID generates person ids. Defaults to random UUIDs.
	NewID func() string

	// Logger receives debug logs for commits and error logs for consistency
	// failures. Defaults to log.Default().
	Logger *log.Logger
}

// Store owns the canonical set of persons and keeps their relationship edges
// bidirectionally consistent. The zero value is not usable; use [NewStore].
type Store struct {
	mu      sync.RWMutex
	persons map[string]*Person
	order   []string // ids in creation order
	rev     uint64
	opts    Options
	logger  *log.Logger
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		persons: make(map[string]*Person),
		opts:    opts,
		logger:  logger,
	}
}

// Revision returns the graph revision. It starts at zero and increases by one
// on every committed mutation; derived results are valid for exactly one revision.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

func (s *Store) depthBound(n int) int {
	if s.opts.MaxAncestorDepth > 0 {
		return s.opts.MaxAncestorDepth
	}
	return n
}

// mutate runs fn inside a transaction under the write lock. It commits only
// when fn succeeds, and reports the outcome to logs and hooks.
func (s *Store) mutate(op, id string, fn func(t *txn) (string, error)) (string, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.begin()
	target, err := fn(t)
	if target == "" {
		target = id
	}
	if err == nil && len(t.staged) > 0 {
		rev := t.commit()
		s.logger.Debug("committed", "op", op, "id", target, "revision", rev, "touched", len(t.staged))
	}
	observability.Store().OnMutation(op, target, s.rev, time.Since(start), err)
	return target, err
}

// =============================================================================
// CRUD
// =============================================================================

// CreatePerson adds a new active person together with its initial
// relationships. Referenced parents gain the person as a child, referenced
// children gain it as a parent, and a referenced spouse points back at it.
//
// Returns a CONFLICT error if Name or LocalizedName exactly matches an active
// person, INVALID_RELATIONSHIP if an edge breaks a graph rule, NOT_FOUND if a
// reference is missing or inactive, and INVALID_INPUT for bad fields.
func (s *Store) CreatePerson(f Fields, r Relations) (Person, error) {
	id, err := s.mutate("create", "", func(t *txn) (string, error) {
		if err := validateFields(f); err != nil {
			return "", err
		}
		if err := s.checkConflict("", f.Name, f.LocalizedName); err != nil {
			return "", err
		}
		if err := t.resolveRefs(r.Parents, r.Spouse, r.Children); err != nil {
			return "", err
		}

		id := s.opts.NewID()
		if _, exists := s.persons[id]; exists || id == "" {
			return "", errors.New(errors.ErrCodeInternal, "id generator returned unusable id %q", id)
		}
		p := &Person{
			ID:            id,
			Name:          f.Name,
			LocalizedName: f.LocalizedName,
			Gender:        f.Gender,
			BirthDate:     f.BirthDate,
			Active:        true,
		}
		t.insert(p)

		if err := t.replaceParents(id, r.Parents); err != nil {
			return id, err
		}
		if err := t.replaceChildren(id, r.Children); err != nil {
			return id, err
		}
		if err := t.setSpouse(id, r.Spouse); err != nil {
			return id, err
		}
		return id, nil
	})
	if err != nil {
		return Person{}, err
	}
	return s.GetPerson(id)
}

// UpdatePerson applies patch to an active person. Relationship changes
// retract old edges and establish new ones as one unit: either the whole
// patch commits or nothing does.
func (s *Store) UpdatePerson(id string, patch Patch) (Person, error) {
	_, err := s.mutate("update", id, func(t *txn) (string, error) {
		cur, err := t.requireActive(id)
		if err != nil {
			return "", err
		}

		name, local := cur.Name, cur.LocalizedName
		if patch.Name != nil {
			name = *patch.Name
		}
		if patch.LocalizedName != nil {
			local = *patch.LocalizedName
		}
		gender := cur.Gender
		if patch.Gender != nil {
			gender = *patch.Gender
		}
		if err := validateFields(Fields{Name: name, LocalizedName: local, Gender: gender}); err != nil {
			return "", err
		}
		if name != cur.Name || local != cur.LocalizedName {
			if err := s.checkConflict(id, name, local); err != nil {
				return "", err
			}
		}

		var parents, children []string
		var spouse string
		if patch.Parents != nil {
			parents = *patch.Parents
		}
		if patch.Children != nil {
			children = *patch.Children
		}
		if patch.Spouse != nil {
			spouse = *patch.Spouse
		}
		if patch.touchesRelations() {
			// Retained edges may point at inactive persons.
			added := func(ids, have []string) []string {
				return slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return slices.Contains(have, id) })
			}
			if spouse == cur.Spouse {
				spouse = ""
			}
			if err := t.resolveRefs(added(parents, cur.Parents), spouse, added(children, cur.Children)); err != nil {
				return "", err
			}
			if patch.Spouse != nil {
				spouse = *patch.Spouse
			}
		}

		p := t.edit(id)
		p.Name, p.LocalizedName, p.Gender = name, local, gender
		switch {
		case patch.ClearBirthDate:
			p.BirthDate = nil
		case patch.BirthDate != nil:
			d := *patch.BirthDate
			p.BirthDate = &d
		}

		if patch.Parents != nil {
			if err := t.replaceParents(id, parents); err != nil {
				return "", err
			}
		}
		if patch.Children != nil {
			if err := t.replaceChildren(id, children); err != nil {
				return "", err
			}
		}
		if patch.Spouse != nil {
			if err := t.setSpouse(id, spouse); err != nil {
				return "", err
			}
		}

		if patch.Gender != nil || patch.BirthDate != nil || patch.ClearBirthDate {
			if err := t.checkAsParent(id); err != nil {
				return "", err
			}
			if err := t.checkAsChild(id); err != nil {
				return "", err
			}
		}
		return id, nil
	})
	if err != nil {
		return Person{}, err
	}
	return s.GetPerson(id)
}

// SoftDeletePerson marks an active person inactive. Edges are left in place
// on both sides; the person disappears from default queries, generation
// resolution and layout.
func (s *Store) SoftDeletePerson(id string) error {
	_, err := s.mutate("delete", id, func(t *txn) (string, error) {
		if _, err := t.requireActive(id); err != nil {
			return "", err
		}
		t.edit(id).Active = false
		return id, nil
	})
	return err
}

// GetPerson returns a copy of the person with the given id, active or not.
func (s *Store) GetPerson(id string) (Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[id]
	if !ok {
		return Person{}, errors.New(errors.ErrCodeNotFound, "person %s not found", id)
	}
	return *p.clone(), nil
}

// ListActivePersons returns copies of all active persons in creation order.
func (s *Store) ListActivePersons() []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Person, 0, len(s.order))
	for _, id := range s.order {
		if p := s.persons[id]; p.Active {
			out = append(out, *p.clone())
		}
	}
	return out
}

// Len returns the number of stored persons, including inactive ones.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.persons)
}

// =============================================================================
// Relationship operations
// =============================================================================

// AddParent records parentID as a parent of childID. Adding an existing
// parent is a no-op and does not change the revision.
func (s *Store) AddParent(childID, parentID string) error {
	_, err := s.mutate("add_parent", childID, func(t *txn) (string, error) {
		if err := t.resolveRefs([]string{parentID}, "", []string{childID}); err != nil {
			return "", err
		}
		return childID, t.addParent(childID, parentID)
	})
	return err
}

// RemoveParent removes the parent edge between childID and parentID on both
// sides. The parent may be inactive. Removing a missing edge is a no-op.
func (s *Store) RemoveParent(childID, parentID string) error {
	_, err := s.mutate("remove_parent", childID, func(t *txn) (string, error) {
		child, err := t.requireActive(childID)
		if err != nil {
			return "", err
		}
		if !child.HasParent(parentID) {
			return childID, nil
		}
		t.removeParentEdge(childID, parentID)
		return childID, nil
	})
	return err
}

// SetSpouse marries a and b, retracting a's previous spouse edge.
func (s *Store) SetSpouse(a, b string) error {
	_, err := s.mutate("set_spouse", a, func(t *txn) (string, error) {
		if _, err := t.requireActive(a); err != nil {
			return "", err
		}
		if err := t.resolveRefs(nil, b, nil); err != nil {
			return "", err
		}
		return a, t.setSpouse(a, b)
	})
	return err
}

// ClearSpouse removes a's spouse edge from both sides.
func (s *Store) ClearSpouse(a string) error {
	_, err := s.mutate("clear_spouse", a, func(t *txn) (string, error) {
		if _, err := t.requireActive(a); err != nil {
			return "", err
		}
		t.clearSpouseEdge(a)
		return a, nil
	})
	return err
}

// DetachPerson removes every parent, child and spouse edge of id on both
// sides. It works on inactive persons and is how callers prune the edges a
// soft delete leaves behind.
func (s *Store) DetachPerson(id string) error {
	_, err := s.mutate("detach", id, func(t *txn) (string, error) {
		if _, ok := t.peek(id); !ok {
			return "", errors.New(errors.ErrCodeNotFound, "person %s not found", id)
		}
		t.detach(id)
		return id, nil
	})
	return err
}

// =============================================================================
// Helpers
// =============================================================================

func validateFields(f Fields) error {
	if err := errors.ValidateDisplayName("name", f.Name); err != nil {
		return err
	}
	if f.LocalizedName != "" {
		if err := errors.ValidateDisplayName("localized name", f.LocalizedName); err != nil {
			return err
		}
	}
	if !f.Gender.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown gender %q (want male or female)", f.Gender)
	}
	return nil
}

// checkConflict rejects a name or localized name that matches either name of
// another active person. Matching is exact and case-sensitive; an empty
// localized name never conflicts.
func (s *Store) checkConflict(self, name, local string) error {
	for _, id := range s.order {
		p := s.persons[id]
		if id == self || !p.Active {
			continue
		}
		if other := matchingName(p, name, local); other != "" {
			return errors.New(errors.ErrCodeConflict, "an active person named %q already exists (%s)", other, id)
		}
	}
	return nil
}

// matchingName returns the first of name and local that equals p's name or
// localized name, or "" if neither does.
func matchingName(p *Person, name, local string) string {
	for _, n := range []string{name, local} {
		if n != "" && (n == p.Name || n == p.LocalizedName) {
			return n
		}
	}
	return ""
}

// resolveRefs checks that every referenced id names an active person.
func (t *txn) resolveRefs(parents []string, spouse string, children []string) error {
	ids := slices.Concat(parents, children)
	if spouse != "" {
		ids = append(ids, spouse)
	}
	for _, id := range ids {
		if _, err := t.requireActive(id); err != nil {
			return err
		}
	}
	return nil
}
