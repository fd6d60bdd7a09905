package family

import (
	"time"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/observability"
)

// Load replaces the store contents with records, typically read from a
// persistence boundary. Record order becomes creation order.
//
// Every record is validated (fields, unique ids, active-name conflicts) and the
// whole set is audited like [Store.Verify]. Loading is all-or-nothing; on error
// the store is unchanged. Field and identity problems are INVALID_INPUT or
// CONFLICT errors, and broken relationships are CONSISTENCY errors.
func (s *Store) Load(records []Person) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	persons, order, err := s.buildRecords(records)
	if err == nil {
		err = verifyPersons(persons, order, s.opts)
	}
	if err == nil && s.opts.EnforceBirthOrder {
		err = checkBirthOrder(persons, order)
	}
	if err != nil {
		observability.Store().OnMutation("load", "", s.rev, time.Since(start), err)
		return err
	}

	s.persons, s.order = persons, order
	s.rev++
	s.logger.Debug("loaded records", "persons", len(order), "revision", s.rev)
	observability.Store().OnMutation("load", "", s.rev, time.Since(start), nil)
	return nil
}

func (s *Store) buildRecords(records []Person) (map[string]*Person, []string, error) {
	persons := make(map[string]*Person, len(records))
	order := make([]string, 0, len(records))
	// names maps every active name and localized name to its owner.
	names := make(map[string]string)

	for i := range records {
		p := records[i].clone()
		if p.ID == "" {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "record %d has no id", i)
		}
		if _, dup := persons[p.ID]; dup {
			return nil, nil, errors.New(errors.ErrCodeConflict, "duplicate person id %s", p.ID)
		}
		if err := validateFields(Fields{Name: p.Name, LocalizedName: p.LocalizedName, Gender: p.Gender}); err != nil {
			return nil, nil, errors.Wrap(errors.GetCode(err), err, "record %s", p.ID)
		}
		if p.Active {
			for _, n := range []string{p.Name, p.LocalizedName} {
				if n == "" {
					continue
				}
				if other, ok := names[n]; ok && other != p.ID {
					return nil, nil, errors.New(errors.ErrCodeConflict, "active persons %s and %s share name %q", other, p.ID, n)
				}
				names[n] = p.ID
			}
		}
		persons[p.ID] = p
		order = append(order, p.ID)
	}
	return persons, order, nil
}

func checkBirthOrder(persons map[string]*Person, order []string) error {
	for _, id := range order {
		p := persons[id]
		for _, pid := range p.Parents {
			if err := errors.ValidateBirthOrder(id, pid, p.BirthDate, persons[pid].BirthDate); err != nil {
				return err
			}
		}
	}
	return nil
}

// Records returns copies of every stored person, active or not, in creation
// order. Loading the result into a new store reproduces this one.
func (s *Store) Records() []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Person, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.persons[id].clone())
	}
	return out
}
