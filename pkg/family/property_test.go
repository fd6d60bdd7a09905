package family

import (
	"fmt"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/kintree/pkg/errors"
)

// applyOp decodes one random integer into a mutation and applies it. Failures
// are expected; the properties only care about the state afterwards.
func applyOp(s *Store, ids []string, op int) []string {
	pick := func(k int) string {
		if len(ids) == 0 {
			return "missing"
		}
		return ids[(op/k)%len(ids)]
	}
	genders := []Gender{GenderMale, GenderFemale}

	switch op % 8 {
	case 0, 1:
		p, err := s.CreatePerson(Fields{Name: fmt.Sprintf("n%d", len(ids)), Gender: genders[(op/8)%2]},
			Relations{Parents: []string{pick(16), pick(256)}[:(op/4096)%3]})
		if err == nil {
			ids = append(ids, p.ID)
		}
	case 2:
		_ = s.AddParent(pick(8), pick(128))
	case 3:
		_ = s.RemoveParent(pick(8), pick(128))
	case 4:
		_ = s.SetSpouse(pick(8), pick(128))
	case 5:
		_, _ = s.UpdatePerson(pick(8), Patch{Parents: &[]string{pick(128)}, Children: &[]string{pick(2048)}})
	case 6:
		_ = s.SoftDeletePerson(pick(8))
	case 7:
		_ = s.DetachPerson(pick(8))
	}
	return ids
}

func TestStoreInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("mutation sequences preserve graph invariants", prop.ForAll(
		func(ops []int) bool {
			s := newTestStore(Options{})
			var ids []string
			for _, op := range ops {
				ids = applyOp(s, ids, op)
				if err := s.Verify(); err != nil {
					t.Logf("after op %d: %v", op, err)
					return false
				}
			}
			for _, p := range s.Records() {
				if len(p.Parents) > MaxParents {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1<<16)),
	))

	properties.Property("adding a descendant as parent is rejected and changes nothing", prop.ForAll(
		func(depth, pick int) bool {
			s := newTestStore(Options{})
			chain := []string{mustCreateQuiet(s, "root", nil)}
			for i := 1; i <= depth; i++ {
				chain = append(chain, mustCreateQuiet(s, fmt.Sprintf("d%d", i), []string{chain[i-1]}))
			}
			descendant := chain[1+pick%depth]
			before := s.Records()
			rev := s.Revision()

			err := s.AddParent(chain[0], descendant)
			rule, ok := errors.RuleOf(err)
			return ok && rule == errors.RuleCycle &&
				s.Revision() == rev && slices.EqualFunc(before, s.Records(), personEqual)
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 100),
	))

	properties.Property("soft delete keeps the record but hides it", prop.ForAll(
		func(n, pick int) bool {
			s := newTestStore(Options{})
			var ids []string
			for i := range n {
				ids = append(ids, mustCreateQuiet(s, fmt.Sprintf("p%d", i), nil))
			}
			victim := ids[pick%n]
			if err := s.SoftDeletePerson(victim); err != nil {
				return false
			}
			got, err := s.GetPerson(victim)
			if err != nil || got.Active {
				return false
			}
			for _, p := range s.ListActivePersons() {
				if p.ID == victim {
					return false
				}
			}
			return s.GraphView().Node(victim) == nil && len(s.ListActivePersons()) == n-1
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

func mustCreateQuiet(s *Store, name string, parents []string) string {
	p, err := s.CreatePerson(Fields{Name: name, Gender: GenderMale}, Relations{Parents: parents})
	if err != nil {
		panic(err)
	}
	return p.ID
}

func personEqual(a, b Person) bool {
	return a.ID == b.ID && a.Active == b.Active && a.Spouse == b.Spouse &&
		slices.Equal(a.Parents, b.Parents) && slices.Equal(a.Children, b.Children)
}
