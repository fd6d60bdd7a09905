// Package family provides the family relationship graph: people, their
// parent/child and spouse edges, and the store that keeps those edges
// consistent under mutation.
//
// # Overview
//
// A [Person] records up to two parents, at most one spouse, and any number of
// children. Relationships are not stored separately; they live on both ends
// and the [Store] is the only writer, so a parent edge on a child always has a
// mirror entry on the parent's Children and spouse edges are symmetric.
//
// # Basic Usage
//
//	s := family.NewStore(family.Options{})
//	dad, _ := s.CreatePerson(family.Fields{Name: "Tom", Gender: family.GenderMale}, family.Relations{})
//	mom, _ := s.CreatePerson(family.Fields{Name: "Ann", Gender: family.GenderFemale}, family.Relations{Spouse: dad.ID})
//	kid, _ := s.CreatePerson(family.Fields{Name: "Joe", Gender: family.GenderMale},
//	    family.Relations{Parents: []string{dad.ID, mom.ID}})
//
// # Invariants
//
// Every write is validated before anything is committed:
//
//   - A person has at most [MaxParents] parents, listed once each
//   - Two parents have different genders unless [Options.AllowSameGenderParents]
//   - Nobody becomes their own ancestor through any chain of parent edges
//   - A spouse cannot already be married to someone else
//
// Violations are returned as INVALID_RELATIONSHIP errors carrying the rule
// and ids (see [github.com/matzehuels/kintree/pkg/errors.RelationshipError]).
// Duplicate active names are CONFLICT errors, and ids that are missing or
// inactive are NOT_FOUND. If the ancestor walk used for cycle detection
// exceeds its depth bound, the graph was already corrupt and a CONSISTENCY
// error is returned instead of looping.
//
// # Transactions
//
// A mutation stages copies of every person it touches, applies edge
// operations to the copies, validates, and then swaps them in. A failed
// mutation leaves the store exactly as it was. Each commit increments the
// store revision, which downstream caches use as their invalidation stamp.
//
// # Soft Deletion
//
// [Store.SoftDeletePerson] only clears the Active flag. The record and every
// edge stay in place; use [Store.DetachPerson] to prune edges explicitly.
// Inactive people are left out of [Store.ListActivePersons] and [Store.GraphView].
//
// # Concurrency
//
// Store is safe for concurrent use. Writers are serialized; readers share a
// read lock. A [View] is an immutable snapshot and may be shared freely.
package family
