package family

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/kintree/pkg/errors"
)

// MaxParents is the number of parents a person may have.
const MaxParents = 2

// Gender is the closed two-value enumeration used by the parent-pair rule.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// ParseGender parses a gender name case-insensitively.
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown gender %q (want male or female)", s)
	}
	return g, nil
}

// Person is a node in the family relationship graph.
//
// Relationship fields hold person ids. They are maintained by the [Store] and
// are always mirrored on the other side: an id in Parents has this person in
// its Children, and Spouse is symmetric. Values returned by the store are
// copies; changing them has no effect on the graph.
type Person struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	LocalizedName string     `json:"localized_name,omitempty" yaml:"localized_name,omitempty"`
	Gender        Gender     `json:"gender" yaml:"gender"`
	BirthDate     *time.Time `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	Active        bool       `json:"active" yaml:"active"`
	Parents       []string   `json:"parents,omitempty" yaml:"parents,omitempty"`
	Spouse        string     `json:"spouse,omitempty" yaml:"spouse,omitempty"`
	Children      []string   `json:"children,omitempty" yaml:"children,omitempty"`
}

// HasParent reports whether id is one of p's parents.
func (p *Person) HasParent(id string) bool { return slices.Contains(p.Parents, id) }

// HasChild reports whether id is one of p's children.
func (p *Person) HasChild(id string) bool { return slices.Contains(p.Children, id) }

func (p *Person) clone() *Person {
	c := *p
	c.Parents = slices.Clone(p.Parents)
	c.Children = slices.Clone(p.Children)
	if p.BirthDate != nil {
		d := *p.BirthDate
		c.BirthDate = &d
	}
	return &c
}

// Fields are the scalar attributes supplied when creating a person.
type Fields struct {
	Name          string
	LocalizedName string
	Gender        Gender
	BirthDate     *time.Time
}

// Relations are the relationship references supplied when creating a person.
// Every referenced id must name an active person.
type Relations struct {
	Parents  []string
	Spouse   string
	Children []string
}

// Patch describes an update. Nil fields are left unchanged.
type Patch struct {
	Name          *string
	LocalizedName *string
	Gender        *Gender
	BirthDate     *time.Time
	// ClearBirthDate removes a recorded birth date. It wins over BirthDate.
	ClearBirthDate bool

	// Parents replaces the parent set. Retained parents keep their edges.
	Parents *[]string
	// Spouse replaces the spouse. An empty string clears it.
	Spouse *string
	// Children replaces the child set; each added child gains this person as a parent.
	Children *[]string
}

// touchesRelations reports whether the patch changes any edge.
func (p Patch) touchesRelations() bool {
	return p.Parents != nil || p.Spouse != nil || p.Children != nil
}
