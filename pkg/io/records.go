package io

import (
	"time"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

// Version is the records file format version written by [Write].
const Version = 1

type file struct {
	Version int      `json:"version" yaml:"version"`
	Persons []record `json:"persons" yaml:"persons"`
}

type record struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	LocalizedName string   `json:"localized_name,omitempty" yaml:"localized_name,omitempty"`
	Gender        string   `json:"gender" yaml:"gender"`
	BirthDate     string   `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	Active        *bool    `json:"active,omitempty" yaml:"active,omitempty"`
	Parents       []string `json:"parents,omitempty" yaml:"parents,omitempty"`
	Spouse        string   `json:"spouse,omitempty" yaml:"spouse,omitempty"`
	Children      []string `json:"children,omitempty" yaml:"children,omitempty"`
}

func toRecord(p family.Person) record {
	active := p.Active
	r := record{
		ID:            p.ID,
		Name:          p.Name,
		LocalizedName: p.LocalizedName,
		Gender:        string(p.Gender),
		Active:        &active,
		Parents:       p.Parents,
		Spouse:        p.Spouse,
		Children:      p.Children,
	}
	if p.BirthDate != nil {
		r.BirthDate = p.BirthDate.Format(time.DateOnly)
	}
	return r
}

func (r record) person() (family.Person, error) {
	g, err := family.ParseGender(r.Gender)
	if err != nil {
		return family.Person{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "person %s: gender", r.ID)
	}
	p := family.Person{
		ID:            r.ID,
		Name:          r.Name,
		LocalizedName: r.LocalizedName,
		Gender:        g,
		Active:        r.Active == nil || *r.Active,
		Parents:       r.Parents,
		Spouse:        r.Spouse,
		Children:      r.Children,
	}
	if r.BirthDate != "" {
		d, err := time.Parse(time.DateOnly, r.BirthDate)
		if err != nil {
			return family.Person{}, errors.New(errors.ErrCodeInvalidFormat,
				"person %s: birth_date %q is not YYYY-MM-DD", r.ID, r.BirthDate)
		}
		p.BirthDate = &d
	}
	return p, nil
}

func fromFile(f file) ([]family.Person, error) {
	if f.Version > Version {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"records version %d is newer than supported version %d", f.Version, Version)
	}
	persons := make([]family.Person, 0, len(f.Persons))
	for _, r := range f.Persons {
		p, err := r.person()
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, nil
}

func toFile(persons []family.Person) file {
	f := file{Version: Version, Persons: make([]record, len(persons))}
	for i, p := range persons {
		f.Persons[i] = toRecord(p)
	}
	return f
}
