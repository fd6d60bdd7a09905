package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

func sampleStore(t *testing.T) *family.Store {
	t.Helper()
	n := 0
	s := family.NewStore(family.Options{NewID: func() string {
		n++
		return "p" + string(rune('0'+n))
	}})
	born := time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC)
	dad, err := s.CreatePerson(family.Fields{Name: "Tom", Gender: family.GenderMale}, family.Relations{})
	require.NoError(t, err)
	mom, err := s.CreatePerson(family.Fields{Name: "Ann", LocalizedName: "Anna", Gender: family.GenderFemale},
		family.Relations{Spouse: dad.ID})
	require.NoError(t, err)
	_, err = s.CreatePerson(family.Fields{Name: "Joe", Gender: family.GenderMale, BirthDate: &born},
		family.Relations{Parents: []string{dad.ID, mom.ID}})
	require.NoError(t, err)
	require.NoError(t, s.SoftDeletePerson(dad.ID))
	return s
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			s := sampleStore(t)
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, format, s.Records()))

			persons, err := Read(&buf, format)
			require.NoError(t, err)

			loaded := family.NewStore(family.Options{})
			require.NoError(t, loaded.Load(persons))
			assert.Equal(t, s.Records(), loaded.Records())
		})
	}
}

func TestReadDefaults(t *testing.T) {
	in := `
version: 1
persons:
  - id: a
    name: A
    gender: Female
`
	persons, err := Read(strings.NewReader(in), FormatYAML)
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.True(t, persons[0].Active, "active defaults to true")
	assert.Equal(t, family.GenderFemale, persons[0].Gender)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"malformed json", FormatJSON, `{"persons": [`},
		{"unknown json key", FormatJSON, `{"persons": [{"id": "a", "name": "A", "gender": "male", "age": 3}]}`},
		{"unknown yaml key", FormatYAML, "persons:\n  - id: a\n    nick: x\n"},
		{"bad gender", FormatJSON, `{"persons": [{"id": "a", "name": "A", "gender": "x"}]}`},
		{"bad date", FormatJSON, `{"persons": [{"id": "a", "name": "A", "gender": "male", "birth_date": "01/02/1990"}]}`},
		{"future version", FormatJSON, `{"version": 99, "persons": []}`},
		{"unknown format", Format("xml"), `<persons/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Read() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"tree.json", FormatJSON, true},
		{"tree.YAML", FormatYAML, true},
		{"dir/tree.yml", FormatYAML, true},
		{"tree.txt", "", false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("FormatFromPath(%q) = %q, %v, want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yaml")
	s := sampleStore(t)

	require.NoError(t, Export(path, s.Records()))
	persons, err := Import(path)
	require.NoError(t, err)
	assert.Len(t, persons, 3)

	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1, "no temporary files left behind")

	_, err = Import(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
