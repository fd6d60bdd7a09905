package generation

import (
	"maps"
	"testing"

	"github.com/matzehuels/kintree/pkg/family"
)

// viewOf builds a view of active persons with mirrored parent edges. Persons
// are created in the order of ids.
func viewOf(ids []string, edges ...family.Edge) *family.View {
	idx := make(map[string]int, len(ids))
	persons := make([]family.Person, len(ids))
	for i, id := range ids {
		idx[id] = i
		persons[i] = family.Person{ID: id, Name: id, Active: true}
	}
	for _, e := range edges {
		persons[idx[e.Child]].Parents = append(persons[idx[e.Child]].Parents, e.Parent)
		persons[idx[e.Parent]].Children = append(persons[idx[e.Parent]].Children, e.Child)
	}
	return family.NewView(1, persons)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges []family.Edge
		want  map[string]int
	}{
		{
			name: "empty",
			want: map[string]int{},
		},
		{
			name:  "two parents one child",
			ids:   []string{"p1", "p2", "p3"},
			edges: []family.Edge{{Parent: "p1", Child: "p3"}, {Parent: "p2", Child: "p3"}},
			want:  map[string]int{"p1": 0, "p2": 0, "p3": 1},
		},
		{
			name: "three generations",
			ids:  []string{"g", "p", "c", "x"},
			edges: []family.Edge{
				{Parent: "g", Child: "p"},
				{Parent: "p", Child: "c"},
			},
			want: map[string]int{"g": 0, "p": 1, "c": 2, "x": 0},
		},
		{
			name: "shallowest parent wins",
			ids:  []string{"a", "b", "c", "d"},
			edges: []family.Edge{
				{Parent: "a", Child: "b"},
				{Parent: "b", Child: "c"},
				{Parent: "c", Child: "d"},
				{Parent: "a", Child: "d"},
			},
			want: map[string]int{"a": 0, "b": 1, "c": 2, "d": 1},
		},
		{
			name: "cluster without root",
			ids:  []string{"r", "a", "b", "c"},
			edges: []family.Edge{
				{Parent: "a", Child: "b"},
				{Parent: "b", Child: "a"},
				{Parent: "b", Child: "c"},
			},
			want: map[string]int{"r": 0, "a": 0, "b": 1, "c": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(viewOf(tt.ids, tt.edges...))
			if !maps.Equal(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveInactiveParent(t *testing.T) {
	persons := []family.Person{
		{ID: "gone", Name: "gone", Active: false, Children: []string{"kid"}},
		{ID: "kid", Name: "kid", Active: true, Parents: []string{"gone"}, Children: []string{"grandkid"}},
		{ID: "grandkid", Name: "grandkid", Active: true, Parents: []string{"kid"}},
	}
	got := Resolve(family.NewView(1, persons))
	want := map[string]int{"kid": 0, "grandkid": 1}
	if !maps.Equal(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveDeterministic(t *testing.T) {
	v := viewOf([]string{"a", "b", "c", "d", "e"},
		family.Edge{Parent: "a", Child: "c"},
		family.Edge{Parent: "b", Child: "c"},
		family.Edge{Parent: "c", Child: "d"},
		family.Edge{Parent: "b", Child: "e"},
	)
	first := Resolve(v)
	for range 10 {
		if got := Resolve(v); !maps.Equal(got, first) {
			t.Fatalf("Resolve() = %v, want %v", got, first)
		}
	}
}

func TestResolveParentProperty(t *testing.T) {
	v := viewOf([]string{"a", "b", "c", "d", "e", "f"},
		family.Edge{Parent: "a", Child: "c"},
		family.Edge{Parent: "b", Child: "d"},
		family.Edge{Parent: "c", Child: "e"},
		family.Edge{Parent: "d", Child: "e"},
		family.Edge{Parent: "e", Child: "f"},
	)
	levels := Resolve(v)
	for _, n := range v.Nodes {
		if n.IsRoot() {
			if levels[n.ID()] != 0 {
				t.Errorf("root %s level = %d, want 0", n.ID(), levels[n.ID()])
			}
			continue
		}
		shallowest := -1
		for _, p := range n.Parents {
			if shallowest < 0 || levels[p.ID()] < shallowest {
				shallowest = levels[p.ID()]
			}
		}
		if levels[n.ID()] != shallowest+1 {
			t.Errorf("%s level = %d, want %d", n.ID(), levels[n.ID()], shallowest+1)
		}
	}
}

func TestDepthAndCount(t *testing.T) {
	levels := map[string]int{"a": 0, "b": 0, "c": 1, "d": 2}
	if got := Depth(levels); got != 3 {
		t.Errorf("Depth() = %d, want 3", got)
	}
	got := Count(levels)
	want := []int{2, 1, 1}
	if len(got) != len(want) {
		t.Fatalf("Count() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Count()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if got := Depth(nil); got != 0 {
		t.Errorf("Depth(nil) = %d, want 0", got)
	}
}
