package projection

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/generation"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/observability"
)

// Snapshot holds everything derived from one store revision. Its fields and
// the maps it returns are shared between readers and must not be modified.
type Snapshot struct {
	Revision uint64
	View     *family.View
	Levels   map[string]int
	Rows     [][]string

	// Hash identifies the view content independently of the revision.
	Hash string

	radialOpts layout.RadialOptions

	tieredOnce sync.Once
	tiered     map[string]layout.Cell
	radialOnce sync.Once
	radial     map[string]layout.Point
}

func newSnapshot(v *family.View, radial layout.RadialOptions) *Snapshot {
	levels := generation.Resolve(v)
	return &Snapshot{
		Revision:   v.Revision,
		View:       v,
		Levels:     levels,
		Rows:       layout.Rows(v, levels),
		Hash:       viewHash(v),
		radialOpts: radial,
	}
}

// Tiered returns the tiered layout, computing it on first use.
func (s *Snapshot) Tiered() map[string]layout.Cell { return s.tieredLayout(context.Background()) }

// Radial returns the radial layout, computing it on first use.
func (s *Snapshot) Radial() map[string]layout.Point { return s.radialLayout(context.Background()) }

func (s *Snapshot) tieredLayout(ctx context.Context) map[string]layout.Cell {
	s.tieredOnce.Do(func() {
		defer track(ctx, "tiered", s.View.Len())()
		s.tiered = layout.Tiered(s.View, s.Levels)
	})
	return s.tiered
}

func (s *Snapshot) radialLayout(ctx context.Context) map[string]layout.Point {
	s.radialOnce.Do(func() {
		defer track(ctx, "radial", s.View.Len())()
		s.radial = layout.Radial(s.View, s.Levels, s.radialOpts)
	})
	return s.radial
}

// track reports a computation to the projection hooks. Call the returned
// function when it finishes.
func track(ctx context.Context, kind string, persons int) func() {
	start := time.Now()
	observability.Projection().OnComputeStart(ctx, kind, persons)
	return func() {
		observability.Projection().OnComputeComplete(ctx, kind, time.Since(start), nil)
	}
}

// hashedPerson is the part of a person that influences derived results.
type hashedPerson struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Local    string   `json:"local,omitempty"`
	Gender   string   `json:"gender"`
	Parents  []string `json:"parents,omitempty"`
	Children []string `json:"children,omitempty"`
	Spouse   string   `json:"spouse,omitempty"`
}

// viewHash hashes the active persons and their resolved edges in view order.
func viewHash(v *family.View) string {
	persons := make([]hashedPerson, len(v.Nodes))
	for i, n := range v.Nodes {
		hp := hashedPerson{
			ID:     n.ID(),
			Name:   n.Person.Name,
			Local:  n.Person.LocalizedName,
			Gender: string(n.Person.Gender),
		}
		for _, p := range n.Parents {
			hp.Parents = append(hp.Parents, p.ID())
		}
		for _, c := range n.Children {
			hp.Children = append(hp.Children, c.ID())
		}
		if n.Spouse != nil {
			hp.Spouse = n.Spouse.ID()
		}
		persons[i] = hp
	}
	return cache.HashJSON(persons)
}
