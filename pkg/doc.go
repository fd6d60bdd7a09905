// Package pkg provides the core libraries of kintree, a family relationship
// graph store with generation-based layouts.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. [family] - The graph store: persons, parent/child and spouse edges, and
//     the rules that keep them consistent
//  2. [generation] and [layout] - Generation resolution and the tiered and
//     radial layouts computed from it
//  3. [projection] - A read façade that computes views, generations and
//     layouts once per store revision and shares them between readers
//  4. [cache], [io], [render/nodelink] - Layout caching, records files, and
//     Graphviz diagrams
//
// # Architecture
//
// The typical data flow:
//
//	records file ([io])
//	         ↓
//	    [family] Store (validated mutations, revisions)
//	         ↓
//	    [family] View (active persons only)
//	         ↓
//	    [generation] Resolve
//	         ↓
//	    [layout] Rows → Tiered / Radial
//	         ↓
//	    [projection] Document → JSON, DOT, SVG
//
// # Quick Start
//
//	s := family.NewStore(family.Options{})
//	tom, _ := s.CreatePerson(family.Fields{Name: "Tom", Gender: family.GenderMale}, family.Relations{})
//	_, _ = s.CreatePerson(family.Fields{Name: "Joe", Gender: family.GenderMale},
//	    family.Relations{Parents: []string{tom.ID}})
//
//	svc := projection.NewService(s, projection.Options{})
//	levels, _ := svc.Generations(ctx)  // tom: 0, joe: 1
//	doc, _ := svc.Document(ctx, projection.VizRadial)
//
// # Supporting Packages
//
// [errors] - Coded errors shared by every package. Relationship rule
// violations carry the rule name.
//
// [observability] - Hook registry for store mutations, projection
// recomputes and cache events, with a Prometheus implementation.
//
// [buildinfo] - Version metadata injected at build time.
//
// [family]: github.com/matzehuels/kintree/pkg/family
// [generation]: github.com/matzehuels/kintree/pkg/generation
// [layout]: github.com/matzehuels/kintree/pkg/layout
// [projection]: github.com/matzehuels/kintree/pkg/projection
// [cache]: github.com/matzehuels/kintree/pkg/cache
// [io]: github.com/matzehuels/kintree/pkg/io
// [render/nodelink]: github.com/matzehuels/kintree/pkg/render/nodelink
// [errors]: github.com/matzehuels/kintree/pkg/errors
// [observability]: github.com/matzehuels/kintree/pkg/observability
// [buildinfo]: github.com/matzehuels/kintree/pkg/buildinfo
package pkg
