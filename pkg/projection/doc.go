// Package projection is the read side of a family tree: it turns the store
// into graph views, generation levels and layouts, and caches them per store
// revision.
//
// # Overview
//
// A [Service] wraps any [Source] (normally a [family.Store]). Every read
// checks the source revision; if a [Snapshot] for that revision exists it is
// returned as is, otherwise one is built. Concurrent readers that miss at the
// same time share a single computation through singleflight. Writers never
// touch snapshots, so a reader always sees one consistent revision.
//
// Snapshots compute the view, levels and row ordering eagerly. The tiered and
// radial layouts are computed on first use and then kept with the snapshot.
//
// # Documents
//
// [Service.Document] assembles a serializable [Document] for one layout type.
// When a [cache.Cache] is configured, documents are stored under a key
// derived from the content hash of the view, so separate processes that load
// the same records share results.
//
// # Usage
//
//	svc := projection.NewService(store, projection.Options{})
//	levels, _ := svc.Generations(ctx)
//	doc, _ := svc.Document(ctx, projection.VizRadial)
//	data, _ := doc.Marshal()
package projection
