// Package layout computes deterministic positions for the persons of a family
// graph view, given their generation levels.
//
// # Overview
//
// Two addressing schemes are provided, both built on the same stable row
// ordering returned by [Rows]:
//
//   - [Tiered] places each generation in a row and returns a (row, order)
//     cell per person. [TieredConnectors] lists the parent to child cell pairs
//     a renderer draws as descending connectors.
//   - [Radial] places each generation on a concentric ring, flattened
//     vertically and pushed back in depth, and fades deeper generations.
//     [RadialLines] lists the 2D segments between parents and children.
//
// # Row Ordering
//
// Row 0 holds the level-0 persons in creation order. Every later row is
// built by walking the previous row left to right and appending each person's
// children that belong to the row, so siblings end up contiguous directly
// below their first parent. A person reachable from two parents is placed
// under whichever comes first. Persons not placed that way are appended in
// creation order.
//
// # Purity
//
// Every function here is a pure function of its inputs. Identical views and
// levels produce identical output, bit for bit, on every call. The projection
// layer relies on this to cache layouts per store revision.
//
// [Crossings] counts connector crossings between consecutive tiered rows,
// reusing the Fenwick tree inversion count from layered graph drawing.
package layout
