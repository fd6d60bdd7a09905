// Package generation assigns a generation level to every person in a family
// graph view.
//
// # Overview
//
// A generation level is the breadth-first distance of a person from the
// nearest root, where a root is an active person without active parents.
// Roots are at level 0, their children at level 1, and so on. When a person
// is reachable from several roots at different depths, the shallowest wins.
//
// [Resolve] is a pure function of its [family.View]: the same view always
// yields the same levels, which is what lets the projection layer cache them
// per store revision.
//
// # Unreachable Persons
//
// Parent edges in a valid store are acyclic, so every active person is
// reachable from some root. Should a view nonetheless contain a cluster with
// no root (a cycle loaded behind the store's back), the first unvisited
// person of the cluster in creation order is seeded at level 0 and the walk
// continues from there. Resolve never fails and always returns a level for
// every node of the view.
package generation
