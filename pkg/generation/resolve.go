package generation

import "github.com/matzehuels/kintree/pkg/family"

// Resolve returns the generation level of every active person in v.
//
// Resolve runs one breadth-first traversal seeded with all roots at level 0
// and enqueues children at level+1. A person keeps the level at which it was
// first reached; the visited set also guarantees termination on cyclic input.
//
// Time complexity is O(V + E).
func Resolve(v *family.View) map[string]int {
	levels := make(map[string]int, v.Len())
	queue := make([]*family.Node, 0, v.Len())

	visit := func(n *family.Node, level int) {
		levels[n.ID()] = level
		queue = append(queue, n)
	}
	drain := func() {
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, child := range curr.Children {
				if _, seen := levels[child.ID()]; !seen {
					visit(child, levels[curr.ID()]+1)
				}
			}
		}
	}

	for _, n := range v.Roots() {
		visit(n, 0)
	}
	drain()

	for _, n := range v.Nodes {
		if _, seen := levels[n.ID()]; !seen {
			visit(n, 0)
			drain()
		}
	}
	return levels
}

// Depth returns the number of generations in levels, that is the highest
// level plus one. It returns 0 for an empty map.
func Depth(levels map[string]int) int {
	depth := 0
	for _, l := range levels {
		depth = max(depth, l+1)
	}
	return depth
}

// Count returns how many persons sit at each level, indexed by level.
func Count(levels map[string]int) []int {
	counts := make([]int, Depth(levels))
	for _, l := range levels {
		counts[l]++
	}
	return counts
}
