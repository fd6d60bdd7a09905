package layout

import (
	"slices"

	"github.com/matzehuels/kintree/pkg/family"
)

// Crossings returns the number of connector crossings between consecutive
// rows of a tiered layout. Edges that skip rows are ignored.
func Crossings(v *family.View, rows [][]string) int {
	total := 0
	for i := 0; i+1 < len(rows); i++ {
		total += rowCrossings(v, rows[i], rows[i+1])
	}
	return total
}

// rowCrossings counts crossings between two adjacent rows with a Fenwick tree.
// Edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and pos(v1) > pos(v2),
// so the count equals the inversions among lower positions once edges are
// sorted by upper position. O(E log V).
func rowCrossings(v *family.View, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[string]int, len(lower))
	for i, id := range lower {
		lowerPos[id] = i
	}

	type edge struct{ upper, lower int }
	var edges []edge
	for i, id := range upper {
		for _, child := range v.Node(id).Children {
			if pos, ok := lowerPos[child.ID()]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, seen := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += seen - lessOrEqual

		seen++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
