package layout

import (
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/generation"
)

// Rows groups the persons of v by generation and orders each row.
// rows[g] lists the ids at level g. Persons missing from levels are skipped.
func Rows(v *family.View, levels map[string]int) [][]string {
	rows := make([][]string, generation.Depth(levels))
	placed := make(map[string]bool, len(levels))

	place := func(n *family.Node, row int) {
		rows[row] = append(rows[row], n.ID())
		placed[n.ID()] = true
	}

	for g := range rows {
		if g > 0 {
			for _, id := range rows[g-1] {
				for _, child := range v.Node(id).Children {
					if l, ok := levels[child.ID()]; ok && l == g && !placed[child.ID()] {
						place(child, g)
					}
				}
			}
		}
		for _, n := range v.Nodes {
			if l, ok := levels[n.ID()]; ok && l == g && !placed[n.ID()] {
				place(n, g)
			}
		}
	}
	return rows
}
