package layout

import "github.com/matzehuels/kintree/pkg/family"

// Cell is a position in the tiered grid.
type Cell struct {
	Row   int `json:"row"`
	Order int `json:"order"`
}

// Connector is a parent to child link between two cells.
type Connector struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
	From   Cell   `json:"from"`
	To     Cell   `json:"to"`
}

// Tiered returns the grid cell of every person in levels: the row is the
// generation and the order is the position within the row from [Rows].
func Tiered(v *family.View, levels map[string]int) map[string]Cell {
	return cellsOf(Rows(v, levels))
}

func cellsOf(rows [][]string) map[string]Cell {
	cells := make(map[string]Cell)
	for r, row := range rows {
		for i, id := range row {
			cells[id] = Cell{Row: r, Order: i}
		}
	}
	return cells
}

// TieredConnectors returns a connector for every parent to child edge of v
// whose ends both have cells, in the order of [family.View.Edges].
func TieredConnectors(v *family.View, cells map[string]Cell) []Connector {
	var out []Connector
	for _, e := range v.Edges() {
		from, ok1 := cells[e.Parent]
		to, ok2 := cells[e.Child]
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, Connector{Parent: e.Parent, Child: e.Child, From: from, To: to})
	}
	return out
}
