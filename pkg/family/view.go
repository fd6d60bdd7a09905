package family

// View is an immutable, denormalized snapshot of the active graph. Every
// relationship id is resolved to a [Node] pointer; references to inactive or
// unknown persons are dropped, so a node whose parents are all inactive is a
// root of the view.
//
// Nodes, and each node's Parents and Children, are in creation order of the
// referenced persons' lists. A View is safe for concurrent reads.
type View struct {
	Revision uint64
	Nodes    []*Node // active persons in creation order

	index map[string]*Node
}

// Node is one active person in a [View].
type Node struct {
	Person   Person
	Parents  []*Node
	Children []*Node
	Spouse   *Node
}

// ID returns the person id.
func (n *Node) ID() string { return n.Person.ID }

// IsRoot reports whether the node has no active parents.
func (n *Node) IsRoot() bool { return len(n.Parents) == 0 }

// Edge is a parent to child pair in a [View].
type Edge struct {
	Parent string
	Child  string
}

// GraphView returns a snapshot of the active graph at the current revision.
func (s *Store) GraphView() *View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	persons := make([]Person, 0, len(s.order))
	for _, id := range s.order {
		if p := s.persons[id]; p.Active {
			persons = append(persons, *p.clone())
		}
	}
	return NewView(s.rev, persons)
}

// NewView builds a view from person records, keeping only active ones.
// The slice order is the creation order used by layouts.
func NewView(revision uint64, persons []Person) *View {
	v := &View{Revision: revision, index: make(map[string]*Node, len(persons))}
	for _, p := range persons {
		if !p.Active {
			continue
		}
		if _, dup := v.index[p.ID]; dup {
			continue
		}
		n := &Node{Person: p}
		v.Nodes = append(v.Nodes, n)
		v.index[p.ID] = n
	}
	for _, n := range v.Nodes {
		for _, id := range n.Person.Parents {
			if p, ok := v.index[id]; ok {
				n.Parents = append(n.Parents, p)
			}
		}
		for _, id := range n.Person.Children {
			if c, ok := v.index[id]; ok {
				n.Children = append(n.Children, c)
			}
		}
		n.Spouse = v.index[n.Person.Spouse]
	}
	return v
}

// Node returns the node for id, or nil if id is not an active person.
func (v *View) Node(id string) *Node { return v.index[id] }

// Len returns the number of active persons.
func (v *View) Len() int { return len(v.Nodes) }

// Roots returns the nodes without active parents, in creation order.
func (v *View) Roots() []*Node {
	var roots []*Node
	for _, n := range v.Nodes {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Edges returns every parent to child edge between active persons, ordered by
// parent creation order and then by the parent's Children list.
func (v *View) Edges() []Edge {
	var edges []Edge
	for _, n := range v.Nodes {
		for _, c := range n.Children {
			edges = append(edges, Edge{Parent: n.ID(), Child: c.ID()})
		}
	}
	return edges
}
