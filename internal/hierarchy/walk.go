package hierarchy

// ExpandSet holds the ids of expanded nodes. A nil set collapses everything.
type ExpandSet map[string]bool

// NewExpandSet builds a set from ids.
func NewExpandSet(ids ...string) ExpandSet {
	s := make(ExpandSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Toggle returns a copy of s with id flipped. The receiver is not modified.
func (s ExpandSet) Toggle(id string) ExpandSet {
	out := make(ExpandSet, len(s)+1)
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	if out[id] {
		delete(out, id)
	} else {
		out[id] = true
	}
	return out
}

// ExpandAll returns a set containing every node that has children.
func ExpandAll(forest []*Node) ExpandSet {
	s := ExpandSet{}
	Walk(forest, func(n *Node) bool {
		if n.HasChildren() {
			s[n.ID()] = true
		}
		return true
	})
	return s
}

// Row is one visible line of the forest.
type Row struct {
	Node     *Node
	Depth    int
	Expanded bool
	IsLast   bool
}

// Flatten lists the visible nodes depth-first. Children of collapsed nodes
// are omitted.
func Flatten(forest []*Node, expanded ExpandSet) []Row {
	var rows []Row
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for i, n := range nodes {
			open := expanded[n.ID()] && n.HasChildren()
			rows = append(rows, Row{
				Node:     n,
				Depth:    n.Depth,
				Expanded: open,
				IsLast:   i == len(nodes)-1,
			})
			if open {
				visit(n.Children)
			}
		}
	}
	visit(forest)
	return rows
}

// Walk visits every node depth-first. Returning false from fn skips the
// node's children.
func Walk(forest []*Node, fn func(n *Node) bool) {
	for _, n := range forest {
		if fn(n) {
			Walk(n.Children, fn)
		}
	}
}

// Find returns the node with the given feature id, or nil.
func Find(forest []*Node, id string) *Node {
	var found *Node
	Walk(forest, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the forest.
func Count(forest []*Node) int {
	total := 0
	Walk(forest, func(*Node) bool {
		total++
		return true
	})
	return total
}
