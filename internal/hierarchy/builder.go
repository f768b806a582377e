// Package hierarchy reconstructs a feature forest from a flat, project-scoped
// feature list.
//
// Rows that carry a parent id are linked through an id-indexed arena. Legacy
// rows that only declare a hierarchy level are placed with a count-based
// heuristic: they attach to the first root whose declared sub-feature count is
// not yet filled, or become roots themselves.
package hierarchy

import (
	"math"
	"sort"

	"github.com/alexanderramin/trackline/internal/domain"
)

// Node is one feature in the forest. Nodes are rebuilt on every pass and are
// not mutated after Build returns. Feature.ProgressPercentage is filled in by
// Build: leaves take their status progress, parents the rounded mean of their
// children.
type Node struct {
	Feature  domain.Feature
	Children []*Node
	Depth    int
}

// ID returns the feature id of the node.
func (n *Node) ID() string { return n.Feature.ID }

// HasChildren reports whether any feature was attached below n.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// Build returns the forest for features. Explicit parent edges win; the
// count heuristic is used only for sub-features lacking a parent id.
func Build(features []domain.Feature) []*Node {
	arena := make(map[string]*Node, len(features))
	order := make([]*Node, 0, len(features))
	for _, f := range features {
		if _, dup := arena[f.ID]; dup {
			continue
		}
		n := &Node{Feature: f}
		arena[f.ID] = n
		order = append(order, n)
	}

	parentOf := explicitEdges(order, arena)

	var roots, rootCandidates, legacy []*Node
	for _, n := range order {
		f := n.Feature
		switch {
		case f.ParentID != nil:
			if pid, ok := parentOf[f.ID]; ok {
				p := arena[pid]
				p.Children = append(p.Children, n)
			} else {
				// Parent missing from the list or edge closes a loop.
				roots = append(roots, n)
			}
		case f.HierarchyLevel > 0:
			legacy = append(legacy, n)
		default:
			roots = append(roots, n)
			rootCandidates = append(rootCandidates, n)
		}
	}

	roots = append(roots, attachByCount(rootCandidates, legacy)...)
	sortForest(roots, 0)
	return roots
}

// BuildLegacy applies only the count heuristic, ignoring stored parent ids.
// Level-0 features are root candidates; every other feature attaches to the
// first candidate with spare declared capacity, in list order.
func BuildLegacy(features []domain.Feature) []*Node {
	var roots, subs []*Node
	for _, f := range features {
		n := &Node{Feature: f}
		if f.HierarchyLevel > 0 {
			subs = append(subs, n)
		} else {
			roots = append(roots, n)
		}
	}
	candidates := append([]*Node(nil), roots...)
	roots = append(roots, attachByCount(candidates, subs)...)
	sortForest(roots, 0)
	return roots
}

// explicitEdges maps child id to parent id for every stored edge whose parent
// is present. Edges that would make a node its own ancestor are dropped; the
// first node in list order found on a loop is the one promoted.
func explicitEdges(order []*Node, arena map[string]*Node) map[string]string {
	parentOf := make(map[string]string, len(order))
	for _, n := range order {
		pid := n.Feature.ParentID
		if pid == nil || *pid == n.Feature.ID {
			continue
		}
		if _, ok := arena[*pid]; ok {
			parentOf[n.Feature.ID] = *pid
		}
	}

	for _, n := range order {
		start := n.Feature.ID
		seen := map[string]bool{start: true}
		cur := start
		for {
			next, ok := parentOf[cur]
			if !ok {
				break
			}
			if next == start {
				delete(parentOf, start)
				break
			}
			if seen[next] {
				break
			}
			seen[next] = true
			cur = next
		}
	}
	return parentOf
}

// attachByCount places each sub candidate under the first root candidate
// whose attached-child count is below its declared SubFeaturesCount. Subs with
// no eligible candidate are returned to be promoted to roots.
func attachByCount(candidates, subs []*Node) []*Node {
	var promoted []*Node
	for _, sub := range subs {
		placed := false
		for _, c := range candidates {
			declared := c.Feature.SubFeaturesCount
			if declared > 0 && len(c.Children) < declared {
				c.Children = append(c.Children, sub)
				placed = true
				break
			}
		}
		if !placed {
			promoted = append(promoted, sub)
		}
	}
	return promoted
}

func sortForest(nodes []*Node, depth int) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Feature.Order < nodes[j].Feature.Order
	})
	for _, n := range nodes {
		n.Depth = depth
		sortForest(n.Children, depth+1)
		n.Feature.ProgressPercentage = rollupProgress(n)
	}
}

// rollupProgress expects the children's progress to be computed already.
func rollupProgress(n *Node) int {
	if len(n.Children) == 0 {
		return domain.StatusProgress(n.Feature.Status)
	}
	sum := 0
	for _, c := range n.Children {
		sum += c.Feature.ProgressPercentage
	}
	return int(math.Round(float64(sum) / float64(len(n.Children))))
}
