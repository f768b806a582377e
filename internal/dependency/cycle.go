package dependency

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trackline/internal/domain"
)

// Graph is a dependency adjacency list: feature id to the ids it depends on.
type Graph map[string][]string

// NewGraph indexes edges.
func NewGraph(edges []domain.Dependency) Graph {
	g := make(Graph, len(edges))
	for _, e := range edges {
		g[e.FeatureID] = append(g[e.FeatureID], e.DependsOnID)
	}
	return g
}

// Has reports whether from already depends directly on to.
func (g Graph) Has(from, to string) bool {
	for _, id := range g[from] {
		if id == to {
			return true
		}
	}
	return false
}

const (
	white = iota
	gray
	black
)

// PathTo returns a dependency chain from start to target, or nil when target
// is unreachable. The search is a depth-first walk with white/gray/black
// marking, so existing cycles in g do not cause it to loop.
func (g Graph) PathTo(start, target string) []string {
	color := make(map[string]int, len(g))
	var path []string
	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		path = append(path, id)
		if id == target {
			return true
		}
		for _, next := range g[id] {
			if color[next] == white && visit(next) {
				return true
			}
		}
		color[id] = black
		path = path[:len(path)-1]
		return false
	}
	if visit(start) {
		return path
	}
	return nil
}

// DetectCycle returns ErrCycle when adding "from depends on to" would close a
// loop, that is when to already reaches from.
func DetectCycle(edges []domain.Dependency, from, to string) error {
	if from == to {
		return ErrSelfDependency
	}
	path := NewGraph(edges).PathTo(to, from)
	if path == nil {
		return nil
	}
	loop := append([]string{from}, path...)
	return fmt.Errorf("%w: %s", ErrCycle, strings.Join(loop, " -> "))
}
