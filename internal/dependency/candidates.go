// Package dependency decides which features may be linked as dependencies
// and guards dependency edges against cycles.
package dependency

import "github.com/alexanderramin/trackline/internal/domain"

// Candidates returns the features in all that current may depend on. With no
// current feature (one being created) all is returned unchanged.
//
// Only one hop of the hierarchy is checked: the feature itself, other
// projects, its direct parent and its direct children are excluded.
// Multi-hop dependency cycles are caught by DetectCycle when an edge is
// written.
func Candidates(all []domain.Feature, current *domain.Feature) []domain.Feature {
	if current == nil {
		return all
	}
	out := make([]domain.Feature, 0, len(all))
	for _, f := range all {
		if Eligible(current, &f) {
			out = append(out, f)
		}
	}
	return out
}

// CandidateIDs is Candidates reduced to feature ids, in input order.
func CandidateIDs(all []domain.Feature, current *domain.Feature) []string {
	c := Candidates(all, current)
	ids := make([]string, len(c))
	for i, f := range c {
		ids[i] = f.ID
	}
	return ids
}

// Eligible reports whether current may depend on f.
func Eligible(current, f *domain.Feature) bool {
	if f.ID == current.ID {
		return false
	}
	if f.ProjectID != current.ProjectID {
		return false
	}
	if current.HierarchyLevel > 0 && current.IsChildOf(f.ID) {
		return false
	}
	return !f.IsChildOf(current.ID)
}
