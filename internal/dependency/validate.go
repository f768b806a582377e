package dependency

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/trackline/internal/domain"
)

var (
	ErrSelfDependency = errors.New("feature cannot depend on itself")
	ErrCrossProject   = errors.New("dependency is not in the same project")
	ErrOwnSubFeature  = errors.New("feature cannot depend on its own sub-feature")
	ErrParentFeature  = errors.New("sub-feature cannot depend on its parent feature")
	ErrCycle          = errors.New("dependency would create a cycle")
	ErrDuplicateEdge  = errors.New("dependency already exists")
)

// Validate checks a single proposed edge "current depends on dep" against
// the structural rules. It does not look for cycles.
func Validate(current, dep domain.Feature) error {
	switch {
	case current.ID == dep.ID:
		return ErrSelfDependency
	case current.ProjectID != dep.ProjectID:
		return fmt.Errorf("%w: %q", ErrCrossProject, dep.Title)
	case dep.IsChildOf(current.ID):
		return fmt.Errorf("%w: %q", ErrOwnSubFeature, dep.Title)
	case current.IsChildOf(dep.ID):
		return fmt.Errorf("%w: %q", ErrParentFeature, dep.Title)
	}
	return nil
}
