package domain

import (
	"fmt"
	"time"
)

// Feature is a schedulable unit of work belonging to a project, optionally
// nested under a parent feature.
type Feature struct {
	ID        string
	ProjectID string
	ParentID  *string

	// HierarchyLevel is 0 for roots. SubFeaturesCount is the declared number
	// of direct children; legacy rows without a ParentID are placed using it.
	HierarchyLevel   int
	SubFeaturesCount int

	Title       string
	Description string
	Status      FeatureStatus
	Priority    FeaturePriority
	Order       int

	StartDate *time.Time
	EndDate   *time.Time
	DueDate   *time.Time

	EstimatedHours     *int
	ActualHours        *int
	ProgressPercentage int

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Dependency records that FeatureID cannot finish before DependsOnID.
type Dependency struct {
	FeatureID   string
	DependsOnID string
}

// HasExplicitDates reports whether both start and end dates are stored.
func (f *Feature) HasExplicitDates() bool {
	return f.StartDate != nil && f.EndDate != nil
}

// IsSubFeature reports whether the feature sits below the root level.
func (f *Feature) IsSubFeature() bool {
	return f.HierarchyLevel > 0 || f.ParentID != nil
}

// IsChildOf reports whether the feature's stored parent is parentID.
func (f *Feature) IsChildOf(parentID string) bool {
	return f.ParentID != nil && *f.ParentID == parentID
}

// IsCompleted reports whether the feature reached the final status.
func (f *Feature) IsCompleted() bool {
	return f.Status == StatusLive
}

// IsOverdue checks the due date first, then the end date, against today.
func (f *Feature) IsOverdue(now time.Time) bool {
	check := CoalesceDate(f.DueDate, f.EndDate)
	if check == nil {
		return false
	}
	return Day(now).After(Day(*check)) && !f.IsCompleted()
}

// ValidateDates checks that a stored start does not come after a stored end.
func (f *Feature) ValidateDates() error {
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return fmt.Errorf("end date %s cannot be earlier than start date %s",
			FormatDate(*f.EndDate), FormatDate(*f.StartDate))
	}
	return nil
}

// SetStatus moves the feature to s and maintains CompletedAt.
func (f *Feature) SetStatus(s FeatureStatus, now time.Time) error {
	if !ValidFeatureStatuses[string(s)] {
		return fmt.Errorf("unknown feature status %q", s)
	}
	f.Status = s
	if s == StatusLive {
		if f.CompletedAt == nil {
			f.CompletedAt = &now
		}
	} else {
		f.CompletedAt = nil
	}
	f.UpdatedAt = now
	return nil
}
