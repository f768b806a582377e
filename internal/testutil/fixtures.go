package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Date returns UTC midnight for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectBounds(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = &start
		p.EndDate = &end
	}
}

func WithDeadline(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.Deadline = &d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Feature options
type FeatureOption func(*domain.Feature)

func WithParent(id string) FeatureOption {
	return func(f *domain.Feature) {
		f.ParentID = &id
		f.HierarchyLevel = 1
	}
}

func WithDates(start, end time.Time) FeatureOption {
	return func(f *domain.Feature) {
		f.StartDate = &start
		f.EndDate = &end
	}
}

func WithStart(d time.Time) FeatureOption {
	return func(f *domain.Feature) {
		f.StartDate = &d
	}
}

func WithEnd(d time.Time) FeatureOption {
	return func(f *domain.Feature) {
		f.EndDate = &d
	}
}

func WithDue(d time.Time) FeatureOption {
	return func(f *domain.Feature) {
		f.DueDate = &d
	}
}

func WithHours(h int) FeatureOption {
	return func(f *domain.Feature) {
		f.EstimatedHours = &h
	}
}

func WithStatus(s domain.FeatureStatus) FeatureOption {
	return func(f *domain.Feature) {
		f.Status = s
	}
}

func WithPriority(p domain.FeaturePriority) FeatureOption {
	return func(f *domain.Feature) {
		f.Priority = p
	}
}

func WithOrder(i int) FeatureOption {
	return func(f *domain.Feature) {
		f.Order = i
	}
}

// WithLegacyPlacement sets the level and declared child count used for rows
// that carry no parent link.
func WithLegacyPlacement(level, subCount int) FeatureOption {
	return func(f *domain.Feature) {
		f.ParentID = nil
		f.HierarchyLevel = level
		f.SubFeaturesCount = subCount
	}
}

func NewTestFeature(projectID, title string, opts ...FeatureOption) *domain.Feature {
	now := time.Now().UTC().Truncate(time.Second)
	f := &domain.Feature{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Status:    domain.StatusIdea,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}
