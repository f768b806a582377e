package service

import (
	"context"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/drag"
	"github.com/alexanderramin/trackline/internal/hierarchy"
	"github.com/alexanderramin/trackline/internal/timeline"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve looks a project up by id, then by short id.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// FeatureService owns feature writes. Every write that changes a
// sub-feature's schedule also rolls the new span up through its ancestors.
type FeatureService interface {
	Create(ctx context.Context, f *domain.Feature) error
	GetByID(ctx context.Context, id string) (*domain.Feature, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Feature, error)
	Update(ctx context.Context, f *domain.Feature) error
	// UpdateDates satisfies drag.DateUpdater.
	UpdateDates(ctx context.Context, id string, change drag.DateChange) error
	Advance(ctx context.Context, id string) (*domain.Feature, error)
	Revert(ctx context.Context, id string) (*domain.Feature, error)
	Delete(ctx context.Context, id string) error
}

type TimelineService interface {
	Build(ctx context.Context, projectID string, expanded hierarchy.ExpandSet) (*timeline.View, error)
}

type DependencyService interface {
	// Candidates lists the features featureID may depend on.
	Candidates(ctx context.Context, featureID string) ([]domain.Feature, error)
	// ProjectCandidates lists candidates for a feature not created yet.
	ProjectCandidates(ctx context.Context, projectID string) ([]domain.Feature, error)
	Add(ctx context.Context, featureID, dependsOnID string) error
	Remove(ctx context.Context, featureID, dependsOnID string) error
	// List returns the features featureID depends on.
	List(ctx context.Context, featureID string) ([]*domain.Feature, error)
}

var _ drag.DateUpdater = FeatureService(nil)
