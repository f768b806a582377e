package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// FeatureRepo stores features. HierarchyLevel and SubFeaturesCount are
// derived on read from parent links, falling back to the legacy placement
// hints for rows that have no parent link.
type FeatureRepo interface {
	Create(ctx context.Context, f *domain.Feature) error
	GetByID(ctx context.Context, id string) (*domain.Feature, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Feature, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Feature, error)
	Update(ctx context.Context, f *domain.Feature) error
	UpdateDates(ctx context.Context, id string, start, end *time.Time) error
	CountChildren(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Add(ctx context.Context, d domain.Dependency) error
	Remove(ctx context.Context, featureID, dependsOnID string) error
	ListForFeature(ctx context.Context, featureID string) ([]domain.Dependency, error)
	ListDependents(ctx context.Context, featureID string) ([]domain.Dependency, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
}
