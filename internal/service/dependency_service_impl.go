package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/trackline/internal/db"
	"github.com/alexanderramin/trackline/internal/dependency"
	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/repository"
)

type dependencyService struct {
	features repository.FeatureRepo
	deps     repository.DependencyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewDependencyService(
	features repository.FeatureRepo,
	deps repository.DependencyRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) DependencyService {
	return &dependencyService{
		features: features,
		deps:     deps,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *dependencyService) Candidates(ctx context.Context, featureID string) ([]domain.Feature, error) {
	current, err := s.features.GetByID(ctx, featureID)
	if err != nil {
		return nil, err
	}
	all, err := s.projectFeatures(ctx, current.ProjectID)
	if err != nil {
		return nil, err
	}
	return dependency.Candidates(all, current), nil
}

func (s *dependencyService) ProjectCandidates(ctx context.Context, projectID string) ([]domain.Feature, error) {
	all, err := s.projectFeatures(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return dependency.Candidates(all, nil), nil
}

// Add records featureID -> dependsOnID after the structural rules, the
// duplicate check and a transitive cycle check all pass.
func (s *dependencyService) Add(ctx context.Context, featureID, dependsOnID string) (err error) {
	fields := map[string]any{"feature_id": featureID, "depends_on_id": dependsOnID}
	defer observe(ctx, s.observer, "add-dependency", fields, time.Now().UTC(), &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFeatures := repository.NewSQLiteFeatureRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		current, err := txFeatures.GetByID(ctx, featureID)
		if err != nil {
			return err
		}
		target, err := txFeatures.GetByID(ctx, dependsOnID)
		if err != nil {
			return err
		}
		if err := dependency.Validate(*current, *target); err != nil {
			return err
		}

		edges, err := txDeps.ListByProject(ctx, current.ProjectID)
		if err != nil {
			return err
		}
		if dependency.NewGraph(edges).Has(featureID, dependsOnID) {
			return fmt.Errorf("%w: %s -> %s", dependency.ErrDuplicateEdge, current.Title, target.Title)
		}
		if err := dependency.DetectCycle(edges, featureID, dependsOnID); err != nil {
			return err
		}
		return txDeps.Add(ctx, domain.Dependency{FeatureID: featureID, DependsOnID: dependsOnID})
	})
}

func (s *dependencyService) Remove(ctx context.Context, featureID, dependsOnID string) (err error) {
	fields := map[string]any{"feature_id": featureID, "depends_on_id": dependsOnID}
	defer observe(ctx, s.observer, "remove-dependency", fields, time.Now().UTC(), &err)
	return s.deps.Remove(ctx, featureID, dependsOnID)
}

func (s *dependencyService) List(ctx context.Context, featureID string) ([]*domain.Feature, error) {
	edges, err := s.deps.ListForFeature(ctx, featureID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Feature, 0, len(edges))
	for _, e := range edges {
		f, err := s.features.GetByID(ctx, e.DependsOnID)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *dependencyService) projectFeatures(ctx context.Context, projectID string) ([]domain.Feature, error) {
	features, err := s.features.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	all := make([]domain.Feature, 0, len(features))
	for _, f := range features {
		all = append(all, *f)
	}
	return all, nil
}
