package service

import (
	"context"
	"time"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/hierarchy"
	"github.com/alexanderramin/trackline/internal/repository"
	"github.com/alexanderramin/trackline/internal/timeline"
	"golang.org/x/sync/errgroup"
)

type timelineService struct {
	projects repository.ProjectRepo
	features repository.FeatureRepo
	deps     repository.DependencyRepo
	cfg      timeline.Config
	now      func() time.Time
	observer UseCaseObserver
}

// TimelineOption configures a TimelineService.
type TimelineOption func(*timelineService)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) TimelineOption {
	return func(s *timelineService) { s.now = now }
}

// WithObserver attaches a use-case observer.
func WithObserver(obs UseCaseObserver) TimelineOption {
	return func(s *timelineService) {
		if obs != nil {
			s.observer = obs
		}
	}
}

func NewTimelineService(
	projects repository.ProjectRepo,
	features repository.FeatureRepo,
	deps repository.DependencyRepo,
	cfg timeline.Config,
	opts ...TimelineOption,
) TimelineService {
	s := &timelineService{
		projects: projects,
		features: features,
		deps:     deps,
		cfg:      cfg,
		now:      time.Now,
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build loads the project's features and edges concurrently and lays them
// out for the given expansion state.
func (s *timelineService) Build(ctx context.Context, projectID string, expanded hierarchy.ExpandSet) (view *timeline.View, err error) {
	defer observe(ctx, s.observer, "build-timeline", map[string]any{"project_id": projectID}, time.Now().UTC(), &err)

	if _, err = s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	var features []*domain.Feature
	var edges []domain.Dependency
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		features, err = s.features.ListByProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		edges, err = s.deps.ListByProject(gctx, projectID)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	flat := make([]domain.Feature, 0, len(features))
	for _, f := range features {
		flat = append(flat, *f)
	}
	v := timeline.Layout(flat, expanded, s.now(), s.cfg)
	v.Dependencies = edges
	return &v, nil
}
