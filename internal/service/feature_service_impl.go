package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/trackline/internal/db"
	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/drag"
	"github.com/alexanderramin/trackline/internal/repository"
	"github.com/google/uuid"
)

// rollupHoursPerDay converts a rolled-up span into an estimate floor.
const rollupHoursPerDay = 8

// maxAncestors bounds the rollup walk over a corrupt parent chain.
const maxAncestors = 64

type featureService struct {
	features repository.FeatureRepo
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewFeatureService(
	features repository.FeatureRepo,
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) FeatureService {
	return &featureService{
		features: features,
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *featureService) Create(ctx context.Context, f *domain.Feature) (err error) {
	defer observe(ctx, s.observer, "create-feature", map[string]any{"project_id": f.ProjectID}, time.Now().UTC(), &err)

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Status == "" {
		f.Status = domain.StatusIdea
	}
	if f.Priority == "" {
		f.Priority = domain.PriorityMedium
	}
	if !domain.ValidFeatureStatuses[string(f.Status)] {
		return fmt.Errorf("unknown feature status %q", f.Status)
	}
	if !domain.ValidFeaturePriorities[string(f.Priority)] {
		return fmt.Errorf("unknown feature priority %q", f.Priority)
	}
	now := time.Now().UTC().Truncate(time.Second)
	f.CreatedAt = now
	f.UpdatedAt = now
	if f.Status == domain.StatusLive && f.CompletedAt == nil {
		f.CompletedAt = &now
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFeatures := repository.NewSQLiteFeatureRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)

		if err := checkSchedule(ctx, txProjects, txFeatures, f); err != nil {
			return err
		}
		if err := txFeatures.Create(ctx, f); err != nil {
			return err
		}
		return rollupAncestors(ctx, txFeatures, f.ParentID)
	})
}

func (s *featureService) GetByID(ctx context.Context, id string) (*domain.Feature, error) {
	return s.features.GetByID(ctx, id)
}

func (s *featureService) ListByProject(ctx context.Context, projectID string) ([]*domain.Feature, error) {
	return s.features.ListByProject(ctx, projectID)
}

// Update writes f. When the parent link moves, both the old and the new
// ancestor chains are rolled up.
func (s *featureService) Update(ctx context.Context, f *domain.Feature) (err error) {
	defer observe(ctx, s.observer, "update-feature", map[string]any{"feature_id": f.ID}, time.Now().UTC(), &err)

	if !domain.ValidFeatureStatuses[string(f.Status)] {
		return fmt.Errorf("unknown feature status %q", f.Status)
	}
	f.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFeatures := repository.NewSQLiteFeatureRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)

		existing, err := txFeatures.GetByID(ctx, f.ID)
		if err != nil {
			return err
		}
		if f.ProjectID != existing.ProjectID {
			return fmt.Errorf("%w: features cannot move between projects", ErrInvalidParent)
		}
		if err := checkNotDescendant(ctx, txFeatures, f); err != nil {
			return err
		}
		if err := checkSchedule(ctx, txProjects, txFeatures, f); err != nil {
			return err
		}
		if err := txFeatures.Update(ctx, f); err != nil {
			return err
		}
		if err := rollupAncestors(ctx, txFeatures, f.ParentID); err != nil {
			return err
		}
		if existing.ParentID != nil && (f.ParentID == nil || *f.ParentID != *existing.ParentID) {
			return rollupAncestors(ctx, txFeatures, existing.ParentID)
		}
		return nil
	})
}

func (s *featureService) UpdateDates(ctx context.Context, id string, change drag.DateChange) (err error) {
	fields := map[string]any{"feature_id": id, "start": change.StartDate(), "end": change.EndDate()}
	defer observe(ctx, s.observer, "update-feature-dates", fields, time.Now().UTC(), &err)

	start, end := domain.Day(change.Start), domain.Day(change.End)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFeatures := repository.NewSQLiteFeatureRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)

		f, err := txFeatures.GetByID(ctx, id)
		if err != nil {
			return err
		}
		f.StartDate = &start
		f.EndDate = &end
		if err := checkSchedule(ctx, txProjects, txFeatures, f); err != nil {
			return err
		}
		if err := txFeatures.UpdateDates(ctx, id, f.StartDate, f.EndDate); err != nil {
			return err
		}
		return rollupAncestors(ctx, txFeatures, f.ParentID)
	})
}

func (s *featureService) Advance(ctx context.Context, id string) (*domain.Feature, error) {
	return s.step(ctx, id, "advance", domain.FeatureStatus.Next)
}

func (s *featureService) Revert(ctx context.Context, id string) (*domain.Feature, error) {
	return s.step(ctx, id, "revert", domain.FeatureStatus.Previous)
}

func (s *featureService) step(ctx context.Context, id, verb string, next func(domain.FeatureStatus) domain.FeatureStatus) (f *domain.Feature, err error) {
	defer observe(ctx, s.observer, verb+"-feature", map[string]any{"feature_id": id}, time.Now().UTC(), &err)

	f, err = s.features.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	to := next(f.Status)
	if to == f.Status {
		return f, fmt.Errorf("feature %q cannot %s past %s", f.Title, verb, f.Status)
	}
	if err = f.SetStatus(to, time.Now().UTC().Truncate(time.Second)); err != nil {
		return nil, err
	}
	if err = s.features.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *featureService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-feature", map[string]any{"feature_id": id}, time.Now().UTC(), &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFeatures := repository.NewSQLiteFeatureRepo(tx)
		f, err := txFeatures.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txFeatures.Delete(ctx, id); err != nil {
			return err
		}
		return rollupAncestors(ctx, txFeatures, f.ParentID)
	})
}

// checkSchedule validates f's dates against its own range, the project window
// and the window of its nearest ancestor that sets its own dates.
func checkSchedule(ctx context.Context, projects repository.ProjectRepo, features repository.FeatureRepo, f *domain.Feature) error {
	if err := f.ValidateDates(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDates, err)
	}

	project, err := projects.GetByID(ctx, f.ProjectID)
	if err != nil {
		return err
	}
	pStart, pEnd := project.Bounds()
	if err := withinBounds(f, pStart, pEnd, "project", true); err != nil {
		return err
	}

	if f.ParentID == nil {
		return nil
	}
	if *f.ParentID == f.ID {
		return fmt.Errorf("%w: a feature cannot be its own parent", ErrInvalidParent)
	}
	parent, err := features.GetByID(ctx, *f.ParentID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParent, err)
	}
	if parent.ProjectID != f.ProjectID {
		return fmt.Errorf("%w: parent belongs to another project", ErrInvalidParent)
	}

	bound, err := bindingAncestor(ctx, features, parent)
	if err != nil || bound == nil {
		return err
	}
	owner := "parent feature"
	if bound.ID != parent.ID {
		owner = "ancestor feature"
	}
	return withinBounds(f, bound.StartDate, domain.CoalesceDate(bound.EndDate, bound.DueDate), owner, false)
}

// bindingAncestor walks up from parent to the first feature whose window is
// its own. A window that equals the span of the dated children is a rollup
// result and follows its children instead of bounding them.
func bindingAncestor(ctx context.Context, features repository.FeatureRepo, parent *domain.Feature) (*domain.Feature, error) {
	seen := map[string]bool{}
	for a := parent; a != nil && len(seen) < maxAncestors && !seen[a.ID]; {
		seen[a.ID] = true
		derived, err := isRolledUp(ctx, features, a)
		if err != nil {
			return nil, err
		}
		if !derived && (a.StartDate != nil || a.EndDate != nil || a.DueDate != nil) {
			return a, nil
		}
		if a.ParentID == nil {
			return nil, nil
		}
		if a, err = features.GetByID(ctx, *a.ParentID); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func isRolledUp(ctx context.Context, features repository.FeatureRepo, f *domain.Feature) (bool, error) {
	if !f.HasExplicitDates() {
		return false, nil
	}
	children, err := features.ListChildren(ctx, f.ID)
	if err != nil {
		return false, err
	}
	start, end, ok := span(children)
	return ok && start.Equal(domain.Day(*f.StartDate)) && end.Equal(domain.Day(*f.EndDate)), nil
}

// withinBounds rejects any stored date of f outside [lo, hi]. The due date is
// held to lo only when dueAfterStart is set.
func withinBounds(f *domain.Feature, lo, hi *time.Time, owner string, dueAfterStart bool) error {
	type named struct {
		name string
		at   *time.Time
	}
	dates := []named{{"start date", f.StartDate}, {"end date", f.EndDate}, {"due date", f.DueDate}}
	for _, d := range dates {
		if d.at == nil {
			continue
		}
		day := domain.Day(*d.at)
		if lo != nil && day.Before(domain.Day(*lo)) && (dueAfterStart || d.name != "due date") {
			return fmt.Errorf("%w: %s %s is before %s start %s", ErrInvalidDates,
				d.name, domain.FormatDate(day), owner, domain.FormatDate(*lo))
		}
		if hi != nil && day.After(domain.Day(*hi)) {
			return fmt.Errorf("%w: %s %s is after %s end %s", ErrInvalidDates,
				d.name, domain.FormatDate(day), owner, domain.FormatDate(*hi))
		}
	}
	return nil
}

// checkNotDescendant rejects a parent link that would put f below itself.
func checkNotDescendant(ctx context.Context, features repository.FeatureRepo, f *domain.Feature) error {
	pid := f.ParentID
	for i := 0; pid != nil && i < maxAncestors; i++ {
		if *pid == f.ID {
			return fmt.Errorf("%w: %q would become its own ancestor", ErrInvalidParent, f.Title)
		}
		p, err := features.GetByID(ctx, *pid)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParent, err)
		}
		pid = p.ParentID
	}
	return nil
}

// rollupAncestors recomputes the span of each ancestor starting at parentID
// from its dated children. The estimate never shrinks below the span at
// rollupHoursPerDay.
func rollupAncestors(ctx context.Context, features repository.FeatureRepo, parentID *string) error {
	seen := map[string]bool{}
	for i := 0; parentID != nil && i < maxAncestors && !seen[*parentID]; i++ {
		seen[*parentID] = true

		parent, err := features.GetByID(ctx, *parentID)
		if err != nil {
			return err
		}
		children, err := features.ListChildren(ctx, parent.ID)
		if err != nil {
			return err
		}
		if start, end, ok := span(children); ok {
			parent.StartDate = &start
			parent.EndDate = &end
			hours := (domain.DaysBetween(start, end) + 1) * rollupHoursPerDay
			if parent.EstimatedHours == nil || *parent.EstimatedHours < hours {
				parent.EstimatedHours = &hours
			}
			parent.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			if err := features.Update(ctx, parent); err != nil {
				return err
			}
		}
		parentID = parent.ParentID
	}
	return nil
}

// span returns the earliest start and latest end among children that have
// both dates.
func span(children []*domain.Feature) (start, end time.Time, ok bool) {
	for _, c := range children {
		if !c.HasExplicitDates() {
			continue
		}
		if !ok || c.StartDate.Before(start) {
			start = domain.Day(*c.StartDate)
		}
		if !ok || c.EndDate.After(end) {
			end = domain.Day(*c.EndDate)
		}
		ok = true
	}
	return start, end, ok
}
