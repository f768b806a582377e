package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/repository"
)

// resolveProject finds a project by short ID (case-insensitive), full UUID or
// unambiguous UUID prefix.
func resolveProject(ctx context.Context, app *App, input string) (*domain.Project, error) {
	if input == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	p, err := app.Projects.Resolve(ctx, input)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Project
	for _, p := range projects {
		if strings.EqualFold(p.ShortID, input) {
			return p, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveFeature finds a feature by full UUID or UUID prefix. Prefixes are
// matched within projectID when given, otherwise across every project.
func resolveFeature(ctx context.Context, app *App, input, projectID string) (*domain.Feature, error) {
	if input == "" {
		return nil, fmt.Errorf("feature ID is required")
	}

	f, err := app.Features.GetByID(ctx, input)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	projectIDs := []string{projectID}
	if projectID == "" {
		projects, err := app.Projects.List(ctx)
		if err != nil {
			return nil, err
		}
		projectIDs = projectIDs[:0]
		for _, p := range projects {
			projectIDs = append(projectIDs, p.ID)
		}
	}

	var matches []*domain.Feature
	for _, pid := range projectIDs {
		features, err := app.Features.ListByProject(ctx, pid)
		if err != nil {
			return nil, err
		}
		for _, f := range features {
			if strings.HasPrefix(f.ID, input) {
				matches = append(matches, f)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("feature not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("feature ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveProjectFlag resolves an optional --project value to a project UUID.
func resolveProjectFlag(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", nil
	}
	p, err := resolveProject(ctx, app, input)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}
