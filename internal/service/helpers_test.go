package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/repository"
	"github.com/alexanderramin/trackline/internal/testutil"
	"github.com/stretchr/testify/require"
)

type repos struct {
	db       *sql.DB
	projects *repository.SQLiteProjectRepo
	features *repository.SQLiteFeatureRepo
	deps     *repository.SQLiteDependencyRepo
}

func setupRepos(t *testing.T) repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repos{
		db:       database,
		projects: repository.NewSQLiteProjectRepo(database),
		features: repository.NewSQLiteFeatureRepo(database),
		deps:     repository.NewSQLiteDependencyRepo(database),
	}
}

// seedProject stores a project open for the whole of 2024.
func seedProject(t *testing.T, r repos, name string) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name,
		testutil.WithProjectBounds(testutil.Date(2024, 1, 1), testutil.Date(2024, 12, 31)))
	require.NoError(t, r.projects.Create(context.Background(), p))
	return p
}

func seedFeature(t *testing.T, r repos, projectID, title string, opts ...testutil.FeatureOption) *domain.Feature {
	t.Helper()
	f := testutil.NewTestFeature(projectID, title, opts...)
	require.NoError(t, r.features.Create(context.Background(), f))
	return f
}

func mustGet(t *testing.T, r repos, id string) *domain.Feature {
	t.Helper()
	f, err := r.features.GetByID(context.Background(), id)
	require.NoError(t, err)
	return f
}
