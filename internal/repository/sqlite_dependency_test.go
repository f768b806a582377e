package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyRepo_AddListRemove(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Deps")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	features := NewSQLiteFeatureRepo(db)
	a := testutil.NewTestFeature(proj.ID, "A")
	b := testutil.NewTestFeature(proj.ID, "B")
	c := testutil.NewTestFeature(proj.ID, "C")
	for _, f := range []*domain.Feature{a, b, c} {
		require.NoError(t, features.Create(ctx, f))
	}

	repo := NewSQLiteDependencyRepo(db)
	require.NoError(t, repo.Add(ctx, domain.Dependency{FeatureID: a.ID, DependsOnID: b.ID}))
	require.NoError(t, repo.Add(ctx, domain.Dependency{FeatureID: c.ID, DependsOnID: b.ID}))

	deps, err := repo.ListForFeature(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Dependency{{FeatureID: a.ID, DependsOnID: b.ID}}, deps)

	dependents, err := repo.ListDependents(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, dependents, 2)

	all, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.Error(t, repo.Add(ctx, domain.Dependency{FeatureID: a.ID, DependsOnID: b.ID}), "duplicate edge")

	require.NoError(t, repo.Remove(ctx, a.ID, b.ID))
	assert.ErrorIs(t, repo.Remove(ctx, a.ID, b.ID), ErrNotFound)

	deps, err = repo.ListForFeature(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestDependencyRepo_ListByProjectIsScoped(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewSQLiteProjectRepo(db)
	features := NewSQLiteFeatureRepo(db)
	repo := NewSQLiteDependencyRepo(db)

	p1 := testutil.NewTestProject("One")
	p2 := testutil.NewTestProject("Two")
	require.NoError(t, projects.Create(ctx, p1))
	require.NoError(t, projects.Create(ctx, p2))

	a1 := testutil.NewTestFeature(p1.ID, "A1")
	b1 := testutil.NewTestFeature(p1.ID, "B1")
	a2 := testutil.NewTestFeature(p2.ID, "A2")
	b2 := testutil.NewTestFeature(p2.ID, "B2")
	for _, f := range []*domain.Feature{a1, b1, a2, b2} {
		require.NoError(t, features.Create(ctx, f))
	}
	require.NoError(t, repo.Add(ctx, domain.Dependency{FeatureID: a1.ID, DependsOnID: b1.ID}))
	require.NoError(t, repo.Add(ctx, domain.Dependency{FeatureID: a2.ID, DependsOnID: b2.ID}))

	deps, err := repo.ListByProject(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Dependency{{FeatureID: a1.ID, DependsOnID: b1.ID}}, deps)
}
