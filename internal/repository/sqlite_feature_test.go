package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeatureFixture(t *testing.T) (*SQLiteFeatureRepo, *domain.Project) {
	t.Helper()
	db := testutil.NewTestDB(t)
	proj := testutil.NewTestProject("Features")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(context.Background(), proj))
	return NewSQLiteFeatureRepo(db), proj
}

func TestFeatureRepo_CreateAndGetByID(t *testing.T) {
	repo, proj := newFeatureFixture(t)
	ctx := context.Background()

	f := testutil.NewTestFeature(proj.ID, "Checkout",
		testutil.WithDates(testutil.Date(2024, 3, 1), testutil.Date(2024, 3, 10)),
		testutil.WithDue(testutil.Date(2024, 3, 12)),
		testutil.WithHours(40),
		testutil.WithStatus(domain.StatusDevelopment),
		testutil.WithPriority(domain.PriorityHigh),
		testutil.WithOrder(3),
	)
	f.Description = "one-page checkout"
	require.NoError(t, repo.Create(ctx, f))

	got, err := repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("feature mismatch (-want +got):\n%s", diff)
	}
}

func TestFeatureRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := newFeatureFixture(t)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeatureRepo_DerivesLevelAndChildCount(t *testing.T) {
	repo, proj := newFeatureFixture(t)
	ctx := context.Background()

	root := testutil.NewTestFeature(proj.ID, "Root")
	mid := testutil.NewTestFeature(proj.ID, "Mid", testutil.WithParent(root.ID))
	leafA := testutil.NewTestFeature(proj.ID, "Leaf A", testutil.WithParent(mid.ID), testutil.WithOrder(1))
	leafB := testutil.NewTestFeature(proj.ID, "Leaf B", testutil.WithParent(mid.ID), testutil.WithOrder(2))
	for _, f := range []*domain.Feature{root, mid, leafA, leafB} {
		require.NoError(t, repo.Create(ctx, f))
	}

	byID := map[string]*domain.Feature{}
	all, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for _, f := range all {
		byID[f.ID] = f
	}

	assert.Equal(t, 0, byID[root.ID].HierarchyLevel)
	assert.Equal(t, 1, byID[root.ID].SubFeaturesCount)
	assert.Equal(t, 1, byID[mid.ID].HierarchyLevel)
	assert.Equal(t, 2, byID[mid.ID].SubFeaturesCount)
	assert.Equal(t, 2, byID[leafA.ID].HierarchyLevel)
	assert.Equal(t, 0, byID[leafA.ID].SubFeaturesCount)

	children, err := repo.ListChildren(ctx, mid.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Leaf A", children[0].Title)
	assert.Equal(t, "Leaf B", children[1].Title)

	n, err := repo.CountChildren(ctx, mid.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFeatureRepo_LegacyHintsSurviveForUnlinkedRows(t *testing.T) {
	repo, proj := newFeatureFixture(t)
	ctx := context.Background()

	parent := testutil.NewTestFeature(proj.ID, "Legacy parent", testutil.WithLegacyPlacement(0, 2))
	child := testutil.NewTestFeature(proj.ID, "Legacy child", testutil.WithLegacyPlacement(1, 0))
	require.NoError(t, repo.Create(ctx, parent))
	require.NoError(t, repo.Create(ctx, child))

	got, err := repo.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SubFeaturesCount, "declared count wins over zero live children")

	got, err = repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.HierarchyLevel)
	assert.Nil(t, got.ParentID)
}

func TestFeatureRepo_UpdateAndUpdateDates(t *testing.T) {
	repo, proj := newFeatureFixture(t)
	ctx := context.Background()

	f := testutil.NewTestFeature(proj.ID, "Search", testutil.WithHours(16))
	require.NoError(t, repo.Create(ctx, f))

	f.Title = "Search v2"
	f.Status = domain.StatusTesting
	require.NoError(t, repo.Update(ctx, f))

	start, end := testutil.Date(2024, 5, 1), testutil.Date(2024, 5, 3)
	require.NoError(t, repo.UpdateDates(ctx, f.ID, &start, &end))

	got, err := repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Search v2", got.Title)
	assert.Equal(t, domain.StatusTesting, got.Status)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2024-05-01", domain.FormatDate(*got.StartDate))
	assert.Equal(t, "2024-05-03", domain.FormatDate(*got.EndDate))
	require.NotNil(t, got.EstimatedHours)
	assert.Equal(t, 16, *got.EstimatedHours)

	require.NoError(t, repo.UpdateDates(ctx, f.ID, nil, nil))
	got, err = repo.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)

	assert.ErrorIs(t, repo.UpdateDates(ctx, "missing", &start, &end), ErrNotFound)
}

func TestFeatureRepo_DeleteRemovesSubtree(t *testing.T) {
	repo, proj := newFeatureFixture(t)
	ctx := context.Background()

	parent := testutil.NewTestFeature(proj.ID, "Parent")
	child := testutil.NewTestFeature(proj.ID, "Child", testutil.WithParent(parent.ID))
	require.NoError(t, repo.Create(ctx, parent))
	require.NoError(t, repo.Create(ctx, child))

	require.NoError(t, repo.Delete(ctx, parent.ID))
	_, err := repo.GetByID(ctx, child.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, parent.ID), ErrNotFound)
}
