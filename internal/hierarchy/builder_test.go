package hierarchy

import (
	"testing"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree is a comparable projection of a forest.
type tree struct {
	ID       string
	Depth    int
	Children []tree
}

func shape(nodes []*Node) []tree {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]tree, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, tree{ID: n.ID(), Depth: n.Depth, Children: shape(n.Children)})
	}
	return out
}

func feat(id string, level, subCount, order int) domain.Feature {
	return domain.Feature{ID: id, ProjectID: "p1", HierarchyLevel: level, SubFeaturesCount: subCount, Order: order}
}

func child(id, parent string, level, order int) domain.Feature {
	f := feat(id, level, 0, order)
	f.ParentID = &parent
	return f
}

func TestBuild_LegacyCountAttachesInOrder(t *testing.T) {
	features := []domain.Feature{
		feat("R", 0, 2, 0),
		feat("B", 1, 0, 2),
		feat("A", 1, 0, 1),
	}

	got := shape(Build(features))
	want := []tree{
		{ID: "R", Depth: 0, Children: []tree{
			{ID: "A", Depth: 1},
			{ID: "B", Depth: 1},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_LegacyOverflowPromotedToRoot(t *testing.T) {
	features := []domain.Feature{
		feat("R", 0, 1, 0),
		feat("A", 1, 0, 1),
		feat("B", 1, 0, 2),
	}

	got := shape(Build(features))
	want := []tree{
		{ID: "R", Children: []tree{{ID: "A", Depth: 1}}},
		{ID: "B"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_LegacySkipsRootsWithoutDeclaredCount(t *testing.T) {
	features := []domain.Feature{
		feat("R0", 0, 0, 0),
		feat("R1", 0, 1, 1),
		feat("A", 1, 0, 0),
	}

	forest := Build(features)
	r1 := Find(forest, "R1")
	require.NotNil(t, r1)
	require.Len(t, r1.Children, 1)
	assert.Equal(t, "A", r1.Children[0].ID())
	assert.False(t, Find(forest, "R0").HasChildren())
}

func TestBuild_ExplicitParentEdges(t *testing.T) {
	features := []domain.Feature{
		child("C2", "P", 1, 2),
		feat("P", 0, 0, 0), // stale count must not matter for explicit edges
		child("C1", "P", 1, 1),
		child("G", "C1", 2, 0),
		feat("S", 0, 0, 1),
	}

	got := shape(Build(features))
	want := []tree{
		{ID: "P", Children: []tree{
			{ID: "C1", Depth: 1, Children: []tree{{ID: "G", Depth: 2}}},
			{ID: "C2", Depth: 1},
		}},
		{ID: "S"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_MissingParentBecomesRoot(t *testing.T) {
	features := []domain.Feature{
		child("orphan", "gone", 1, 0),
		feat("R", 0, 0, 1),
	}

	got := shape(Build(features))
	want := []tree{{ID: "orphan"}, {ID: "R"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ParentLoopIsBroken(t *testing.T) {
	features := []domain.Feature{
		child("A", "B", 1, 0),
		child("B", "A", 1, 1),
		child("X", "A", 2, 2),
	}

	forest := Build(features)
	assert.Equal(t, 3, Count(forest), "every feature must appear exactly once")

	got := shape(forest)
	want := []tree{
		{ID: "A", Children: []tree{
			{ID: "B", Depth: 1},
			{ID: "X", Depth: 1},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SelfParentIsRoot(t *testing.T) {
	f := child("A", "A", 1, 0)
	got := shape(Build([]domain.Feature{f}))
	assert.Equal(t, []tree{{ID: "A"}}, got)
}

func TestBuild_MixedExplicitAndLegacy(t *testing.T) {
	features := []domain.Feature{
		feat("R", 0, 2, 0),
		child("E", "R", 1, 0),
		feat("L", 1, 0, 1), // legacy row fills the remaining declared slot
		feat("M", 1, 0, 2), // no slot left
	}

	got := shape(Build(features))
	want := []tree{
		{ID: "R", Children: []tree{{ID: "E", Depth: 1}, {ID: "L", Depth: 1}}},
		{ID: "M"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DuplicateIDsKeepFirst(t *testing.T) {
	a := feat("A", 0, 0, 0)
	a.Title = "first"
	dup := feat("A", 0, 0, 1)
	dup.Title = "second"

	forest := Build([]domain.Feature{a, dup})
	require.Len(t, forest, 1)
	assert.Equal(t, "first", forest[0].Feature.Title)
}

func TestBuildLegacy_IgnoresStoredParent(t *testing.T) {
	features := []domain.Feature{
		feat("R1", 0, 1, 0),
		feat("R2", 0, 1, 1),
		child("A", "R2", 1, 0),
	}

	got := shape(BuildLegacy(features))
	want := []tree{
		{ID: "R1", Children: []tree{{ID: "A", Depth: 1}}},
		{ID: "R2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Empty(t *testing.T) {
	assert.Empty(t, Build(nil))
}

func TestBuild_ProgressRollsUp(t *testing.T) {
	withStatus := func(f domain.Feature, s domain.FeatureStatus) domain.Feature {
		f.Status = s
		return f
	}
	features := []domain.Feature{
		withStatus(feat("P", 0, 0, 0), domain.StatusIdea),
		withStatus(child("A", "P", 1, 0), domain.StatusLive),
		withStatus(child("B", "P", 1, 1), domain.StatusSpecification),
		withStatus(child("B1", "B", 2, 0), domain.StatusDevelopment),
		withStatus(child("B2", "B", 2, 1), domain.StatusTesting),
		withStatus(feat("L", 0, 0, 1), domain.StatusTesting),
	}

	roots := Build(features)
	require.Len(t, roots, 2)

	p := Find(roots, "P")
	require.NotNil(t, p)
	assert.Equal(t, 70, Find(roots, "B").Feature.ProgressPercentage, "mean of 60 and 80")
	assert.Equal(t, 100, Find(roots, "A").Feature.ProgressPercentage)
	assert.Equal(t, 85, p.Feature.ProgressPercentage, "mean of 100 and 70")
	assert.Equal(t, 80, Find(roots, "L").Feature.ProgressPercentage)
}
