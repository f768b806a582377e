package hierarchy

import (
	"testing"

	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForest() []*Node {
	return Build([]domain.Feature{
		feat("epic", 0, 0, 0),
		child("story-1", "epic", 1, 0),
		child("task-1", "story-1", 2, 0),
		child("story-2", "epic", 1, 1),
		feat("solo", 0, 0, 1),
	})
}

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Node.ID()
	}
	return ids
}

func TestFlatten_CollapsedByDefault(t *testing.T) {
	rows := Flatten(sampleForest(), nil)
	assert.Equal(t, []string{"epic", "solo"}, rowIDs(rows))
	assert.False(t, rows[0].Expanded)
	assert.True(t, rows[1].IsLast)
}

func TestFlatten_PartialExpand(t *testing.T) {
	rows := Flatten(sampleForest(), NewExpandSet("epic"))
	assert.Equal(t, []string{"epic", "story-1", "story-2", "solo"}, rowIDs(rows))
	assert.True(t, rows[0].Expanded)
	assert.Equal(t, 1, rows[1].Depth)
	assert.False(t, rows[1].IsLast)
	assert.True(t, rows[2].IsLast)
}

func TestFlatten_ExpandAll(t *testing.T) {
	forest := sampleForest()
	rows := Flatten(forest, ExpandAll(forest))
	assert.Equal(t, []string{"epic", "story-1", "task-1", "story-2", "solo"}, rowIDs(rows))
}

func TestFlatten_ExpandedLeafIsNotMarkedOpen(t *testing.T) {
	rows := Flatten(sampleForest(), NewExpandSet("solo"))
	require.Len(t, rows, 2)
	assert.False(t, rows[1].Expanded)
}

func TestExpandSet_ToggleIsCopy(t *testing.T) {
	s := NewExpandSet("a")
	t2 := s.Toggle("b")
	t3 := t2.Toggle("a")

	assert.True(t, s["a"])
	assert.False(t, s["b"], "original set must not change")
	assert.True(t, t2["a"])
	assert.True(t, t2["b"])
	assert.False(t, t3["a"])
	assert.True(t, t3["b"])
}

func TestFindAndCount(t *testing.T) {
	forest := sampleForest()
	assert.Equal(t, 5, Count(forest))

	n := Find(forest, "task-1")
	require.NotNil(t, n)
	assert.Equal(t, 2, n.Depth)
	assert.Nil(t, Find(forest, "missing"))
}
