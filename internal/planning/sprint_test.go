package planning

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

var twoSprints = []SprintRef{{ID: "s1", Name: "Sprint 1"}, {ID: "s2", Name: "Sprint 2"}}

func TestResolveSprintID(t *testing.T) {
	tests := []struct {
		name string
		task DraftTask
		want string
	}{
		{"valid index", DraftTask{SprintIndex: intPtr(1)}, "s2"},
		{"index out of range falls to exact name", DraftTask{SprintIndex: intPtr(5), SprintName: "Sprint 2"}, "s2"},
		{"negative index", DraftTask{SprintIndex: intPtr(-1), SprintName: "Sprint 2"}, "s2"},
		{"index beats name", DraftTask{SprintIndex: intPtr(0), SprintName: "Sprint 2"}, "s1"},
		{"task name contains sprint name", DraftTask{SprintName: "Sprint 2 - Auth"}, "s2"},
		{"sprint name contains task name", DraftTask{SprintName: "2"}, "s2"},
		{"no match falls back to first", DraftTask{SprintName: "Hardening"}, "s1"},
		{"nothing given", DraftTask{}, "s1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSprintID(tt.task, twoSprints)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSprintID_ExactBeatsSubstring(t *testing.T) {
	sprints := []SprintRef{{ID: "a", Name: "Sprint 10"}, {ID: "b", Name: "Sprint 1"}}
	got, err := ResolveSprintID(DraftTask{SprintName: "Sprint 1"}, sprints)
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}

func TestResolveSprintID_EmptyList(t *testing.T) {
	_, err := ResolveSprintID(DraftTask{SprintIndex: intPtr(0)}, nil)
	assert.ErrorIs(t, err, ErrNoSprints)
}

// TestResolveSprintID_Invariant_NeverEmpty property-tests that a non-empty
// sprint list always yields one of its ids.
func TestResolveSprintID_Invariant_NeverEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"", "Sprint 1", "Sprint 2", "Sprint", "Foundations", "x"}

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(5) + 1
		sprints := make([]SprintRef, n)
		ids := make(map[string]bool, n)
		for i := range sprints {
			id := "s-" + string(rune('a'+i))
			sprints[i] = SprintRef{ID: id, Name: names[rng.Intn(len(names))]}
			ids[id] = true
		}
		task := DraftTask{SprintName: names[rng.Intn(len(names))]}
		if rng.Intn(2) == 1 {
			task.SprintIndex = intPtr(rng.Intn(10) - 3)
		}

		got, err := ResolveSprintID(task, sprints)
		require.NoError(t, err, "trial %d", trial)
		assert.True(t, ids[got], "trial %d: %q is not a known sprint id", trial, got)
	}
}

func TestSplitPhases(t *testing.T) {
	tasks := []DraftTask{
		{Title: "P1", Level: domain.LevelParent},
		{Title: "S1", Level: domain.LevelSubtask, ParentTitle: "P1"},
		{Title: "P2"},
		{Title: "S2", Level: domain.LevelSubtask, ParentTitle: "P2"},
	}
	parents, subtasks := SplitPhases(tasks)
	require.Len(t, parents, 2)
	require.Len(t, subtasks, 2)
	assert.Equal(t, "P1", parents[0].Title)
	assert.Equal(t, "P2", parents[1].Title)
	assert.Equal(t, "S1", subtasks[0].Title)
}

func TestDraftTask_StoryPoints(t *testing.T) {
	assert.Equal(t, 0, DraftTask{}.StoryPoints())
	assert.Equal(t, 1, DraftTask{EstimatedHours: 3}.StoryPoints())
	assert.Equal(t, 1, DraftTask{EstimatedHours: 8}.StoryPoints())
	assert.Equal(t, 3, DraftTask{EstimatedHours: 17}.StoryPoints())
}
