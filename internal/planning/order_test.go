package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positions(tasks []DraftTask) map[string]int {
	pos := make(map[string]int, len(tasks))
	for i, t := range tasks {
		pos[t.Title] = i
	}
	return pos
}

func TestOrderByDependencies_DependenciesFirst(t *testing.T) {
	tasks := []DraftTask{
		{Title: "Deploy", Dependencies: []string{"API", "UI"}},
		{Title: "UI", Dependencies: []string{"API"}},
		{Title: "API"},
		{Title: "Docs"},
	}

	out, err := OrderByDependencies(tasks)
	require.NoError(t, err)
	require.Len(t, out, 4)

	pos := positions(out)
	assert.Less(t, pos["API"], pos["UI"])
	assert.Less(t, pos["UI"], pos["Deploy"])
	assert.Contains(t, pos, "Docs")
}

func TestOrderByDependencies_IgnoresUnknownAndSelf(t *testing.T) {
	tasks := []DraftTask{
		{Title: "A", Dependencies: []string{"missing", "A"}},
		{Title: "B", Dependencies: []string{"A"}},
	}
	out, err := OrderByDependencies(tasks)
	require.NoError(t, err)
	pos := positions(out)
	assert.Less(t, pos["A"], pos["B"])
}

func TestOrderByDependencies_CycleKeepsInputOrder(t *testing.T) {
	tasks := []DraftTask{
		{Title: "A", Dependencies: []string{"B"}},
		{Title: "B", Dependencies: []string{"A"}},
		{Title: "C"},
	}
	out, err := OrderByDependencies(tasks)
	assert.ErrorIs(t, err, ErrDependencyCycle)
	assert.Equal(t, tasks, out)
}

func TestOrderByDependencies_Trivial(t *testing.T) {
	out, err := OrderByDependencies([]DraftTask{{Title: "only"}})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
