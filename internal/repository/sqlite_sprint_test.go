package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, repo *SQLiteProjectRepo, name string) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name)
	_, err := repo.CreateProject(context.Background(), p)
	require.NoError(t, err)
	return p
}

func TestSprintRepo_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db), "Sprints")
	repo := NewSQLiteSprintRepo(db)
	ctx := context.Background()

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 13)
	first := testutil.NewTestSprint(proj.ID, "Sprint 1", testutil.WithSprintDates(start, end))
	first.Goals = []string{"Foundations"}
	second := testutil.NewTestSprint(proj.ID, "Sprint 2")

	for _, s := range []*domain.Sprint{first, second} {
		_, err := repo.CreateSprint(ctx, s)
		require.NoError(t, err)
	}

	sprints, err := repo.ListSprints(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, sprints, 2)
	assert.Equal(t, "Sprint 1", sprints[0].Name)
	assert.Equal(t, "Sprint 2", sprints[1].Name)
	assert.Equal(t, []string{"Foundations"}, sprints[0].Goals)
	require.NotNil(t, sprints[0].StartDate)
	assert.True(t, start.Equal(*sprints[0].StartDate))
	assert.Nil(t, sprints[1].EndDate)
	assert.Equal(t, domain.SprintNotStarted, sprints[1].Status)
}

func TestSprintRepo_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db), "Status")
	repo := NewSQLiteSprintRepo(db)
	ctx := context.Background()

	s := testutil.NewTestSprint(proj.ID, "Sprint 1")
	_, err := repo.CreateSprint(ctx, s)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateSprintStatus(ctx, s.ID, domain.SprintActive))
	got, err := repo.GetSprint(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SprintActive, got.Status)

	assert.ErrorIs(t, repo.UpdateSprintStatus(ctx, "missing", domain.SprintActive), ErrNotFound)
	_, err = repo.GetSprint(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSprintRepo_RejectsUnknownProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSprintRepo(db)

	_, err := repo.CreateSprint(context.Background(), testutil.NewTestSprint("no-such-project", "S"))
	assert.Error(t, err)
}
