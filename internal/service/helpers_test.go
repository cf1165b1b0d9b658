package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
	"github.com/alexanderramin/taskflow/internal/testutil"
)

var errBoom = errors.New("boom")

type localStores struct {
	db            *sql.DB
	projects      *repository.SQLiteProjectRepo
	sprints       *repository.SQLiteSprintRepo
	tasks         *repository.SQLiteTaskRepo
	notifications *repository.SQLiteNotificationRepo
}

func newLocalStores(t *testing.T) localStores {
	t.Helper()
	database := testutil.NewTestDB(t)
	return localStores{
		db:            database,
		projects:      repository.NewSQLiteProjectRepo(database),
		sprints:       repository.NewSQLiteSprintRepo(database),
		tasks:         repository.NewSQLiteTaskRepo(database),
		notifications: repository.NewSQLiteNotificationRepo(database),
	}
}

func (s localStores) seedProject(t *testing.T, name string, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name, opts...)
	_, err := s.projects.CreateProject(context.Background(), p)
	require.NoError(t, err)
	return p
}

func (s localStores) seedSprint(t *testing.T, projectID, name string, opts ...testutil.SprintOption) *domain.Sprint {
	t.Helper()
	sp := testutil.NewTestSprint(projectID, name, opts...)
	_, err := s.sprints.CreateSprint(context.Background(), sp)
	require.NoError(t, err)
	return sp
}

func (s localStores) seedTask(t *testing.T, projectID, title string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(projectID, title, opts...)
	_, err := s.tasks.CreateTask(context.Background(), task)
	require.NoError(t, err)
	return task
}

// failingSprints rejects every sprint create.
type failingSprints struct {
	repository.SprintStore
}

func (failingSprints) CreateSprint(context.Context, *domain.Sprint) (string, error) {
	return "", errBoom
}

// failingTasks rejects creates of the named titles.
type failingTasks struct {
	repository.TaskStore
	titles map[string]bool
}

func (f failingTasks) CreateTask(ctx context.Context, t *domain.Task) (string, error) {
	if f.titles[t.Title] {
		return "", errBoom
	}
	return f.TaskStore.CreateTask(ctx, t)
}

// failingMembers rejects adding the named users.
type failingMembers struct {
	repository.ProjectStore
	users map[string]bool
}

func (f failingMembers) AddMember(ctx context.Context, projectID string, m domain.Member) error {
	if f.users[m.UserID] {
		return errBoom
	}
	return f.ProjectStore.AddMember(ctx, projectID, m)
}

// fixedDirectory reports account roles from a map.
type fixedDirectory map[string]string

func (d fixedDirectory) Enrich(_ context.Context, members []domain.Member) []domain.Member {
	out := make([]domain.Member, len(members))
	for i, m := range members {
		m.ActualRole = d[m.UserID]
		out[i] = m
	}
	return out
}
