package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/testutil"
)

type sprintFixture struct {
	stores              localStores
	project             *domain.Project
	current, next, done *domain.Sprint
	finished, todo      *domain.Task
	doing, review       *domain.Task
}

func newSprintFixture(t *testing.T) sprintFixture {
	t.Helper()
	s := newLocalStores(t)
	p := s.seedProject(t, "Shop")
	f := sprintFixture{stores: s, project: p}
	f.current = s.seedSprint(t, p.ID, "Sprint 1", testutil.WithSprintStatus(domain.SprintActive))
	f.next = s.seedSprint(t, p.ID, "Sprint 2")
	f.done = s.seedSprint(t, p.ID, "Sprint 0", testutil.WithSprintStatus(domain.SprintCompleted))
	f.finished = s.seedTask(t, p.ID, "Finished", testutil.WithSprint(f.current.ID), testutil.WithStatus(domain.TaskDone))
	f.todo = s.seedTask(t, p.ID, "Todo", testutil.WithSprint(f.current.ID))
	f.doing = s.seedTask(t, p.ID, "Doing", testutil.WithSprint(f.current.ID), testutil.WithStatus(domain.TaskInProgress))
	f.review = s.seedTask(t, p.ID, "Review", testutil.WithSprint(f.current.ID), testutil.WithStatus(domain.TaskReview))
	return f
}

func (f sprintFixture) sprintOf(t *testing.T, taskID string) *string {
	t.Helper()
	task, err := f.stores.tasks.GetTask(context.Background(), taskID)
	require.NoError(t, err)
	return task.SprintID
}

func (f sprintFixture) statusOf(t *testing.T, sprintID string) domain.SprintStatus {
	t.Helper()
	sp, err := f.stores.sprints.GetSprint(context.Background(), sprintID)
	require.NoError(t, err)
	return sp.Status
}

func TestSprintService_Start(t *testing.T) {
	f := newSprintFixture(t)
	svc := NewSprintService(f.stores.sprints, NewSQLiteStoreTx(testutil.NewTestUoW(f.stores.db)), nil)
	ctx := context.Background()

	require.NoError(t, svc.Start(ctx, f.next.ID))
	assert.Equal(t, domain.SprintActive, f.statusOf(t, f.next.ID))

	assert.ErrorIs(t, svc.Start(ctx, f.next.ID), ErrSprintState)
	assert.ErrorIs(t, svc.Start(ctx, f.done.ID), ErrSprintState)
}

func TestSprintService_Complete_MigratesUnfinishedTasks(t *testing.T) {
	f := newSprintFixture(t)
	svc := NewSprintService(f.stores.sprints, NewSQLiteStoreTx(testutil.NewTestUoW(f.stores.db)), nil)

	res, err := svc.Complete(context.Background(), f.current.ID, MigrationPlan{
		Default: MigrationTarget{ToBacklog: true},
		Tasks: map[string]MigrationTarget{
			f.doing.ID:  {SprintID: f.next.ID},
			f.review.ID: {},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.DoneCount)
	assert.Equal(t, 3, res.Unfinished)
	assert.Equal(t, []string{f.todo.ID}, res.ToBacklog)
	assert.Equal(t, []string{f.doing.ID}, res.Moved)
	assert.Equal(t, []string{f.review.ID}, res.Stayed)
	assert.Equal(t, domain.SprintCompleted, res.Sprint.Status)

	assert.Nil(t, f.sprintOf(t, f.todo.ID))
	assert.Equal(t, f.next.ID, *f.sprintOf(t, f.doing.ID))
	assert.Equal(t, f.current.ID, *f.sprintOf(t, f.review.ID))
	assert.Equal(t, f.current.ID, *f.sprintOf(t, f.finished.ID), "done tasks never move")
	assert.Equal(t, domain.SprintCompleted, f.statusOf(t, f.current.ID))
}

func TestSprintService_Complete_RequiresActiveSprint(t *testing.T) {
	f := newSprintFixture(t)
	svc := NewSprintService(f.stores.sprints, NewSQLiteStoreTx(testutil.NewTestUoW(f.stores.db)), nil)

	_, err := svc.Complete(context.Background(), f.next.ID, MigrationPlan{})
	assert.ErrorIs(t, err, ErrSprintState)
}

func TestSprintService_Complete_InvalidTargetRollsBack(t *testing.T) {
	f := newSprintFixture(t)
	svc := NewSprintService(f.stores.sprints, NewSQLiteStoreTx(testutil.NewTestUoW(f.stores.db)), nil)

	_, err := svc.Complete(context.Background(), f.current.ID, MigrationPlan{
		Default: MigrationTarget{ToBacklog: true},
		Tasks:   map[string]MigrationTarget{f.doing.ID: {SprintID: f.done.ID}},
	})
	require.ErrorIs(t, err, ErrMigrationTarget)

	assert.Equal(t, f.current.ID, *f.sprintOf(t, f.todo.ID), "earlier moves are rolled back")
	assert.Equal(t, domain.SprintActive, f.statusOf(t, f.current.ID))
}

func TestSprintService_Complete_TargetInOtherProject(t *testing.T) {
	f := newSprintFixture(t)
	other := f.stores.seedProject(t, "Other")
	foreign := f.stores.seedSprint(t, other.ID, "Foreign")
	svc := NewSprintService(f.stores.sprints, NewSQLiteStoreTx(testutil.NewTestUoW(f.stores.db)), nil)

	_, err := svc.Complete(context.Background(), f.current.ID, MigrationPlan{
		Default: MigrationTarget{SprintID: foreign.ID},
	})
	require.ErrorIs(t, err, ErrMigrationTarget)
	assert.Contains(t, err.Error(), "another project")
}

func TestSprintService_Complete_WriteFailureRollsBack(t *testing.T) {
	f := newSprintFixture(t)
	// The backlog moves succeed, the sprint status update fails.
	uow := &testutil.FailingUoW{DB: f.stores.db, Match: "UPDATE sprints", Err: errBoom}
	svc := NewSprintService(f.stores.sprints, NewSQLiteStoreTx(uow), nil)

	_, err := svc.Complete(context.Background(), f.current.ID, MigrationPlan{Default: MigrationTarget{ToBacklog: true}})
	require.ErrorIs(t, err, errBoom)

	for _, id := range []string{f.todo.ID, f.doing.ID, f.review.ID} {
		require.NotNil(t, f.sprintOf(t, id))
		assert.Equal(t, f.current.ID, *f.sprintOf(t, id))
	}
	assert.Equal(t, domain.SprintActive, f.statusOf(t, f.current.ID))
}

func TestSprintService_DirectStoreTx(t *testing.T) {
	f := newSprintFixture(t)
	svc := NewSprintService(f.stores.sprints, NewDirectStoreTx(f.stores.sprints, f.stores.tasks), nil)

	res, err := svc.Complete(context.Background(), f.current.ID, MigrationPlan{Default: MigrationTarget{SprintID: f.next.ID}})
	require.NoError(t, err)
	assert.Len(t, res.Moved, 3)
	assert.Equal(t, f.next.ID, *f.sprintOf(t, f.todo.ID))
}
