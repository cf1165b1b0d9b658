package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type updateCall struct {
	TaskID      string
	Status      domain.TaskStatus
	CompletedAt *time.Time
}

type fakeUpdater struct {
	mu    sync.Mutex
	calls []updateCall
	err   error
	// gate, when set, blocks UpdateTaskStatus until closed.
	gate chan struct{}
}

func (f *fakeUpdater) UpdateTaskStatus(_ context.Context, id string, s domain.TaskStatus, completedAt *time.Time) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, updateCall{id, s, completedAt})
	return f.err
}

type notifyCall struct {
	TaskID   string
	From, To domain.TaskStatus
	Actor    string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (f *fakeNotifier) NotifyStatusChange(_ context.Context, t domain.Task, from, to domain.TaskStatus, actor string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{t.ID, from, to, actor})
}

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newTestBoard(u StatusUpdater, opts ...Option) *Board {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(sampleTasks(), u, "actor", opts...)
}

func findTask(t *testing.T, tasks []domain.Task, id string) domain.Task {
	t.Helper()
	for _, tk := range tasks {
		if tk.ID == id {
			return tk
		}
	}
	t.Fatalf("task %s not found", id)
	return domain.Task{}
}

func TestMove_SuccessPersistsAndNotifies(t *testing.T) {
	u := &fakeUpdater{}
	n := &fakeNotifier{}
	b := newTestBoard(u, WithNotifier(n))

	require.NoError(t, b.Move(context.Background(), MoveRequest{TaskID: "a", ToStatus: domain.TaskDone}))
	b.Wait()

	require.Len(t, u.calls, 1)
	assert.Equal(t, domain.TaskDone, u.calls[0].Status)
	require.NotNil(t, u.calls[0].CompletedAt)
	assert.Equal(t, fixedNow, *u.calls[0].CompletedAt)

	got := findTask(t, b.Tasks(), "a")
	assert.Equal(t, domain.TaskDone, got.Status)
	assert.NotNil(t, got.CompletedAt)

	require.Len(t, n.calls, 1)
	assert.Equal(t, notifyCall{"a", domain.TaskTodo, domain.TaskDone, "actor"}, n.calls[0])
}

func TestMove_LeavingDoneClearsCompletedAt(t *testing.T) {
	u := &fakeUpdater{}
	b := newTestBoard(u)

	require.NoError(t, b.Move(context.Background(), MoveRequest{TaskID: "e", ToStatus: domain.TaskReview}))
	require.Len(t, u.calls, 1)
	assert.Nil(t, u.calls[0].CompletedAt)
}

func TestMove_SameColumnDoesNotNotify(t *testing.T) {
	u := &fakeUpdater{}
	n := &fakeNotifier{}
	b := newTestBoard(u, WithNotifier(n))

	require.NoError(t, b.Move(context.Background(), MoveRequest{TaskID: "d", ToStatus: domain.TaskTodo, OverTaskID: "a"}))
	b.Wait()

	assert.Equal(t, []string{"d", "a", "b"}, columnIDs(b.Tasks(), domain.TaskTodo))
	assert.Empty(t, u.calls, "a reorder within one column is not written")
	assert.Empty(t, n.calls)
	assert.False(t, b.InFlight("d"))
}

func TestMove_SameColumnIgnoresUpdaterFailure(t *testing.T) {
	u := &fakeUpdater{err: errors.New("offline")}
	b := newTestBoard(u)

	require.NoError(t, b.Move(context.Background(), MoveRequest{TaskID: "d", ToStatus: domain.TaskTodo, OverTaskID: "a"}))
	assert.Equal(t, []string{"d", "a", "b"}, columnIDs(b.Tasks(), domain.TaskTodo))
	assert.Empty(t, u.calls)
}

func TestMove_FailureRevertsStatusOnly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	u := &fakeUpdater{err: errors.New("500 internal")}
	n := &fakeNotifier{}
	b := newTestBoard(u, WithNotifier(n), WithLogger(zap.New(core)))

	err := b.Move(context.Background(), MoveRequest{TaskID: "a", ToStatus: domain.TaskDone})
	b.Wait()

	var ce *CommitError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "a", ce.TaskID)
	assert.Equal(t, domain.TaskTodo, ce.Restored)

	tasks := b.Tasks()
	got := findTask(t, tasks, "a")
	assert.Equal(t, domain.TaskTodo, got.Status)
	assert.Nil(t, got.CompletedAt)

	// Only the status reverts; the list position stays where the drag put it.
	assert.Equal(t, "a", tasks[len(tasks)-1].ID)
	assert.Equal(t, []string{"b", "d", "a"}, columnIDs(tasks, domain.TaskTodo))

	assert.Empty(t, n.calls)
	assert.Equal(t, 1, logs.FilterMessage("board move rolled back").Len())
	assert.False(t, b.InFlight("a"))
}

func TestMove_FailureRestoresPreviousCompletedAt(t *testing.T) {
	done := fixedNow.Add(-48 * time.Hour)
	tasks := sampleTasks()
	tasks[4].CompletedAt = &done
	u := &fakeUpdater{err: errors.New("timeout")}
	b := New(tasks, u, "actor")

	err := b.Move(context.Background(), MoveRequest{TaskID: "e", ToStatus: domain.TaskTodo})
	require.Error(t, err)

	got := findTask(t, b.Tasks(), "e")
	assert.Equal(t, domain.TaskDone, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, done, *got.CompletedAt)
}

func TestBegin_OptimisticBeforeCommit(t *testing.T) {
	u := &fakeUpdater{}
	b := newTestBoard(u)

	p, err := b.Begin(MoveRequest{TaskID: "c", ToStatus: domain.TaskReview})
	require.NoError(t, err)

	// Visible before any remote call.
	assert.Equal(t, domain.TaskReview, findTask(t, b.Tasks(), "c").Status)
	assert.Empty(t, u.calls)
	assert.True(t, b.InFlight("c"))

	_, err = b.Begin(MoveRequest{TaskID: "c", ToStatus: domain.TaskDone})
	assert.ErrorIs(t, err, ErrMoveInFlight)

	// Other tasks can still move.
	_, err = b.Begin(MoveRequest{TaskID: "a", ToStatus: domain.TaskInProgress})
	require.NoError(t, err)

	require.NoError(t, p.Commit(context.Background()))
	assert.False(t, b.InFlight("c"))
}

func TestMove_ConcurrentSameTaskRejected(t *testing.T) {
	u := &fakeUpdater{gate: make(chan struct{})}
	b := newTestBoard(u)

	p, err := b.Begin(MoveRequest{TaskID: "a", ToStatus: domain.TaskInProgress})
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- p.Commit(context.Background()) }()

	err = b.Move(context.Background(), MoveRequest{TaskID: "a", ToStatus: domain.TaskDone})
	assert.ErrorIs(t, err, ErrMoveInFlight)

	close(u.gate)
	require.NoError(t, <-errc)
}

func TestMove_NotificationSurvivesCancelledContext(t *testing.T) {
	u := &fakeUpdater{}
	n := &fakeNotifier{}
	b := newTestBoard(u, WithNotifier(n))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, b.Move(ctx, MoveRequest{TaskID: "b", ToStatus: domain.TaskReview}))
	cancel()
	b.Wait()

	assert.Len(t, n.calls, 1)
}

func TestMove_UnknownTask(t *testing.T) {
	b := newTestBoard(&fakeUpdater{})
	err := b.Move(context.Background(), MoveRequest{TaskID: "zz", ToStatus: domain.TaskDone})
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.False(t, b.InFlight("zz"))
}
