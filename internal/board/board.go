package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"go.uber.org/zap"
)

// ErrMoveInFlight is returned when a task is moved again before its
// previous move has been committed.
var ErrMoveInFlight = errors.New("task move already in flight")

// StatusUpdater persists a task's status change.
type StatusUpdater interface {
	UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus, completedAt *time.Time) error
}

// Notifier is told about committed status changes.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, task domain.Task, from, to domain.TaskStatus, actorID string)
}

// CommitError reports a failed remote write whose optimistic change was
// rolled back.
type CommitError struct {
	TaskID   string
	Restored domain.TaskStatus
	Err      error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("moving task %s failed, status restored to %s: %v", e.TaskID, e.Restored, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Board holds the in-memory task list of one board view. It is safe for
// concurrent use.
type Board struct {
	mu       sync.Mutex
	tasks    []domain.Task
	inFlight map[string]bool

	updater  StatusUpdater
	notifier Notifier
	actorID  string
	log      *zap.Logger
	now      func() time.Time
	wg       sync.WaitGroup
}

type Option func(*Board)

// WithNotifier sets who hears about committed status changes.
func WithNotifier(n Notifier) Option {
	return func(b *Board) { b.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.log = l
		}
	}
}

// WithClock overrides the time source used for completedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// New creates a board over tasks acting as actorID.
func New(tasks []domain.Task, updater StatusUpdater, actorID string, opts ...Option) *Board {
	b := &Board{
		tasks:    append([]domain.Task(nil), tasks...),
		inFlight: make(map[string]bool),
		updater:  updater,
		actorID:  actorID,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Tasks returns a copy of the current list.
func (b *Board) Tasks() []domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Task(nil), b.tasks...)
}

// Columns returns the current list grouped by status.
func (b *Board) Columns() []Column {
	return Columns(b.Tasks())
}

// InFlight reports whether a move of the task is awaiting commit.
func (b *Board) InFlight(taskID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inFlight[taskID]
}

// Pending is an applied but uncommitted move.
type Pending struct {
	board       *Board
	task        domain.Task
	from        domain.TaskStatus
	prevDone    *time.Time
	completedAt *time.Time
}

// Task returns the moved task as it looks after the optimistic update.
func (p *Pending) Task() domain.Task { return p.task }

// Begin applies the move to the in-memory list immediately and returns
// the pending commit.
func (b *Board) Begin(req MoveRequest) (*Pending, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inFlight[req.TaskID] {
		return nil, fmt.Errorf("%w: %s", ErrMoveInFlight, req.TaskID)
	}
	next, err := Reorder(b.tasks, req)
	if err != nil {
		return nil, err
	}
	i := indexOf(next, req.TaskID)
	prev := b.tasks[indexOf(b.tasks, req.TaskID)]

	if prev.Status != req.ToStatus {
		next[i].SetStatus(req.ToStatus, b.now())
	}

	b.tasks = next
	b.inFlight[req.TaskID] = true
	return &Pending{
		board:       b,
		task:        next[i],
		from:        prev.Status,
		prevDone:    prev.CompletedAt,
		completedAt: next[i].CompletedAt,
	}, nil
}

// Commit persists the move. On failure only the status and completion
// time of the task are restored; the list order stays as moved.
func (p *Pending) Commit(ctx context.Context) error {
	b := p.board
	if p.from == p.task.Status {
		b.mu.Lock()
		delete(b.inFlight, p.task.ID)
		b.mu.Unlock()
		return nil
	}
	err := b.updater.UpdateTaskStatus(ctx, p.task.ID, p.task.Status, p.completedAt)

	b.mu.Lock()
	delete(b.inFlight, p.task.ID)
	if err != nil {
		if i := indexOf(b.tasks, p.task.ID); i >= 0 {
			b.tasks[i].Status = p.from
			b.tasks[i].CompletedAt = p.prevDone
		}
		b.mu.Unlock()
		b.log.Warn("board move rolled back",
			zap.String("task_id", p.task.ID),
			zap.String("from", string(p.from)),
			zap.String("to", string(p.task.Status)),
			zap.Error(err))
		return &CommitError{TaskID: p.task.ID, Restored: p.from, Err: err}
	}
	b.mu.Unlock()

	if b.notifier != nil {
		b.wg.Add(1)
		go func(task domain.Task, from domain.TaskStatus) {
			defer b.wg.Done()
			b.notifier.NotifyStatusChange(context.WithoutCancel(ctx), task, from, task.Status, b.actorID)
		}(p.task, p.from)
	}
	return nil
}

// Move applies and commits a move in one call.
func (b *Board) Move(ctx context.Context, req MoveRequest) error {
	p, err := b.Begin(req)
	if err != nil {
		return err
	}
	return p.Commit(ctx)
}

// Wait blocks until all notification goroutines have finished.
func (b *Board) Wait() {
	b.wg.Wait()
}
