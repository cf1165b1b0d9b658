package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/notify"
	"github.com/alexanderramin/taskflow/internal/repository"
)

type taskService struct {
	tasks    repository.TaskStore
	fanOut   *notify.FanOut
	log      *zap.Logger
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskStore, fanOut *notify.FanOut, log *zap.Logger, observers ...UseCaseObserver) TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &taskService{
		tasks:    tasks,
		fanOut:   fanOut,
		log:      log,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "task.create", time.Now(), &err, map[string]any{"project_id": t.ProjectID})

	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid task status %q", t.Status)
	}
	if t.IsSubtask() {
		_, err = s.tasks.CreateSubtask(ctx, *t.ParentTaskID, t)
	} else {
		_, err = s.tasks.CreateTask(ctx, t)
	}
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// List returns the tasks of one sprint, or of the whole project when
// sprintID is empty.
func (s *taskService) List(ctx context.Context, projectID, sprintID string) ([]domain.Task, error) {
	if sprintID != "" {
		return s.tasks.ListTasksBySprint(ctx, sprintID)
	}
	return s.tasks.ListTasksByProject(ctx, projectID)
}

// Delete removes a task and tells its assignee. Notification failures are
// reported, never returned.
func (s *taskService) Delete(ctx context.Context, id, actorID, actorName string) (rep notify.Report, err error) {
	defer observe(ctx, s.observer, "task.delete", time.Now(), &err, map[string]any{"task_id": id})

	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return notify.Report{}, err
	}
	if err = s.tasks.DeleteTask(ctx, id); err != nil {
		return notify.Report{}, fmt.Errorf("deleting task: %w", err)
	}
	if s.fanOut == nil {
		return notify.Report{}, nil
	}
	return s.fanOut.NotifyDeleted(ctx, *t, actorID, actorName), nil
}

// Assign changes the assignee and tells the new one. An empty assigneeID
// unassigns without notifying anyone.
func (s *taskService) Assign(ctx context.Context, id, assigneeID, actorID, actorName string) (rep notify.Report, err error) {
	defer observe(ctx, s.observer, "task.assign", time.Now(), &err, map[string]any{"task_id": id, "assignee": assigneeID})

	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return notify.Report{}, err
	}
	if t.AssigneeID == assigneeID {
		return notify.Report{}, nil
	}
	if err = s.tasks.AssignTask(ctx, id, assigneeID); err != nil {
		return notify.Report{}, fmt.Errorf("assigning task: %w", err)
	}
	t.AssigneeID = assigneeID
	if s.fanOut == nil {
		return notify.Report{}, nil
	}
	return s.fanOut.NotifyAssigned(ctx, *t, actorID, actorName), nil
}
