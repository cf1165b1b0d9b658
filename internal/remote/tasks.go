package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
)

// TaskStore is the task service behind repository.TaskStore.
type TaskStore struct {
	c *Client
}

func NewTaskStore(c *Client) *TaskStore { return &TaskStore{c: c} }

func (s *TaskStore) CreateTask(ctx context.Context, t *domain.Task) (string, error) {
	if t.ProjectID == "" {
		return "", fmt.Errorf("creating task %q: project id is required", t.Title)
	}
	return s.create(ctx, "/api/tasks", t)
}

func (s *TaskStore) CreateSubtask(ctx context.Context, parentID string, t *domain.Task) (string, error) {
	t.ParentTaskID = &parentID
	return s.create(ctx, "/api/tasks/"+url.PathEscape(parentID)+"/subtasks", t)
}

func (s *TaskStore) create(ctx context.Context, path string, t *domain.Task) (string, error) {
	body, err := s.c.Do(ctx, http.MethodPost, path, taskToDTO(t))
	if err != nil {
		return "", fmt.Errorf("creating task %q: %w", t.Title, err)
	}
	id, err := createdID(body)
	if err != nil {
		return "", fmt.Errorf("creating task %q: %w", t.Title, err)
	}
	t.ID = id
	return id, nil
}

func (s *TaskStore) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	body, err := s.c.Do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	dto, err := decodeOne[taskDTO](body)
	if err != nil {
		return nil, err
	}
	t := dto.toDomain()
	if t.ID == "" {
		t.ID = id
	}
	return &t, nil
}

func (s *TaskStore) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	return s.list(ctx, "/api/tasks/project/"+url.PathEscape(projectID))
}

func (s *TaskStore) ListTasksBySprint(ctx context.Context, sprintID string) ([]domain.Task, error) {
	return s.list(ctx, "/api/tasks/sprint/"+url.PathEscape(sprintID))
}

func (s *TaskStore) list(ctx context.Context, path string) ([]domain.Task, error) {
	body, err := s.c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	dtos, err := decodeList[taskDTO](body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// UpdateTaskStatus writes the whole task back with the new status; the
// service has no partial update.
func (s *TaskStore) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus, completedAt *time.Time) error {
	return s.update(ctx, id, func(t *domain.Task) {
		t.Status = status
		t.CompletedAt = completedAt
	})
}

func (s *TaskStore) MoveTaskToSprint(ctx context.Context, id string, sprintID *string) error {
	return s.update(ctx, id, func(t *domain.Task) { t.SprintID = nonEmpty(sprintID) })
}

// AssignTask sets the assignee, leaving every other field as stored.
func (s *TaskStore) AssignTask(ctx context.Context, id, assigneeID string) error {
	return s.update(ctx, id, func(t *domain.Task) { t.AssigneeID = assigneeID })
}

func (s *TaskStore) update(ctx context.Context, id string, mutate func(*domain.Task)) error {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	mutate(t)
	if _, err := s.c.Do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), taskToDTO(t)); err != nil {
		return fmt.Errorf("updating task %s: %w", id, err)
	}
	return nil
}

func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.c.Do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

var _ repository.TaskStore = (*TaskStore)(nil)
