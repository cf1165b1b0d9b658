package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// ErrNotFound is wrapped by every store when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// The store interfaces below are implemented both by the local SQLite
// repositories and by the remote REST adapters. Create methods return the
// id the backing store assigned.

type ProjectStore interface {
	CreateProject(ctx context.Context, p *domain.Project) (string, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	AddMember(ctx context.Context, projectID string, m domain.Member) error
	ListMembers(ctx context.Context, projectID string) ([]domain.Member, error)
}

type SprintStore interface {
	CreateSprint(ctx context.Context, s *domain.Sprint) (string, error)
	GetSprint(ctx context.Context, id string) (*domain.Sprint, error)
	ListSprints(ctx context.Context, projectID string) ([]*domain.Sprint, error)
	UpdateSprintStatus(ctx context.Context, id string, status domain.SprintStatus) error
}

type TaskStore interface {
	CreateTask(ctx context.Context, t *domain.Task) (string, error)
	CreateSubtask(ctx context.Context, parentID string, t *domain.Task) (string, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	ListTasksBySprint(ctx context.Context, sprintID string) ([]domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus, completedAt *time.Time) error
	MoveTaskToSprint(ctx context.Context, id string, sprintID *string) error
	AssignTask(ctx context.Context, id, assigneeID string) error
	DeleteTask(ctx context.Context, id string) error
}

type NotificationStore interface {
	Send(ctx context.Context, n domain.Notification) error
	ListForRecipient(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}
