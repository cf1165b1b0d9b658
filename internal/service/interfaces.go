package service

import (
	"context"

	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/notify"
	"github.com/alexanderramin/taskflow/internal/planning"
	"github.com/alexanderramin/taskflow/internal/repository"
)

// MemberDirectory fills in the account role of project members before
// assignment. Remote backends back it with the user service.
type MemberDirectory interface {
	Enrich(ctx context.Context, members []domain.Member) []domain.Member
}

// StoreTx runs fn with sprint and task stores that commit or roll back
// together where the backend supports it.
type StoreTx interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, sprints repository.SprintStore, tasks repository.TaskStore) error) error
}

// ApplyRequest is a reviewed plan together with the project it creates.
type ApplyRequest struct {
	Project domain.Project
	Members []domain.Member
	Draft   *planning.Draft
	// ActorID owns the project and is recorded as creator of every task.
	ActorID string
}

type CreatedTask struct {
	ID         string
	Title      string
	SprintID   string
	ParentID   string
	AssigneeID string
}

type SkippedItem struct {
	Title  string
	Reason string
}

// ApplyReport accounts for every entity a plan apply touched.
type ApplyReport struct {
	ProjectID      string
	SprintIDs      []string
	Created        []CreatedTask
	Skipped        []SkippedItem
	FailedMembers  []SkippedItem
	FailedSprints  []SkippedItem
	Distribution   []planning.Distribution
	DependencyNote string
}

type PlanService interface {
	Apply(ctx context.Context, req ApplyRequest) (*ApplyReport, error)
	ApplyFile(ctx context.Context, path string, req ApplyRequest) (*ApplyReport, error)
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	AddMember(ctx context.Context, projectID string, m domain.Member) error
	Members(ctx context.Context, projectID string) ([]domain.Member, error)
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	List(ctx context.Context, projectID, sprintID string) ([]domain.Task, error)
	Delete(ctx context.Context, id, actorID, actorName string) (notify.Report, error)
	Assign(ctx context.Context, id, assigneeID, actorID, actorName string) (notify.Report, error)
}

// MigrationTarget says where an unfinished task goes when its sprint completes.
type MigrationTarget struct {
	// ToBacklog removes the task from every sprint.
	ToBacklog bool
	// SprintID moves the task to another open sprint. Empty with ToBacklog
	// false leaves the task where it is.
	SprintID string
}

// MigrationPlan maps task ids to their target. Unlisted unfinished tasks
// use Default.
type MigrationPlan struct {
	Default MigrationTarget
	Tasks   map[string]MigrationTarget
}

type CompleteResult struct {
	Sprint     *domain.Sprint
	ToBacklog  []string
	Moved      []string
	Stayed     []string
	DoneCount  int
	Unfinished int
}

type SprintService interface {
	List(ctx context.Context, projectID string) ([]*domain.Sprint, error)
	Start(ctx context.Context, sprintID string) error
	Complete(ctx context.Context, sprintID string, plan MigrationPlan) (*CompleteResult, error)
}

type BoardService interface {
	Load(ctx context.Context, projectID, sprintID string) (*board.Board, error)
}

type NotifyService interface {
	NotifyOverdue(ctx context.Context, projectID string) (notify.Report, error)
	Inbox(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
}
