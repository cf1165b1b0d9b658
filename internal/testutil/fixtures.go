package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/google/uuid"
)

var testKeyCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithDeadline(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.Deadline = &d
	}
}

func WithScrumMaster(userID string) ProjectOption {
	return func(p *domain.Project) {
		p.ScrumMasterID = userID
	}
}

func WithProjectKey(key string) ProjectOption {
	return func(p *domain.Project) {
		p.Key = key
	}
}

// NewTestProject builds a project whose key is unique within the test binary.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -7)
	p := &domain.Project{
		ID:        uuid.New().String(),
		Key:       fmt.Sprintf("%s%d", domain.ProjectKey(name), testKeyCounter.Add(1)),
		Name:      name,
		StartDate: &start,
		Status:    domain.ProjectActive,
		OwnerID:   "owner",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sprint options
type SprintOption func(*domain.Sprint)

func WithSprintStatus(s domain.SprintStatus) SprintOption {
	return func(sp *domain.Sprint) {
		sp.Status = s
	}
}

func WithSprintDates(start, end time.Time) SprintOption {
	return func(sp *domain.Sprint) {
		sp.StartDate = &start
		sp.EndDate = &end
	}
}

func NewTestSprint(projectID, name string, opts ...SprintOption) *domain.Sprint {
	s := &domain.Sprint{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Status:    domain.SprintNotStarted,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Task options
type TaskOption func(*domain.Task)

func WithSprint(id string) TaskOption {
	return func(t *domain.Task) {
		t.SprintID = &id
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithAssignee(userID string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeID = userID
	}
}

func WithCreator(userID string) TaskOption {
	return func(t *domain.Task) {
		t.CreatedBy = userID
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithCompletedAt(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.CompletedAt = &d
	}
}

func WithStoryPoints(n int) TaskOption {
	return func(t *domain.Task) {
		t.StoryPoints = n
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Status:    domain.TaskTodo,
		Priority:  domain.PriorityMedium,
		Label:     domain.LabelTask,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestMember(userID, name, role string) domain.Member {
	return domain.Member{UserID: userID, DisplayName: name, Role: role}
}
