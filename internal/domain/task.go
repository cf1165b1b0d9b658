package domain

import (
	"math"
	"time"
)

type Task struct {
	ID           string
	ShortKey     string
	ProjectID    string
	SprintID     *string // nil means the task sits in the backlog
	ParentTaskID *string
	Title        string
	Description  string
	Status       TaskStatus
	Priority     Priority
	Label        Label
	StoryPoints  int
	AssigneeID   string
	CreatedBy    string
	DueDate      *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InBacklog reports whether the task is not assigned to any sprint.
func (t *Task) InBacklog() bool {
	return t.SprintID == nil || *t.SprintID == ""
}

// IsSubtask reports whether the task hangs under a parent.
func (t *Task) IsSubtask() bool {
	return t.ParentTaskID != nil && *t.ParentTaskID != ""
}

// SetStatus updates the status and keeps CompletedAt consistent with it:
// DONE stamps the completion time, every other status clears it.
func (t *Task) SetStatus(s TaskStatus, now time.Time) {
	t.Status = s
	if s == TaskDone {
		done := now.UTC()
		t.CompletedAt = &done
	} else {
		t.CompletedAt = nil
	}
}

// StoryPointsFromHours converts an hour estimate into story points at
// eight hours per point, rounding up.
func StoryPointsFromHours(hours float64) int {
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours / 8))
}
