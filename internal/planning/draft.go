package planning

import (
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// Draft is a proposed plan awaiting post-processing and creation.
type Draft struct {
	Sprints             []DraftSprint
	Tasks               []DraftTask
	Recommendations     []string
	EstimatedCompletion string
}

type DraftSprint struct {
	Name        string
	Description string
	Goals       []string
	StartDate   *time.Time
	EndDate     *time.Time
}

type DraftTask struct {
	Title          string
	Description    string
	Level          domain.TaskLevel
	ParentTitle    string
	AssigneeRole   string
	AssigneeID     string
	SprintIndex    *int
	SprintName     string
	Priority       domain.Priority
	Label          domain.Label
	EstimatedHours float64
	Dependencies   []string
	DueDate        *time.Time
}

// IsParent reports whether the task is created in the first phase.
func (t DraftTask) IsParent() bool {
	return t.Level != domain.LevelSubtask
}

// StoryPoints converts the hour estimate into story points.
func (t DraftTask) StoryPoints() int {
	return domain.StoryPointsFromHours(t.EstimatedHours)
}

// AssignDraft resolves an assignee for every draft task in one sequential
// pass. A task that already names a roster member keeps it and counts toward
// that member's load. Tasks stay unassigned only when the roster is empty.
func AssignDraft(d *Draft, r *Roster) *AssignmentCounter {
	c := NewAssignmentCounter(r)
	for i := range d.Tasks {
		t := &d.Tasks[i]
		if t.AssigneeID != "" {
			if _, ok := r.Lookup(t.AssigneeID); ok {
				c.Increment(t.AssigneeID)
				continue
			}
			t.AssigneeID = ""
		}
		if m, ok := Select(t.AssigneeRole, r, c); ok {
			t.AssigneeID = m.UserID
		}
	}
	return c
}

// SplitPhases separates parents from subtasks, preserving draft order in each.
func SplitPhases(tasks []DraftTask) (parents, subtasks []DraftTask) {
	for _, t := range tasks {
		if t.IsParent() {
			parents = append(parents, t)
		} else {
			subtasks = append(subtasks, t)
		}
	}
	return parents, subtasks
}
