package intelligence

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// ErrInvalidBrief wraps every brief validation failure.
var ErrInvalidBrief = errors.New("invalid project brief")

const (
	sprintLengthDays  = 14
	minProjectDays    = 7
	tasksPerMember    = 2
	minTasksPerSprint = 8
)

// ProjectBrief is what a user supplies to have a plan generated.
type ProjectBrief struct {
	Name        string
	Description string
	ProjectType string
	StartDate   time.Time
	EndDate     time.Time
	Members     []domain.Member
}

// Validate checks the brief against today's date (time of day is ignored).
func (b ProjectBrief) Validate(today time.Time) error {
	var errs []error
	if b.Name == "" || b.Description == "" || b.StartDate.IsZero() || b.EndDate.IsZero() || len(b.Members) == 0 {
		errs = append(errs, fmt.Errorf("name, description, start date, end date and at least one member are required"))
	}
	if len(errs) == 0 {
		y, m, d := today.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, b.StartDate.Location())
		switch {
		case b.StartDate.Before(midnight):
			errs = append(errs, fmt.Errorf("start date cannot be in the past"))
		case !b.EndDate.After(b.StartDate):
			errs = append(errs, fmt.Errorf("end date must be at least 1 day after start date"))
		case b.DurationDays() < minProjectDays:
			errs = append(errs, fmt.Errorf("project duration must be at least %d days", minProjectDays))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidBrief, errors.Join(errs...))
}

// DurationDays is the project length in whole days, rounded up.
func (b ProjectBrief) DurationDays() int {
	return int(math.Ceil(b.EndDate.Sub(b.StartDate).Hours() / 24))
}

// SprintCount assumes two-week sprints.
func (b ProjectBrief) SprintCount() int {
	return int(math.Ceil(float64(b.DurationDays()) / sprintLengthDays))
}

// TasksPerSprint asks for two tasks per member, and never fewer than eight.
func (b ProjectBrief) TasksPerSprint() int {
	return max(len(b.Members)*tasksPerMember, minTasksPerSprint)
}

func (b ProjectBrief) TotalTasks() int {
	return b.TasksPerSprint() * b.SprintCount()
}
