package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

const dateLayout = "2006-01-02"

var validLevels = map[string]bool{"PARENT": true, "SUBTASK": true}

// ValidatePlanSchema checks a plan before conversion.
// Returns a slice of all validation errors found.
func ValidatePlanSchema(schema *PlanSchema) []error {
	var errs []error

	if schema.Project != nil {
		errs = append(errs, validateProject(schema.Project)...)
	}
	for i, m := range schema.Members {
		if m.UserID == "" {
			errs = append(errs, fmt.Errorf("members[%d].userId is required", i))
		}
	}
	errs = append(errs, validateSprints(schema.Sprints)...)
	errs = append(errs, validateTasks(schema.Tasks)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	errs = append(errs, validateRange("project", p.StartDate, p.EndDate)...)
	return errs
}

func validateSprints(sprints []SprintImport) []error {
	if len(sprints) == 0 {
		return []error{fmt.Errorf("sprints: at least one sprint is required")}
	}
	var errs []error
	for i, s := range sprints {
		prefix := fmt.Sprintf("sprints[%d]", i)
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		errs = append(errs, validateRange(prefix, s.StartDate, s.EndDate)...)
	}
	return errs
}

func validateTasks(tasks []TaskImport) []error {
	var errs []error

	parents := make(map[string]bool)
	for _, t := range tasks {
		if normalizeLevel(t) == domain.LevelParent && t.Title != "" {
			parents[t.Title] = true
		}
	}

	seenParent := make(map[string]bool)
	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if t.Level != "" && !validLevels[strings.ToUpper(t.Level)] {
			errs = append(errs, fmt.Errorf("%s.level: invalid value %q", prefix, t.Level))
		}
		if t.Priority != "" && !domain.ValidPriorities[strings.ToUpper(t.Priority)] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
		}
		if t.Label != "" && !domain.ValidLabels[strings.ToUpper(t.Label)] {
			errs = append(errs, fmt.Errorf("%s.label: invalid value %q", prefix, t.Label))
		}
		if t.EstimatedHours < 0 {
			errs = append(errs, fmt.Errorf("%s.estimatedHours must not be negative", prefix))
		}
		if t.StoryPoint < 0 {
			errs = append(errs, fmt.Errorf("%s.storyPoint must not be negative", prefix))
		}
		errs = append(errs, validateOptionalDate(prefix+".dueDate", t.DueDate)...)

		switch normalizeLevel(t) {
		case domain.LevelParent:
			if t.Title != "" && seenParent[t.Title] {
				errs = append(errs, fmt.Errorf("%s.title: duplicate parent title %q", prefix, t.Title))
			}
			seenParent[t.Title] = true
		case domain.LevelSubtask:
			if t.ParentTaskTitle == "" {
				errs = append(errs, fmt.Errorf("%s.parentTaskTitle is required for subtasks", prefix))
			} else if !parents[t.ParentTaskTitle] {
				errs = append(errs, fmt.Errorf("%s.parentTaskTitle: parent %q not found", prefix, t.ParentTaskTitle))
			}
		}
	}

	return errs
}

func validateRange(prefix, start, end string) []error {
	var errs []error
	errs = append(errs, validateOptionalDate(prefix+".startDate", start)...)
	errs = append(errs, validateOptionalDate(prefix+".endDate", end)...)
	if len(errs) > 0 || start == "" || end == "" {
		return errs
	}
	s, _ := time.Parse(dateLayout, start)
	e, _ := time.Parse(dateLayout, end)
	if !e.After(s) {
		errs = append(errs, fmt.Errorf("%s.endDate %q must be after startDate %q", prefix, end, start))
	}
	return errs
}

func validateOptionalDate(field, s string) []error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)}
	}
	return nil
}

// normalizeLevel decides PARENT or SUBTASK. An explicit level wins, then
// isParent, then the presence of a parent title.
func normalizeLevel(t TaskImport) domain.TaskLevel {
	switch strings.ToUpper(t.Level) {
	case "PARENT":
		return domain.LevelParent
	case "SUBTASK":
		return domain.LevelSubtask
	}
	if t.IsParent != nil {
		if *t.IsParent {
			return domain.LevelParent
		}
		if t.ParentTaskTitle != "" {
			return domain.LevelSubtask
		}
		return domain.LevelParent
	}
	if t.ParentTaskTitle != "" {
		return domain.LevelSubtask
	}
	return domain.LevelParent
}
