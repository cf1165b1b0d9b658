package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/planning"
)

const hoursPerStoryPoint = 8

// Convert transforms a validated PlanSchema into a planning draft.
// Call ValidatePlanSchema first; Convert assumes the schema is valid.
func Convert(schema *PlanSchema) (*planning.Draft, error) {
	draft := &planning.Draft{
		Recommendations:     append([]string(nil), schema.Recommendations...),
		EstimatedCompletion: schema.EstimatedCompletion,
	}

	for i, s := range schema.Sprints {
		start, err := parseOptionalDate(s.StartDate)
		if err != nil {
			return nil, fmt.Errorf("sprints[%d].startDate: %w", i, err)
		}
		end, err := parseOptionalDate(s.EndDate)
		if err != nil {
			return nil, fmt.Errorf("sprints[%d].endDate: %w", i, err)
		}
		goals := append([]string(nil), s.Goals...)
		if s.Goal != "" {
			goals = append([]string{s.Goal}, goals...)
		}
		draft.Sprints = append(draft.Sprints, planning.DraftSprint{
			Name:        s.Name,
			Description: s.Description,
			Goals:       goals,
			StartDate:   start,
			EndDate:     end,
		})
	}

	for i, t := range schema.Tasks {
		due, err := parseOptionalDate(t.DueDate)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d].dueDate: %w", i, err)
		}
		hours := t.EstimatedHours
		if hours == 0 && t.StoryPoint > 0 {
			hours = float64(t.StoryPoint * hoursPerStoryPoint)
		}
		level := normalizeLevel(t)
		parent := t.ParentTaskTitle
		if level == domain.LevelParent {
			parent = ""
		}
		draft.Tasks = append(draft.Tasks, planning.DraftTask{
			Title:          t.Title,
			Description:    t.Description,
			Level:          level,
			ParentTitle:    parent,
			AssigneeRole:   t.AssigneeRole,
			AssigneeID:     t.AssigneeID,
			SprintIndex:    t.SprintIndex,
			SprintName:     t.Sprint,
			Priority:       domain.Priority(domain.CoalesceStr(strings.ToUpper(t.Priority), string(domain.PriorityMedium))),
			Label:          domain.Label(domain.CoalesceStr(strings.ToUpper(t.Label), string(domain.LabelTask))),
			EstimatedHours: hours,
			Dependencies:   append([]string(nil), t.Dependencies...),
			DueDate:        due,
		})
	}

	return draft, nil
}

// MembersFromSchema converts the plan's member block.
func MembersFromSchema(schema *PlanSchema) []domain.Member {
	out := make([]domain.Member, 0, len(schema.Members))
	for _, m := range schema.Members {
		out = append(out, domain.Member{UserID: m.UserID, DisplayName: m.Name, Email: m.Email, Role: m.Role})
	}
	return out
}

// MembersToSchema is the inverse of MembersFromSchema.
func MembersToSchema(members []domain.Member) []MemberImport {
	out := make([]MemberImport, 0, len(members))
	for _, m := range members {
		out = append(out, MemberImport{UserID: m.UserID, Name: m.DisplayName, Email: m.Email, Role: m.Role})
	}
	return out
}

// FromDraft renders a draft back into the file schema, for saving
// generated plans for review before they are applied.
func FromDraft(d *planning.Draft) *PlanSchema {
	s := &PlanSchema{
		Recommendations:     d.Recommendations,
		EstimatedCompletion: d.EstimatedCompletion,
	}
	for _, sp := range d.Sprints {
		s.Sprints = append(s.Sprints, SprintImport{
			Name:        sp.Name,
			Description: sp.Description,
			StartDate:   formatOptionalDate(sp.StartDate),
			EndDate:     formatOptionalDate(sp.EndDate),
			Goals:       sp.Goals,
		})
	}
	for _, t := range d.Tasks {
		isParent := t.IsParent()
		s.Tasks = append(s.Tasks, TaskImport{
			Title:           t.Title,
			Description:     t.Description,
			Label:           string(t.Label),
			Priority:        string(t.Priority),
			EstimatedHours:  t.EstimatedHours,
			AssigneeRole:    t.AssigneeRole,
			AssigneeID:      t.AssigneeID,
			SprintIndex:     t.SprintIndex,
			Sprint:          t.SprintName,
			Dependencies:    t.Dependencies,
			ParentTaskTitle: t.ParentTitle,
			IsParent:        &isParent,
			Level:           string(t.Level),
			DueDate:         formatOptionalDate(t.DueDate),
		})
	}
	return s
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
