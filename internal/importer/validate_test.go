package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt(i int) *int    { return &i }
func ptrBool(b bool) *bool { return &b }

func validMinimalSchema() *PlanSchema {
	return &PlanSchema{
		Sprints: []SprintImport{{Name: "Sprint 1"}},
		Tasks:   []TaskImport{{Title: "Set up repo"}},
	}
}

func TestValidatePlanSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidatePlanSchema(validMinimalSchema()))
}

func TestValidatePlanSchema_ValidFull(t *testing.T) {
	schema := &PlanSchema{
		Project: &ProjectImport{Name: "Shop", StartDate: "2026-03-02", EndDate: "2026-04-27"},
		Sprints: []SprintImport{
			{Name: "Sprint 1", StartDate: "2026-03-02", EndDate: "2026-03-15", Goal: "Foundations"},
			{Name: "Sprint 2", StartDate: "2026-03-16", EndDate: "2026-03-29"},
		},
		Tasks: []TaskImport{
			{Title: "Auth", Level: "PARENT", Priority: "high", Label: "STORY", EstimatedHours: 16, SprintIndex: ptrInt(0)},
			{Title: "Login form", Level: "SUBTASK", ParentTaskTitle: "Auth", Priority: "MEDIUM", Sprint: "Sprint 1"},
			{Title: "Catalog", IsParent: ptrBool(true), Dependencies: []string{"Auth"}, DueDate: "2026-03-29"},
			{Title: "Search", IsParent: ptrBool(false), ParentTaskTitle: "Catalog"},
		},
		Recommendations: []string{"Pair on auth"},
	}
	assert.Empty(t, ValidatePlanSchema(schema))
}

func TestValidatePlanSchema_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *PlanSchema)
		wantMsg string
	}{
		{"no sprints", func(s *PlanSchema) { s.Sprints = nil }, "sprints: at least one sprint is required"},
		{"sprint name", func(s *PlanSchema) { s.Sprints[0].Name = "" }, "sprints[0].name is required"},
		{"sprint date format", func(s *PlanSchema) { s.Sprints[0].StartDate = "03/02/2026" }, "sprints[0].startDate: invalid date format"},
		{"sprint range", func(s *PlanSchema) {
			s.Sprints[0].StartDate = "2026-03-10"
			s.Sprints[0].EndDate = "2026-03-10"
		}, "sprints[0].endDate \"2026-03-10\" must be after startDate"},
		{"task title", func(s *PlanSchema) { s.Tasks[0].Title = "" }, "tasks[0].title is required"},
		{"bad level", func(s *PlanSchema) { s.Tasks[0].Level = "EPIC" }, "tasks[0].level: invalid value"},
		{"bad priority", func(s *PlanSchema) { s.Tasks[0].Priority = "URGENT" }, "tasks[0].priority: invalid value"},
		{"bad label", func(s *PlanSchema) { s.Tasks[0].Label = "CHORE" }, "tasks[0].label: invalid value"},
		{"negative hours", func(s *PlanSchema) { s.Tasks[0].EstimatedHours = -1 }, "tasks[0].estimatedHours must not be negative"},
		{"due date", func(s *PlanSchema) { s.Tasks[0].DueDate = "soon" }, "tasks[0].dueDate: invalid date format"},
		{"project name", func(s *PlanSchema) { s.Project = &ProjectImport{} }, "project.name is required"},
		{"subtask without parent", func(s *PlanSchema) {
			s.Tasks = append(s.Tasks, TaskImport{Title: "Orphan", Level: "SUBTASK"})
		}, "tasks[1].parentTaskTitle is required for subtasks"},
		{"subtask unknown parent", func(s *PlanSchema) {
			s.Tasks = append(s.Tasks, TaskImport{Title: "Child", ParentTaskTitle: "Nope"})
		}, "tasks[1].parentTaskTitle: parent \"Nope\" not found"},
		{"duplicate parent", func(s *PlanSchema) {
			s.Tasks = append(s.Tasks, TaskImport{Title: "Set up repo"})
		}, "tasks[1].title: duplicate parent title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validMinimalSchema()
			tt.mutate(s)
			errs := ValidatePlanSchema(s)
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if strings.Contains(e.Error(), tt.wantMsg) {
					found = true
				}
			}
			assert.True(t, found, "expected error containing %q, got %v", tt.wantMsg, errs)
		})
	}
}

func TestValidatePlanSchema_SubtaskMayPrecedeParent(t *testing.T) {
	s := &PlanSchema{
		Sprints: []SprintImport{{Name: "S"}},
		Tasks: []TaskImport{
			{Title: "Child", ParentTaskTitle: "Later"},
			{Title: "Later"},
		},
	}
	assert.Empty(t, ValidatePlanSchema(s))
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, "PARENT", string(normalizeLevel(TaskImport{})))
	assert.Equal(t, "SUBTASK", string(normalizeLevel(TaskImport{Level: "subtask"})))
	assert.Equal(t, "SUBTASK", string(normalizeLevel(TaskImport{ParentTaskTitle: "P"})))
	assert.Equal(t, "PARENT", string(normalizeLevel(TaskImport{ParentTaskTitle: "P", IsParent: ptrBool(true)})))
	assert.Equal(t, "PARENT", string(normalizeLevel(TaskImport{ParentTaskTitle: "P", Level: "PARENT"})))
}
