package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_MinimalPlan(t *testing.T) {
	draft, err := Convert(validMinimalSchema())
	require.NoError(t, err)

	require.Len(t, draft.Sprints, 1)
	assert.Equal(t, "Sprint 1", draft.Sprints[0].Name)
	assert.Nil(t, draft.Sprints[0].StartDate)

	require.Len(t, draft.Tasks, 1)
	tk := draft.Tasks[0]
	assert.Equal(t, domain.LevelParent, tk.Level)
	assert.Equal(t, domain.PriorityMedium, tk.Priority)
	assert.Equal(t, domain.LabelTask, tk.Label)
	assert.Empty(t, tk.ParentTitle)
}

func TestConvert_FullPlan(t *testing.T) {
	schema := &PlanSchema{
		Sprints: []SprintImport{
			{Name: "Sprint 1", StartDate: "2026-03-02", EndDate: "2026-03-15", Goal: "Foundations", Goals: []string{"CI"}},
		},
		Tasks: []TaskImport{
			{Title: "Auth", Priority: "high", Label: "story", EstimatedHours: 12, SprintIndex: ptrInt(0), AssigneeRole: "Backend Developer"},
			{Title: "Login form", ParentTaskTitle: "Auth", Sprint: "Sprint 1", DueDate: "2026-03-10", Dependencies: []string{"Auth"}},
			{Title: "Catalog", IsParent: ptrBool(true), ParentTaskTitle: "ignored"},
		},
		Recommendations:     []string{"Start with auth"},
		EstimatedCompletion: "2026-04-27",
	}
	require.Empty(t, ValidatePlanSchema(schema))

	draft, err := Convert(schema)
	require.NoError(t, err)

	sp := draft.Sprints[0]
	require.NotNil(t, sp.StartDate)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), *sp.StartDate)
	assert.Equal(t, []string{"Foundations", "CI"}, sp.Goals)

	auth := draft.Tasks[0]
	assert.Equal(t, domain.PriorityHigh, auth.Priority)
	assert.Equal(t, domain.LabelStory, auth.Label)
	assert.Equal(t, 2, auth.StoryPoints())
	require.NotNil(t, auth.SprintIndex)
	assert.Equal(t, 0, *auth.SprintIndex)

	login := draft.Tasks[1]
	assert.Equal(t, domain.LevelSubtask, login.Level)
	assert.Equal(t, "Auth", login.ParentTitle)
	assert.Equal(t, "Sprint 1", login.SprintName)
	require.NotNil(t, login.DueDate)

	catalog := draft.Tasks[2]
	assert.Equal(t, domain.LevelParent, catalog.Level)
	assert.Empty(t, catalog.ParentTitle, "parents never carry a parent title")

	assert.Equal(t, []string{"Start with auth"}, draft.Recommendations)
	assert.Equal(t, "2026-04-27", draft.EstimatedCompletion)
}

func TestConvert_StoryPointBecomesHours(t *testing.T) {
	s := validMinimalSchema()
	s.Tasks[0].StoryPoint = 3
	draft, err := Convert(s)
	require.NoError(t, err)
	assert.Equal(t, 24.0, draft.Tasks[0].EstimatedHours)
	assert.Equal(t, 3, draft.Tasks[0].StoryPoints())

	s.Tasks[0].EstimatedHours = 4
	draft, err = Convert(s)
	require.NoError(t, err)
	assert.Equal(t, 4.0, draft.Tasks[0].EstimatedHours, "explicit hours win")
}

func TestConvert_InvalidDateFails(t *testing.T) {
	s := validMinimalSchema()
	s.Sprints[0].EndDate = "nope"
	_, err := Convert(s)
	assert.Error(t, err)
}

func TestFromDraft_RoundTripsThroughConvert(t *testing.T) {
	schema := &PlanSchema{
		Sprints: []SprintImport{{Name: "Sprint 1", StartDate: "2026-03-02", EndDate: "2026-03-15"}},
		Tasks: []TaskImport{
			{Title: "Auth", Priority: "HIGH"},
			{Title: "Login", ParentTaskTitle: "Auth"},
		},
	}
	draft, err := Convert(schema)
	require.NoError(t, err)

	back := FromDraft(draft)
	require.Empty(t, ValidatePlanSchema(back))
	again, err := Convert(back)
	require.NoError(t, err)
	assert.Equal(t, draft, again)
}

func TestLoadPlanSchema_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
  "sprints": [{"name": "Sprint 1", "startDate": "2026-03-02", "endDate": "2026-03-15"}],
  "tasks": [{"title": "Auth", "assigneeRole": "Backend Developer", "sprintIndex": 0, "estimatedHours": 8}],
  "recommendations": ["Keep sprints short"]
}`), 0o644))

	yamlPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
sprints:
  - name: Sprint 1
    startDate: "2026-03-02"
    endDate: "2026-03-15"
tasks:
  - title: Auth
    assigneeRole: Backend Developer
    sprintIndex: 0
    estimatedHours: 8
recommendations:
  - Keep sprints short
`), 0o644))

	fromJSON, err := LoadPlanSchema(jsonPath)
	require.NoError(t, err)
	fromYAML, err := LoadPlanSchema(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	require.Len(t, fromJSON.Tasks, 1)
	assert.Equal(t, "Backend Developer", fromJSON.Tasks[0].AssigneeRole)
}

func TestLoadPlanSchema_Errors(t *testing.T) {
	_, err := LoadPlanSchema(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadPlanSchema(bad)
	assert.ErrorContains(t, err, "parsing plan file")
}

func TestSavePlanSchema_RoundTrip(t *testing.T) {
	schema := &PlanSchema{
		Project: &ProjectImport{Name: "Shop"},
		Members: []MemberImport{{UserID: "u1", Name: "Ana", Role: "Backend Developer"}},
		Sprints: []SprintImport{{Name: "Sprint 1", StartDate: "2026-03-02", EndDate: "2026-03-15"}},
		Tasks:   []TaskImport{{Title: "Auth", SprintIndex: ptrInt(0)}},
	}
	for _, name := range []string{"plan.yaml", "nested/plan.json"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, SavePlanSchema(path, schema))
		back, err := LoadPlanSchema(path)
		require.NoError(t, err)
		assert.Equal(t, schema, back, name)
	}

	members := MembersFromSchema(schema)
	require.Len(t, members, 1)
	assert.Equal(t, "Backend Developer", members[0].Role)
	assert.Equal(t, schema.Members, MembersToSchema(members))
}

func TestValidatePlanSchema_MemberNeedsID(t *testing.T) {
	s := validMinimalSchema()
	s.Members = []MemberImport{{Name: "Nobody"}}
	errs := ValidatePlanSchema(s)
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "members[0].userId is required")
}
