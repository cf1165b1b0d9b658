package intelligence

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/importer"
	"github.com/alexanderramin/taskflow/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockClient struct {
	response string
	err      error
	lastReq  llm.GenerateRequest
}

func (m *mockClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "test"}, nil
}

func (m *mockClient) Available(context.Context) bool { return m.err == nil }

var fixedNow = time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)

func testBrief() ProjectBrief {
	return ProjectBrief{
		Name:        "Shop",
		Description: "An online shop",
		StartDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC),
		Members: []domain.Member{
			{UserID: "fe", DisplayName: "Ana", Role: "Frontend Developer"},
			{UserID: "be", DisplayName: "Bo", Role: "Backend Developer"},
		},
	}
}

func newTestService(client llm.LLMClient, log *zap.Logger) *planDraftService {
	s := NewPlanDraftService(client, log).(*planDraftService)
	s.now = func() time.Time { return fixedNow }
	return s
}

const goodPlan = "```json\n" + `{
  "sprints": [
    {"name": "Sprint 1", "startDate": "2026-03-02", "endDate": "2026-03-15", "goals": ["Auth"]},
    {"name": "Sprint 2", "startDate": "2026-03-16", "endDate": "2026-03-29"}
  ],
  "tasks": [
    {"title": "Auth", "label": "STORY", "priority": "HIGHEST", "storyPoint": 2, "assigneeRole": "Backend Developer", "sprintIndex": 0, "level": "PARENT"},
    {"title": "Login form", "label": "TASK", "priority": "HIGH", "assigneeRole": "Frontend Developer", "sprintIndex": 0, "level": "SUBTASK", "parentTaskTitle": "Auth",},
    {"title": "Catalog", "label": "STORY", "estimatedHours": 20, "sprintIndex": 1, "dependencies": ["Auth"]}
  ],
  "recommendations": ["Ship auth first"]
}` + "\n```"

func TestGenerate_ParsesAndConvertsPlan(t *testing.T) {
	client := &mockClient{response: goodPlan}
	svc := newTestService(client, nil)

	res, err := svc.Generate(context.Background(), testBrief())
	require.NoError(t, err)
	assert.False(t, res.Fallback)

	assert.Equal(t, llm.TaskPlanDraft, client.lastReq.Task)
	assert.True(t, client.lastReq.JSON)
	assert.Contains(t, client.lastReq.UserPrompt, "Duration: 56 days = 4 sprints")
	assert.Contains(t, client.lastReq.UserPrompt, "Generate: 32 tasks total (8 per sprint)")
	assert.Contains(t, client.lastReq.UserPrompt, "- Ana (Frontend Developer)")

	require.Len(t, res.Draft.Sprints, 2)
	require.Len(t, res.Draft.Tasks, 3)
	assert.Equal(t, 16.0, res.Draft.Tasks[0].EstimatedHours, "story points become hours")
	assert.Equal(t, 8.0, res.Draft.Tasks[1].EstimatedHours, "missing estimate defaults to a day")
	assert.Equal(t, domain.LevelSubtask, res.Draft.Tasks[1].Level)
	assert.Equal(t, "2026-04-27", res.Draft.EstimatedCompletion)
	assert.Equal(t, []string{"Ship auth first"}, res.Draft.Recommendations)
}

func TestGenerate_InvalidBrief(t *testing.T) {
	client := &mockClient{response: goodPlan}
	svc := newTestService(client, nil)

	tests := []struct {
		name    string
		mutate  func(b *ProjectBrief)
		wantMsg string
	}{
		{"missing members", func(b *ProjectBrief) { b.Members = nil }, "are required"},
		{"start in past", func(b *ProjectBrief) { b.StartDate = fixedNow.AddDate(0, 0, -2) }, "in the past"},
		{"end before start", func(b *ProjectBrief) { b.EndDate = b.StartDate }, "at least 1 day after"},
		{"too short", func(b *ProjectBrief) { b.EndDate = b.StartDate.AddDate(0, 0, 6) }, "at least 7 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBrief()
			tt.mutate(&b)
			_, err := svc.Generate(context.Background(), b)
			require.ErrorIs(t, err, ErrInvalidBrief)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_StartTodayIsAllowed(t *testing.T) {
	b := testBrief()
	b.StartDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, b.Validate(fixedNow))
}

func TestGenerate_FallsBackOnLLMFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := newTestService(&mockClient{err: llm.ErrUnavailable}, zap.New(core))

	res, err := svc.Generate(context.Background(), testBrief())
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Cause, llm.ErrUnavailable)

	require.Len(t, res.Draft.Sprints, 4)
	assert.Equal(t, "Sprint 1", res.Draft.Sprints[0].Name)
	assert.Equal(t, "2026-03-16", res.Draft.Sprints[0].EndDate.Format(dateLayout))
	assert.Equal(t, "2026-03-16", res.Draft.Sprints[1].StartDate.Format(dateLayout))
	require.Len(t, res.Draft.Tasks, 1)
	assert.Equal(t, "Project Setup", res.Draft.Tasks[0].Title)

	assert.Equal(t, 1, logs.FilterMessage("plan generation failed, using fallback plan").Len())
}

func TestGenerate_FallsBackOnInvalidPlan(t *testing.T) {
	bad := `{"sprints": [{"name": "S1"}], "tasks": [{"title": "Orphan", "level": "SUBTASK", "parentTaskTitle": "Missing"}]}`
	svc := newTestService(&mockClient{response: bad}, nil)

	res, err := svc.Generate(context.Background(), testBrief())
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Cause, llm.ErrInvalidOutput)
}

func TestGenerate_NilClientUsesFallback(t *testing.T) {
	svc := newTestService(nil, nil)
	res, err := svc.Generate(context.Background(), testBrief())
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Cause, llm.ErrDisabled)
}

func TestGenerate_CancelledContextIsReturned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newTestService(&mockClient{err: context.Canceled}, nil)

	_, err := svc.Generate(ctx, testBrief())
	assert.ErrorIs(t, err, context.Canceled)
}

func intp(i int) *int { return &i }

func TestRedistribute(t *testing.T) {
	skewed := &importer.PlanSchema{
		Sprints: []importer.SprintImport{{Name: "A"}, {Name: "B"}},
		Tasks: []importer.TaskImport{
			{Title: "1", SprintIndex: intp(0)}, {Title: "2", SprintIndex: intp(0)},
			{Title: "3", SprintIndex: intp(0)}, {Title: "4", SprintIndex: intp(0)},
			{Title: "5", SprintIndex: intp(0)},
		},
	}
	redistribute(skewed)
	var got []int
	for _, tk := range skewed.Tasks {
		got = append(got, *tk.SprintIndex)
	}
	assert.Equal(t, []int{0, 0, 0, 1, 1}, got)

	balanced := &importer.PlanSchema{
		Sprints: []importer.SprintImport{{Name: "A"}, {Name: "B"}},
		Tasks: []importer.TaskImport{
			{Title: "1", SprintIndex: intp(1)}, {Title: "2", SprintIndex: intp(1)}, {Title: "3"},
		},
	}
	redistribute(balanced)
	assert.Equal(t, 1, *balanced.Tasks[0].SprintIndex)
	assert.Nil(t, balanced.Tasks[2].SprintIndex, "spread within two tasks is left alone")
}

func TestImproveDescription(t *testing.T) {
	client := &mockClient{response: "  Users can log in with email.\nAcceptance: ...  "}
	svc := newTestService(client, nil)

	got, err := svc.ImproveDescription(context.Background(), "Login", "login stuff")
	require.NoError(t, err)
	assert.Equal(t, "Users can log in with email.\nAcceptance: ...", got)
	assert.Equal(t, llm.TaskImproveDescription, client.lastReq.Task)
	assert.True(t, strings.Contains(client.lastReq.UserPrompt, "Current: login stuff"))
}

func TestImproveDescription_FailureKeepsCurrent(t *testing.T) {
	svc := newTestService(&mockClient{err: errors.New("boom")}, nil)
	got, err := svc.ImproveDescription(context.Background(), "Login", "login stuff")
	assert.Error(t, err)
	assert.Equal(t, "login stuff", got)

	svc = newTestService(&mockClient{response: "   "}, nil)
	got, err = svc.ImproveDescription(context.Background(), "Login", "login stuff")
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
	assert.Equal(t, "login stuff", got)
}
