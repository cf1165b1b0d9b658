package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/importer"
	"github.com/alexanderramin/taskflow/internal/llm"
	"github.com/alexanderramin/taskflow/internal/planning"
	"go.uber.org/zap"
)

const (
	dateLayout          = "2006-01-02"
	defaultTaskHours    = 8
	balancedSpreadLimit = 2
)

// PlanResult is a generated plan ready for review or apply.
type PlanResult struct {
	Schema *importer.PlanSchema
	Draft  *planning.Draft
	// Fallback is set when the model failed and a skeleton plan was built
	// from the brief instead.
	Fallback bool
	Cause    error
}

// PlanDraftService turns project briefs into draft plans.
type PlanDraftService interface {
	Generate(ctx context.Context, brief ProjectBrief) (*PlanResult, error)

	// ImproveDescription rewrites a task description. On failure it returns
	// the current text together with the error.
	ImproveDescription(ctx context.Context, title, current string) (string, error)
}

type planDraftService struct {
	client llm.LLMClient
	log    *zap.Logger
	now    func() time.Time
}

// NewPlanDraftService creates a PlanDraftService. A nil client always
// produces the fallback plan.
func NewPlanDraftService(client llm.LLMClient, log *zap.Logger) PlanDraftService {
	if log == nil {
		log = zap.NewNop()
	}
	return &planDraftService{client: client, log: log, now: time.Now}
}

func (s *planDraftService) Generate(ctx context.Context, brief ProjectBrief) (*PlanResult, error) {
	if err := brief.Validate(s.now()); err != nil {
		return nil, err
	}

	schema, err := s.generateSchema(ctx, brief)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn("plan generation failed, using fallback plan",
			zap.String("project", brief.Name), zap.Error(err))
		return fallbackResult(brief, err)
	}

	draft, err := importer.Convert(schema)
	if err != nil {
		return fallbackResult(brief, err)
	}
	return &PlanResult{Schema: schema, Draft: draft}, nil
}

func (s *planDraftService) generateSchema(ctx context.Context, brief ProjectBrief) (*importer.PlanSchema, error) {
	if s.client == nil {
		return nil, llm.ErrDisabled
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPlanDraft,
		SystemPrompt: planSystemPrompt,
		UserPrompt:   buildPlanPrompt(brief),
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm plan draft failed: %w", err)
	}

	schema, err := llm.ExtractJSON[importer.PlanSchema](resp.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to extract plan: %w", err)
	}
	sanitize(&schema, brief)
	redistribute(&schema)

	if errs := importer.ValidatePlanSchema(&schema); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", llm.ErrInvalidOutput, errors.Join(errs...))
	}
	return &schema, nil
}

// sanitize fills the defaults a model tends to leave out.
func sanitize(schema *importer.PlanSchema, brief ProjectBrief) {
	for i := range schema.Tasks {
		t := &schema.Tasks[i]
		if t.EstimatedHours == 0 && t.StoryPoint == 0 {
			t.EstimatedHours = defaultTaskHours
		}
	}
	if schema.EstimatedCompletion == "" {
		schema.EstimatedCompletion = brief.EndDate.Format(dateLayout)
	}
}

// redistribute spreads tasks evenly across sprints, in list order, when the
// model's own spread differs by more than two tasks between sprints.
func redistribute(schema *importer.PlanSchema) {
	n, total := len(schema.Sprints), len(schema.Tasks)
	if n == 0 || total == 0 {
		return
	}

	counts := make([]int, n)
	for _, t := range schema.Tasks {
		if t.SprintIndex != nil && *t.SprintIndex >= 0 && *t.SprintIndex < n {
			counts[*t.SprintIndex]++
		}
	}
	lo, hi := counts[0], counts[0]
	for _, c := range counts {
		lo, hi = min(lo, c), max(hi, c)
	}
	if hi-lo <= balancedSpreadLimit {
		return
	}

	per := (total + n - 1) / n
	for i := range schema.Tasks {
		idx := min(i/per, n-1)
		schema.Tasks[i].SprintIndex = &idx
	}
}

// FallbackPlan builds a skeleton plan of back-to-back two-week sprints with a
// single setup story.
func FallbackPlan(brief ProjectBrief) *importer.PlanSchema {
	schema := &importer.PlanSchema{
		Recommendations:     []string{"Start with project setup", "Focus on core features"},
		EstimatedCompletion: brief.EndDate.Format(dateLayout),
	}
	for i := 0; i < max(brief.SprintCount(), 1); i++ {
		start := brief.StartDate.AddDate(0, 0, i*sprintLengthDays)
		end := brief.StartDate.AddDate(0, 0, (i+1)*sprintLengthDays)
		schema.Sprints = append(schema.Sprints, importer.SprintImport{
			Name:        fmt.Sprintf("Sprint %d", i+1),
			Description: fmt.Sprintf("Sprint %d development phase", i+1),
			StartDate:   start.Format(dateLayout),
			EndDate:     end.Format(dateLayout),
			Goals:       []string{"Development tasks", "Testing"},
		})
	}
	first := 0
	schema.Tasks = []importer.TaskImport{{
		Title:          "Project Setup",
		Description:    "Initialize project structure",
		Label:          "STORY",
		Priority:       "HIGHEST",
		EstimatedHours: 16,
		AssigneeRole:   "Full Stack Developer",
		SprintIndex:    &first,
		Level:          "PARENT",
	}}
	return schema
}

func fallbackResult(brief ProjectBrief, cause error) (*PlanResult, error) {
	schema := FallbackPlan(brief)
	draft, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("building fallback plan: %w", err)
	}
	return &PlanResult{Schema: schema, Draft: draft, Fallback: true, Cause: cause}, nil
}

func (s *planDraftService) ImproveDescription(ctx context.Context, title, current string) (string, error) {
	if s.client == nil {
		return current, llm.ErrDisabled
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskImproveDescription,
		UserPrompt: fmt.Sprintf(improveDescriptionPrompt, title, current),
	})
	if err != nil {
		s.log.Warn("improving task description failed", zap.String("task", title), zap.Error(err))
		return current, fmt.Errorf("llm improve description failed: %w", err)
	}
	improved := strings.TrimSpace(resp.Text)
	if improved == "" {
		return current, fmt.Errorf("%w: empty description", llm.ErrInvalidOutput)
	}
	return improved, nil
}
