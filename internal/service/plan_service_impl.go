package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/importer"
	"github.com/alexanderramin/taskflow/internal/planning"
	"github.com/alexanderramin/taskflow/internal/repository"
)

// ErrEmptyPlan is returned when there is no draft or no project to apply.
var ErrEmptyPlan = errors.New("plan has nothing to apply")

type planService struct {
	projects  repository.ProjectStore
	sprints   repository.SprintStore
	tasks     repository.TaskStore
	directory MemberDirectory
	log       *zap.Logger
	observer  UseCaseObserver
}

// NewPlanService wires plan application to the stores. directory may be nil,
// in which case member roles are used as given.
func NewPlanService(
	projects repository.ProjectStore,
	sprints repository.SprintStore,
	tasks repository.TaskStore,
	directory MemberDirectory,
	log *zap.Logger,
	observers ...UseCaseObserver,
) PlanService {
	if log == nil {
		log = zap.NewNop()
	}
	return &planService{
		projects:  projects,
		sprints:   sprints,
		tasks:     tasks,
		directory: directory,
		log:       log,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *planService) ApplyFile(ctx context.Context, path string, req ApplyRequest) (*ApplyReport, error) {
	schema, err := importer.LoadPlanSchema(path)
	if err != nil {
		return nil, fmt.Errorf("loading plan file: %w", err)
	}
	if errs := importer.ValidatePlanSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	draft, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting plan file: %w", err)
	}
	req.Draft = draft
	if len(req.Members) == 0 {
		req.Members = importer.MembersFromSchema(schema)
	}
	if p := schema.Project; p != nil {
		req.Project.Name = domain.CoalesceStr(req.Project.Name, p.Name)
		req.Project.Description = domain.CoalesceStr(req.Project.Description, p.Description)
		req.Project.ProjectType = domain.CoalesceStr(req.Project.ProjectType, p.Type)
		if req.Project.StartDate == nil {
			req.Project.StartDate = parseDate(p.StartDate)
		}
		if req.Project.Deadline == nil {
			req.Project.Deadline = parseDate(p.EndDate)
		}
	}
	return s.Apply(ctx, req)
}

// Apply creates the project, its members, sprints and tasks. Only a failed
// project create or the loss of every sprint aborts; every other failure is
// logged, recorded in the report and skipped.
func (s *planService) Apply(ctx context.Context, req ApplyRequest) (rep *ApplyReport, err error) {
	started := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "plan.apply", started, &err, fields) }()

	if req.Draft == nil || req.Project.Name == "" {
		return nil, ErrEmptyPlan
	}
	if len(req.Draft.Sprints) == 0 {
		return nil, fmt.Errorf("applying plan: %w", planning.ErrNoSprints)
	}

	draft := *req.Draft
	draft.Tasks = append([]planning.DraftTask(nil), req.Draft.Tasks...)

	project := req.Project
	project.OwnerID = domain.CoalesceStr(project.OwnerID, req.ActorID)
	project.Key = domain.CoalesceStr(project.Key, domain.ProjectKey(project.Name))
	project.Status = domain.ProjectActive
	if len(project.Recommendations) == 0 {
		project.Recommendations = draft.Recommendations
	}
	projectID, err := s.projects.CreateProject(ctx, &project)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	rep = &ApplyReport{ProjectID: projectID}
	fields["project_id"] = projectID
	log := s.log.With(zap.String("project_id", projectID))

	s.addMembers(ctx, log, projectID, project.OwnerID, req.Members, rep)

	refs := s.createSprints(ctx, log, projectID, draft.Sprints, rep)
	fields["sprints"] = len(refs)
	if len(refs) == 0 {
		return rep, fmt.Errorf("creating sprints for project %s: %w", projectID, planning.ErrNoSprints)
	}

	members := req.Members
	if s.directory != nil {
		members = s.directory.Enrich(ctx, members)
	}
	roster := planning.NewRoster(members)
	counter := planning.AssignDraft(&draft, roster)
	rep.Distribution = counter.Distribution(roster)

	parents, subtasks := planning.SplitPhases(draft.Tasks)
	ordered, orderErr := planning.OrderByDependencies(parents)
	if orderErr != nil {
		rep.DependencyNote = orderErr.Error()
		log.Warn("creating parent tasks in draft order", zap.Error(orderErr))
	}

	creator := domain.CoalesceStr(req.ActorID, project.OwnerID)
	parentIDs := make(map[string]string, len(ordered))
	for _, t := range ordered {
		id, ok := s.createTask(ctx, log, projectID, creator, "", t, refs, rep)
		if ok {
			if _, dup := parentIDs[t.Title]; !dup {
				parentIDs[t.Title] = id
			}
		}
	}
	for _, t := range subtasks {
		parentID, ok := parentIDs[t.ParentTitle]
		if !ok {
			reason := fmt.Sprintf("parent %q was not created", t.ParentTitle)
			log.Warn("skipping subtask", zap.String("title", t.Title), zap.String("reason", reason))
			rep.Skipped = append(rep.Skipped, SkippedItem{Title: t.Title, Reason: reason})
			continue
		}
		s.createTask(ctx, log, projectID, creator, parentID, t, refs, rep)
	}

	fields["created"] = len(rep.Created)
	fields["skipped"] = len(rep.Skipped)
	return rep, nil
}

func (s *planService) addMembers(ctx context.Context, log *zap.Logger, projectID, ownerID string, members []domain.Member, rep *ApplyReport) {
	add := func(m domain.Member) {
		if err := s.projects.AddMember(ctx, projectID, m); err != nil {
			log.Warn("adding member failed", zap.String("user_id", m.UserID), zap.Error(err))
			rep.FailedMembers = append(rep.FailedMembers, SkippedItem{Title: m.Name(), Reason: err.Error()})
		}
	}
	if ownerID != "" {
		add(domain.Member{UserID: ownerID, Role: string(domain.BucketProductOwner)})
	}
	for _, m := range members {
		if m.UserID == "" || m.UserID == ownerID {
			continue
		}
		add(m)
	}
}

func (s *planService) createSprints(ctx context.Context, log *zap.Logger, projectID string, drafts []planning.DraftSprint, rep *ApplyReport) []planning.SprintRef {
	refs := make([]planning.SprintRef, 0, len(drafts))
	for i, ds := range drafts {
		status := domain.SprintNotStarted
		if i == 0 {
			status = domain.SprintActive
		}
		sp := &domain.Sprint{
			ProjectID:   projectID,
			Name:        ds.Name,
			Description: ds.Description,
			Goals:       ds.Goals,
			StartDate:   ds.StartDate,
			EndDate:     ds.EndDate,
			Status:      status,
		}
		id, err := s.sprints.CreateSprint(ctx, sp)
		if err != nil {
			log.Warn("creating sprint failed", zap.String("sprint", ds.Name), zap.Error(err))
			rep.FailedSprints = append(rep.FailedSprints, SkippedItem{Title: ds.Name, Reason: err.Error()})
			continue
		}
		refs = append(refs, planning.SprintRef{ID: id, Name: ds.Name})
		rep.SprintIDs = append(rep.SprintIDs, id)
	}
	return refs
}

func (s *planService) createTask(
	ctx context.Context,
	log *zap.Logger,
	projectID, creator, parentID string,
	t planning.DraftTask,
	refs []planning.SprintRef,
	rep *ApplyReport,
) (string, bool) {
	skip := func(reason string, err error) (string, bool) {
		log.Warn("skipping task", zap.String("title", t.Title), zap.String("reason", reason), zap.Error(err))
		rep.Skipped = append(rep.Skipped, SkippedItem{Title: t.Title, Reason: reason})
		return "", false
	}

	sprintID, err := planning.ResolveSprintID(t, refs)
	if err != nil {
		return skip("no sprint to place it in", err)
	}
	task := &domain.Task{
		ProjectID:   projectID,
		SprintID:    &sprintID,
		Title:       t.Title,
		Description: t.Description,
		Status:      domain.TaskTodo,
		Priority:    t.Priority,
		Label:       t.Label,
		StoryPoints: t.StoryPoints(),
		AssigneeID:  t.AssigneeID,
		CreatedBy:   creator,
		DueDate:     t.DueDate,
	}

	var id string
	if parentID == "" {
		id, err = s.tasks.CreateTask(ctx, task)
	} else {
		id, err = s.tasks.CreateSubtask(ctx, parentID, task)
	}
	if err != nil {
		return skip("create failed: "+err.Error(), err)
	}
	rep.Created = append(rep.Created, CreatedTask{
		ID:         id,
		Title:      t.Title,
		SprintID:   sprintID,
		ParentID:   parentID,
		AssigneeID: t.AssigneeID,
	})
	return id, true
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("plan validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
