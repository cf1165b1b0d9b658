package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
)

var (
	// ErrSprintState is returned for a start or complete the sprint's
	// current status does not allow.
	ErrSprintState = errors.New("sprint is not in a state that allows this")
	// ErrMigrationTarget is returned when a task would move to a sprint that
	// cannot take it.
	ErrMigrationTarget = errors.New("invalid migration target")
)

type sprintService struct {
	sprints  repository.SprintStore
	tx       StoreTx
	log      *zap.Logger
	observer UseCaseObserver
	now      func() time.Time
}

func NewSprintService(sprints repository.SprintStore, tx StoreTx, log *zap.Logger, observers ...UseCaseObserver) SprintService {
	if log == nil {
		log = zap.NewNop()
	}
	return &sprintService{
		sprints:  sprints,
		tx:       tx,
		log:      log,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *sprintService) List(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	return s.sprints.ListSprints(ctx, projectID)
}

// Start activates a sprint that has not started yet.
func (s *sprintService) Start(ctx context.Context, sprintID string) (err error) {
	defer observe(ctx, s.observer, "sprint.start", time.Now(), &err, map[string]any{"sprint_id": sprintID})

	sp, err := s.sprints.GetSprint(ctx, sprintID)
	if err != nil {
		return err
	}
	if sp.Status != domain.SprintNotStarted {
		return fmt.Errorf("starting sprint %q (%s): %w", sp.Name, sp.Status, ErrSprintState)
	}
	return s.sprints.UpdateSprintStatus(ctx, sprintID, domain.SprintActive)
}

// Complete closes an active sprint. Each unfinished task goes where plan
// says: to the backlog, to another open sprint of the same project, or
// nowhere. All writes run in one transaction on backends that have them.
func (s *sprintService) Complete(ctx context.Context, sprintID string, plan MigrationPlan) (res *CompleteResult, err error) {
	fields := map[string]any{"sprint_id": sprintID}
	defer observe(ctx, s.observer, "sprint.complete", time.Now(), &err, fields)

	err = s.tx.WithinTx(ctx, func(ctx context.Context, sprints repository.SprintStore, tasks repository.TaskStore) error {
		sp, err := sprints.GetSprint(ctx, sprintID)
		if err != nil {
			return err
		}
		if sp.Status != domain.SprintActive {
			return fmt.Errorf("completing sprint %q (%s): %w", sp.Name, sp.Status, ErrSprintState)
		}

		list, err := tasks.ListTasksBySprint(ctx, sprintID)
		if err != nil {
			return err
		}

		targets := make(map[string]bool)
		r := &CompleteResult{Sprint: sp}
		for _, t := range list {
			if t.Status == domain.TaskDone {
				r.DoneCount++
				continue
			}
			r.Unfinished++

			target := plan.Default
			if override, ok := plan.Tasks[t.ID]; ok {
				target = override
			}
			switch {
			case target.ToBacklog:
				if err := tasks.MoveTaskToSprint(ctx, t.ID, nil); err != nil {
					return fmt.Errorf("moving task %s to backlog: %w", t.ID, err)
				}
				r.ToBacklog = append(r.ToBacklog, t.ID)
			case target.SprintID != "" && target.SprintID != sprintID:
				if err := checkTarget(ctx, sprints, sp.ProjectID, target.SprintID, targets); err != nil {
					return err
				}
				dest := target.SprintID
				if err := tasks.MoveTaskToSprint(ctx, t.ID, &dest); err != nil {
					return fmt.Errorf("moving task %s to sprint %s: %w", t.ID, dest, err)
				}
				r.Moved = append(r.Moved, t.ID)
			default:
				r.Stayed = append(r.Stayed, t.ID)
			}
		}

		if err := sprints.UpdateSprintStatus(ctx, sprintID, domain.SprintCompleted); err != nil {
			return fmt.Errorf("completing sprint: %w", err)
		}
		sp.Status = domain.SprintCompleted
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["unfinished"] = res.Unfinished
	s.log.Info("sprint completed",
		zap.String("sprint_id", sprintID),
		zap.Int("done", res.DoneCount),
		zap.Int("to_backlog", len(res.ToBacklog)),
		zap.Int("moved", len(res.Moved)))
	return res, nil
}

// checkTarget verifies a destination sprint once per call.
func checkTarget(ctx context.Context, sprints repository.SprintStore, projectID, id string, checked map[string]bool) error {
	if checked[id] {
		return nil
	}
	dest, err := sprints.GetSprint(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: sprint %s: %w", ErrMigrationTarget, id, err)
	}
	if dest.ProjectID != projectID {
		return fmt.Errorf("%w: sprint %q belongs to another project", ErrMigrationTarget, dest.Name)
	}
	if !dest.Status.AcceptsTasks() {
		return fmt.Errorf("%w: sprint %q is %s", ErrMigrationTarget, dest.Name, dest.Status)
	}
	checked[id] = true
	return nil
}
