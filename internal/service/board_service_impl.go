package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/notify"
	"github.com/alexanderramin/taskflow/internal/repository"
)

type boardService struct {
	projects  repository.ProjectStore
	tasks     repository.TaskStore
	fanOut    *notify.FanOut
	actorID   string
	actorName string
	log       *zap.Logger
	observer  UseCaseObserver
}

// NewBoardService builds boards that act as actorID. fanOut may be nil to
// move tasks without notifying anyone.
func NewBoardService(
	projects repository.ProjectStore,
	tasks repository.TaskStore,
	fanOut *notify.FanOut,
	actorID, actorName string,
	log *zap.Logger,
	observers ...UseCaseObserver,
) BoardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &boardService{
		projects:  projects,
		tasks:     tasks,
		fanOut:    fanOut,
		actorID:   actorID,
		actorName: actorName,
		log:       log,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Load fetches the tasks of one sprint, or of the whole project when
// sprintID is empty, and returns a board that persists moves through the
// task store and notifies through the fan-out.
func (s *boardService) Load(ctx context.Context, projectID, sprintID string) (b *board.Board, err error) {
	defer observe(ctx, s.observer, "board.load", time.Now(), &err,
		map[string]any{"project_id": projectID, "sprint_id": sprintID})

	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}

	var tasks []domain.Task
	if sprintID != "" {
		tasks, err = s.tasks.ListTasksBySprint(ctx, sprintID)
	} else {
		tasks, err = s.tasks.ListTasksByProject(ctx, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	opts := []board.Option{board.WithLogger(s.log.With(zap.String("project_id", projectID)))}
	if s.fanOut != nil {
		opts = append(opts, board.WithNotifier(notify.BoardNotifier{
			FanOut:        s.fanOut,
			ScrumMasterID: project.ScrumMasterID,
			ActorName:     s.actorName,
		}))
	}
	return board.New(tasks, s.tasks, s.actorID, opts...), nil
}
