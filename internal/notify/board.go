package notify

import (
	"context"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// BoardNotifier adapts a FanOut to the board's notifier hook for one project.
type BoardNotifier struct {
	FanOut        *FanOut
	ScrumMasterID string
	ActorName     string
}

func (b BoardNotifier) NotifyStatusChange(ctx context.Context, task domain.Task, from, to domain.TaskStatus, actorID string) {
	b.FanOut.NotifyStatusChange(ctx, Change{
		Task:          task,
		From:          from,
		To:            to,
		ActorID:       actorID,
		ActorName:     b.ActorName,
		ScrumMasterID: b.ScrumMasterID,
	})
}
