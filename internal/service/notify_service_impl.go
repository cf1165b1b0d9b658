package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/notify"
	"github.com/alexanderramin/taskflow/internal/repository"
)

type notifyService struct {
	tasks    repository.TaskStore
	inbox    repository.NotificationStore
	fanOut   *notify.FanOut
	observer UseCaseObserver
	now      func() time.Time
}

// NewNotifyService sends through fanOut and reads from inbox. The local
// backend passes the same SQLite store as the fan-out's sender.
func NewNotifyService(tasks repository.TaskStore, inbox repository.NotificationStore, fanOut *notify.FanOut, observers ...UseCaseObserver) NotifyService {
	return &notifyService{
		tasks:    tasks,
		inbox:    inbox,
		fanOut:   fanOut,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *notifyService) NotifyOverdue(ctx context.Context, projectID string) (rep notify.Report, err error) {
	fields := map[string]any{"project_id": projectID}
	defer observe(ctx, s.observer, "notify.overdue", time.Now(), &err, fields)

	tasks, err := s.tasks.ListTasksByProject(ctx, projectID)
	if err != nil {
		return notify.Report{}, fmt.Errorf("listing tasks: %w", err)
	}
	rep = s.fanOut.NotifyOverdue(ctx, tasks, s.now())
	fields["sent"] = rep.Succeeded
	fields["failed"] = rep.Failed
	return rep, nil
}

func (s *notifyService) Inbox(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	return s.inbox.ListForRecipient(ctx, userID, unreadOnly)
}
