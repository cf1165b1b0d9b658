package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// Sender delivers a single notification.
type Sender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// Failure is one recipient that could not be notified.
type Failure struct {
	RecipientID string
	Err         error
}

// Report accounts for a fan-out. Failures never fail the triggering operation.
type Report struct {
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Change describes a committed task status transition.
type Change struct {
	Task          domain.Task
	From          domain.TaskStatus
	To            domain.TaskStatus
	ActorID       string
	ActorName     string
	ScrumMasterID string
}

// FanOut dispatches one notification per recipient concurrently. Each
// dispatch settles independently.
type FanOut struct {
	sender      Sender
	log         *zap.Logger
	concurrency int
}

func NewFanOut(sender Sender, log *zap.Logger) *FanOut {
	if log == nil {
		log = zap.NewNop()
	}
	return &FanOut{sender: sender, log: log, concurrency: defaultConcurrency}
}

// StatusChangeMessage renders the message a recipient receives.
func StatusChangeMessage(c Change, roles []Role) string {
	actor := domain.CoalesceStr(c.ActorName, c.ActorID, "Someone")
	msg := fmt.Sprintf("%s changed task %q status from %q to %q",
		actor, c.Task.Title, c.From.DisplayName(), c.To.DisplayName())
	if len(roles) > 0 {
		msg += ". You are the " + JoinRoles(roles) + "."
	}
	return msg
}

// NotifyStatusChange notifies everyone interested in the task except the actor.
func (f *FanOut) NotifyStatusChange(ctx context.Context, c Change) Report {
	var batch []domain.Notification
	for _, r := range Recipients(c.Task, c.ActorID, c.ScrumMasterID) {
		batch = append(batch, domain.Notification{
			Type:            domain.NotifyStatusChanged,
			Title:           "Task status changed",
			Message:         StatusChangeMessage(c, r.Roles),
			RecipientUserID: r.UserID,
			ActorUserID:     c.ActorID,
			ProjectID:       c.Task.ProjectID,
			TaskID:          c.Task.ID,
			SprintID:        derefString(c.Task.SprintID),
		})
	}
	rep := f.dispatch(ctx, batch)
	f.log.Info("status change notifications dispatched",
		zap.String("task_id", c.Task.ID),
		zap.String("from", string(c.From)),
		zap.String("to", string(c.To)),
		zap.Int("succeeded", rep.Succeeded),
		zap.Int("failed", rep.Failed))
	return rep
}

// IsOverdue reports whether the task's due date has fully passed (end of
// the due day in the due date's location) and it is not done.
func IsOverdue(t domain.Task, now time.Time) bool {
	if t.DueDate == nil || t.Status == domain.TaskDone {
		return false
	}
	y, m, d := t.DueDate.Date()
	end := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.DueDate.Location())
	return now.After(end)
}

// NotifyOverdue sends an overdue notice to the assignee of every overdue task.
func (f *FanOut) NotifyOverdue(ctx context.Context, tasks []domain.Task, now time.Time) Report {
	var batch []domain.Notification
	for _, t := range tasks {
		if !IsOverdue(t, now) || t.AssigneeID == "" {
			continue
		}
		batch = append(batch, domain.Notification{
			Type:            domain.NotifyOverdue,
			Title:           "Task overdue",
			Message:         fmt.Sprintf("Task %q was due on %s and is not done yet", t.Title, t.DueDate.Format("2006-01-02")),
			RecipientUserID: t.AssigneeID,
			ProjectID:       t.ProjectID,
			TaskID:          t.ID,
			SprintID:        derefString(t.SprintID),
		})
	}
	return f.dispatch(ctx, batch)
}

// NotifyAssigned tells the new assignee about the task, unless they assigned
// it to themselves.
func (f *FanOut) NotifyAssigned(ctx context.Context, t domain.Task, actorID, actorName string) Report {
	if t.AssigneeID == "" || t.AssigneeID == actorID {
		return Report{}
	}
	return f.dispatch(ctx, []domain.Notification{{
		Type:            domain.NotifyAssigned,
		Title:           "Task assigned",
		Message:         fmt.Sprintf("%s assigned you task %q", domain.CoalesceStr(actorName, actorID, "Someone"), t.Title),
		RecipientUserID: t.AssigneeID,
		ActorUserID:     actorID,
		ProjectID:       t.ProjectID,
		TaskID:          t.ID,
		SprintID:        derefString(t.SprintID),
	}})
}

// NotifyDeleted tells the assignee that a task was removed, unless they removed it.
func (f *FanOut) NotifyDeleted(ctx context.Context, t domain.Task, actorID, actorName string) Report {
	if t.AssigneeID == "" || t.AssigneeID == actorID {
		return Report{}
	}
	return f.dispatch(ctx, []domain.Notification{{
		Type:            domain.NotifyDeleted,
		Title:           "Task deleted",
		Message:         fmt.Sprintf("%s deleted task %q", domain.CoalesceStr(actorName, actorID, "Someone"), t.Title),
		RecipientUserID: t.AssigneeID,
		ActorUserID:     actorID,
		ProjectID:       t.ProjectID,
		TaskID:          t.ID,
	}})
}

func (f *FanOut) dispatch(ctx context.Context, batch []domain.Notification) Report {
	var (
		mu  sync.Mutex
		rep Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for _, n := range batch {
		g.Go(func() error {
			err := f.sender.Send(gctx, n)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.Failed++
				rep.Failures = append(rep.Failures, Failure{RecipientID: n.RecipientUserID, Err: err})
				f.log.Warn("notification failed",
					zap.String("type", string(n.Type)),
					zap.String("recipient", n.RecipientUserID),
					zap.String("task_id", n.TaskID),
					zap.Error(err))
				return nil
			}
			rep.Succeeded++
			return nil
		})
	}
	_ = g.Wait()
	return rep
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
