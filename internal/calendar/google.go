package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/logging"
)

// SprintIDProperty is the private extended property that links a calendar
// event back to the sprint it mirrors.
const SprintIDProperty = "taskflow_sprint_id"

const dateLayout = "2006-01-02"

// PublishResult counts what Publish did per sprint.
type PublishResult struct {
	Inserted  int
	Updated   int
	Unchanged int
	Skipped   int
}

// GooglePublisher mirrors sprints into a Google calendar as all-day events.
type GooglePublisher struct {
	srv        *gcal.Service
	calendarID string
	log        *zap.Logger
}

func NewGooglePublisher(srv *gcal.Service, calendarID string, log *zap.Logger) *GooglePublisher {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GooglePublisher{srv: srv, calendarID: calendarID, log: logging.OrNop(log)}
}

// Publish upserts one event per dated sprint. Sprints without both dates are
// skipped. A failure on one sprint does not stop the others; all failures are
// returned joined.
func (p *GooglePublisher) Publish(ctx context.Context, sprints []domain.Sprint) (PublishResult, error) {
	var (
		res  PublishResult
		errs []error
	)
	for _, s := range sprints {
		if s.StartDate == nil || s.EndDate == nil {
			res.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		outcome, err := p.upsert(ctx, s)
		if err != nil {
			errs = append(errs, fmt.Errorf("sprint %s: %w", s.ID, err))
			continue
		}
		switch outcome {
		case outcomeInserted:
			res.Inserted++
		case outcomeUpdated:
			res.Updated++
		default:
			res.Unchanged++
		}
	}
	return res, errors.Join(errs...)
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeInserted
	outcomeUpdated
)

func (p *GooglePublisher) upsert(ctx context.Context, s domain.Sprint) (outcome, error) {
	want := SprintEvent(s)

	existing, err := p.find(ctx, s.ID)
	if err != nil {
		return outcomeUnchanged, fmt.Errorf("looking up event: %w", err)
	}
	if existing == nil {
		created, err := p.srv.Events.Insert(p.calendarID, want).Context(ctx).Do()
		if err != nil {
			return outcomeUnchanged, fmt.Errorf("inserting event: %w", err)
		}
		p.log.Debug("calendar event inserted", zap.String("sprint_id", s.ID), zap.String("event_id", created.Id))
		return outcomeInserted, nil
	}

	patch := eventPatch(existing, want)
	if patch == nil {
		return outcomeUnchanged, nil
	}
	if _, err := p.srv.Events.Patch(p.calendarID, existing.Id, patch).Context(ctx).Do(); err != nil {
		return outcomeUnchanged, fmt.Errorf("patching event %s: %w", existing.Id, err)
	}
	p.log.Debug("calendar event patched", zap.String("sprint_id", s.ID), zap.String("event_id", existing.Id))
	return outcomeUpdated, nil
}

func (p *GooglePublisher) find(ctx context.Context, sprintID string) (*gcal.Event, error) {
	events, err := p.srv.Events.List(p.calendarID).
		PrivateExtendedProperty(SprintIDProperty + "=" + sprintID).
		ShowDeleted(false).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) == 0 {
		return nil, nil
	}
	return events.Items[0], nil
}

// SprintEvent renders a dated sprint as an all-day event. The end date is
// exclusive, so the event covers the sprint's last day.
func SprintEvent(s domain.Sprint) *gcal.Event {
	ev := &gcal.Event{
		Summary:     s.Name,
		Description: sprintDescription(s),
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{SprintIDProperty: s.ID},
		},
	}
	if s.StartDate != nil {
		ev.Start = &gcal.EventDateTime{Date: dayOf(*s.StartDate).Format(dateLayout)}
	}
	if s.EndDate != nil {
		ev.End = &gcal.EventDateTime{Date: dayOf(*s.EndDate).AddDate(0, 0, 1).Format(dateLayout)}
	}
	return ev
}

func sprintDescription(s domain.Sprint) string {
	var b strings.Builder
	if s.Description != "" {
		b.WriteString(s.Description)
	}
	if len(s.Goals) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Goals:")
		for _, g := range s.Goals {
			b.WriteString("\n- ")
			b.WriteString(g)
		}
	}
	if s.Status != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Status: ")
		b.WriteString(string(s.Status))
	}
	return b.String()
}

// eventPatch returns the fields of want that differ from have, or nil when
// the event is already current.
func eventPatch(have, want *gcal.Event) *gcal.Event {
	patch := &gcal.Event{}
	changed := false
	if have.Summary != want.Summary {
		patch.Summary = want.Summary
		changed = true
	}
	if have.Description != want.Description {
		patch.Description = want.Description
		patch.ForceSendFields = append(patch.ForceSendFields, "Description")
		changed = true
	}
	if eventDate(have.Start) != eventDate(want.Start) {
		patch.Start = want.Start
		changed = true
	}
	if eventDate(have.End) != eventDate(want.End) {
		patch.End = want.End
		changed = true
	}
	if !changed {
		return nil
	}
	return patch
}

func eventDate(d *gcal.EventDateTime) string {
	if d == nil {
		return ""
	}
	return d.Date
}
