package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
)

// NotificationStore is the notification service. It satisfies both
// repository.NotificationStore and notify.Sender.
type NotificationStore struct {
	c *Client
}

func NewNotificationStore(c *Client) *NotificationStore { return &NotificationStore{c: c} }

func (s *NotificationStore) Send(ctx context.Context, n domain.Notification) error {
	if n.RecipientUserID == "" {
		return fmt.Errorf("sending notification: recipient is required")
	}
	if _, err := s.c.Do(ctx, http.MethodPost, "/api/notifications/create", notificationToDTO(n)); err != nil {
		return fmt.Errorf("sending notification to %s: %w", n.RecipientUserID, err)
	}
	return nil
}

func (s *NotificationStore) ListForRecipient(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	path := "/api/notifications/user/" + url.PathEscape(userID)
	if unreadOnly {
		path += "?unreadOnly=true"
	}
	body, err := s.c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing notifications for %s: %w", userID, err)
	}
	dtos, err := decodeList[notificationDTO](body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(dtos))
	for _, d := range dtos {
		n := d.toDomain()
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	if _, err := s.c.Do(ctx, http.MethodPut, "/api/notifications/"+url.PathEscape(id)+"/read", nil); err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

var _ repository.NotificationStore = (*NotificationStore)(nil)
