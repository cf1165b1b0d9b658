package domain

import "time"

type Sprint struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	Goals       []string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      SprintStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Notification is one message addressed to one recipient.
type Notification struct {
	ID              string
	Type            NotificationType
	Title           string
	Message         string
	RecipientUserID string
	ActorUserID     string
	ProjectID       string
	TaskID          string
	SprintID        string
	Read            bool
	CreatedAt       time.Time
}
