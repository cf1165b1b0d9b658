package remote

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

const dateLayout = "2006-01-02"

type projectDTO struct {
	ID                json.RawMessage `json:"id,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Key               string          `json:"key"`
	ProjectType       string          `json:"projectType"`
	Access            string          `json:"access,omitempty"`
	StartDate         string          `json:"startDate,omitempty"`
	Deadline          string          `json:"deadline,omitempty"`
	Status            string          `json:"status"`
	AIGenerated       bool            `json:"aiGenerated"`
	AIRecommendations string          `json:"aiRecommendations,omitempty"`
	OwnerID           string          `json:"ownerId"`
	ScrumMasterID     string          `json:"scrumMasterId,omitempty"`
	CreatedAt         string          `json:"createdAt,omitempty"`
	UpdatedAt         string          `json:"updatedAt,omitempty"`
}

func projectToDTO(p *domain.Project, now time.Time) projectDTO {
	return projectDTO{
		Name:              p.Name,
		Description:       p.Description,
		Key:               p.Key,
		ProjectType:       p.ProjectType,
		Access:            "Private",
		StartDate:         formatDate(p.StartDate),
		Deadline:          formatDate(p.Deadline),
		Status:            string(domain.ProjectActive),
		AIGenerated:       p.AIGenerated,
		AIRecommendations: strings.Join(p.Recommendations, "\n"),
		OwnerID:           p.OwnerID,
		ScrumMasterID:     p.ScrumMasterID,
		CreatedAt:         now.UTC().Format(time.RFC3339),
	}
}

func (d projectDTO) toDomain() *domain.Project {
	p := &domain.Project{
		ID:            rawID(d.ID),
		Key:           d.Key,
		Name:          d.Name,
		Description:   d.Description,
		ProjectType:   d.ProjectType,
		OwnerID:       d.OwnerID,
		ScrumMasterID: d.ScrumMasterID,
		StartDate:     parseTime(d.StartDate),
		Deadline:      parseTime(d.Deadline),
		Status:        domain.ProjectStatus(domain.CoalesceStr(d.Status, string(domain.ProjectActive))),
		AIGenerated:   d.AIGenerated,
	}
	if d.AIRecommendations != "" {
		p.Recommendations = strings.Split(d.AIRecommendations, "\n")
	}
	if t := parseTime(d.CreatedAt); t != nil {
		p.CreatedAt = *t
	}
	if t := parseTime(d.UpdatedAt); t != nil {
		p.UpdatedAt = *t
	}
	return p
}

type memberDTO struct {
	UserID        json.RawMessage `json:"userId"`
	RoleInProject string          `json:"roleInProject"`
	Username      string          `json:"username,omitempty"`
	FullName      string          `json:"fullName,omitempty"`
	Email         string          `json:"email,omitempty"`
	Avatar        string          `json:"avatar,omitempty"`
}

func (d memberDTO) toDomain() domain.Member {
	return domain.Member{
		UserID:      rawID(d.UserID),
		DisplayName: domain.CoalesceStr(d.FullName, d.Username),
		Email:       d.Email,
		Role:        d.RoleInProject,
		Avatar:      d.Avatar,
	}
}

type addMemberRequest struct {
	UserID        string `json:"userId"`
	RoleInProject string `json:"roleInProject"`
}

type userDTO struct {
	ID       json.RawMessage `json:"id"`
	Username string          `json:"username"`
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	UserRole string          `json:"userRole"`
	Avatar   string          `json:"avatar"`
}

type sprintDTO struct {
	ID          json.RawMessage `json:"id,omitempty"`
	ProjectID   string          `json:"projectId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Goals       []string        `json:"goals"`
	StartDate   string          `json:"startDate,omitempty"`
	EndDate     string          `json:"endDate,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

func sprintToDTO(s *domain.Sprint) sprintDTO {
	return sprintDTO{
		ProjectID:   s.ProjectID,
		Name:        s.Name,
		Description: s.Description,
		Goals:       append([]string{}, s.Goals...),
		StartDate:   formatDate(s.StartDate),
		EndDate:     formatDate(s.EndDate),
		Status:      string(domain.CoalesceStr(string(s.Status), string(domain.SprintNotStarted))),
	}
}

func (d sprintDTO) toDomain() *domain.Sprint {
	s := &domain.Sprint{
		ID:          rawID(d.ID),
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Description: d.Description,
		Goals:       d.Goals,
		StartDate:   parseTime(d.StartDate),
		EndDate:     parseTime(d.EndDate),
		Status:      domain.SprintStatus(domain.CoalesceStr(d.Status, string(domain.SprintNotStarted))),
	}
	if t := parseTime(d.CreatedAt); t != nil {
		s.CreatedAt = *t
	}
	if t := parseTime(d.UpdatedAt); t != nil {
		s.UpdatedAt = *t
	}
	return s
}

type taskDTO struct {
	ID           json.RawMessage `json:"id,omitempty"`
	TaskKey      string          `json:"taskKey,omitempty"`
	SprintID     *string         `json:"sprintId"`
	ProjectID    string          `json:"projectId"`
	ParentTaskID *string         `json:"parentTaskId"`
	CreatedBy    string          `json:"createdBy"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	Label        string          `json:"label"`
	Priority     string          `json:"priority"`
	StoryPoint   int             `json:"storyPoint"`
	AssigneeID   *string         `json:"assigneeId"`
	DueDate      *string         `json:"dueDate"`
	CompletedAt  *string         `json:"completedAt"`
	CreatedAt    string          `json:"createdAt,omitempty"`
	UpdatedAt    string          `json:"updatedAt,omitempty"`
}

func taskToDTO(t *domain.Task) taskDTO {
	d := taskDTO{
		SprintID:     nonEmpty(t.SprintID),
		ProjectID:    t.ProjectID,
		ParentTaskID: nonEmpty(t.ParentTaskID),
		CreatedBy:    t.CreatedBy,
		Title:        t.Title,
		Description:  t.Description,
		Status:       domain.CoalesceStr(string(t.Status), string(domain.TaskTodo)),
		Label:        domain.CoalesceStr(string(t.Label), string(domain.LabelTask)),
		Priority:     domain.CoalesceStr(string(t.Priority), string(domain.PriorityMedium)),
		StoryPoint:   t.StoryPoints,
	}
	if t.AssigneeID != "" {
		d.AssigneeID = &t.AssigneeID
	}
	if t.DueDate != nil {
		s := t.DueDate.UTC().Format(dateLayout)
		d.DueDate = &s
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.UTC().Format(time.RFC3339)
		d.CompletedAt = &s
	}
	return d
}

func (d taskDTO) toDomain() domain.Task {
	t := domain.Task{
		ID:           rawID(d.ID),
		ShortKey:     d.TaskKey,
		ProjectID:    d.ProjectID,
		SprintID:     nonEmpty(d.SprintID),
		ParentTaskID: nonEmpty(d.ParentTaskID),
		Title:        d.Title,
		Description:  d.Description,
		Status:       domain.TaskStatus(domain.CoalesceStr(d.Status, string(domain.TaskTodo))),
		Priority:     domain.Priority(domain.CoalesceStr(d.Priority, string(domain.PriorityMedium))),
		Label:        domain.Label(domain.CoalesceStr(d.Label, string(domain.LabelTask))),
		StoryPoints:  d.StoryPoint,
		CreatedBy:    d.CreatedBy,
	}
	if d.AssigneeID != nil {
		t.AssigneeID = *d.AssigneeID
	}
	if d.DueDate != nil {
		t.DueDate = parseTime(*d.DueDate)
	}
	if d.CompletedAt != nil {
		t.CompletedAt = parseTime(*d.CompletedAt)
	}
	if ts := parseTime(d.CreatedAt); ts != nil {
		t.CreatedAt = *ts
	}
	if ts := parseTime(d.UpdatedAt); ts != nil {
		t.UpdatedAt = *ts
	}
	return t
}

type notificationDTO struct {
	ID              json.RawMessage `json:"id,omitempty"`
	Type            string          `json:"type"`
	Title           string          `json:"title"`
	Message         string          `json:"message"`
	RecipientUserID string          `json:"recipientUserId"`
	ActorUserID     string          `json:"actorUserId,omitempty"`
	ProjectID       string          `json:"projectId,omitempty"`
	TaskID          string          `json:"taskId,omitempty"`
	SprintID        string          `json:"sprintId,omitempty"`
	IsRead          bool            `json:"isRead"`
	CreatedAt       string          `json:"createdAt,omitempty"`
}

func notificationToDTO(n domain.Notification) notificationDTO {
	d := notificationDTO{
		Type:            string(n.Type),
		Title:           n.Title,
		Message:         n.Message,
		RecipientUserID: n.RecipientUserID,
		ActorUserID:     n.ActorUserID,
		ProjectID:       n.ProjectID,
		TaskID:          n.TaskID,
		SprintID:        n.SprintID,
		IsRead:          n.Read,
	}
	if !n.CreatedAt.IsZero() {
		d.CreatedAt = n.CreatedAt.UTC().Format(time.RFC3339)
	}
	return d
}

func (d notificationDTO) toDomain() domain.Notification {
	n := domain.Notification{
		ID:              rawID(d.ID),
		Type:            domain.NotificationType(d.Type),
		Title:           d.Title,
		Message:         d.Message,
		RecipientUserID: d.RecipientUserID,
		ActorUserID:     d.ActorUserID,
		ProjectID:       d.ProjectID,
		TaskID:          d.TaskID,
		SprintID:        d.SprintID,
		Read:            d.IsRead,
	}
	if t := parseTime(d.CreatedAt); t != nil {
		n.CreatedAt = *t
	}
	return n
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// parseTime accepts RFC3339, a zone-less timestamp or a bare date.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
