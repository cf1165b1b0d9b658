package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
)

// SprintStore is the sprint service behind repository.SprintStore.
type SprintStore struct {
	c *Client
}

func NewSprintStore(c *Client) *SprintStore { return &SprintStore{c: c} }

func (s *SprintStore) CreateSprint(ctx context.Context, sp *domain.Sprint) (string, error) {
	body, err := s.c.Do(ctx, http.MethodPost, "/api/sprints", sprintToDTO(sp))
	if err != nil {
		return "", fmt.Errorf("creating sprint %q: %w", sp.Name, err)
	}
	id, err := createdID(body)
	if err != nil {
		return "", fmt.Errorf("creating sprint %q: %w", sp.Name, err)
	}
	sp.ID = id
	return id, nil
}

func (s *SprintStore) GetSprint(ctx context.Context, id string) (*domain.Sprint, error) {
	body, err := s.c.Do(ctx, http.MethodGet, "/api/sprints/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting sprint %s: %w", id, err)
	}
	dto, err := decodeOne[sprintDTO](body)
	if err != nil {
		return nil, err
	}
	sp := dto.toDomain()
	if sp.ID == "" {
		sp.ID = id
	}
	return sp, nil
}

func (s *SprintStore) ListSprints(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	body, err := s.c.Do(ctx, http.MethodGet, "/api/sprints/project/"+url.PathEscape(projectID), nil)
	if err != nil {
		return nil, fmt.Errorf("listing sprints of %s: %w", projectID, err)
	}
	dtos, err := decodeList[sprintDTO](body)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Sprint, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// UpdateSprintStatus fetches the sprint and writes it back with the new
// status, since the service only accepts full updates.
func (s *SprintStore) UpdateSprintStatus(ctx context.Context, id string, status domain.SprintStatus) error {
	sp, err := s.GetSprint(ctx, id)
	if err != nil {
		return err
	}
	sp.Status = status
	if _, err := s.c.Do(ctx, http.MethodPut, "/api/sprints/"+url.PathEscape(id), sprintToDTO(sp)); err != nil {
		return fmt.Errorf("updating sprint %s: %w", id, err)
	}
	return nil
}

var _ repository.SprintStore = (*SprintStore)(nil)
