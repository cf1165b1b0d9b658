package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
)

// ProjectStore is the project service behind repository.ProjectStore.
type ProjectStore struct {
	c   *Client
	now func() time.Time
}

func NewProjectStore(c *Client) *ProjectStore {
	return &ProjectStore{c: c, now: time.Now}
}

func (s *ProjectStore) CreateProject(ctx context.Context, p *domain.Project) (string, error) {
	if p.Key == "" {
		p.Key = domain.ProjectKey(p.Name)
	}
	body, err := s.c.Do(ctx, http.MethodPost, "/api/projects", projectToDTO(p, s.now()))
	if err != nil {
		return "", fmt.Errorf("creating project %q: %w", p.Name, err)
	}
	id, err := createdID(body)
	if err != nil {
		return "", fmt.Errorf("creating project %q: %w", p.Name, err)
	}
	p.ID = id
	return id, nil
}

func (s *ProjectStore) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	body, err := s.c.Do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	dto, err := decodeOne[projectDTO](body)
	if err != nil {
		return nil, err
	}
	p := dto.toDomain()
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

func (s *ProjectStore) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	body, err := s.c.Do(ctx, http.MethodGet, "/api/projects", nil)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	dtos, err := decodeList[projectDTO](body)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Project, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (s *ProjectStore) AddMember(ctx context.Context, projectID string, m domain.Member) error {
	req := addMemberRequest{UserID: m.UserID, RoleInProject: m.Role}
	if _, err := s.c.Do(ctx, http.MethodPost, "/api/projects/"+url.PathEscape(projectID)+"/members", req); err != nil {
		return fmt.Errorf("adding member %s to project %s: %w", m.UserID, projectID, err)
	}
	return nil
}

func (s *ProjectStore) ListMembers(ctx context.Context, projectID string) ([]domain.Member, error) {
	body, err := s.c.Do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/members", nil)
	if err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", projectID, err)
	}
	dtos, err := decodeList[memberDTO](body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Member, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

var _ repository.ProjectStore = (*ProjectStore)(nil)
