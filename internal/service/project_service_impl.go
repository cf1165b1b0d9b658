package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
)

type projectService struct {
	projects  repository.ProjectStore
	directory MemberDirectory
	observer  UseCaseObserver
}

func NewProjectService(projects repository.ProjectStore, directory MemberDirectory, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		projects:  projects,
		directory: directory,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "project.create", time.Now(), &err, map[string]any{"name": p.Name})

	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	if _, err = s.projects.CreateProject(ctx, p); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	if p.OwnerID != "" {
		owner := domain.Member{UserID: p.OwnerID, Role: string(domain.BucketProductOwner)}
		if err = s.projects.AddMember(ctx, p.ID, owner); err != nil {
			return fmt.Errorf("adding owner: %w", err)
		}
	}
	return nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetProject(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.ListProjects(ctx)
}

func (s *projectService) AddMember(ctx context.Context, projectID string, m domain.Member) (err error) {
	defer observe(ctx, s.observer, "project.add_member", time.Now(), &err, map[string]any{"project_id": projectID})

	if m.UserID == "" {
		return fmt.Errorf("member user id is required")
	}
	return s.projects.AddMember(ctx, projectID, m)
}

// Members lists the project team with account roles filled in when a
// directory is configured.
func (s *projectService) Members(ctx context.Context, projectID string) ([]domain.Member, error) {
	members, err := s.projects.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if s.directory != nil {
		members = s.directory.Enrich(ctx, members)
	}
	return members, nil
}
