package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// resolveProjectID accepts a project key, a full id or an id prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if strings.EqualFold(p.Key, input) {
			return p.ID, nil
		}
	}
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTask accepts a short key such as SHOP-4, a full id or an id prefix.
func resolveTask(tasks []domain.Task, input string) (domain.Task, error) {
	for _, t := range tasks {
		if strings.EqualFold(t.ShortKey, input) || t.ID == input {
			return t, nil
		}
	}

	var matches []domain.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Task{}, fmt.Errorf("task not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return domain.Task{}, fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveSprint accepts a sprint name, a full id or an id prefix.
func resolveSprint(sprints []*domain.Sprint, input string) (*domain.Sprint, error) {
	for _, s := range sprints {
		if s.ID == input || strings.EqualFold(s.Name, input) {
			return s, nil
		}
	}

	var matches []*domain.Sprint
	for _, s := range sprints {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("sprint not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("sprint ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// projectSprint resolves a sprint within a project.
func projectSprint(ctx context.Context, app *App, projectID, input string) (*domain.Sprint, error) {
	sprints, err := app.Sprints.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return resolveSprint(sprints, input)
}

// memberNames maps user ids to display names for rendering.
func memberNames(ctx context.Context, app *App, projectID string) map[string]string {
	members, err := app.Projects.Members(ctx, projectID)
	if err != nil {
		app.logger().Debug("loading members for display failed")
		return nil
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.Name()
	}
	return names
}
