package planning

import (
	"errors"
	"strings"
)

// ErrNoSprints is returned when a task has no sprint to land in.
var ErrNoSprints = errors.New("no sprints available")

// SprintRef is the minimal sprint view needed for mapping.
type SprintRef struct {
	ID   string
	Name string
}

// ResolveSprintID picks the sprint a draft task belongs to: a valid
// SprintIndex first, then an exact name match, then a substring match in
// either direction, then the first sprint. It only fails on an empty list.
func ResolveSprintID(t DraftTask, sprints []SprintRef) (string, error) {
	if len(sprints) == 0 {
		return "", ErrNoSprints
	}
	if t.SprintIndex != nil {
		if i := *t.SprintIndex; i >= 0 && i < len(sprints) {
			return sprints[i].ID, nil
		}
	}
	if t.SprintName != "" {
		for _, s := range sprints {
			if s.Name == t.SprintName {
				return s.ID, nil
			}
		}
		for _, s := range sprints {
			if s.Name == "" {
				continue
			}
			if strings.Contains(s.Name, t.SprintName) || strings.Contains(t.SprintName, s.Name) {
				return s.ID, nil
			}
		}
	}
	return sprints[0].ID, nil
}
