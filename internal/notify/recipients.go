package notify

import (
	"strings"

	"github.com/alexanderramin/taskflow/internal/domain"
)

type Role string

const (
	RoleAssignee    Role = "Assignee"
	RoleCreator     Role = "Creator"
	RoleScrumMaster Role = "Scrum Master"
)

// Recipient is one user to notify and every role they hold on the task.
type Recipient struct {
	UserID string
	Roles  []Role
}

// Recipients collects the assignee, creator and scrum master of a task,
// merging roles held by the same user. The actor and empty ids are never
// included. Order follows first appearance.
func Recipients(task domain.Task, actorID, scrumMasterID string) []Recipient {
	var out []Recipient
	pos := make(map[string]int, 3)

	add := func(id string, r Role) {
		if id == "" || id == actorID {
			return
		}
		if i, ok := pos[id]; ok {
			out[i].Roles = append(out[i].Roles, r)
			return
		}
		pos[id] = len(out)
		out = append(out, Recipient{UserID: id, Roles: []Role{r}})
	}

	add(task.AssigneeID, RoleAssignee)
	add(task.CreatedBy, RoleCreator)
	add(scrumMasterID, RoleScrumMaster)
	return out
}

// JoinRoles renders roles as "A", "A and B" or "A, B and C".
func JoinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
