package formatter

import (
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// FormatTaskList renders tasks as a table, subtasks indented under their parent.
func FormatTaskList(tasks []domain.Task, members map[string]string, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks.")
	}
	byID := make(map[string]domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	rows := make([][]string, 0, len(tasks))
	for _, item := range TaskTree(tasks, nil) {
		t := byID[item.ID]
		title := t.Title
		if item.Level > 0 {
			title = Dim("  ↳ ") + title
		}
		assignee := Dim("--")
		if t.AssigneeID != "" {
			assignee = t.AssigneeID
			if n, ok := members[t.AssigneeID]; ok && n != "" {
				assignee = n
			}
		}
		key := t.ShortKey
		if key == "" {
			key = TruncID(t.ID)
		}
		sprint := Dim("backlog")
		if !t.InBacklog() {
			sprint = TruncID(*t.SprintID)
		}
		rows = append(rows, []string{
			key,
			title,
			TaskStatusPill(t.Status),
			PriorityBadge(t.Priority),
			Points(t.StoryPoints),
			assignee,
			sprint,
			DueStyled(t.DueDate, t.Status == domain.TaskDone, now),
		})
	}
	return RenderTable([]string{"KEY", "TITLE", "STATUS", "PRIORITY", "POINTS", "ASSIGNEE", "SPRINT", "DUE"}, rows)
}
