package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// TreeItem is one line of a parent/subtask tree.
type TreeItem struct {
	ID     string
	Title  string
	Key    string // short key such as SHOP-12; empty hides it
	Level  int
	IsLast bool
	Status domain.TaskStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree with box-drawing connectors.
// Done items get a green check, in-progress items an amber arrow, and
// detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type line struct {
		content string
		badge   string
	}
	lines := make([]line, len(items))
	widest := 0

	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.Key != "" {
			title = StyleDim.Render(item.Key+" ") + title
		}
		marker := ""
		switch item.Status {
		case domain.TaskDone:
			marker = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.TaskInProgress:
			marker = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		}

		lines[i].content = prefix + marker + title
		if item.Detail != "" {
			lines[i].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}
		widest = max(widest, lipgloss.Width(lines[i].content))
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.content)
		if l.badge != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(l.content)) + "  " + l.badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TaskTree orders tasks parents first, each followed by its subtasks.
// Subtasks whose parent is not in the list are appended at the root.
func TaskTree(tasks []domain.Task, detail func(domain.Task) string) []TreeItem {
	children := make(map[string][]domain.Task)
	present := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		present[t.ID] = true
	}
	var roots []domain.Task
	for _, t := range tasks {
		if t.IsSubtask() && present[*t.ParentTaskID] {
			children[*t.ParentTaskID] = append(children[*t.ParentTaskID], t)
			continue
		}
		roots = append(roots, t)
	}

	item := func(t domain.Task, level int, last bool) TreeItem {
		it := TreeItem{ID: t.ID, Title: t.Title, Key: t.ShortKey, Level: level, IsLast: last, Status: t.Status}
		if detail != nil {
			it.Detail = detail(t)
		}
		return it
	}
	var items []TreeItem
	for _, r := range roots {
		items = append(items, item(r, 0, false))
		kids := children[r.ID]
		for i, c := range kids {
			items = append(items, item(c, 1, i == len(kids)-1))
		}
	}
	return items
}
