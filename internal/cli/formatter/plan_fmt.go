package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/alexanderramin/taskflow/internal/planning"
	"github.com/alexanderramin/taskflow/internal/service"
)

// PlanMarkdown renders a draft plan as markdown grouped by sprint.
func PlanMarkdown(name string, d *planning.Draft, members map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	if d.EstimatedCompletion != "" {
		fmt.Fprintf(&b, "Estimated completion: **%s**\n\n", d.EstimatedCompletion)
	}

	bySprint := make(map[int][]planning.DraftTask)
	var unplaced []planning.DraftTask
	for _, t := range d.Tasks {
		idx := sprintIndexOf(t, d.Sprints)
		if idx < 0 {
			unplaced = append(unplaced, t)
			continue
		}
		bySprint[idx] = append(bySprint[idx], t)
	}

	for i, s := range d.Sprints {
		fmt.Fprintf(&b, "## %s\n\n", s.Name)
		if s.StartDate != nil || s.EndDate != nil {
			fmt.Fprintf(&b, "_%s to %s_\n\n", DateOr(s.StartDate, "?"), DateOr(s.EndDate, "?"))
		}
		for _, g := range s.Goals {
			fmt.Fprintf(&b, "- Goal: %s\n", g)
		}
		if len(s.Goals) > 0 {
			b.WriteString("\n")
		}
		writeTaskTable(&b, bySprint[i], members)
	}
	if len(unplaced) > 0 {
		b.WriteString("## First sprint (unplaced)\n\n")
		writeTaskTable(&b, unplaced, members)
	}

	if len(d.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range d.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	return b.String()
}

func writeTaskTable(b *strings.Builder, tasks []planning.DraftTask, members map[string]string) {
	if len(tasks) == 0 {
		b.WriteString("_No tasks._\n\n")
		return
	}
	b.WriteString("| Task | Role | Assignee | Priority | Points |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, t := range tasks {
		title := t.Title
		if !t.IsParent() {
			title = "↳ " + title
		}
		assignee := "-"
		if t.AssigneeID != "" {
			assignee = t.AssigneeID
			if n, ok := members[t.AssigneeID]; ok && n != "" {
				assignee = n
			}
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %d |\n",
			escapeCell(title), escapeCell(orDash(t.AssigneeRole)), escapeCell(assignee), t.Priority, t.StoryPoints())
	}
	b.WriteString("\n")
}

// sprintIndexOf mirrors sprint resolution for display: explicit index,
// then name, otherwise unplaced.
func sprintIndexOf(t planning.DraftTask, sprints []planning.DraftSprint) int {
	if t.SprintIndex != nil && *t.SprintIndex >= 0 && *t.SprintIndex < len(sprints) {
		return *t.SprintIndex
	}
	if t.SprintName != "" {
		for i, s := range sprints {
			if s.Name == t.SprintName {
				return i
			}
		}
	}
	return -1
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderMarkdown renders markdown for the terminal. An empty style picks
// one from the terminal background; "notty" yields plain text.
func RenderMarkdown(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(max(width, 40))}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// FormatApplyReport summarises what a plan apply created and skipped.
func FormatApplyReport(r *service.ApplyReport, members map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("✔ Project created"), Dim(r.ProjectID))
	fmt.Fprintf(&b, "  Sprints: %d  Tasks: %d  Skipped: %d\n", len(r.SprintIDs), len(r.Created), len(r.Skipped))

	if len(r.Distribution) > 0 {
		b.WriteString("\n" + Header("Assignments") + "\n")
		rows := make([][]string, 0, len(r.Distribution))
		for _, d := range r.Distribution {
			rows = append(rows, []string{d.Name, StylePurple.Render(string(d.Bucket)), fmt.Sprint(d.Count)})
		}
		b.WriteString(RenderTable([]string{"MEMBER", "BUCKET", "TASKS"}, rows))
	}

	writeSkipped := func(title string, items []service.SkippedItem) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n" + Header(title) + "\n")
		for _, s := range items {
			fmt.Fprintf(&b, "  %s %s %s\n", StyleYellow.Render("!"), s.Title, Dim("("+s.Reason+")"))
		}
	}
	writeSkipped("Skipped tasks", r.Skipped)
	writeSkipped("Members not added", r.FailedMembers)
	writeSkipped("Sprints not created", r.FailedSprints)

	if r.DependencyNote != "" {
		b.WriteString("\n" + StyleYellow.Render("Note: ") + r.DependencyNote + "\n")
	}
	return b.String()
}
