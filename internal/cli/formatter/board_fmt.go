package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/domain"
)

const minColumnWidth = 22

// BoardOptions controls board rendering.
type BoardOptions struct {
	// Width is the total terminal width; zero renders each column at the
	// minimum width.
	Width int
	// Members maps user ids to display names.
	Members map[string]string
	// Selected highlights one card.
	Selected string
	// Pending marks cards whose move is still being saved.
	Pending map[string]bool
	Now     time.Time
}

// FormatBoard renders the four status columns side by side.
func FormatBoard(cols []board.Column, opts BoardOptions) string {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	width := minColumnWidth
	if len(cols) > 0 && opts.Width > 0 {
		width = max(opts.Width/len(cols)-2, minColumnWidth)
	}

	rendered := make([]string, 0, len(cols))
	for _, c := range cols {
		rendered = append(rendered, renderColumn(c, width, opts))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderColumn(c board.Column, width int, opts BoardOptions) string {
	style := TaskStatusStyle(c.Status)
	header := style.Bold(true).Render(fmt.Sprintf("%s (%d)", c.Status.DisplayName(), len(c.Tasks)))

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(StyleDim.Render(strings.Repeat("─", width-2)) + "\n")
	if len(c.Tasks) == 0 {
		b.WriteString(Dim("empty") + "\n")
	}
	for _, t := range c.Tasks {
		b.WriteString(renderCard(t, width-2, opts))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}

func renderCard(t domain.Task, width int, opts BoardOptions) string {
	title := Truncate(t.Title, width-2)
	if t.IsSubtask() {
		title = Dim("↳ ") + Truncate(t.Title, width-4)
	}

	marker := "  "
	switch {
	case opts.Selected == t.ID:
		marker = StyleHeader.Render("▸ ")
		title = StyleBold.Render(title)
	case opts.Pending[t.ID]:
		marker = StyleYellow.Render("… ")
	}

	assignee := Dim("unassigned")
	if t.AssigneeID != "" {
		name := t.AssigneeID
		if n, ok := opts.Members[t.AssigneeID]; ok && n != "" {
			name = n
		}
		assignee = StyleBlue.Render("@" + Truncate(name, 12))
	}
	meta := []string{assignee, PriorityBadge(t.Priority)}
	if t.DueDate != nil && t.Status != domain.TaskDone {
		meta = append(meta, DueStyled(t.DueDate, false, opts.Now))
	}

	key := ""
	if t.ShortKey != "" {
		key = Dim(t.ShortKey) + " "
	}
	return marker + key + title + "\n  " + strings.Join(meta, " ")
}
