package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/service"
)

// SprintRow is one sprint with its task counts.
type SprintRow struct {
	Sprint *domain.Sprint
	Done   int
	Total  int
}

// FormatSprintList renders sprints with a progress bar each.
func FormatSprintList(rows []SprintRow) string {
	if len(rows) == 0 {
		return Dim("No sprints.")
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			TruncID(r.Sprint.ID),
			Bold(r.Sprint.Name),
			SprintStatusPill(r.Sprint.Status),
			DateRange(r.Sprint.StartDate, r.Sprint.EndDate),
			SprintProgress(r.Done, r.Total, 10),
		})
	}
	return RenderTable([]string{"ID", "SPRINT", "STATUS", "DATES", "PROGRESS"}, table)
}

// FormatCompleteResult reports where the unfinished tasks of a completed
// sprint went.
func FormatCompleteResult(r *service.CompleteResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("✔ Sprint completed:"), Bold(r.Sprint.Name))
	fmt.Fprintf(&b, "  Done: %d  Unfinished: %d\n", r.DoneCount, r.Unfinished)
	if n := len(r.ToBacklog); n > 0 {
		fmt.Fprintf(&b, "  %s %d task(s) to backlog\n", StyleBlue.Render("→"), n)
	}
	if n := len(r.Moved); n > 0 {
		fmt.Fprintf(&b, "  %s %d task(s) to another sprint\n", StyleBlue.Render("→"), n)
	}
	if n := len(r.Stayed); n > 0 {
		fmt.Fprintf(&b, "  %s %d task(s) left in place\n", Dim("="), n)
	}
	return b.String()
}
