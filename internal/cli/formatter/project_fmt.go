package formatter

import (
	"strings"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/planning"
)

// FormatProjectList renders projects inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"KEY", "NAME", "STATUS", "DATES", "ID"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		name := Bold(p.Name)
		if p.AIGenerated {
			name += " " + StylePurple.Render("✦")
		}
		rows = append(rows, []string{
			p.DisplayID(),
			name,
			ProjectStatusPill(p.Status),
			DateRange(p.StartDate, p.Deadline),
			TruncID(p.ID),
		})
	}
	return RenderBox("Projects", strings.TrimRight(RenderTable(headers, rows), "\n"))
}

// FormatMembers renders a project's team with the bucket each role
// classifies into.
func FormatMembers(members []domain.Member) string {
	if len(members) == 0 {
		return Dim("No members.")
	}
	headers := []string{"USER", "NAME", "ROLE", "BUCKET"}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		role := m.Role
		if m.ActualRole != "" && m.ActualRole != m.Role {
			role = m.ActualRole + Dim(" (project: "+m.Role+")")
		}
		rows = append(rows, []string{
			m.UserID,
			m.Name(),
			role,
			StylePurple.Render(string(planning.ClassifyRole(m.EffectiveRole()))),
		})
	}
	return RenderTable(headers, rows)
}
