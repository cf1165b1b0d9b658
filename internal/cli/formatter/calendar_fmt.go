package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/taskflow/internal/calendar"
)

var weekdayHeaders = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// FormatMonth renders a month grid, one lane per row of sprint bars, and
// the tasks due each day.
func FormatMonth(view calendar.MonthView, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(view.Start.Format("January 2006")) + "\n")
	b.WriteString(renderGrid(view, now))

	if len(view.Bars) > 0 {
		b.WriteString("\n" + Header("Sprints") + "\n")
		b.WriteString(renderLanes(view))
	}

	var due strings.Builder
	for _, d := range view.Days {
		for _, t := range d.Tasks {
			key := t.ShortKey
			if key == "" {
				key = TruncID(t.ID)
			}
			fmt.Fprintf(&due, "  %s  %s %s %s\n",
				StyleBold.Render(d.Date.Format("Jan 02")), Dim(key), t.Title, PriorityBadge(t.Priority))
		}
	}
	if due.Len() > 0 {
		b.WriteString("\n" + Header("Due") + "\n")
		b.WriteString(due.String())
	}
	return b.String()
}

func renderGrid(view calendar.MonthView, now time.Time) string {
	var b strings.Builder
	for _, h := range weekdayHeaders {
		b.WriteString(Dim(fmt.Sprintf("%-4s", h)))
	}
	b.WriteString("\n")

	// Monday-first offset of the first day.
	offset := (int(view.Start.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", offset))
	col := offset
	for _, d := range view.Days {
		cell := fmt.Sprintf("%2d", d.Date.Day())
		switch {
		case sameDay(d.Date, now):
			cell = StyleHeader.Render(cell)
		case len(d.Sprints) > 0:
			cell = StyleFg.Render(cell)
		default:
			cell = Dim(cell)
		}
		mark := " "
		if len(d.Tasks) > 0 {
			mark = StyleRed.Render("•")
		}
		b.WriteString(cell + mark + " ")
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func renderLanes(view calendar.MonthView) string {
	days := len(view.Days)
	var b strings.Builder
	for row := 0; row < view.Rows(); row++ {
		cells := make([]string, days)
		for i := range cells {
			cells[i] = Dim("·")
		}
		for _, bar := range view.Bars {
			if bar.Row != row {
				continue
			}
			style := lipgloss.NewStyle().Foreground(SprintPalette[calendar.ColorIndex(bar.SprintID, len(SprintPalette))])
			for d := bar.StartDay; d <= bar.EndDay; d++ {
				glyph := "█"
				if d == bar.StartDay && bar.ContinuesBefore {
					glyph = "◀"
				}
				if d == bar.EndDay && bar.ContinuesAfter {
					glyph = "▶"
				}
				cells[d-1] = style.Render(glyph)
			}
		}
		b.WriteString("  " + strings.Join(cells, "") + "\n")
	}
	b.WriteString("\n")
	for _, bar := range view.Bars {
		style := lipgloss.NewStyle().Foreground(SprintPalette[calendar.ColorIndex(bar.SprintID, len(SprintPalette))])
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			style.Render("■"), Bold(bar.Name), Dim(fmt.Sprintf("days %d-%d", bar.StartDay, bar.EndDay)), SprintStatusPill(bar.Status))
	}
	return b.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatPublishResult summarises a calendar sync.
func FormatPublishResult(r calendar.PublishResult) string {
	return fmt.Sprintf("%s inserted %d, updated %d, unchanged %d, skipped %d (undated)",
		StyleGreen.Render("✔ Calendar synced:"), r.Inserted, r.Updated, r.Unchanged, r.Skipped)
}
