package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/notify"
)

// FormatNotifyReport renders a fan-out outcome. Failures are listed but
// never turn the command into an error.
func FormatNotifyReport(what string, r notify.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d sent", StyleGreen.Render("✔ "+what+":"), r.Succeeded)
	if r.Failed > 0 {
		fmt.Fprintf(&b, ", %s", StyleRed.Render(fmt.Sprintf("%d failed", r.Failed)))
	}
	b.WriteString("\n")
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "  %s %s %s\n", StyleRed.Render("✖"), f.RecipientID, Dim(f.Err.Error()))
	}
	return b.String()
}

// FormatInbox renders notifications newest first as given.
func FormatInbox(ns []domain.Notification, now time.Time) string {
	if len(ns) == 0 {
		return Dim("No notifications.")
	}
	var b strings.Builder
	for _, n := range ns {
		dot := Dim("○")
		if !n.Read {
			dot = StyleHeader.Render("●")
		}
		fmt.Fprintf(&b, "%s %s %s\n", dot, Bold(n.Title), Dim(RelativeDateFrom(n.CreatedAt, now)))
		fmt.Fprintf(&b, "  %s\n", n.Message)
	}
	return b.String()
}
