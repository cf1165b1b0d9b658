package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SprintPalette colors sprint bars; pick a slot with calendar.ColorIndex.
var SprintPalette = []lipgloss.Color{ColorBlue, ColorGreen, ColorPurple, ColorYellow, ColorRed}

// TaskStatusStyle returns the style for a board column.
func TaskStatusStyle(s domain.TaskStatus) lipgloss.Style {
	switch s {
	case domain.TaskTodo:
		return StyleBlue
	case domain.TaskInProgress:
		return StyleYellow
	case domain.TaskReview:
		return StylePurple
	case domain.TaskDone:
		return StyleGreen
	default:
		return StyleDim
	}
}

// TaskStatusPill returns a colored indicator such as "● In Progress".
func TaskStatusPill(s domain.TaskStatus) string {
	icon := "○"
	switch s {
	case domain.TaskInProgress, domain.TaskReview:
		icon = "●"
	case domain.TaskDone:
		icon = "✔"
	}
	return TaskStatusStyle(s).Render(icon + " " + s.DisplayName())
}

// SprintStatusPill returns a colored sprint state indicator.
func SprintStatusPill(s domain.SprintStatus) string {
	switch s {
	case domain.SprintActive:
		return StyleGreen.Render("● Active")
	case domain.SprintNotStarted:
		return StyleBlue.Render("○ Not started")
	case domain.SprintCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.SprintArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(s))
	}
}

// ProjectStatusPill returns a colored project state indicator.
func ProjectStatusPill(s domain.ProjectStatus) string {
	switch s {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(s))
	}
}

// PriorityBadge renders the priority with urgency coloring.
func PriorityBadge(p domain.Priority) string {
	if p == "" {
		return Dim("--")
	}
	label := strings.ToLower(string(p))
	switch p {
	case domain.PriorityBlocker, domain.PriorityHighest:
		return StyleRed.Render("▲ " + label)
	case domain.PriorityHigh:
		return StyleYellow.Render("▲ " + label)
	case domain.PriorityMedium:
		return StyleFg.Render("■ " + label)
	default:
		return StyleDim.Render("▼ " + label)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
