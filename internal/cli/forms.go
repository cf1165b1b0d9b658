package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
)

// huhTheme returns a huh theme using the Gruvbox palette.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func confirmForm(title, description string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

func runConfirm(title, description string) (bool, error) {
	var ok bool
	if err := confirmForm(title, description, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// briefForm asks for the plan brief fields still missing from the flags.
func briefForm(name, description, start, end *string) *huh.Form {
	var fields []huh.Field
	if *name == "" {
		fields = append(fields, huh.NewInput().Title("Project name").Value(name).Validate(validateRequired))
	}
	if *description == "" {
		fields = append(fields, huh.NewText().Title("Description").
			Description("What the project delivers; the plan is drafted from this").
			Value(description).Validate(validateRequired))
	}
	if *start == "" {
		fields = append(fields, huh.NewInput().Title("Start date").Placeholder("YYYY-MM-DD").
			Value(start).Validate(validateDate))
	}
	if *end == "" {
		fields = append(fields, huh.NewInput().Title("End date").Placeholder("YYYY-MM-DD").
			Value(end).Validate(validateDate))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huhTheme())
}

func validateRequired(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateDate(s string) error {
	if s == "" {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return validateOptionalDate(s)
}
