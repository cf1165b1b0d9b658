package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskflow/internal/calendar"
	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Sprint calendar and Google Calendar sync",
	}

	cmd.AddCommand(
		newCalendarShowCmd(app),
		newCalendarSyncCmd(app),
		newCalendarAuthCmd(app),
	)

	return cmd
}

func newCalendarShowCmd(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a month of sprints and due tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start, err := parseMonth(month, app.now())
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sprints, err := app.Sprints.List(ctx, projectID)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.List(ctx, projectID, "")
			if err != nil {
				return err
			}

			view := calendar.Month(derefSprints(sprints), tasks, start)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMonth(view, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to show as YYYY-MM (current month when empty)")

	return cmd
}

func newCalendarSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync PROJECT",
		Short: "Publish the project's sprints as all-day calendar events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Calendar == nil {
				return fmt.Errorf("calendar sync is not configured")
			}
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sprints, err := app.Sprints.List(ctx, projectID)
			if err != nil {
				return err
			}
			pub, err := app.Calendar(ctx)
			if err != nil {
				return err
			}

			res, err := pub.Publish(ctx, derefSprints(sprints))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPublishResult(res))
			return err
		},
	}
}

func newCalendarAuthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "auth CODE",
		Short: "Store Google Calendar access from an authorization code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.AuthorizeCalendar == nil {
				return fmt.Errorf("calendar sync is not configured")
			}
			if err := app.AuthorizeCalendar(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔ Calendar access stored."))
			return nil
		},
	}
}

func derefSprints(sprints []*domain.Sprint) []domain.Sprint {
	out := make([]domain.Sprint, 0, len(sprints))
	for _, s := range sprints {
		out = append(out, *s)
	}
	return out
}
