package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
)

func newNotifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send and read team notifications",
	}

	cmd.AddCommand(
		newNotifyOverdueCmd(app),
		newNotifyInboxCmd(app),
	)

	return cmd
}

func newNotifyOverdueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue PROJECT",
		Short: "Tell assignees and the scrum master about overdue tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			rep, err := app.Notify.NotifyOverdue(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNotifyReport("Overdue notices", rep))
			return nil
		},
	}
}

func newNotifyInboxCmd(app *App) *cobra.Command {
	var user string
	var unread bool

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Show notifications addressed to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				user = app.ActorID
			}
			ns, err := app.Notify.Inbox(cmd.Context(), user, unread)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInbox(ns, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Recipient user id (the configured actor when empty)")
	cmd.Flags().BoolVar(&unread, "unread", false, "Only unread notifications")

	return cmd
}
