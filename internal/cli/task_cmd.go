package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "List, create and delete tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskCreateCmd(app),
		newTaskAssignCmd(app),
		newTaskDeleteCmd(app),
	)

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var sprint string

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List the tasks of a project or one of its sprints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sprintID := ""
			if sprint != "" {
				sp, err := projectSprint(ctx, app, projectID, sprint)
				if err != nil {
					return err
				}
				sprintID = sp.ID
			}

			tasks, err := app.Tasks.List(ctx, projectID, sprintID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, memberNames(ctx, app, projectID), app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&sprint, "sprint", "", "Only tasks of this sprint (name or id)")

	return cmd
}

func newTaskCreateCmd(app *App) *cobra.Command {
	var (
		title, description, sprint, parent, assignee, priority, label, due string
		points                                                             int
		improve                                                            bool
	)

	cmd := &cobra.Command{
		Use:   "create PROJECT",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if points < 0 {
				return fmt.Errorf("--points must not be negative")
			}
			prio, err := parsePriority(priority)
			if err != nil {
				return err
			}
			dueDate, err := parseOptionalDate("due", due)
			if err != nil {
				return err
			}

			if improve && description != "" && app.Drafts != nil {
				improved, err := app.Drafts.ImproveDescription(ctx, title, description)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "! Could not improve the description (%v); keeping yours.\n", err)
				}
				description = improved
			}

			t := &domain.Task{
				ProjectID:   projectID,
				Title:       title,
				Description: description,
				Priority:    prio,
				Label:       domain.Label(strings.ToUpper(label)),
				StoryPoints: points,
				AssigneeID:  assignee,
				CreatedBy:   app.ActorID,
				DueDate:     dueDate,
			}
			if sprint != "" {
				sp, err := projectSprint(ctx, app, projectID, sprint)
				if err != nil {
					return err
				}
				t.SprintID = &sp.ID
			}
			if parent != "" {
				tasks, err := app.Tasks.List(ctx, projectID, "")
				if err != nil {
					return err
				}
				p, err := resolveTask(tasks, parent)
				if err != nil {
					return err
				}
				t.ParentTaskID = &p.ID
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s %s\n", t.ShortKey, t.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&sprint, "sprint", "", "Sprint name or id (backlog when empty)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task key or id, making this a subtask")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee user id")
	cmd.Flags().StringVar(&priority, "priority", "", "BLOCKER, HIGHEST, HIGH, MEDIUM, LOW or LOWEST")
	cmd.Flags().StringVar(&label, "label", "", "STORY, BUG, TASK or EPIC")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&points, "points", 0, "Story points")
	cmd.Flags().BoolVar(&improve, "improve", false, "Have the model rewrite the description first")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign PROJECT TASK USER",
		Short: "Assign a task and notify the new assignee",
		Long:  "Assign a task to USER. Pass an empty USER (\"\") to unassign it.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.List(ctx, projectID, "")
			if err != nil {
				return err
			}
			t, err := resolveTask(tasks, args[1])
			if err != nil {
				return err
			}

			rep, err := app.Tasks.Assign(ctx, t.ID, args[2], app.ActorID, app.ActorName)
			if err != nil {
				return err
			}
			if args[2] == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Unassigned %s\n", t.ShortKey)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", t.ShortKey, args[2])
			}
			if rep.Succeeded+rep.Failed > 0 {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNotifyReport("Notified", rep))
			}
			return nil
		},
	}
}

func newTaskDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete PROJECT TASK",
		Short: "Delete a task and notify its assignee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.List(ctx, projectID, "")
			if err != nil {
				return err
			}
			t, err := resolveTask(tasks, args[1])
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("deleting %s needs confirmation; pass --yes", t.ShortKey)
				}
				ok, err := app.confirm(fmt.Sprintf("Delete %s %s?", t.ShortKey, t.Title), "Subtasks are deleted with it.")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			rep, err := app.Tasks.Delete(ctx, t.ID, app.ActorID, app.ActorName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", t.ShortKey)
			if rep.Succeeded+rep.Failed > 0 {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNotifyReport("Notified", rep))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
