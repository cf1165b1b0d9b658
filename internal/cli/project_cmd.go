package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and their members",
	}

	cmd.AddCommand(
		newProjectCreateCmd(app),
		newProjectListCmd(app),
		newProjectMembersCmd(app),
	)

	return cmd
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var name, key, description, projectType, start, deadline, scrumMaster string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseOptionalDate("start", start)
			if err != nil {
				return err
			}
			deadlineDate, err := parseOptionalDate("deadline", deadline)
			if err != nil {
				return err
			}

			p := &domain.Project{
				Key:           strings.ToUpper(key),
				Name:          name,
				Description:   description,
				ProjectType:   projectType,
				OwnerID:       app.ActorID,
				ScrumMasterID: scrumMaster,
				StartDate:     startDate,
				Deadline:      deadlineDate,
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&key, "key", "", "Project key (derived from the name when empty)")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&projectType, "type", "", "Project type, e.g. web, mobile")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&scrumMaster, "scrum-master", "", "User id copied on every board status change")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectMembersCmd(app *App) *cobra.Command {
	var add []string

	cmd := &cobra.Command{
		Use:   "members PROJECT",
		Short: "List project members, or add them with --add id:Name:Role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			newMembers, err := parseMembers(add)
			if err != nil {
				return err
			}
			for _, m := range newMembers {
				if err := app.Projects.AddMember(ctx, projectID, m); err != nil {
					return fmt.Errorf("adding member %s: %w", m.UserID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", m.Name())
			}

			members, err := app.Projects.Members(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMembers(members))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&add, "add", nil, "Member to add as userID:Name:Role (repeatable)")

	return cmd
}
