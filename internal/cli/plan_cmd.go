package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/importer"
	"github.com/alexanderramin/taskflow/internal/intelligence"
	"github.com/alexanderramin/taskflow/internal/planning"
	"github.com/alexanderramin/taskflow/internal/service"
)

const markdownWidth = 100

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Draft a project plan and turn it into sprints and tasks",
	}

	cmd.AddCommand(
		newPlanGenerateCmd(app),
		newPlanApplyCmd(app),
	)

	return cmd
}

func newPlanGenerateCmd(app *App) *cobra.Command {
	var (
		name, description, projectType, start, end, out string
		members                                         []string
		preassign                                       bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draft a plan from a project brief",
		Long: `Draft a plan from a project brief. The plan is printed for review and,
with --out, written to a YAML or JSON file that "plan apply" accepts.
When the model is unavailable a skeleton plan is produced instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Drafts == nil {
				return fmt.Errorf("plan drafting is not configured")
			}
			ctx := cmd.Context()
			ms, err := parseMembers(members)
			if err != nil {
				return err
			}

			if app.interactive() && (name == "" || description == "" || start == "" || end == "") {
				if err := briefForm(&name, &description, &start, &end).Run(); err != nil {
					return err
				}
			}
			startDate, err := parseOptionalDate("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseOptionalDate("end", end)
			if err != nil {
				return err
			}

			brief := intelligence.ProjectBrief{
				Name:        name,
				Description: description,
				ProjectType: projectType,
				Members:     ms,
			}
			if startDate != nil {
				brief.StartDate = *startDate
			}
			if endDate != nil {
				brief.EndDate = *endDate
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Drafting plan...")
			}
			res, err := app.Drafts.Generate(ctx, brief)
			stop()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if res.Fallback {
				fmt.Fprintln(w, formatter.StyleYellow.Render(fmt.Sprintf("! Model unavailable (%v); showing a skeleton plan.", res.Cause)))
			}

			if preassign {
				planning.AssignDraft(res.Draft, planning.NewRoster(ms))
				res.Schema = importer.FromDraft(res.Draft)
			}
			res.Schema.Project = &importer.ProjectImport{
				Name:        name,
				Description: description,
				Type:        projectType,
				StartDate:   start,
				EndDate:     end,
			}
			res.Schema.Members = importer.MembersToSchema(ms)

			rendered, err := formatter.RenderMarkdown(
				formatter.PlanMarkdown(name, res.Draft, namesOf(ms)), markdownWidth, app.markdownStyle())
			if err != nil {
				return err
			}
			fmt.Fprint(w, rendered)

			if out != "" {
				if err := importer.SavePlanSchema(out, res.Schema); err != nil {
					return err
				}
				fmt.Fprintf(w, "Plan written to %s. Review it, then run: taskflow plan apply %s\n", out, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "What the project delivers")
	cmd.Flags().StringVar(&projectType, "type", "", "Project type, e.g. web, mobile")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&members, "member", nil, "Team member as userID:Name:Role (repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the plan to this .yaml or .json file")
	cmd.Flags().BoolVar(&preassign, "assign", false, "Assign tasks now from the members' stated roles, so the file can be reviewed with names")

	return cmd
}

func newPlanApplyCmd(app *App) *cobra.Command {
	var (
		name    string
		members []string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "Create the project, sprints and tasks of a reviewed plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			schema, err := importer.LoadPlanSchema(path)
			if err != nil {
				return fmt.Errorf("loading plan file: %w", err)
			}
			if errs := importer.ValidatePlanSchema(schema); len(errs) > 0 {
				return fmt.Errorf("plan file %s is invalid:\n%w", path, errors.Join(errs...))
			}
			draft, err := importer.Convert(schema)
			if err != nil {
				return err
			}

			ms, err := parseMembers(members)
			if err != nil {
				return err
			}
			if len(ms) == 0 {
				ms = importer.MembersFromSchema(schema)
			}
			projectName := name
			if projectName == "" && schema.Project != nil {
				projectName = schema.Project.Name
			}
			if projectName == "" {
				return fmt.Errorf("the plan file names no project; pass --name")
			}

			w := cmd.OutOrStdout()
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("applying a plan needs confirmation; pass --yes")
				}
				preview, err := formatter.RenderMarkdown(
					formatter.PlanMarkdown(projectName, draft, namesOf(ms)), markdownWidth, app.markdownStyle())
				if err != nil {
					return err
				}
				fmt.Fprint(w, preview)
				ok, err := app.confirm(
					fmt.Sprintf("Create %s?", projectName),
					fmt.Sprintf("%d sprints and %d tasks for %d members", len(draft.Sprints), len(draft.Tasks), len(ms)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(w, "Aborted.")
					return nil
				}
			}

			report, err := app.Plans.ApplyFile(ctx, path, service.ApplyRequest{
				Project: domain.Project{Name: name},
				Members: ms,
				ActorID: app.ActorID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Created project %s\n", projectName)
			fmt.Fprint(w, formatter.FormatApplyReport(report, namesOf(ms)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (overrides the plan file)")
	cmd.Flags().StringArrayVar(&members, "member", nil, "Team member as userID:Name:Role (overrides the plan file)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without the confirmation prompt")

	return cmd
}

func namesOf(members []domain.Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.Name()
	}
	return names
}
