package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/service"
)

func newSprintCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "List, start and complete sprints",
	}

	cmd.AddCommand(
		newSprintListCmd(app),
		newSprintStartCmd(app),
		newSprintCompleteCmd(app),
	)

	return cmd
}

func newSprintListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List sprints with their progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
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

			done := make(map[string]int)
			total := make(map[string]int)
			for _, t := range tasks {
				if t.InBacklog() {
					continue
				}
				total[*t.SprintID]++
				if t.Status == domain.TaskDone {
					done[*t.SprintID]++
				}
			}
			rows := make([]formatter.SprintRow, 0, len(sprints))
			for _, s := range sprints {
				rows = append(rows, formatter.SprintRow{Sprint: s, Done: done[s.ID], Total: total[s.ID]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSprintList(rows))
			return nil
		},
	}
}

func newSprintStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start PROJECT SPRINT",
		Short: "Start a sprint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sp, err := projectSprint(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}
			if err := app.Sprints.Start(ctx, sp.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started %s\n", sp.Name)
			return nil
		},
	}
}

func newSprintCompleteCmd(app *App) *cobra.Command {
	var (
		to    string
		moves []string
	)

	cmd := &cobra.Command{
		Use:   "complete PROJECT SPRINT",
		Short: "Complete a sprint and move its unfinished tasks",
		Long: `Complete a sprint. Unfinished tasks go to --to: "backlog" (default),
"stay", or another sprint. --move TASK=TARGET overrides the target of one task.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sprints, err := app.Sprints.List(ctx, projectID)
			if err != nil {
				return err
			}
			sp, err := resolveSprint(sprints, args[1])
			if err != nil {
				return err
			}

			def, err := migrationTarget(sprints, to)
			if err != nil {
				return err
			}
			plan := service.MigrationPlan{Default: def}

			if len(moves) > 0 {
				tasks, err := app.Tasks.List(ctx, projectID, sp.ID)
				if err != nil {
					return err
				}
				plan.Tasks = make(map[string]service.MigrationTarget, len(moves))
				for _, mv := range moves {
					taskRef, target, ok := strings.Cut(mv, "=")
					if !ok {
						return fmt.Errorf("invalid --move %q: use TASK=TARGET", mv)
					}
					t, err := resolveTask(tasks, taskRef)
					if err != nil {
						return err
					}
					mt, err := migrationTarget(sprints, target)
					if err != nil {
						return err
					}
					plan.Tasks[t.ID] = mt
				}
			}

			res, err := app.Sprints.Complete(ctx, sp.ID, plan)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompleteResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "backlog", `Where unfinished tasks go: "backlog", "stay" or a sprint`)
	cmd.Flags().StringArrayVar(&moves, "move", nil, "Per-task target as TASK=TARGET (repeatable)")

	return cmd
}

func migrationTarget(sprints []*domain.Sprint, target string) (service.MigrationTarget, error) {
	switch strings.ToLower(target) {
	case "", "backlog":
		return service.MigrationTarget{ToBacklog: true}, nil
	case "stay":
		return service.MigrationTarget{}, nil
	}
	sp, err := resolveSprint(sprints, target)
	if err != nil {
		return service.MigrationTarget{}, err
	}
	return service.MigrationTarget{SprintID: sp.ID}, nil
}
