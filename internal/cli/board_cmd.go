package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/cli/formatter"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show and work the task board",
	}

	cmd.AddCommand(
		newBoardShowCmd(app),
		newBoardMoveCmd(app),
		newBoardTUICmd(app),
	)

	return cmd
}

// loadBoard resolves the project and optional sprint and loads the board.
func loadBoard(cmd *cobra.Command, app *App, projectRef, sprintRef string) (*board.Board, string, error) {
	ctx := cmd.Context()
	projectID, err := resolveProjectID(ctx, app, projectRef)
	if err != nil {
		return nil, "", err
	}
	sprintID := ""
	if sprintRef != "" {
		sp, err := projectSprint(ctx, app, projectID, sprintRef)
		if err != nil {
			return nil, "", err
		}
		sprintID = sp.ID
	}
	b, err := app.Boards.Load(ctx, projectID, sprintID)
	if err != nil {
		return nil, "", err
	}
	return b, projectID, nil
}

func newBoardShowCmd(app *App) *cobra.Command {
	var sprint string
	var width int

	cmd := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Print the board columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, projectID, err := loadBoard(cmd, app, args[0], sprint)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBoard(b.Columns(), formatter.BoardOptions{
				Width:   width,
				Members: memberNames(cmd.Context(), app, projectID),
				Now:     app.now(),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&sprint, "sprint", "", "Sprint name or id (whole project when empty)")
	cmd.Flags().IntVar(&width, "width", 120, "Board width in columns")

	return cmd
}

func newBoardMoveCmd(app *App) *cobra.Command {
	var sprint, over string
	var index int

	cmd := &cobra.Command{
		Use:   "move PROJECT TASK STATUS",
		Short: "Move a task to a status column",
		Long: `Move a task to a status column (todo, in-progress, review, done).
--over places it at another task's position, --index at a column position.
Without either it goes to the end of the column.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := loadBoard(cmd, app, args[0], sprint)
			if err != nil {
				return err
			}
			status, err := parseStatus(args[2])
			if err != nil {
				return err
			}
			t, err := resolveTask(b.Tasks(), args[1])
			if err != nil {
				return err
			}

			req := board.MoveRequest{TaskID: t.ID, ToStatus: status}
			if over != "" {
				o, err := resolveTask(b.Tasks(), over)
				if err != nil {
					return err
				}
				req.OverTaskID = o.ID
			}
			if cmd.Flags().Changed("index") {
				req.Index = &index
			}

			err = b.Move(cmd.Context(), req)
			b.Wait()
			var ce *board.CommitError
			if errors.As(err, &ce) {
				return fmt.Errorf("%s stays %s: %w", t.ShortKey, ce.Restored.DisplayName(), ce.Err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s\n", t.ShortKey, t.Title, formatter.TaskStatusPill(status))
			return nil
		},
	}

	cmd.Flags().StringVar(&sprint, "sprint", "", "Sprint name or id the board is scoped to")
	cmd.Flags().StringVar(&over, "over", "", "Task to drop onto")
	cmd.Flags().IntVar(&index, "index", 0, "Position within the target column")

	return cmd
}

func newBoardTUICmd(app *App) *cobra.Command {
	var sprint string

	cmd := &cobra.Command{
		Use:   "tui PROJECT",
		Short: "Work the board interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("board tui needs a terminal; use board show or board move")
			}
			b, projectID, err := loadBoard(cmd, app, args[0], sprint)
			if err != nil {
				return err
			}
			m := newBoardModel(cmd.Context(), b, memberNames(cmd.Context(), app, projectID), app.now)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			b.Wait()
			return err
		},
	}

	cmd.Flags().StringVar(&sprint, "sprint", "", "Sprint name or id (whole project when empty)")

	return cmd
}
