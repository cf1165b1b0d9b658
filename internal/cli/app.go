package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/taskflow/internal/calendar"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/intelligence"
	"github.com/alexanderramin/taskflow/internal/service"
)

// SprintPublisher mirrors sprints into an external calendar.
type SprintPublisher interface {
	Publish(ctx context.Context, sprints []domain.Sprint) (calendar.PublishResult, error)
}

// App holds the services and terminal hooks used by CLI commands.
type App struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Sprints  service.SprintService
	Boards   service.BoardService
	Plans    service.PlanService
	Notify   service.NotifyService
	Drafts   intelligence.PlanDraftService

	// Calendar opens the publisher lazily so commands that never touch the
	// calendar do not need credentials.
	Calendar          func(ctx context.Context) (SprintPublisher, error)
	AuthorizeCalendar func(ctx context.Context, code string) error

	ActorID   string
	ActorName string

	IsInteractive func() bool
	// Confirm asks a yes/no question. Defaults to a huh confirm form.
	Confirm func(title, description string) (bool, error)
	Now     func() time.Time
	Log     *zap.Logger
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title, description string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title, description)
	}
	return runConfirm(title, description)
}

func (a *App) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// markdownStyle picks the glamour style for the current output.
func (a *App) markdownStyle() string {
	if a.interactive() {
		return ""
	}
	return "notty"
}

// NewRootCmd creates the top-level "taskflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Sprint planning, task boards and team notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newSprintCmd(app),
		newBoardCmd(app),
		newPlanCmd(app),
		newCalendarCmd(app),
		newNotifyCmd(app),
	)

	return root
}
