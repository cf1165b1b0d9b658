package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/alexanderramin/taskflow/internal/calendar"
	"github.com/alexanderramin/taskflow/internal/cli"
	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/intelligence"
	"github.com/alexanderramin/taskflow/internal/llm"
	"github.com/alexanderramin/taskflow/internal/logging"
	"github.com/alexanderramin/taskflow/internal/notify"
	"github.com/alexanderramin/taskflow/internal/remote"
	"github.com/alexanderramin/taskflow/internal/repository"
	"github.com/alexanderramin/taskflow/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stores is one backend's set of persistence adapters.
type stores struct {
	projects  repository.ProjectStore
	sprints   repository.SprintStore
	tasks     repository.TaskStore
	inbox     repository.NotificationStore
	directory service.MemberDirectory
	tx        service.StoreTx
	close     func() error
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	global, local := config.DefaultPaths()
	cfg, err := config.Load(global, local)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	st, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	obs := service.NewZapUseCaseObserver(log)
	fanOut := notify.NewFanOut(st.inbox, log)
	actorName := domain.CoalesceStr(os.Getenv("TASKFLOW_ACTOR_NAME"), cfg.ActorID)

	app := &cli.App{
		Projects:  service.NewProjectService(st.projects, st.directory, obs),
		Tasks:     service.NewTaskService(st.tasks, fanOut, log, obs),
		Sprints:   service.NewSprintService(st.sprints, st.tx, log, obs),
		Boards:    service.NewBoardService(st.projects, st.tasks, fanOut, cfg.ActorID, actorName, log, obs),
		Plans:     service.NewPlanService(st.projects, st.sprints, st.tasks, st.directory, log, obs),
		Notify:    service.NewNotifyService(st.tasks, st.inbox, fanOut, obs),
		Drafts:    intelligence.NewPlanDraftService(newLLMClient(ctx, cfg.LLM, log), log),
		ActorID:   cfg.ActorID,
		ActorName: actorName,
		Log:       log,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	app.Calendar = func(ctx context.Context) (cli.SprintPublisher, error) {
		srv, err := calendar.NewService(ctx, cfg.Calendar)
		if err != nil {
			return nil, err
		}
		return calendar.NewGooglePublisher(srv, cfg.Calendar.CalendarID, log), nil
	}
	app.AuthorizeCalendar = func(ctx context.Context, code string) error {
		return calendar.Authorize(ctx, cfg.Calendar, code, log)
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openStores wires the local SQLite database or the remote services.
func openStores(cfg *config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.Backend {
	case config.BackendRemote:
		b := remote.NewBackend(cfg.Remote, log)
		return &stores{
			projects:  b.Projects,
			sprints:   b.Sprints,
			tasks:     b.Tasks,
			inbox:     b.Notifications,
			directory: b.Users,
			tx:        service.NewDirectStoreTx(b.Sprints, b.Tasks),
			close:     func() error { return nil },
		}, nil
	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return &stores{
			projects: repository.NewSQLiteProjectRepo(database),
			sprints:  repository.NewSQLiteSprintRepo(database),
			tasks:    repository.NewSQLiteTaskRepo(database),
			inbox:    repository.NewSQLiteNotificationRepo(database),
			tx:       service.NewSQLiteStoreTx(db.NewSQLiteUnitOfWork(database)),
			close:    database.Close,
		}, nil
	}
}

// newLLMClient returns nil when the model is disabled or cannot be
// reached, which makes plan drafting fall back to the skeleton plan.
func newLLMClient(ctx context.Context, c config.LLMConfig, log *zap.Logger) llm.LLMClient {
	lc := llm.DefaultConfig()
	lc.Enabled = domain.FirstSet(lc.Enabled, c.Enabled)
	lc.Provider = domain.CoalesceStr(c.Provider, lc.Provider)
	lc.Endpoint = domain.CoalesceStr(c.Endpoint, lc.Endpoint)
	lc.Model = domain.CoalesceStr(c.Model, lc.Model)
	lc.APIKey = domain.CoalesceStr(c.APIKey, lc.APIKey)
	if c.TimeoutMs > 0 {
		lc.TimeoutMs = c.TimeoutMs
	}
	lc.MaxRetries = domain.FirstSet(lc.MaxRetries, c.MaxRetries)
	lc.ApplyEnv(os.Getenv)

	client, err := llm.NewClient(ctx, lc, llm.NewZapObserver(log))
	switch {
	case errors.Is(err, llm.ErrDisabled):
		return nil
	case err != nil:
		log.Warn("llm client unavailable, plans will use the fallback", zap.Error(err))
		return nil
	}
	return client
}
