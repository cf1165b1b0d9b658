package remote

import (
	"go.uber.org/zap"

	"github.com/alexanderramin/taskflow/internal/config"
)

// Backend groups the adapters for every service, each with its own client
// and circuit breaker so one failing service does not trip the others.
type Backend struct {
	Projects      *ProjectStore
	Sprints       *SprintStore
	Tasks         *TaskStore
	Users         *UserDirectory
	Notifications *NotificationStore
}

func NewBackend(cfg config.RemoteConfig, log *zap.Logger) *Backend {
	client := func(name, baseURL string) *Client {
		return NewClient(ClientConfig{
			Name:    name,
			BaseURL: baseURL,
			Token:   cfg.Token,
			Timeout: cfg.RequestTimeout,
			Retry: RetryConfig{
				MaxRetries:      cfg.MaxRetries,
				InitialInterval: cfg.RetryInitial,
			},
			BreakerFailures: cfg.BreakerFailures,
			BreakerCooldown: cfg.BreakerCooldown,
		}, log)
	}
	return &Backend{
		Projects:      NewProjectStore(client("projects", cfg.ProjectsURL)),
		Sprints:       NewSprintStore(client("sprints", cfg.SprintsURL)),
		Tasks:         NewTaskStore(client("tasks", cfg.TasksURL)),
		Users:         NewUserDirectory(client("users", cfg.UsersURL)),
		Notifications: NewNotificationStore(client("notifications", cfg.NotificationsURL)),
	}
}
