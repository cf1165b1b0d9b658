// Package config loads taskflow settings from YAML files and TASKFLOW_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

type Config struct {
	Backend  string         `yaml:"backend"`
	DBPath   string         `yaml:"db_path"`
	ActorID  string         `yaml:"actor_id"`
	Remote   RemoteConfig   `yaml:"remote"`
	Logging  LoggingConfig  `yaml:"logging"`
	LLM      LLMConfig      `yaml:"llm"`
	Calendar CalendarConfig `yaml:"calendar"`
}

// RemoteConfig points at the task-management microservices.
type RemoteConfig struct {
	ProjectsURL      string        `yaml:"projects_url"`
	SprintsURL       string        `yaml:"sprints_url"`
	TasksURL         string        `yaml:"tasks_url"`
	UsersURL         string        `yaml:"users_url"`
	NotificationsURL string        `yaml:"notifications_url"`
	Token            string        `yaml:"token"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	MaxRetries       int           `yaml:"max_retries"`
	RetryInitial     time.Duration `yaml:"retry_initial"`
	BreakerFailures  int           `yaml:"breaker_failures"`
	BreakerCooldown  time.Duration `yaml:"breaker_cooldown"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// LLMConfig holds the file-level model settings. Per-task tuning stays in
// the llm package defaults.
type LLMConfig struct {
	Enabled    *bool  `yaml:"enabled"`
	Provider   string `yaml:"provider"` // ollama, gemini
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	MaxRetries *int   `yaml:"max_retries"`
}

type CalendarConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	CalendarID      string `yaml:"calendar_id"`
}

// DefaultConfig returns a local-backend configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Backend: BackendLocal,
		DBPath:  filepath.Join(home, ".taskflow", "taskflow.db"),
		Remote: RemoteConfig{
			ProjectsURL:      "http://localhost:8081",
			SprintsURL:       "http://localhost:8082",
			TasksURL:         "http://localhost:8083",
			UsersURL:         "http://localhost:8084",
			NotificationsURL: "http://localhost:8085",
			RequestTimeout:   10 * time.Second,
			MaxRetries:       3,
			RetryInitial:     200 * time.Millisecond,
			BreakerFailures:  5,
			BreakerCooldown:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		LLM: LLMConfig{
			Provider: "ollama",
		},
		Calendar: CalendarConfig{
			CredentialsFile: filepath.Join(home, ".taskflow", "credentials.json"),
			TokenFile:       filepath.Join(home, ".taskflow", "token.json"),
			CalendarID:      "primary",
		},
	}
}

// DefaultPaths returns the global and per-directory config file locations.
func DefaultPaths() (global, project string) {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".taskflow", "config.yaml"), filepath.Join(".taskflow", "config.yaml")
}

// Load merges the given files over the defaults, in order, and then applies
// environment overrides. Missing files are skipped; malformed ones are errors.
func Load(paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := mergeFile(cfg, p); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays TASKFLOW_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	str("TASKFLOW_BACKEND", &c.Backend)
	str("TASKFLOW_DB", &c.DBPath)
	str("TASKFLOW_ACTOR_ID", &c.ActorID)
	str("TASKFLOW_PROJECTS_URL", &c.Remote.ProjectsURL)
	str("TASKFLOW_SPRINTS_URL", &c.Remote.SprintsURL)
	str("TASKFLOW_TASKS_URL", &c.Remote.TasksURL)
	str("TASKFLOW_USERS_URL", &c.Remote.UsersURL)
	str("TASKFLOW_NOTIFICATIONS_URL", &c.Remote.NotificationsURL)
	str("TASKFLOW_TOKEN", &c.Remote.Token)
	str("TASKFLOW_LOG_LEVEL", &c.Logging.Level)
	str("TASKFLOW_LOG_FORMAT", &c.Logging.Format)
	str("TASKFLOW_LLM_PROVIDER", &c.LLM.Provider)
	str("GEMINI_API_KEY", &c.LLM.APIKey)
	str("TASKFLOW_CALENDAR_ID", &c.Calendar.CalendarID)

	if v := getenv("TASKFLOW_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TASKFLOW_REQUEST_TIMEOUT: %w", err)
		}
		c.Remote.RequestTimeout = d
	}
	if v := getenv("TASKFLOW_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("TASKFLOW_MAX_RETRIES: invalid value %q", v)
		}
		c.Remote.MaxRetries = n
	}
	return nil
}

// Validate rejects settings the rest of the program cannot act on.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(c.Backend)
	switch c.Backend {
	case BackendLocal:
		if c.DBPath == "" {
			return fmt.Errorf("db_path is required for the local backend")
		}
	case BackendRemote:
		if c.Remote.TasksURL == "" || c.Remote.SprintsURL == "" || c.Remote.ProjectsURL == "" {
			return fmt.Errorf("remote backend needs projects_url, sprints_url and tasks_url")
		}
	default:
		return fmt.Errorf("backend: invalid value %q (expected local or remote)", c.Backend)
	}
	switch c.LLM.Provider {
	case "", "ollama", "gemini":
	default:
		return fmt.Errorf("llm.provider: invalid value %q (expected ollama or gemini)", c.LLM.Provider)
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
