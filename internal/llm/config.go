package llm

import (
	"strconv"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskPlanDraft          TaskType = "plan_draft"
	TaskImproveDescription TaskType = "improve_description"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Provider   string
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig for a local Ollama model.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderOllama,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskPlanDraft:          {Temperature: 0.3, MaxTokens: 8192, TimeoutMs: 90000},
			TaskImproveDescription: {Temperature: 0.4, MaxTokens: 1024, TimeoutMs: 15000},
		},
	}
}

// DefaultGeminiModel is used when the gemini provider is selected without a model.
const DefaultGeminiModel = "gemini-2.0-flash"

// ApplyEnv overlays TASKFLOW_LLM_* variables. Invalid numbers are ignored.
func (c *LLMConfig) ApplyEnv(getenv func(string) string) {
	if v := getenv("TASKFLOW_LLM_ENABLED"); v != "" {
		c.Enabled, _ = strconv.ParseBool(v)
	}
	if v := getenv("TASKFLOW_LLM_LOG_CALLS"); v != "" {
		c.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := getenv("TASKFLOW_LLM_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := getenv("TASKFLOW_LLM_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := getenv("TASKFLOW_LLM_MODEL"); v != "" {
		c.Model = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := getenv("TASKFLOW_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TimeoutMs = n
		}
	}
	if v := getenv("TASKFLOW_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.MaxRetries = n
		}
	}

	c.applyTaskTimeout(getenv, TaskPlanDraft, "TASKFLOW_LLM_PLAN_TIMEOUT_MS")
	c.applyTaskTimeout(getenv, TaskImproveDescription, "TASKFLOW_LLM_DESCRIPTION_TIMEOUT_MS")
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func (c *LLMConfig) applyTaskTimeout(getenv func(string) string, task TaskType, envName string) {
	v := getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := c.Tasks[task]
	tc.TimeoutMs = n
	c.Tasks[task] = tc
}
