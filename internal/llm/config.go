package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of LLM call being made.
type TaskType string

const (
	TaskParse  TaskType = "parse"
	TaskEnrich TaskType = "enrich"
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
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns the LLM defaults. The LLM is disabled by default and
// every caller falls back to its deterministic path.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskParse:  {Temperature: 0.1, MaxTokens: 2048, TimeoutMs: 20000},
			TaskEnrich: {Temperature: 0.3, MaxTokens: 1024, TimeoutMs: 12000},
		},
	}
}

// LoadConfig reads BRAINDUMP_LLM_* environment variables over the defaults.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("BRAINDUMP_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("BRAINDUMP_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("BRAINDUMP_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("BRAINDUMP_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("BRAINDUMP_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("BRAINDUMP_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskParse, "BRAINDUMP_LLM_PARSE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskEnrich, "BRAINDUMP_LLM_ENRICH_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the per-attempt timeout for a task type, falling back
// to the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
