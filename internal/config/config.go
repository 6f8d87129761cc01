package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"        validate:"required"`
	Extractor ExtractorConfig `mapstructure:"extractor"  validate:"required"`
	Tasks     TaskConfig      `mapstructure:"tasks"      validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// LogFile, when set, mirrors JSON logs to a size-rotated file in
	// addition to stdout.
	LogFile string `mapstructure:"log_file"`
}

// LLMConfig contains all quiz-generation LLM settings. The API key is
// required; the process refuses to start without it.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// PromptTemplatePath optionally overrides the embedded prompt template.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`

	// MaxRetries bounds retries of transient Gemini API errors within a
	// single generation call. This is not task-level retry; a task whose
	// generation ultimately fails stays failed.
	MaxRetries        int `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// ExtractorConfig contains subtitle-extraction settings.
type ExtractorConfig struct {
	// BinaryPath is the yt-dlp executable to invoke.
	BinaryPath string `mapstructure:"binary_path" validate:"required"`

	// TempDir is where subtitle files are written before cleanup.
	// Empty means the system temp directory.
	TempDir string `mapstructure:"temp_dir"`
}

// TaskConfig contains task lifecycle settings.
type TaskConfig struct {
	// Retention is how long a task stays in the store after creation,
	// regardless of status.
	Retention time.Duration `mapstructure:"retention" validate:"required"`

	// SweepInterval is how often expired tasks and rate-limit windows are
	// evicted.
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"required"`

	// PacingDelay is the minimum pause between the processing and
	// generating stages. Purely a UX-smoothing device; zero disables it.
	PacingDelay time.Duration `mapstructure:"pacing_delay"`

	// ExtractTimeout and GenerateTimeout bound the two collaborator calls
	// so a hung external process fails the task instead of stalling it
	// until the sweep. Zero disables the bound.
	ExtractTimeout  time.Duration `mapstructure:"extract_timeout"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout"`
}

// RateLimitConfig contains status-polling limiter settings.
type RateLimitConfig struct {
	Window        time.Duration `mapstructure:"window"         validate:"required"`
	ActiveLimit   int           `mapstructure:"active_limit"   validate:"required,gt=0"`
	TerminalLimit int           `mapstructure:"terminal_limit" validate:"required,gt=0"`
}
