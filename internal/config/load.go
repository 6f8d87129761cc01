package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config.yaml in the working
// directory and from environment variables with the VIDQUIZ_ prefix
// (VIDQUIZ_SERVER_PORT, VIDQUIZ_LLM_GEMINI_API_KEY, ...). Environment
// variables take precedence over file values. The bare GEMINI_API_KEY and
// PORT variables are also honored for compatibility with existing
// deployments.
//
// Returns a populated Config or an error if loading or validation fails.
// A missing Gemini API key is a validation failure: the caller is expected
// to treat that as fatal at startup.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; environment variables and defaults apply.
	}

	v.SetEnvPrefix("VIDQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Compatibility bindings for the variable names the original deployment
	// used.
	if err := v.BindEnv("llm.gemini_api_key", "VIDQUIZ_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind environment variable: %w", err)
	}
	if err := v.BindEnv("server.port", "VIDQUIZ_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind environment variable: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every setting so that a bare
// environment with only GEMINI_API_KEY set produces a runnable server.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_file", "")

	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.prompt_template_path", "")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("extractor.binary_path", "yt-dlp")
	v.SetDefault("extractor.temp_dir", "")

	v.SetDefault("tasks.retention", "1h")
	v.SetDefault("tasks.sweep_interval", "10m")
	v.SetDefault("tasks.pacing_delay", "500ms")
	v.SetDefault("tasks.extract_timeout", "5m")
	v.SetDefault("tasks.generate_timeout", "2m")

	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.active_limit", 35)
	v.SetDefault("rate_limit.terminal_limit", 10)
}
