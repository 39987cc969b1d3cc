package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config describes the top-level application configuration loaded from YAML and ENV.
type Config struct {
	Version   string                    `mapstructure:"version"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
	Models    map[string]ModelConfig    `mapstructure:"models"`
	Oracle    OracleConfig              `mapstructure:"oracle"`
	Agent     AgentConfig               `mapstructure:"agent"`
	Sandbox   SandboxConfig             `mapstructure:"sandbox"`
	Logging   LoggingConfig             `mapstructure:"logging"`
	Server    ServerConfig              `mapstructure:"server"`
}

// ProviderConfig represents oracle provider configuration such as OpenAI, Ollama, or custom gateways.
type ProviderConfig struct {
	Type    string        `mapstructure:"type"`     // openai, openrouter, ollama, vllm, lmstudio, custom
	BaseURL string        `mapstructure:"base_url"` // API base URL
	APIKey  string        `mapstructure:"api_key"`  // optional API key
	Timeout time.Duration `mapstructure:"timeout"`  // request timeout
}

// ModelConfig binds a logical model name to a provider entry and model parameters.
type ModelConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Default     bool    `mapstructure:"default"`
}

// OracleConfig controls how oracle calls are retried.
type OracleConfig struct {
	MaxRetries   int           `mapstructure:"max_retries"`   // retries after the first attempt
	RetryBackoff time.Duration `mapstructure:"retry_backoff"` // base backoff, doubled per attempt
}

// AgentConfig describes decision loop runtime parameters.
type AgentConfig struct {
	MaxSteps           int    `mapstructure:"max_steps"`
	TranscriptSteps    int    `mapstructure:"transcript_steps"`     // prior steps shown to the oracle
	ResultPreviewChars int    `mapstructure:"result_preview_chars"` // truncation for transcript results
	OverlapPolicy      string `mapstructure:"overlap_policy"`       // reject_lower or reject_higher
}

// SandboxConfig controls filesystem restrictions.
type SandboxConfig struct {
	WorkingDir  string `mapstructure:"working_dir"`
	AllowWrite  bool   `mapstructure:"allow_write"`
	AllowDelete bool   `mapstructure:"allow_delete"`
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// ServerConfig describes daemon settings.
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	Transport      string `mapstructure:"transport"` // connect or ndjson
}

// Load reads configuration from the provided path or defaults to configs/config.yaml.
// Environment variables override file values (prefix: CODECTL_, dots replaced with underscores).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CODECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && path == "" {
			v.SetConfigName("config.example")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults populates sensible defaults for optional fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("oracle.max_retries", 2)
	v.SetDefault("oracle.retry_backoff", "500ms")

	v.SetDefault("agent.max_steps", 16)
	v.SetDefault("agent.transcript_steps", 5)
	v.SetDefault("agent.result_preview_chars", 200)
	v.SetDefault("agent.overlap_policy", "reject_lower")

	v.SetDefault("sandbox.working_dir", "")
	v.SetDefault("sandbox.allow_write", true)
	v.SetDefault("sandbox.allow_delete", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_enabled", true)
	v.SetDefault("server.transport", "connect")
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return errors.New("at least one provider must be configured")
	}

	if len(c.Models) == 0 {
		return errors.New("at least one model must be defined")
	}

	for name, p := range c.Providers {
		if p.Type == "" {
			return fmt.Errorf("provider %q must define type", name)
		}
	}

	var defaultFound bool
	for name, m := range c.Models {
		if m.Provider == "" {
			return fmt.Errorf("model %q must reference provider", name)
		}

		if _, ok := c.Providers[m.Provider]; !ok {
			return fmt.Errorf("model %q references unknown provider %q", name, m.Provider)
		}

		if m.Temperature < 0 || m.Temperature > 2 {
			return fmt.Errorf("model %q temperature must be within [0,2]", name)
		}

		if m.MaxTokens < 0 {
			return fmt.Errorf("model %q max_tokens cannot be negative", name)
		}

		if m.Default {
			defaultFound = true
		}
	}

	if !defaultFound {
		return errors.New("at least one model should be marked as default")
	}

	if c.Oracle.MaxRetries < 0 {
		return errors.New("oracle.max_retries must be >= 0")
	}
	if c.Oracle.RetryBackoff < 0 {
		return errors.New("oracle.retry_backoff must be >= 0")
	}

	if c.Agent.MaxSteps <= 0 {
		return errors.New("agent.max_steps must be > 0")
	}
	if c.Agent.TranscriptSteps <= 0 {
		return errors.New("agent.transcript_steps must be > 0")
	}
	if c.Agent.ResultPreviewChars <= 0 {
		return errors.New("agent.result_preview_chars must be > 0")
	}
	switch strings.ToLower(strings.TrimSpace(c.Agent.OverlapPolicy)) {
	case "", "reject_lower", "reject_higher":
	default:
		return fmt.Errorf("agent.overlap_policy must be one of reject_lower or reject_higher, got %q", c.Agent.OverlapPolicy)
	}

	switch strings.ToLower(strings.TrimSpace(c.Server.Transport)) {
	case "", "connect", "ndjson":
	default:
		return fmt.Errorf("server.transport must be one of connect or ndjson, got %q", c.Server.Transport)
	}

	return nil
}
