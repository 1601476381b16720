package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Site        SiteConfig      `toml:"site"`
	Storage     StorageConfig   `toml:"storage"`
	LLM         LLMConfig       `toml:"llm"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
	RFQ         RFQConfig       `toml:"rfq"`
	Assistant   AssistantConfig `toml:"assistant"`
	RateLimit   RateLimitConfig `toml:"rate_limit"`
	Mail        MailConfig      `toml:"mail"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default "15:04:05"
}

// SiteConfig holds the per-client toggles of the agency site.
type SiteConfig struct {
	Name           string `toml:"name"`
	EnableAIChat   bool   `toml:"enable_ai_chat"`
	EnableSmartRFQ bool   `toml:"enable_smart_rfq"`
	SecretKey      string `toml:"secret_key"`   // Signs flash cookies
	CatalogFile    string `toml:"catalog_file"` // Optional TOML override for the embedded catalog
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// LLMProvider represents the hosted model vendor
type LLMProvider string

const (
	LLMProviderClaude LLMProvider = "claude"
	LLMProviderGemini LLMProvider = "gemini"
)

// APIKeyEnv returns the conventional environment variable holding the provider key.
func (p LLMProvider) APIKeyEnv() string {
	switch p {
	case LLMProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "ANTHROPIC_API_KEY"
	}
}

// LLMConfig selects the provider used by the RFQ expander and the assistant
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"`
	Timeout         string      `toml:"timeout"` // Per-call timeout as duration string
	MaxRetries      int         `toml:"max_retries"`
}

// TimeoutDuration parses Timeout, falling back to 60s.
func (c LLMConfig) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return 60 * time.Second
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
}

// RFQConfig tunes the Smart RFQ completion
type RFQConfig struct {
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
}

// AssistantConfig tunes the sales chat completion
type AssistantConfig struct {
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
	MaxHistory  int     `toml:"max_history"` // Oldest turns beyond this are dropped
}

// RateLimitConfig limits the form and AI endpoints per client address
type RateLimitConfig struct {
	Enabled           bool     `toml:"enabled"`
	RequestsPerMinute int      `toml:"requests_per_minute"`
	Burst             int      `toml:"burst"`
	TrustedProxies    []string `toml:"trusted_proxies"` // IPs or CIDRs allowed to set X-Forwarded-For
}

// MailConfig holds SMTP settings for inquiry notifications
type MailConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
	To       string `toml:"to"`
	UseTLS   bool   `toml:"use_tls"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 5000,
			Host: "0.0.0.0",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Site: SiteConfig{
			Name:           "SkyLane AI Studio",
			EnableAIChat:   true,
			EnableSmartRFQ: true,
			SecretKey:      "change-me-skylane-flash-key",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
			Timeout:         "60s",
			MaxRetries:      2,
		},
		Claude: ClaudeConfig{
			Model:       "claude-3-5-haiku-latest",
			Temperature: 0.4,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.4,
		},
		RFQ: RFQConfig{
			MaxTokens:   800,
			Temperature: 0.4,
		},
		Assistant: AssistantConfig{
			MaxTokens:   400,
			Temperature: 0.4,
			MaxHistory:  20,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 20,
			Burst:             5,
		},
		Mail: MailConfig{
			Port:     587,
			FromName: "SkyLane AI Studio",
			UseTLS:   true,
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env.
// Later files override earlier files; CLI flags are applied afterwards by ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SKYLANE_ENV"); env != "" {
		config.Environment = env
	}

	// Server
	if port := os.Getenv("SKYLANE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	} else if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SKYLANE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging
	if level := os.Getenv("SKYLANE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SKYLANE_LOG_OUTPUT"); output != "" {
		if outputs := splitList(output); len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Site
	if name := os.Getenv("SKYLANE_SITE_NAME"); name != "" {
		config.Site.Name = name
	}
	if v := os.Getenv("SKYLANE_SITE_ENABLE_AI_CHAT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Site.EnableAIChat = b
		}
	}
	if v := os.Getenv("SKYLANE_SITE_ENABLE_SMART_RFQ"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Site.EnableSmartRFQ = b
		}
	}
	if key := os.Getenv("SKYLANE_SITE_SECRET_KEY"); key != "" {
		config.Site.SecretKey = key
	}
	if file := os.Getenv("SKYLANE_SITE_CATALOG_FILE"); file != "" {
		config.Site.CatalogFile = file
	}

	// Storage
	if path := os.Getenv("SKYLANE_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	// LLM
	if provider := os.Getenv("SKYLANE_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}
	if timeout := os.Getenv("SKYLANE_LLM_TIMEOUT"); timeout != "" {
		config.LLM.Timeout = timeout
	}

	// Claude: the vendor variable first, SKYLANE_ prefix takes priority
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("SKYLANE_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("SKYLANE_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	// Gemini
	if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("SKYLANE_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("SKYLANE_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	// Rate limit
	if v := os.Getenv("SKYLANE_RATE_LIMIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.RateLimit.Enabled = b
		}
	}
	if v := os.Getenv("SKYLANE_RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RateLimit.RequestsPerMinute = n
		}
	}
	if v := os.Getenv("SKYLANE_RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.RateLimit.Burst = n
		}
	}
	if v, ok := os.LookupEnv("SKYLANE_RATE_LIMIT_TRUSTED_PROXIES"); ok {
		config.RateLimit.TrustedProxies = splitList(v)
	}

	// Mail
	if v := os.Getenv("SKYLANE_MAIL_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Mail.Enabled = b
		}
	}
	if host := os.Getenv("SKYLANE_MAIL_HOST"); host != "" {
		config.Mail.Host = host
	}
	if username := os.Getenv("SKYLANE_MAIL_USERNAME"); username != "" {
		config.Mail.Username = username
	}
	if password := os.Getenv("SKYLANE_MAIL_PASSWORD"); password != "" {
		config.Mail.Password = password
	}
	if to := os.Getenv("SKYLANE_MAIL_TO"); to != "" {
		config.Mail.To = to
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// APIKey returns the configured key for the given provider.
func (c *Config) APIKey(provider LLMProvider) string {
	switch provider {
	case LLMProviderGemini:
		return c.Gemini.APIKey
	default:
		return c.Claude.APIKey
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.LLM.DefaultProvider {
	case LLMProviderClaude, LLMProviderGemini:
	default:
		return fmt.Errorf("unsupported llm provider %q (use %q or %q)", c.LLM.DefaultProvider, LLMProviderClaude, LLMProviderGemini)
	}
	if c.IsProduction() && c.Site.SecretKey == NewDefaultConfig().Site.SecretKey {
		return fmt.Errorf("site.secret_key must be changed in production")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
