// Package config loads service configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment keys recognized by the service.
const (
	KeyPort           = "PORT"
	KeyGeminiAPIKey   = "GEMINI_API_KEY"
	KeyGeminiModel    = "GEMINI_MODEL"
	KeyBackendURL     = "NEXT_PUBLIC_BACKEND_URL"
	KeyFetchTimeout   = "FETCH_TIMEOUT"
	KeyAITimeout      = "AI_TIMEOUT"
	KeyUseBrowser     = "USE_BROWSER"
	KeyCacheTTL       = "CACHE_TTL"
	KeyDedupeInflight = "DEDUPE_INFLIGHT"
	KeyLogLevel       = "LOG_LEVEL"
	KeyLogFormat      = "LOG_FORMAT"
)

// Config stores all configuration for the application.
type Config struct {
	Port         int
	GeminiAPIKey string // empty means heuristic-only enrichment
	GeminiModel  string
	BackendURL   string // consumed by the frontend; logged at startup only

	FetchTimeout   time.Duration
	AITimeout      time.Duration
	UseBrowser     bool
	CacheTTL       time.Duration // zero keeps entries for the life of the process
	DedupeInflight bool

	LogLevel  string
	LogFormat string
}

// Load reads configuration from envFile (if it exists) and the environment.
// Environment variables take precedence over the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetInt(KeyPort),
		GeminiAPIKey:   strings.TrimSpace(v.GetString(KeyGeminiAPIKey)),
		GeminiModel:    v.GetString(KeyGeminiModel),
		BackendURL:     v.GetString(KeyBackendURL),
		FetchTimeout:   v.GetDuration(KeyFetchTimeout),
		AITimeout:      v.GetDuration(KeyAITimeout),
		UseBrowser:     v.GetBool(KeyUseBrowser),
		CacheTTL:       v.GetDuration(KeyCacheTTL),
		DedupeInflight: v.GetBool(KeyDedupeInflight),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, 3001)
	v.SetDefault(KeyGeminiAPIKey, "")
	v.SetDefault(KeyGeminiModel, "gemini-2.5-flash")
	v.SetDefault(KeyBackendURL, "http://localhost:3001")
	v.SetDefault(KeyFetchTimeout, "15s")
	v.SetDefault(KeyAITimeout, "30s")
	v.SetDefault(KeyUseBrowser, false)
	v.SetDefault(KeyCacheTTL, "0s")
	v.SetDefault(KeyDedupeInflight, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: %s must be between 1 and 65535, got %d", KeyPort, c.Port)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config error: %s must be positive", KeyFetchTimeout)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("config error: %s must be positive", KeyAITimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: %s must not be negative", KeyCacheTTL)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("config error: %s must be json or console, got %q", KeyLogFormat, c.LogFormat)
	}
	return nil
}

// AIEnabled reports whether a model provider key was configured.
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
