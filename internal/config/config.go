package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	// CORSAllowedOrigins may call the API from a browser with credentials.
	CORSAllowedOrigins []string

	LLMBaseURL     string
	LLMAPIKey      string
	LLMModelName   string
	LLMTemperature float64
	LLMTimeout     time.Duration

	DBDriver string
	DBDSN    string

	RelayFlushThreshold int
	RelayIdleTimeout    time.Duration
	RelayFlushOnError   bool

	// Prompts holds the system prompt presets loaded from PromptsFile, if any.
	PromptsFile string
	Prompts     map[string]string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string
	SessionTTL         time.Duration
}

// AuthEnabled reports whether GitHub login is configured.
func (c *Config) AuthEnabled() bool {
	return c.GitHubClientID != ""
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the values.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		APIPort:      getEnv("API_PORT", "8080"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMAPIKey:    getEnv("LLM_API_KEY", ""),
		LLMModelName: getEnv("LLM_MODEL", "gpt-3.5-turbo"),
		DBDriver:     getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:        getEnv("DB_DSN", getEnv("DB_PATH", "./data/holidays.db")),
		PromptsFile:  getEnv("PROMPTS_FILE", ""),

		GitHubClientID:     getEnv("OAUTH_GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("OAUTH_GITHUB_CLIENT_SECRET", ""),
		GitHubRedirectURL:  getEnv("OAUTH_GITHUB_REDIRECT_URL", ""),
	}

	var err error
	if cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if cfg.CORSAllowedOrigins, err = parseOrigins(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")); err != nil {
		return nil, err
	}
	if cfg.LLMTemperature, err = getEnvFloat("LLM_TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 2 {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}
	if cfg.LLMTimeout, err = getEnvDuration("LLM_TIMEOUT", 3*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RelayFlushThreshold, err = getEnvInt("RELAY_FLUSH_THRESHOLD", 8); err != nil {
		return nil, err
	}
	if cfg.RelayFlushThreshold < 1 {
		return nil, fmt.Errorf("RELAY_FLUSH_THRESHOLD must be greater than 0")
	}
	if cfg.RelayIdleTimeout, err = getEnvDuration("RELAY_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.RelayFlushOnError, err = getEnvBool("RELAY_FLUSH_ON_ERROR", false); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case "sqlite3", "pgx":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be sqlite3 or pgx, got %q", cfg.DBDriver)
	}

	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret == "" {
		return nil, fmt.Errorf("OAUTH_GITHUB_CLIENT_SECRET is required when OAUTH_GITHUB_CLIENT_ID is set")
	}

	if cfg.PromptsFile != "" {
		prompts, err := LoadPrompts(cfg.PromptsFile)
		if err != nil {
			return nil, err
		}
		cfg.Prompts = prompts
	}

	if cfg.DBDriver == "sqlite3" {
		// Create ./data directory if it doesn't exist
		dataDir := filepath.Dir(cfg.DBDSN)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// loadDotEnv loads the first .env found in the working directory or up to five parents.
func loadDotEnv() {
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
// parseOrigins splits a comma-separated list of origins such as "https://app.example.com".
func parseOrigins(raw string) ([]string, error) {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin == "" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" || u.Path != "" {
			return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS entry %q must be scheme://host[:port]", part)
		}
		origins = append(origins, origin)
	}
	return origins, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s or 2m: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return v, nil
}
