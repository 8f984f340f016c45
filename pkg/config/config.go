package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// API configuration
	API APIConfig

	// OIDC configuration
	OIDC OIDCConfig

	// Session configuration
	Session SessionConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// APIConfig holds platform API client configuration
type APIConfig struct {
	URL     string
	Timeout time.Duration
}

// OIDCConfig holds identity provider configuration
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// SessionConfig holds session persistence configuration
type SessionConfig struct {
	// RedisAddr enables cross-restart session persistence when non-empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration

	// InstanceID namespaces persisted sessions per client installation
	InstanceID string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  string
	LogFormat string

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		API:           loadAPIConfig(),
		OIDC:          loadOIDCConfig(),
		Session:       loadSessionConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadAPIConfig loads platform API configuration from environment
func loadAPIConfig() APIConfig {
	return APIConfig{
		URL:     getEnv("RELAYDESK_API_URL", "https://api.relaydesk.io"),
		Timeout: getEnvDuration("RELAYDESK_API_TIMEOUT", 30*time.Second),
	}
}

// loadOIDCConfig loads identity provider configuration from environment
func loadOIDCConfig() OIDCConfig {
	cfg := OIDCConfig{
		Issuer:       getEnv("RELAYDESK_OIDC_ISSUER", "https://auth.relaydesk.io"),
		ClientID:     getEnv("RELAYDESK_OIDC_CLIENT_ID", "relaydesk-console"),
		ClientSecret: getEnv("RELAYDESK_OIDC_CLIENT_SECRET", ""),
		RedirectURL:  getEnv("RELAYDESK_OIDC_REDIRECT_URL", "http://127.0.0.1:8765/callback"),
	}

	if scopes := getEnv("RELAYDESK_OIDC_SCOPES", ""); scopes != "" {
		for _, scope := range strings.Split(scopes, ",") {
			if scope = strings.TrimSpace(scope); scope != "" {
				cfg.Scopes = append(cfg.Scopes, scope)
			}
		}
	}

	return cfg
}

// loadSessionConfig loads session persistence configuration from environment
func loadSessionConfig() SessionConfig {
	return SessionConfig{
		RedisAddr:     getEnv("RELAYDESK_REDIS_ADDR", ""),
		RedisPassword: getEnv("RELAYDESK_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("RELAYDESK_REDIS_DB", 0),
		TTL:           getEnvDuration("RELAYDESK_SESSION_TTL", 24*time.Hour),
		InstanceID:    getEnv("RELAYDESK_INSTANCE_ID", "default"),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           getEnv("RELAYDESK_LOG_LEVEL", "info"),
		LogFormat:          getEnv("RELAYDESK_LOG_FORMAT", "text"),
		OTelEnabled:        getEnvBool("RELAYDESK_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("RELAYDESK_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("RELAYDESK_OTEL_SERVICE_NAME", "relaydesk-console"),
		OTelServiceVersion: getEnv("RELAYDESK_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("RELAYDESK_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate API config
	if c.API.URL == "" {
		return fmt.Errorf("API URL is required")
	}
	if u, err := url.Parse(c.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API URL: %s", c.API.URL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	// Validate OIDC config
	if c.OIDC.Issuer == "" {
		return fmt.Errorf("OIDC issuer is required")
	}
	if c.OIDC.ClientID == "" {
		return fmt.Errorf("OIDC client ID is required")
	}
	if c.OIDC.RedirectURL == "" {
		return fmt.Errorf("OIDC redirect URL is required")
	}

	// Validate session config
	if c.Session.RedisAddr != "" {
		if c.Session.TTL <= 0 {
			return fmt.Errorf("session TTL must be positive when persistence is enabled")
		}
		if c.Session.InstanceID == "" {
			return fmt.Errorf("instance ID is required when persistence is enabled")
		}
	}

	// Validate logging config
	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Observability.LogLevel)
	}
	switch strings.ToLower(c.Observability.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Observability.LogFormat)
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
