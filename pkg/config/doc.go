// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Platform API settings:
//
//	RELAYDESK_API_URL="https://api.relaydesk.io"
//	RELAYDESK_API_TIMEOUT="30s"
//
// Identity provider (OIDC) settings:
//
//	RELAYDESK_OIDC_ISSUER="https://auth.relaydesk.io"
//	RELAYDESK_OIDC_CLIENT_ID="relaydesk-console"
//	RELAYDESK_OIDC_CLIENT_SECRET=""
//	RELAYDESK_OIDC_REDIRECT_URL="http://127.0.0.1:8765/callback"
//
// Session persistence settings:
//
//	RELAYDESK_REDIS_ADDR=""  # empty disables cross-restart session persistence
//	RELAYDESK_REDIS_PASSWORD=""
//	RELAYDESK_SESSION_TTL="24h"
//
// Observability settings:
//
//	RELAYDESK_LOG_LEVEL="info"  # debug, info, warn, error
//	RELAYDESK_LOG_FORMAT="text"  # text, json
//	RELAYDESK_OTEL_ENABLED="false"
//	RELAYDESK_OTEL_ENDPOINT="localhost:4317"
//	RELAYDESK_OTEL_INSECURE="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("API: %s\n", cfg.API.URL)
//	fmt.Printf("Issuer: %s\n", cfg.OIDC.Issuer)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/apiclient: Uses API configuration
//   - pkg/identity/oidcsource: Uses OIDC configuration
//   - pkg/observability: Uses observability configuration
package config
