// Package observability provides structured logging, OpenTelemetry tracing, and shutdown plumbing.
//
// # Overview
//
// This package centralizes observability infrastructure including logrus logger
// construction, OTLP trace and metric export, and graceful teardown of client
// resources.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger("info", "text")
//	logger.WithField("workspace_id", ws.ID).Info("Workspace switched")
//
// # OpenTelemetry
//
// Initialize tracing and metrics:
//
//	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
//		Enabled:        true,
//		Endpoint:       "localhost:4317",
//		ServiceName:    "relaydesk-console",
//		ServiceVersion: "1.0.0",
//		Insecure:       true,
//	}, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Graceful Shutdown
//
// Tear down client resources on interrupt:
//
//	sm := observability.NewShutdownManager(logger, 30*time.Second)
//	sm.Register(func(ctx context.Context) error { return ctrl.Close() })
//	sm.WaitForShutdown()
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/controller: Prometheus metrics for authorization state
package observability
