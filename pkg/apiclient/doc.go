// Package apiclient is the HTTP client for the Relaydesk platform API.
//
// # Overview
//
// Every network round trip in the SDK goes through this package: workspace
// and role resolution, workspace switch/create, and the entity CRUD clients
// in pkg/console. It injects the current bearer token, stamps each request
// with a UUID request ID for support correlation, and instruments the
// transport with OpenTelemetry.
//
// # Error taxonomy
//
// Non-2xx responses surface as *APIError carrying the HTTP status and the
// server's error code/message. Callers classify rather than string-match:
//
//	if apiclient.IsAuth(err) {
//		// 401/403: force re-authentication, never swallow
//	}
//	if apiclient.IsNotFound(err) {
//		// absent resource, usually degrades to nil upstream
//	}
//
// # Related Packages
//
//   - pkg/workspace: resolvers and switcher built on this client
//   - pkg/console: entity CRUD and chat streaming
package apiclient
