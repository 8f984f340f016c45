// Package identity defines the identity event source contract the console
// authenticates against.
//
// # Overview
//
// An EventSource is the client-side view of the platform's identity
// provider. It pushes session-changed events to a subscribed handler,
// answers a one-shot "what is the current session" query at bootstrap, and
// accepts a sign-out command. Everything downstream (workspace binding,
// roles, permissions) hangs off the sessions this package delivers.
//
// # Delivery semantics
//
// Handlers may be invoked while the source holds internal locks. A handler
// must therefore return quickly and must never call back into the source or
// perform network I/O inline; see pkg/controller for the deferred-dispatch
// pattern this forces. MemorySource deliberately delivers events under its
// own mutex so that a handler violating this rule deadlocks in tests rather
// than in production.
//
// # Persistence
//
// Sessions live only as long as the process unless the source is given a
// SessionStore. The redisstore subpackage provides a Redis-backed store so
// a restarted console can resume its last session without a full
// re-authentication round trip.
//
// # Related Packages
//
//   - pkg/identity/oidcsource: OpenID Connect backed EventSource
//   - pkg/identity/redisstore: Redis SessionStore
//   - pkg/controller: the sole consumer of EventSource in this repository
package identity
