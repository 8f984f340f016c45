// Package workspace provides tenant data types and the resolution/switch
// operations the authorization controller composes.
//
// # Overview
//
// A workspace is the tenant boundary: every domain entity the console shows
// belongs to exactly one. This package answers three read questions (which
// workspace is an identity bound to, what is that workspace, and what role
// does the identity hold there) and performs the two write operations that
// change the answer: switch and create.
//
// # Read path
//
// Resolvers are deliberately forgiving. A missing profile or workspace and
// any transient transport failure all resolve to nil: the user stays
// authenticated, just workspace-less, and the console renders a picker
// instead of an error screen. The single exception is 401/403, which always
// surfaces so the caller can force re-authentication.
//
// Reads are deduplicated with singleflight and cached in a short-TTL LRU;
// the cache is purged whenever the current (identity, workspace) pair
// changes, because a cached role is meaningless outside the pair it was
// fetched for.
//
// # Write path
//
// SwitchWorkspace and CreateWorkspace are server-authoritative and atomic:
// the server validates membership (or creates the workspace and the OWNER
// binding) in one operation and returns the complete result. Callers apply
// it locally only after the server acknowledges. There is no optimistic
// local mutation to roll back.
//
// # Related Packages
//
//   - pkg/apiclient: transport and error taxonomy
//   - pkg/controller: decides whether resolved data is still current
package workspace
