// Package authz provides role and permission primitives for the Relaydesk console.
//
// # Overview
//
// This package defines the workspace role hierarchy and the pure permission
// evaluator every rendering and routing decision in the console goes through.
// It has no I/O and no internal state: callers pass the role they currently
// hold and get a boolean back, which makes it safe to evaluate on every
// frame of the UI loop.
//
// # Roles
//
// Roles form a total order:
//
//	RoleOwner > RoleManager > RoleViewer
//
// Anything granted to a lower role is granted to every role above it, and
// capabilities restricted to RoleOwner are never reachable from below.
//
// # Actions
//
//	ActionRead    - View workspace data (any role)
//	ActionWrite   - Create and modify workspace data (manager and above)
//	ActionAdmin   - Manage members and workspace settings (owner only)
//	ActionBilling - Manage subscription and payment (owner only)
//
// # Usage
//
//	if !authz.HasPermission(ctrl.Role(), authz.ActionWrite) {
//		return authz.ErrForbidden
//	}
//
// # Related Packages
//
//   - pkg/workspace: role bindings resolved per (identity, workspace) pair
//   - pkg/controller: holds the current role this package evaluates against
package authz
