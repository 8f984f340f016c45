package authz

import (
	"errors"
	"fmt"
)

// Role represents a workspace-level role
type Role string

const (
	RoleOwner   Role = "owner"   // Full control including billing and member management
	RoleManager Role = "manager" // Can create and modify workspace data
	RoleViewer  Role = "viewer"  // Read-only access
)

// Action represents a permission action evaluated against the current role
type Action string

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionAdmin   Action = "admin"
	ActionBilling Action = "billing"
)

// ErrForbidden is returned by callers when a permission check fails.
var ErrForbidden = errors.New("forbidden")

// roleLevels orders roles for comparison. Higher is more privileged.
var roleLevels = map[Role]int{
	RoleViewer:  1,
	RoleManager: 2,
	RoleOwner:   3,
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the defined constants
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the role's position in the hierarchy. Unknown roles
// return 0, below every valid role.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r is at least as privileged as other.
func (r Role) AtLeast(other Role) bool {
	return r.IsValid() && other.IsValid() && r.Level() >= other.Level()
}

// ParseRole converts a wire-format role string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// IsValid checks if the action is one of the defined constants
func (a Action) IsValid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionAdmin, ActionBilling:
		return true
	default:
		return false
	}
}
