package controller

import (
	"github.com/relaydesk/relaydesk/pkg/authz"
	"github.com/relaydesk/relaydesk/pkg/identity"
	"github.com/relaydesk/relaydesk/pkg/workspace"
)

// Status is the controller's position in its lifecycle state machine.
type Status string

const (
	// StatusUnauthenticated means no valid session exists.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusAuthenticating means a session exists and its workspace
	// binding is being resolved.
	StatusAuthenticating Status = "authenticating"
	// StatusNoWorkspace means the identity is signed in but bound to no
	// workspace (or the binding could not be resolved).
	StatusNoWorkspace Status = "authenticated_no_workspace"
	// StatusReady means identity, workspace and role are all resolved.
	StatusReady Status = "authenticated_with_workspace"
)

// State is the controller's complete shared snapshot. It is always
// replaced as a whole, so consumers never observe a half-updated mix of
// two async results.
type State struct {
	Status    Status
	Session   *identity.Session
	Profile   *workspace.Profile
	Workspace *workspace.Workspace
	Role      *authz.Role

	// Epoch increments on every session change and orders async results.
	Epoch uint64
}

// Authenticated reports whether the state carries a valid session. It
// depends on the session alone, never on profile, workspace or role.
func (s State) Authenticated() bool {
	return s.Session.Authenticated()
}
