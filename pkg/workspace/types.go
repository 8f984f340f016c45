package workspace

import (
	"context"
	"time"

	"github.com/relaydesk/relaydesk/pkg/authz"
)

// Workspace is the tenant boundary all domain data is scoped to.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile records which workspace an identity is currently bound to.
// WorkspaceID is nil for an identity that has not joined or created one.
type Profile struct {
	IdentityID  string  `json:"identity_id"`
	WorkspaceID *string `json:"workspace_id"`
}

// Membership pairs a workspace with the role the identity holds in it. The
// pair is produced atomically by the server; the two fields are never valid
// independently.
type Membership struct {
	Workspace Workspace  `json:"workspace"`
	Role      authz.Role `json:"role"`
}

// Resolver answers the read-path questions of the authorization chain.
//
// All three methods share one error contract: not-found resolves to
// (nil, nil), transient transport failures are logged and resolve to
// (nil, nil), and only authorization failures (401/403) return an error.
type Resolver interface {
	ResolveProfile(ctx context.Context, identityID string) (*Profile, error)
	ResolveWorkspace(ctx context.Context, workspaceID string) (*Workspace, error)
	ResolveRole(ctx context.Context, identityID, workspaceID string) (*authz.Role, error)
}

// Switcher performs the server-authoritative workspace mutations.
type Switcher interface {
	// SwitchWorkspace validates membership server-side and returns the
	// atomic (workspace, role) pair. On error nothing was changed.
	SwitchWorkspace(ctx context.Context, workspaceID string) (*Membership, error)

	// CreateWorkspace creates a workspace with the caller bound as
	// OWNER, in one server-side operation.
	CreateWorkspace(ctx context.Context, name string) (*Workspace, error)

	// ListMemberships enumerates the caller's workspaces with roles.
	// 401/403 is returned as-is; other failures degrade to an empty
	// list.
	ListMemberships(ctx context.Context) ([]Membership, error)
}
