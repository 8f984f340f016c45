package workspace

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/relaydesk/relaydesk/pkg/apiclient"
)

// APISwitcher performs workspace switch/create/list against the platform
// API. All mutations are server-authoritative; this type never touches
// local state.
type APISwitcher struct {
	client *apiclient.Client
	log    *logrus.Logger
}

// NewAPISwitcher creates a switcher over the given client.
func NewAPISwitcher(client *apiclient.Client, log *logrus.Logger) *APISwitcher {
	if log == nil {
		log = logrus.New()
	}
	return &APISwitcher{client: client, log: log}
}

// SwitchWorkspace asks the server to validate membership and rebind the
// caller's profile to workspaceID. The returned pair is the server's word;
// on any error the caller must leave its state untouched.
func (s *APISwitcher) SwitchWorkspace(ctx context.Context, workspaceID string) (*Membership, error) {
	var m Membership
	body := map[string]string{"workspace_id": workspaceID}
	if err := s.client.Post(ctx, "/v1/workspaces/switch", body, &m); err != nil {
		return nil, fmt.Errorf("workspace switch rejected: %w", err)
	}
	return &m, nil
}

// CreateWorkspace creates a workspace and the caller's OWNER binding in one
// server-side operation.
func (s *APISwitcher) CreateWorkspace(ctx context.Context, name string) (*Workspace, error) {
	var w Workspace
	body := map[string]string{"name": name}
	if err := s.client.Post(ctx, "/v1/workspaces", body, &w); err != nil {
		return nil, fmt.Errorf("workspace create rejected: %w", err)
	}
	return &w, nil
}

// ListMemberships enumerates the caller's workspaces. 401/403 is returned
// to the caller so it can redirect to sign-in; anything else degrades to an
// empty list.
func (s *APISwitcher) ListMemberships(ctx context.Context) ([]Membership, error) {
	var out struct {
		Memberships []Membership `json:"memberships"`
	}
	if err := s.client.Get(ctx, "/v1/me/workspaces", &out); err != nil {
		if apiclient.IsAuth(err) {
			return nil, err
		}
		s.log.WithError(err).Warn("workspace enumeration degraded to empty")
		return nil, nil
	}
	return out.Memberships, nil
}
