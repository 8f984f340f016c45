package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/relaydesk/relaydesk/pkg/apiclient"
	"github.com/relaydesk/relaydesk/pkg/authz"
	"github.com/relaydesk/relaydesk/pkg/workspace"
)

// ErrNoWorkspace is returned when an operation needs a current workspace
// and none is bound.
var ErrNoWorkspace = errors.New("no current workspace")

// Authorizer is the slice of the controller contract this package consumes.
type Authorizer interface {
	IsAuthenticated() bool
	Workspace() *workspace.Workspace
	HasPermission(authz.Action) bool
}

// Client performs workspace-scoped entity operations.
type Client struct {
	api  *apiclient.Client
	auth Authorizer
}

// NewClient creates an entity client bound to the given authorizer.
func NewClient(api *apiclient.Client, auth Authorizer) *Client {
	return &Client{api: api, auth: auth}
}

// scope returns the current workspace path prefix, preflighting session and
// permission. Write operations pass authz.ActionWrite; reads pass
// authz.ActionRead.
func (c *Client) scope(action authz.Action) (string, error) {
	ws := c.auth.Workspace()
	if ws == nil {
		return "", ErrNoWorkspace
	}
	if !c.auth.HasPermission(action) {
		return "", fmt.Errorf("%s in workspace %s: %w", action, ws.ID, authz.ErrForbidden)
	}
	return "/v1/workspaces/" + ws.ID, nil
}

func list[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	prefix, err := c.scope(authz.ActionRead)
	if err != nil {
		return nil, err
	}
	var out struct {
		Items []T `json:"items"`
	}
	if err := c.api.Get(ctx, prefix+"/"+resource, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func create[T any](ctx context.Context, c *Client, resource string, req any) (*T, error) {
	prefix, err := c.scope(authz.ActionWrite)
	if err != nil {
		return nil, err
	}
	var out T
	if err := c.api.Post(ctx, prefix+"/"+resource, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAgents returns the workspace's agents.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	return list[Agent](ctx, c, "agents")
}

// CreateAgent creates an agent. Requires write permission.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error) {
	return create[Agent](ctx, c, "agents", req)
}

// DeleteAgent archives an agent. Requires write permission.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	prefix, err := c.scope(authz.ActionWrite)
	if err != nil {
		return err
	}
	return c.api.Delete(ctx, prefix+"/agents/"+agentID)
}

// ListPersonas returns the workspace's personas.
func (c *Client) ListPersonas(ctx context.Context) ([]Persona, error) {
	return list[Persona](ctx, c, "personas")
}

// CreatePersona creates a persona. Requires write permission.
func (c *Client) CreatePersona(ctx context.Context, req CreatePersonaRequest) (*Persona, error) {
	return create[Persona](ctx, c, "personas", req)
}

// ListKnowledgeSources returns the workspace's knowledge sources.
func (c *Client) ListKnowledgeSources(ctx context.Context) ([]KnowledgeSource, error) {
	return list[KnowledgeSource](ctx, c, "knowledge-sources")
}

// CreateKnowledgeSource registers a knowledge source. Requires write
// permission.
func (c *Client) CreateKnowledgeSource(ctx context.Context, req CreateKnowledgeSourceRequest) (*KnowledgeSource, error) {
	return create[KnowledgeSource](ctx, c, "knowledge-sources", req)
}

// ListChatSessions returns recent end-user conversations.
func (c *Client) ListChatSessions(ctx context.Context) ([]ChatSession, error) {
	return list[ChatSession](ctx, c, "sessions")
}

// ListLeads returns leads captured by the workspace's agents.
func (c *Client) ListLeads(ctx context.Context) ([]Lead, error) {
	return list[Lead](ctx, c, "leads")
}
