package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/relaydesk/relaydesk/pkg/apiclient"
	"github.com/relaydesk/relaydesk/pkg/authz"
)

const (
	resolverCacheSize = 256
	resolverCacheTTL  = 30 * time.Second
)

// APIResolver resolves profiles, workspaces and roles against the platform
// API. Concurrent identical lookups collapse into one request and results
// are cached briefly; InvalidateCache must be called whenever the current
// (identity, workspace) pair changes.
type APIResolver struct {
	client *apiclient.Client
	log    *logrus.Logger
	group  singleflight.Group
	cache  *expirable.LRU[string, any]
}

// NewAPIResolver creates a resolver over the given client.
func NewAPIResolver(client *apiclient.Client, log *logrus.Logger) *APIResolver {
	if log == nil {
		log = logrus.New()
	}
	return &APIResolver{
		client: client,
		log:    log,
		cache:  expirable.NewLRU[string, any](resolverCacheSize, nil, resolverCacheTTL),
	}
}

// InvalidateCache drops every cached read. Cheap enough to call on any
// session or workspace change.
func (r *APIResolver) InvalidateCache() {
	r.cache.Purge()
}

// ResolveProfile returns the identity's workspace binding, or nil when the
// identity has none yet.
func (r *APIResolver) ResolveProfile(ctx context.Context, identityID string) (*Profile, error) {
	key := "profile:" + identityID
	v, err := r.resolve(key, func() (any, error) {
		var p Profile
		if err := r.client.Get(ctx, "/v1/profiles/"+identityID, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil || v == nil {
		return nil, err
	}
	return v.(*Profile), nil
}

// ResolveWorkspace returns the workspace record, or nil when it does not
// exist or cannot be reached.
func (r *APIResolver) ResolveWorkspace(ctx context.Context, workspaceID string) (*Workspace, error) {
	key := "workspace:" + workspaceID
	v, err := r.resolve(key, func() (any, error) {
		var w Workspace
		if err := r.client.Get(ctx, "/v1/workspaces/"+workspaceID, &w); err != nil {
			return nil, err
		}
		return &w, nil
	})
	if err != nil || v == nil {
		return nil, err
	}
	return v.(*Workspace), nil
}

// ResolveRole returns the role the identity holds in the workspace. The
// result is only meaningful for the exact pair it was fetched for.
func (r *APIResolver) ResolveRole(ctx context.Context, identityID, workspaceID string) (*authz.Role, error) {
	key := fmt.Sprintf("role:%s:%s", identityID, workspaceID)
	v, err := r.resolve(key, func() (any, error) {
		var out struct {
			Role string `json:"role"`
		}
		path := fmt.Sprintf("/v1/workspaces/%s/members/%s", workspaceID, identityID)
		if err := r.client.Get(ctx, path, &out); err != nil {
			return nil, err
		}
		role, err := authz.ParseRole(out.Role)
		if err != nil {
			return nil, err
		}
		return &role, nil
	})
	if err != nil || v == nil {
		return nil, err
	}
	return v.(*authz.Role), nil
}

// resolve wraps a fetch with singleflight, caching and the shared read-path
// error contract: not-found and transient failures become (nil, nil),
// 401/403 passes through.
func (r *APIResolver) resolve(key string, fetch func() (any, error)) (any, error) {
	if v, ok := r.cache.Get(key); ok {
		return v, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		v, err := fetch()
		if err != nil {
			if apiclient.IsAuth(err) {
				return nil, err
			}
			if !apiclient.IsNotFound(err) {
				r.log.WithError(err).WithField("key", key).Warn("resolution degraded to absent")
			}
			return nil, nil
		}
		r.cache.Add(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}
