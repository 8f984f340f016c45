package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaydesk/relaydesk/pkg/apiclient"
	"github.com/relaydesk/relaydesk/pkg/authz"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testBackend is a minimal platform API fixture.
type testBackend struct {
	server   *httptest.Server
	requests atomic.Int64

	profiles map[string]*Profile
	spaces   map[string]*Workspace
	roles    map[string]authz.Role // key: workspaceID/identityID
	failWith int                   // when non-zero, every request returns this status
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{
		profiles: make(map[string]*Profile),
		spaces:   make(map[string]*Workspace),
		roles:    make(map[string]authz.Role),
	}

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b.requests.Add(1)
			if b.failWith != 0 {
				w.WriteHeader(b.failWith)
				fmt.Fprintf(w, `{"error":{"code":"err_%d","message":"forced"}}`, b.failWith)
				return
			}
			next.ServeHTTP(w, req)
		})
	})
	r.HandleFunc("/v1/profiles/{id}", func(w http.ResponseWriter, req *http.Request) {
		p, ok := b.profiles[mux.Vars(req)["id"]]
		if !ok {
			http.Error(w, `{"error":{"code":"not_found"}}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	})
	r.HandleFunc("/v1/workspaces/{id}", func(w http.ResponseWriter, req *http.Request) {
		ws, ok := b.spaces[mux.Vars(req)["id"]]
		if !ok {
			http.Error(w, `{"error":{"code":"not_found"}}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(ws)
	})
	r.HandleFunc("/v1/workspaces/{wid}/members/{uid}", func(w http.ResponseWriter, req *http.Request) {
		vars := mux.Vars(req)
		role, ok := b.roles[vars["wid"]+"/"+vars["uid"]]
		if !ok {
			http.Error(w, `{"error":{"code":"not_found"}}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"role": role.String()})
	})

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBackend) resolver() *APIResolver {
	client := apiclient.New(b.server.URL, nil, apiclient.WithLogger(quietLogger()))
	return NewAPIResolver(client, quietLogger())
}

func strPtr(s string) *string { return &s }

func TestResolveProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("bound workspace", func(t *testing.T) {
		b := newTestBackend(t)
		b.profiles["u1"] = &Profile{IdentityID: "u1", WorkspaceID: strPtr("w1")}

		p, err := b.resolver().ResolveProfile(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, p)
		require.NotNil(t, p.WorkspaceID)
		assert.Equal(t, "w1", *p.WorkspaceID)
	})

	t.Run("not found resolves to nil", func(t *testing.T) {
		b := newTestBackend(t)
		p, err := b.resolver().ResolveProfile(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("server error degrades to nil", func(t *testing.T) {
		b := newTestBackend(t)
		b.failWith = http.StatusInternalServerError

		p, err := b.resolver().ResolveProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("401 propagates", func(t *testing.T) {
		b := newTestBackend(t)
		b.failWith = http.StatusUnauthorized

		_, err := b.resolver().ResolveProfile(ctx, "u1")
		require.Error(t, err)
		assert.True(t, apiclient.IsAuth(err))
	})
}

func TestResolveWorkspace(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	b.spaces["w1"] = &Workspace{ID: "w1", Name: "Acme"}

	t.Run("found", func(t *testing.T) {
		w, err := b.resolver().ResolveWorkspace(ctx, "w1")
		require.NoError(t, err)
		require.NotNil(t, w)
		assert.Equal(t, "Acme", w.Name)
	})

	t.Run("missing", func(t *testing.T) {
		w, err := b.resolver().ResolveWorkspace(ctx, "w404")
		require.NoError(t, err)
		assert.Nil(t, w)
	})
}

func TestResolveRole(t *testing.T) {
	ctx := context.Background()

	t.Run("member", func(t *testing.T) {
		b := newTestBackend(t)
		b.roles["w1/u1"] = authz.RoleManager

		role, err := b.resolver().ResolveRole(ctx, "u1", "w1")
		require.NoError(t, err)
		require.NotNil(t, role)
		assert.Equal(t, authz.RoleManager, *role)
	})

	t.Run("not a member", func(t *testing.T) {
		b := newTestBackend(t)
		role, err := b.resolver().ResolveRole(ctx, "u1", "w1")
		require.NoError(t, err)
		assert.Nil(t, role)
	})

	t.Run("403 propagates", func(t *testing.T) {
		b := newTestBackend(t)
		b.failWith = http.StatusForbidden

		_, err := b.resolver().ResolveRole(ctx, "u1", "w1")
		require.Error(t, err)
		assert.True(t, apiclient.IsAuth(err))
	})
}

func TestResolverCaching(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	b.spaces["w1"] = &Workspace{ID: "w1", Name: "Acme"}
	r := b.resolver()

	_, err := r.ResolveWorkspace(ctx, "w1")
	require.NoError(t, err)
	_, err = r.ResolveWorkspace(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.requests.Load(), "second read must hit the cache")

	r.InvalidateCache()
	_, err = r.ResolveWorkspace(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.requests.Load(), "invalidated cache must refetch")
}

func TestResolverDoesNotCacheAbsence(t *testing.T) {
	// A degraded read must not pin "no workspace" for the TTL; a retry
	// (RefreshProfile) should go back to the server.
	ctx := context.Background()
	b := newTestBackend(t)
	r := b.resolver()

	p, err := r.ResolveProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)

	b.profiles["u1"] = &Profile{IdentityID: "u1", WorkspaceID: strPtr("w1")}
	p, err = r.ResolveProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
}
