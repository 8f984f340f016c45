package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaydesk/relaydesk/pkg/apiclient"
	"github.com/relaydesk/relaydesk/pkg/authz"
)

func newSwitcherBackend(t *testing.T, memberships map[string]authz.Role) (*APISwitcher, *httptest.Server) {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/v1/workspaces/switch", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			WorkspaceID string `json:"workspace_id"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))

		role, ok := memberships[in.WorkspaceID]
		if !ok {
			http.Error(w, `{"error":{"code":"not_a_member","message":"membership check failed"}}`, http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(Membership{
			Workspace: Workspace{ID: in.WorkspaceID, Name: "ws-" + in.WorkspaceID, CreatedAt: time.Now().UTC()},
			Role:      role,
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/v1/workspaces", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
		if in.Name == "" {
			http.Error(w, `{"error":{"code":"invalid_name","message":"name required"}}`, http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Workspace{ID: "w-new", Name: in.Name, CreatedAt: time.Now().UTC()})
	}).Methods(http.MethodPost)

	r.HandleFunc("/v1/me/workspaces", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") == "" {
			http.Error(w, `{"error":{"code":"unauthenticated"}}`, http.StatusUnauthorized)
			return
		}
		out := struct {
			Memberships []Membership `json:"memberships"`
		}{}
		for id, role := range memberships {
			out.Memberships = append(out.Memberships, Membership{
				Workspace: Workspace{ID: id, Name: "ws-" + id},
				Role:      role,
			})
		}
		_ = json.NewEncoder(w).Encode(out)
	}).Methods(http.MethodGet)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	client := apiclient.New(server.URL, apiclient.TokenFunc(func() string { return "tok" }),
		apiclient.WithLogger(quietLogger()))
	return NewAPISwitcher(client, quietLogger()), server
}

func TestSwitchWorkspace(t *testing.T) {
	ctx := context.Background()
	sw, _ := newSwitcherBackend(t, map[string]authz.Role{"w2": authz.RoleViewer})

	t.Run("success returns atomic pair", func(t *testing.T) {
		m, err := sw.SwitchWorkspace(ctx, "w2")
		require.NoError(t, err)
		assert.Equal(t, "w2", m.Workspace.ID)
		assert.Equal(t, authz.RoleViewer, m.Role)
	})

	t.Run("rejection surfaces the error", func(t *testing.T) {
		m, err := sw.SwitchWorkspace(ctx, "w3")
		require.Error(t, err)
		assert.Nil(t, m)
		assert.True(t, apiclient.IsAuth(err))
		assert.Contains(t, err.Error(), "workspace switch rejected")
	})
}

func TestCreateWorkspace(t *testing.T) {
	ctx := context.Background()
	sw, _ := newSwitcherBackend(t, nil)

	t.Run("success", func(t *testing.T) {
		w, err := sw.CreateWorkspace(ctx, "Acme")
		require.NoError(t, err)
		assert.Equal(t, "w-new", w.ID)
		assert.Equal(t, "Acme", w.Name)
	})

	t.Run("server rejection", func(t *testing.T) {
		_, err := sw.CreateWorkspace(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workspace create rejected")
	})
}

func TestListMemberships(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		sw, _ := newSwitcherBackend(t, map[string]authz.Role{
			"w1": authz.RoleOwner,
			"w2": authz.RoleViewer,
		})
		ms, err := sw.ListMemberships(ctx)
		require.NoError(t, err)
		assert.Len(t, ms, 2)
	})

	t.Run("401 is re-thrown", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":{"code":"unauthenticated"}}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client := apiclient.New(server.URL, nil, apiclient.WithLogger(quietLogger()))
		sw := NewAPISwitcher(client, quietLogger())

		_, err := sw.ListMemberships(ctx)
		require.Error(t, err)
		assert.True(t, apiclient.IsAuth(err))
	})

	t.Run("other failures degrade to empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		client := apiclient.New(server.URL, nil, apiclient.WithLogger(quietLogger()))
		sw := NewAPISwitcher(client, quietLogger())

		ms, err := sw.ListMemberships(ctx)
		require.NoError(t, err)
		assert.Empty(t, ms)
	})
}
