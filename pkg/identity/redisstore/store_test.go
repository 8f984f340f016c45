package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaydesk/relaydesk/pkg/identity"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := New(mr.Addr(), "", "console-1")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	sess := &identity.Session{
		Identity:  identity.Identity{ID: "u1", Email: "u1@example.com"},
		Token:     "tok-u1",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "u1", loaded.Identity.ID)
	assert.Equal(t, "tok-u1", loaded.Token)
}

func TestLoadMissing(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadExpiredSession(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	sess := &identity.Session{
		Identity:  identity.Identity{ID: "u1"},
		Token:     "tok-u1",
		ExpiresAt: time.Now().Add(-time.Minute).UTC(),
	}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded, "expired session must read as absent")

	// And the key is gone for the next read too.
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	require.NoError(t, mr.Set("relaydesk:session:console-1", "{not json"))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	sess := &identity.Session{Identity: identity.Identity{ID: "u1"}, Token: "tok"}
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Clear(ctx))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestInstanceIsolation(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	a, err := New(mr.Addr(), "", "console-a")
	require.NoError(t, err)
	defer a.Close()
	b, err := New(mr.Addr(), "", "console-b")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Save(ctx, &identity.Session{Identity: identity.Identity{ID: "u1"}, Token: "tok"}))

	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded, "instances must not share sessions")
}

func TestNewConnectionFailure(t *testing.T) {
	_, err := New("127.0.0.1:1", "", "console-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
