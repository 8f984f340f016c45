package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySource is an in-process EventSource. It backs local development
// ("relaydesk login --local") and the test suites of every consumer.
//
// Events are delivered synchronously while the source's mutex is held.
// That mirrors how real provider SDKs deliver callbacks and means a handler
// that performs blocking work inline (in particular one that calls
// CurrentSession or SignOut from inside the callback) will deadlock.
// Handlers are expected to enqueue and return.
type MemorySource struct {
	mu       sync.Mutex
	session  *Session
	handlers map[string]Handler
	store    SessionStore
}

// NewMemorySource creates an empty MemorySource. store may be nil, in which
// case sessions are process-lifetime only.
func NewMemorySource(store SessionStore) *MemorySource {
	return &MemorySource{
		handlers: make(map[string]Handler),
		store:    store,
	}
}

// Subscribe registers a handler and returns its removal function.
func (m *MemorySource) Subscribe(h Handler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.handlers[id] = h

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers, id)
	}
}

// CurrentSession returns the session currently held by the source. If the
// source is empty and a SessionStore is configured, it attempts to restore
// the persisted session first.
func (m *MemorySource) CurrentSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	if m.session != nil {
		s := *m.session
		m.mu.Unlock()
		return &s, nil
	}
	store := m.store
	m.mu.Unlock()

	if store == nil {
		return nil, nil
	}

	restored, err := store.Load(ctx)
	if err != nil || restored == nil {
		return nil, err
	}

	m.mu.Lock()
	// A sign-in may have raced the restore; the live session wins.
	if m.session == nil {
		m.session = restored
	}
	s := *m.session
	m.mu.Unlock()
	return &s, nil
}

// SignIn installs a session and emits EventSignedIn.
func (m *MemorySource) SignIn(ctx context.Context, s Session) {
	m.setSession(&s, EventSignedIn)
	if m.store != nil {
		_ = m.store.Save(ctx, &s)
	}
}

// RefreshToken replaces the current session's token and expiry and emits
// EventTokenRefreshed. No-op when signed out.
func (m *MemorySource) RefreshToken(ctx context.Context, token string, expiresAt time.Time) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return
	}
	next := *m.session
	next.Token = token
	next.ExpiresAt = expiresAt
	m.session = &next
	m.emitLocked(Event{Kind: EventTokenRefreshed, Session: &next})
	m.mu.Unlock()

	if m.store != nil {
		_ = m.store.Save(ctx, &next)
	}
}

// SignOut clears the session and emits EventSignedOut.
func (m *MemorySource) SignOut(ctx context.Context) error {
	m.setSession(nil, EventSignedOut)
	if m.store != nil {
		return m.store.Clear(ctx)
	}
	return nil
}

func (m *MemorySource) setSession(s *Session, kind EventKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.emitLocked(Event{Kind: kind, Session: s})
}

// emitLocked delivers to every handler while m.mu is held. Callers own the
// lock.
func (m *MemorySource) emitLocked(ev Event) {
	for _, h := range m.handlers {
		h(ev)
	}
}
