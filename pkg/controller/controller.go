package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/relaydesk/relaydesk/pkg/authz"
	"github.com/relaydesk/relaydesk/pkg/identity"
	"github.com/relaydesk/relaydesk/pkg/workspace"
)

var (
	// ErrNotAuthenticated is returned by operations that require a
	// signed-in identity, before any network call is made.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrClosed is returned by operations invoked after Close.
	ErrClosed = errors.New("controller closed")

	// ErrSuperseded is returned by workspace writes when the server
	// acknowledged the change but the signed-in identity changed before
	// the result could be applied locally. The server-side binding stands
	// for the old identity; local state belongs to the new one.
	ErrSuperseded = errors.New("superseded by a newer session")
)

// cacheInvalidator is implemented by resolvers that cache reads (see
// workspace.APIResolver). Cached bindings go stale the moment the current
// (identity, workspace) pair changes.
type cacheInvalidator interface {
	InvalidateCache()
}

// Config assembles a Controller.
type Config struct {
	Source   identity.EventSource
	Resolver workspace.Resolver
	Switcher workspace.Switcher

	Logger  *logrus.Logger
	Metrics *Metrics

	// OnAuthError is invoked (on its own goroutine) when a background
	// resolution chain hits a 401/403. Background chains have no caller
	// to return the error to, and authorization failures must not be
	// swallowed: this hook is how a collaborator forces
	// re-authentication. Optional.
	OnAuthError func(error)
}

// Controller is the session/workspace authorization façade.
type Controller struct {
	source   identity.EventSource
	resolver workspace.Resolver
	switcher workspace.Switcher

	log         *logrus.Logger
	metrics     *Metrics
	onAuthError func(error)

	queue    *taskQueue
	done     chan struct{}
	loopDone chan struct{}
	closeOne sync.Once

	chainCtx    context.Context
	chainCancel context.CancelFunc

	unsubscribe func()
	started     bool

	mu    sync.RWMutex
	state State

	// chainSeq is owned by the loop goroutine. It increments whenever a
	// new resolution chain launches or a write invalidates in-flight
	// ones; a chain may only apply its result while its captured value
	// is still current.
	chainSeq uint64
}

// guard is a resolution chain's cancellation token: the identity and
// sequence the chain was launched for.
type guard struct {
	seq        uint64
	identityID string
}

// New creates a stopped Controller. Call Start to begin processing.
func New(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}

	return &Controller{
		source:      cfg.Source,
		resolver:    cfg.Resolver,
		switcher:    cfg.Switcher,
		log:         log,
		metrics:     cfg.Metrics,
		onAuthError: cfg.OnAuthError,
		queue:       newTaskQueue(),
		done:        make(chan struct{}),
		loopDone:    make(chan struct{}),
		state:       State{Status: StatusUnauthenticated},
	}
}

// Start subscribes to the identity event source and runs the bootstrap
// session query. Subscription happens first so no event is missed; the
// bootstrap answer is discarded if a live event lands before it.
func (c *Controller) Start(ctx context.Context) {
	if c.started {
		return
	}
	c.started = true
	c.chainCtx, c.chainCancel = context.WithCancel(context.Background())

	go c.loop()

	startEpoch := c.Snapshot().Epoch

	// The handler's only job is to enqueue. The source may deliver while
	// holding internal locks, and resolution involves network calls that
	// must not run inside the callback.
	c.unsubscribe = c.source.Subscribe(func(ev identity.Event) {
		sess := ev.Session
		c.queue.push(func() {
			c.applySession(sess, "event")
		})
	})

	go func() {
		sess, err := c.source.CurrentSession(ctx)
		c.queue.push(func() {
			if c.currentState().Epoch != startEpoch {
				// A live event already set a newer session; the
				// push-based source wins.
				c.metrics.observeSuperseded()
				return
			}
			if err != nil {
				c.log.WithError(err).Warn("bootstrap session query failed")
				return
			}
			c.applySession(sess, "bootstrap")
		})
	}()
}

// Close tears the controller down: unsubscribes from the event source,
// cancels in-flight resolution chains and stops the loop. Any async result
// arriving afterwards is discarded.
func (c *Controller) Close() {
	c.closeOne.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		if c.chainCancel != nil {
			c.chainCancel()
		}
		close(c.done)
		if c.started {
			<-c.loopDone
		}
	})
}

// Snapshot returns the current state. The returned pointers reference
// immutable values; the controller only ever replaces them wholesale.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsAuthenticated reports whether a session with a valid token is held.
func (c *Controller) IsAuthenticated() bool {
	return c.Snapshot().Authenticated()
}

// Workspace returns the current workspace, or nil.
func (c *Controller) Workspace() *workspace.Workspace {
	return c.Snapshot().Workspace
}

// Role returns the role held in the current workspace, or nil.
func (c *Controller) Role() *authz.Role {
	return c.Snapshot().Role
}

// HasPermission evaluates an action against the current role. Pure and
// synchronous; safe to call on every render.
func (c *Controller) HasPermission(action authz.Action) bool {
	return authz.HasPermission(c.Snapshot().Role, action)
}

// Token implements apiclient.TokenProvider with the current session token.
func (c *Controller) Token() string {
	if s := c.Snapshot().Session; s.Authenticated() {
		return s.Token
	}
	return ""
}

// Logout clears session, profile, workspace and role in one atomic update,
// then asks the identity event source to sign out.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.run(func() {
		c.clearState("logout")
	}); err != nil {
		return err
	}
	return c.source.SignOut(ctx)
}

// SwitchWorkspace performs a server-authoritative workspace switch. On
// success the local (workspace, role) pair is replaced atomically; on
// failure local state is untouched and the error is returned. If the
// identity changed while the server call was in flight the acknowledged
// binding is discarded and ErrSuperseded is returned.
func (c *Controller) SwitchWorkspace(ctx context.Context, workspaceID string) (*workspace.Membership, error) {
	snap := c.Snapshot()
	if !snap.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	m, err := c.switcher.SwitchWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var applied bool
	identityID := snap.Session.Identity.ID
	if err := c.run(func() {
		applied = c.applyBinding(identityID, &m.Workspace, &m.Role, "switch")
	}); err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrSuperseded
	}
	return m, nil
}

// CreateWorkspace creates a workspace with the caller as OWNER. Fails
// before any network call when no identity is signed in.
func (c *Controller) CreateWorkspace(ctx context.Context, name string) (*workspace.Workspace, error) {
	snap := c.Snapshot()
	if !snap.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	ws, err := c.switcher.CreateWorkspace(ctx, name)
	if err != nil {
		return nil, err
	}

	var applied bool
	owner := authz.RoleOwner
	identityID := snap.Session.Identity.ID
	if err := c.run(func() {
		applied = c.applyBinding(identityID, ws, &owner, "create")
	}); err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrSuperseded
	}
	return ws, nil
}

// RefreshProfile re-runs the profile → workspace → role resolution chain
// for the current identity. This is the only retry the controller offers;
// degraded reads are never retried automatically.
func (c *Controller) RefreshProfile() error {
	var launchErr error
	err := c.run(func() {
		st := c.currentState()
		if !st.Authenticated() {
			launchErr = ErrNotAuthenticated
			return
		}
		c.launchChain(st.Session.Identity.ID)
	})
	if err != nil {
		return err
	}
	return launchErr
}

// FetchUserWorkspaces enumerates the workspaces the identity belongs to.
// 401/403 from the server is returned as-is.
func (c *Controller) FetchUserWorkspaces(ctx context.Context) ([]workspace.Membership, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return c.switcher.ListMemberships(ctx)
}

// loop is the single consumer of the task queue. Every state mutation in
// the controller happens here, which is what makes "check then mutate"
// sequences atomic without locks around them.
func (c *Controller) loop() {
	defer close(c.loopDone)
	for {
		select {
		case <-c.done:
			return
		case <-c.queue.notify:
			for {
				fn, ok := c.queue.pop()
				if !ok {
					break
				}
				fn()
			}
		}
	}
}

// run enqueues fn and waits for the loop to execute it. Returns ErrClosed
// if the controller shuts down first.
func (c *Controller) run(fn func()) error {
	ran := make(chan struct{})
	c.queue.push(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// currentState reads state from loop tasks.
func (c *Controller) currentState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// setState replaces the snapshot wholesale and records the transition.
func (c *Controller) setState(next State) {
	c.mu.Lock()
	c.state = next
	c.mu.Unlock()
	c.metrics.observeState(next)
}

// applySession handles a session candidate from the event stream or the
// bootstrap query. Runs on the loop.
func (c *Controller) applySession(sess *identity.Session, origin string) {
	st := c.currentState()

	if !sess.Authenticated() {
		if st.Status == StatusUnauthenticated {
			return
		}
		c.clearState(origin)
		return
	}

	if st.Authenticated() && st.Session.Identity.ID == sess.Identity.ID {
		// Same identity: a token refresh. The derived workspace state
		// is still valid; only the session is replaced. The epoch
		// still advances so anything ordering on it sees the change.
		next := st
		next.Session = sess
		next.Epoch = st.Epoch + 1
		c.setState(next)
		return
	}

	// New identity. Derived state from the previous identity is garbage:
	// clear it in the same atomic replacement that installs the session.
	c.invalidateResolverCache()
	c.setState(State{
		Status:  StatusAuthenticating,
		Session: sess,
		Epoch:   st.Epoch + 1,
	})
	c.log.WithFields(logrus.Fields{
		"identity": sess.Identity.ID,
		"origin":   origin,
	}).Info("session established, resolving workspace binding")

	c.launchChain(sess.Identity.ID)
}

// clearState drops every field at once. Runs on the loop.
func (c *Controller) clearState(origin string) {
	st := c.currentState()
	c.chainSeq++ // strands in-flight chains
	c.invalidateResolverCache()
	c.setState(State{
		Status: StatusUnauthenticated,
		Epoch:  st.Epoch + 1,
	})
	c.log.WithField("origin", origin).Info("session cleared")
}

// applyBinding installs a server-acknowledged (workspace, role) pair and
// reports whether it was applied. Runs on the loop.
func (c *Controller) applyBinding(identityID string, ws *workspace.Workspace, role *authz.Role, origin string) bool {
	st := c.currentState()
	if !st.Authenticated() || st.Session.Identity.ID != identityID {
		// The session changed while the server call was in flight; the
		// acknowledgment belongs to a superseded identity.
		c.metrics.observeSuperseded()
		return false
	}

	c.chainSeq++ // a concurrent resolution chain must not overwrite this
	c.invalidateResolverCache()

	wsID := ws.ID
	next := st
	next.Profile = &workspace.Profile{IdentityID: identityID, WorkspaceID: &wsID}
	next.Workspace = ws
	next.Role = role
	next.Status = StatusReady
	c.setState(next)

	c.log.WithFields(logrus.Fields{
		"workspace": ws.ID,
		"role":      role.String(),
		"origin":    origin,
	}).Info("workspace binding applied")
	return true
}

// invalidateResolverCache purges cached reads when the resolver supports it.
func (c *Controller) invalidateResolverCache() {
	if inv, ok := c.resolver.(cacheInvalidator); ok {
		inv.InvalidateCache()
	}
}

// reportAuthError forwards a 401/403 from a background chain to the
// configured hook.
func (c *Controller) reportAuthError(err error) {
	c.log.WithError(err).Error("authorization failure during background resolution")
	if c.onAuthError != nil {
		go c.onAuthError(err)
	}
}
