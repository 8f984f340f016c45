package controller

import (
	"time"

	"github.com/relaydesk/relaydesk/pkg/authz"
	"github.com/relaydesk/relaydesk/pkg/workspace"
)

// launchChain starts the profile → workspace → role resolution chain for
// identityID. Runs on the loop; the chain itself runs on its own goroutine
// and reports back through the task queue.
func (c *Controller) launchChain(identityID string) {
	c.chainSeq++
	g := guard{seq: c.chainSeq, identityID: identityID}
	go c.resolveChain(g)
}

// guardHolds reports whether a chain's result may still be applied: the
// chain must be the newest one launched and the identity it resolved for
// must still be signed in. Runs on the loop, immediately before the
// mutation, never earlier.
func (c *Controller) guardHolds(g guard) bool {
	if g.seq != c.chainSeq {
		return false
	}
	st := c.currentState()
	return st.Authenticated() && st.Session.Identity.ID == g.identityID
}

// resolveChain performs the read chain off-loop and enqueues one atomic
// apply. Read failures degrade to absent values; only 401/403 is reported,
// through the OnAuthError hook, because background work has no caller to
// throw to.
func (c *Controller) resolveChain(g guard) {
	start := time.Now()
	ctx := c.chainCtx

	var (
		ws   *workspace.Workspace
		role *authz.Role
	)

	profile, err := c.resolver.ResolveProfile(ctx, g.identityID)
	if err != nil {
		c.reportAuthError(err)
		profile = nil
	}

	if profile != nil && profile.WorkspaceID != nil {
		ws, err = c.resolver.ResolveWorkspace(ctx, *profile.WorkspaceID)
		if err != nil {
			c.reportAuthError(err)
			ws = nil
		}
		if ws != nil {
			// Role is only meaningful once the workspace is known;
			// a failed workspace read skips role resolution
			// entirely.
			role, err = c.resolver.ResolveRole(ctx, g.identityID, ws.ID)
			if err != nil {
				c.reportAuthError(err)
				role = nil
			}
		}
	}

	c.queue.push(func() {
		if !c.guardHolds(g) {
			c.metrics.observeSuperseded()
			return
		}

		if c.metrics != nil {
			c.metrics.ResolutionDuration.Observe(time.Since(start).Seconds())
		}

		st := c.currentState()
		next := st
		next.Profile = profile

		if ws != nil && role != nil {
			next.Workspace = ws
			next.Role = role
			next.Status = StatusReady
		} else {
			// Authenticated but workspace-less: either no binding
			// exists or part of the chain degraded. A role without
			// its workspace (or the reverse) is never applied;
			// the pair is atomic or absent.
			next.Workspace = nil
			next.Role = nil
			next.Status = StatusNoWorkspace
		}
		c.setState(next)
	})
}
