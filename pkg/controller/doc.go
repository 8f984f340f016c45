// Package controller implements the session/workspace authorization
// controller: the single source of truth for who is signed in, which
// workspace they are acting as, and what they may do.
//
// # Overview
//
// The controller subscribes to an identity.EventSource, resolves each
// session into its workspace binding and role via pkg/workspace, and
// exposes one consistent snapshot to every consumer. It is constructed
// explicitly, started once, passed by reference, and disposed with Close;
// there is no package-level singleton.
//
// # Concurrency model
//
// All state mutation happens on one internal goroutine that drains a task
// queue. Identity event handlers only enqueue, never resolve inline,
// because the event source may be holding its own lock while delivering
// and an inline network call could deadlock against it.
//
// Resolution chains run on their own goroutines, tagged at launch with the
// epoch and identity they were started for. The tag is re-checked on the
// loop immediately before the mutation is applied; a chain that completes
// after teardown, or after a newer session superseded it, is discarded
// silently. That is not a failure, it is superseded work.
//
// # Bootstrap ordering
//
// Start subscribes before querying CurrentSession so no event is missed.
// Each incoming session, live event or bootstrap answer, is stamped with
// a receipt sequence on the loop. The bootstrap answer only applies if no
// event landed first; when the two race, the push-based source wins.
//
// # Write discipline
//
// SwitchWorkspace and CreateWorkspace mutate the server first and the local
// snapshot only after acknowledgment. A failed write leaves the snapshot
// byte-for-byte unchanged.
//
// # Usage
//
//	ctrl := controller.New(controller.Config{
//		Source:   source,
//		Resolver: resolver,
//		Switcher: switcher,
//	})
//	ctrl.Start(ctx)
//	defer ctrl.Close()
//
//	if ctrl.HasPermission(authz.ActionWrite) {
//		// render the editor
//	}
package controller
