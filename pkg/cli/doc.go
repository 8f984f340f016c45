// Package cli implements the relaydesk command line console.
//
// # Overview
//
// The console signs in against the platform's OIDC provider, keeps a live
// authorization snapshot through pkg/controller, and exposes workspace and
// agent operations as cobra subcommands.
//
// # Commands
//
//	relaydesk login                    Sign in via the browser
//	relaydesk logout                   Sign out and clear the session
//	relaydesk whoami                   Show the current identity and workspace
//	relaydesk workspaces list          List workspace memberships
//	relaydesk workspaces switch <id>   Switch the active workspace
//	relaydesk workspaces create <name> Create a workspace and switch to it
//	relaydesk agents list              List agents in the active workspace
//	relaydesk personas list            List personas in the active workspace
//	relaydesk leads list               List captured leads
//	relaydesk chat <agent-id> <text>   Stream a chat reply from an agent
//
// # Related Packages
//
//   - pkg/controller: Authorization state behind every command
//   - pkg/console: Workspace-scoped dashboard resources
package cli
