package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relaydesk",
	Short: "Relaydesk multi-tenant dashboard console",
	Long: `relaydesk is the command line console for the Relaydesk agent platform.

It signs in against the platform identity provider, tracks which workspace
is active and what the signed-in member may do there, and exposes workspace
and agent operations as subcommands.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(workspacesCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(leadsCmd)
	rootCmd.AddCommand(chatCmd)
}
