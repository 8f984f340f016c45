package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relaydesk/relaydesk/pkg/console"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage agents in the active workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		a.waitSettled(ctx)
		agents, err := a.console.ListAgents(ctx)
		if err != nil {
			return err
		}
		if len(agents) == 0 {
			fmt.Println("No agents in this workspace.")
			return nil
		}
		for _, ag := range agents {
			fmt.Printf("%-24s %-10s %-20s %s\n", ag.ID, ag.Status, ag.Model, ag.Name)
		}
		return nil
	},
}

var (
	agentModel   string
	agentPersona string
)

var agentsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		a.waitSettled(ctx)
		ag, err := a.console.CreateAgent(ctx, console.CreateAgentRequest{
			Name:      args[0],
			Model:     agentModel,
			PersonaID: agentPersona,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created agent %s (%s)\n", ag.Name, ag.ID)
		return nil
	},
}

var agentsDeleteCmd = &cobra.Command{
	Use:   "delete <agent-id>",
	Short: "Delete an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		a.waitSettled(ctx)
		if err := a.console.DeleteAgent(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted agent %s\n", args[0])
		return nil
	},
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "Manage personas in the active workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var personasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		a.waitSettled(ctx)
		personas, err := a.console.ListPersonas(ctx)
		if err != nil {
			return err
		}
		if len(personas) == 0 {
			fmt.Println("No personas in this workspace.")
			return nil
		}
		for _, p := range personas {
			fmt.Printf("%-24s %-12s %s\n", p.ID, p.Tone, p.Name)
		}
		return nil
	},
}

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "View captured leads in the active workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		a.waitSettled(ctx)
		leads, err := a.console.ListLeads(ctx)
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			fmt.Println("No leads captured yet.")
			return nil
		}
		for _, l := range leads {
			fmt.Printf("%-24s %-28s %-16s %s\n", l.ID, l.Email, l.Phone, l.Name)
		}
		return nil
	},
}

func init() {
	agentsCreateCmd.Flags().StringVar(&agentModel, "model", "gpt-4o-mini", "model the agent runs on")
	agentsCreateCmd.Flags().StringVar(&agentPersona, "persona", "", "persona ID to attach")

	agentsCmd.AddCommand(agentsListCmd)
	agentsCmd.AddCommand(agentsCreateCmd)
	agentsCmd.AddCommand(agentsDeleteCmd)
	personasCmd.AddCommand(personasListCmd)
	leadsCmd.AddCommand(leadsListCmd)
}
