package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "Manage workspace memberships",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var workspacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces the signed-in member belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		st := a.waitSettled(ctx)
		memberships, err := a.ctrl.FetchUserWorkspaces(ctx)
		if err != nil {
			return err
		}
		if len(memberships) == 0 {
			fmt.Println("No workspaces. Create one with 'relaydesk workspaces create <name>'.")
			return nil
		}

		active := ""
		if st.Workspace != nil {
			active = st.Workspace.ID
		}
		for _, m := range memberships {
			marker := " "
			if m.Workspace.ID == active {
				marker = "*"
			}
			fmt.Printf("%s %-24s %-10s %s\n", marker, m.Workspace.ID, m.Role, m.Workspace.Name)
		}
		return nil
	},
}

var workspacesSwitchCmd = &cobra.Command{
	Use:   "switch <workspace-id>",
	Short: "Switch the active workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		a.waitSettled(ctx)
		m, err := a.ctrl.SwitchWorkspace(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Switched to %s (%s) as %s\n", m.Workspace.Name, m.Workspace.ID, m.Role)
		return nil
	},
}

var workspacesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workspace and switch to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		a.waitSettled(ctx)
		ws, err := a.ctrl.CreateWorkspace(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created workspace %s (%s)\n", ws.Name, ws.ID)
		return nil
	},
}

func init() {
	workspacesCmd.AddCommand(workspacesListCmd)
	workspacesCmd.AddCommand(workspacesSwitchCmd)
	workspacesCmd.AddCommand(workspacesCreateCmd)
}
