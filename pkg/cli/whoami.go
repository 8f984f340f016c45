package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relaydesk/relaydesk/pkg/controller"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		if st := a.waitSettled(ctx); !st.Authenticated() {
			fmt.Println("Not signed in.")
			return nil
		}

		if err := a.ctrl.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity, workspace, and role",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		st := a.waitSettled(ctx)
		if !st.Authenticated() {
			fmt.Println("Not signed in. Run 'relaydesk login' first.")
			return nil
		}

		fmt.Printf("Identity:  %s (%s)\n", st.Session.Identity.Email, st.Session.Identity.ID)
		printWorkspaceLine(st)
		return nil
	},
}

// printWorkspaceLine prints the workspace and role portion of a snapshot.
func printWorkspaceLine(st controller.State) {
	if st.Status == controller.StatusReady {
		fmt.Printf("Workspace: %s (%s)\n", st.Workspace.Name, st.Workspace.ID)
		fmt.Printf("Role:      %s\n", *st.Role)
		return
	}
	if st.Authenticated() {
		fmt.Println("Workspace: none selected")
	}
}
