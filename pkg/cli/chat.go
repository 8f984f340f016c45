package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relaydesk/relaydesk/pkg/console"
)

var chatCmd = &cobra.Command{
	Use:   "chat <agent-id> <message>",
	Short: "Send a message to an agent and stream the reply",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		a.waitSettled(ctx)

		agentID := args[0]
		message := strings.Join(args[1:], " ")

		stream, err := a.console.StreamChat(ctx, agentID, []console.ChatMessage{
			{Role: "user", Content: message},
		})
		if err != nil {
			return err
		}
		defer stream.Close()

		for {
			delta, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("stream interrupted: %w", err)
			}
			fmt.Print(delta.Content)
		}
		fmt.Println()
		return nil
	},
}
