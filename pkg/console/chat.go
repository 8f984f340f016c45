package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/relaydesk/relaydesk/pkg/authz"
)

// doneSentinel terminates an SSE chat stream.
const doneSentinel = "[DONE]"

// ChatStream is a live agent reply delivered as server-sent events.
type ChatStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// StreamChat opens a test conversation against an agent. The caller must
// drain the stream with Recv until io.EOF and Close it. Requires write
// permission: test conversations consume model quota.
func (c *Client) StreamChat(ctx context.Context, agentID string, messages []ChatMessage) (*ChatStream, error) {
	prefix, err := c.scope(authz.ActionWrite)
	if err != nil {
		return nil, err
	}

	body, err := c.api.Stream(ctx, http.MethodPost, fmt.Sprintf("%s/agents/%s/chat", prefix, agentID),
		map[string]any{"messages": messages})
	if err != nil {
		return nil, err
	}

	return &ChatStream{
		body:    body,
		scanner: bufio.NewScanner(body),
	}, nil
}

// Recv returns the next delta. io.EOF signals a completed reply, whether
// via the [DONE] sentinel or the server closing the stream.
func (s *ChatStream) Recv() (*ChatDelta, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			// Comments, event names and blank keep-alive lines.
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == doneSentinel {
			return nil, io.EOF
		}

		var delta ChatDelta
		if err := json.Unmarshal([]byte(payload), &delta); err != nil {
			return nil, fmt.Errorf("malformed stream event: %w", err)
		}
		return &delta, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Close releases the underlying connection.
func (s *ChatStream) Close() error {
	return s.body.Close()
}
