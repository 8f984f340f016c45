// Package console provides typed clients for the dashboard's domain
// entities: agents, personas, knowledge sources, chat sessions and leads.
//
// # Overview
//
// Every operation here is workspace-scoped plumbing over pkg/apiclient. The
// interesting decisions (who is signed in, which workspace is current,
// what the role allows) belong to pkg/controller; this package only
// consumes that contract. Writes are preflighted against the current role
// so the console can fail fast with authz.ErrForbidden instead of burning
// a round trip the server would reject anyway.
//
// # Chat test console
//
// StreamChat runs a live conversation against an agent over server-sent
// events, the same transport the web dashboard's test console uses:
//
//	stream, err := console.StreamChat(ctx, agentID, messages)
//	if err != nil { ... }
//	defer stream.Close()
//	for {
//		delta, err := stream.Recv()
//		if err == io.EOF {
//			break
//		}
//		fmt.Print(delta.Content)
//	}
package console
