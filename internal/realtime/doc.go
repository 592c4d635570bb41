// Package realtime implements the venue WebSocket client.
//
// The client:
//   - Maintains one WebSocket connection per venue
//   - Authenticates via handshake frame or URL token
//   - Handles reconnection with exponential backoff
//   - Sends application-level keepalive pings while connected
//   - Routes inbound frames into a bounded message history
package realtime
