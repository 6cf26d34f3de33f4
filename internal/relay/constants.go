// Package relay provides the WebSocket endpoint, per-session control
// loop, and broadcast dispatch for live voice translation.
package relay

import "time"

// Relay configuration constants
const (
	// DefaultConversation groups sessions that do not name a room.
	DefaultConversation = "default"

	// Inbound frame rate limiting per connection (sliding window).
	RateLimitFrames = 30
	RateLimitWindow = time.Second

	// CapacityNotice is sent before closing a connection rejected at
	// the conversation limit.
	CapacityNotice = "error: conversation is full"

	// closeReasonLimit keeps close reasons inside the control-frame
	// payload budget.
	closeReasonLimit = 120
)
