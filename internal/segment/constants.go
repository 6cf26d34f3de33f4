// Package segment accumulates inbound audio frames into processable
// segments using a fixed frame-count flush policy.
package segment

// Buffer defaults
const (
	// DefaultFlushFrames is the frame count that triggers a flush.
	// Clients chunk at roughly 300ms, so 6 frames is about 2 seconds
	// of speech per segment.
	DefaultFlushFrames = 6
)
