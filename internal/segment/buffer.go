// Package segment accumulates inbound audio frames into processable
// segments using a fixed frame-count flush policy.
package segment

import (
	"sync"

	apperr "github.com/vaanihq/platform/internal/errors"
)

// Segment is one buffered unit of encoded audio, consumed exactly once
// by the pipeline.
type Segment []byte

// ErrEmptySegment is returned by Take when no frames have accumulated.
// Surfacing it to a user indicates a controller bug, not a user error.
var ErrEmptySegment = apperr.New(apperr.CodeEmptySegment, "no audio accumulated")

// Buffer accumulates raw audio frames for one session until the flush
// threshold is reached. Flushing on a fixed frame count bounds latency
// and buffer growth at the cost of possible mid-word cuts; that trade
// is accepted, not a bug to fix here.
type Buffer struct {
	mu        sync.Mutex
	threshold int
	frames    int
	data      []byte
}

// NewBuffer creates a buffer that flushes after threshold frames.
func NewBuffer(threshold int) *Buffer {
	if threshold <= 0 {
		threshold = DefaultFlushFrames
	}
	return &Buffer{threshold: threshold}
}

// Append adds one frame to the buffer. Empty frames are counted so the
// flush cadence tracks the client's send interval regardless of content.
func (b *Buffer) Append(frame []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, frame...)
	b.frames++
}

// ShouldFlush reports whether the accumulated frame count has reached
// the flush threshold.
func (b *Buffer) ShouldFlush() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames >= b.threshold
}

// Take returns the accumulated bytes as a new segment and resets the
// buffer. Ownership of the returned segment transfers to the caller.
func (b *Buffer) Take() (Segment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) == 0 {
		b.frames = 0
		return nil, ErrEmptySegment
	}
	seg := Segment(b.data)
	b.data = nil
	b.frames = 0
	return seg, nil
}

// Frames returns the number of frames accumulated since the last flush.
func (b *Buffer) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Reset discards any accumulated data, releasing the backing storage.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	b.frames = 0
}
