package registry

import (
	"context"
	"sync/atomic"

	"github.com/vaanihq/platform/internal/language"
	"github.com/vaanihq/platform/internal/segment"
)

// State is the session lifecycle: Connecting → Active → Closing → Closed.
type State int32

const (
	StateConnecting State = iota
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	return [...]string{"connecting", "active", "closing", "closed"}[s]
}

// Outbound is the session's handle to its transport. Implementations
// must tolerate concurrent sends; Close must be idempotent.
type Outbound interface {
	SendAudio(ctx context.Context, audio []byte) error
	SendNotice(ctx context.Context, text string) error
	Close(reason string)
}

// Session is one connected device's translation context within a
// conversation. Profiles are resolved at connect time and immutable;
// the segment buffer is owned exclusively by this session.
type Session struct {
	Identity     string
	Conversation string
	Source       language.Profile
	Target       language.Profile
	Buffer       *segment.Buffer

	out   Outbound
	state atomic.Int32
}

// NewSession creates a session in the Connecting state.
func NewSession(identity, conversation string, src, tgt language.Profile, buf *segment.Buffer, out Outbound) *Session {
	s := &Session{
		Identity:     identity,
		Conversation: conversation,
		Source:       src,
		Target:       tgt,
		Buffer:       buf,
		out:          out,
	}
	s.state.Store(int32(StateConnecting))
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Activate transitions Connecting → Active after a successful handshake.
func (s *Session) Activate() bool {
	return s.state.CompareAndSwap(int32(StateConnecting), int32(StateActive))
}

// Deliverable reports whether the dispatcher may send to this session.
func (s *Session) Deliverable() bool {
	return s.State() == StateActive
}

// SendAudio forwards synthesized audio to the transport.
func (s *Session) SendAudio(ctx context.Context, audio []byte) error {
	return s.out.SendAudio(ctx, audio)
}

// SendNotice forwards a text notice to the transport.
func (s *Session) SendNotice(ctx context.Context, text string) error {
	return s.out.SendNotice(ctx, text)
}

// Close moves the session to Closed, closing the transport and
// releasing the buffer. Safe to call from any state and any goroutine;
// only the first call acts.
func (s *Session) Close(reason string) {
	for {
		cur := s.state.Load()
		if State(cur) == StateClosing || State(cur) == StateClosed {
			return
		}
		if s.state.CompareAndSwap(cur, int32(StateClosing)) {
			break
		}
	}
	s.out.Close(reason)
	s.Buffer.Reset()
	s.state.Store(int32(StateClosed))
}
