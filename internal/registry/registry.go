// Package registry tracks the live sessions of each conversation and is
// the only state shared across session goroutines.
package registry

import (
	"sync"

	apperr "github.com/vaanihq/platform/internal/errors"
)

// ErrConversationFull is returned by Register when a conversation is at
// capacity and the joining identity is not already a member.
var ErrConversationFull = apperr.New(apperr.CodeCapacityExceeded, "conversation full")

// Registry maps conversation IDs to their member sessions, keyed by
// device identity. All operations are atomic; callers never see the
// raw maps.
type Registry struct {
	mu       sync.RWMutex
	capacity int
	convs    map[string]map[string]*Session
}

// New creates a registry admitting at most capacity sessions per
// conversation.
func New(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		convs:    make(map[string]map[string]*Session),
	}
}

// Register inserts s into its conversation, replacing any prior session
// with the same identity. The replaced session, if any, is returned so
// the caller can close it. Returns ErrConversationFull when the
// conversation is at capacity and the identity is new.
func (r *Registry) Register(convID string, s *Session) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.convs[convID]
	if !ok {
		members = make(map[string]*Session, r.capacity)
		r.convs[convID] = members
	}

	prior, exists := members[s.Identity]
	if !exists && len(members) >= r.capacity {
		if len(members) == 0 {
			delete(r.convs, convID)
		}
		return nil, ErrConversationFull
	}

	members[s.Identity] = s
	return prior, nil
}

// Unregister removes the session with the given identity. No-op if the
// conversation or identity is absent.
func (r *Registry) Unregister(convID, identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(convID, identity, nil)
}

// Release removes s from its conversation only if it is still the
// registered session for its identity. A session replaced by a
// reconnect must not evict its replacement on teardown.
func (r *Registry) Release(convID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(convID, s.Identity, s)
}

func (r *Registry) removeLocked(convID, identity string, match *Session) {
	members, ok := r.convs[convID]
	if !ok {
		return
	}
	cur, ok := members[identity]
	if !ok || (match != nil && cur != match) {
		return
	}
	delete(members, identity)
	if len(members) == 0 {
		delete(r.convs, convID)
	}
}

// Peers returns a point-in-time snapshot of every session in the
// conversation except the one with the excluded identity. Absent
// conversations yield an empty slice, never an error.
func (r *Registry) Peers(convID, excluding string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.convs[convID]
	peers := make([]*Session, 0, len(members))
	for id, s := range members {
		if id == excluding {
			continue
		}
		peers = append(peers, s)
	}
	return peers
}

// Count returns the number of sessions in a conversation.
func (r *Registry) Count(convID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.convs[convID])
}
