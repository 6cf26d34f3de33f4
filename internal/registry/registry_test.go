package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	apperr "github.com/vaanihq/platform/internal/errors"
	"github.com/vaanihq/platform/internal/language"
	"github.com/vaanihq/platform/internal/segment"
)

// nopOutbound is an Outbound that records nothing.
type nopOutbound struct{}

func (nopOutbound) SendAudio(context.Context, []byte) error  { return nil }
func (nopOutbound) SendNotice(context.Context, string) error { return nil }
func (nopOutbound) Close(string)                             {}

func newTestSession(identity, conv string) *Session {
	return NewSession(identity, conv,
		language.Resolve("English"), language.Resolve("Hindi"),
		segment.NewBuffer(6), nopOutbound{})
}

func TestRegisterAndPeers(t *testing.T) {
	r := New(4)
	a := newTestSession("a", "room1")
	b := newTestSession("b", "room1")
	c := newTestSession("c", "room1")

	for _, s := range []*Session{a, b, c} {
		if _, err := r.Register("room1", s); err != nil {
			t.Fatalf("Register(%s) error: %v", s.Identity, err)
		}
	}

	peers := r.Peers("room1", "a")
	if len(peers) != 2 {
		t.Fatalf("Peers excluding a = %d sessions, want 2", len(peers))
	}
	for _, p := range peers {
		if p.Identity == "a" {
			t.Error("Peers included the excluded identity")
		}
	}
}

func TestPeersAbsentConversation(t *testing.T) {
	r := New(2)
	if peers := r.Peers("nope", "x"); len(peers) != 0 {
		t.Errorf("Peers of absent conversation = %d, want 0", len(peers))
	}
}

func TestRegisterReplacesSameIdentity(t *testing.T) {
	r := New(2)
	first := newTestSession("dev", "room1")
	second := newTestSession("dev", "room1")

	if _, err := r.Register("room1", first); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	prior, err := r.Register("room1", second)
	if err != nil {
		t.Fatalf("Register replacement error: %v", err)
	}
	if prior != first {
		t.Error("Register did not return the replaced session")
	}
	if r.Count("room1") != 1 {
		t.Errorf("Count = %d after replacement, want 1", r.Count("room1"))
	}
}

func TestCapacityExceeded(t *testing.T) {
	r := New(2)
	if _, err := r.Register("room1", newTestSession("a", "room1")); err != nil {
		t.Fatalf("Register(a) error: %v", err)
	}
	if _, err := r.Register("room1", newTestSession("b", "room1")); err != nil {
		t.Fatalf("Register(b) error: %v", err)
	}

	_, err := r.Register("room1", newTestSession("c", "room1"))
	if err == nil {
		t.Fatal("third Register succeeded, want ErrConversationFull")
	}
	if !apperr.IsCode(err, apperr.CodeCapacityExceeded) {
		t.Errorf("error code = %v, want CodeCapacityExceeded", apperr.CodeOf(err))
	}
	if r.Count("room1") != 2 {
		t.Errorf("Count = %d after rejected join, want 2", r.Count("room1"))
	}

	// Replacing an existing member is allowed at capacity.
	if _, err := r.Register("room1", newTestSession("a", "room1")); err != nil {
		t.Errorf("replacement at capacity failed: %v", err)
	}
}

func TestUnregister(t *testing.T) {
	r := New(2)
	a := newTestSession("a", "room1")
	b := newTestSession("b", "room1")
	r.Register("room1", a)
	r.Register("room1", b)

	r.Unregister("room1", "a")
	if r.Count("room1") != 1 {
		t.Errorf("Count = %d after Unregister, want 1", r.Count("room1"))
	}

	// Absent identity and conversation are no-ops.
	r.Unregister("room1", "ghost")
	r.Unregister("no-room", "a")

	r.Unregister("room1", "b")
	if r.Count("room1") != 0 {
		t.Errorf("Count = %d after removing all, want 0", r.Count("room1"))
	}
}

func TestReleaseIgnoresReplacedSession(t *testing.T) {
	r := New(2)
	old := newTestSession("dev", "room1")
	r.Register("room1", old)

	replacement := newTestSession("dev", "room1")
	r.Register("room1", replacement)

	// The old controller tearing down must not evict the replacement.
	r.Release("room1", old)
	if r.Count("room1") != 1 {
		t.Fatalf("Count = %d after stale Release, want 1", r.Count("room1"))
	}

	r.Release("room1", replacement)
	if r.Count("room1") != 0 {
		t.Errorf("Count = %d after Release, want 0", r.Count("room1"))
	}
}

func TestConversationsAreIsolated(t *testing.T) {
	r := New(2)
	r.Register("room1", newTestSession("a", "room1"))
	r.Register("room1", newTestSession("b", "room1"))
	r.Register("room2", newTestSession("a", "room2"))

	if got := len(r.Peers("room1", "a")); got != 1 {
		t.Errorf("room1 peers = %d, want 1", got)
	}
	if got := len(r.Peers("room2", "a")); got != 0 {
		t.Errorf("room2 peers = %d, want 0", got)
	}

	r.Unregister("room2", "a")
	if r.Count("room1") != 2 {
		t.Error("unregistering in room2 affected room1")
	}
}

func TestConcurrentRegistrationOtherConversations(t *testing.T) {
	r := New(2)
	r.Register("stable", newTestSession("a", "stable"))
	r.Register("stable", newTestSession("b", "stable"))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conv := fmt.Sprintf("conv-%d", i)
			s := newTestSession("dev", conv)
			if _, err := r.Register(conv, s); err != nil {
				t.Errorf("Register(%s) error: %v", conv, err)
			}
			if got := len(r.Peers("stable", "a")); got != 1 {
				t.Errorf("stable peers = %d during churn, want 1", got)
			}
			r.Release(conv, s)
		}(i)
	}
	wg.Wait()

	if r.Count("stable") != 2 {
		t.Errorf("stable Count = %d after churn, want 2", r.Count("stable"))
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestSession("dev", "room1")

	if s.State() != StateConnecting {
		t.Errorf("initial state = %v, want connecting", s.State())
	}
	if s.Deliverable() {
		t.Error("connecting session is deliverable")
	}

	if !s.Activate() {
		t.Fatal("Activate failed from Connecting")
	}
	if !s.Deliverable() {
		t.Error("active session not deliverable")
	}
	if s.Activate() {
		t.Error("Activate succeeded twice")
	}

	s.Buffer.Append([]byte("data"))
	s.Close("bye")
	if s.State() != StateClosed {
		t.Errorf("state after Close = %v, want closed", s.State())
	}
	if s.Deliverable() {
		t.Error("closed session is deliverable")
	}
	if s.Buffer.Len() != 0 {
		t.Error("Close did not release the buffer")
	}

	// Idempotent.
	s.Close("again")
}
