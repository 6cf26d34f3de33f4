package segment

import (
	"bytes"
	"testing"

	apperr "github.com/vaanihq/platform/internal/errors"
)

func TestFlushAtThreshold(t *testing.T) {
	b := NewBuffer(3)

	for i := 0; i < 2; i++ {
		b.Append([]byte{byte(i)})
		if b.ShouldFlush() {
			t.Fatalf("ShouldFlush() = true after %d frames, want false", i+1)
		}
	}

	b.Append([]byte{2})
	if !b.ShouldFlush() {
		t.Fatal("ShouldFlush() = false at threshold, want true")
	}
}

func TestTakeReturnsAccumulatedBytes(t *testing.T) {
	b := NewBuffer(2)
	b.Append([]byte("ab"))
	b.Append([]byte("cd"))

	seg, err := b.Take()
	if err != nil {
		t.Fatalf("Take() error: %v", err)
	}
	if !bytes.Equal(seg, []byte("abcd")) {
		t.Errorf("segment = %q, want %q", seg, "abcd")
	}
}

func TestTakeResetsState(t *testing.T) {
	b := NewBuffer(2)
	b.Append([]byte("x"))
	b.Append([]byte("y"))

	if _, err := b.Take(); err != nil {
		t.Fatalf("Take() error: %v", err)
	}
	if b.Frames() != 0 {
		t.Errorf("Frames() = %d after Take, want 0", b.Frames())
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d after Take, want 0", b.Len())
	}
	if b.ShouldFlush() {
		t.Error("ShouldFlush() = true after Take, want false")
	}
}

func TestTakeEmptyFails(t *testing.T) {
	b := NewBuffer(4)

	seg, err := b.Take()
	if err == nil {
		t.Fatalf("Take() on empty buffer returned segment %v, want error", seg)
	}
	if !apperr.IsCode(err, apperr.CodeEmptySegment) {
		t.Errorf("Take() error code = %v, want CodeEmptySegment", apperr.CodeOf(err))
	}
	if seg != nil {
		t.Errorf("segment = %v, want nil", seg)
	}
}

func TestEmptyFramesCountTowardFlush(t *testing.T) {
	b := NewBuffer(2)
	b.Append(nil)
	b.Append(nil)

	if !b.ShouldFlush() {
		t.Fatal("ShouldFlush() = false after 2 empty frames, want true")
	}
	// Nothing accumulated, so Take must still refuse to yield a segment.
	if _, err := b.Take(); err == nil {
		t.Fatal("Take() with only empty frames succeeded, want ErrEmptySegment")
	}
	if b.Frames() != 0 {
		t.Errorf("Frames() = %d after failed Take, want 0", b.Frames())
	}
}

func TestResetReleasesData(t *testing.T) {
	b := NewBuffer(10)
	b.Append([]byte("data"))
	b.Reset()

	if b.Len() != 0 || b.Frames() != 0 {
		t.Errorf("after Reset: Len() = %d, Frames() = %d, want 0, 0", b.Len(), b.Frames())
	}
}

func TestZeroThresholdUsesDefault(t *testing.T) {
	b := NewBuffer(0)
	for i := 0; i < DefaultFlushFrames-1; i++ {
		b.Append([]byte{0})
	}
	if b.ShouldFlush() {
		t.Fatal("ShouldFlush() = true before default threshold")
	}
	b.Append([]byte{0})
	if !b.ShouldFlush() {
		t.Fatal("ShouldFlush() = false at default threshold")
	}
}
