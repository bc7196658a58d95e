package ewmh

import (
	"bytes"
	"testing"
)

func TestJoinNullTerminatedSeparatesEachEntry(t *testing.T) {
	got := joinNullTerminated([]string{"web", "term", "im"})
	want := []byte("web\x00term\x00im\x00")
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJoinNullTerminatedEmpty(t *testing.T) {
	got := joinNullTerminated(nil)
	if len(got) != 0 {
		t.Fatalf("expected empty output for no names, got %q", got)
	}
}

func TestWMStateConstantsMatchICCCM(t *testing.T) {
	if withdrawnState != 0 {
		t.Fatalf("WithdrawnState must be ICCCM 0, got %d", withdrawnState)
	}
	if normalState != 1 {
		t.Fatalf("NormalState must be ICCCM 1, got %d", normalState)
	}
}
