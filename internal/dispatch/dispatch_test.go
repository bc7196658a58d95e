package dispatch

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/tailhook/tilenol/internal/rect"
)

func TestRectFromConfigureRequestAppliesOnlyMaskedFields(t *testing.T) {
	current := rect.Rect{X: 10, Y: 20, Width: 100, Height: 200}
	e := xproto.ConfigureRequestEvent{
		ValueMask: uint16(xproto.ConfigWindowWidth),
		Width:     150,
	}
	got := rectFromConfigureRequest(e, current)
	want := rect.Rect{X: 10, Y: 20, Width: 150, Height: 200}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRectFromConfigureRequestAllFields(t *testing.T) {
	current := rect.Rect{}
	e := xproto.ConfigureRequestEvent{
		ValueMask: uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
			xproto.ConfigWindowWidth | xproto.ConfigWindowHeight),
		X: 5, Y: 6, Width: 7, Height: 8,
	}
	got := rectFromConfigureRequest(e, current)
	want := rect.Rect{X: 5, Y: 6, Width: 7, Height: 8}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestIsRealFocusNotifyRejectsGrabModes(t *testing.T) {
	if isRealFocusNotify(xproto.NotifyModeGrab, xproto.NotifyDetailAncestor) {
		t.Fatal("grab-mode focus notify should be filtered out")
	}
	if isRealFocusNotify(xproto.NotifyModeUngrab, xproto.NotifyDetailAncestor) {
		t.Fatal("ungrab-mode focus notify should be filtered out")
	}
}

func TestIsRealFocusNotifyRejectsPseudoPointerDetail(t *testing.T) {
	if isRealFocusNotify(xproto.NotifyModeNormal, xproto.NotifyDetailPointer) {
		t.Fatal("NotifyDetailPointer should be filtered out")
	}
	if isRealFocusNotify(xproto.NotifyModeNormal, xproto.NotifyDetailPointerRoot) {
		t.Fatal("NotifyDetailPointerRoot should be filtered out")
	}
	if isRealFocusNotify(xproto.NotifyModeNormal, xproto.NotifyDetailNone) {
		t.Fatal("NotifyDetailNone should be filtered out")
	}
}

func TestIsRealFocusNotifyAcceptsOrdinaryTransitions(t *testing.T) {
	if !isRealFocusNotify(xproto.NotifyModeNormal, xproto.NotifyDetailNonlinear) {
		t.Fatal("an ordinary normal-mode focus transition should not be filtered")
	}
}

func TestWindowAsLayoutNilWindow(t *testing.T) {
	if got := windowAsLayout(nil); got != nil {
		t.Fatalf("expected nil for a nil window, got %v", got)
	}
}

func TestFocusLayoutWindowNilIsNoop(t *testing.T) {
	// Must not panic.
	focusLayoutWindow(nil)
}

func TestConfigureValuesRespectsMask(t *testing.T) {
	e := xproto.ConfigureRequestEvent{
		ValueMask: uint16(xproto.ConfigWindowWidth | xproto.ConfigWindowHeight),
		Width:     42, Height: 24,
	}
	got := configureValues(e)
	want := []uint32{42, 24}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
