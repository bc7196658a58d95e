package pointer

import (
	"testing"

	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/wmclient"
)

type fakeDraggable struct {
	bounds rect.Rect
}

func (f *fakeDraggable) Bounds() rect.Rect       { return f.bounds }
func (f *fakeDraggable) SetBounds(r rect.Rect)   { f.bounds = r }

func TestDragMoveTracksPointerOffset(t *testing.T) {
	win := &fakeDraggable{bounds: rect.Rect{X: 100, Y: 100, Width: 200, Height: 150}}
	d := newDragMove(win, 110, 120) // click 10px right, 20px down from the window's origin

	got := d.motion(210, 220) // pointer moved +100, +100
	want := rect.Rect{X: 200, Y: 200, Width: 200, Height: 150}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDragSizeBottomRightGrowsFromOrigin(t *testing.T) {
	win := &fakeDraggable{bounds: rect.Rect{X: 0, Y: 0, Width: 200, Height: 150}}
	d := newDragSizeBottomRight(win, 200, 150) // click exactly at the bottom-right corner

	got := d.motion(300, 250)
	want := rect.Rect{X: 0, Y: 0, Width: 300, Height: 250}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDragSizeTopLeftKeepsOppositeCornerFixed(t *testing.T) {
	win := &fakeDraggable{bounds: rect.Rect{X: 100, Y: 100, Width: 200, Height: 150}}
	d := newDragSizeTopLeft(win, 100, 100) // click exactly at the top-left corner

	got := d.motion(50, 80)
	// bottom-right corner (300, 250) must stay fixed.
	want := rect.Rect{X: 50, Y: 80, Width: 250, Height: 170}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDragSizeClampsNegativeDimensionToZero(t *testing.T) {
	win := &fakeDraggable{bounds: rect.Rect{X: 0, Y: 0, Width: 100, Height: 100}}
	d := newDragSizeBottomRight(win, 100, 100)

	got := d.motion(-50, -50)
	if got.Width != 0 || got.Height != 0 {
		t.Fatalf("expected dimensions clamped to zero, got %+v", got)
	}
}

func TestDragSizeTopRightAnchorsBottomLeft(t *testing.T) {
	win := &fakeDraggable{bounds: rect.Rect{X: 0, Y: 100, Width: 200, Height: 100}}
	d := newDragSizeTopRight(win, 200, 100) // click at top-right corner

	got := d.motion(260, 80)
	want := rect.Rect{X: 0, Y: 80, Width: 260, Height: 120}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDragSizeBottomLeftAnchorsTopRight(t *testing.T) {
	win := &fakeDraggable{bounds: rect.Rect{X: 100, Y: 0, Width: 200, Height: 100}}
	d := newDragSizeBottomLeft(win, 100, 100) // click at bottom-left corner

	got := d.motion(60, 150)
	want := rect.Rect{X: 60, Y: 0, Width: 240, Height: 150}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDragHintTextOmitsColsRowsWithoutIncrementHints(t *testing.T) {
	got := dragHintText(rect.Rect{X: 10, Y: 20, Width: 300, Height: 200}, nil)
	want := "10,20 300x200"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDragHintTextAddsColsRowsWithIncrementHints(t *testing.T) {
	hints := &wmclient.SizeHints{
		HasResizeInc: true, WidthInc: 10, HeightInc: 20,
		HasBaseSize: true, BaseWidth: 50, BaseHeight: 40,
	}
	got := dragHintText(rect.Rect{X: 0, Y: 0, Width: 150, Height: 140}, hints)
	want := "0,0 150x140 10 5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
