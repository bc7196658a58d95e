package layout

import (
	"testing"

	"github.com/tailhook/tilenol/internal/rect"
)

// fakeWindow is a minimal layout.Window for exercising the tree in
// isolation from xcore/wmclient, the way tile.py's tests fake out windows
// with plain objects carrying nothing but set_bounds/show/hide.
type fakeWindow struct {
	id      WindowID
	bounds  rect.Rect
	visible bool
	stack   string
}

func newFakeWindow(id WindowID) *fakeWindow { return &fakeWindow{id: id} }

func (w *fakeWindow) ID() WindowID             { return w.id }
func (w *fakeWindow) SetBounds(r rect.Rect)     { w.bounds = r }
func (w *fakeWindow) Show()                     { w.visible = true }
func (w *fakeWindow) Hide()                     { w.visible = false }
func (w *fakeWindow) StackName() string         { return w.stack }
func (w *fakeWindow) SetStackName(name string)  { w.stack = name }

func mustPtr(v uint32) *uint32 { return &v }
func intPtr(v int) *int        { return &v }

// Scenario A (spec.md §8): Split{ left:Stack(weight=3, limit=1, priority=0),
// right:TileStack } at (0,0,800,600).
func TestSplitScenarioA(t *testing.T) {
	left := NewStack(StackConfig{Name: "left", Mode: Tiled, Axis: Vertical, Weight: 3, Limit: intPtr(1), Priority: intPtr(0)})
	right := NewStack(StackConfig{Name: "right", Mode: Tiled, Axis: Vertical})
	split := NewSplit(Vertical, false, left, right)
	tree := NewTree(split)
	tree.SetBounds(rect.Rect{X: 0, Y: 0, Width: 800, Height: 600})

	w1, w2, w3 := newFakeWindow(1), newFakeWindow(2), newFakeWindow(3)

	if !tree.Add(w1) {
		t.Fatal("expected w1 to be placed")
	}
	tree.Relayout()
	want1 := rect.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	if w1.bounds != want1 {
		t.Fatalf("w1 = %+v, want %+v", w1.bounds, want1)
	}

	if !tree.Add(w2) {
		t.Fatal("expected w2 to be placed")
	}
	tree.Relayout()
	if want := (rect.Rect{X: 0, Y: 0, Width: 600, Height: 600}); w1.bounds != want {
		t.Fatalf("w1 after w2 = %+v, want %+v", w1.bounds, want)
	}
	if want := (rect.Rect{X: 600, Y: 0, Width: 200, Height: 600}); w2.bounds != want {
		t.Fatalf("w2 = %+v, want %+v", w2.bounds, want)
	}

	if !tree.Add(w3) {
		t.Fatal("expected w3 to be placed (left is full, right accepts)")
	}
	tree.Relayout()
	if want := (rect.Rect{X: 600, Y: 0, Width: 200, Height: 300}); w2.bounds != want {
		t.Fatalf("w2 after w3 = %+v, want %+v", w2.bounds, want)
	}
	if want := (rect.Rect{X: 600, Y: 300, Width: 200, Height: 300}); w3.bounds != want {
		t.Fatalf("w3 = %+v, want %+v", w3.bounds, want)
	}
	if w1.stack != "left" || w2.stack != "right" || w3.stack != "right" {
		t.Fatalf("unexpected stack assignment: %s %s %s", w1.stack, w2.stack, w3.stack)
	}
}

// Scenario B (spec.md §8).
func TestSplitScenarioB(t *testing.T) {
	left := NewStack(StackConfig{Name: "left", Mode: Tiled, Axis: Vertical, Size: mustPtr(128), Limit: intPtr(1)})
	right := NewStack(StackConfig{Name: "right", Mode: Tiled, Axis: Vertical, Weight: 2, MinSize: mustPtr(300)})
	split := NewSplit(Vertical, false, left, right)
	tree := NewTree(split)
	tree.SetBounds(rect.Rect{X: 0, Y: 0, Width: 800, Height: 600})

	w1, w2 := newFakeWindow(1), newFakeWindow(2)
	tree.Add(w1)
	tree.Relayout()
	tree.Add(w2)
	tree.Relayout()

	if want := (rect.Rect{X: 0, Y: 0, Width: 128, Height: 600}); w1.bounds != want {
		t.Fatalf("w1 = %+v, want %+v", w1.bounds, want)
	}
	if want := (rect.Rect{X: 128, Y: 0, Width: 672, Height: 600}); w2.bounds != want {
		t.Fatalf("w2 = %+v, want %+v", w2.bounds, want)
	}

	tree.SetBounds(rect.Rect{X: 0, Y: 0, Width: 400, Height: 300})
	tree.Relayout()
	if want := (rect.Rect{X: 0, Y: 0, Width: 133, Height: 300}); w1.bounds != want {
		t.Fatalf("w1 after resize = %+v, want %+v", w1.bounds, want)
	}
	if want := (rect.Rect{X: 133, Y: 0, Width: 267, Height: 300}); w2.bounds != want {
		t.Fatalf("w2 after resize = %+v, want %+v", w2.bounds, want)
	}
}

// Scenario C (spec.md §8): both stacks carry only mismatched fixed sizes —
// the "wrong total" branch (spec.md §9 open question #2) falls back to
// pure weight partitioning using the stacks' declared (default) weights,
// not the nominal size values.
func TestSplitScenarioC(t *testing.T) {
	left := NewStack(StackConfig{Name: "left", Mode: Tiled, Axis: Vertical, Size: mustPtr(2)})
	right := NewStack(StackConfig{Name: "right", Mode: Tiled, Axis: Vertical, Size: mustPtr(3)})
	split := NewSplit(Vertical, false, left, right)
	tree := NewTree(split)
	tree.SetBounds(rect.Rect{X: 0, Y: 0, Width: 800, Height: 600})

	w1, w2 := newFakeWindow(1), newFakeWindow(2)
	tree.Add(w1)
	tree.Relayout()
	w2.SetStackName("right") // left has no limit and would take w2 too
	tree.Add(w2)
	tree.Relayout()

	if want := (rect.Rect{X: 0, Y: 0, Width: 400, Height: 600}); w1.bounds != want {
		t.Fatalf("w1 = %+v, want %+v", w1.bounds, want)
	}
	if want := (rect.Rect{X: 400, Y: 0, Width: 400, Height: 600}); w2.bounds != want {
		t.Fatalf("w2 = %+v, want %+v", w2.bounds, want)
	}
}

// TestSplitFullRejectsPlacement covers spec.md §4.6 "if all full, return
// false (caller treats window as floating)".
func TestSplitFullRejectsPlacement(t *testing.T) {
	only := NewStack(StackConfig{Name: "only", Mode: Tiled, Axis: Vertical, Limit: intPtr(1)})
	split := NewSplit(Vertical, true, only)
	tree := NewTree(split)
	tree.SetBounds(rect.Rect{X: 0, Y: 0, Width: 800, Height: 600})

	w1, w2 := newFakeWindow(1), newFakeWindow(2)
	if !tree.Add(w1) {
		t.Fatal("expected w1 to be placed")
	}
	if tree.Add(w2) {
		t.Fatal("expected w2 to be rejected: the only stack is full")
	}
}

// TestTileAreaInvariant is the spec.md §8 property-2 check: child boxes
// tile the parent rectangle exactly, for an arbitrary odd width that
// forces rounding.
func TestTileAreaInvariant(t *testing.T) {
	a := NewStack(StackConfig{Name: "a", Mode: Tiled, Axis: Vertical, Weight: 1})
	b := NewStack(StackConfig{Name: "b", Mode: Tiled, Axis: Vertical, Weight: 1})
	c := NewStack(StackConfig{Name: "c", Mode: Tiled, Axis: Vertical, Weight: 1})
	split := NewSplit(Vertical, true, a, b, c)
	tree := NewTree(split)
	bounds := rect.Rect{X: 0, Y: 0, Width: 799, Height: 533}
	tree.SetBounds(bounds)
	tree.Relayout()

	var sum int64
	for _, st := range []*Stack{a, b, c} {
		sum += st.Bounds().Area()
		if st.Bounds().Height != bounds.Height {
			t.Fatalf("stack %s height = %d, want %d", st.Name, st.Bounds().Height, bounds.Height)
		}
	}
	if sum != bounds.Area() {
		t.Fatalf("sum of child areas = %d, want %d", sum, bounds.Area())
	}
	if a.Bounds().X != 0 {
		t.Fatalf("first child must start at origin, got x=%d", a.Bounds().X)
	}
	if c.Bounds().Right() != bounds.Right() {
		t.Fatalf("last child must end exactly at parent's right edge, got %d want %d", c.Bounds().Right(), bounds.Right())
	}
}

// TestMoveAcrossEvictsFullNeighbor covers spec.md §4.6's atomic swap: "if
// the target stack is full, evict its first window back into the
// source".
func TestMoveAcrossEvictsFullNeighbor(t *testing.T) {
	left := NewStack(StackConfig{Name: "left", Mode: Tiled, Axis: Vertical})
	right := NewStack(StackConfig{Name: "right", Mode: Tiled, Axis: Vertical, Limit: intPtr(1)})
	split := NewSplit(Vertical, true, left, right)
	tree := NewTree(split)
	tree.SetBounds(rect.Rect{X: 0, Y: 0, Width: 800, Height: 600})

	w1, w2 := newFakeWindow(1), newFakeWindow(2)
	tree.Add(w1) // -> left, the first non-full stack in priority order
	w2.SetStackName("right")
	tree.Add(w2) // recorded stack "right" is non-full -> goes to right
	tree.Relayout()
	if w1.StackName() != "left" || w2.StackName() != "right" {
		t.Fatalf("setup: w1=%s w2=%s", w1.stack, w2.stack)
	}

	tree.Move(w1, MoveRight)

	if w1.StackName() != "right" {
		t.Fatalf("w1 should have moved into right, got %s", w1.stack)
	}
	if w2.StackName() != "left" {
		t.Fatalf("w2 should have been evicted back into left, got %s", w2.stack)
	}
}

// TestShiftRotatesOrder covers spec.md §4.6 shift_up/shift_down.
func TestShiftRotatesOrder(t *testing.T) {
	s := NewStack(StackConfig{Name: "only", Mode: Tiled, Axis: Vertical})
	w1, w2, w3 := newFakeWindow(1), newFakeWindow(2), newFakeWindow(3)
	s.Add(w1)
	s.Add(w2)
	s.Add(w3)

	s.ShiftUp()
	if got := s.Windows(); got[0] != w2 || got[1] != w3 || got[2] != w1 {
		t.Fatalf("after ShiftUp: %v", got)
	}
	s.ShiftDown()
	if got := s.Windows(); got[0] != w1 || got[1] != w2 || got[2] != w3 {
		t.Fatalf("after ShiftDown: %v", got)
	}
}
