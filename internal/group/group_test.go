package group

import (
	"testing"

	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/layout"
	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/screen"
)

type fakeWindow struct {
	id      layout.WindowID
	bounds  rect.Rect
	visible bool
	stack   string
	focused bool
}

func (w *fakeWindow) ID() layout.WindowID    { return w.id }
func (w *fakeWindow) SetBounds(r rect.Rect)  { w.bounds = r }
func (w *fakeWindow) Show()                  { w.visible = true }
func (w *fakeWindow) Hide()                  { w.visible = false }
func (w *fakeWindow) StackName() string      { return w.stack }
func (w *fakeWindow) SetStackName(s string)  { w.stack = s }
func (w *fakeWindow) Focus() error           { w.focused = true; return nil }

// floatingFakeWindow additionally satisfies floater/raiser, so AddWindow
// can be tested against the explicit-floating routing path.
type floatingFakeWindow struct {
	fakeWindow
	raised bool
}

func (w *floatingFakeWindow) Floating() bool { return true }
func (w *floatingFakeWindow) Raise() error   { w.raised = true; return nil }

func singleStackLayouts() map[string]LayoutFactory {
	return map[string]LayoutFactory{
		"default": func() *layout.Tree {
			st := layout.NewStack(layout.StackConfig{Name: "main", Mode: layout.Tiled, Axis: layout.Vertical})
			return layout.NewTree(st)
		},
	}
}

func TestGroupAddShowsWhenBound(t *testing.T) {
	reg := command.NewRegistry()
	g := New("one", singleStackLayouts(), "default", reg)
	w := &fakeWindow{id: 1}
	g.AddWindow(w)
	if w.visible {
		t.Fatal("window should be hidden: group has no screen bound yet")
	}

	g.bindScreen(screen.New(0, rect.Rect{X: 0, Y: 0, Width: 800, Height: 600}, reg))
	g.Show()
	if !w.visible {
		t.Fatal("expected window visible after Show")
	}
}

func TestManagerBindsFirstScreensToFirstGroups(t *testing.T) {
	reg := command.NewRegistry()
	scrs := screen.NewManager(reg, []rect.Rect{{X: 0, Y: 0, Width: 800, Height: 600}})
	g1 := New("one", singleStackLayouts(), "default", reg)
	g2 := New("two", singleStackLayouts(), "default", reg)
	m := NewManager(reg, scrs, []*Group{g1, g2})

	if m.GroupOn(scrs.Screens[0]) != g1 {
		t.Fatal("expected first group bound to first screen")
	}
	if g2.scr != nil {
		t.Fatal("second group should be unbound: only one screen")
	}
}

func TestManagerSwitchHidesAndShows(t *testing.T) {
	reg := command.NewRegistry()
	scrs := screen.NewManager(reg, []rect.Rect{{X: 0, Y: 0, Width: 800, Height: 600}})
	g1 := New("one", singleStackLayouts(), "default", reg)
	g2 := New("two", singleStackLayouts(), "default", reg)
	m := NewManager(reg, scrs, []*Group{g1, g2})

	w1 := &fakeWindow{id: 1}
	g1.AddWindow(w1)
	if !w1.visible {
		t.Fatal("w1 should be visible: g1 is bound and shown")
	}

	if err := m.Switch(scrs.Screens[0], "two"); err != nil {
		t.Fatal(err)
	}
	if w1.visible {
		t.Fatal("w1 should be hidden after switching away from its group")
	}
	if m.GroupOn(scrs.Screens[0]) != g2 {
		t.Fatal("expected screen now bound to group two")
	}
}

func TestManagerSwitchPagerSwapsWhenTargetVisibleElsewhere(t *testing.T) {
	reg := command.NewRegistry()
	scrs := screen.NewManager(reg, []rect.Rect{
		{X: 0, Y: 0, Width: 800, Height: 600},
		{X: 800, Y: 0, Width: 800, Height: 600},
	})
	g1 := New("one", singleStackLayouts(), "default", reg)
	g2 := New("two", singleStackLayouts(), "default", reg)
	m := NewManager(reg, scrs, []*Group{g1, g2})

	// g1 on screen 0, g2 on screen 1. Switching screen 0 to "two" (already
	// visible on screen 1) should swap: screen 0 -> g2, screen 1 -> g1.
	if err := m.Switch(scrs.Screens[0], "two"); err != nil {
		t.Fatal(err)
	}
	if m.GroupOn(scrs.Screens[0]) != g2 {
		t.Fatal("expected screen 0 bound to group two after pager-swap")
	}
	if m.GroupOn(scrs.Screens[1]) != g1 {
		t.Fatal("expected screen 1 bound to group one after pager-swap")
	}
}

func TestGroupFocusNextPrevCycles(t *testing.T) {
	reg := command.NewRegistry()
	g := New("one", singleStackLayouts(), "default", reg)
	w1, w2, w3 := &fakeWindow{id: 1}, &fakeWindow{id: 2}, &fakeWindow{id: 3}
	g.AddWindow(w1)
	g.AddWindow(w2)
	g.AddWindow(w3)

	next := g.FocusNext(w1)
	if next != w2 {
		t.Fatalf("expected w2 after w1, got %v", next)
	}
	next = g.FocusNext(w3)
	if next != w1 {
		t.Fatalf("expected wraparound to w1 after w3, got %v", next)
	}
	prev := g.FocusPrev(w1)
	if prev != w3 {
		t.Fatalf("expected wraparound to w3 before w1, got %v", prev)
	}
}

func TestGroupAddWindowRoutesExplicitFloatingStraightToFloatingList(t *testing.T) {
	reg := command.NewRegistry()
	g := New("one", singleStackLayouts(), "default", reg)
	g.bindScreen(screen.New(0, rect.Rect{X: 0, Y: 0, Width: 800, Height: 600}, reg))
	g.Show()

	w := &floatingFakeWindow{fakeWindow: fakeWindow{id: 1}}
	g.AddWindow(w)

	if w.StackName() != "" {
		t.Fatalf("explicitly floating window should never be added to the tree, got stack %q", w.StackName())
	}
	if len(g.floating) != 1 || g.floating[0] != layout.Window(w) {
		t.Fatalf("expected window in g.floating, got %v", g.floating)
	}
	if !w.raised {
		t.Fatal("expected AddWindow to restack the newly floating window above")
	}
	if !w.visible {
		t.Fatal("expected floating window visible once group is bound and shown")
	}
}

func TestGroupSetLayoutPreservesWindows(t *testing.T) {
	reg := command.NewRegistry()
	layouts := singleStackLayouts()
	layouts["alt"] = func() *layout.Tree {
		st := layout.NewStack(layout.StackConfig{Name: "alt-main", Mode: layout.Tiled, Axis: layout.Vertical})
		return layout.NewTree(st)
	}
	g := New("one", layouts, "default", reg)
	w := &fakeWindow{id: 1}
	g.AddWindow(w)

	if err := g.SetLayout("alt"); err != nil {
		t.Fatal(err)
	}
	if w.StackName() != "alt-main" {
		t.Fatalf("expected window re-added into new layout's stack, got %q", w.StackName())
	}
}
