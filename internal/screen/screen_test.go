package screen

import (
	"testing"

	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/rect"
)

type fakeBar struct {
	thickness uint32
	bounds    rect.Rect
	visible   bool
}

func (b *fakeBar) Thickness() uint32      { return b.thickness }
func (b *fakeBar) SetBounds(r rect.Rect)  { b.bounds = r }
func (b *fakeBar) Hide()                  { b.visible = false }
func (b *fakeBar) Show()                  { b.visible = true }

func TestScreenPeelsBarsInOrder(t *testing.T) {
	reg := command.NewRegistry()
	s := New(0, rect.Rect{X: 0, Y: 0, Width: 800, Height: 600}, reg)

	top := &fakeBar{thickness: 20, visible: true}
	bottom := &fakeBar{thickness: 30, visible: true}
	left := &fakeBar{thickness: 10, visible: true}
	right := &fakeBar{thickness: 15, visible: true}

	s.AddBar(Top, top)
	s.AddBar(Bottom, bottom)
	s.AddBar(Left, left)
	s.AddBar(Right, right)

	want := rect.Rect{X: 10, Y: 20, Width: 800 - 10 - 15, Height: 600 - 20 - 30}
	if s.Inner() != want {
		t.Fatalf("inner = %+v, want %+v", s.Inner(), want)
	}
	if top.bounds != (rect.Rect{X: 0, Y: 0, Width: 800, Height: 20}) {
		t.Fatalf("top bar bounds = %+v", top.bounds)
	}
	if bottom.bounds.Y != 600-30 {
		t.Fatalf("bottom bar y = %d, want %d", bottom.bounds.Y, 600-30)
	}
}

func TestScreenToggleBarsGrantsSpace(t *testing.T) {
	reg := command.NewRegistry()
	s := New(0, rect.Rect{X: 0, Y: 0, Width: 800, Height: 600}, reg)
	bar := &fakeBar{thickness: 20, visible: true}
	s.AddBar(Top, bar)

	if s.Inner().Height != 580 {
		t.Fatalf("inner height = %d, want 580", s.Inner().Height)
	}

	if err := reg.Call("screen.0", "toggle_bars"); err != nil {
		t.Fatal(err)
	}
	if bar.visible {
		t.Fatal("expected bar hidden after toggle")
	}
	if s.Inner() != s.Outer() {
		t.Fatalf("inner should equal outer with bars hidden, got %+v vs %+v", s.Inner(), s.Outer())
	}

	if err := reg.Call("screen.0", "toggle_bars"); err != nil {
		t.Fatal(err)
	}
	if !bar.visible {
		t.Fatal("expected bar shown again after second toggle")
	}
	if s.Inner().Height != 580 {
		t.Fatalf("inner height after re-show = %d, want 580", s.Inner().Height)
	}
}

func TestScreenUpdatedFiresOnSetBounds(t *testing.T) {
	reg := command.NewRegistry()
	s := New(0, rect.Rect{X: 0, Y: 0, Width: 800, Height: 600}, reg)
	fired := false
	s.Updated.Listen(func() { fired = true })
	s.SetBounds(rect.Rect{X: 0, Y: 0, Width: 1024, Height: 768})
	if !fired {
		t.Fatal("expected Updated to fire on SetBounds")
	}
}

func TestManagerReconfigurePreservesScreens(t *testing.T) {
	reg := command.NewRegistry()
	m := NewManager(reg, []rect.Rect{
		{X: 0, Y: 0, Width: 800, Height: 600},
	})
	original := m.Screens[0]
	m.Reconfigure([]rect.Rect{
		{X: 0, Y: 0, Width: 1024, Height: 768},
		{X: 1024, Y: 0, Width: 800, Height: 600},
	})
	if len(m.Screens) != 2 {
		t.Fatalf("expected 2 screens, got %d", len(m.Screens))
	}
	if m.Screens[0] != original {
		t.Fatal("expected screen 0 object identity preserved across reconfigure")
	}
	if m.Screens[0].Outer().Width != 1024 {
		t.Fatalf("screen 0 width = %d, want 1024", m.Screens[0].Outer().Width)
	}
}
