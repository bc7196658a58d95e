package gadget

import (
	"fmt"
	"image"
	"image/color"

	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/dispatch"
	"github.com/tailhook/tilenol/internal/group"
	"github.com/tailhook/tilenol/internal/overlay"
	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/screen"
	"github.com/tailhook/tilenol/internal/wmclient"
	"github.com/tailhook/tilenol/internal/xcore"
)

const (
	tabsBackground  = 0x1d1f21
	tabsActiveBg    = 0x373b41
	tabsInactiveBg  = 0x282a2e
	tabsActiveText  = 0xffffff
	tabsInactiveTxt = 0xc5c8c6
	tabRowPad       = 4
)

// Tabs is the per-group vertical tab strip of spec.md §4.12, grounded on
// tilenol/gadgets/tabs.py's LeftBar: one row per window in the screen's
// currently-bound group, highlighted when it holds the commander's
// "window" focus. It docks to the left edge of its screen as a
// screen.Bar, so screen.SetBounds carves its width out of the inner
// rectangle the same way a LeftBar's slice_left reserves space.
type Tabs struct {
	overlay   *overlay.Overlay
	commander *command.Registry
	scr       *screen.Screen
	groups    *group.Manager
	width     uint32
}

// NewTabs builds a tabs panel docked to scr's left edge with the given
// width, registering it as a screen.Bar so Screen.SetBounds peels its
// rectangle off automatically (spec.md §4.4/§4.12 interaction).
func NewTabs(core *xcore.Core, disp *dispatch.Dispatcher, commander *command.Registry, scr *screen.Screen, groups *group.Manager, width uint32) (*Tabs, error) {
	ov, err := overlay.New(core, disp, rect.Rect{Width: width, Height: 1}, tabsBackground, 0)
	if err != nil {
		return nil, err
	}
	t := &Tabs{overlay: ov, commander: commander, scr: scr, groups: groups, width: width}
	scr.AddBar(screen.Left, t)
	return t, nil
}

// --- screen.Bar ---

func (t *Tabs) Thickness() uint32 { return t.width }

// SetBounds is called by Screen.SetBounds once it has carved this strip
// out of the screen's outer rectangle (LeftBar.set_bounds).
func (t *Tabs) SetBounds(r rect.Rect) {
	t.overlay.SetBounds(r)
	t.Redraw()
}

func (t *Tabs) Show() { t.overlay.Show(); t.Redraw() }
func (t *Tabs) Hide() { t.overlay.Hide() }

// Redraw repaints every row of the screen's current group, the Go form of
// LeftBar._redraw: background fill, then one rectangular row per window
// with its title (no icon is drawn), highlighting the commander's focused
// window.
func (t *Tabs) Redraw() {
	g := t.groups.GroupOn(t.scr)
	if g == nil {
		t.overlay.Redraw(func(img *image.RGBA) {})
		return
	}
	focused, _ := t.commander.Get("window")
	focusedWin, _ := focused.(*wmclient.Window)

	windows := g.AllWindows()
	t.overlay.Redraw(func(img *image.RGBA) {
		y := tabRowPad
		for _, w := range windows {
			frame, ok := w.(*wmclient.Frame)
			if !ok {
				continue
			}
			title := frame.Content.Title
			if title == "" && len(frame.Content.Class) > 0 {
				title = frame.Content.Class[len(frame.Content.Class)-1]
			}
			if title == "" {
				title = fmt.Sprintf("0x%x", frame.XID())
			}
			rowH := overlay.LineHeight + 2*tabRowPad
			active := focusedWin != nil && frame.Content == focusedWin
			bg := uint32(tabsInactiveBg)
			txt := color.Color(overlay.ArgbColor(tabsInactiveTxt))
			if active {
				bg = tabsActiveBg
				txt = overlay.ArgbColor(tabsActiveText)
			}
			overlay.HighlightRow(img, 0, y, img.Bounds().Dx(), rowH, bg)
			overlay.DrawString(img, tabRowPad, y+rowH-tabRowPad-2, txt, truncate(title, img.Bounds().Dx()))
			y += rowH
		}
	})
}

// truncate trims text so its rendered width fits within maxWidth pixels,
// appending an ellipsis when it had to cut — LeftBar relies on cairo's
// clip region to do this implicitly; basicfont has no clipping, so this
// does it explicitly before drawing.
func truncate(text string, maxWidth int) string {
	if overlay.TextWidth(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for i := len(runes) - 1; i > 0; i-- {
		candidate := string(runes[:i]) + "…"
		if overlay.TextWidth(candidate) <= maxWidth {
			return candidate
		}
	}
	return "…"
}
