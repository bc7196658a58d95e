// Package pointer implements the pointer registry of spec.md §4.9: button
// grabs crossed with lock-bit combinations, and the four drag state
// machines (move, and resize from each corner) selected by which
// quadrant of the window the initial click landed in. Grounded on
// tilenol/mouseregistry.py's MouseRegistry and its Drag subclasses.
package pointer

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/overlay"
	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/wmclient"
	"github.com/tailhook/tilenol/internal/xcore"
)

// Drag hint popup theme (spec.md §4.9's "hint popup centered on the
// frame"), named the way the gadget theme colors are rather than pulled
// from config.
const (
	hintBackground = 0x1d1f21
	hintText       = 0xc5c8c6
)

// Draggable is anything a drag can reposition — satisfied by
// *wmclient.Frame.
type Draggable interface {
	Bounds() rect.Rect
	SetBounds(rect.Rect)
}

// drag is one in-progress move or resize, holding whatever offset its
// particular corner needs to turn a root pointer coordinate back into a
// target rectangle (mouseregistry.py's Drag subclasses).
type drag interface {
	motion(x, y int32) rect.Rect
}

type dragMove struct {
	win  Draggable
	offX int32
	offY int32
}

func newDragMove(win Draggable, x, y int32) *dragMove {
	sz := win.Bounds()
	return &dragMove{win: win, offX: sz.X - x, offY: sz.Y - y}
}

func (d *dragMove) motion(x, y int32) rect.Rect {
	sz := d.win.Bounds()
	return rect.Rect{X: x + d.offX, Y: y + d.offY, Width: sz.Width, Height: sz.Height}
}

type dragSizeBottomRight struct {
	win        Draggable
	offX, offY int32
}

func newDragSizeBottomRight(win Draggable, x, y int32) *dragSizeBottomRight {
	sz := win.Bounds()
	return &dragSizeBottomRight{win: win, offX: int32(sz.Width) - x, offY: int32(sz.Height) - y}
}

func (d *dragSizeBottomRight) motion(x, y int32) rect.Rect {
	sz := d.win.Bounds()
	return rect.Rect{X: sz.X, Y: sz.Y, Width: clampDim(x + d.offX), Height: clampDim(y + d.offY)}
}

type dragSizeTopRight struct {
	win    Draggable
	offX   int32
	offY   int32
	bottom int32
}

func newDragSizeTopRight(win Draggable, x, y int32) *dragSizeTopRight {
	sz := win.Bounds()
	return &dragSizeTopRight{
		win:    win,
		offX:   int32(sz.Width) - x,
		offY:   sz.Y - y,
		bottom: int32(sz.Height) + sz.Y,
	}
}

func (d *dragSizeTopRight) motion(x, y int32) rect.Rect {
	sz := d.win.Bounds()
	return rect.Rect{X: sz.X, Y: y, Width: clampDim(x + d.offX), Height: clampDim(d.bottom - y)}
}

type dragSizeBottomLeft struct {
	win        Draggable
	offX, offY int32
	right      int32
}

func newDragSizeBottomLeft(win Draggable, x, y int32) *dragSizeBottomLeft {
	sz := win.Bounds()
	return &dragSizeBottomLeft{
		win:   win,
		offX:  sz.X - x,
		offY:  int32(sz.Height) - y,
		right: sz.X + int32(sz.Width),
	}
}

func (d *dragSizeBottomLeft) motion(x, y int32) rect.Rect {
	sz := d.win.Bounds()
	return rect.Rect{X: x, Y: sz.Y, Width: clampDim(d.right - x), Height: clampDim(y + d.offY)}
}

type dragSizeTopLeft struct {
	win          Draggable
	offX, offY   int32
	right        int32
	bottom       int32
}

func newDragSizeTopLeft(win Draggable, x, y int32) *dragSizeTopLeft {
	sz := win.Bounds()
	return &dragSizeTopLeft{
		win:    win,
		offX:   sz.X - x,
		offY:   sz.Y - y,
		right:  sz.X + int32(sz.Width),
		bottom: sz.Y + int32(sz.Height),
	}
}

func (d *dragSizeTopLeft) motion(x, y int32) rect.Rect {
	return rect.Rect{X: x, Y: y, Width: clampDim(d.right - x), Height: clampDim(d.bottom - y)}
}

// clampDim floors a computed width/height at zero: a fast drag past the
// opposite edge must never produce a negative dimension.
func clampDim(v int32) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// Registry grabs pointer buttons on the root window and tracks the one
// in-flight drag, same scope as mouseregistry.py's MouseRegistry.
type Registry struct {
	core      *xcore.Core
	commander *command.Registry
	root      xproto.Window

	modifier uint16 // base modmask every drag button requires, e.g. Mod4 ("the Windows key")

	active drag
	target Draggable
	frame  *wmclient.Frame

	hint *overlay.Overlay
}

// New builds a Registry that grabs button 1 (move) and button 3 (resize)
// while modifier is held, mirroring mouseregistry.py's init_buttons
// (`getattr(ModMask, '4')` — Mod4, conventionally the "Super"/"Windows"
// key).
func New(core *xcore.Core, commander *command.Registry, root xproto.Window, modifier uint16) *Registry {
	return &Registry{core: core, commander: commander, root: root, modifier: modifier}
}

// RegisterButtons grabs buttons 1 and 3 crossed with every lock-bit
// combination (mouseregistry.py's register_buttons).
func (r *Registry) RegisterButtons() {
	combos := r.core.LockCombinations()
	for _, button := range []xproto.Button{1, 3} {
		for _, extra := range combos {
			err := xproto.GrabButtonChecked(r.core.Conn, true, r.root,
				uint16(xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion),
				xproto.GrabModeAsync, xproto.GrabModeAsync,
				0, xproto.CursorNone, button, r.modifier|extra).Check()
			if err != nil {
				log.WithError(err).WithField("button", button).Debug("grab button failed")
			}
		}
	}
}

// UnregisterButtons releases every button grab on the root window.
func (r *Registry) UnregisterButtons() {
	if err := xproto.UngrabButtonChecked(r.core.Conn, xproto.ButtonIndexAny, r.root, xproto.ModMaskAny).Check(); err != nil {
		log.WithError(err).Debug("ungrab buttons failed")
	}
}

// DispatchButtonPress starts a drag against the commander's current
// "window" object, picking a resize corner by which quadrant of the
// window the click landed in for button 3 (mouseregistry.py's
// dispatch_button_press). Per spec.md §4.9 it first promotes the window
// to floating (if it isn't already) and restacks it above, then opens the
// drag hint popup.
func (r *Registry) DispatchButtonPress(ev xproto.ButtonPressEvent) {
	obj, ok := r.commander.Get("window")
	if !ok {
		return
	}
	win, ok := obj.(*wmclient.Window)
	if !ok {
		return
	}
	frame := win.DragTarget()
	if frame == nil {
		return
	}

	if !frame.Floating() {
		if err := r.commander.Call("window", "make_floating"); err != nil {
			log.WithError(err).Debug("promote to floating on drag start failed")
		}
	}
	if err := frame.Raise(); err != nil {
		log.WithError(err).Debug("raise on drag start failed")
	}

	var target Draggable = frame
	r.target = target
	r.frame = frame

	switch ev.Detail {
	case 1:
		r.active = newDragMove(target, int32(ev.RootX), int32(ev.RootY))
	case 3:
		sz := target.Bounds()
		right := (int32(ev.RootX)-sz.X)*2 >= int32(sz.Width)
		bottom := (int32(ev.RootY)-sz.Y)*2 >= int32(sz.Height)
		switch {
		case right && bottom:
			r.active = newDragSizeBottomRight(target, int32(ev.RootX), int32(ev.RootY))
		case right && !bottom:
			r.active = newDragSizeTopRight(target, int32(ev.RootX), int32(ev.RootY))
		case !right && bottom:
			r.active = newDragSizeBottomLeft(target, int32(ev.RootX), int32(ev.RootY))
		default:
			r.active = newDragSizeTopLeft(target, int32(ev.RootX), int32(ev.RootY))
		}
	}
	if r.active != nil {
		r.showHint(target.Bounds())
	}
}

// DispatchMotion applies the in-progress drag's new geometry immediately
// (mouseregistry.py's dispatch_motion) and repaints the hint popup with
// the window's new position/size.
func (r *Registry) DispatchMotion(ev xproto.MotionNotifyEvent) {
	if r.active == nil {
		return
	}
	b := r.active.motion(int32(ev.RootX), int32(ev.RootY))
	r.target.SetBounds(b)
	r.updateHint(b)
}

// DispatchButtonRelease applies the drag's final geometry, clears it and
// destroys the hint popup (mouseregistry.py's dispatch_button_release;
// spec.md §4.9 "ButtonRelease finalizes and destroys the hint").
func (r *Registry) DispatchButtonRelease(ev xproto.ButtonReleaseEvent) {
	if r.active == nil {
		return
	}
	r.target.SetBounds(r.active.motion(int32(ev.RootX), int32(ev.RootY)))
	r.active = nil
	r.target = nil
	r.frame = nil
	if r.hint != nil {
		r.hint.Hide()
	}
}

// dragHintText formats the hint popup's body: "x,y WxH", plus "cols rows"
// when the dragged client has increment size hints (spec.md §4.9).
func dragHintText(b rect.Rect, hints *wmclient.SizeHints) string {
	text := fmt.Sprintf("%d,%d %dx%d", b.X, b.Y, b.Width, b.Height)
	if hints == nil || !hints.HasResizeInc || hints.WidthInc == 0 || hints.HeightInc == 0 {
		return text
	}
	baseW, baseH := hints.BaseWidth, hints.BaseHeight
	if !hints.HasBaseSize {
		baseW, baseH = hints.MinWidth, hints.MinHeight
	}
	var cols, rows uint32
	if b.Width >= baseW {
		cols = (b.Width - baseW) / hints.WidthInc
	}
	if b.Height >= baseH {
		rows = (b.Height - baseH) / hints.HeightInc
	}
	return fmt.Sprintf("%s %d %d", text, cols, rows)
}

// showHint creates (or reuses) the drag hint overlay centered on b and
// paints it, mirroring GadgetBase's pattern but owned entirely by pointer
// since it has no dispatcher to register an exposer with.
func (r *Registry) showHint(b rect.Rect) {
	if r.hint == nil {
		ov, err := overlay.New(r.core, nil, r.hintBounds(b), hintBackground, 0)
		if err != nil {
			log.WithError(err).Debug("create drag hint failed")
			return
		}
		r.hint = ov
	} else {
		r.hint.SetBounds(r.hintBounds(b))
	}
	r.hint.Show()
	r.paintHint(b)
}

// updateHint resizes/repositions the hint to stay centered on b and
// repaints its text.
func (r *Registry) updateHint(b rect.Rect) {
	if r.hint == nil {
		return
	}
	r.hint.SetBounds(r.hintBounds(b))
	r.paintHint(b)
}

// hintBounds centers a popup sized to fit dragHintText's output over b.
func (r *Registry) hintBounds(b rect.Rect) rect.Rect {
	var hints *wmclient.SizeHints
	if r.frame != nil {
		hints = r.frame.Content.Hints
	}
	text := dragHintText(b, hints)
	w := uint32(overlay.TextWidth(text) + 8)
	h := uint32(overlay.LineHeight + 4)
	return rect.Rect{
		X:      b.X + (int32(b.Width)-int32(w))/2,
		Y:      b.Y + (int32(b.Height)-int32(h))/2,
		Width:  w,
		Height: h,
	}
}

func (r *Registry) paintHint(b rect.Rect) {
	var hints *wmclient.SizeHints
	if r.frame != nil {
		hints = r.frame.Content.Hints
	}
	text := dragHintText(b, hints)
	r.hint.Redraw(func(img *image.RGBA) {
		overlay.DrawString(img, 4, overlay.LineHeight-2, overlay.ArgbColor(hintText), text)
	})
}
