// Package overlay implements the override-redirect toplevel-window-plus-
// pixmap primitive spec.md §4.12 describes: a small top-level window that
// renders into an off-screen image and flips it onto the X server with
// PutImage/CopyArea. It is shared by internal/gadget's menu/tabs widgets
// and internal/pointer's drag-hint popup (spec.md §4.9), which is why it
// lives in its own package rather than inside internal/gadget: pointer
// cannot import gadget, since gadget already imports internal/dispatch
// and dispatch imports pointer — pulling the shared primitive out here
// breaks that cycle. Grounded on tilenol/gadgets/base.py's GadgetBase
// (create_toplevel + DisplayWindow + a redraw Event) and on wm/frame.go's
// create/map window flow for the raw xproto calls.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/BurntSushi/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/xcore"
)

// Exposer is the narrow slice of dispatch.Dispatcher an Overlay needs to
// replay its last paint on Expose — satisfied by *dispatch.Dispatcher
// without this package importing it (same narrow-interface convention as
// wmclient.FrameGroup/screen.ScreenGroup). Callers with no dispatcher to
// register against (internal/pointer's hint popup) pass nil.
type Exposer interface {
	RegisterExposer(win xproto.Window, fn func(xproto.ExposeEvent))
	UnregisterExposer(win xproto.Window)
}

// Overlay is the shared toplevel-window-plus-pixmap plumbing every gadget
// and the pointer package's drag hint embed. It owns one override-redirect
// X window, lazily (re)allocates a backing *xcore.Pixmap sized to match,
// and exposes Redraw for a caller to repaint an *image.RGBA and push it to
// the screen (spec.md §4.12 "renders via an off-screen pixmap flipped
// with PutImage").
type Overlay struct {
	core *xcore.Core
	disp Exposer

	win     xproto.Window
	pixmap  *xcore.Pixmap
	bounds  rect.Rect
	visible bool
	backg   uint32
	repaint func(img *image.RGBA)
}

// New allocates the toplevel window at bounds but does not map it —
// callers call Show once their own state is ready. eventMask lets callers
// that need keyboard input (the launcher) opt into KeyPress the way
// menu.py's cmd_show does, while the tabs panel and the drag hint ask for
// nothing beyond Exposure. disp may be nil when the caller has no
// dispatcher to register an exposer with.
func New(core *xcore.Core, disp Exposer, bounds rect.Rect, background uint32, eventMask uint32) (*Overlay, error) {
	id, err := xproto.NewWindowId(core.Conn)
	if err != nil {
		return nil, &xcore.XError{Kind: "NewWindowId", Params: []interface{}{"overlay"}, Err: err}
	}
	mask := uint32(xproto.CwBackPixel | xproto.CwOverrideRedirect | xproto.CwEventMask)
	values := []uint32{background, 1, eventMask | uint32(xproto.EventMaskExposure)}
	w, h := ClampDim(bounds.Width), ClampDim(bounds.Height)
	err = xproto.CreateWindowChecked(core.Conn, core.Screen.RootDepth, id, core.Root,
		int16(bounds.X), int16(bounds.Y), w, h, 0,
		xproto.WindowClassInputOutput, core.Screen.RootVisual, mask, values).Check()
	if err != nil {
		return nil, &xcore.XError{Kind: "CreateWindow", Params: []interface{}{"overlay"}, Err: err}
	}
	o := &Overlay{core: core, disp: disp, win: id, bounds: bounds, backg: background}
	if disp != nil {
		disp.RegisterExposer(id, o.onExpose)
	}
	return o, nil
}

// ClampDim clamps a computed width/height to X's 16-bit, non-zero window
// dimension range.
func ClampDim(v uint32) uint16 {
	if v == 0 {
		return 1
	}
	if v > 0xffff {
		return 0xffff
	}
	return uint16(v)
}

// ID returns the overlay's own X window id, used to key exposer
// registration and, by the caller, to route input (e.g. a grabbed
// keyboard) back to this window.
func (o *Overlay) ID() xproto.Window { return o.win }

// Bounds returns the overlay's last-applied rectangle.
func (o *Overlay) Bounds() rect.Rect { return o.bounds }

// Show maps the window, matching GadgetBase's window.show().
func (o *Overlay) Show() {
	if o.visible {
		return
	}
	if err := xproto.MapWindowChecked(o.core.Conn, o.win).Check(); err != nil {
		log.WithError(err).WithField("component", "overlay").Debug("map overlay failed")
	}
	if err := xproto.ConfigureWindowChecked(o.core.Conn, o.win, xproto.ConfigWindowStackMode,
		[]uint32{uint32(xproto.StackModeAbove)}).Check(); err != nil {
		log.WithError(err).WithField("component", "overlay").Debug("raise overlay failed")
	}
	o.visible = true
}

// Hide unmaps the window.
func (o *Overlay) Hide() {
	if !o.visible {
		return
	}
	if err := xproto.UnmapWindowChecked(o.core.Conn, o.win).Check(); err != nil {
		log.WithError(err).WithField("component", "overlay").Debug("unmap overlay failed")
	}
	o.visible = false
}

// Visible reports whether the overlay is currently mapped.
func (o *Overlay) Visible() bool { return o.visible }

// SetBounds repositions and resizes the overlay window, dropping the
// stale pixmap so the next Redraw reallocates one at the new size —
// mirroring LeftBar.set_bounds's "_cairo = None; _img = None".
func (o *Overlay) SetBounds(r rect.Rect) {
	o.bounds = r
	mask := uint32(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{
		uint32(r.X) & 0xffff, uint32(r.Y) & 0xffff,
		uint32(ClampDim(r.Width)), uint32(ClampDim(r.Height)),
	}
	if err := xproto.ConfigureWindowChecked(o.core.Conn, o.win, uint16(mask), values).Check(); err != nil {
		log.WithError(err).WithField("component", "overlay").Debug("configure overlay failed")
	}
	if o.pixmap != nil {
		o.pixmap.Release()
		o.pixmap = nil
	}
}

// Redraw lets paint fill an *image.RGBA sized to the overlay's current
// bounds, allocating (or reusing) the backing pixmap, blitting paint's
// output into it and copying it onto the window — the Go analogue of
// `self._img.draw(self.window)`.
func (o *Overlay) Redraw(paint func(img *image.RGBA)) {
	if !o.visible {
		return
	}
	w, h := ClampDim(o.bounds.Width), ClampDim(o.bounds.Height)
	o.repaint = paint
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	draw.Draw(img, img.Bounds(), image.NewUniform(ArgbColor(o.backg)), image.Point{}, draw.Src)
	paint(img)

	if o.pixmap == nil {
		pm, err := o.core.NewPixmap(xproto.Drawable(o.win), w, h)
		if err != nil {
			log.WithError(err).WithField("component", "overlay").Debug("allocate overlay pixmap failed")
			return
		}
		o.pixmap = pm
	}
	if err := o.pixmap.Blit(img); err != nil {
		log.WithError(err).WithField("component", "overlay").Debug("blit overlay pixmap failed")
		return
	}
	if err := xproto.CopyAreaChecked(o.core.Conn, xproto.Drawable(o.pixmap.ID()), xproto.Drawable(o.win),
		o.pixmap.GC(), 0, 0, 0, 0, w, h).Check(); err != nil {
		log.WithError(err).WithField("component", "overlay").Debug("copy overlay pixmap failed")
	}
}

// onExpose repaints with whatever paint func the caller last handed to
// Redraw, mirroring GadgetBase's draw() re-emitting the gadget's own
// redraw Event on every Expose.
func (o *Overlay) onExpose(e xproto.ExposeEvent) {
	if o.repaint != nil {
		o.Redraw(o.repaint)
	}
}

// ArgbColor turns a 0xRRGGBB pixel value into an opaque color.RGBA.
func ArgbColor(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}
}

// Close unregisters the exposer and destroys the X window and pixmap.
func (o *Overlay) Close() {
	if o.disp != nil {
		o.disp.UnregisterExposer(o.win)
	}
	if o.pixmap != nil {
		o.pixmap.Release()
		o.pixmap = nil
	}
	if err := xproto.DestroyWindowChecked(o.core.Conn, o.win).Check(); err != nil {
		log.WithError(err).WithField("component", "overlay").Debug("destroy overlay failed")
	}
}
