package wmclient

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/layout"
	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/xcore"
)

// FrameGroup is the narrow slice of group.Group a Frame needs on
// focus-in to populate the commander's window/group/layout/screen tuple
// (spec.md §4.5) without importing the group package directly — group
// already imports wmclient, so the dependency would otherwise be
// circular (same convention as screen.ScreenGroup).
type FrameGroup interface {
	CurrentLayoutName() string
	ScreenName() string
	Name() string
}

// Frame is the decorated toplevel a managed client is reparented into:
// border width and color track focus state, and the frame (not the bare
// client) is what the layout engine actually places (spec.md §4.5). It
// is grounded on wm/frame.go's create/reparent/map flow and on
// tilenol/window.py's Frame class for the focus-tuple and
// configure_content behavior.
type Frame struct {
	core      *xcore.Core
	commander *command.Registry

	id      xproto.Window
	Content *Window

	activeBorder, inactiveBorder uint32
	borderWidth                  uint32

	done      rect.Rect
	mapped    bool
	stackName string

	group FrameGroup
}

// CreateFrame allocates the decorating toplevel window, reparents
// content into it and registers the frame/content pair, mirroring
// wm/frame.go's createFrame + reparent and tilenol/window.py's
// create_frame.
func CreateFrame(core *xcore.Core, commander *command.Registry, content *Window, activeBorder, inactiveBorder, borderWidth uint32) (*Frame, error) {
	id, err := xproto.NewWindowId(core.Conn)
	if err != nil {
		return nil, fmt.Errorf("wmclient: could not allocate frame window id: %w", err)
	}
	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwOverrideRedirect | xproto.CwEventMask)
	values := []uint32{
		0, inactiveBorder, 1,
		uint32(xproto.EventMaskSubstructureRedirect |
			xproto.EventMaskSubstructureNotify |
			xproto.EventMaskEnterWindow |
			xproto.EventMaskLeaveWindow |
			xproto.EventMaskFocusChange),
	}
	err = xproto.CreateWindowChecked(core.Conn, core.Screen.RootDepth, id, core.Root,
		0, 0, 1, 1, borderWidth, xproto.WindowClassInputOutput, core.Screen.RootVisual,
		mask, values).Check()
	if err != nil {
		return nil, fmt.Errorf("wmclient: could not create frame window: %w", err)
	}

	f := &Frame{
		core:            core,
		commander:       commander,
		id:              id,
		Content:         content,
		activeBorder:    activeBorder,
		inactiveBorder:  inactiveBorder,
		borderWidth:     borderWidth,
	}
	if err := content.ReparentToFrame(id); err != nil {
		return nil, err
	}
	content.bindFrame(f)
	return f, nil
}

// XID returns the frame's own (decorating) X window id.
func (f *Frame) XID() xproto.Window { return f.id }

// Bounds returns the frame's last-applied outer rectangle, used by the
// pointer registry's drag state machines to compute motion deltas
// against the geometry in effect when the drag started (spec.md §4.9,
// mouseregistry.py's `self.win.done.size`).
func (f *Frame) Bounds() rect.Rect { return f.done }

// --- layout.Window ---

func (f *Frame) ID() layout.WindowID       { return layout.WindowID(f.id) }
func (f *Frame) StackName() string         { return f.stackName }
func (f *Frame) SetStackName(name string)  { f.stackName = name }

// Floating reports the content window's _TN_LP_FLOATING flag, letting
// group.Group.AddWindow route this frame straight to the floating list
// instead of the layout tree (spec.md §4.7).
func (f *Frame) Floating() bool { return f.Content.LProps.Floating() }

// SetBounds positions the frame itself, then recomputes the content's
// inner rectangle (spec.md §4.5 configure_content).
func (f *Frame) SetBounds(r rect.Rect) {
	if f.done == r {
		f.configureContent(r)
		return
	}
	f.done = r
	mask := uint32(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{
		uint32(r.X) & 0xffff, uint32(r.Y) & 0xffff,
		uint32(r.Width), uint32(r.Height),
	}
	if err := xproto.ConfigureWindowChecked(f.core.Conn, f.id, uint16(mask), values).Check(); err != nil {
		log.WithError(err).WithField("frame", f.id).Debug("configure frame failed")
	}
	f.configureContent(r)
}

// configureContent computes the client's inner size/position by applying
// size hints (increment snap then max clamp, spec.md §4.5 normative
// order), centering the client within the frame's inner area when the
// hinted size comes out smaller — the remaining border is left to the
// frame's own background.
func (f *Frame) configureContent(outer rect.Rect) {
	rw := subU32(outer.Width, 2*f.borderWidth)
	rh := subU32(outer.Height, 2*f.borderWidth)

	var w, h uint32
	var x, y int32
	if f.Content.Hints != nil && !f.Content.IgnoreHints {
		w, h = ApplySizeHints(rw, rh, f.Content.Hints)
		if w < rw {
			x = int32((rw - w) / 2)
		}
		if h < rh {
			y = int32((rh - h) / 2)
		}
	} else {
		w, h = rw, rh
	}

	f.Content.Done.Bounds = rect.Rect{X: x, Y: y, Width: w, Height: h}
	mask := uint32(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(x) & 0xffff, uint32(y) & 0xffff, w, h}
	if err := xproto.ConfigureWindowChecked(f.core.Conn, f.Content.ID, uint16(mask), values).Check(); err != nil {
		log.WithError(err).WithField("window", f.Content.ID).Debug("configure content failed")
	}
}

func subU32(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}

// Show maps both the frame and its content, then re-applies the content
// geometry (wm/frame.go's doMap, tilenol/window.py's Frame.show).
func (f *Frame) Show() {
	if f.mapped {
		return
	}
	if err := xproto.MapWindowChecked(f.core.Conn, f.id).Check(); err != nil {
		log.WithError(err).WithField("frame", f.id).Debug("map frame failed")
	}
	if err := xproto.MapWindowChecked(f.core.Conn, f.Content.ID).Check(); err != nil {
		log.WithError(err).WithField("window", f.Content.ID).Debug("map content failed")
	}
	f.mapped = true
	if f.done != (rect.Rect{}) {
		f.configureContent(f.done)
	}
}

// Hide unmaps the frame, clearing the commander's "window" entry first
// if it pointed at this frame's content (tilenol/window.py's Frame.hide).
func (f *Frame) Hide() {
	if !f.mapped {
		return
	}
	if obj, ok := f.commander.Get("window"); ok && obj == Object(f.Content) {
		f.commander.Unset("window")
	}
	if err := xproto.UnmapWindowChecked(f.core.Conn, f.id).Check(); err != nil {
		log.WithError(err).WithField("frame", f.id).Debug("unmap frame failed")
	}
	f.mapped = false
}

// Object is a type alias so Hide/FocusOut/Destroy can compare against
// command.Object without importing it twice under different names.
type Object = command.Object

// FocusIn populates the commander's self-consistent window/group/layout/
// screen tuple and switches the border to the active color (spec.md
// §4.5, tilenol/window.py's Frame.focus_in).
func (f *Frame) FocusIn() {
	f.Content.Real.Focus = true
	if f.group == nil {
		return
	}
	f.commander.Set("window", f.Content)
	f.commander.Set("group", f.group)
	f.commander.Set("layout", f.group.CurrentLayoutName())
	f.commander.Set("screen", f.group.ScreenName())
	f.setBorderColor(f.activeBorder)
}

// FocusOut clears the commander's "window" entry and reverts the border
// to the inactive color.
func (f *Frame) FocusOut() {
	f.Content.Done.Focus = false
	f.Content.Real.Focus = false
	if obj, ok := f.commander.Get("window"); ok && obj == Object(f.Content) {
		f.commander.Unset("window")
	}
	f.setBorderColor(f.inactiveBorder)
}

// BindGroup records which group this frame's content currently belongs
// to, so FocusIn can populate the commander tuple.
func (f *Frame) BindGroup(g FrameGroup) { f.group = g }

// Focus restacks a floating frame to the top and asks its content for
// input focus (tilenol/window.py's Frame.focus: "if floating, restack
// TopIf; then content.focus()").
func (f *Frame) Focus() error {
	if f.Content.LProps.Floating() {
		if err := xproto.ConfigureWindowChecked(f.core.Conn, f.id,
			xproto.ConfigWindowStackMode, []uint32{uint32(xproto.StackModeTopIf)}).Check(); err != nil {
			log.WithError(err).WithField("frame", f.id).Debug("restack on focus failed")
		}
	}
	return f.Content.Focus()
}

// Raise restacks the frame above all its siblings (spec.md §4.7's
// floating windows are "restacked above", §4.9's drag-start promotion
// uses the same restack).
func (f *Frame) Raise() error {
	return xproto.ConfigureWindowChecked(f.core.Conn, f.id,
		xproto.ConfigWindowStackMode, []uint32{uint32(xproto.StackModeAbove)}).Check()
}

func (f *Frame) setBorderColor(pixel uint32) {
	if err := xproto.ChangeWindowAttributesChecked(f.core.Conn, f.id, xproto.CwBorderPixel, []uint32{pixel}).Check(); err != nil {
		log.WithError(err).WithField("frame", f.id).Debug("change border color failed")
	}
}

// ToggleBorder flips the frame's border width between 0 and its
// configured value (tilenol/window.py's Frame.toggle_border).
func (f *Frame) ToggleBorder(configured uint32) {
	if f.borderWidth == 0 {
		f.borderWidth = configured
	} else {
		f.borderWidth = 0
	}
	if err := xproto.ConfigureWindowChecked(f.core.Conn, f.id, xproto.ConfigWindowBorderWidth, []uint32{f.borderWidth}).Check(); err != nil {
		log.WithError(err).WithField("frame", f.id).Debug("set border width failed")
	}
	if f.done != (rect.Rect{}) {
		f.SetBounds(f.done)
	}
}

// Destroy tears down the frame window once its content has been
// unmanaged (wm/frame.go's onDestroy).
func (f *Frame) Destroy() {
	if obj, ok := f.commander.Get("window"); ok && obj == Object(f.Content) {
		f.commander.Unset("window")
	}
	if err := xproto.DestroyWindowChecked(f.core.Conn, f.id).Check(); err != nil {
		log.WithError(err).WithField("frame", f.id).Debug("destroy frame failed")
	}
}
