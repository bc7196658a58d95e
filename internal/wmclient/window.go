// Package wmclient implements the Window & Frame model of spec.md §4.5: a
// managed client's want/done/real geometry triad, ICCCM/EWMH property
// decoding, layout-property round-tripping through reserved _TN_LP_*
// atoms, and the focus/close/kill command surface. It is grounded on
// tilenol/window.py's Window/Frame/LayoutProperties classes, translated
// into the teacher's explicit-struct, explicit-error idiom (wm/frame.go),
// with the original's ARGB icon premultiply kept verbatim in icons.go.
package wmclient

import (
	"encoding/binary"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/bus"
	"github.com/tailhook/tilenol/internal/layout"
	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/xcore"
)

// State is one of the three geometry/visibility snapshots every window
// carries (spec.md §4.5): Want (the client's last configure request),
// Done (what the WM most recently applied) and Real (what ConfigureNotify
// last confirmed actually happened on the server).
type State struct {
	Bounds  rect.Rect
	Visible bool
	Focus   bool
}

// Window is a managed client (spec.md §4.5). It does not know about the
// layout tree directly; Frame (frame.go) is what actually satisfies
// layout.Window and gets placed, reparenting Window's content inside it.
type Window struct {
	core *xcore.Core
	ID   xproto.Window

	Want State
	Done State
	Real State

	Title       string
	Class       []string // e.g. {"gimp-2.8", "Gimp"} from WM_CLASS's two null-terminated parts
	Protocols   map[string]bool
	Hints       *SizeHints
	Icons       []Icon
	IgnoreHints bool

	Props map[string]xproto.GetPropertyReply

	LProps *LayoutProperties

	PropertyChanged *bus.Event

	frame *Frame // set once Frame has reparented this window's content
}

// New wraps an already-created client window. Properties are not read
// yet — the caller issues update_property for each one it cares about,
// same as the original's "ask for what you need" discipline.
func New(core *xcore.Core, id xproto.Window) *Window {
	w := &Window{
		core:            core,
		ID:              id,
		Protocols:       make(map[string]bool),
		Props:           make(map[string]xproto.GetPropertyReply),
		PropertyChanged: bus.New(fmt.Sprintf("window.%d.property_changed", id)),
	}
	w.LProps = newLayoutProperties(w)
	return w
}

// bindFrame records which Frame has reparented this window's content, so
// Show/Hide/SetBounds can delegate the way Window.show/hide/set_bounds do
// in the original when self.frame is set.
func (w *Window) bindFrame(f *Frame) { w.frame = f }

// DragTarget returns the object a pointer drag should move/resize: the
// frame if this window has been reparented into one, otherwise nil
// (mouseregistry.py's Drag.__init__: "if self.win.frame:
// self.win = self.win.frame").
func (w *Window) DragTarget() *Frame { return w.frame }

// Show idempotently maps the window, mirroring Window.show's early return
// when done.Visible is already true.
func (w *Window) Show() bool {
	if w.Done.Visible {
		return false
	}
	w.Done.Visible = true
	if w.frame != nil {
		w.frame.Show()
		return true
	}
	if err := xproto.MapWindowChecked(w.core.Conn, w.ID).Check(); err != nil {
		log.WithError(err).WithField("window", w.ID).Debug("map window failed (likely already destroyed)")
	}
	return true
}

// Hide idempotently unmaps the window.
func (w *Window) Hide() bool {
	if !w.Done.Visible {
		return false
	}
	w.Done.Visible = false
	if w.frame != nil {
		w.frame.Hide()
		return true
	}
	if err := xproto.UnmapWindowChecked(w.core.Conn, w.ID).Check(); err != nil {
		log.WithError(err).WithField("window", w.ID).Debug("unmap window failed (likely already destroyed)")
	}
	return true
}

// SetBounds applies rect to the window, short-circuiting when it already
// matches Done.Bounds and force is false (spec.md §4.5). When the window
// is framed the frame computes its own box and, from that, the content's
// inner box via configureContent; otherwise the window is configured
// directly.
func (w *Window) SetBounds(r rect.Rect, force bool) bool {
	if !force && w.Done.Bounds == r {
		return false
	}
	if w.frame != nil {
		w.frame.SetBounds(r)
		return true
	}
	w.Done.Bounds = r
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{
		uint32(r.X) & 0xffff, uint32(r.Y) & 0xffff,
		uint32(r.Width), uint32(r.Height),
	}
	if err := xproto.ConfigureWindowChecked(w.core.Conn, w.ID, mask, values).Check(); err != nil {
		log.WithError(err).WithField("window", w.ID).Debug("configure window failed")
	}
	return true
}

// ReparentToFrame moves the client into parent, registering it in the
// server's SaveSet first so it survives a WM crash (spec.md §4.5), then
// reparents — matching the order of tilenol/window.py's reparent_to.
func (w *Window) ReparentToFrame(parent xproto.Window) error {
	if err := xproto.ChangeSaveSetChecked(w.core.Conn, xproto.SetModeInsert, w.ID).Check(); err != nil {
		return fmt.Errorf("wmclient: change save set failed: %w", err)
	}
	if err := xproto.ReparentWindowChecked(w.core.Conn, w.ID, parent, 0, 0).Check(); err != nil {
		return fmt.Errorf("wmclient: reparent to frame failed: %w", err)
	}
	return nil
}

// ReparentToRoot moves the client back under the root window and drops it
// from the SaveSet — used when unmanaging a live client (as opposed to
// one that already died, where both requests are expected to fail and
// are logged at debug rather than treated as errors, spec.md §4.5
// failure handling).
func (w *Window) ReparentToRoot(root xproto.Window) {
	if err := xproto.ReparentWindowChecked(w.core.Conn, w.ID, root, 0, 0).Check(); err != nil {
		log.WithError(err).WithField("window", w.ID).Debug("reparent to root failed (window likely already destroyed)")
	}
	if err := xproto.ChangeSaveSetChecked(w.core.Conn, xproto.SetModeDelete, w.ID).Check(); err != nil {
		log.WithError(err).WithField("window", w.ID).Debug("change save set (delete) failed")
	}
}

// UpdateProperty fetches atom's current value, decodes it and updates the
// relevant field, then emits PropertyChanged (spec.md §4.5). A read
// against a just-destroyed window is expected and logged at debug rather
// than surfaced as an error.
func (w *Window) UpdateProperty(atom xproto.Atom) {
	name, err := w.core.AtomName(atom)
	if err != nil {
		log.WithError(err).WithField("window", w.ID).Debug("atom name lookup failed")
		return
	}
	reply, err := xproto.GetProperty(w.core.Conn, false, w.ID, atom, xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil || reply == nil {
		log.WithError(err).WithFields(log.Fields{"window": w.ID, "property": name}).
			Debug("property read failed (window likely destroyed)")
		return
	}
	w.Props[name] = *reply
	w.decodeProperty(name, reply)
	w.PropertyChanged.Emit()
}

// FetchInitialProperties reads each named property once, used right
// after CreateNotify to seed title/class/hints/icons/protocols before any
// PropertyNotify has arrived (spec.md §4.11 "fetch initial property
// list").
func (w *Window) FetchInitialProperties(names []string) {
	for _, name := range names {
		atom, err := w.core.Atom(name)
		if err != nil {
			log.WithError(err).WithField("property", name).Debug("intern atom for initial property fetch failed")
			continue
		}
		w.UpdateProperty(atom)
	}
}

func (w *Window) decodeProperty(name string, reply *xproto.GetPropertyReply) {
	switch {
	case name == "WM_NAME" || name == "_NET_WM_NAME":
		w.Title = string(reply.Value)
	case name == "WM_CLASS":
		w.Class = splitNullTerminated(reply.Value)
	case name == "WM_NORMAL_HINTS":
		w.Hints = decodeSizeHints(reply.Value)
	case name == "WM_PROTOCOLS":
		w.decodeProtocols(reply.Value)
	case name == "_NET_WM_ICON":
		w.Icons = DecodeIcons(reply.Value)
	case name == "_NET_WM_DESKTOP":
		if len(reply.Value) >= 4 {
			w.LProps.setGroupFromProperty(int32(binary.LittleEndian.Uint32(reply.Value)))
		}
	case len(name) > len(lpPrefix) && name[:len(lpPrefix)] == lpPrefix:
		w.LProps.setFromProperty(name[len(lpPrefix):], reply.Value)
	}
}

// AtomListProperty resolves a property holding a list of atoms (e.g.
// _NET_WM_WINDOW_TYPE) into their string names, used by
// classify.MatchType.
func (w *Window) AtomListProperty(name string) ([]string, bool) {
	reply, ok := w.Props[name]
	if !ok {
		return nil, false
	}
	var out []string
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		atom := xproto.Atom(binary.LittleEndian.Uint32(reply.Value[i : i+4]))
		if name, err := w.core.AtomName(atom); err == nil {
			out = append(out, name)
		}
	}
	return out, true
}

// StringProperty returns a raw string-valued property (e.g.
// WM_WINDOW_ROLE), used by classify.MatchRole.
func (w *Window) StringProperty(name string) (string, bool) {
	reply, ok := w.Props[name]
	if !ok {
		return "", false
	}
	return string(reply.Value), true
}

// HasProperty reports whether name was ever successfully read off the
// wire for this window, used by classify.HasProperty.
func (w *Window) HasProperty(name string) bool {
	_, ok := w.Props[name]
	return ok
}

func (w *Window) decodeProtocols(raw []byte) {
	w.Protocols = make(map[string]bool, len(raw)/4)
	for i := 0; i+4 <= len(raw); i += 4 {
		atom := xproto.Atom(binary.LittleEndian.Uint32(raw[i : i+4]))
		if name, err := w.core.AtomName(atom); err == nil {
			w.Protocols[name] = true
		}
	}
}

func splitNullTerminated(raw []byte) []string {
	var out []string
	start := 0
	for i, b := range raw {
		if b == 0 {
			if i > start {
				out = append(out, string(raw[start:i]))
			}
			start = i + 1
		}
	}
	if start < len(raw) {
		out = append(out, string(raw[start:]))
	}
	return out
}

// Focus asks the window for input focus: a WM_TAKE_FOCUS client message
// if the client advertises it, else a direct SetInputFocus — both keyed
// off the core's last-seen server timestamp (spec.md §4.5).
func (w *Window) Focus() error {
	w.Done.Focus = true
	if w.Protocols["WM_TAKE_FOCUS"] {
		return w.sendProtocolMessage("WM_TAKE_FOCUS")
	}
	return xproto.SetInputFocusChecked(w.core.Conn, xproto.InputFocusPointerRoot, w.ID, w.core.LastTime()).Check()
}

func (w *Window) sendProtocolMessage(protocol string) error {
	wmProtocols := w.core.MustAtom("WM_PROTOCOLS")
	target := w.core.MustAtom(protocol)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w.ID,
		Type:   wmProtocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(target), uint32(w.core.LastTime()), 0, 0, 0,
		}),
	}
	return w.core.SendEvent(w.ID, 0, ev.Bytes())
}

// Close requests a graceful close via WM_DELETE_WINDOW if advertised;
// otherwise it only logs — callers that want to force termination call
// Kill explicitly (spec.md §4.5, tilenol/window.py's cmd_close).
func (w *Window) Close() error {
	if w.Protocols["WM_DELETE_WINDOW"] {
		return w.sendProtocolMessage("WM_DELETE_WINDOW")
	}
	log.WithField("window", w.ID).Warn("client does not support WM_DELETE_WINDOW, use kill to force")
	return nil
}

// Kill forcibly terminates the client's connection.
func (w *Window) Kill() error {
	return xproto.KillClientChecked(w.core.Conn, uint32(w.ID)).Check()
}

func (w *Window) setProperty(name string, typ xproto.Atom, format byte, data []byte) {
	atom, err := w.core.Atom(name)
	if err != nil {
		log.WithError(err).WithField("property", name).Debug("intern atom for property write failed")
		return
	}
	dataLen := uint32(len(data))
	if format == 32 {
		dataLen = uint32(len(data)) / 4
	}
	if err := xproto.ChangePropertyChecked(w.core.Conn, xproto.PropModeReplace, w.ID, atom, typ, format, dataLen, data).Check(); err != nil {
		log.WithError(err).WithField("property", name).Debug("change property failed")
	}
}

func (w *Window) setCardinal(name string, value uint32) {
	cardinal := w.core.MustAtom("CARDINAL")
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	w.setProperty(name, cardinal, 32, buf)
}

// LayoutID returns the window's X id as a layout.WindowID. Window itself
// does not implement layout.Window; its Frame does.
func (w *Window) LayoutID() layout.WindowID { return layout.WindowID(w.ID) }
