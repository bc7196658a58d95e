// Package ewmh implements the EWMH surface of spec.md §4.10: the
// supporting-WM-check window, per-client WM_STATE transitions, and the
// supplemented _NET_CLIENT_LIST/_NET_NUMBER_OF_DESKTOPS family spec.md
// §6 lists among the properties this WM writes. Grounded on
// tilenol/ewmh.py's Ewmh class.
package ewmh

import (
	"encoding/binary"

	"github.com/BurntSushi/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/xcore"
)

// ICCCM WM_STATE values (spec.md §4.10).
const (
	withdrawnState = 0
	normalState    = 1
)

// wmName is the string EWMH clients see in _NET_WM_NAME for the
// supporting-check window, matching ewmh.py's literal b'tilenol'.
const wmName = "tilenol"

// Surface owns the supporting-WM-check window and the per-client/per-root
// property writers (ewmh.py's Ewmh).
type Surface struct {
	core        *xcore.Core
	checkWindow xproto.Window
}

// New creates the 1x1 input-only supporting-check window, advertises it
// on both itself and the root window, and sets its _NET_WM_NAME
// (ewmh.py's __zorro_di_done__).
func New(core *xcore.Core) (*Surface, error) {
	id, err := xproto.NewWindowId(core.Conn)
	if err != nil {
		return nil, &xcore.XError{Kind: "NewWindowId", Err: err}
	}
	err = xproto.CreateWindowChecked(core.Conn, core.Screen.RootDepth, id, core.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOnly, core.Screen.RootVisual, 0, nil).Check()
	if err != nil {
		return nil, &xcore.XError{Kind: "CreateWindow", Params: []interface{}{"ewmh-check"}, Err: err}
	}

	s := &Surface{core: core, checkWindow: id}

	windowAtom := core.MustAtom("WINDOW")
	checkAtom := core.MustAtom("_NET_SUPPORTING_WM_CHECK")
	s.writeWindowProperty(core.Root, checkAtom, windowAtom, id)
	s.writeWindowProperty(id, checkAtom, windowAtom, id)

	utf8 := core.MustAtom("UTF8_STRING")
	nameAtom := core.MustAtom("_NET_WM_NAME")
	if err := xproto.ChangePropertyChecked(core.Conn, xproto.PropModeReplace, id, nameAtom,
		utf8, 8, uint32(len(wmName)), []byte(wmName)).Check(); err != nil {
		log.WithError(err).Debug("set supporting-check window name failed")
	}

	return s, nil
}

func (s *Surface) writeWindowProperty(target xproto.Window, property, typ xproto.Atom, value xproto.Window) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(value))
	if err := xproto.ChangePropertyChecked(s.core.Conn, xproto.PropModeReplace, target, property,
		typ, 32, 1, buf).Check(); err != nil {
		log.WithError(err).WithField("window", target).Debug("set supporting-check property failed")
	}
}

// ShowingWindow writes WM_STATE=(NormalState, None) on win (ewmh.py's
// showing_window).
func (s *Surface) ShowingWindow(win xproto.Window) {
	s.setWMState(win, normalState)
}

// HidingWindow writes WM_STATE=(WithdrawnState, None) on win (ewmh.py's
// hiding_window).
func (s *Surface) HidingWindow(win xproto.Window) {
	s.setWMState(win, withdrawnState)
}

func (s *Surface) setWMState(win xproto.Window, state uint32) {
	card32 := s.core.MustAtom("CARD32")
	wmState := s.core.MustAtom("WM_STATE")
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], state)
	binary.LittleEndian.PutUint32(buf[4:8], 0) // icon window: None
	if err := xproto.ChangePropertyChecked(s.core.Conn, xproto.PropModeReplace, win, wmState,
		card32, 32, 2, buf).Check(); err != nil {
		log.WithError(err).WithField("window", win).Debug("set WM_STATE failed")
	}
}

// SetClientList writes _NET_CLIENT_LIST and _NET_CLIENT_LIST_STACKING
// (supplemented in SPEC_FULL.md §12 from ewmh.py's sibling EWMH
// properties; both lists carry the same mapping-order window set since
// this WM does not track a separate stacking order from its management
// order).
func (s *Surface) SetClientList(windows []xproto.Window) {
	atom := s.core.MustAtom("WINDOW")
	buf := make([]byte, 4*len(windows))
	for i, w := range windows {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], uint32(w))
	}
	for _, name := range []string{"_NET_CLIENT_LIST", "_NET_CLIENT_LIST_STACKING"} {
		prop := s.core.MustAtom(name)
		if err := xproto.ChangePropertyChecked(s.core.Conn, xproto.PropModeReplace, s.core.Root, prop,
			atom, 32, uint32(len(windows)), buf).Check(); err != nil {
			log.WithError(err).WithField("property", name).Debug("set client list failed")
		}
	}
}

// SetDesktops writes _NET_NUMBER_OF_DESKTOPS, _NET_DESKTOP_NAMES and
// _NET_CURRENT_DESKTOP (supplemented: groups.py's groups map directly
// onto EWMH's desktop model, one group == one desktop index).
func (s *Surface) SetDesktops(names []string, current int32) {
	card := s.core.MustAtom("CARDINAL")
	numAtom := s.core.MustAtom("_NET_NUMBER_OF_DESKTOPS")
	numBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(numBuf, uint32(len(names)))
	if err := xproto.ChangePropertyChecked(s.core.Conn, xproto.PropModeReplace, s.core.Root, numAtom,
		card, 32, 1, numBuf).Check(); err != nil {
		log.WithError(err).Debug("set desktop count failed")
	}

	curAtom := s.core.MustAtom("_NET_CURRENT_DESKTOP")
	curBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(curBuf, uint32(current))
	if err := xproto.ChangePropertyChecked(s.core.Conn, xproto.PropModeReplace, s.core.Root, curAtom,
		card, 32, 1, curBuf).Check(); err != nil {
		log.WithError(err).Debug("set current desktop failed")
	}

	utf8 := s.core.MustAtom("UTF8_STRING")
	namesAtom := s.core.MustAtom("_NET_DESKTOP_NAMES")
	joined := joinNullTerminated(names)
	if err := xproto.ChangePropertyChecked(s.core.Conn, xproto.PropModeReplace, s.core.Root, namesAtom,
		utf8, 8, uint32(len(joined)), joined).Check(); err != nil {
		log.WithError(err).Debug("set desktop names failed")
	}
}

// joinNullTerminated packs names the way _NET_DESKTOP_NAMES (and
// WM_CLASS/STRING-list properties generally) expect: each entry followed
// by a single NUL, with no trailing separator beyond the last entry's own.
func joinNullTerminated(names []string) []byte {
	var out []byte
	for _, n := range names {
		out = append(out, n...)
		out = append(out, 0)
	}
	return out
}

// CheckWindow returns the supporting-WM-check window id.
func (s *Surface) CheckWindow() xproto.Window { return s.checkWindow }
