package wmclient

import "encoding/binary"

// lpPrefix is the reserved property namespace spec.md §4.10 describes for
// layout properties that round-trip through the server so a restart can
// recover placement (grounded on tilenol/window.py's LayoutProperties
// writing "_TN_LP_" + name.upper()).
const lpPrefix = "_TN_LP_"

// LayoutProperties holds the window attributes the layout engine and
// classifier consult (stack assignment, floating flag, group/desktop
// index) and writes each one back to the server on change, the way the
// original's LayoutProperties.__setattr__ does via set_property. Unlike
// the Python version's dynamic __getattr__/__setattr__, every attribute
// gets an explicit typed getter/setter here (spec.md §9 "explicit struct
// wiring").
type LayoutProperties struct {
	win *Window

	stack    string
	floating bool
	group    int32
}

func newLayoutProperties(w *Window) *LayoutProperties {
	return &LayoutProperties{win: w, group: -1}
}

func (lp *LayoutProperties) Stack() string { return lp.stack }

// SetStack assigns the window's stack name and writes it back to
// _TN_LP_STACK, skipping the write if the value is unchanged (matching
// the original's `if getattr(self, name) != value`).
func (lp *LayoutProperties) SetStack(name string) {
	if lp.stack == name {
		return
	}
	lp.stack = name
	utf8String := lp.win.core.MustAtom("UTF8_STRING")
	lp.win.setProperty(lpPrefix+"STACK", utf8String, 8, []byte(name))
}

func (lp *LayoutProperties) Floating() bool { return lp.floating }

// SetFloating assigns the floating flag and writes _TN_LP_FLOATING as a
// CARDINAL 0/1.
func (lp *LayoutProperties) SetFloating(v bool) {
	if lp.floating == v {
		return
	}
	lp.floating = v
	n := uint32(0)
	if v {
		n = 1
	}
	lp.win.setCardinal(lpPrefix+"FLOATING", n)
}

// Group returns the _NET_WM_DESKTOP index this window is assigned to, or
// -1 if unset.
func (lp *LayoutProperties) Group() int32 { return lp.group }

// SetGroup assigns the window's desktop/group index and writes
// _NET_WM_DESKTOP (the original's short_to_long special-case: "group"
// maps to the EWMH property name rather than a _TN_LP_ one).
func (lp *LayoutProperties) SetGroup(index int32) {
	if lp.group == index {
		return
	}
	lp.group = index
	lp.win.setCardinal("_NET_WM_DESKTOP", uint32(index))
}

// setFromProperty applies an inbound _TN_LP_<NAME> property value read
// off the wire (UpdateProperty), without re-writing it back to the
// server — this is the read path, the setters above are the write path.
func (lp *LayoutProperties) setFromProperty(name string, raw []byte) {
	switch name {
	case "STACK":
		lp.stack = string(raw)
	case "FLOATING":
		if len(raw) >= 4 {
			lp.floating = binary.LittleEndian.Uint32(raw) != 0
		}
	}
}

func (lp *LayoutProperties) setGroupFromProperty(index int32) {
	lp.group = index
}
