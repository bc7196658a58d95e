// Package screen implements the screen manager of spec.md §4.4: an ordered
// list of Screens, each with an outer rectangle (the monitor's full area)
// and an inner rectangle (outer minus any bars/slices docked to it). It is
// grounded on tilenol/screen.py's ScreenManager/Screen, generalized from
// top/bottom bars only to the four-sided bar/slice peeling spec.md §4.4
// describes, and wired into command.Registry the way the original injects
// each Screen under "screen.<i>".
package screen

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/bus"
	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/xcore"
)

// DiscoverScreens queries RandR's CRTC geometry when available, falling
// back to Xinerama, and finally to a single screen spanning the whole
// root window when neither extension is present — grounded on
// cortile's PhysicalHeadsGet (RandR outputs→CRTC rectangles) and dewm's
// main (Xinerama QueryScreens with a single-screen fallback when it
// reports none), generalized to spec.md §4.4's "discover outputs, or
// treat the whole root as one screen".
func DiscoverScreens(core *xcore.Core) ([]rect.Rect, error) {
	if core.Ext.RandR {
		rects, err := discoverViaRandR(core)
		if err == nil && len(rects) > 0 {
			return rects, nil
		}
		if err != nil {
			log.WithError(err).Warn("RandR screen discovery failed, falling back")
		}
	}
	if core.Ext.Xinerama {
		rects, err := discoverViaXinerama(core)
		if err == nil && len(rects) > 0 {
			return rects, nil
		}
		if err != nil {
			log.WithError(err).Warn("Xinerama screen discovery failed, falling back")
		}
	}
	return []rect.Rect{{
		X: 0, Y: 0,
		Width:  uint32(core.Screen.WidthInPixels),
		Height: uint32(core.Screen.HeightInPixels),
	}}, nil
}

func discoverViaRandR(core *xcore.Core) ([]rect.Rect, error) {
	resources, err := randr.GetScreenResources(core.Conn, core.Root).Reply()
	if err != nil {
		return nil, err
	}
	var out []rect.Rect
	for _, output := range resources.Outputs {
		oinfo, err := randr.GetOutputInfo(core.Conn, output, 0).Reply()
		if err != nil || oinfo.Connection != randr.ConnectionConnected || oinfo.Crtc == 0 {
			continue
		}
		cinfo, err := randr.GetCrtcInfo(core.Conn, oinfo.Crtc, 0).Reply()
		if err != nil {
			continue
		}
		out = append(out, rect.Rect{
			X: int32(cinfo.X), Y: int32(cinfo.Y),
			Width: uint32(cinfo.Width), Height: uint32(cinfo.Height),
		})
	}
	return out, nil
}

func discoverViaXinerama(core *xcore.Core) ([]rect.Rect, error) {
	reply, err := xinerama.QueryScreens(core.Conn).Reply()
	if err != nil {
		return nil, err
	}
	out := make([]rect.Rect, 0, len(reply.ScreenInfo))
	for _, s := range reply.ScreenInfo {
		out = append(out, rect.Rect{
			X: int32(s.XOrg), Y: int32(s.YOrg),
			Width: uint32(s.Width), Height: uint32(s.Height),
		})
	}
	return out, nil
}

// Side names which edge a Bar is docked to, in the peel order spec.md §4.4
// states: top, then bottom, then left, then right.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

// Bar is anything that reserves a fixed-thickness strip along one edge of
// a Screen (a status bar, a reserved strut) — spec.md §4.4 "bars and
// slices get their own inner rectangles".
type Bar interface {
	// Thickness is the bar's height (Top/Bottom) or width (Left/Right).
	Thickness() uint32
	// SetBounds is called with the bar's own rectangle once peeled.
	SetBounds(r rect.Rect)
	Hide()
	Show()
}

type dockedBar struct {
	side Side
	bar  Bar
}

// Screen is one physical output: a fixed outer rectangle, a set of docked
// bars, and the inner rectangle left over once they're peeled off. A
// Screen is bound to at most one group.Group at a time (spec.md §4.7); the
// binding itself lives in the group manager, not here.
type Screen struct {
	Index int

	commander *command.Registry
	Updated   *bus.Event

	outer       rect.Rect
	inner       rect.Rect
	bars        []dockedBar
	barsVisible bool

	group ScreenGroup
}

// ScreenGroup is the narrow slice of group.Group the screen needs to
// delegate cmd_focus to — it lets screen avoid importing the group
// package (which imports screen to look up bindings), matching the
// teacher's one-way dependency convention in manager/manager.go.
type ScreenGroup interface {
	Focus()
}

// New builds a Screen with outer == inner (no bars yet) and registers it
// with the commander under "screen.<index>", mirroring
// ScreenManager.__zorro_di_done__'s `commander['screen.%d' % i] = scr`.
func New(index int, outer rect.Rect, commander *command.Registry) *Screen {
	s := &Screen{
		Index:       index,
		commander:   commander,
		Updated:     bus.New(fmt.Sprintf("screen.%d.updated", index)),
		outer:       outer,
		inner:       outer,
		barsVisible: true,
	}
	name := fmt.Sprintf("screen.%d", index)
	commander.Set(name, s)
	commander.RegisterVerbs(name, map[string]func(args ...string) error{
		"focus":       s.cmdFocus,
		"toggle_bars": s.cmdToggleBars,
		"hide_bars":   s.cmdHideBars,
		"show_bars":   s.cmdShowBars,
	})
	return s
}

// Outer returns the screen's full, monitor-sized rectangle.
func (s *Screen) Outer() rect.Rect { return s.outer }

// Inner returns the rectangle left after peeling every visible bar.
func (s *Screen) Inner() rect.Rect { return s.inner }

// BindGroup attaches g as the screen's active group (spec.md §4.7); used
// by the group manager, not called directly by command dispatch.
func (s *Screen) BindGroup(g ScreenGroup) { s.group = g }

// AddBar docks bar to side and recomputes bounds immediately.
func (s *Screen) AddBar(side Side, bar Bar) {
	s.bars = append(s.bars, dockedBar{side: side, bar: bar})
	s.SetBounds(s.outer)
}

// SetBounds assigns the screen's outer rectangle and peels bars off it in
// declaration order — top bars first, then bottom, then left, then right,
// per spec.md §4.4 — to compute the inner rectangle. Emits Updated
// unconditionally, same as screen.py's set_bounds.
func (s *Screen) SetBounds(outer rect.Rect) {
	s.outer = outer
	inner := outer

	if s.barsVisible {
		for _, side := range []Side{Top, Bottom, Left, Right} {
			for _, db := range s.bars {
				if db.side != side {
					continue
				}
				t := db.bar.Thickness()
				switch side {
				case Top:
					db.bar.SetBounds(rect.Rect{X: inner.X, Y: inner.Y, Width: inner.Width, Height: t})
					inner.Y += int32(t)
					inner.Height = subClamp(inner.Height, t)
				case Bottom:
					inner.Height = subClamp(inner.Height, t)
					db.bar.SetBounds(rect.Rect{X: inner.X, Y: inner.Y + int32(inner.Height), Width: inner.Width, Height: t})
				case Left:
					db.bar.SetBounds(rect.Rect{X: inner.X, Y: inner.Y, Width: t, Height: inner.Height})
					inner.X += int32(t)
					inner.Width = subClamp(inner.Width, t)
				case Right:
					inner.Width = subClamp(inner.Width, t)
					db.bar.SetBounds(rect.Rect{X: inner.X + int32(inner.Width), Y: inner.Y, Width: t, Height: inner.Height})
				}
			}
		}
	}

	s.inner = inner
	log.WithFields(log.Fields{"component": "screen", "screen": s.Index}).
		WithField("inner", s.inner).Debug("bounds updated")
	s.Updated.Emit()
}

func subClamp(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}

func (s *Screen) cmdFocus(args ...string) error {
	if s.group == nil {
		return fmt.Errorf("screen %d: no group bound", s.Index)
	}
	s.group.Focus()
	return nil
}

// cmdToggleBars implements spec.md §4.4 "toggle bars (unmaps bars and
// grants their space to the inner rectangle)".
func (s *Screen) cmdToggleBars(args ...string) error {
	if s.barsVisible {
		return s.cmdHideBars()
	}
	return s.cmdShowBars()
}

func (s *Screen) cmdHideBars(args ...string) error {
	for _, db := range s.bars {
		db.bar.Hide()
	}
	s.barsVisible = false
	s.inner = s.outer
	s.Updated.Emit()
	return nil
}

func (s *Screen) cmdShowBars(args ...string) error {
	for _, db := range s.bars {
		db.bar.Show()
	}
	s.barsVisible = true
	s.SetBounds(s.outer)
	return nil
}

// Manager holds the ordered list of Screens discovered from the X
// connection's xinerama/randr outputs (spec.md §4.4, §4.11 hotplug),
// mirroring ScreenManager's constructor-from-rectangles plus commander
// injection loop.
type Manager struct {
	commander *command.Registry
	Screens   []*Screen
}

// NewManager builds one Screen per entry in outers, in order.
func NewManager(commander *command.Registry, outers []rect.Rect) *Manager {
	m := &Manager{commander: commander}
	for i, r := range outers {
		m.Screens = append(m.Screens, New(i, r, commander))
	}
	return m
}

// Contains reports whether scr is still one of the Manager's current
// Screens, used by group.Manager.ReassignScreens to drop bindings to
// screens a Reconfigure has just trimmed away.
func (m *Manager) Contains(scr *Screen) bool {
	for _, s := range m.Screens {
		if s == scr {
			return true
		}
	}
	return false
}

// Reconfigure replaces the outer rectangles on hotplug (spec.md §4.11
// ScreenChange/RRNotify), reusing existing Screen objects index-for-index
// where possible so group bindings survive a resolution change, and
// appending/trimming Screens when the output count itself changes.
func (m *Manager) Reconfigure(outers []rect.Rect) {
	for i, r := range outers {
		if i < len(m.Screens) {
			m.Screens[i].SetBounds(r)
		} else {
			m.Screens = append(m.Screens, New(i, r, m.commander))
		}
	}
	if len(outers) < len(m.Screens) {
		m.Screens = m.Screens[:len(outers)]
	}
}
