// Package group implements the group manager of spec.md §4.7: named
// virtual desktops, each owning one layout.Tree plus a floating-window
// list, bound to screens one-to-one. It is grounded on
// tilenol/groups.py's GroupManager/Group, but decides open question #1
// (SPEC_FULL.md §13) by binding groups per-screen rather than through a
// single process-wide current_group field — group.Manager.bound
// replaces groups.py's self.current_group entirely.
package group

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/bus"
	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/layout"
	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/screen"
	"github.com/tailhook/tilenol/internal/wmclient"
)

// binder is satisfied by wmclient.Frame: a window that can be told which
// group it belongs to, so Frame.FocusIn can populate the commander's
// window/group/layout/screen tuple (spec.md §4.5). Plain layout.Window
// fakes (tests, or non-frame helper windows) simply don't implement it.
type binder interface {
	BindGroup(g wmclient.FrameGroup)
}

// floater is satisfied by wmclient.Frame: a window that knows its own
// _TN_LP_FLOATING flag, so AddWindow can route it straight to the
// floating list instead of the layout tree (spec.md §4.7 "classified or
// explicitly floating windows go straight to floating_windows"). Plain
// layout.Window fakes that don't implement it are treated as tiled,
// same as before this flag existed.
type floater interface {
	Floating() bool
}

// raiser is satisfied by wmclient.Frame: restacks the frame above its
// siblings, the way groups.py's add_window raises a newly floating
// window once it lands in floating_windows.
type raiser interface {
	Raise() error
}

// LayoutFactory builds a fresh, empty layout.Tree for a named layout —
// spec.md §4.6/§4.7's "current_layout" / cmd_set_layout.
type LayoutFactory func() *layout.Tree

// Group is one virtual desktop: a tiled layout.Tree plus a list of
// floating windows, shown only while bound to a screen (spec.md §3 "a
// group with no screen has all its windows hidden").
type Group struct {
	name string

	commander *command.Registry

	layouts     map[string]LayoutFactory
	layoutName  string
	tree        *layout.Tree
	floating    []layout.Window
	allWindows  []layout.Window

	scr *screen.Screen // nil when not bound to any screen
}

// New builds a Group with defaultLayout as its starting arrangement.
// layouts must contain at least defaultLayout.
func New(name string, layouts map[string]LayoutFactory, defaultLayout string, commander *command.Registry) *Group {
	g := &Group{
		name:       name,
		commander:  commander,
		layouts:    layouts,
		layoutName: defaultLayout,
		tree:       layouts[defaultLayout](),
	}
	return g
}

func (g *Group) Name() string               { return g.name }
func (g *Group) CurrentLayoutName() string  { return g.layoutName }
func (g *Group) Empty() bool                { return len(g.allWindows) == 0 }
func (g *Group) AllWindows() []layout.Window { return g.allWindows }

// ScreenName returns the name of the screen this group is currently
// bound to, or "" if unbound.
func (g *Group) ScreenName() string {
	if g.scr == nil {
		return ""
	}
	return fmt.Sprintf("screen.%d", g.scr.Index)
}

// bindScreen records scr as this group's screen without touching
// visibility — callers (Manager) call Show/Hide around this as needed.
func (g *Group) bindScreen(scr *screen.Screen) { g.scr = scr }

// AddWindow routes win to the floating list if it is already marked
// floating (spec.md §4.7: classifier-driven or explicitly-floating
// windows go straight to floating_windows, restacked above), otherwise
// places it into the current layout; if every eligible stack is full the
// window becomes floating as a fallback instead (spec.md §4.6 "the
// caller treats window as floating"). Mirrors groups.py's
// Group.add_window, generalized with the binder hook for the commander
// focus tuple.
func (g *Group) AddWindow(win layout.Window) {
	if b, ok := win.(binder); ok {
		b.BindGroup(g)
	}
	g.allWindows = append(g.allWindows, win)

	explicit := false
	if f, ok := win.(floater); ok && f.Floating() {
		explicit = true
	}
	if explicit || !g.tree.Add(win) {
		g.floating = append(g.floating, win)
		if r, ok := win.(raiser); ok {
			if err := r.Raise(); err != nil {
				log.WithError(err).Debug("group: restack newly floating window failed")
			}
		}
	}
	g.tree.Relayout()
	if g.scr != nil {
		win.Show()
	} else {
		win.Hide()
	}
}

// RemoveWindow takes win out of the tree or the floating list, whichever
// holds it.
func (g *Group) RemoveWindow(win layout.Window) {
	for i, w := range g.allWindows {
		if w == win {
			g.allWindows = append(g.allWindows[:i], g.allWindows[i+1:]...)
			break
		}
	}
	for i, w := range g.floating {
		if w == win {
			g.floating = append(g.floating[:i], g.floating[i+1:]...)
			g.tree.Relayout()
			return
		}
	}
	g.tree.Remove(win)
	g.tree.Relayout()
}

// Hide hides every window the group owns, tiled or floating
// (groups.py's Group.hide).
func (g *Group) Hide() {
	g.tree.HideAll()
	for _, w := range g.floating {
		w.Hide()
	}
}

// Show shows every window the group owns (groups.py's Group.show).
func (g *Group) Show() {
	g.tree.ShowAll()
	for _, w := range g.floating {
		w.Show()
	}
}

// SetBounds resizes the group's layout tree to r. Floating windows are
// left exactly where they are, same as the original's
// "TODO constrain floating windows" — left to the implementer per
// spec.md §9, not attempted here either.
func (g *Group) SetBounds(r rect.Rect) {
	g.tree.SetBounds(r)
	g.tree.Relayout()
}

// SetLayout rebuilds the tree from a different named LayoutFactory,
// re-adding every currently-tiled window in its existing order (spec.md
// §4.7 cmd_set_layout). Floating windows are untouched.
func (g *Group) SetLayout(name string) error {
	factory, ok := g.layouts[name]
	if !ok {
		return fmt.Errorf("group %s: unknown layout %q", g.name, name)
	}
	old := g.tree.AllWindows()
	g.tree = factory()
	g.layoutName = name
	for _, w := range old {
		if !g.tree.Add(w) {
			g.floating = append(g.floating, w)
		}
	}
	if g.scr != nil {
		g.tree.SetBounds(g.scr.Inner())
	}
	g.tree.Relayout()
	return nil
}

// FocusNext/FocusPrev cycle focus among the group's windows in tree
// order (tiled) followed by floating order — spec.md §4.7. current is
// the presently-focused window, or nil to focus the first one.
func (g *Group) combinedOrder() []layout.Window {
	out := append([]layout.Window{}, g.tree.AllWindows()...)
	out = append(out, g.floating...)
	return out
}

func (g *Group) cycle(current layout.Window, delta int) layout.Window {
	order := g.combinedOrder()
	if len(order) == 0 {
		return nil
	}
	idx := -1
	for i, w := range order {
		if w == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return order[0]
	}
	idx = ((idx+delta)%len(order) + len(order)) % len(order)
	return order[idx]
}

func (g *Group) FocusNext(current layout.Window) layout.Window { return g.cycle(current, 1) }
func (g *Group) FocusPrev(current layout.Window) layout.Window { return g.cycle(current, -1) }

// MoveWindow performs a cmd_left/right/up/down cross-stack motion on win
// within this group's tree, relaying out afterward (spec.md §4.6,
// delegating to layout.Tree.Move).
func (g *Group) MoveWindow(win layout.Window, dir layout.MoveDirection) {
	g.tree.Move(win, dir)
	g.tree.Relayout()
}

// ShiftWindowUp/ShiftWindowDown rotate win's stack order (spec.md §4.6
// "shift_up/shift_down"), delegating to layout.Tree.
func (g *Group) ShiftWindowUp(win layout.Window) {
	g.tree.ShiftUp(win)
	g.tree.Relayout()
}

func (g *Group) ShiftWindowDown(win layout.Window) {
	g.tree.ShiftDown(win)
	g.tree.Relayout()
}

// Manager is the group manager of spec.md §4.7: an ordered, named set of
// Groups bound one-to-one to screens, with no global "current group"
// (open question #1, decided per-screen).
type Manager struct {
	commander *command.Registry
	screens   *screen.Manager

	groups []*Group
	byName map[string]*Group
	bound  map[*screen.Screen]*Group

	GroupChanged *bus.Event
	WindowAdded  *bus.Event
}

// NewManager builds one Manager over groups, binding the first
// len(groups) screens to the first len(groups) groups in declaration
// order (groups.py only ever had one screen; this generalizes the same
// "bind in order" startup behavior across however many screens are
// present). Extra groups beyond the screen count start unbound and
// hidden; extra screens beyond the group count start with no group
// bound at all.
func NewManager(commander *command.Registry, screens *screen.Manager, groups []*Group) *Manager {
	m := &Manager{
		commander:    commander,
		screens:      screens,
		groups:       groups,
		byName:       make(map[string]*Group, len(groups)),
		bound:        make(map[*screen.Screen]*Group, len(groups)),
		GroupChanged: bus.New("group-manager.group_changed"),
		WindowAdded:  bus.New("group-manager.window_added"),
	}
	for _, g := range groups {
		m.byName[g.name] = g
	}
	for i := range screens.Screens {
		if i >= len(groups) {
			break
		}
		scr, g := screens.Screens[i], groups[i]
		m.bindScreenGroup(scr, g)
		scr.BindGroup(g)
		scr.Updated.Listen(func() { g.SetBounds(scr.Inner()) })
	}
	return m
}

func (m *Manager) bindScreenGroup(scr *screen.Screen, g *Group) {
	m.bound[scr] = g
	g.bindScreen(scr)
	g.SetBounds(scr.Inner())
}

// GroupOn returns the group currently bound to scr, or nil.
func (m *Manager) GroupOn(scr *screen.Screen) *Group { return m.bound[scr] }

// GroupAt returns the group at the given declaration-order index — the
// same index _NET_WM_DESKTOP and classify.MoveToGroup's resolved value
// refer to (classify.py's move_to_group: "gman.groups.index(...)").
func (m *Manager) GroupAt(index int32) (*Group, bool) {
	if index < 0 || int(index) >= len(m.groups) {
		return nil, false
	}
	return m.groups[index], true
}

// IndexOf resolves a group's name to its declaration-order index, for
// wiring classify.MoveToGroup's GroupIndexResolver.
func (m *Manager) IndexOf(name string) (int32, bool) {
	for i, g := range m.groups {
		if g.name == name {
			return int32(i), true
		}
	}
	return 0, false
}

// AddWindow places win into whichever group is bound to scr (spec.md
// §4.7, groups.py's GroupManager.add_window generalized to per-screen
// binding).
func (m *Manager) AddWindow(scr *screen.Screen, win layout.Window) {
	g := m.bound[scr]
	if g == nil {
		return
	}
	g.AddWindow(win)
	m.WindowAdded.Emit()
}

// Switch implements cmd_switch on the group bound to scr (spec.md
// §4.7). When the target group is already bound to a different screen,
// the two screens' bindings are swapped instead of simply hiding one and
// showing the other — SPEC_FULL.md §12's pager-swap behavior, read off
// groups.py's cmd_switch plus the supplemented multi-screen case it
// never had to handle with only one screen.
func (m *Manager) Switch(scr *screen.Screen, name string) error {
	target, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("group: unknown group %q", name)
	}
	current := m.bound[scr]
	if target == current {
		return nil
	}

	if otherScreen := m.screenOf(target); otherScreen != nil {
		// Pager-swap: the target is visible elsewhere, trade bindings.
		if current != nil {
			m.bindScreenGroup(otherScreen, current)
			scr.BindGroup(current)
		} else {
			delete(m.bound, otherScreen)
		}
		m.bindScreenGroup(scr, target)
		scr.BindGroup(target)
		m.GroupChanged.Emit()
		return nil
	}

	if current != nil {
		current.Hide()
	}
	m.bindScreenGroup(scr, target)
	scr.BindGroup(target)
	target.Show()
	m.GroupChanged.Emit()
	return nil
}

// ReassignScreens binds any screen left without a group — after a
// hotplug grew the screen list, or because a formerly-bound screen
// disappeared and a survivor needs a fresh companion — to the next
// group in declaration order that isn't already shown elsewhere (spec.md
// §4.11 "reassign groups to surviving screens"). Screens that already
// carry a valid binding are left untouched.
func (m *Manager) ReassignScreens() {
	for scr, g := range m.bound {
		if !m.screens.Contains(scr) {
			delete(m.bound, scr)
			g.bindScreen(nil)
		}
	}
	for _, scr := range m.screens.Screens {
		if _, ok := m.bound[scr]; ok {
			continue
		}
		for _, g := range m.groups {
			if m.screenOf(g) != nil {
				continue
			}
			m.bindScreenGroup(scr, g)
			scr.BindGroup(g)
			g.Show()
			break
		}
	}
}

func (m *Manager) screenOf(g *Group) *screen.Screen {
	for scr, bound := range m.bound {
		if bound == g {
			return scr
		}
	}
	return nil
}

// MoveWindowTo moves win from its current group into the group named
// name, hiding it if the destination isn't currently shown on any
// screen (spec.md §4.7 cmd_move_window_to).
func (m *Manager) MoveWindowTo(win layout.Window, fromGroup *Group, name string) error {
	target, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("group: unknown group %q", name)
	}
	if target == fromGroup {
		return nil
	}
	fromGroup.RemoveWindow(win)
	target.AddWindow(win)
	return nil
}

// Focus delegates to the group bound to scr, satisfying
// screen.ScreenGroup's cmd_focus — a group's Focus just focuses whatever
// window currently holds the commander's "window" entry, or the first
// window in the group if none does.
func (g *Group) Focus() {
	if obj, ok := g.commander.Get("window"); ok {
		if w, ok := obj.(interface{ Focus() error }); ok {
			w.Focus()
			return
		}
	}
	order := g.combinedOrder()
	if len(order) == 0 {
		return
	}
	if f, ok := order[0].(interface{ Focus() error }); ok {
		f.Focus()
	}
}
