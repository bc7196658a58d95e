// Package config holds the typed, already-parsed settings
// cmd/tilenol/main.go wires the rest of the module from. Parsing a
// configuration file is explicitly out of scope (spec.md §1, "external
// config layer") — Config exists purely as the struct that layer would
// populate, grounded on the teacher's manager.Config parameter to
// manager.New (referenced but not itself retrieved in the teacher slice)
// and fleshed out against spec.md §6's command-surface/key-binding list.
package config

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/tailhook/tilenol/internal/group"
	"github.com/tailhook/tilenol/internal/layout"
)

// KeyBinding maps one key chord to a command.Registry verb invocation,
// spec.md §6 "key bindings... name commands of the form
// <object>.<verb> args…". Spec uses keyboard.ParseKeySpec's "<[S][C][W]-sym>"
// form, W standing for the Super/Windows (Mod4) modifier.
type KeyBinding struct {
	Spec   string
	Object string
	Verb   string
	Args   []string
}

// GroupConfig declares one virtual desktop at startup, spec.md §4.7.
type GroupConfig struct {
	Name          string
	DefaultLayout string
}

// Borders carries the decoration constants dispatch.Dispatcher needs,
// spec.md §4.5 ("border width and color track focus state").
type Borders struct {
	ActiveColor   uint32
	InactiveColor uint32
	Width         uint32
}

// Pointer names the modifier that arms the mouse-drag move/resize grabs,
// spec.md §4.9's "Super+Button1/Button3" table.
type Pointer struct {
	Modifier uint16 // an xproto.ModMask* bit, e.g. xproto.ModMask4
}

// Tabs configures the optional per-screen tabs gadget, spec.md §4.12.
type Tabs struct {
	Enabled bool
	Width   uint32
	Groups  []string // not read by the wiring: when Enabled, every screen gets a tabs panel
}

// Config is the root settings object, populated by an external config
// layer and handed to cmd/tilenol/main.go's wiring code.
type Config struct {
	Groups  []GroupConfig
	Keys    []KeyBinding
	Borders Borders
	Pointer Pointer
	Tabs    Tabs
}

// Default returns a minimal, self-consistent configuration usable
// without any external config layer: three groups ("main" and "web"
// using the "tall" default layout, "misc" using "monocle"), and the
// teacher's border thickness
// kept as-is (wm/frame.go used a 2px border).
func Default() Config {
	return Config{
		Groups: []GroupConfig{
			{Name: "main", DefaultLayout: "tall"},
			{Name: "web", DefaultLayout: "tall"},
			{Name: "misc", DefaultLayout: "monocle"},
		},
		Keys: []KeyBinding{
			{Spec: "<W-Return>", Object: "env", Verb: "shell", Args: []string{"xterm"}},
			{Spec: "<W-d>", Object: "menu", Verb: "show"},
			{Spec: "<W-j>", Object: "group", Verb: "focus_next"},
			{Spec: "<W-k>", Object: "group", Verb: "focus_prev"},
			{Spec: "<W-h>", Object: "layout", Verb: "left"},
			{Spec: "<W-l>", Object: "layout", Verb: "right"},
			{Spec: "<W-S-j>", Object: "layout", Verb: "shift_down"},
			{Spec: "<W-S-k>", Object: "layout", Verb: "shift_up"},
			{Spec: "<W-q>", Object: "window", Verb: "close"},
			{Spec: "<W-1>", Object: "groups", Verb: "switch", Args: []string{"main"}},
			{Spec: "<W-2>", Object: "groups", Verb: "switch", Args: []string{"web"}},
			{Spec: "<W-3>", Object: "groups", Verb: "switch", Args: []string{"misc"}},
			{Spec: "<W-S-1>", Object: "groups", Verb: "move_window_to", Args: []string{"main"}},
			{Spec: "<W-S-2>", Object: "groups", Verb: "move_window_to", Args: []string{"web"}},
			{Spec: "<W-S-3>", Object: "groups", Verb: "move_window_to", Args: []string{"misc"}},
			{Spec: "<W-r>", Object: "tilenol", Verb: "restart"},
		},
		Borders: Borders{ActiveColor: 0x81a2be, InactiveColor: 0x373b41, Width: 2},
		Pointer: Pointer{Modifier: uint16(xproto.ModMask4)},
		Tabs:    Tabs{Enabled: true, Width: 160, Groups: nil},
	}
}

// LayoutFactories builds the name→group.LayoutFactory table every group
// is constructed with, grounded on tile.py's Stack defaults (weight 1,
// vertical tiling) generalized into the two named arrangements this
// config ships: "tall" (a weight-2 main stack beside a weight-1 tiled
// aux stack, the classic master/stack split) and "monocle" (one Single-mode
// stack spanning the whole group, spec.md §4.6's Mode enum).
func LayoutFactories() map[string]group.LayoutFactory {
	return map[string]group.LayoutFactory{
		"tall":    newTallLayout,
		"monocle": newMonocleLayout,
	}
}

func newTallLayout() *layout.Tree {
	main := layout.NewStack(layout.StackConfig{
		Name: "main", Mode: layout.Tiled, Axis: layout.Vertical, Weight: 2,
	})
	aux := layout.NewStack(layout.StackConfig{
		Name: "aux", Mode: layout.Tiled, Axis: layout.Vertical, Weight: 1,
	})
	root := layout.NewSplit(layout.Horizontal, false, main, aux)
	return layout.NewTree(root)
}

func newMonocleLayout() *layout.Tree {
	stack := layout.NewStack(layout.StackConfig{
		Name: "main", Mode: layout.Single, Axis: layout.Vertical, Weight: 1,
	})
	return layout.NewTree(stack)
}
