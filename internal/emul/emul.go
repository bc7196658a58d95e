// Package emul implements the "emul" command-surface object spec.md §6
// names (`emul.key`, `emul.button`) — synthetic input used by gesture
// bindings and menu accelerators to replay a key or button press as if
// the user had typed/clicked it. Grounded on gestures.py's emulated
// button presses during a touchpad COMMIT, reworked onto
// github.com/BurntSushi/xgb/xtest's FakeInput request (the same
// XTEST extension xcore.Core already probes for, spec.md §6 "consumes
// xproto + extensions xtest").
package emul

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/xgb/xtest"

	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/keyboard"
	"github.com/tailhook/tilenol/internal/xcore"
)

const (
	eventKeyPress     = 2
	eventKeyRelease   = 3
	eventButtonPress  = 4
	eventButtonRelease = 5
)

// Emul registers "emul" against commander; when the server lacks XTEST
// every call sends nothing and returns an *xcore.ErrDriverMissing
// (spec.md §7's DriverMissing kind).
type Emul struct {
	core *xcore.Core
}

// New registers the "emul" object.
func New(core *xcore.Core, commander *command.Registry) *Emul {
	e := &Emul{core: core}
	commander.Set("emul", e)
	commander.RegisterVerbs("emul", map[string]func(args ...string) error{
		"key":    e.cmdKey,
		"button": e.cmdButton,
	})
	return e
}

// cmdKey synthesizes a full press+release of the named key spec's
// keysym, resolving it to a keycode through the same table
// keyboard.ParseKeySpec/xcore.Core.KeycodeForKeysym use.
func (e *Emul) cmdKey(args ...string) error {
	if !e.core.Ext.XTest {
		return &xcore.ErrDriverMissing{Extension: "XTEST"}
	}
	if len(args) != 1 {
		return fmt.Errorf("emul.key: expected exactly one key spec argument")
	}
	sym, mods, err := keyboard.ResolveKeySpec(args[0])
	if err != nil {
		return fmt.Errorf("emul.key: %w", err)
	}
	code, ok := e.core.KeycodeForKeysym(sym)
	if !ok {
		return fmt.Errorf("emul.key: no keycode mapped for %q", args[0])
	}
	_ = mods // modifier presses are left to the caller holding them physically
	return e.fakeInput(eventKeyPress, byte(code), eventKeyRelease, byte(code))
}

// cmdButton synthesizes a press+release of the given button number.
func (e *Emul) cmdButton(args ...string) error {
	if !e.core.Ext.XTest {
		return &xcore.ErrDriverMissing{Extension: "XTEST"}
	}
	if len(args) != 1 {
		return fmt.Errorf("emul.button: expected exactly one button number argument")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 || n > 255 {
		return fmt.Errorf("emul.button: invalid button number %q", args[0])
	}
	return e.fakeInput(eventButtonPress, byte(n), eventButtonRelease, byte(n))
}

func (e *Emul) fakeInput(pressType byte, pressDetail byte, releaseType byte, releaseDetail byte) error {
	if err := xtest.FakeInputChecked(e.core.Conn, pressType, pressDetail, 0,
		e.core.Root, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("emul: FakeInput press: %w", err)
	}
	if err := xtest.FakeInputChecked(e.core.Conn, releaseType, releaseDetail, 0,
		e.core.Root, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("emul: FakeInput release: %w", err)
	}
	return nil
}
