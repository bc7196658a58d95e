// Package keyboard implements the key registry of spec.md §4.9: parsing
// "<S-C-W-sym>"-style key specs into a modmask/keysym pair, grabbing the
// cross-product of that modmask with every lock-bit combination on the
// root window, and dispatching KeyPress events back to a bound handler
// with lock bits stripped. Grounded on tilenol/keyregistry.py's
// KeyRegistry.
package keyboard

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/xcore"
)

// binding is one parsed key spec: the modifier bits the spec requires
// plus the keysym it names.
type binding struct {
	mods uint16
	sym  xcore.Keysym
}

// Registry grabs and dispatches global key bindings (spec.md §4.9). It
// holds no config-parsing logic of its own — callers supply already
// human-readable key specs (e.g. "<W-Return>") through AddKey, matching
// keyregistry.py's add_key taking a preformatted string from config.
type Registry struct {
	core *xcore.Core
	root xproto.Window

	handlers map[binding]func() error
	grabbed  bool
}

// New builds an empty Registry bound to root (the window keys are
// grabbed on, per spec.md §4.9 — this is always the root window for a
// global key registry).
func New(core *xcore.Core, root xproto.Window) *Registry {
	return &Registry{core: core, root: root, handlers: make(map[binding]func() error)}
}

// AddKey parses spec and records handler as its callback. Call
// RegisterKeys afterward to actually grab the bindings on the server;
// calling AddKey again after RegisterKeys requires a Reconfigure.
func (r *Registry) AddKey(spec string, handler func() error) error {
	b, err := ParseKeySpec(spec)
	if err != nil {
		return fmt.Errorf("keyboard: %w", err)
	}
	r.handlers[b] = handler
	return nil
}

// RegisterKeys grabs every added binding crossed with every lock-bit
// combination the core reports (spec.md §4.9 "survive NumLock/CapsLock/
// ModeSwitch"), mirroring keyregistry.py's register_keys.
func (r *Registry) RegisterKeys() {
	combos := r.core.LockCombinations()
	for b := range r.handlers {
		code, ok := r.core.KeycodeForKeysym(b.sym)
		if !ok {
			log.WithField("keysym", b.sym).Warn("keyboard: no keycode mapped for bound keysym, skipping")
			continue
		}
		for _, extra := range combos {
			err := xproto.GrabKeyChecked(r.core.Conn, false, r.root, b.mods|extra, code,
				xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
			if err != nil {
				log.WithError(err).WithFields(log.Fields{"mods": b.mods | extra, "keycode": code}).
					Debug("grab key failed")
			}
		}
	}
	r.grabbed = true
}

// UnregisterKeys releases every key grab on the root window, same as
// keyregistry.py's unregister_keys (AnyModifier/AnyKey).
func (r *Registry) UnregisterKeys() {
	if !r.grabbed {
		return
	}
	if err := xproto.UngrabKeyChecked(r.core.Conn, xproto.GrabAny, r.root, xproto.ModMaskAny).Check(); err != nil {
		log.WithError(err).Debug("ungrab keys failed")
	}
	r.grabbed = false
}

// Reconfigure clears every grab and handler, ready for a fresh set of
// AddKey calls followed by RegisterKeys (keyregistry.py's reconfigure_keys).
func (r *Registry) Reconfigure() {
	r.UnregisterKeys()
	r.handlers = make(map[binding]func() error)
}

// Dispatch handles a KeyPress event, stripping lock bits from its state
// before lookup (spec.md §4.9). It reports whether a handler was found
// and invoked; handler errors are logged, not propagated, matching
// keyregistry.py's dispatch_event swallowing handler exceptions.
func (r *Registry) Dispatch(ev xproto.KeyPressEvent) bool {
	// Bindings hold the unshifted keysym with Shift in mods (ParseKeySpec),
	// so lookup always uses the level-0 symbol.
	sym := r.core.KeysymForKeycode(ev.Detail, 0)
	b := binding{mods: r.core.NormalizeState(ev.State), sym: sym}
	handler, ok := r.handlers[b]
	if !ok {
		return false
	}
	if err := handler(); err != nil {
		log.WithError(err).WithField("keysym", sym).Warn("key handler failed")
	}
	return true
}

func shiftLevel(state uint16) int {
	if state&uint16(xproto.ModMaskShift) != 0 {
		return 1
	}
	return 0
}

// ResolveKeySpec exposes ParseKeySpec's result as a plain (keysym, mods)
// pair for callers outside this package that need the keycode without a
// Registry of their own — emul.cmdKey is the only one (spec.md §6
// "emul.key").
func ResolveKeySpec(spec string) (xcore.Keysym, uint16, error) {
	b, err := ParseKeySpec(spec)
	if err != nil {
		return 0, 0, err
	}
	return b.sym, b.mods, nil
}

// ParseKeySpec parses one key spec into its modmask and keysym.
// Two forms are accepted (spec.md §4.9, keyregistry.py's parse_key):
//   - "<[S][C][W]-sym>"    e.g. "<S-C-W-Return>", "<W-f>" — explicit
//     modifiers before a dash, then the symbol name.
//   - "sym"                a single bare character; an uppercase letter
//     implies Shift, same as the original's `if sym.lower() != sym`.
func ParseKeySpec(spec string) (binding, error) {
	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		inner := spec[1 : len(spec)-1]
		var mods uint16
		sym := inner
		if idx := strings.LastIndex(inner, "-"); idx >= 0 {
			modStr, symName := inner[:idx], inner[idx+1:]
			if strings.Contains(modStr, "S") {
				mods |= uint16(xproto.ModMaskShift)
			}
			if strings.Contains(modStr, "C") {
				mods |= uint16(xproto.ModMaskControl)
			}
			if strings.Contains(modStr, "W") {
				mods |= uint16(xproto.ModMask4)
			}
			sym = symName
		}
		code, ok := lookupKeysym(sym)
		if !ok {
			return binding{}, fmt.Errorf("unknown key symbol %q in %q", sym, spec)
		}
		return binding{mods: mods, sym: code}, nil
	}

	if len([]rune(spec)) != 1 {
		return binding{}, fmt.Errorf("invalid key spec %q: expected a single character or <...> form", spec)
	}
	r := []rune(spec)[0]
	var mods uint16
	if r >= 'A' && r <= 'Z' {
		mods |= uint16(xproto.ModMaskShift)
		r = r - 'A' + 'a'
	}
	code, ok := lookupKeysym(string(r))
	if !ok {
		return binding{}, fmt.Errorf("unknown key symbol %q", spec)
	}
	return binding{mods: mods, sym: code}, nil
}
