package xcore

import "github.com/BurntSushi/xgb/xproto"

// Keysym is an X keysym value (e.g. XK_a).
type Keysym uint32

// Keymap maps each keycode to its list of keysyms-per-level (index 0 is
// the unshifted symbol, index 1 the shifted one), plus the reverse
// mapping needed to grab a keycode given only its symbol. Grounded on the
// original's KeyRegistry.keysym_to_keycode / keycode_to_keysym and on
// marwind's keysym.Keymap (`wm.keymap[e.Detail][0]`).
type Keymap struct {
	minKeycode, maxKeycode xproto.Keycode
	keysymsPerCode         byte
	codeToSyms             map[xproto.Keycode][]Keysym
	symToCode              map[Keysym]xproto.Keycode
}

func (c *Core) loadKeymap() error {
	minCode := c.Setup.MinKeycode
	maxCode := c.Setup.MaxKeycode
	count := byte(maxCode - minCode + 1)
	reply, err := xproto.GetKeyboardMapping(c.Conn, minCode, count).Reply()
	if err != nil {
		return &XError{Kind: "GetKeyboardMapping", Err: err}
	}
	km := Keymap{
		minKeycode:     minCode,
		maxKeycode:     maxCode,
		keysymsPerCode: reply.KeysymsPerKeycode,
		codeToSyms:     make(map[xproto.Keycode][]Keysym, count),
		symToCode:      make(map[Keysym]xproto.Keycode, count),
	}
	perCode := int(reply.KeysymsPerKeycode)
	for i := 0; i < int(count); i++ {
		code := minCode + xproto.Keycode(i)
		syms := make([]Keysym, 0, perCode)
		for level := 0; level < perCode; level++ {
			idx := i*perCode + level
			if idx >= len(reply.Keysyms) {
				break
			}
			sym := Keysym(reply.Keysyms[idx])
			if sym == 0 {
				continue
			}
			syms = append(syms, sym)
			if _, exists := km.symToCode[sym]; !exists {
				km.symToCode[sym] = code
			}
		}
		km.codeToSyms[code] = syms
	}
	c.keymap = km
	return nil
}

// RebuildKeymap re-queries the keyboard mapping — called on MappingNotify
// (spec.md §4.11 "coalesced rebuild of keymap and bindings").
func (c *Core) RebuildKeymap() error {
	return c.loadKeymap()
}

// KeysymForKeycode returns the symbol at the given shift level (0 =
// unshifted, 1 = shifted) for code. A level code has no symbol for falls
// back to the level-0 symbol; 0 is returned only when code has none.
func (c *Core) KeysymForKeycode(code xproto.Keycode, level int) Keysym {
	syms := c.keymap.codeToSyms[code]
	if level < 0 || level >= len(syms) {
		if len(syms) > 0 {
			return syms[0]
		}
		return 0
	}
	return syms[level]
}

// KeycodeForKeysym is the inverse lookup used to grab a binding's keycode
// from its parsed keysym.
func (c *Core) KeycodeForKeysym(sym Keysym) (xproto.Keycode, bool) {
	code, ok := c.keymap.symToCode[sym]
	return code, ok
}

func (c *Core) initModMask() {
	// Conservative, hardcoded like the original's KeyRegistry.init_modifiers
	// ("probably calculate them instead of hardcoding" — TODO left as-is
	// there too): Lock is always Mod-Lock; Mod2/Mod5 are NumLock/ModeSwitch
	// on virtually every real keyboard layout.
	const (
		lockBit       = uint16(xproto.ModMaskLock)
		numLockBit    = uint16(xproto.ModMask2)
		modeSwitchBit = uint16(xproto.ModMask5)
	)
	c.modMask = lockBit | numLockBit | modeSwitchBit
}

// IgnoredModMask returns the bits that must be masked out of an incoming
// event's State before binding lookup, and cross-producted with a grab's
// base modmask when grabbing — spec.md §4.9 "cross-product of modmask
// with {0, CapsLock, NumLock, ModeSwitch, …} to make bindings survive
// lock-key state".
func (c *Core) IgnoredModMask() uint16 { return c.modMask }

// LockCombinations enumerates every combination of the ignored modifier
// bits, used both to grab the cross-product of keys/buttons and (inverted)
// to strip them from an observed event state.
func (c *Core) LockCombinations() []uint16 {
	bits := []uint16{}
	for b := c.modMask; ; {
		if b == 0 {
			break
		}
		lsb := b & (^b + 1)
		bits = append(bits, lsb)
		b &^= lsb
	}
	combos := []uint16{0}
	for _, bit := range bits {
		n := len(combos)
		for i := 0; i < n; i++ {
			combos = append(combos, combos[i]|bit)
		}
	}
	return combos
}

// NormalizeState erases the ignored lock bits from an event's modifier
// state, making binding dispatch insensitive to NumLock/CapsLock/ModeSwitch.
func (c *Core) NormalizeState(state uint16) uint16 {
	return state &^ c.modMask
}
