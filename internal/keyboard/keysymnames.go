package keyboard

import "github.com/tailhook/tilenol/internal/xcore"

// namedKeysyms covers the non-printable and multi-character symbol names
// a config is likely to bind (arrows, Return, function keys, …). X11's
// keysymdef.h runs to well over a thousand entries; this table is the
// practical working subset every tiling WM config in the wild actually
// binds, same scope as keyregistry.py ever exercised in its own test
// fixtures. Values are the standard X11 keysym codes.
var namedKeysyms = map[string]xcore.Keysym{
	"BackSpace": 0xff08,
	"Tab":       0xff09,
	"Return":    0xff0d,
	"Enter":     0xff0d,
	"Escape":    0xff1b,
	"Delete":    0xffff,
	"Home":      0xff50,
	"Left":      0xff51,
	"Up":        0xff52,
	"Right":     0xff53,
	"Down":      0xff54,
	"PageUp":    0xff55,
	"Prior":     0xff55,
	"PageDown":  0xff56,
	"Next":      0xff56,
	"End":       0xff57,
	"space":     0x0020,
	"Space":     0x0020,

	"F1":  0xffbe,
	"F2":  0xffbf,
	"F3":  0xffc0,
	"F4":  0xffc1,
	"F5":  0xffc2,
	"F6":  0xffc3,
	"F7":  0xffc4,
	"F8":  0xffc5,
	"F9":  0xffc6,
	"F10": 0xffc7,
	"F11": 0xffc8,
	"F12": 0xffc9,

	"Shift_L":   0xffe1,
	"Shift_R":   0xffe2,
	"Control_L": 0xffe3,
	"Control_R": 0xffe4,
	"Super_L":   0xffeb,
	"Super_R":   0xffec,
}

// lookupKeysym resolves a symbol name to its keysym code. A single-rune
// name resolves directly: X11 assigns keysyms for basic Latin letters,
// digits and common punctuation the same value as their Unicode code
// point (spec.md §4.9's single-character fast path), so no table lookup
// is needed for "a".."z", "0".."9" or similar.
func lookupKeysym(name string) (xcore.Keysym, bool) {
	runes := []rune(name)
	if len(runes) == 1 {
		r := runes[0]
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || (r >= '!' && r <= '~') {
			return xcore.Keysym(r), true
		}
	}
	sym, ok := namedKeysyms[name]
	return sym, ok
}
