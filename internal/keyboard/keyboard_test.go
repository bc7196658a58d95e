package keyboard

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestLookupKeysymSingleLetterIsItsRune(t *testing.T) {
	sym, ok := lookupKeysym("a")
	if !ok || sym != 0x61 {
		t.Fatalf("expected 'a' to resolve to 0x61, got %v ok=%v", sym, ok)
	}
}

func TestLookupKeysymNamedSymbol(t *testing.T) {
	sym, ok := lookupKeysym("Return")
	if !ok || sym != 0xff0d {
		t.Fatalf("expected Return to resolve to 0xff0d, got %v ok=%v", sym, ok)
	}
}

func TestLookupKeysymUnknown(t *testing.T) {
	if _, ok := lookupKeysym("NotAKey"); ok {
		t.Fatal("expected unknown symbol to fail lookup")
	}
}

func TestParseKeySpecBracketedWithModifiers(t *testing.T) {
	b, err := ParseKeySpec("<S-C-W-Return>")
	if err != nil {
		t.Fatal(err)
	}
	wantMods := uint16(xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask4)
	if b.mods != wantMods {
		t.Fatalf("expected mods %x, got %x", wantMods, b.mods)
	}
	if b.sym != 0xff0d {
		t.Fatalf("expected Return keysym, got %v", b.sym)
	}
}

func TestParseKeySpecBracketedNoModifiers(t *testing.T) {
	b, err := ParseKeySpec("<Escape>")
	if err != nil {
		t.Fatal(err)
	}
	if b.mods != 0 || b.sym != 0xff1b {
		t.Fatalf("expected bare Escape binding, got mods=%x sym=%v", b.mods, b.sym)
	}
}

func TestParseKeySpecUppercaseImpliesShift(t *testing.T) {
	b, err := ParseKeySpec("F")
	if err != nil {
		t.Fatal(err)
	}
	if b.mods != uint16(xproto.ModMaskShift) {
		t.Fatalf("expected Shift implied by uppercase, got mods=%x", b.mods)
	}
	if b.sym != 0x66 {
		t.Fatalf("expected lowercase 'f' keysym 0x66, got %v", b.sym)
	}
}

func TestParseKeySpecLowercaseBare(t *testing.T) {
	b, err := ParseKeySpec("f")
	if err != nil {
		t.Fatal(err)
	}
	if b.mods != 0 || b.sym != 0x66 {
		t.Fatalf("expected bare lowercase binding, got mods=%x sym=%v", b.mods, b.sym)
	}
}

func TestParseKeySpecRejectsUnknownSymbol(t *testing.T) {
	if _, err := ParseKeySpec("<W-Nonexistent>"); err == nil {
		t.Fatal("expected error for unknown symbol name")
	}
}

func TestShiftLevelDetection(t *testing.T) {
	if shiftLevel(uint16(xproto.ModMaskShift)) != 1 {
		t.Fatal("expected shift level 1 when Shift bit set")
	}
	if shiftLevel(0) != 0 {
		t.Fatal("expected shift level 0 when no modifiers set")
	}
}
