package wmclient

import (
	"encoding/binary"
	"testing"
)

func encodeIconProperty(entries [][3]uint32) []byte {
	// entries: {w, h, solid_argb_pixel} — every pixel in the icon set to
	// the same value, enough to exercise the premultiply + sort logic.
	var words []uint32
	for _, e := range entries {
		w, h, px := e[0], e[1], e[2]
		words = append(words, w, h)
		for i := uint32(0); i < w*h; i++ {
			words = append(words, px)
		}
	}
	raw := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(raw[i*4:], w)
	}
	return raw
}

func TestDecodeIconsSortsBySize(t *testing.T) {
	raw := encodeIconProperty([][3]uint32{
		{32, 32, 0xFFFFFFFF},
		{16, 16, 0xFFFFFFFF},
		{48, 48, 0xFFFFFFFF},
	})
	icons := DecodeIcons(raw)
	if len(icons) != 3 {
		t.Fatalf("expected 3 icons, got %d", len(icons))
	}
	if icons[0].Width != 16 || icons[1].Width != 32 || icons[2].Width != 48 {
		t.Fatalf("icons not sorted ascending: %v %v %v", icons[0].Width, icons[1].Width, icons[2].Width)
	}
}

func TestPremultiplyAlpha(t *testing.T) {
	// a=128 (~50%), r=g=b=0xff -> each channel roughly halved.
	px := uint32(128)<<24 | 0xff<<16 | 0xff<<8 | 0xff
	out := premultiply(px)
	a := out >> 24
	r := (out >> 16) & 0xff
	if a != 128 {
		t.Fatalf("alpha changed: %d", a)
	}
	if r < 120 || r > 130 {
		t.Fatalf("premultiplied red out of expected range: %d", r)
	}
}

func TestPremultiplyFullyOpaqueIsUnchanged(t *testing.T) {
	px := uint32(255)<<24 | 10<<16 | 20<<8 | 30
	out := premultiply(px)
	if out != px {
		t.Fatalf("opaque pixel should be unchanged: got %08x want %08x", out, px)
	}
}

func TestPickIconSmallestThatFits(t *testing.T) {
	icons := []Icon{{Width: 16, Height: 16}, {Width: 32, Height: 32}, {Width: 64, Height: 64}}
	got, ok := pickIcon(icons, 24)
	if !ok || got.Width != 32 {
		t.Fatalf("expected 32x32 icon for size 24, got %+v", got)
	}
}

func TestPickIconFallsBackToLargest(t *testing.T) {
	icons := []Icon{{Width: 16, Height: 16}, {Width: 32, Height: 32}}
	got, ok := pickIcon(icons, 128)
	if !ok || got.Width != 32 {
		t.Fatalf("expected fallback to largest 32x32, got %+v", got)
	}
}

func TestSplitNullTerminated(t *testing.T) {
	raw := append([]byte("gimp-2.8"), 0)
	raw = append(raw, []byte("Gimp")...)
	raw = append(raw, 0)
	got := splitNullTerminated(raw)
	if len(got) != 2 || got[0] != "gimp-2.8" || got[1] != "Gimp" {
		t.Fatalf("got %v", got)
	}
}
