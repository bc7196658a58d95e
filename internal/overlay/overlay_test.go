package overlay

import "testing"

func TestClampDim(t *testing.T) {
	if got := ClampDim(0); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := ClampDim(100); got != 100 {
		t.Fatalf("got %d, want 100", got)
	}
	if got := ClampDim(1 << 20); got != 0xffff {
		t.Fatalf("got %d, want 0xffff", got)
	}
}

func TestTextWidthGrowsWithLength(t *testing.T) {
	if TextWidth("a") >= TextWidth("abcdef") {
		t.Fatal("expected longer text to measure wider")
	}
}

func TestArgbColorSplitsChannels(t *testing.T) {
	c := ArgbColor(0x112233)
	if c.R != 0x11 || c.G != 0x22 || c.B != 0x33 || c.A != 0xff {
		t.Fatalf("got %+v", c)
	}
}
