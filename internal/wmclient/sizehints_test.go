package wmclient

import "testing"

func TestApplySizeHintsSnapsToIncrement(t *testing.T) {
	h := &SizeHints{
		HasBaseSize:  true,
		BaseWidth:    10,
		BaseHeight:   10,
		HasResizeInc: true,
		WidthInc:     8,
		HeightInc:    8,
		HasMaxSize:   true,
		MaxWidth:     500,
		MaxHeight:    500,
	}
	w, h2 := ApplySizeHints(103, 55, h)
	// base=10, inc=8: (103-10)/8=11 -> 10+88=98
	if w != 98 {
		t.Fatalf("width = %d, want 98", w)
	}
	// base=10, inc=8: (55-10)/8=5 -> 10+40=50
	if h2 != 50 {
		t.Fatalf("height = %d, want 50", h2)
	}
}

func TestApplySizeHintsClampsToMax(t *testing.T) {
	h := &SizeHints{HasMaxSize: true, MaxWidth: 200, MaxHeight: 100}
	w, ht := ApplySizeHints(500, 500, h)
	if w != 200 || ht != 100 {
		t.Fatalf("got %d,%d want 200,100", w, ht)
	}
}

func TestApplySizeHintsNilIsIdentity(t *testing.T) {
	w, h := ApplySizeHints(640, 480, nil)
	if w != 640 || h != 480 {
		t.Fatalf("got %d,%d want 640,480", w, h)
	}
}

func TestDecodeSizeHintsReadsFlaggedFieldsOnly(t *testing.T) {
	words := make([]uint32, 18)
	words[0] = hintPMinSize | hintPMaxSize
	words[5], words[6] = 100, 50
	words[7], words[8] = 800, 600
	raw := make([]byte, len(words)*4)
	for i, w := range words {
		raw[i*4] = byte(w)
		raw[i*4+1] = byte(w >> 8)
		raw[i*4+2] = byte(w >> 16)
		raw[i*4+3] = byte(w >> 24)
	}
	h := decodeSizeHints(raw)
	if !h.HasMinSize || h.MinWidth != 100 || h.MinHeight != 50 {
		t.Fatalf("min size not decoded: %+v", h)
	}
	if !h.HasMaxSize || h.MaxWidth != 800 || h.MaxHeight != 600 {
		t.Fatalf("max size not decoded: %+v", h)
	}
	if h.HasResizeInc {
		t.Fatal("resize increment should not be set")
	}
}
