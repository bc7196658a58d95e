package wmclient

import "encoding/binary"

// ICCCM WM_SIZE_HINTS flag bits (spec.md §4.5, tilenol/icccm.py).
const (
	hintUSPosition = 1 << 0
	hintUSSize     = 1 << 1
	hintPPosition  = 1 << 2
	hintPSize      = 1 << 3
	hintPMinSize   = 1 << 4
	hintPMaxSize   = 1 << 5
	hintPResizeInc = 1 << 6
	hintPAspect    = 1 << 7
	hintPBaseSize  = 1 << 8
	hintPWinGrav   = 1 << 9
)

// SizeHints is the decoded WM_NORMAL_HINTS property. Every field has a
// companion Has* flag rather than a pointer, since the zero value (no
// hint) must be distinguishable from a genuine zero-valued hint.
type SizeHints struct {
	HasMinSize bool
	MinWidth   uint32
	MinHeight  uint32

	HasMaxSize bool
	MaxWidth   uint32
	MaxHeight  uint32

	HasResizeInc bool
	WidthInc     uint32
	HeightInc    uint32

	HasAspect      bool
	MinAspectNum   int32
	MinAspectDenom int32
	MaxAspectNum   int32
	MaxAspectDenom int32

	HasBaseSize bool
	BaseWidth   uint32
	BaseHeight  uint32

	HasGravity bool
	Gravity    uint32
}

// decodeSizeHints parses a raw WM_NORMAL_HINTS property, following
// tilenol/icccm.py's SizeHints.from_property field layout exactly: a
// 32-bit flags word followed by 17 more 32-bit fields (4 reserved
// "old fields" p1..p4 skipped, same as the original only reading
// arr[5]... onward).
func decodeSizeHints(raw []byte) *SizeHints {
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
	}
	if len(words) == 0 {
		return nil
	}
	flags := words[0]
	h := &SizeHints{}
	get := func(i int) uint32 {
		if i < len(words) {
			return words[i]
		}
		return 0
	}
	if flags&hintPMinSize != 0 {
		h.HasMinSize = true
		h.MinWidth = get(5)
		h.MinHeight = get(6)
	}
	if flags&hintPMaxSize != 0 {
		h.HasMaxSize = true
		h.MaxWidth = get(7)
		h.MaxHeight = get(8)
	}
	if flags&hintPResizeInc != 0 {
		h.HasResizeInc = true
		h.WidthInc = get(9)
		h.HeightInc = get(10)
	}
	if flags&hintPAspect != 0 {
		h.HasAspect = true
		h.MinAspectNum = int32(get(11))
		h.MinAspectDenom = int32(get(12))
		h.MaxAspectNum = int32(get(13))
		h.MaxAspectDenom = int32(get(14))
	}
	if flags&hintPBaseSize != 0 {
		h.HasBaseSize = true
		h.BaseWidth = get(15)
		h.BaseHeight = get(16)
	}
	if flags&hintPWinGrav != 0 {
		h.HasGravity = true
		h.Gravity = get(17)
	}
	return h
}

// ApplySizeHints computes the client's actual inner width/height given
// the frame's available (width, height), following the normative order
// of spec.md §4.5: increment-snap using base (falling back to min) as
// the origin, then clamp to max — independently for width and height.
//
// TODO: aspect-ratio hints (HasAspect) are read off the wire but not yet
// applied here; wiring min_aspect/max_aspect needs a frame whose content
// routinely sets them to validate against, left to a future pass
// (spec.md §9).
func ApplySizeHints(width, height uint32, h *SizeHints) (uint32, uint32) {
	if h == nil {
		return width, height
	}
	w, ht := width, height
	if h.HasResizeInc && h.WidthInc > 0 {
		base := h.BaseWidth
		if !h.HasBaseSize {
			base = h.MinWidth
		}
		if w >= base {
			n := (w - base) / h.WidthInc
			w = base + n*h.WidthInc
		}
	}
	if h.HasMaxSize && w > h.MaxWidth {
		w = h.MaxWidth
	}
	if h.HasResizeInc && h.HeightInc > 0 {
		base := h.BaseHeight
		if !h.HasBaseSize {
			base = h.MinHeight
		}
		if ht >= base {
			n := (ht - base) / h.HeightInc
			ht = base + n*h.HeightInc
		}
	}
	if h.HasMaxSize && ht > h.MaxHeight {
		ht = h.MaxHeight
	}
	return w, ht
}
