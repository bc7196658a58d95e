package wmclient

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
)

// Icon is one alpha-premultiplied ARGB image decoded out of a
// _NET_WM_ICON property (spec.md §4.5).
type Icon struct {
	Width, Height uint32
	Pixels        []uint32 // premultiplied ARGB, row-major
}

// DecodeIcons parses a _NET_WM_ICON property's flat [w, h, w*h pixels,
// w, h, ...] layout into a list of Icons sorted ascending by (width,
// height), premultiplying alpha into each channel exactly the way
// tilenol/window.py's `cvt` does: `k = a/255; channel = channel*k`.
func DecodeIcons(raw []byte) []Icon {
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
	}

	var icons []Icon
	for i := 0; i+2 <= len(words); {
		w, h := words[i], words[i+1]
		i += 2
		n := int(w) * int(h)
		if n <= 0 || i+n > len(words) {
			break
		}
		pixels := make([]uint32, n)
		for j := 0; j < n; j++ {
			pixels[j] = premultiply(words[i+j])
		}
		i += n
		icons = append(icons, Icon{Width: w, Height: h, Pixels: pixels})
	}

	sort.Slice(icons, func(i, j int) bool {
		if icons[i].Width != icons[j].Width {
			return icons[i].Width < icons[j].Width
		}
		return icons[i].Height < icons[j].Height
	})
	return icons
}

func premultiply(px uint32) uint32 {
	a := px >> 24
	k := float64(a) / 255.0
	r := (px >> 16) & 0xff
	g := (px >> 8) & 0xff
	b := px & 0xff
	return (a << 24) | (uint32(float64(r)*k) << 16) | (uint32(float64(g)*k) << 8) | uint32(float64(b)*k)
}

// pickIcon selects the smallest icon that is at least size in either
// dimension, falling back to the largest icon if none qualifies —
// mirroring tilenol/window.py's draw_icon loop ("for iw, ih, data in
// icons: if iw>=size or ih>=size: break"), which, applied to the
// ascending-sorted list, leaves (iw, ih) at the last entry when the loop
// runs to completion without breaking.
func pickIcon(icons []Icon, size uint32) (Icon, bool) {
	if len(icons) == 0 {
		return Icon{}, false
	}
	for _, ic := range icons {
		if ic.Width >= size || ic.Height >= size {
			return ic, true
		}
	}
	return icons[len(icons)-1], true
}

func (ic Icon) toNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(ic.Width), int(ic.Height)))
	for y := 0; y < int(ic.Height); y++ {
		for x := 0; x < int(ic.Width); x++ {
			px := ic.Pixels[y*int(ic.Width)+x]
			a := uint8(px >> 24)
			var r, g, b uint8
			if a > 0 {
				// Un-premultiply for image.NRGBA's straight-alpha storage;
				// Pixels itself stays premultiplied for any caller that
				// wants to hand it straight to PutImage.
				r = uint8(uint32(uint8(px>>16)) * 255 / uint32(a))
				g = uint8(uint32(uint8(px>>8)) * 255 / uint32(a))
				b = uint8(uint32(uint8(px)) * 255 / uint32(a))
			}
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return img
}

// iconCacheKey identifies a rendered icon in the bounded LRU cache
// (SPEC_FULL.md §11): window id plus the requested square size, since
// the same window's icon may be asked for at several sizes (bar, tabs
// gadget, finder gadget).
func iconCacheKey(windowID uint32, size int) string {
	return fmt.Sprintf("%d@%d", windowID, size)
}

// RenderIcon resizes the best-fit decoded icon to a size x size square
// using disintegration/imaging (SPEC_FULL.md §11 — grounded on
// esimov-caire's use of the same library for resizing decoded image
// buffers), memoizing the result in the core's bounded icon cache so a
// gadget redrawing every frame doesn't re-resize on each call.
func (w *Window) RenderIcon(size int) (*image.NRGBA, bool) {
	if len(w.Icons) == 0 {
		return nil, false
	}
	cache := w.core.IconCache()
	key := iconCacheKey(uint32(w.ID), size)
	if cached, ok := cache.Get(key); ok {
		return cached.(*image.NRGBA), true
	}
	best, ok := pickIcon(w.Icons, uint32(size))
	if !ok {
		return nil, false
	}
	resized := imaging.Resize(best.toNRGBA(), size, size, imaging.Lanczos)
	cache.Add(key, resized)
	return resized, true
}
