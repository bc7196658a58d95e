package overlay

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// face is the fixed-width bitmap font every overlay draws text with.
// golang.org/x/image ships basicfont precisely so callers don't need a
// font file on disk — the same tradeoff the teacher's single-binary,
// config-free startup makes elsewhere.
var face = basicfont.Face7x13

// LineHeight is the 13px face's ascent+descent plus 3px of padding, used
// to lay out one text row per menu/tab/hint entry the way theme.menu.line_height does in the
// original.
const LineHeight = 16

// DrawString paints text in col with its baseline at (x, baselineY), the
// Go analogue of `ctx.move_to(...); ctx.show_text(text)`. It returns the
// x coordinate just past the drawn text.
func DrawString(img *image.RGBA, x, baselineY int, col color.Color, text string) int {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baselineY),
	}
	d.DrawString(text)
	return d.Dot.X.Round()
}

// TextWidth measures text without drawing it, used to center/right-align
// labels within a fixed-width row.
func TextWidth(text string) int {
	d := &font.Drawer{Face: face}
	return d.MeasureString(text).Round()
}

// HighlightRow flood-fills a rectangle within img — basicfont has no
// clipping of its own, so highlighted rows (a selected menu entry, the
// active tab, the hint popup's background) are painted this way instead
// of through a drawing library.
func HighlightRow(img *image.RGBA, x, y, w, h int, fill uint32) {
	c := ArgbColor(fill)
	for yy := y; yy < y+h && yy < img.Bounds().Dy(); yy++ {
		for xx := x; xx < x+w && xx < img.Bounds().Dx(); xx++ {
			img.Set(xx, yy, c)
		}
	}
}
