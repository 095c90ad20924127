package frf

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Placement is a glyph positioned relative to the start of a line.
type Placement struct {
	Rune  rune
	Glyph *Glyph
	X     int
}

// Layout positions every rune of text, substituting the fallback glyph for
// runes the font does not carry.
func (f *Font) Layout(text string) []Placement {
	out := make([]Placement, 0, len(text))
	x := 0
	for _, r := range text {
		g := f.lookup(r)
		out = append(out, Placement{Rune: r, Glyph: g, X: x})
		x += int(g.Width) + int(f.gap)
	}
	return out
}

// Measure returns the pixel width of text: glyph widths plus one gap between
// neighbours. The empty string measures 0.
func (f *Font) Measure(text string) int {
	w, n := 0, 0
	for _, r := range text {
		w += int(f.lookup(r).Width)
		n++
	}
	if n > 1 {
		w += (n - 1) * int(f.gap)
	}
	return w
}

// Draw renders text with its top-left corner at (x, y) and returns the width
// drawn. Pixels outside the destination are dropped.
func (f *Font) Draw(dst drivers.Displayer, x, y int, text string, c color.RGBA) int {
	return f.DrawClipped(dst, x, y, -1, text, c)
}

// DrawClipped is Draw limited to maxWidth columns starting at x. A negative
// maxWidth disables the limit. Glyphs crossing the limit are cut, not skipped.
func (f *Font) DrawClipped(dst drivers.Displayer, x, y, maxWidth int, text string, c color.RGBA) int {
	w := f.Measure(text)
	if maxWidth >= 0 && w > maxWidth {
		w = maxWidth
	}
	if w <= 0 {
		return 0
	}
	clip := &clipDisplay{
		Displayer: dst,
		x0:        x,
		y0:        y,
		x1:        x + w,
		y1:        y + int(f.height),
	}
	baseline := y + int(f.height) - 1
	for _, p := range f.Layout(text) {
		if p.X >= w {
			break
		}
		tinyfont.DrawChar(clip, f, int16(x+p.X), int16(baseline), p.Rune, c)
	}
	return w
}

// clipDisplay drops pixels outside [x0,x1)×[y0,y1).
type clipDisplay struct {
	drivers.Displayer
	x0, y0, x1, y1 int
}

func (d *clipDisplay) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < d.x0 || ix >= d.x1 || iy < d.y0 || iy >= d.y1 {
		return
	}
	d.Displayer.SetPixel(x, y, c)
}
