// Package frf loads proportional bitmap fonts in the FRF layout produced by
// cmd/mkfrf and renders them into any drivers.Displayer.
//
// An FRF file is a RIFF container without a form type:
//
//	"RIFF" u32 size
//	"META" u32 4   u8 cell width, u8 height, u16 glyph count
//	"CDAT" u32 n   count*height row bytes, MSB is the leftmost pixel
//	"CWTH" u32 n   count widths (optional, proportional fonts)
//	"CMAP" u32 n   count u16 character codes
//
// All integers are little endian and every chunk is padded to 4 bytes.
package frf

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"os"
	"sort"

	"github.com/go-errors/errors"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

const (
	// MaxWidth is the widest glyph a row byte can hold.
	MaxWidth = 8
	// MaxHeight bounds the rows per glyph.
	MaxHeight = 32
)

// LoadError reports a malformed or truncated font file.
type LoadError struct {
	Offset int
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("frf: offset %d: %s", e.Offset, e.Reason)
}

func loadErrorf(off int, format string, args ...any) error {
	return &LoadError{Offset: off, Reason: fmt.Sprintf(format, args...)}
}

// Glyph is one character bitmap. Rows holds one byte per row, MSB first.
// Glyphs owned by a Font must not be modified.
type Glyph struct {
	Rune  rune
	Width uint8
	Rows  []byte

	advance uint8
}

func (g *Glyph) Height() int { return len(g.Rows) }

// Pixel reports whether the pixel at column x, row y is set.
func (g *Glyph) Pixel(x, y int) bool {
	if x < 0 || x >= int(g.Width) || y < 0 || y >= len(g.Rows) {
		return false
	}
	return g.Rows[y]&(0x80>>uint(x)) != 0
}

// Draw implements tinyfont.Glypher. y is the baseline (bottom row).
func (g *Glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	top := y - int16(len(g.Rows)-1)
	for row, bits := range g.Rows {
		if bits == 0 {
			continue
		}
		for col := 0; col < int(g.Width); col++ {
			if bits&(0x80>>uint(col)) == 0 {
				continue
			}
			display.SetPixel(x+int16(col), top+int16(row), c)
		}
	}
}

func (g *Glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.Rune,
		Width:    g.Width,
		Height:   uint8(len(g.Rows)),
		XAdvance: g.advance,
		XOffset:  0,
		YOffset:  -int8(len(g.Rows) - 1),
	}
}

// Font is an immutable glyph table. It is safe for concurrent use and
// implements tinyfont.Fonter.
type Font struct {
	cellWidth uint8
	height    uint8
	gap       uint8

	glyphs   []Glyph // sorted by Rune
	fallback *Glyph
}

var _ tinyfont.Fonter = (*Font)(nil)

type options struct {
	gap      uint8
	fallback rune
}

// Option adjusts how a font is loaded.
type Option func(*options)

// WithGap sets the blank columns between glyphs (default 1).
func WithGap(gap uint8) Option {
	return func(o *options) { o.gap = gap }
}

// WithFallback sets the rune drawn for characters missing from the font
// (default '?'). A hollow box is used when the fallback itself is missing.
func WithFallback(r rune) Option {
	return func(o *options) { o.fallback = r }
}

// LoadFile reads and parses the font at path.
func LoadFile(path string, opts ...Option) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapPrefix(err, "frf: read font", 0)
	}
	f, err := Parse(data, opts...)
	if err != nil {
		return nil, errors.WrapPrefix(err, "frf: "+path, 0)
	}
	return f, nil
}

// Load reads a whole font from r.
func Load(r io.Reader, opts ...Option) (*Font, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapPrefix(err, "frf: read font", 0)
	}
	return Parse(data, opts...)
}

// Parse decodes an FRF image. Malformed input yields a *LoadError.
func Parse(data []byte, opts ...Option) (*Font, error) {
	o := options{gap: 1, fallback: '?'}
	for _, opt := range opts {
		opt(&o)
	}

	if len(data) < 8 || string(data[:4]) != "RIFF" {
		return nil, loadErrorf(0, "missing RIFF header")
	}
	size := binary.LittleEndian.Uint32(data[4:8])
	if uint64(size) > uint64(len(data)-8) {
		return nil, loadErrorf(4, "RIFF size %d exceeds %d available bytes", size, len(data)-8)
	}
	body := data[8 : 8+int(size)]

	var meta, cdat, cwth, cmap []byte
	var cdatOff, cwthOff, cmapOff int
	for off := 0; off < len(body); {
		if len(body)-off < 8 {
			return nil, loadErrorf(8+off, "truncated chunk header")
		}
		id := string(body[off : off+4])
		n := binary.LittleEndian.Uint32(body[off+4 : off+8])
		if uint64(n) > uint64(len(body)-off-8) {
			return nil, loadErrorf(8+off, "chunk %q size %d runs past end of file", id, n)
		}
		payload := body[off+8 : off+8+int(n)]
		switch id {
		case "META":
			meta = payload
		case "CDAT":
			cdat, cdatOff = payload, 16+off
		case "CWTH":
			cwth, cwthOff = payload, 16+off
		case "CMAP":
			cmap, cmapOff = payload, 16+off
		}
		off += 8 + int(n)
	}

	if meta == nil {
		return nil, loadErrorf(8, "missing META chunk")
	}
	if len(meta) < 4 {
		return nil, loadErrorf(8, "META chunk too short (%d bytes)", len(meta))
	}
	cellWidth, height := meta[0], meta[1]
	count := int(binary.LittleEndian.Uint16(meta[2:4]))
	switch {
	case cellWidth < 1 || cellWidth > MaxWidth:
		return nil, loadErrorf(16, "cell width %d out of range 1..%d", cellWidth, MaxWidth)
	case height < 1 || height > MaxHeight:
		return nil, loadErrorf(17, "height %d out of range 1..%d", height, MaxHeight)
	case count == 0:
		return nil, loadErrorf(18, "font has no glyphs")
	}

	if cdat == nil {
		return nil, loadErrorf(8, "missing CDAT chunk")
	}
	if len(cdat) < count*int(height) {
		return nil, loadErrorf(cdatOff, "CDAT holds %d bytes, need %d", len(cdat), count*int(height))
	}
	if cmap == nil {
		return nil, loadErrorf(8, "missing CMAP chunk")
	}
	if len(cmap) < count*2 {
		return nil, loadErrorf(cmapOff, "CMAP holds %d bytes, need %d", len(cmap), count*2)
	}
	if cwth != nil && len(cwth) < count {
		return nil, loadErrorf(cwthOff, "CWTH holds %d bytes, need %d", len(cwth), count)
	}

	f := &Font{
		cellWidth: cellWidth,
		height:    height,
		gap:       o.gap,
		glyphs:    make([]Glyph, 0, count),
	}
	seen := make(map[rune]bool, count)
	for i := 0; i < count; i++ {
		r := rune(binary.LittleEndian.Uint16(cmap[i*2:]))
		if seen[r] {
			continue
		}
		seen[r] = true

		width := cellWidth
		if cwth != nil {
			width = cwth[i]
			if width > MaxWidth {
				return nil, loadErrorf(cwthOff+i, "glyph %U width %d exceeds %d", r, width, MaxWidth)
			}
		}
		rows := make([]byte, height)
		copy(rows, cdat[i*int(height):(i+1)*int(height)])
		f.glyphs = append(f.glyphs, Glyph{Rune: r, Width: width, Rows: rows, advance: width + o.gap})
	}
	sort.Slice(f.glyphs, func(i, j int) bool { return f.glyphs[i].Rune < f.glyphs[j].Rune })

	if g, ok := f.Glyph(o.fallback); ok {
		f.fallback = g
	} else {
		f.fallback = boxGlyph(o.fallback, cellWidth, height, o.gap)
	}
	return f, nil
}

func boxGlyph(r rune, width, height, gap uint8) *Glyph {
	full := byte(0xFF << (8 - width))
	sides := byte(0x80) | byte(0x80>>(width-1))
	rows := make([]byte, height)
	for i := range rows {
		rows[i] = sides
	}
	rows[0] = full
	rows[len(rows)-1] = full
	return &Glyph{Rune: r, Width: width, Rows: rows, advance: width + gap}
}

func (f *Font) Height() int    { return int(f.height) }
func (f *Font) CellWidth() int { return int(f.cellWidth) }
func (f *Font) Gap() int       { return int(f.gap) }
func (f *Font) Len() int       { return len(f.glyphs) }

// Glyph returns the glyph for r without falling back.
func (f *Font) Glyph(r rune) (*Glyph, bool) {
	i := sort.Search(len(f.glyphs), func(i int) bool { return f.glyphs[i].Rune >= r })
	if i < len(f.glyphs) && f.glyphs[i].Rune == r {
		return &f.glyphs[i], true
	}
	return nil, false
}

// Fallback returns the glyph drawn for unknown runes.
func (f *Font) Fallback() *Glyph { return f.fallback }

func (f *Font) lookup(r rune) *Glyph {
	if g, ok := f.Glyph(r); ok {
		return g
	}
	return f.fallback
}

func (f *Font) GetGlyph(r rune) tinyfont.Glypher { return f.lookup(r) }

func (f *Font) GetYAdvance() uint8 { return f.height }
