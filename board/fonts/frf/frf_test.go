package frf

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
)

// testGlyphs is a tiny proportional 5-row font: 'A' 3 wide, 'i' 1 wide,
// 'W' 5 wide and '?' 3 wide.
func testGlyphs() []Glyph {
	return []Glyph{
		{Rune: 'A', Width: 3, Rows: []byte{0x40, 0xA0, 0xE0, 0xA0, 0xA0}},
		{Rune: 'i', Width: 1, Rows: []byte{0x80, 0x00, 0x80, 0x80, 0x80}},
		{Rune: 'W', Width: 5, Rows: []byte{0x88, 0x88, 0xA8, 0xA8, 0x50}},
		{Rune: '?', Width: 3, Rows: []byte{0xE0, 0x20, 0x60, 0x00, 0x40}},
	}
}

func encodeTestFont(t *testing.T, glyphs []Glyph) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, 5, glyphs); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func loadTestFont(t *testing.T, opts ...Option) *Font {
	t.Helper()
	f, err := Parse(encodeTestFont(t, testGlyphs()), opts...)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return f
}

type recordDisplay struct {
	w, h int16
	set  map[[2]int]color.RGBA
}

func newRecordDisplay(w, h int16) *recordDisplay {
	return &recordDisplay{w: w, h: h, set: make(map[[2]int]color.RGBA)}
}

func (d *recordDisplay) Size() (x, y int16) { return d.w, d.h }
func (d *recordDisplay) Display() error     { return nil }

func (d *recordDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.set[[2]int{int(x), int(y)}] = c
}

func TestRoundTrip(t *testing.T) {
	f := loadTestFont(t)
	if f.Height() != 5 || f.CellWidth() != 5 || f.Len() != 4 || f.Gap() != 1 {
		t.Fatalf("metrics: height=%d cell=%d len=%d gap=%d", f.Height(), f.CellWidth(), f.Len(), f.Gap())
	}
	for _, want := range testGlyphs() {
		got, ok := f.Glyph(want.Rune)
		if !ok {
			t.Fatalf("glyph %q missing", want.Rune)
		}
		if got.Width != want.Width {
			t.Fatalf("glyph %q width=%d, want %d", want.Rune, got.Width, want.Width)
		}
		if !bytes.Equal(got.Rows, want.Rows) {
			t.Fatalf("glyph %q rows=%x, want %x", want.Rune, got.Rows, want.Rows)
		}
	}
}

func TestEncodeFixedWidthOmitsWidths(t *testing.T) {
	glyphs := []Glyph{
		{Rune: '0', Width: 4, Rows: []byte{0x60, 0x90, 0x90, 0x60}},
		{Rune: '1', Width: 4, Rows: []byte{0x20, 0x60, 0x20, 0x70}},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, 4, glyphs); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("CWTH")) {
		t.Fatalf("fixed-width font should not carry CWTH")
	}
	if buf.Len()%4 != 0 {
		t.Fatalf("file length %d not padded to 4", buf.Len())
	}
	f, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g, _ := f.Glyph('1'); g == nil || g.Width != 4 {
		t.Fatalf("glyph '1' = %+v", g)
	}
}

func TestMeasure(t *testing.T) {
	f := loadTestFont(t)
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"A", 3},
		{"Ai", 3 + 1 + 1},
		{"WiA", 5 + 1 + 1 + 1 + 3},
		{"A~", 3 + 1 + 3}, // '~' falls back to '?'
	}
	for _, tc := range cases {
		if got := f.Measure(tc.text); got != tc.want {
			t.Fatalf("Measure(%q)=%d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestMeasureMatchesLayoutAndGlyphSum(t *testing.T) {
	for _, gap := range []uint8{0, 1, 2} {
		f := loadTestFont(t, WithGap(gap))
		for _, text := range []string{"A", "AiW", "iiii", "WAW?i", "zz"} {
			sum := 0
			for _, r := range text {
				sum += int(f.lookup(r).Width)
			}
			n := utf8.RuneCountInString(text)
			want := sum + (n-1)*int(gap)
			if got := f.Measure(text); got != want {
				t.Fatalf("gap %d: Measure(%q)=%d, want %d", gap, text, got, want)
			}

			layout := f.Layout(text)
			last := layout[len(layout)-1]
			if end := last.X + int(last.Glyph.Width); end != want {
				t.Fatalf("gap %d: layout of %q ends at %d, want %d", gap, text, end, want)
			}

			_, outbox := tinyfont.LineWidth(f, text)
			if int(outbox) != want+int(gap) {
				t.Fatalf("gap %d: tinyfont outbox of %q = %d, want %d", gap, text, outbox, want+int(gap))
			}
		}
	}
}

func TestDrawStaysInBox(t *testing.T) {
	f := loadTestFont(t)
	d := newRecordDisplay(64, 32)
	red := color.RGBA{R: 0xff, A: 0xff}

	const x, y = 10, 7
	text := "WiA?"
	w := f.Draw(d, x, y, text, red)
	if w != f.Measure(text) {
		t.Fatalf("Draw returned %d, want %d", w, f.Measure(text))
	}
	if len(d.set) == 0 {
		t.Fatalf("no pixels drawn")
	}
	for p, c := range d.set {
		if p[0] < x || p[0] >= x+w || p[1] < y || p[1] >= y+f.Height() {
			t.Fatalf("pixel %v outside [%d,%d)x[%d,%d)", p, x, x+w, y, y+f.Height())
		}
		if c != red {
			t.Fatalf("pixel %v colour %v", p, c)
		}
	}

	// Top-left pixel of 'W' is set, its neighbour is not.
	if _, ok := d.set[[2]int{x, y}]; !ok {
		t.Fatalf("expected pixel at glyph origin")
	}
	if _, ok := d.set[[2]int{x + 1, y}]; ok {
		t.Fatalf("unexpected pixel right of glyph origin")
	}
}

func TestDrawClipped(t *testing.T) {
	f := loadTestFont(t)
	d := newRecordDisplay(64, 32)
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	w := f.DrawClipped(d, 0, 0, 4, "WWW", white)
	if w != 4 {
		t.Fatalf("DrawClipped width=%d, want 4", w)
	}
	for p := range d.set {
		if p[0] >= 4 {
			t.Fatalf("pixel %v beyond clip", p)
		}
	}
	if got := f.DrawClipped(d, 0, 0, 0, "A", white); got != 0 {
		t.Fatalf("zero-width clip drew %d", got)
	}
}

func TestDrawOffPanelIsDropped(t *testing.T) {
	f := loadTestFont(t)
	d := newRecordDisplay(8, 8)
	f.Draw(d, -2, -3, "W", color.RGBA{G: 0xff, A: 0xff})
	for p := range d.set {
		if p[0] < -2 || p[1] < -3 {
			t.Fatalf("pixel %v outside text box", p)
		}
	}
}

func TestFallback(t *testing.T) {
	f := loadTestFont(t)
	q, _ := f.Glyph('?')
	if f.Fallback() != q {
		t.Fatalf("fallback should be the '?' glyph")
	}
	if g := f.GetGlyph('§'); g != tinyfont.Glypher(q) {
		t.Fatalf("GetGlyph of unknown rune = %v", g)
	}

	// Missing fallback rune synthesises a hollow box of the cell size.
	f = loadTestFont(t, WithFallback('#'))
	box := f.Fallback()
	if box.Width != 5 || box.Height() != 5 {
		t.Fatalf("box %dx%d", box.Width, box.Height())
	}
	if !box.Pixel(0, 0) || !box.Pixel(4, 4) || box.Pixel(2, 2) || !box.Pixel(0, 2) || !box.Pixel(4, 2) {
		t.Fatalf("box rows %x", box.Rows)
	}
}

func TestGlyphInfoBaseline(t *testing.T) {
	f := loadTestFont(t, WithGap(2))
	g, _ := f.Glyph('W')
	info := g.Info()
	if info.Width != 5 || info.Height != 5 || info.XAdvance != 7 || info.YOffset != -4 {
		t.Fatalf("info %+v", info)
	}
	if f.GetYAdvance() != 5 {
		t.Fatalf("GetYAdvance=%d", f.GetYAdvance())
	}
}

func TestParseErrors(t *testing.T) {
	good := encodeTestFont(t, testGlyphs())

	corrupt := func(fn func(b []byte) []byte) []byte {
		b := append([]byte(nil), good...)
		return fn(b)
	}
	cases := map[string][]byte{
		"empty":     nil,
		"not riff":  corrupt(func(b []byte) []byte { copy(b, "RIFX"); return b }),
		"truncated": good[:len(good)-6],
		"oversized riff": corrupt(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[4:], uint32(len(b)))
			return b
		}),
		"zero width": corrupt(func(b []byte) []byte { b[16] = 0; return b }),
		"wide cell":  corrupt(func(b []byte) []byte { b[16] = 9; return b }),
		"tall":       corrupt(func(b []byte) []byte { b[17] = 33; return b }),
		"no glyphs": corrupt(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[18:], 0)
			return b
		}),
		"count too big": corrupt(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[18:], 200)
			return b
		}),
		"missing meta": corrupt(func(b []byte) []byte { copy(b[8:], "XXXX"); return b }),
	}
	for name, data := range cases {
		_, err := Parse(data)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		var le *LoadError
		if !stderrors.As(err, &le) {
			t.Fatalf("%s: error %T is not a *LoadError", name, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.frf")
	if err := os.WriteFile(path, encodeTestFont(t, testGlyphs()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if f.Len() != 4 {
		t.Fatalf("Len=%d", f.Len())
	}

	bad := filepath.Join(dir, "bad.frf")
	if err := os.WriteFile(bad, []byte("RIFF\x04\x00\x00\x00META"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = LoadFile(bad)
	var le *LoadError
	if !stderrors.As(err, &le) {
		t.Fatalf("LoadFile bad: %v", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.frf")); err == nil || !stderrors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadFile missing: %v", err)
	}
}

func TestEncodeRejects(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, 0, testGlyphs()); err == nil {
		t.Fatalf("cell width 0 accepted")
	}
	if err := Encode(&buf, 5, nil); err == nil {
		t.Fatalf("empty font accepted")
	}
	mixed := append(testGlyphs(), Glyph{Rune: 'x', Width: 3, Rows: []byte{0xA0}})
	if err := Encode(&buf, 5, mixed); err == nil {
		t.Fatalf("mixed heights accepted")
	}
	if err := Encode(&buf, 5, []Glyph{{Rune: 0x1F600, Width: 5, Rows: []byte{0}}}); err == nil {
		t.Fatalf("rune beyond 16 bits accepted")
	}
}
