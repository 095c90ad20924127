package frf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/go-errors/errors"
)

// Encode writes glyphs as an FRF font with the given cell width. Later glyphs
// replace earlier ones with the same rune. A CWTH chunk is written only when
// some glyph is narrower or wider than the cell.
func Encode(w io.Writer, cellWidth uint8, glyphs []Glyph) error {
	if cellWidth < 1 || cellWidth > MaxWidth {
		return errors.Errorf("frf: cell width %d out of range 1..%d", cellWidth, MaxWidth)
	}
	byRune := make(map[rune]Glyph, len(glyphs))
	for _, g := range glyphs {
		byRune[g.Rune] = g
	}
	if len(byRune) == 0 {
		return errors.Errorf("frf: no glyphs to encode")
	}
	if len(byRune) > 0xFFFF {
		return errors.Errorf("frf: %d glyphs exceed the 16-bit count", len(byRune))
	}

	sorted := make([]Glyph, 0, len(byRune))
	for _, g := range byRune {
		sorted = append(sorted, g)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rune < sorted[j].Rune })

	height := len(sorted[0].Rows)
	if height < 1 || height > MaxHeight {
		return errors.Errorf("frf: glyph height %d out of range 1..%d", height, MaxHeight)
	}
	proportional := false
	for _, g := range sorted {
		if g.Rune < 0 || g.Rune > 0xFFFF {
			return errors.Errorf("frf: rune %U outside the 16-bit map", g.Rune)
		}
		if len(g.Rows) != height {
			return errors.Errorf("frf: glyph %U has %d rows, want %d", g.Rune, len(g.Rows), height)
		}
		if g.Width > MaxWidth {
			return errors.Errorf("frf: glyph %U width %d exceeds %d", g.Rune, g.Width, MaxWidth)
		}
		if g.Width != cellWidth {
			proportional = true
		}
	}

	count := len(sorted)
	meta := []byte{cellWidth, byte(height), 0, 0}
	binary.LittleEndian.PutUint16(meta[2:], uint16(count))

	cdat := make([]byte, 0, count*height)
	cwth := make([]byte, 0, count)
	cmap := make([]byte, count*2)
	for i, g := range sorted {
		mask := byte(0xFF << (8 - cellWidth))
		if g.Width > cellWidth {
			mask = byte(0xFF << (8 - g.Width))
		}
		for _, row := range g.Rows {
			cdat = append(cdat, row&mask)
		}
		cwth = append(cwth, g.Width)
		binary.LittleEndian.PutUint16(cmap[i*2:], uint16(g.Rune))
	}

	var body bytes.Buffer
	writeChunk(&body, "META", meta)
	writeChunk(&body, "CDAT", cdat)
	if proportional {
		writeChunk(&body, "CWTH", cwth)
	}
	writeChunk(&body, "CMAP", cmap)

	var hdr [8]byte
	copy(hdr[:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:], uint32(body.Len()))
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.WrapPrefix(err, "frf: write header", 0)
	}
	if _, err := body.WriteTo(w); err != nil {
		return errors.WrapPrefix(err, "frf: write chunks", 0)
	}
	return nil
}

// writeChunk appends id, the padded size and the padded payload.
func writeChunk(b *bytes.Buffer, id string, payload []byte) {
	if len(id) != 4 {
		panic(fmt.Sprintf("frf: bad chunk id %q", id))
	}
	pad := (4 - len(payload)%4) % 4
	var hdr [8]byte
	copy(hdr[:4], id)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(payload)+pad))
	b.Write(hdr[:])
	b.Write(payload)
	for i := 0; i < pad; i++ {
		b.WriteByte(0)
	}
}
