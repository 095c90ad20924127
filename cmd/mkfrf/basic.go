package main

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"transitboard/board/fonts/frf"
)

// rasterBasic renders runes from basicfont.Face7x13 into FRF glyphs. Runes
// the face lacks are skipped. With trim each glyph keeps only its inked
// columns; blank glyphs keep two.
func rasterBasic(runes []rune, trim bool) ([]frf.Glyph, int, error) {
	return rasterFace(basicfont.Face7x13, runes, trim)
}

// rasterTTF renders runes from a TrueType font at size pixels per em.
func rasterTTF(ttf []byte, size float64, runes []rune, trim bool) ([]frf.Glyph, int, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, 0, fmt.Errorf("ttf: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	return rasterFace(face, runes, trim)
}

func rasterFace(face font.Face, runes []rune, trim bool) ([]frf.Glyph, int, error) {
	m := face.Metrics()
	height := (m.Ascent + m.Descent).Ceil()
	if height < 1 || height > frf.MaxHeight {
		return nil, 0, fmt.Errorf("face height %d out of range", height)
	}
	ascent := m.Ascent.Ceil()

	cell := 0
	var glyphs []frf.Glyph
	for _, r := range runes {
		dr, mask, mp, adv, ok := face.Glyph(fixed.P(0, ascent), r)
		if !ok {
			continue
		}
		w := adv.Ceil()
		if w > frf.MaxWidth {
			w = frf.MaxWidth
		}
		rows := make([]byte, height)
		inked := 0
		for y := 0; y < height; y++ {
			for x := 0; x < w; x++ {
				if x < dr.Min.X || x >= dr.Max.X || y < dr.Min.Y || y >= dr.Max.Y {
					continue
				}
				_, _, _, a := mask.At(mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y).RGBA()
				if a < 0x8000 {
					continue
				}
				rows[y] |= 0x80 >> uint(x)
				if x+1 > inked {
					inked = x + 1
				}
			}
		}
		if trim {
			w = inked
			if w == 0 {
				w = 2
			}
		}
		if w > cell {
			cell = w
		}
		glyphs = append(glyphs, frf.Glyph{Rune: r, Width: uint8(w), Rows: rows})
	}
	if len(glyphs) == 0 {
		return nil, 0, fmt.Errorf("face has none of the %d requested runes", len(runes))
	}
	return glyphs, cell, nil
}
