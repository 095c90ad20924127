package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/font/gofont/gomono"

	"transitboard/board/fonts/frf"
)

func main() {
	var (
		inPath     = flag.String("in", "", "Input PBM (P4) glyph sheet.")
		outPath    = flag.String("out", "", "Output .frf file.")
		width      = flag.Int("width", 0, "Glyph cell width in the sheet (1..8).")
		height     = flag.Int("height", 0, "Glyph cell height in the sheet (1..32).")
		mapPath    = flag.String("map", "", "Character map: whitespace separated hex code points (default: <in>.txt if present).")
		widthsPath = flag.String("widths", "", "Proportional widths: whitespace separated integers.")
		basic      = flag.Bool("basic", false, "Rasterise the built-in 7x13 basicfont instead of reading a sheet.")
		ttfPath    = flag.String("ttf", "", "Rasterise a TrueType font instead of reading a sheet.")
		goMono     = flag.Bool("gomono", false, "Rasterise the built-in Go Mono TrueType font.")
		size       = flag.Float64("size", 8, "Pixel size for -ttf and -gomono.")
		chars      = flag.String("chars", " -~", "Rune ranges for rasterised fonts, e.g. \" -~,°\".")
		trim       = flag.Bool("trim", false, "Shrink each rasterised glyph to its inked columns.")
	)
	flag.Parse()

	raster := *basic || *goMono || *ttfPath != ""
	if *outPath == "" || (!raster && (*inPath == "" || *width == 0 || *height == 0)) {
		fatalf("usage: mkfrf -in sheet.pbm -width 5 -height 8 [-map map.txt] [-widths widths.txt] -out font.frf\n" +
			"       mkfrf (-basic | -gomono | -ttf font.ttf) [-size 8] [-chars \" -~\"] [-trim] -out font.frf")
	}

	var (
		glyphs []frf.Glyph
		cell   int
		err    error
	)
	if raster {
		runes, perr := parseRanges(*chars)
		if perr != nil {
			fatalf("chars: %v", perr)
		}
		switch {
		case *basic:
			glyphs, cell, err = rasterBasic(runes, *trim)
		case *goMono:
			glyphs, cell, err = rasterTTF(gomono.TTF, *size, runes, *trim)
		default:
			data, rerr := os.ReadFile(*ttfPath)
			if rerr != nil {
				fatalf("ttf: %v", rerr)
			}
			glyphs, cell, err = rasterTTF(data, *size, runes, *trim)
		}
	} else {
		glyphs, err = fromSheet(*inPath, *width, *height, *mapPath, *widthsPath)
		cell = *width
	}
	if err != nil {
		fatalf("%v", err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fatalf("create: %v", err)
	}
	bw := bufio.NewWriter(out)
	if err := frf.Encode(bw, uint8(cell), glyphs); err != nil {
		_ = out.Close()
		fatalf("encode: %v", err)
	}
	if err := bw.Flush(); err != nil {
		_ = out.Close()
		fatalf("write: %v", err)
	}
	if err := out.Close(); err != nil {
		fatalf("close: %v", err)
	}
	fmt.Printf("%s: %d glyphs, cell %d\n", *outPath, len(glyphs), cell)
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

// fromSheet cuts a PBM sheet into width×height cells, left to right and top
// to bottom, and assigns code points and widths from the optional files.
func fromSheet(inPath string, width, height int, mapPath, widthsPath string) ([]frf.Glyph, error) {
	if width < 1 || width > frf.MaxWidth {
		return nil, fmt.Errorf("width %d out of range 1..%d", width, frf.MaxWidth)
	}
	if height < 1 || height > frf.MaxHeight {
		return nil, fmt.Errorf("height %d out of range 1..%d", height, frf.MaxHeight)
	}

	f, err := os.Open(inPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheet, err := readPBM(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inPath, err)
	}

	columns := sheet.width / width
	count := columns * (sheet.height / height)
	if count == 0 {
		return nil, fmt.Errorf("%s: %dx%d sheet holds no %dx%d cells", inPath, sheet.width, sheet.height, width, height)
	}

	if mapPath == "" {
		guess := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".txt"
		if _, err := os.Stat(guess); err == nil {
			mapPath = guess
		}
	}
	codes := make([]rune, count)
	for i := range codes {
		codes[i] = rune(i)
	}
	if mapPath != "" {
		fields, err := readFields(mapPath)
		if err != nil {
			return nil, err
		}
		if len(fields) > count {
			return nil, fmt.Errorf("%s: %d entries, sheet holds %d", mapPath, len(fields), count)
		}
		count = len(fields)
		codes = codes[:count]
		for i, s := range fields {
			v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 16)
			if err != nil {
				return nil, fmt.Errorf("%s: entry %d: %w", mapPath, i, err)
			}
			codes[i] = rune(v)
		}
	}

	widths := make([]int, count)
	for i := range widths {
		widths[i] = width
	}
	if widthsPath != "" {
		fields, err := readFields(widthsPath)
		if err != nil {
			return nil, err
		}
		if len(fields) > count {
			return nil, fmt.Errorf("%s: %d entries, only %d glyphs", widthsPath, len(fields), count)
		}
		count = len(fields)
		codes, widths = codes[:count], widths[:count]
		for i, s := range fields {
			w, err := strconv.Atoi(s)
			if err != nil || w < 0 || w > frf.MaxWidth {
				return nil, fmt.Errorf("%s: entry %d: invalid width %q", widthsPath, i, s)
			}
			widths[i] = w
		}
	}

	glyphs := make([]frf.Glyph, count)
	for c := 0; c < count; c++ {
		x0 := (c % columns) * width
		y0 := (c / columns) * height
		rows := make([]byte, height)
		for row := range rows {
			for col := 0; col < width; col++ {
				if sheet.black(x0+col, y0+row) {
					rows[row] |= 0x80 >> uint(col)
				}
			}
		}
		glyphs[c] = frf.Glyph{Rune: codes[c], Width: uint8(widths[c]), Rows: rows}
	}
	return glyphs, nil
}

func readFields(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(data)), nil
}

// parseRanges parses comma separated runes and lo-hi ranges.
func parseRanges(s string) ([]rune, error) {
	var out []rune
	for _, part := range strings.Split(s, ",") {
		rs := []rune(part)
		switch {
		case len(rs) == 1:
			out = append(out, rs[0])
		case len(rs) == 3 && rs[1] == '-':
			if rs[0] > rs[2] {
				return nil, fmt.Errorf("range %q is reversed", part)
			}
			for r := rs[0]; r <= rs[2]; r++ {
				out = append(out, r)
			}
		default:
			return nil, fmt.Errorf("bad range %q", part)
		}
	}
	return out, nil
}
