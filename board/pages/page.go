// Package pages renders the board's screens into a pixel buffer.
package pages

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"transitboard/board/fonts/frf"
	"transitboard/hal"
)

// Kind tags a page variant.
type Kind uint8

const (
	KindClock Kind = iota
	KindWeather
	KindTransit
)

func (k Kind) String() string {
	switch k {
	case KindClock:
		return "clock"
	case KindWeather:
		return "weather"
	case KindTransit:
		return "transit"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a page name from the configuration to its Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clock", "time":
		return KindClock, nil
	case "weather", "temperature":
		return KindWeather, nil
	case "transit", "bus", "departures":
		return KindTransit, nil
	}
	return 0, fmt.Errorf("pages: unknown page %q", s)
}

// Page draws one screen. Render pulls whatever data it needs itself and must
// not block; buf has been cleared by the caller.
type Page interface {
	Kind() Kind
	Name() string
	Render(buf *hal.PixelBuffer, now time.Time)
}

// White is the default page colour.
var White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func colorOr(c, def color.RGBA) color.RGBA {
	if c == (color.RGBA{}) {
		return def
	}
	return c
}

// drawCentered draws text centered in the part of buf right of and below
// off, clipped to the buffer width.
func drawCentered(buf *hal.PixelBuffer, font *frf.Font, off image.Point, text string, c color.RGBA) {
	w := font.Measure(text)
	x := max(0, (buf.Width()-off.X-w)/2) + off.X
	y := max(0, (buf.Height()-off.Y-font.Height())/2) + off.Y
	font.DrawClipped(buf, x, y, buf.Width()-x, text, c)
}
