package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"time"
	"unicode/utf8"

	"transitboard/board/fonts/frf"
	"transitboard/board/pages"
)

var (
	bannerBackground = color.RGBA{R: 0x80, A: 0xff}
	bannerForeground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// render draws p, replacing the frame with an error banner if it panics.
func (s *Scheduler) render(p pages.Page, now time.Time) {
	defer func() {
		v := recover()
		if v == nil {
			if s.pageFailing {
				s.log.Info("scheduler: page recovered", "page", p.Name())
				s.pageFailing = false
			}
			return
		}
		s.pagePanics++
		if !s.pageFailing {
			s.log.Error("scheduler: page panicked", "page", p.Name(), "panic", v, "stack", string(debug.Stack()))
			s.pageFailing = true
		}
		s.drawBanner(p.Name(), v)
	}()
	p.Render(s.buf, now)
}

// drawBanner fills the frame and word-wraps "<page>: <panic>" into it.
func (s *Scheduler) drawBanner(page string, v any) {
	s.buf.Clear(bannerBackground)
	if s.font == nil {
		return
	}

	lineHeight := s.font.Height()
	y := 0
	for _, line := range wrap(s.font, fmt.Sprintf("%s: %v", page, v), s.buf.Width()) {
		if y+lineHeight > s.buf.Height() {
			break
		}
		s.font.DrawClipped(s.buf, 0, y, s.buf.Width(), line, bannerForeground)
		y += lineHeight
	}
}

// wrap splits text into lines no wider than width, breaking at spaces where
// possible and inside words otherwise.
func wrap(font *frf.Font, text string, width int) []string {
	var lines []string
	for _, word := range strings.Fields(text) {
		if n := len(lines); n > 0 {
			if joined := lines[n-1] + " " + word; font.Measure(joined) <= width {
				lines[n-1] = joined
				continue
			}
		}
		for word != "" {
			head, rest := takeWidth(font, word, width)
			lines = append(lines, head)
			word = rest
		}
	}
	return lines
}

// takeWidth returns the longest prefix of s that fits in width (at least one
// rune) and the remainder.
func takeWidth(font *frf.Font, s string, width int) (prefix, rest string) {
	end := 0
	for end < len(s) {
		_, size := utf8.DecodeRuneInString(s[end:])
		if end > 0 && font.Measure(s[:end+size]) > width {
			break
		}
		end += size
	}
	return s[:end], s[end:]
}
