package pages

import (
	"image"
	"image/color"
	"time"

	"transitboard/board/fonts/frf"
	"transitboard/hal"
)

const (
	DefaultClockLayout = "15:04"
	DefaultBlinkLayout = "15 04"
)

// Clock shows the wall-clock time. When BlinkLayout is set it replaces Layout
// during the second half of every second.
type Clock struct {
	Font        *frf.Font
	Location    *time.Location
	Layout      string
	BlinkLayout string
	Color       color.RGBA
	// Offset moves the text origin.
	Offset image.Point
}

func (c *Clock) Kind() Kind   { return KindClock }
func (c *Clock) Name() string { return "clock" }

// Text returns the string shown at now.
func (c *Clock) Text(now time.Time) string {
	if c.Location != nil {
		now = now.In(c.Location)
	}
	layout := c.Layout
	if layout == "" {
		layout = DefaultClockLayout
	}
	if c.BlinkLayout != "" && now.Nanosecond() >= int(500*time.Millisecond) {
		layout = c.BlinkLayout
	}
	return now.Format(layout)
}

func (c *Clock) Render(buf *hal.PixelBuffer, now time.Time) {
	drawCentered(buf, c.Font, c.Offset, c.Text(now), colorOr(c.Color, White))
}
