package pages

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"transitboard/board/fonts/frf"
	"transitboard/board/services/weather"
	"transitboard/hal"
	"transitboard/kernel"
)

// DefaultWeatherPlaceholder is shown until a fresh reading exists.
const DefaultWeatherPlaceholder = "--"

// Weather shows the latest published temperature.
type Weather struct {
	Font        *frf.Font
	Data        *kernel.Latest[weather.Reading]
	Unit        weather.Unit
	StaleAfter  time.Duration
	Placeholder string
	Color       color.RGBA
	Offset      image.Point
}

func (w *Weather) Kind() Kind   { return KindWeather }
func (w *Weather) Name() string { return "weather" }

// Text returns the string shown at now.
func (w *Weather) Text(now time.Time) string {
	r := w.Data.Load()
	if !r.FreshAt(now, w.StaleAfter) {
		if w.Placeholder != "" {
			return w.Placeholder
		}
		return DefaultWeatherPlaceholder
	}
	unit := w.Unit
	if unit == "" {
		unit = weather.Fahrenheit
	}
	deg := math.Round(r.Temperature(unit))
	if deg == 0 {
		deg = 0 // no "-0"
	}
	return fmt.Sprintf("%.0f°%s", deg, unit)
}

func (w *Weather) Render(buf *hal.PixelBuffer, now time.Time) {
	drawCentered(buf, w.Font, w.Offset, w.Text(now), colorOr(w.Color, White))
}
