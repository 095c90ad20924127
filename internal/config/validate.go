package config

import (
	"math"
	"strings"

	"github.com/go-errors/errors"

	"transitboard/board/pages"
	"transitboard/board/services/weather"
	"transitboard/hal"
)

// Validate reports the first setting that prevents the board from starting.
func (c *Config) Validate() error {
	if c.Panel.Width <= 0 || c.Panel.Height <= 0 || c.Panel.Width > math.MaxInt16 || c.Panel.Height > math.MaxInt16 {
		return errors.Errorf("config: invalid panel size %dx%d", c.Panel.Width, c.Panel.Height)
	}
	if c.Panel.FPS <= 0 {
		return errors.Errorf("config: fps must be positive, got %d", c.Panel.FPS)
	}
	if c.Panel.Scale <= 0 {
		return errors.Errorf("config: window scale must be positive, got %d", c.Panel.Scale)
	}
	if strings.TrimSpace(c.Font.Path) == "" {
		return errors.Errorf("config: font path is empty")
	}

	kinds, err := c.PageKinds()
	if err != nil {
		return errors.WrapPrefix(err, "config", 0)
	}
	if len(kinds) == 0 {
		return errors.Errorf("config: no pages enabled")
	}
	if c.DefaultPage < 0 || c.DefaultPage >= len(kinds) {
		return errors.Errorf("config: default_page %d out of range 0..%d", c.DefaultPage, len(kinds)-1)
	}

	if len(c.Clock.Format) == 0 || len(c.Clock.Format) > 2 {
		return errors.Errorf("config: clock.format needs one or two layouts, got %d", len(c.Clock.Format))
	}
	if _, err := c.Location(); err != nil {
		return errors.WrapPrefix(err, "config: clock.timezone", 0)
	}

	if c.hasPage(pages.KindTransit) {
		if len(c.Transit.Stops) == 0 {
			return errors.Errorf("config: transit page needs at least one stop")
		}
		for _, s := range c.Transit.Stops {
			if s.ID <= 0 {
				return errors.Errorf("config: invalid transit stop id %d", s.ID)
			}
		}
	}
	if c.Transit.Interval <= 0 || c.Weather.Interval <= 0 {
		return errors.Errorf("config: poll intervals must be positive")
	}
	if c.Transit.StaleAfter < 0 || c.Weather.StaleAfter < 0 {
		return errors.Errorf("config: stale_after must not be negative")
	}
	if c.Transit.RowHeight < 0 || c.Transit.MaxRecords < 0 {
		return errors.Errorf("config: transit row_height and max_records must not be negative")
	}

	if c.hasPage(pages.KindWeather) && c.Weather.URL == "" && c.Weather.Station == "" {
		return errors.Errorf("config: weather page needs weather.station or weather.url")
	}
	if _, err := weather.ParseUnit(c.Weather.Units); err != nil {
		return errors.WrapPrefix(err, "config", 0)
	}

	switch hal.ButtonSource(strings.ToLower(c.Button.Source)) {
	case "", hal.ButtonNone, hal.ButtonKey, hal.ButtonSignal:
	case hal.ButtonGPIO:
		if c.Button.Chip == "" || c.Button.Line < 0 {
			return errors.Errorf("config: gpio button needs chip and a non-negative line")
		}
	default:
		return errors.Errorf("config: unknown button source %q", c.Button.Source)
	}
	pull, err := hal.ParseGPIOPull(c.Button.Pull)
	if err != nil {
		return errors.WrapPrefix(err, "config", 0)
	}
	if pull != hal.GPIOPullNone && c.HALButton().Source != hal.ButtonGPIO {
		return errors.Errorf("config: button.pull %s needs source gpio", pull)
	}
	if c.Button.Sample <= 0 || c.Button.Debounce < 0 {
		return errors.Errorf("config: button sample must be positive and debounce non-negative")
	}

	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}
