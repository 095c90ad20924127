// Package config loads the board configuration file.
//
// The file is YAML. The JSON files of older setups parse as well; their
// strftime clock formats are converted to Go layouts.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-errors/errors"
	"gopkg.in/yaml.v3"

	"transitboard/board/pages"
	"transitboard/board/services/transit"
	"transitboard/board/services/weather"
	"transitboard/hal"
)

type Config struct {
	Panel       PanelConfig   `yaml:"panel"`
	Font        FontConfig    `yaml:"font"`
	Pages       []string      `yaml:"pages"`
	DefaultPage int           `yaml:"default_page"`
	Clock       ClockConfig   `yaml:"clock"`
	Transit     TransitConfig `yaml:"transit"`
	Weather     WeatherConfig `yaml:"weather"`
	Button      ButtonConfig  `yaml:"button"`
	LogLevel    string        `yaml:"log_level"`
}

type PanelConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
	// Scale is the window pixels per panel pixel.
	Scale int `yaml:"scale"`
}

type FontConfig struct {
	Path     string `yaml:"path"`
	Gap      uint8  `yaml:"gap"`
	Fallback string `yaml:"fallback"`
}

// Module holds the options every page shares. Enabled only matters when the
// page order is not given explicitly.
type Module struct {
	Enabled  *bool    `yaml:"enabled"`
	Color    Color    `yaml:"color"`
	Position Position `yaml:"position"`
}

func (m Module) enabled() bool { return m.Enabled == nil || *m.Enabled }

type ClockConfig struct {
	Module   `yaml:",inline"`
	Format   []string `yaml:"format"`
	Timezone string   `yaml:"timezone"`
}

type TransitConfig struct {
	Module      `yaml:",inline"`
	API         string     `yaml:"api"`
	Stops       []StopSpec `yaml:"stops"`
	Interval    Duration   `yaml:"interval"`
	Timeout     Duration   `yaml:"timeout"`
	StaleAfter  Duration   `yaml:"stale_after"`
	MaxRecords  int        `yaml:"max_records"`
	RowHeight   int        `yaml:"row_height"`
	Placeholder string     `yaml:"placeholder"`
}

type WeatherConfig struct {
	Module      `yaml:",inline"`
	URL         string   `yaml:"url"`
	Station     string   `yaml:"station"`
	Interval    Duration `yaml:"interval"`
	Timeout     Duration `yaml:"timeout"`
	StaleAfter  Duration `yaml:"stale_after"`
	Units       string   `yaml:"units"`
	Placeholder string   `yaml:"placeholder"`
}

type ButtonConfig struct {
	Source    string   `yaml:"source"`
	Chip      string   `yaml:"chip"`
	Line      int      `yaml:"line"`
	ActiveLow bool     `yaml:"active_low"`
	Pull      string   `yaml:"pull"`
	Sample    Duration `yaml:"sample"`
	Debounce  Duration `yaml:"debounce"`
	Period    Duration `yaml:"period"`
	High      Duration `yaml:"high"`
}

// Default returns the configuration used for every option the file omits.
func Default() *Config {
	return &Config{
		Panel: PanelConfig{Width: 64, Height: 32, FPS: 30, Scale: 10},
		Font:  FontConfig{Path: "font.frf", Gap: 1, Fallback: "?"},
		Clock: ClockConfig{
			Format: []string{pages.DefaultClockLayout, pages.DefaultBlinkLayout},
		},
		Transit: TransitConfig{
			API:        transit.DefaultNexTripURL,
			Interval:   Duration(transit.DefaultInterval),
			Timeout:    Duration(transit.DefaultTimeout),
			MaxRecords: transit.DefaultMaxRecords,
		},
		Weather: WeatherConfig{
			Interval: Duration(weather.DefaultInterval),
			Timeout:  Duration(weather.DefaultTimeout),
			Units:    string(weather.Fahrenheit),
		},
		Button: ButtonConfig{
			Source:   string(hal.ButtonNone),
			Chip:     "gpiochip0",
			Pull:     "none",
			Sample:   Duration(10 * time.Millisecond),
			Debounce: Duration(50 * time.Millisecond),
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapPrefix(err, "config", 0)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.WrapPrefix(err, "config: "+path, 0)
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	for i, f := range cfg.Clock.Format {
		if !strings.Contains(f, "%") {
			continue
		}
		layout, err := StrftimeLayout(f)
		if err != nil {
			return nil, errors.Errorf("config: clock.format[%d]: %v", i, err)
		}
		cfg.Clock.Format[i] = layout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PageOrder returns the configured page names, or the enabled modules in the
// order transit, weather, clock when none are listed.
func (c *Config) PageOrder() []string {
	if len(c.Pages) > 0 {
		return c.Pages
	}
	var order []string
	if c.Transit.enabled() {
		order = append(order, "transit")
	}
	if c.Weather.enabled() {
		order = append(order, "weather")
	}
	if c.Clock.enabled() {
		order = append(order, "clock")
	}
	return order
}

// PageKinds resolves PageOrder. Validate guarantees it succeeds.
func (c *Config) PageKinds() ([]pages.Kind, error) {
	order := c.PageOrder()
	kinds := make([]pages.Kind, 0, len(order))
	for _, name := range order {
		k, err := pages.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func (c *Config) hasPage(k pages.Kind) bool {
	kinds, _ := c.PageKinds()
	for _, got := range kinds {
		if got == k {
			return true
		}
	}
	return false
}

// Location returns the clock time zone; empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Clock.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Clock.Timezone)
}

// FallbackRune returns the first rune of Font.Fallback, or '?'.
func (c *Config) FallbackRune() rune {
	for _, r := range c.Font.Fallback {
		return r
	}
	return '?'
}

// HALButton converts the button section for the host HAL.
func (c *Config) HALButton() hal.ButtonConfig {
	return hal.ButtonConfig{
		Source: hal.ButtonSource(strings.ToLower(c.Button.Source)),
		Chip:   c.Button.Chip,
		Line:   c.Button.Line,
		Period: c.Button.Period.D(),
		High:   c.Button.High.D(),
	}
}

// ButtonPull returns the pull resistor the input monitor configures on the
// button pin. Validate guarantees it parses.
func (c *Config) ButtonPull() hal.GPIOPull {
	pull, _ := hal.ParseGPIOPull(c.Button.Pull)
	return pull
}

// Stops converts the stop list for the NexTrip source.
func (c *Config) Stops() []transit.Stop {
	out := make([]transit.Stop, len(c.Transit.Stops))
	for i, s := range c.Transit.Stops {
		out[i] = transit.Stop{ID: s.ID, Route: s.Route}
	}
	return out
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	return ParseLevel(c.LogLevel)
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, errors.Errorf("config: log level %q: %v", s, err)
	}
	return l, nil
}
