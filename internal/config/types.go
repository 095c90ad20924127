package config

import (
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts Go duration strings ("30s", "1h") or a plain number of
// seconds.
type Duration time.Duration

func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	if secs, err := strconv.ParseFloat(n.Value, 64); err == nil {
		if math.IsInf(secs, 0) || math.IsNaN(secs) {
			return fmt.Errorf("line %d: invalid duration %q", n.Line, n.Value)
		}
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

// Color is an RGB colour written as "#rrggbb", "#rgb" or [r, g, b]. The
// zero value means the page default.
type Color color.RGBA

func (c Color) RGBA() color.RGBA { return color.RGBA(c) }

func ParseColor(s string) (Color, error) {
	hexStr := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hexStr) == 3 {
		hexStr = string([]byte{hexStr[0], hexStr[0], hexStr[1], hexStr[1], hexStr[2], hexStr[2]})
	}
	b, err := hex.DecodeString(hexStr)
	if err != nil || len(b) != 3 {
		return Color{}, fmt.Errorf("colour %q is not #rrggbb", s)
	}
	return Color{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}

func (c Color) MarshalYAML() (any, error) {
	if c == (Color{}) {
		return nil, nil
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		var rgb []uint8
		if err := n.Decode(&rgb); err != nil || len(rgb) != 3 {
			return fmt.Errorf("line %d: colour must be [r, g, b]", n.Line)
		}
		*c = Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}
		return nil
	}
	parsed, err := ParseColor(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = parsed
	return nil
}

// Position shifts a page's text by [x, y] pixels.
type Position image.Point

func (p Position) Point() image.Point { return image.Point(p) }

func (p Position) MarshalYAML() (any, error) {
	if p == (Position{}) {
		return nil, nil
	}
	return []int{p.X, p.Y}, nil
}

func (p *Position) UnmarshalYAML(n *yaml.Node) error {
	var xy []int
	if n.Kind != yaml.SequenceNode || n.Decode(&xy) != nil || len(xy) != 2 {
		return fmt.Errorf("line %d: position must be [x, y]", n.Line)
	}
	*p = Position{X: xy[0], Y: xy[1]}
	return nil
}

// StopSpec is one transit stop with an optional route filter. It decodes from
// 1234, [1234, 21] or {stop: 1234, route: "21"}.
type StopSpec struct {
	ID    int
	Route string
}

func (s *StopSpec) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		id, err := strconv.Atoi(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: stop id %q is not a number", n.Line, n.Value)
		}
		*s = StopSpec{ID: id}
		return nil
	case yaml.SequenceNode:
		if len(n.Content) == 0 || len(n.Content) > 2 {
			return fmt.Errorf("line %d: stop must be [stop] or [stop, route]", n.Line)
		}
		id, err := strconv.Atoi(n.Content[0].Value)
		if err != nil {
			return fmt.Errorf("line %d: stop id %q is not a number", n.Line, n.Content[0].Value)
		}
		*s = StopSpec{ID: id}
		if len(n.Content) == 2 {
			s.Route = n.Content[1].Value
		}
		return nil
	case yaml.MappingNode:
		var m struct {
			Stop  int    `yaml:"stop"`
			Route string `yaml:"route"`
		}
		if err := n.Decode(&m); err != nil {
			return err
		}
		*s = StopSpec{ID: m.Stop, Route: m.Route}
		return nil
	}
	return fmt.Errorf("line %d: unsupported stop form", n.Line)
}

func (s StopSpec) MarshalYAML() (any, error) {
	if s.Route == "" {
		return s.ID, nil
	}
	return map[string]any{"stop": s.ID, "route": s.Route}, nil
}
