package hal

import (
	"errors"
	"time"
)

var ErrNotImplemented = errors.New("not implemented")

// Panel is the physical (or emulated) LED matrix.
//
// Present lends buf to the panel for the duration of the call only. A panel
// that needs the pixels later must copy them before returning.
type Panel interface {
	Width() int
	Height() int
	Present(buf *PixelBuffer) error
}

// HAL provides the only contact point between the board and the outside world.
type HAL interface {
	Panel() Panel
	Button() GPIOPin
}

// ButtonSource selects where the page button is read from.
type ButtonSource string

const (
	ButtonNone   ButtonSource = "none"
	ButtonGPIO   ButtonSource = "gpio"
	ButtonKey    ButtonSource = "key"
	ButtonSignal ButtonSource = "signal"
)

// ButtonConfig describes the single digital input line.
type ButtonConfig struct {
	Source ButtonSource

	// GPIO character device (Source == ButtonGPIO). The pull resistor is set
	// by the reader through GPIOPin.Configure.
	Chip string
	Line int

	// Demo pulse (Source == ButtonSignal).
	Period time.Duration
	High   time.Duration
}
