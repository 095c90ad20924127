package hal

import (
	"fmt"
	"io"
	"time"
)

type hostHAL struct {
	panel  Panel
	button GPIOPin
}

func (h *hostHAL) Panel() Panel    { return h.panel }
func (h *hostHAL) Button() GPIOPin { return h.button }

// newButton builds the input pin for cfg. key is the host key pin, or nil when
// no window is available.
func newButton(cfg ButtonConfig, key GPIOPin) (GPIOPin, error) {
	switch cfg.Source {
	case "", ButtonNone:
		return NewVirtualPin("BUTTON"), nil
	case ButtonKey:
		if key == nil {
			return nil, fmt.Errorf("button: source %q requires the window panel", cfg.Source)
		}
		return key, nil
	case ButtonSignal:
		period := cfg.Period
		if period <= 0 {
			period = 10 * time.Second
		}
		high := cfg.High
		if high <= 0 {
			high = 200 * time.Millisecond
		}
		return NewSignalPin("BUTTON", period, high), nil
	case ButtonGPIO:
		return OpenGPIOPin(cfg.Chip, cfg.Line)
	default:
		return nil, fmt.Errorf("button: unknown source %q", cfg.Source)
	}
}

func closeButton(pin GPIOPin) error {
	if c, ok := pin.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
