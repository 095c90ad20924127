//go:build linux

package hal

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

const gpioConsumer = "transitboard"

type cdevPin struct {
	mu   sync.Mutex
	name string
	line *gpiocdev.Line
	pull GPIOPull
}

// OpenGPIOPin requests offset on the GPIO character device chip (for example
// "gpiochip0") as an input line, leaving its bias as the system set it until
// Configure.
func OpenGPIOPin(chip string, offset int) (GPIOPin, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithConsumer(gpioConsumer),
		biasOption(GPIOPullNone),
	)
	if err != nil {
		return nil, fmt.Errorf("gpio: request %s line %d: %w", chip, offset, err)
	}
	return &cdevPin{
		name: fmt.Sprintf("%s:%d", chip, offset),
		line: line,
	}, nil
}

func biasOption(pull GPIOPull) gpiocdev.LineBias {
	switch pull {
	case GPIOPullUp:
		return gpiocdev.WithPullUp
	case GPIOPullDown:
		return gpiocdev.WithPullDown
	default:
		return gpiocdev.WithBiasAsIs
	}
}

func (p *cdevPin) Name() string { return p.name }

func (p *cdevPin) Configure(pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pull == p.pull {
		return nil
	}
	if err := p.line.Reconfigure(biasOption(pull)); err != nil {
		return fmt.Errorf("gpio: pin %s: set pull %s: %w", p.name, pull, err)
	}
	p.pull = pull
	return nil
}

func (p *cdevPin) Read() (bool, error) {
	v, err := p.line.Value()
	if err != nil {
		return false, fmt.Errorf("gpio: pin %s: %w", p.name, err)
	}
	return v != 0, nil
}

func (p *cdevPin) Close() error {
	return p.line.Close()
}
