//go:build !linux

package hal

import "fmt"

// OpenGPIOPin is only available on Linux (GPIO character device).
func OpenGPIOPin(chip string, offset int) (GPIOPin, error) {
	return nil, fmt.Errorf("gpio: %s line %d: %w", chip, offset, ErrNotImplemented)
}
