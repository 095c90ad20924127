//go:build !cgo

package hal

import (
	"context"
	"errors"
)

// WindowConfig controls the desktop window panel.
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	Button ButtonConfig
}

func RunWindow(_ context.Context, _ WindowConfig, _ func(context.Context, HAL) error) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1); use --headless")
}
