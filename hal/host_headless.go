package hal

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Width  int
	Height int
	Button ButtonConfig

	// SnapshotPath, if set, receives the last presented frame as PNG on exit.
	SnapshotPath string
}

// HeadlessPanel keeps a copy of the last presented frame.
type HeadlessPanel struct {
	mu     sync.Mutex
	frame  *PixelBuffer
	frames uint64
}

func NewHeadlessPanel(width, height int) *HeadlessPanel {
	return &HeadlessPanel{frame: NewPixelBuffer(width, height)}
}

func (p *HeadlessPanel) Width() int  { return p.frame.Width() }
func (p *HeadlessPanel) Height() int { return p.frame.Height() }

func (p *HeadlessPanel) Present(buf *PixelBuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !buf.CopyTo(p.frame) {
		return fmt.Errorf("headless: frame %dx%d does not match panel %dx%d",
			buf.Width(), buf.Height(), p.frame.Width(), p.frame.Height())
	}
	p.frames++
	return nil
}

// Frames returns the number of frames presented so far.
func (p *HeadlessPanel) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Snapshot returns a copy of the last presented frame.
func (p *HeadlessPanel) Snapshot() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame.RGBA()
}

func (p *HeadlessPanel) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("headless: create %q: %w", path, err)
	}
	if err := png.Encode(f, p.Snapshot()); err != nil {
		_ = f.Close()
		return fmt.Errorf("headless: encode %q: %w", path, err)
	}
	return f.Close()
}

// RunHeadless runs the board without opening a window. It returns when run
// returns.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, run func(context.Context, HAL) error) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid headless panel size: %dx%d", cfg.Width, cfg.Height)
	}

	panel := NewHeadlessPanel(cfg.Width, cfg.Height)
	button, err := newButton(cfg.Button, nil)
	if err != nil {
		return err
	}

	err = run(ctx, &hostHAL{panel: panel, button: button})
	if cfg.SnapshotPath != "" {
		err = errors.Join(err, panel.WritePNG(cfg.SnapshotPath))
	}
	return errors.Join(err, closeButton(button))
}
