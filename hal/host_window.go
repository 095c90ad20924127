//go:build cgo

package hal

import (
	"context"
	"errors"
	"image"
	"sync"

	"transitboard/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window panel.
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	Button ButtonConfig
}

// RunWindow opens a desktop window that shows every presented frame. Space or
// Enter drive the key button pin. It must be called from the main goroutine
// and blocks until the window closes, ctx is done or run returns.
func RunWindow(ctx context.Context, cfg WindowConfig, run func(context.Context, HAL) error) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("window: invalid panel size")
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 8
	}

	panel := newWindowPanel(cfg.Width, cfg.Height)
	key := NewVirtualPin("KEY")
	button, err := newButton(cfg.Button, key)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- run(runCtx, &hostHAL{panel: panel, button: button})
	}()

	g := &hostGame{ctx: runCtx, panel: panel, key: key, done: done}
	ebiten.SetWindowTitle("transitboard (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetTPS(60)
	winErr := ebiten.RunGame(g)

	cancel()
	runErr := g.runErr
	if !g.finished {
		runErr = <-done
	}
	if errors.Is(runErr, context.Canceled) && ctx.Err() == nil {
		// Window closed by the user.
		runErr = nil
	}
	return errors.Join(winErr, runErr, closeButton(button))
}

type windowPanel struct {
	mu    sync.Mutex
	frame *PixelBuffer
}

func newWindowPanel(width, height int) *windowPanel {
	return &windowPanel{frame: NewPixelBuffer(width, height)}
}

func (p *windowPanel) Width() int  { return p.frame.Width() }
func (p *windowPanel) Height() int { return p.frame.Height() }

func (p *windowPanel) Present(buf *PixelBuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !buf.CopyTo(p.frame) {
		return errors.New("window: frame size does not match panel")
	}
	return nil
}

func (p *windowPanel) snapshotRGBA(dst []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame.writeRGBA(dst)
}

type hostGame struct {
	ctx   context.Context
	panel *windowPanel
	key   *VirtualPin
	done  <-chan error

	runErr   error
	finished bool

	img   *image.RGBA
	fbImg *ebiten.Image
}

func (g *hostGame) Update() error {
	g.key.Set(ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyEnter))

	select {
	case err := <-g.done:
		g.runErr = err
		g.finished = true
		return ebiten.Termination
	default:
	}
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	w, h := g.panel.Width(), g.panel.Height()
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.fbImg = ebiten.NewImage(w, h)
	}

	g.panel.snapshotRGBA(g.img.Pix)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.panel.Width(), g.panel.Height()
}
