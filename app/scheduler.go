package app

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"sync/atomic"
	"time"

	"transitboard/board/fonts/frf"
	"transitboard/board/pages"
	"transitboard/board/services/input"
	"transitboard/hal"
	"transitboard/kernel"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 30

// SchedulerConfig wires a Scheduler.
type SchedulerConfig struct {
	Panel   hal.Panel
	Pages   []pages.Page
	Initial int
	FPS     int
	Events  *kernel.Mailbox[input.ButtonEvent]

	// Font draws the banner shown when a page panics.
	Font   *frf.Font
	Logger *slog.Logger
	Now    func() time.Time
}

// Scheduler owns the frame loop. It is the only writer of the page index and
// the pixel buffer, and the only consumer of button events.
type Scheduler struct {
	panel  hal.Panel
	pages  []pages.Page
	events *kernel.Mailbox[input.ButtonEvent]
	font   *frf.Font
	log    *slog.Logger
	now    func() time.Time
	frame  time.Duration

	buf       *hal.PixelBuffer
	index     atomic.Int32
	lastFrame time.Time

	frames      uint64
	sinkErrors  uint64
	sinkFailing bool
	pagePanics  uint64
	pageFailing bool
}

func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Panel == nil {
		return nil, fmt.Errorf("scheduler: no panel")
	}
	if len(cfg.Pages) == 0 {
		return nil, fmt.Errorf("scheduler: no pages")
	}
	if cfg.Initial < 0 || cfg.Initial >= len(cfg.Pages) {
		return nil, fmt.Errorf("scheduler: initial page %d out of range 0..%d", cfg.Initial, len(cfg.Pages)-1)
	}
	if cfg.Panel.Width() <= 0 || cfg.Panel.Height() <= 0 {
		return nil, fmt.Errorf("scheduler: invalid panel size %dx%d", cfg.Panel.Width(), cfg.Panel.Height())
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	events := cfg.Events
	if events == nil {
		events = &kernel.Mailbox[input.ButtonEvent]{}
	}
	s := &Scheduler{
		panel:  cfg.Panel,
		pages:  cfg.Pages,
		events: events,
		font:   cfg.Font,
		log:    log,
		now:    now,
		frame:  time.Second / time.Duration(fps),
		buf:    hal.NewPixelBuffer(cfg.Panel.Width(), cfg.Panel.Height()),
	}
	s.index.Store(int32(cfg.Initial))
	return s, nil
}

// Index returns the current page index. It may be called from any
// goroutine.
func (s *Scheduler) Index() int { return int(s.index.Load()) }

// Page returns the current page.
func (s *Scheduler) Page() pages.Page { return s.pages[s.Index()] }

// Advance moves to the next page, wrapping after the last one. Only the
// frame loop may call it while Run is active.
func (s *Scheduler) Advance() int {
	next := (s.Index() + 1) % len(s.pages)
	s.index.Store(int32(next))
	return next
}

// LastFrame returns the time passed to the latest Step.
func (s *Scheduler) LastFrame() time.Time { return s.lastFrame }

// Frames returns the number of frames composed.
func (s *Scheduler) Frames() uint64 { return s.frames }

// SinkErrors returns the number of frames the panel rejected.
func (s *Scheduler) SinkErrors() uint64 { return s.sinkErrors }

// Step composes and presents one frame at now. Every queued button press
// advances the page first. The returned error is the panel's, already logged.
func (s *Scheduler) Step(now time.Time) error {
	if n := s.events.Drain(func(input.ButtonEvent) { s.Advance() }); n > 0 {
		s.log.Debug("scheduler: page advanced", "presses", n, "page", s.Page().Name(), "index", s.Index())
	}

	s.buf.Clear(color.RGBA{})
	s.render(s.Page(), now)
	s.frames++
	s.lastFrame = now

	err := s.panel.Present(s.buf)
	if err != nil {
		s.sinkErrors++
		if !s.sinkFailing {
			s.log.Warn("scheduler: panel present failed", "err", err)
			s.sinkFailing = true
		}
		return err
	}
	if s.sinkFailing {
		s.log.Info("scheduler: panel recovered", "dropped_frames", s.sinkErrors)
		s.sinkFailing = false
	}
	return nil
}

// Run steps at the configured frame rate until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler: running", "pages", len(s.pages), "page", s.Page().Name(), "frame", s.frame)

	t := time.NewTicker(s.frame)
	defer t.Stop()
	for {
		if ctx.Err() != nil {
			return nil
		}
		_ = s.Step(s.now())

		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}
