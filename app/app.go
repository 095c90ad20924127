package app

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"transitboard/board/fonts/frf"
	"transitboard/board/pages"
	"transitboard/board/services/input"
	"transitboard/board/services/transit"
	"transitboard/board/services/weather"
	"transitboard/hal"
	"transitboard/internal/buildinfo"
	"transitboard/internal/config"
	"transitboard/kernel"
)

// Board is the wired system: the fetch loops, the input monitor and the
// frame loop, connected only through the Latest cells and the event mailbox.
// Fetchers are nil when no page needs their data.
type Board struct {
	Scheduler *Scheduler
	Monitor   *input.Monitor
	Transit   *transit.Fetcher
	Weather   *weather.Fetcher

	TransitData *kernel.Latest[transit.Snapshot]
	WeatherData *kernel.Latest[weather.Reading]
	Events      *kernel.Mailbox[input.ButtonEvent]

	log *slog.Logger
}

// New builds the board for h from a validated configuration.
func New(h hal.HAL, cfg *config.Config, font *frf.Font, logger *slog.Logger) (*Board, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Board{
		TransitData: &kernel.Latest[transit.Snapshot]{},
		WeatherData: &kernel.Latest[weather.Reading]{},
		Events:      &kernel.Mailbox[input.ButtonEvent]{},
		log:         logger,
	}
	client := &http.Client{}

	kinds, err := cfg.PageKinds()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	unit, err := weather.ParseUnit(cfg.Weather.Units)
	if err != nil {
		return nil, err
	}

	list := make([]pages.Page, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case pages.KindClock:
			clock := &pages.Clock{
				Font:     font,
				Location: loc,
				Layout:   cfg.Clock.Format[0],
				Color:    cfg.Clock.Color.RGBA(),
				Offset:   cfg.Clock.Position.Point(),
			}
			if len(cfg.Clock.Format) > 1 {
				clock.BlinkLayout = cfg.Clock.Format[1]
			}
			list = append(list, clock)

		case pages.KindTransit:
			if b.Transit == nil {
				b.Transit = &transit.Fetcher{
					Poller: kernel.Poller[transit.Snapshot]{
						Out:        b.TransitData,
						Interval:   cfg.Transit.Interval.D(),
						Timeout:    cfg.Transit.Timeout.D(),
						StaleAfter: cfg.Transit.StaleAfter.D(),
						Logger:     logger.With("svc", "transit"),
					},
					Source: &transit.NexTrip{
						BaseURL:   cfg.Transit.API,
						Stops:     cfg.Stops(),
						Client:    client,
						UserAgent: buildinfo.UserAgent(),
					},
					MaxRecords: cfg.Transit.MaxRecords,
				}
			}
			list = append(list, &pages.Transit{
				Font:        font,
				Data:        b.TransitData,
				StaleAfter:  b.Transit.StaleThreshold(),
				RowHeight:   cfg.Transit.RowHeight,
				Placeholder: cfg.Transit.Placeholder,
				Color:       cfg.Transit.Color.RGBA(),
				Offset:      cfg.Transit.Position.Point(),
			})

		case pages.KindWeather:
			if b.Weather == nil {
				b.Weather = &weather.Fetcher{
					Poller: kernel.Poller[weather.Reading]{
						Out:        b.WeatherData,
						Interval:   cfg.Weather.Interval.D(),
						Timeout:    cfg.Weather.Timeout.D(),
						StaleAfter: cfg.Weather.StaleAfter.D(),
						Logger:     logger.With("svc", "weather"),
					},
					Source: &weather.NWS{
						URL:       cfg.Weather.URL,
						Station:   cfg.Weather.Station,
						Client:    client,
						UserAgent: buildinfo.UserAgent(),
					},
				}
			}
			list = append(list, &pages.Weather{
				Font:        font,
				Data:        b.WeatherData,
				Unit:        unit,
				StaleAfter:  b.Weather.StaleThreshold(),
				Placeholder: cfg.Weather.Placeholder,
				Color:       cfg.Weather.Color.RGBA(),
				Offset:      cfg.Weather.Position.Point(),
			})
		}
	}

	b.Monitor = &input.Monitor{
		Pin:       h.Button(),
		Pull:      cfg.ButtonPull(),
		ActiveLow: cfg.Button.ActiveLow,
		Sample:    cfg.Button.Sample.D(),
		Window:    cfg.Button.Debounce.D(),
		Out:       b.Events,
		Logger:    logger.With("svc", "input"),
	}

	b.Scheduler, err = NewScheduler(SchedulerConfig{
		Panel:   h.Panel(),
		Pages:   list,
		Initial: cfg.DefaultPage,
		FPS:     cfg.Panel.FPS,
		Events:  b.Events,
		Font:    font,
		Logger:  logger.With("svc", "scheduler"),
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Run runs every loop until ctx is done. Fetch, input and sink failures are
// absorbed by the loops; only cancellation ends it.
func (b *Board) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if b.Transit != nil {
		g.Go(func() error { return b.Transit.Run(ctx) })
	}
	if b.Weather != nil {
		g.Go(func() error { return b.Weather.Run(ctx) })
	}
	g.Go(func() error { return b.Monitor.Run(ctx) })
	g.Go(func() error { return b.Scheduler.Run(ctx) })

	b.log.Info("board: started", "version", buildinfo.Short(),
		"transit", b.Transit != nil, "weather", b.Weather != nil, "button", b.Monitor.Pin.Name())
	err := g.Wait()
	b.log.Info("board: stopped", "frames", b.Scheduler.Frames(), "dropped", b.Scheduler.SinkErrors())
	return err
}

// Run wires and runs the board on h.
func Run(ctx context.Context, h hal.HAL, cfg *config.Config, font *frf.Font, logger *slog.Logger) error {
	b, err := New(h, cfg, font, logger)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}
