package kernel

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultPollInterval = time.Minute
	DefaultPollTimeout  = 10 * time.Second
)

// Stamped is a value a Poller publishes. It knows when it was fetched and
// whether it is still valid.
type Stamped[T any] interface {
	// Fetched returns the fetch time and the validity flag.
	Fetched() (at time.Time, valid bool)
	// Stamp returns a valid copy fetched at now.
	Stamp(now time.Time) T
	// Expire returns an invalid copy.
	Expire() T
}

// Poller refreshes Out from a fetch function on a fixed interval.
//
// A failed attempt leaves the published value in place until StaleThreshold
// has passed since the last success; then an expired copy is published once.
// Attempt and Run must not be called concurrently.
type Poller[T Stamped[T]] struct {
	Out        *Latest[T]
	Interval   time.Duration
	Timeout    time.Duration
	StaleAfter time.Duration

	Logger *slog.Logger
	Now    func() time.Time

	lastSuccess time.Time
	failures    int
}

func (p *Poller[T]) interval() time.Duration {
	if p.Interval > 0 {
		return p.Interval
	}
	return DefaultPollInterval
}

// StaleThreshold returns StaleAfter, or three poll intervals when unset.
func (p *Poller[T]) StaleThreshold() time.Duration {
	if p.StaleAfter > 0 {
		return p.StaleAfter
	}
	return 3 * p.interval()
}

func (p *Poller[T]) timeout() time.Duration {
	t := p.Timeout
	if t <= 0 {
		t = DefaultPollTimeout
	}
	return min(t, p.interval())
}

func (p *Poller[T]) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Poller[T]) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Failures returns the length of the current failure streak.
func (p *Poller[T]) Failures() int { return p.failures }

// Attempt calls fetch once under the attempt timeout and publishes the result
// stamped with the completion time. The returned error is informational.
func (p *Poller[T]) Attempt(ctx context.Context, fetch func(context.Context) (T, error)) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	log := p.logger()
	v, err := fetch(ctx)
	now := p.now()
	if err != nil {
		p.failures++
		log.Warn("poll: fetch failed", "err", err, "failures", p.failures)
		p.expire(now)
		return err
	}

	if p.failures > 0 {
		log.Info("poll: source recovered", "after_failures", p.failures)
	}
	p.failures = 0
	p.lastSuccess = now
	stamped := v.Stamp(now)
	seq := p.Out.Store(&stamped)
	log.Debug("poll: published", "seq", seq)
	return nil
}

// Run attempts immediately and then every Interval until ctx is done. It
// returns nil on cancellation.
func (p *Poller[T]) Run(ctx context.Context, fetch func(context.Context) (T, error)) error {
	err := Every(ctx, p.interval(), func(ctx context.Context) {
		_ = p.Attempt(ctx, fetch)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (p *Poller[T]) expire(now time.Time) {
	cur := p.Out.Load()
	if cur == nil {
		return
	}
	fetchedAt, valid := (*cur).Fetched()
	if !valid {
		return
	}
	since := p.lastSuccess
	if since.IsZero() {
		since = fetchedAt
	}
	if now.Sub(since) < p.StaleThreshold() {
		return
	}
	stale := (*cur).Expire()
	p.Out.Store(&stale)
	p.logger().Warn("poll: value marked stale", "fetched_at", fetchedAt, "threshold", p.StaleThreshold())
}
