package weather

import (
	"context"
	"time"

	"transitboard/kernel"
)

const (
	DefaultInterval = time.Hour
	DefaultTimeout  = 10 * time.Second
)

// Fetcher polls a Source and publishes Readings through its Poller. A failed
// poll keeps the last reading until StaleAfter has passed since the last
// success.
type Fetcher struct {
	kernel.Poller[Reading]

	Source Source
}

// Run polls immediately and then every Interval until ctx is done.
func (f *Fetcher) Run(ctx context.Context) error {
	return f.Poller.Run(ctx, f.Source.Fetch)
}

// Poll performs one fetch attempt.
func (f *Fetcher) Poll(ctx context.Context) error {
	return f.Attempt(ctx, f.Source.Fetch)
}
