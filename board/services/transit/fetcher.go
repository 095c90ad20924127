package transit

import (
	"context"
	"sort"
	"time"

	"transitboard/kernel"
)

const (
	DefaultInterval   = 30 * time.Second
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRecords = 16
)

// Fetcher polls a Source and publishes Snapshots through its Poller.
//
// Fetch failures never reach readers: the current snapshot stays in place
// until StaleAfter has passed without a successful poll, after which an
// invalid copy is published once.
type Fetcher struct {
	kernel.Poller[Snapshot]

	Source     Source
	MaxRecords int
}

// Run polls immediately and then every Interval until ctx is done.
func (f *Fetcher) Run(ctx context.Context) error {
	return f.Poller.Run(ctx, f.fetch)
}

// Poll performs one fetch attempt and publishes the outcome. The returned
// error is informational; Run ignores it.
func (f *Fetcher) Poll(ctx context.Context) error {
	return f.Attempt(ctx, f.fetch)
}

func (f *Fetcher) fetch(ctx context.Context) (Snapshot, error) {
	arrivals, err := f.Source.Fetch(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].Departure().Before(arrivals[j].Departure())
	})
	if limit := f.maxRecords(); len(arrivals) > limit {
		arrivals = arrivals[:limit:limit]
	}
	return Snapshot{Arrivals: arrivals}, nil
}

func (f *Fetcher) maxRecords() int {
	if f.MaxRecords > 0 {
		return f.MaxRecords
	}
	return DefaultMaxRecords
}
