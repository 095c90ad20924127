package transit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitboard/kernel"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type scriptedSource struct {
	mu       sync.Mutex
	arrivals []Arrival
	err      error
	calls    int
}

func (s *scriptedSource) Fetch(ctx context.Context) ([]Arrival, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]Arrival(nil), s.arrivals...), nil
}

func (s *scriptedSource) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func arrivalAt(route string, minutes int) Arrival {
	return Arrival{Route: route, Scheduled: t0.Add(time.Duration(minutes) * time.Minute)}
}

func newTestFetcher(src Source, clock *fakeClock) (*Fetcher, *kernel.Latest[Snapshot]) {
	out := &kernel.Latest[Snapshot]{}
	return &Fetcher{
		Poller: kernel.Poller[Snapshot]{
			Out:      out,
			Interval: 30 * time.Second,
			Now:      clock.Now,
		},
		Source: src,
	}, out
}

func TestPollPublishesSortedTruncated(t *testing.T) {
	clock := &fakeClock{t: t0}
	src := &scriptedSource{arrivals: []Arrival{
		arrivalAt("B", 9),
		arrivalAt("A", 2),
		{Route: "D", Scheduled: t0.Add(1 * time.Minute), Delay: 4 * time.Minute},
		arrivalAt("C", 5),
	}}
	f, out := newTestFetcher(src, clock)
	f.MaxRecords = 3

	require.NoError(t, f.Poll(context.Background()))

	snap, seq := out.LoadSeq()
	require.NotNil(t, snap)
	assert.Equal(t, uint64(1), seq)
	assert.True(t, snap.Valid)
	assert.Equal(t, t0, snap.FetchedAt)

	var routes []string
	for _, a := range snap.Arrivals {
		routes = append(routes, a.Route)
	}
	assert.Equal(t, []string{"A", "D", "C"}, routes, "stable sort by departure, D departs at +5 like C")
}

func TestPollFailureKeepsSnapshotUntilStale(t *testing.T) {
	clock := &fakeClock{t: t0}
	src := &scriptedSource{arrivals: []Arrival{arrivalAt("A", 3)}}
	f, out := newTestFetcher(src, clock)
	require.Equal(t, 90*time.Second, f.StaleThreshold())

	require.NoError(t, f.Poll(context.Background()))
	first, seq := out.LoadSeq()

	src.fail(errors.New("connection refused"))

	clock.Advance(30 * time.Second)
	require.Error(t, f.Poll(context.Background()))
	got, gotSeq := out.LoadSeq()
	assert.Same(t, first, got, "one failure must not replace the snapshot")
	assert.Equal(t, seq, gotSeq)

	clock.Advance(59*time.Second + 999*time.Millisecond)
	require.Error(t, f.Poll(context.Background()))
	assert.Same(t, first, out.Load(), "just before the threshold the snapshot stays valid")

	clock.Advance(time.Millisecond)
	require.Error(t, f.Poll(context.Background()))
	stale, staleSeq := out.LoadSeq()
	assert.False(t, stale.Valid, "at exactly the threshold the snapshot is invalidated")
	assert.Equal(t, first.Arrivals, stale.Arrivals)
	assert.Equal(t, first.FetchedAt, stale.FetchedAt)
	assert.True(t, first.Valid, "published snapshots are never mutated")

	clock.Advance(30 * time.Second)
	require.Error(t, f.Poll(context.Background()))
	_, againSeq := out.LoadSeq()
	assert.Equal(t, staleSeq, againSeq, "an already invalid snapshot is not republished")

	src.fail(nil)
	require.NoError(t, f.Poll(context.Background()))
	assert.True(t, out.Load().Valid)
}

func TestPollFailureWithNothingPublished(t *testing.T) {
	clock := &fakeClock{t: t0}
	src := &scriptedSource{err: errors.New("dns")}
	f, out := newTestFetcher(src, clock)

	require.Error(t, f.Poll(context.Background()))
	clock.Advance(time.Hour)
	require.Error(t, f.Poll(context.Background()))
	assert.Nil(t, out.Load())
}

func TestPollTimeout(t *testing.T) {
	clock := &fakeClock{t: t0}
	src := SourceFunc(func(ctx context.Context) ([]Arrival, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	f, out := newTestFetcher(src, clock)
	f.Timeout = 20 * time.Millisecond

	start := time.Now()
	err := f.Poll(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Nil(t, out.Load())
}

func TestFreshAtBoundary(t *testing.T) {
	snap := &Snapshot{FetchedAt: t0, Valid: true}
	threshold := 90 * time.Second

	assert.True(t, snap.FreshAt(t0, threshold))
	assert.True(t, snap.FreshAt(t0.Add(threshold-time.Nanosecond), threshold))
	assert.False(t, snap.FreshAt(t0.Add(threshold), threshold))
	assert.False(t, snap.FreshAt(t0.Add(threshold+time.Second), threshold))

	assert.False(t, (&Snapshot{FetchedAt: t0}).FreshAt(t0, threshold))
	assert.False(t, (*Snapshot)(nil).FreshAt(t0, threshold))
	assert.True(t, snap.FreshAt(t0.Add(24*time.Hour), 0))
}

func TestRunStopsOnCancel(t *testing.T) {
	src := &scriptedSource{arrivals: []Arrival{arrivalAt("A", 1)}}
	out := &kernel.Latest[Snapshot]{}
	f := &Fetcher{Poller: kernel.Poller[Snapshot]{Out: out, Interval: 5 * time.Millisecond}, Source: src}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls >= 3
	}, 2*time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	assert.NotNil(t, out.Load())
}
