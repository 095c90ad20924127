package kernel

import (
	"context"
	"time"
)

// Every calls fn immediately and then once per interval until ctx is done.
// A slow fn delays the next call instead of queueing extra ones.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	if interval <= 0 {
		interval = time.Second
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	fn(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fn(ctx)
		}
	}
}
