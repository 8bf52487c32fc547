package service

import (
	"context"
	"time"
)

// simulateDelay blocks for the configured stand-in processing time, bailing
// out early if the request context is cancelled.
func simulateDelay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
