package core

import (
	"context"
	"time"
)

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

const maxContentionBackoff = time.Second

// contentionBackoff is how long the periodic loop waits after finding a
// domain busy with another update.
func contentionBackoff(refresh time.Duration) time.Duration {
	if refresh > 0 && refresh < maxContentionBackoff {
		return refresh
	}
	return maxContentionBackoff
}
