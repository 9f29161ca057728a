package core

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LoopingScheduler drives every domain on its own timer.
type LoopingScheduler struct {
	arena    Arena
	observer Observer
	logger   zerolog.Logger
}

func NewLoopingScheduler(arena Arena, observer Observer, logger zerolog.Logger) *LoopingScheduler {
	return &LoopingScheduler{arena: arena, observer: observer, logger: logger}
}

// Run starts one loop per domain and returns once all of them have observed
// cancellation.
func (ls *LoopingScheduler) Run(ctx context.Context) error {
	g := new(errgroup.Group)
	for _, h := range ls.arena {
		g.Go(func() error {
			ls.loop(ctx, h)
			return nil
		})
	}
	return g.Wait()
}

func (ls *LoopingScheduler) loop(ctx context.Context, h *Handle) {
	logger := ls.logger.With().Str("domain", h.Nickname()).Logger()
	for {
		if ctx.Err() != nil {
			logger.Debug().Msg("Periodic updates stopped")
			return
		}

		u, ok := h.TryAcquire()
		if !ok {
			// Another update for this domain is in flight; look again shortly.
			backoff := contentionBackoff(h.updater.RefreshInterval())
			logger.Debug().Dur("backoff", backoff).Msg("Domain busy, skipping periodic update")
			ls.observer.Busy(h.Nickname(), TriggerTimer)
			if err := sleep(ctx, backoff); err != nil {
				logger.Debug().Msg("Periodic updates stopped")
				return
			}
			continue
		}

		wait := attempt(ctx, u, TriggerTimer, ls.observer)
		h.Release()

		if err := sleep(ctx, wait); err != nil {
			logger.Debug().Msg("Periodic updates stopped")
			return
		}
	}
}
