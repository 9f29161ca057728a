package core

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/event"
)

// NotifyScheduler refreshes every domain at once whenever a notification arrives.
type NotifyScheduler struct {
	arena         Arena
	notifications <-chan event.Notification
	observer      Observer
	logger        zerolog.Logger
}

func NewNotifyScheduler(arena Arena, notifications <-chan event.Notification, observer Observer, logger zerolog.Logger) *NotifyScheduler {
	return &NotifyScheduler{
		arena:         arena,
		notifications: notifications,
		observer:      observer,
		logger:        logger,
	}
}

// Run handles notifications until ctx is done or the stream is closed.
func (ns *NotifyScheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			ns.logger.Debug().Msg("Notification scheduler stopped")
			return nil
		case n, ok := <-ns.notifications:
			if !ok {
				ns.logger.Info().Msg("Notification stream closed")
				return nil
			}
			if n.Missed > 0 {
				ns.logger.Warn().Int("missed", n.Missed).Msg("Fell behind on notifications, refreshing once for all of them")
			}
			ns.logger.Info().Str("kind", string(n.Kind)).Msg("Refreshing all domains")
			ns.trigger(ctx)
		}
	}
}

// trigger makes one attempt per domain and waits for all of them.
func (ns *NotifyScheduler) trigger(ctx context.Context) {
	g := new(errgroup.Group)
	for _, h := range ns.arena {
		g.Go(func() error {
			u, ok := h.TryAcquire()
			if !ok {
				ns.observer.Busy(h.Nickname(), TriggerNotify)
				return nil
			}
			defer h.Release()
			attempt(ctx, u, TriggerNotify, ns.observer)
			return nil
		})
	}
	_ = g.Wait()
}
