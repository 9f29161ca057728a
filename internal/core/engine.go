package core

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/event"
)

// SyncEngine initializes every domain and then runs both schedulers until
// the context is cancelled.
type SyncEngine struct {
	logger        zerolog.Logger
	arena         Arena
	notifications <-chan event.Notification
	observer      Observer
}

// NewSyncEngine builds an engine. A nil notification channel disables the
// notify scheduler.
func NewSyncEngine(logger zerolog.Logger, arena Arena, notifications <-chan event.Notification, observer Observer) *SyncEngine {
	if observer == nil {
		observer = Observers{}
	}
	return &SyncEngine{
		logger:        logger,
		arena:         arena,
		notifications: notifications,
		observer:      observer,
	}
}

// initialize brings every domain to the ready state concurrently. It fails
// only when ctx is cancelled first.
func (se *SyncEngine) initialize(ctx context.Context) error {
	g := new(errgroup.Group)
	for _, h := range se.arena {
		g.Go(func() error {
			rec, err := h.Init(ctx)
			if err != nil {
				return err
			}
			se.observer.Initialized(h.Nickname(), rec)
			return nil
		})
	}
	return g.Wait()
}

func (se *SyncEngine) Run(ctx context.Context) error {
	se.logger.Info().Int("domains", len(se.arena)).Msg("Starting SyncEngine")

	se.logger.Info().Msg("Fetching current DNS records")
	if err := se.initialize(ctx); err != nil {
		se.logger.Info().Msg("SyncEngine stopped before all domains were initialized")
		return err
	}

	g := new(errgroup.Group)
	se.logger.Info().Msg("Launching periodic update loops")
	looping := NewLoopingScheduler(se.arena, se.observer, se.logger)
	g.Go(func() error { return looping.Run(ctx) })

	if se.notifications != nil {
		se.logger.Info().Msg("Launching notification scheduler")
		notify := NewNotifyScheduler(se.arena, se.notifications, se.observer, se.logger)
		g.Go(func() error { return notify.Run(ctx) })
	}

	err := g.Wait()
	se.logger.Info().Msg("SyncEngine shutting down")
	if err != nil {
		return err
	}
	return ctx.Err()
}
