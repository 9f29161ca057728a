package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/config"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/core"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/event"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/ipsource"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/metrics"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/registry"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/state"
)

type App struct {
	engine       *core.SyncEngine
	relay        *event.Relay
	generators   []event.Generator
	statusServer *http.Server
	domains      int
	logger       zerolog.Logger
}

// New creates a new App by wiring up all dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	domains, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	// Cloudflare client
	httpClient, err := registry.NewHTTPClient(&cfg.Cloudflare, cfg.GlobalBindAddress())
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudflare http client: %w", err)
	}
	reg := registry.NewCloudflareRegistry(httpClient, &cfg.Cloudflare, logger)

	// Updaters
	nicknames := make([]string, 0, len(domains))
	updaters := make([]*core.Updater, 0, len(domains))
	for _, d := range domains {
		spec := d.IPSource
		spec.Timeout = cfg.Cloudflare.TimeoutDuration()
		src, err := ipsource.New(spec)
		if err != nil {
			return nil, fmt.Errorf("domain %s: %w", d.Nickname, err)
		}
		bind := "any"
		if d.BindAddress.IsValid() {
			bind = d.BindAddress.String()
		}
		logger.Info().
			Str("domain", d.Nickname).
			Str("bind_address", bind).
			Str("ip_source", src.Describe()).
			Dur("refresh_interval", d.RefreshInterval).
			Dur("retry_interval", d.RetryInterval).
			Msg("Configured domain")

		updaters = append(updaters, core.NewUpdater(core.UpdaterConfig{
			Nickname:        d.Nickname,
			BindAddress:     d.BindAddress,
			RefreshInterval: d.RefreshInterval,
			RetryInterval:   d.RetryInterval,
			Record:          registry.RecordRef{ZoneID: d.ZoneID, RecordID: d.RecordID, Token: d.Token},
		}, src, reg, logger))
		nicknames = append(nicknames, d.Nickname)
	}

	// Status and metrics
	memState := state.NewMemoryState(nicknames...)
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(promReg)
	for _, n := range nicknames {
		collector.Register(n)
	}

	var statusServer *http.Server
	if cfg.Status.Listen != "" {
		statusServer = metrics.NewServer(cfg.Status.Listen, metrics.NewRouter(promReg, memState))
	}

	// Notifications
	var generators []event.Generator
	if cfg.Notify.Resume {
		generators = append(generators, event.NewLogindGenerator(logger))
	}
	if cfg.Notify.SIGUSR1 {
		generators = append(generators, event.NewRefreshSignalGenerator(logger))
	}
	var relay *event.Relay
	var notifications <-chan event.Notification
	if len(generators) > 0 {
		relay = event.NewRelay(event.DefaultRelayCapacity, logger)
		notifications = relay.C()
	}

	engine := core.NewSyncEngine(logger, core.NewArena(updaters...), notifications, core.Observers{memState, collector})

	return &App{
		engine:       engine,
		relay:        relay,
		generators:   generators,
		statusServer: statusServer,
		domains:      len(domains),
		logger:       logger,
	}, nil
}

// SingleDomain reports whether exactly one domain is configured, in which
// case one OS thread is enough to run the process.
func (a *App) SingleDomain() bool {
	return a.domains == 1
}

// Run starts the application by running the sync engine. It returns nil once
// ctx is cancelled and everything has stopped.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().Msg("Application starting")

	g, gctx := errgroup.WithContext(ctx)
	if a.relay != nil {
		a.relay.Attach(gctx, a.generators...)
	}
	if a.statusServer != nil {
		g.Go(func() error {
			if err := metrics.Serve(gctx, a.statusServer, a.logger); err != nil {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		if err := a.engine.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	err := g.Wait()
	a.logger.Info().Msg("Application stopped")
	return err
}
