package core

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/rs/zerolog"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/registry"
)

// UpdaterConfig is everything an Updater needs to know about its domain.
type UpdaterConfig struct {
	Nickname        string
	BindAddress     netip.Addr
	RefreshInterval time.Duration
	RetryInterval   time.Duration
	Record          registry.RecordRef
}

// Updater keeps one DNS record pointed at the host's current address.
//
// It starts uninitialized; Init fetches the record once and only then does
// Update become usable. An Updater is not safe for concurrent use; the Handle
// that owns it serializes access.
type Updater struct {
	cfg      UpdaterConfig
	source   addressSource
	registry registry.Registry
	logger   zerolog.Logger
	details  *domain.RecordDetails
}

func NewUpdater(cfg UpdaterConfig, source addressSource, reg registry.Registry, logger zerolog.Logger) *Updater {
	return &Updater{
		cfg:      cfg,
		source:   source,
		registry: reg,
		logger:   logger.With().Str("domain", cfg.Nickname).Logger(),
	}
}

func (u *Updater) Nickname() string { return u.cfg.Nickname }

func (u *Updater) RefreshInterval() time.Duration { return u.cfg.RefreshInterval }

func (u *Updater) RetryInterval() time.Duration { return u.cfg.RetryInterval }

// Details returns the cached record, or false before Init has completed.
func (u *Updater) Details() (domain.RecordDetails, bool) {
	if u.details == nil {
		return domain.RecordDetails{}, false
	}
	return *u.details, true
}

// Init fetches the record until it succeeds, waiting RetryInterval between
// attempts. The only error it returns is ctx.Err(), in which case the Updater
// stays uninitialized.
func (u *Updater) Init(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		rec, err := u.registry.Fetch(ctx, u.cfg.Record)
		if err == nil {
			u.details = &rec
			u.logger.Info().Int("attempt", attempt).Msgf("Initialized with record %s", rec.Render())
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u.logger.Error().Err(err).Int("attempt", attempt).Msgf("Failed to fetch DNS record, retrying in %s", u.cfg.RetryInterval)
		if err := sleep(ctx, u.cfg.RetryInterval); err != nil {
			return err
		}
	}
}

// Update looks up the current address and rewrites the record only when it
// differs from the cached content. The cache changes only after the remote
// write is confirmed.
func (u *Updater) Update(ctx context.Context) (domain.Outcome, error) {
	if u.details == nil {
		return domain.Outcome{}, ErrUninitialized
	}
	current := *u.details

	addr, err := u.source.IP(ctx, u.cfg.BindAddress)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("looking up address via %s: %w", u.source.Describe(), err)
	}
	addr = addr.Unmap()
	if addr == current.Content.Unmap() {
		return domain.Unchanged(addr), nil
	}
	if kind := domain.KindFor(addr); kind != current.Type {
		return domain.Outcome{}, NewAddressFamilyError(current.Type, addr)
	}

	rec, err := u.registry.Update(ctx, u.cfg.Record, current.WithContent(addr))
	if err != nil {
		return domain.Outcome{}, err
	}
	u.details = &rec
	return domain.Changed(current.Content, rec.Content), nil
}
