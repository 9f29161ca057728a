package core

import (
	"context"
	"sync"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
)

// Handle guards one Updater. Schedulers only ever TryAcquire it, so a busy
// domain is skipped rather than waited on.
type Handle struct {
	mu      sync.Mutex
	updater *Updater
}

func NewHandle(u *Updater) *Handle {
	return &Handle{updater: u}
}

func (h *Handle) Nickname() string { return h.updater.Nickname() }

// TryAcquire returns the Updater if no one else holds it. A successful call
// must be paired with Release.
func (h *Handle) TryAcquire() (*Updater, bool) {
	if !h.mu.TryLock() {
		return nil, false
	}
	return h.updater, true
}

func (h *Handle) Release() {
	h.mu.Unlock()
}

// Init holds the handle for the whole initialization and returns the
// fetched record.
func (h *Handle) Init(ctx context.Context) (domain.RecordDetails, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.updater.Init(ctx); err != nil {
		return domain.RecordDetails{}, err
	}
	rec, _ := h.updater.Details()
	return rec, nil
}

// Arena is the fixed set of handles built at startup.
type Arena []*Handle

func NewArena(updaters ...*Updater) Arena {
	arena := make(Arena, 0, len(updaters))
	for _, u := range updaters {
		arena = append(arena, NewHandle(u))
	}
	return arena
}
