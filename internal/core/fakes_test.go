package core

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/registry"
)

type fakeSource struct {
	mu    sync.Mutex
	addr  netip.Addr
	err   error
	calls int
	binds []netip.Addr
	// block, when set, holds every lookup until it is closed.
	block chan struct{}
}

func (f *fakeSource) set(addr netip.Addr, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addr, f.err = addr, err
}

func (f *fakeSource) IP(ctx context.Context, bind netip.Addr) (netip.Addr, error) {
	f.mu.Lock()
	f.calls++
	f.binds = append(f.binds, bind)
	addr, err, block := f.addr, f.err, f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return netip.Addr{}, ctx.Err()
		}
	}
	return addr, err
}

func (f *fakeSource) Describe() string { return "fake" }

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRegistry struct {
	mu          sync.Mutex
	record      domain.RecordDetails
	fetchErrs   []error
	fetchCalls  int
	fetchTimes  []time.Time
	updateErr   error
	updateCalls []domain.RecordDetails
}

func (f *fakeRegistry) Fetch(ctx context.Context, ref registry.RecordRef) (domain.RecordDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	f.fetchTimes = append(f.fetchTimes, time.Now())
	if len(f.fetchErrs) > 0 {
		err := f.fetchErrs[0]
		f.fetchErrs = f.fetchErrs[1:]
		return domain.RecordDetails{}, err
	}
	return f.record, nil
}

func (f *fakeRegistry) Update(ctx context.Context, ref registry.RecordRef, rec domain.RecordDetails) (domain.RecordDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, rec)
	if f.updateErr != nil {
		return domain.RecordDetails{}, f.updateErr
	}
	f.record = rec
	return rec, nil
}

func (f *fakeRegistry) updates() []domain.RecordDetails {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.RecordDetails(nil), f.updateCalls...)
}

func (f *fakeRegistry) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

type observed struct {
	nickname string
	trigger  Trigger
	outcome  domain.Outcome
	err      error
}

type recordingObserver struct {
	mu          sync.Mutex
	initialized []string
	updated     []observed
	failed      []observed
	busy        []observed
}

func (r *recordingObserver) Initialized(nickname string, _ domain.RecordDetails) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = append(r.initialized, nickname)
}

func (r *recordingObserver) Updated(nickname string, trigger Trigger, outcome domain.Outcome, _ domain.RecordDetails, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, observed{nickname: nickname, trigger: trigger, outcome: outcome})
}

func (r *recordingObserver) Failed(nickname string, trigger Trigger, err error, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, observed{nickname: nickname, trigger: trigger, err: err})
}

func (r *recordingObserver) Busy(nickname string, trigger Trigger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy = append(r.busy, observed{nickname: nickname, trigger: trigger})
}

func (r *recordingObserver) counts() (updated, failed, busy int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updated), len(r.failed), len(r.busy)
}

var (
	addrA = netip.MustParseAddr("198.51.100.1")
	addrB = netip.MustParseAddr("198.51.100.2")

	cachedRecord = domain.RecordDetails{
		Type:    domain.RecordA,
		Name:    "home.example.com",
		Content: addrA,
		TTL:     120,
		Proxied: true,
	}

	errBoom = errors.New("boom")
)
