package core

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/cloudflare/cloudflare-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/registry"
)

func newTestUpdater(src *fakeSource, reg *fakeRegistry) *Updater {
	return NewUpdater(UpdaterConfig{
		Nickname:        "home",
		BindAddress:     netip.MustParseAddr("192.0.2.10"),
		RefreshInterval: time.Hour,
		RetryInterval:   5 * time.Millisecond,
		Record:          registry.RecordRef{ZoneID: "z", RecordID: "r", Token: "t"},
	}, src, reg, zerolog.Nop())
}

func readyUpdater(t *testing.T, src *fakeSource, reg *fakeRegistry) *Updater {
	t.Helper()
	reg.record = cachedRecord
	u := newTestUpdater(src, reg)
	require.NoError(t, u.Init(context.Background()))
	return u
}

func TestUpdateBeforeInit(t *testing.T) {
	src := &fakeSource{addr: addrA}
	u := newTestUpdater(src, &fakeRegistry{})

	_, err := u.Update(context.Background())
	require.ErrorIs(t, err, ErrUninitialized)
	assert.Zero(t, src.callCount())
}

func TestUpdateIdempotent(t *testing.T) {
	src := &fakeSource{addr: addrA}
	reg := &fakeRegistry{}
	u := readyUpdater(t, src, reg)

	outcome, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.Equal(t, addrA, outcome.New)
	assert.Empty(t, reg.updates())
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("192.0.2.10")}, src.binds)
}

func TestUpdateConverges(t *testing.T) {
	src := &fakeSource{addr: addrB}
	reg := &fakeRegistry{}
	u := readyUpdater(t, src, reg)

	outcome, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Changed(addrA, addrB), outcome)

	updates := reg.updates()
	require.Len(t, updates, 1)
	assert.Equal(t, cachedRecord.WithContent(addrB), updates[0])

	details, ok := u.Details()
	require.True(t, ok)
	assert.Equal(t, addrB, details.Content)

	outcome, err = u.Update(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.Len(t, reg.updates(), 1)
}

func TestUpdateKeepsCacheOnAPIFailure(t *testing.T) {
	src := &fakeSource{addr: addrB}
	reg := &fakeRegistry{}
	u := readyUpdater(t, src, reg)
	reg.updateErr = registry.NewAPIError("update", 403, []cloudflare.ResponseInfo{{Code: 9109, Message: "Invalid access"}})

	_, err := u.Update(context.Background())
	var apiErr *registry.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "9109")
	assert.Contains(t, err.Error(), "Invalid access")

	details, _ := u.Details()
	assert.Equal(t, cachedRecord, details)

	// The next attempt repeats the same comparison and write.
	reg.updateErr = nil
	outcome, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Len(t, reg.updates(), 2)
}

func TestUpdateRejectsAddressOfOtherFamily(t *testing.T) {
	src := &fakeSource{addr: netip.MustParseAddr("2001:db8::5")}
	reg := &fakeRegistry{}
	u := readyUpdater(t, src, reg)

	_, err := u.Update(context.Background())
	var famErr *AddressFamilyError
	require.ErrorAs(t, err, &famErr)
	assert.Equal(t, domain.RecordA, famErr.Record)
	assert.Empty(t, reg.updates())

	details, _ := u.Details()
	assert.Equal(t, cachedRecord, details)

	// An IPv4-mapped address still fits an A record.
	src.set(netip.MustParseAddr("::ffff:198.51.100.2"), nil)
	outcome, err := u.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Changed(addrA, addrB), outcome)
}

func TestUpdateSourceFailure(t *testing.T) {
	src := &fakeSource{err: errBoom}
	reg := &fakeRegistry{}
	u := readyUpdater(t, src, reg)

	_, err := u.Update(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, reg.updates())
}

func TestInitRetriesUntilSuccess(t *testing.T) {
	const failures = 3
	reg := &fakeRegistry{record: cachedRecord, fetchErrs: []error{errBoom, errBoom, errBoom}}
	src := &fakeSource{addr: addrA}
	u := newTestUpdater(src, reg)

	require.NoError(t, u.Init(context.Background()))
	assert.Equal(t, failures+1, reg.fetches())
	assert.Zero(t, src.callCount())

	for i := 1; i < len(reg.fetchTimes); i++ {
		assert.GreaterOrEqual(t, reg.fetchTimes[i].Sub(reg.fetchTimes[i-1]), u.RetryInterval())
	}
	details, ok := u.Details()
	require.True(t, ok)
	assert.Equal(t, cachedRecord, details)
}

func TestInitCancelled(t *testing.T) {
	reg := &fakeRegistry{}
	for i := 0; i < 1000; i++ {
		reg.fetchErrs = append(reg.fetchErrs, errBoom)
	}
	u := NewUpdater(UpdaterConfig{Nickname: "home", RetryInterval: time.Hour}, &fakeSource{}, reg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- u.Init(ctx) }()

	require.Eventually(t, func() bool { return reg.fetches() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Init did not observe cancellation")
	}
	_, ok := u.Details()
	assert.False(t, ok)
}

func TestHandleMutualExclusion(t *testing.T) {
	h := NewHandle(newTestUpdater(&fakeSource{}, &fakeRegistry{}))

	u1, ok1 := h.TryAcquire()
	u2, ok2 := h.TryAcquire()
	assert.True(t, ok1)
	assert.NotNil(t, u1)
	assert.False(t, ok2)
	assert.Nil(t, u2)

	h.Release()
	_, ok3 := h.TryAcquire()
	assert.True(t, ok3)
	h.Release()
}

func TestHandleConcurrentAcquire(t *testing.T) {
	h := NewHandle(newTestUpdater(&fakeSource{}, &fakeRegistry{}))

	start := make(chan struct{})
	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			_, ok := h.TryAcquire()
			results <- ok
		}()
	}
	close(start)

	got := []bool{<-results, <-results}
	assert.ElementsMatch(t, []bool{true, false}, got)
}

func TestContentionBackoff(t *testing.T) {
	assert.Equal(t, time.Second, contentionBackoff(time.Hour))
	assert.Equal(t, 200*time.Millisecond, contentionBackoff(200*time.Millisecond))
	assert.Equal(t, time.Second, contentionBackoff(0))
}
