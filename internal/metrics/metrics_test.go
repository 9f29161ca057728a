package metrics

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/core"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/state"
)

var _ core.Observer = (*Collector)(nil)

var (
	oldAddr = netip.MustParseAddr("198.51.100.1")
	newAddr = netip.MustParseAddr("198.51.100.2")
	record  = domain.RecordDetails{Type: domain.RecordA, Name: "home.example.com", Content: oldAddr, TTL: 1}
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Register("home")
	assert.Equal(t, 0.0, testutil.ToFloat64(c.initialized.WithLabelValues("home")))
	c.Initialized("home", record)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.initialized.WithLabelValues("home")))

	c.Updated("home", core.TriggerTimer, domain.Unchanged(oldAddr), record, time.Time{})
	c.Updated("home", core.TriggerNotify, domain.Changed(oldAddr, newAddr), record.WithContent(newAddr), time.Time{})
	c.Failed("home", core.TriggerTimer, errors.New("boom"), time.Time{})
	c.Busy("home", core.TriggerNotify)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.attempts.WithLabelValues("home", "timer", "unchanged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.attempts.WithLabelValues("home", "notify", "changed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.attempts.WithLabelValues("home", "timer", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.busy.WithLabelValues("home", "notify")))
	assert.Greater(t, testutil.ToFloat64(c.lastChange.WithLabelValues("home")), 0.0)
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	st := state.NewMemoryState("home")
	obs := core.Observers{st, c}

	srv := httptest.NewServer(NewRouter(reg, st))
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body)

	obs.Initialized("home", record)
	obs.Updated("home", core.TriggerTimer, domain.Unchanged(oldAddr), record, time.Time{})

	code, body = get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get("/status")
	assert.Equal(t, http.StatusOK, code)
	var all []state.DomainStatus
	require.NoError(t, json.Unmarshal([]byte(body), &all))
	require.Len(t, all, 1)
	assert.Equal(t, "home", all[0].Nickname)
	assert.Equal(t, state.PhaseHealthy, all[0].Phase)
	assert.Equal(t, "198.51.100.1", all[0].Record.Content)

	code, _ = get("/status/home")
	assert.Equal(t, http.StatusOK, code)
	code, _ = get("/status/ghost")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `cfddns_update_attempts_total{domain="home",result="unchanged",trigger="timer"} 1`)
}
