package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/core"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
)

// Collector exports update results as Prometheus metrics. It implements core.Observer.
type Collector struct {
	attempts    *prometheus.CounterVec
	busy        *prometheus.CounterVec
	initialized *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
	lastChange  *prometheus.GaugeVec
}

// NewCollector registers the collectors with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cfddns_update_attempts_total",
			Help: "Update attempts by domain, trigger and result (changed, unchanged, failed)",
		}, []string{"domain", "trigger", "result"}),
		busy: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cfddns_update_skipped_total",
			Help: "Update attempts skipped because another update for the domain was running",
		}, []string{"domain", "trigger"}),
		initialized: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cfddns_domain_initialized",
			Help: "Whether the domain has fetched its record (1) or is still retrying (0)",
		}, []string{"domain"}),
		lastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cfddns_last_success_timestamp_seconds",
			Help: "Unix time of the last successful check",
		}, []string{"domain"}),
		lastChange: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cfddns_last_change_timestamp_seconds",
			Help: "Unix time the record content last changed",
		}, []string{"domain"}),
	}
}

// Register exposes a domain before its first result so dashboards see it initializing.
func (c *Collector) Register(nickname string) {
	c.initialized.WithLabelValues(nickname).Set(0)
}

func (c *Collector) Initialized(nickname string, _ domain.RecordDetails) {
	c.initialized.WithLabelValues(nickname).Set(1)
	c.lastSuccess.WithLabelValues(nickname).Set(float64(time.Now().Unix()))
}

func (c *Collector) Updated(nickname string, trigger core.Trigger, outcome domain.Outcome, _ domain.RecordDetails, _ time.Time) {
	result := "unchanged"
	now := float64(time.Now().Unix())
	if outcome.Changed {
		result = "changed"
		c.lastChange.WithLabelValues(nickname).Set(now)
	}
	c.attempts.WithLabelValues(nickname, string(trigger), result).Inc()
	c.lastSuccess.WithLabelValues(nickname).Set(now)
}

func (c *Collector) Failed(nickname string, trigger core.Trigger, _ error, _ time.Time) {
	c.attempts.WithLabelValues(nickname, string(trigger), "failed").Inc()
}

func (c *Collector) Busy(nickname string, trigger core.Trigger) {
	c.busy.WithLabelValues(nickname, string(trigger)).Inc()
}
