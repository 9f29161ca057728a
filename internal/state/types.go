package state

import (
	"time"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
)

type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseHealthy      Phase = "healthy"
	PhaseFailing      Phase = "failing"
)

// DomainStatus is a point-in-time view of one domain.
type DomainStatus struct {
	Nickname    string    `json:"nickname"`
	Phase       Phase     `json:"phase"`
	Record      *Record   `json:"record,omitempty"`
	LastAttempt time.Time `json:"last_attempt,omitzero"`
	LastSuccess time.Time `json:"last_success,omitzero"`
	LastChange  time.Time `json:"last_change,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
	NextCheck   time.Time `json:"next_check,omitzero"`
	Updates     int       `json:"updates"`
	Failures    int       `json:"failures"`
}

// Record is the JSON form of a cached DNS record.
type Record struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

func fromDetails(rec domain.RecordDetails) *Record {
	return &Record{
		Type:    string(rec.Type),
		Name:    rec.Name,
		Content: rec.Content.String(),
		TTL:     rec.TTL,
		Proxied: rec.Proxied,
	}
}
