package registry

import (
	"context"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
)

// RecordRef addresses one remote DNS record and carries the credential used to reach it.
type RecordRef struct {
	ZoneID   string
	RecordID string
	Token    string
}

type Registry interface {
	Fetch(ctx context.Context, ref RecordRef) (domain.RecordDetails, error)
	Update(ctx context.Context, ref RecordRef, record domain.RecordDetails) (domain.RecordDetails, error)
}
