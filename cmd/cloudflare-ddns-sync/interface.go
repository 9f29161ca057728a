package main

import (
	"context"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/registry"
)

type application interface {
	Run(ctx context.Context) error
}

// tokenInspector is the part of registry.Inspector the helper commands use.
type tokenInspector interface {
	VerifyToken(ctx context.Context) (string, error)
	ResolveZone(zone string) (string, error)
	AddressRecords(ctx context.Context, zoneID string) ([]registry.RecordSummary, error)
}
