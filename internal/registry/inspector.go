package registry

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/cloudflare/cloudflare-go"
)

var zoneIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// RecordSummary is the part of a listed record needed to write a domain entry.
type RecordSummary struct {
	ID      string
	Type    string
	Name    string
	Content string
	TTL     int
	Proxied bool
}

// Inspector answers setup questions about an account: whether its token is
// usable and which address records a zone holds.
type Inspector struct {
	api *cloudflare.API
}

func NewInspector(token, apiURL string, client *http.Client) (*Inspector, error) {
	opts := []cloudflare.Option{cloudflare.HTTPClient(client)}
	if apiURL != "" {
		opts = append(opts, cloudflare.BaseURL(apiURL))
	}
	api, err := cloudflare.NewWithAPIToken(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating api client: %w", err)
	}
	return &Inspector{api: api}, nil
}

// VerifyToken returns the token status reported by Cloudflare ("active" when usable).
func (i *Inspector) VerifyToken(ctx context.Context) (string, error) {
	result, err := i.api.VerifyAPIToken(ctx)
	if err != nil {
		return "", fmt.Errorf("unable to verify api token: %w", err)
	}
	return result.Status, nil
}

// ResolveZone accepts a zone id or a zone name and returns the id.
func (i *Inspector) ResolveZone(zone string) (string, error) {
	if zoneIDPattern.MatchString(zone) {
		return zone, nil
	}
	zid, err := i.api.ZoneIDByName(zone)
	if err != nil {
		return "", fmt.Errorf("unable to get zone ID for %s: %w", zone, err)
	}
	return zid, nil
}

// AddressRecords lists the A and AAAA records of a zone.
func (i *Inspector) AddressRecords(ctx context.Context, zoneID string) ([]RecordSummary, error) {
	var out []RecordSummary
	for _, kind := range []string{"A", "AAAA"} {
		records, _, err := i.api.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.ListDNSRecordsParams{
			Type: kind,
		})
		if err != nil {
			return nil, fmt.Errorf("listing %s records: %w", kind, err)
		}
		for _, r := range records {
			proxied := false
			if r.Proxied != nil {
				proxied = *r.Proxied
			}
			out = append(out, RecordSummary{
				ID:      r.ID,
				Type:    r.Type,
				Name:    r.Name,
				Content: r.Content,
				TTL:     r.TTL,
				Proxied: proxied,
			})
		}
	}
	return out, nil
}
