package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"strings"

	"github.com/cloudflare/cloudflare-go"
	"github.com/rs/zerolog"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/config"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
)

const maxResponseSize = 1 << 20

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CloudflareRegistry reads and writes single DNS records through the
// Cloudflare v4 API.
type CloudflareRegistry struct {
	client  httpDoer
	baseURL string
	logger  zerolog.Logger
}

func NewCloudflareRegistry(client httpDoer, cfg *config.CloudflareConfig, logger zerolog.Logger) *CloudflareRegistry {
	return &CloudflareRegistry{
		client:  client,
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		logger:  logger,
	}
}

// envelope is the response wrapper shared by every endpoint.
type envelope struct {
	cloudflare.Response
	Result *cloudflare.DNSRecord `json:"result"`
}

// recordBody is the exact update payload; other record attributes are left untouched remotely.
type recordBody struct {
	Type    string `json:"type"`
	TTL     int    `json:"ttl"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Proxied bool   `json:"proxied"`
}

// Fetch returns the current state of the record.
func (cr *CloudflareRegistry) Fetch(ctx context.Context, ref RecordRef) (domain.RecordDetails, error) {
	return cr.do(ctx, "fetch", http.MethodGet, ref, nil)
}

// Update replaces the record and returns the server's view of it.
func (cr *CloudflareRegistry) Update(ctx context.Context, ref RecordRef, record domain.RecordDetails) (domain.RecordDetails, error) {
	body := recordBody{
		Type:    string(record.Type),
		TTL:     record.TTL,
		Name:    record.Name,
		Content: record.Content.String(),
		Proxied: record.Proxied,
	}
	return cr.do(ctx, "update", http.MethodPut, ref, body)
}

func (cr *CloudflareRegistry) recordURL(ref RecordRef) string {
	return fmt.Sprintf("%s/zones/%s/dns_records/%s", cr.baseURL, url.PathEscape(ref.ZoneID), url.PathEscape(ref.RecordID))
}

func (cr *CloudflareRegistry) do(ctx context.Context, op, method string, ref RecordRef, payload any) (domain.RecordDetails, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return domain.RecordDetails{}, fmt.Errorf("%s record: marshal request body: %w", op, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, cr.recordURL(ref), bodyReader)
	if err != nil {
		return domain.RecordDetails{}, fmt.Errorf("%s record: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ref.Token)

	cr.logger.Trace().Str("method", method).Str("zone_id", ref.ZoneID).Str("record_id", ref.RecordID).Msg("Cloudflare request")

	resp, err := cr.client.Do(req)
	if err != nil {
		return domain.RecordDetails{}, NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return domain.RecordDetails{}, NewNetworkError(op, fmt.Errorf("reading response body: %w", err))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.RecordDetails{}, NewDeserializeError(op, fmt.Errorf("status %d: %w", resp.StatusCode, err))
	}
	if !env.Success || env.Result == nil {
		return domain.RecordDetails{}, NewAPIError(op, resp.StatusCode, env.Errors)
	}
	return toDetails(op, env.Result)
}

func toDetails(op string, rec *cloudflare.DNSRecord) (domain.RecordDetails, error) {
	kind, err := domain.ParseKind(rec.Type)
	if err != nil {
		return domain.RecordDetails{}, NewDeserializeError(op, err)
	}
	content, err := netip.ParseAddr(rec.Content)
	if err != nil {
		return domain.RecordDetails{}, NewDeserializeError(op, fmt.Errorf("record content %q: %w", rec.Content, err))
	}
	proxied := false
	if rec.Proxied != nil {
		proxied = *rec.Proxied
	}
	return domain.RecordDetails{
		Type:    kind,
		Name:    rec.Name,
		Content: content,
		TTL:     rec.TTL,
		Proxied: proxied,
	}, nil
}
