package ipsource

import (
	"context"
	"net/netip"
	"net/url"
	"strings"
	"time"
)

// standaloneSource asks a server that echoes the caller's address as plain text.
type standaloneSource struct {
	url     *url.URL
	timeout time.Duration
}

func newStandaloneSource(u *url.URL, timeout time.Duration) *standaloneSource {
	return &standaloneSource{url: u, timeout: timeout}
}

func (s *standaloneSource) IP(ctx context.Context, bind netip.Addr) (netip.Addr, error) {
	body, err := fetchBody(ctx, bind, s.timeout, s.url.String(), nil)
	if err != nil {
		return netip.Addr{}, NewNetworkError(s.Describe(), err)
	}
	text := strings.TrimSpace(body)
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return netip.Addr{}, NewParseError(s.Describe(), truncate(text), err)
	}
	return addr.Unmap(), nil
}

func (s *standaloneSource) Kind() Kind { return KindStandalone }

func (s *standaloneSource) Describe() string { return "standalone " + s.url.String() }
