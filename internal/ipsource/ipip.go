package ipsource

import (
	"context"
	"net/http"
	"net/netip"
	"regexp"
	"strings"
	"time"
)

const (
	ipipURL       = "https://www.ipip.net/ip.html"
	ipipUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.110 Safari/537.36"
)

// The lookup page submits the detected address through a script, which is the
// only place it appears verbatim.
var ipipExtract = regexp.MustCompile(`\$\('input\[name=ip\]'\)\.attr\('value', '([^']+)'\)`)

type ipipSource struct {
	url     string
	timeout time.Duration
}

func newIPIPSource(timeout time.Duration) *ipipSource {
	return &ipipSource{url: ipipURL, timeout: timeout}
}

func (s *ipipSource) IP(ctx context.Context, bind netip.Addr) (netip.Addr, error) {
	if bind.IsValid() && !bind.Unmap().Is4() {
		return netip.Addr{}, ErrIPv6Unsupported
	}

	header := http.Header{}
	header.Set("User-Agent", ipipUserAgent)
	body, err := fetchBody(ctx, bind, s.timeout, s.url, header)
	if err != nil {
		return netip.Addr{}, NewNetworkError(s.Describe(), err)
	}

	m := ipipExtract.FindStringSubmatch(body)
	if m == nil {
		return netip.Addr{}, NewParseError(s.Describe(), truncate(body), nil)
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(m[1]))
	if err != nil {
		return netip.Addr{}, NewParseError(s.Describe(), m[1], err)
	}
	return addr.Unmap(), nil
}

func (s *ipipSource) Kind() Kind { return KindIPIP }

func (s *ipipSource) Describe() string { return "ipip" }
