package registry

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"

	"golang.org/x/net/http/httpproxy"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/config"
)

// NewHTTPClient builds the client used for all Cloudflare API traffic. When
// bind is valid every connection originates from it.
func NewHTTPClient(cfg *config.CloudflareConfig, bind netip.Addr) (*http.Client, error) {
	timeout := cfg.TimeoutDuration()
	dialer := &net.Dialer{Timeout: timeout}
	if bind.IsValid() {
		dialer.LocalAddr = &net.TCPAddr{IP: bind.AsSlice()}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	// HTTPS_PROXY / NO_PROXY apply unless a proxy is configured explicitly.
	envProxy := httpproxy.FromEnvironment().ProxyFunc()
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return envProxy(req.URL)
	}

	if cfg.Proxy.URL != "" {
		proxyURL, err := url.Parse(cfg.Proxy.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy url: %w", err)
		}
		if cfg.Proxy.Username != "" {
			proxyURL.User = url.UserPassword(cfg.Proxy.Username, cfg.Proxy.Password)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
