package registry

import (
	"net/http"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/config"
)

func resolveProxy(t *testing.T, cfg *config.CloudflareConfig, target string) string {
	t.Helper()
	client, err := NewHTTPClient(cfg, netip.Addr{})
	require.NoError(t, err)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.Proxy)

	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	proxyURL, err := transport.Proxy(req)
	require.NoError(t, err)
	if proxyURL == nil {
		return ""
	}
	return proxyURL.String()
}

const recordEndpoint = "https://api.cloudflare.com/client/v4/zones/z/dns_records/r"

func TestHTTPClientHonoursEnvironmentProxy(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "http://corp-proxy.example:3128")
	t.Setenv("NO_PROXY", "")
	t.Setenv("no_proxy", "")

	cfg := &config.CloudflareConfig{APIURL: "https://api.cloudflare.com/client/v4", Timeout: 5}
	assert.Equal(t, "http://corp-proxy.example:3128", resolveProxy(t, cfg, recordEndpoint))
}

func TestHTTPClientEnvironmentNoProxy(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "http://corp-proxy.example:3128")
	t.Setenv("NO_PROXY", "api.cloudflare.com")
	t.Setenv("no_proxy", "")

	cfg := &config.CloudflareConfig{APIURL: "https://api.cloudflare.com/client/v4", Timeout: 5}
	assert.Empty(t, resolveProxy(t, cfg, recordEndpoint))
}

func TestHTTPClientConfiguredProxyWins(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "http://corp-proxy.example:3128")

	cfg := &config.CloudflareConfig{
		APIURL:  "https://api.cloudflare.com/client/v4",
		Timeout: 5,
		Proxy:   config.ProxyConfig{URL: "http://own-proxy.example:8080"},
	}
	assert.Equal(t, "http://own-proxy.example:8080", resolveProxy(t, cfg, recordEndpoint))
}
