package ipsource

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"time"
)

const maxBodySize = 1 << 20

// newHTTPClient returns a client whose connections originate from bind when it
// is valid. The dialed network follows the bind address family so that a
// dual-stack host does not try to reach an IPv6 peer from an IPv4 address.
func newHTTPClient(bind netip.Addr, timeout time.Duration) (*http.Client, *http.Transport) {
	dialer := &net.Dialer{Timeout: timeout}
	if bind.IsValid() {
		dialer.LocalAddr = &net.TCPAddr{IP: bind.AsSlice()}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		if bind.IsValid() {
			if bind.Unmap().Is4() {
				network = "tcp4"
			} else {
				network = "tcp6"
			}
		}
		return dialer.DialContext(ctx, network, addr)
	}
	return &http.Client{Transport: transport, Timeout: timeout}, transport
}

// fetchBody performs a GET and returns the body of a 200 response.
func fetchBody(ctx context.Context, bind netip.Addr, timeout time.Duration, target string, header http.Header) (string, error) {
	client, transport := newHTTPClient(bind, timeout)
	defer transport.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected response status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(body), nil
}
