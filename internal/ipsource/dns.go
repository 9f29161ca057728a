package ipsource

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
)

const (
	myIPName       = "myip.opendns.com."
	openDNSServer4 = "208.67.222.222:53"
	openDNSServer6 = "[2620:119:35::35]:53"
)

// dnsSource asks a resolver that answers a well-known name with the address
// the query arrived from.
type dnsSource struct {
	server  string
	family  int
	timeout time.Duration
}

func newDNSSource(server string, family int, timeout time.Duration) *dnsSource {
	return &dnsSource{server: server, family: family, timeout: timeout}
}

func (s *dnsSource) wantV6(bind netip.Addr) bool {
	switch s.family {
	case 4:
		return false
	case 6:
		return true
	}
	return bind.IsValid() && !bind.Unmap().Is4()
}

func (s *dnsSource) IP(ctx context.Context, bind netip.Addr) (netip.Addr, error) {
	qtype := dns.TypeA
	server := s.server
	if s.wantV6(bind) {
		qtype = dns.TypeAAAA
		if server == "" {
			server = openDNSServer6
		}
	}
	if server == "" {
		server = openDNSServer4
	}

	msg := new(dns.Msg)
	msg.SetQuestion(myIPName, qtype)

	client := &dns.Client{Net: "udp", Timeout: s.timeout}
	if bind.IsValid() {
		client.Dialer = &net.Dialer{
			Timeout:   s.timeout,
			LocalAddr: &net.UDPAddr{IP: bind.AsSlice()},
		}
	}

	resp, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return netip.Addr{}, NewNetworkError(s.Describe(), err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return netip.Addr{}, NewNetworkError(s.Describe(), fmt.Errorf("resolver answered %s", dns.RcodeToString[resp.Rcode]))
	}

	for _, rr := range resp.Answer {
		var raw net.IP
		switch v := rr.(type) {
		case *dns.A:
			raw = v.A
		case *dns.AAAA:
			raw = v.AAAA
		default:
			continue
		}
		if addr, ok := netip.AddrFromSlice(raw); ok {
			return addr.Unmap(), nil
		}
	}
	return netip.Addr{}, NewParseError(s.Describe(), fmt.Sprintf("%d answer records", len(resp.Answer)), nil)
}

func (s *dnsSource) Kind() Kind { return KindDNS }

func (s *dnsSource) Describe() string {
	if s.server == "" {
		return "dns opendns"
	}
	return "dns " + s.server
}
