// Package ipsource discovers the address the host is currently reachable at.
//
// The set of strategies is closed: a Source is built from a Spec whose Kind
// selects one of the variants below.
package ipsource

import (
	"context"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"
)

// Source looks up the current address of the host.
//
// A zero bind address means the lookup may leave through any local address.
type Source interface {
	IP(ctx context.Context, bind netip.Addr) (netip.Addr, error)
	Kind() Kind
	Describe() string
}

type Kind string

const (
	KindIPIP       Kind = "ipip"
	KindStandalone Kind = "standalone"
	KindLocal      Kind = "local"
	KindDNS        Kind = "dns"
)

const defaultTimeout = 15 * time.Second

// ParseKind accepts the kind names as well as the numeric values used by
// older configuration files (0 ipip, 1 standalone, 2 local).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", string(KindIPIP):
		return KindIPIP, nil
	case "1", string(KindStandalone):
		return KindStandalone, nil
	case "2", string(KindLocal):
		return KindLocal, nil
	case string(KindDNS):
		return KindDNS, nil
	default:
		return "", fmt.Errorf("unsupported ip source %q", s)
	}
}

// Spec is the resolved configuration of one source.
type Spec struct {
	Kind Kind
	// Server is the endpoint URL for standalone and the resolver address for dns.
	Server string
	// Interface restricts the local source to one network interface.
	Interface string
	// Family forces the dns source to query A (4) or AAAA (6) records.
	Family  int
	Timeout time.Duration
}

func New(spec Spec) (Source, error) {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	switch spec.Kind {
	case KindIPIP, "":
		return newIPIPSource(timeout), nil
	case KindStandalone:
		u, err := url.Parse(spec.Server)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("standalone ip source needs a valid server url, got %q", spec.Server)
		}
		return newStandaloneSource(u, timeout), nil
	case KindLocal:
		return newLocalSource(spec.Interface), nil
	case KindDNS:
		if spec.Family != 0 && spec.Family != 4 && spec.Family != 6 {
			return nil, fmt.Errorf("dns ip source family must be 4 or 6, got %d", spec.Family)
		}
		return newDNSSource(spec.Server, spec.Family, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported ip source %q", spec.Kind)
	}
}
