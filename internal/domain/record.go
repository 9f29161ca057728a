package domain

import (
	"fmt"
	"net/netip"
	"strings"
)

type RecordKind string

const (
	RecordA    RecordKind = "A"
	RecordAAAA RecordKind = "AAAA"
)

func ParseKind(s string) (RecordKind, error) {
	switch strings.ToUpper(s) {
	case "A":
		return RecordA, nil
	case "AAAA":
		return RecordAAAA, nil
	default:
		return "", fmt.Errorf("unsupported record kind %q", s)
	}
}

// KindFor returns the address record kind able to hold addr.
func KindFor(addr netip.Addr) RecordKind {
	if addr.Unmap().Is4() {
		return RecordA
	}
	return RecordAAAA
}

// RecordDetails is the last known state of a remote address record.
// It is replaced as a whole after every confirmed update.
type RecordDetails struct {
	Type    RecordKind
	Name    string
	Content netip.Addr
	TTL     int
	Proxied bool
}

// WithContent copies r with its content replaced by addr.
func (r RecordDetails) WithContent(addr netip.Addr) RecordDetails {
	r.Content = addr
	return r
}

func (r RecordDetails) Render() string {
	if !r.Content.IsValid() {
		return fmt.Sprintf("[%s] %s -> <no value>", r.Type, r.Name)
	}
	return fmt.Sprintf("[%s] %s -> %s (ttl=%d, proxied=%t)", r.Type, r.Name, r.Content, r.TTL, r.Proxied)
}
