package core

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
)

// ErrUninitialized is returned by Update when Init has not completed.
var ErrUninitialized = errors.New("updater is not initialized")

// AddressFamilyError reports a looked-up address that the record cannot hold,
// such as an IPv4 address for an AAAA record.
type AddressFamilyError struct {
	Record  domain.RecordKind
	Address netip.Addr
}

func NewAddressFamilyError(record domain.RecordKind, addr netip.Addr) *AddressFamilyError {
	return &AddressFamilyError{Record: record, Address: addr}
}

func (e *AddressFamilyError) Error() string {
	return fmt.Sprintf("address %s does not fit a %s record", e.Address, e.Record)
}
