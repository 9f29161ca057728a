package core

import (
	"context"
	"net/netip"
)

type addressSource interface {
	IP(ctx context.Context, bind netip.Addr) (netip.Addr, error)
	Describe() string
}
