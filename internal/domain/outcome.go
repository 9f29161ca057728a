package domain

import (
	"fmt"
	"net/netip"
)

// Outcome describes a successful update attempt.
type Outcome struct {
	Changed bool
	Old     netip.Addr
	New     netip.Addr
}

func Unchanged(current netip.Addr) Outcome {
	return Outcome{Old: current, New: current}
}

func Changed(from, to netip.Addr) Outcome {
	return Outcome{Changed: true, Old: from, New: to}
}

func (o Outcome) Render() string {
	if !o.Changed {
		return fmt.Sprintf("IP address unchanged, current address is %s", o.New)
	}
	return fmt.Sprintf("DNS record updated from %s to %s", o.Old, o.New)
}
