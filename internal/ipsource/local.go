package ipsource

import (
	"context"
	"encoding/json"
	"net/netip"
	"os/exec"
	"strings"
)

// commandRunner runs a command and returns its standard output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var ipAddrCommand = []string{"ip", "-6", "-j", "addr"}

type ipInterface struct {
	IfName    string       `json:"ifname"`
	OperState string       `json:"operstate"`
	AddrInfo  []ipAddrInfo `json:"addr_info"`
}

type ipAddrInfo struct {
	Family        string `json:"family"`
	Local         string `json:"local"`
	Scope         string `json:"scope"`
	Temporary     bool   `json:"temporary"`
	Dynamic       bool   `json:"dynamic"`
	MngTmpAddr    bool   `json:"mngtmpaddr"`
	NoPrefixRoute bool   `json:"noprefixroute"`
}

// stable reports whether the address is a global, SLAAC managed address that
// is not one of the short-lived privacy addresses derived from it.
func (a ipAddrInfo) stable() bool {
	return a.Scope == "global" &&
		!a.Temporary &&
		a.Dynamic &&
		a.MngTmpAddr &&
		a.NoPrefixRoute
}

// localSource reads the host's own IPv6 addresses. The bind address plays no
// part in the selection.
type localSource struct {
	iface string
	run   commandRunner
}

func newLocalSource(iface string) *localSource {
	return &localSource{iface: iface, run: execRunner}
}

func (s *localSource) IP(ctx context.Context, _ netip.Addr) (netip.Addr, error) {
	out, err := s.run(ctx, ipAddrCommand[0], ipAddrCommand[1:]...)
	if err != nil {
		return netip.Addr{}, NewCommandError(strings.Join(ipAddrCommand, " "), err)
	}

	var ifaces []ipInterface
	if err := json.Unmarshal(out, &ifaces); err != nil {
		return netip.Addr{}, NewParseError(s.Describe(), truncate(string(out)), err)
	}

	for _, iface := range ifaces {
		if s.iface != "" && iface.IfName != s.iface {
			continue
		}
		if iface.OperState != "UP" {
			continue
		}
		for _, info := range iface.AddrInfo {
			if !info.stable() {
				continue
			}
			addr, err := netip.ParseAddr(info.Local)
			if err != nil {
				return netip.Addr{}, NewParseError(s.Describe(), info.Local, err)
			}
			return addr, nil
		}
	}
	return netip.Addr{}, NewNoMatchError(s.iface)
}

func (s *localSource) Kind() Kind { return KindLocal }

func (s *localSource) Describe() string {
	if s.iface == "" {
		return "local"
	}
	return "local " + s.iface
}
