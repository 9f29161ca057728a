package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/config"
)

type resolvedSource struct {
	Type      string `yaml:"type"`
	Server    string `yaml:"server,omitempty"`
	Interface string `yaml:"interface,omitempty"`
	Family    int    `yaml:"family,omitempty"`
}

type resolvedDomain struct {
	Nickname        string         `yaml:"nickname"`
	ID              string         `yaml:"id"`
	ZoneID          string         `yaml:"zone_id"`
	Token           string         `yaml:"token"`
	BindAddress     string         `yaml:"bind_address"`
	RefreshInterval string         `yaml:"refresh_interval"`
	RetryInterval   string         `yaml:"retry_interval"`
	IPSource        resolvedSource `yaml:"ip_source"`
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print every domain with its inherited settings applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			domains, err := cfg.Resolve()
			if err != nil {
				return err
			}
			return writeResolved(cmd.OutOrStdout(), domains)
		},
	}
}

func writeResolved(out io.Writer, domains []config.Domain) error {
	view := make([]resolvedDomain, 0, len(domains))
	for _, d := range domains {
		bind := "any"
		if d.BindAddress.IsValid() {
			bind = d.BindAddress.String()
		}
		view = append(view, resolvedDomain{
			Nickname:        d.Nickname,
			ID:              d.RecordID,
			ZoneID:          d.ZoneID,
			Token:           config.MaskToken(d.Token),
			BindAddress:     bind,
			RefreshInterval: d.RefreshInterval.String(),
			RetryInterval:   d.RetryInterval.String(),
			IPSource: resolvedSource{
				Type:      string(d.IPSource.Kind),
				Server:    d.IPSource.Server,
				Interface: d.IPSource.Interface,
				Family:    d.IPSource.Family,
			},
		})
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]resolvedDomain{"domains": view}); err != nil {
		return fmt.Errorf("encoding resolved config: %w", err)
	}
	return enc.Close()
}
