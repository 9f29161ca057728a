package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/registry"
)

func newRecordsCmd() *cobra.Command {
	var (
		zone     string
		index    int
		prompt   bool
		asConfig bool
	)
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List the A and AAAA records of a zone with their ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, cf, bind, err := resolveAccounts(prompt, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if index < 0 || index >= len(accounts) {
				return fmt.Errorf("account index %d out of range (have %d)", index, len(accounts))
			}
			inspector, err := newInspector(accounts[index].Token, cf, bind)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cf.TimeoutDuration())
			defer cancel()
			zoneID, records, err := listRecords(ctx, inspector, zone)
			if err != nil {
				return err
			}
			if asConfig {
				return writeDomainEntries(cmd.OutOrStdout(), zoneID, records)
			}
			return writeRecordTable(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVar(&zone, "zone", "", "zone id or zone name")
	cmd.Flags().IntVar(&index, "account", 0, "index of the configured account whose token is used")
	cmd.Flags().BoolVar(&prompt, "prompt", false, "read a token from the terminal instead of the config file")
	cmd.Flags().BoolVar(&asConfig, "as-config", false, "print the records as domain entries for the config file")
	_ = cmd.MarkFlagRequired("zone")
	return cmd
}

func listRecords(ctx context.Context, inspector tokenInspector, zone string) (string, []registry.RecordSummary, error) {
	zoneID, err := inspector.ResolveZone(zone)
	if err != nil {
		return "", nil, err
	}
	records, err := inspector.AddressRecords(ctx, zoneID)
	if err != nil {
		return "", nil, err
	}
	return zoneID, records, nil
}

func writeRecordTable(out io.Writer, records []registry.RecordSummary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tNAME\tCONTENT\tTTL\tPROXIED")
	for _, r := range records {
		ttl := strconv.Itoa(r.TTL)
		if r.TTL == 1 {
			ttl = "auto"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n", r.ID, r.Type, r.Name, r.Content, ttl, r.Proxied)
	}
	return tw.Flush()
}

type domainEntry struct {
	Nickname string `yaml:"nickname"`
	ID       string `yaml:"id"`
	ZoneID   string `yaml:"zone_id"`
}

func writeDomainEntries(out io.Writer, zoneID string, records []registry.RecordSummary) error {
	entries := make([]domainEntry, 0, len(records))
	for _, r := range records {
		nickname := r.Name
		if r.Type == "AAAA" {
			nickname += "-v6"
		}
		entries = append(entries, domainEntry{Nickname: nickname, ID: r.ID, ZoneID: zoneID})
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]domainEntry{"domains": entries}); err != nil {
		return fmt.Errorf("encoding domain entries: %w", err)
	}
	return enc.Close()
}
