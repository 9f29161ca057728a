package config

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/ipsource"
)

// Domain is a fully resolved domain: account token and defaults applied.
type Domain struct {
	Nickname        string
	RecordID        string
	ZoneID          string
	Token           string
	BindAddress     netip.Addr
	RefreshInterval time.Duration
	RetryInterval   time.Duration
	IPSource        ipsource.Spec
}

// Resolve flattens the accounts into one entry per domain, in file order.
func (c *Config) Resolve() ([]Domain, error) {
	var out []Domain
	for _, account := range c.Accounts {
		for _, d := range account.Domains {
			resolved, err := c.resolveDomain(account, d)
			if err != nil {
				return nil, fmt.Errorf("domain %s: %w", d.Nickname, err)
			}
			out = append(out, resolved)
		}
	}
	return out, nil
}

func (c *Config) resolveDomain(account AccountConfig, d DomainConfig) (Domain, error) {
	bind := d.BindAddress
	if bind == "" {
		bind = c.Defaults.BindAddress
	}
	var bindAddr netip.Addr
	if bind != "" {
		addr, err := netip.ParseAddr(bind)
		if err != nil {
			return Domain{}, fmt.Errorf("invalid bind address %q: %w", bind, err)
		}
		bindAddr = addr
	}

	refresh := d.RefreshInterval
	if refresh == 0 {
		refresh = c.Defaults.RefreshInterval
	}
	retry := d.RetryInterval
	if retry == 0 {
		retry = c.Defaults.RetryInterval
	}

	src := c.Defaults.IPSource
	if d.IPSource != nil {
		src = *d.IPSource
	}
	spec, err := src.Spec()
	if err != nil {
		return Domain{}, err
	}

	return Domain{
		Nickname:        d.Nickname,
		RecordID:        d.ID,
		ZoneID:          d.ZoneID,
		Token:           account.Token,
		BindAddress:     bindAddr,
		RefreshInterval: time.Duration(refresh) * time.Second,
		RetryInterval:   time.Duration(retry) * time.Second,
		IPSource:        spec,
	}, nil
}

// GlobalBindAddress is the address Cloudflare API traffic leaves from.
func (c *Config) GlobalBindAddress() netip.Addr {
	addr, err := netip.ParseAddr(c.Defaults.BindAddress)
	if err != nil {
		return netip.Addr{}
	}
	return addr
}

func (c *CloudflareConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// MaskToken keeps the last four characters of a token for display.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}

// LoadCloudflare decodes the configuration without validating it and
// returns only the cloudflare section, for commands that need no accounts.
func LoadCloudflare() (*CloudflareConfig, error) {
	var config Config
	if err := viper.Unmarshal(&config, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := validator.New().Struct(&config.Cloudflare); err != nil {
		return nil, fmt.Errorf("invalid cloudflare config: %w", err)
	}
	return &config.Cloudflare, nil
}
