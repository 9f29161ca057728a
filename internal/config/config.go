package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// IPSourceConfig selects how a domain discovers its current address. It may
// also be written as a bare kind name or a legacy number (0, 1, 2).
type IPSourceConfig struct {
	Type      string `mapstructure:"type" yaml:"type"`
	Server    string `mapstructure:"server" yaml:"server,omitempty"`
	Interface string `mapstructure:"interface" yaml:"interface,omitempty"`
	Family    int    `mapstructure:"family" yaml:"family,omitempty" validate:"omitempty,oneof=4 6"`
}

// DefaultsConfig holds the values every domain inherits unless it overrides them.
type DefaultsConfig struct {
	BindAddress     string         `mapstructure:"bind_address" validate:"omitempty,ip"`
	RefreshInterval int            `mapstructure:"refresh_interval" validate:"gt=0"`
	RetryInterval   int            `mapstructure:"retry_interval" validate:"gt=0"`
	IPSource        IPSourceConfig `mapstructure:"ip_source"`
}

// ProxyConfig routes Cloudflare API traffic through an HTTP proxy.
type ProxyConfig struct {
	URL      string `mapstructure:"url" validate:"omitempty,url"`
	Username string `mapstructure:"username" validate:"required_with=Password"`
	Password string `mapstructure:"password" validate:"required_with=Username"`
}

// CloudflareConfig holds the API endpoint and transport settings.
type CloudflareConfig struct {
	APIURL  string      `mapstructure:"api_url" validate:"required,url"`
	Timeout int         `mapstructure:"timeout" validate:"gt=0"`
	Proxy   ProxyConfig `mapstructure:"proxy"`
}

// NotifyConfig enables the event sources that trigger an immediate refresh.
type NotifyConfig struct {
	Resume  bool `mapstructure:"resume"`
	SIGUSR1 bool `mapstructure:"sigusr1"`
}

// StatusConfig configures the HTTP status server. An empty Listen disables it.
type StatusConfig struct {
	Listen string `mapstructure:"listen" validate:"omitempty,hostname_port"`
}

// DomainConfig is one DNS record to keep in sync. Zero values inherit from
// DefaultsConfig.
type DomainConfig struct {
	Nickname        string          `mapstructure:"nickname" validate:"required"`
	ID              string          `mapstructure:"id" validate:"required"`
	ZoneID          string          `mapstructure:"zone_id" validate:"required"`
	BindAddress     string          `mapstructure:"bind_address" validate:"omitempty,ip"`
	RefreshInterval int             `mapstructure:"refresh_interval" validate:"gte=0"`
	RetryInterval   int             `mapstructure:"retry_interval" validate:"gte=0"`
	IPSource        *IPSourceConfig `mapstructure:"ip_source"`
}

// AccountConfig groups the domains reachable with one API token.
type AccountConfig struct {
	Token   string         `mapstructure:"token" validate:"required"`
	Domains []DomainConfig `mapstructure:"domains" validate:"required,min=1,dive"`
}

// Config is the top-level configuration struct.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"log"`
	Defaults   DefaultsConfig   `mapstructure:"defaults"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Status     StatusConfig     `mapstructure:"status"`
	Accounts   []AccountConfig  `mapstructure:"accounts" validate:"required,min=1,dive"`
}

const envPrefix = "CFDDNS"

// InitConfig performs the initial configuration: setting defaults, specifying the config file, and reading it.
// An empty path looks for config.yaml in the working directory and /etc/cloudflare-ddns-sync.
func InitConfig(path string) error {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("defaults.bind_address", "")
	viper.SetDefault("defaults.refresh_interval", 900)
	viper.SetDefault("defaults.retry_interval", 300)
	viper.SetDefault("cloudflare.api_url", "https://api.cloudflare.com/client/v4")
	viper.SetDefault("cloudflare.timeout", 30)
	viper.SetDefault("cloudflare.proxy.url", "")
	viper.SetDefault("cloudflare.proxy.username", "")
	viper.SetDefault("cloudflare.proxy.password", "")
	viper.SetDefault("notify.resume", true)
	viper.SetDefault("notify.sigusr1", true)
	viper.SetDefault("status.listen", "")

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config") // Looks for config.yaml
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/cloudflare-ddns-sync")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Without a file only defaults and env vars apply; Load reports the missing accounts.
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return nil
}

// Load unmarshals the configuration into the Config struct and validates it.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	for i := range config.Accounts {
		config.Accounts[i].Token = strings.TrimSpace(os.ExpandEnv(config.Accounts[i].Token))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks struct constraints and the rules that span several fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return NewValidationError(msgs)
		}
		return fmt.Errorf("validating config: %w", err)
	}

	var msgs []string
	if err := checkIPSource("defaults.ip_source", c.Defaults.IPSource); err != nil {
		msgs = append(msgs, err.Error())
	}
	seen := make(map[string]struct{})
	for ai, account := range c.Accounts {
		for di, d := range account.Domains {
			if _, dup := seen[d.Nickname]; dup {
				msgs = append(msgs, fmt.Sprintf("duplicate domain nickname %q", d.Nickname))
			}
			seen[d.Nickname] = struct{}{}
			if d.IPSource != nil {
				field := fmt.Sprintf("accounts[%d].domains[%d].ip_source", ai, di)
				if err := checkIPSource(field, *d.IPSource); err != nil {
					msgs = append(msgs, err.Error())
				}
			}
		}
	}
	if len(msgs) > 0 {
		return NewValidationError(msgs)
	}
	return nil
}
