package config

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/ipsource"
)

// ipSourceScalarHook lets ip_source be written as a scalar ("local", 2)
// instead of a map.
func ipSourceScalarHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(IPSourceConfig{}) {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Float64:
		return IPSourceConfig{Type: fmt.Sprint(data)}, nil
	}
	return data, nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		ipSourceScalarHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func checkIPSource(field string, c IPSourceConfig) error {
	kind, err := ipsource.ParseKind(c.Type)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if kind == ipsource.KindStandalone {
		u, err := url.Parse(c.Server)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s: standalone source needs a server url, got %q", field, c.Server)
		}
	}
	if c.Family != 0 && kind != ipsource.KindDNS {
		return fmt.Errorf("%s: family only applies to the dns source", field)
	}
	return nil
}

// Spec converts the configuration into the form the ipsource package builds from.
func (c IPSourceConfig) Spec() (ipsource.Spec, error) {
	kind, err := ipsource.ParseKind(c.Type)
	if err != nil {
		return ipsource.Spec{}, err
	}
	return ipsource.Spec{
		Kind:      kind,
		Server:    c.Server,
		Interface: c.Interface,
		Family:    c.Family,
	}, nil
}
