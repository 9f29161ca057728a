package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/config"
)

func TestJSONLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	log := newLogger(&config.LoggingConfig{Level: "WARN", Format: "json"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("domain", "home").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "home", entry["domain"])
	assert.Equal(t, "cloudflare_ddns_sync", entry["service"])
	assert.Contains(t, entry, "caller")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	log := newLogger(&config.LoggingConfig{Level: "loud"}, &buf)
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
