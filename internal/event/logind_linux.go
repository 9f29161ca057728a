//go:build linux

package event

import (
	"github.com/coreos/go-systemd/v22/login1"
	"github.com/rs/zerolog"
)

func NewLogindGenerator(logger zerolog.Logger) *LogindGenerator {
	return &LogindGenerator{
		logger: logger,
		dial: func() (sleepSignalSource, error) {
			return login1.New()
		},
	}
}
