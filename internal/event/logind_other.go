//go:build !linux

package event

import "github.com/rs/zerolog"

func NewLogindGenerator(logger zerolog.Logger) *LogindGenerator {
	return &LogindGenerator{
		logger: logger,
		dial: func() (sleepSignalSource, error) {
			return nil, NewUnsupportedPlatformError("resume")
		},
	}
}
