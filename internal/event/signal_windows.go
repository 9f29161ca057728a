package event

import "github.com/rs/zerolog"

func NewRefreshSignalGenerator(logger zerolog.Logger) *SignalGenerator {
	return &SignalGenerator{logger: logger}
}
