//go:build !windows

package event

import (
	"syscall"

	"github.com/rs/zerolog"
)

// NewRefreshSignalGenerator listens for SIGUSR1.
func NewRefreshSignalGenerator(logger zerolog.Logger) *SignalGenerator {
	return &SignalGenerator{logger: logger, sig: syscall.SIGUSR1}
}
