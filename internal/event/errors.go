package event

import (
	"fmt"
	"runtime"
)

// UnsupportedPlatformError is returned by generators that cannot run on this OS.
type UnsupportedPlatformError struct {
	generator string
}

func NewUnsupportedPlatformError(generator string) *UnsupportedPlatformError {
	return &UnsupportedPlatformError{generator: generator}
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("%s notifications are not supported on %s", e.generator, runtime.GOOS)
}
