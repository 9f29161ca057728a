package event

import (
	"context"
	"time"
)

type Kind string

const (
	// KindResume is emitted when the host wakes from suspend.
	KindResume Kind = "resume"
	// KindManual is emitted when an operator asks for an immediate refresh.
	KindManual Kind = "manual"
)

// Notification asks every domain to refresh now.
type Notification struct {
	Kind Kind
	At   time.Time
	// Missed counts notifications dropped before this one because the
	// consumer fell behind.
	Missed int
}

// Generator produces notifications until ctx is done, then closes the channel
// and releases whatever it registered with the OS.
type Generator interface {
	Name() string
	Subscribe(ctx context.Context) (<-chan Notification, error)
}
