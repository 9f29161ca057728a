package event

import "github.com/godbus/dbus/v5"

// sleepSignalSource is the subset of the logind connection the resume generator uses.
type sleepSignalSource interface {
	Subscribe(members ...string) chan *dbus.Signal
	Close()
}
