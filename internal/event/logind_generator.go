package event

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

const (
	prepareForSleepMember = "PrepareForSleep"
	prepareForSleepSignal = "org.freedesktop.login1.Manager." + prepareForSleepMember
)

// LogindGenerator emits a resume notification each time systemd-logind
// reports that the system finished waking up.
type LogindGenerator struct {
	logger zerolog.Logger
	dial   func() (sleepSignalSource, error)
}

func (lg *LogindGenerator) Name() string { return "logind" }

func (lg *LogindGenerator) Subscribe(ctx context.Context) (<-chan Notification, error) {
	conn, err := lg.dial()
	if err != nil {
		return nil, err
	}
	signals := conn.Subscribe(prepareForSleepMember)
	out := make(chan Notification)

	go func() {
		defer close(out)
		defer conn.Close()

		for {
			select {
			case <-ctx.Done():
				lg.logger.Debug().Msg("Logind generator cancelled by context")
				return
			case sig, ok := <-signals:
				if !ok {
					lg.logger.Info().Msg("Logind signal channel closed")
					return
				}
				if !isResume(sig) {
					continue
				}
				lg.logger.Info().Msg("System resumed from suspend")
				select {
				case out <- Notification{Kind: KindResume, At: time.Now()}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// isResume reports whether sig is PrepareForSleep(false), sent after wake-up.
func isResume(sig *dbus.Signal) bool {
	if sig == nil || sig.Name != prepareForSleepSignal || len(sig.Body) == 0 {
		return false
	}
	sleeping, ok := sig.Body[0].(bool)
	return ok && !sleeping
}
