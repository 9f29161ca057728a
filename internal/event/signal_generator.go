package event

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
)

// SignalGenerator turns an OS signal into a manual refresh notification.
type SignalGenerator struct {
	logger zerolog.Logger
	sig    os.Signal
}

func (sg *SignalGenerator) Name() string {
	if sg.sig == nil {
		return "signal"
	}
	return "signal " + sg.sig.String()
}

func (sg *SignalGenerator) Subscribe(ctx context.Context) (<-chan Notification, error) {
	if sg.sig == nil {
		return nil, NewUnsupportedPlatformError("signal")
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sg.sig)
	out := make(chan Notification)

	go func() {
		defer close(out)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
				sg.logger.Info().Str("signal", sg.sig.String()).Msg("Refresh requested")
				select {
				case out <- Notification{Kind: KindManual, At: time.Now()}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
