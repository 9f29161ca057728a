package event

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const DefaultRelayCapacity = 16

// Relay merges the notifications of several generators into one bounded
// stream. Publishing never blocks: when the buffer is full the notification is
// dropped and the count is carried on the next one that gets through.
type Relay struct {
	logger zerolog.Logger
	out    chan Notification
	mu     sync.Mutex
	missed int
	wg     sync.WaitGroup
	closed bool
}

func NewRelay(capacity int, logger zerolog.Logger) *Relay {
	if capacity < 1 {
		capacity = 1
	}
	return &Relay{
		logger: logger,
		out:    make(chan Notification, capacity),
	}
}

// C is the merged stream. It is closed once every attached generator has
// finished.
func (r *Relay) C() <-chan Notification {
	return r.out
}

// Publish delivers n without blocking.
func (r *Relay) Publish(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	n.Missed += r.missed
	select {
	case r.out <- n:
		r.missed = 0
	default:
		r.missed = n.Missed + 1
		r.logger.Debug().Str("kind", string(n.Kind)).Int("missed", r.missed).Msg("Notification consumer is behind, dropping notification")
	}
}

// Attach subscribes every generator and forwards its notifications until the
// generator closes its channel. A generator that fails to subscribe is logged
// and skipped. The merged stream closes after the last generator finishes.
func (r *Relay) Attach(ctx context.Context, gens ...Generator) {
	for _, g := range gens {
		ch, err := g.Subscribe(ctx)
		if err != nil {
			r.logger.Warn().Err(err).Str("generator", g.Name()).Msg("Notification source unavailable")
			continue
		}
		r.logger.Info().Str("generator", g.Name()).Msg("Listening for notifications")
		r.wg.Add(1)
		go func(name string, ch <-chan Notification) {
			defer r.wg.Done()
			for n := range ch {
				r.logger.Debug().Str("generator", name).Str("kind", string(n.Kind)).Msg("Received notification")
				r.Publish(n)
			}
		}(g.Name(), ch)
	}

	go func() {
		r.wg.Wait()
		r.mu.Lock()
		r.closed = true
		close(r.out)
		r.mu.Unlock()
	}()
}
