package core

import (
	"context"
	"time"
)

// attempt runs one update on an acquired Updater, logs the result and tells
// the observer. It returns the interval the periodic loop should wait next:
// the refresh interval after success, the retry interval after failure.
func attempt(ctx context.Context, u *Updater, trigger Trigger, observer Observer) time.Duration {
	outcome, err := u.Update(ctx)
	if err != nil {
		wait := u.RetryInterval()
		if ctx.Err() != nil {
			u.logger.Debug().Err(err).Msg("Update abandoned during shutdown")
			return wait
		}
		next := nextCheck(trigger, wait)
		ev := u.logger.Error().Err(err).Str("trigger", string(trigger))
		if next.IsZero() {
			ev.Msg("Failed to update DNS record")
		} else {
			ev.Msgf("Failed to update DNS record, retrying at %s", next.Format(time.DateTime))
		}
		observer.Failed(u.Nickname(), trigger, err, next)
		return wait
	}

	wait := u.RefreshInterval()
	next := nextCheck(trigger, wait)
	ev := u.logger.Info().Str("trigger", string(trigger))
	if next.IsZero() {
		ev.Msg(outcome.Render())
	} else {
		ev.Msgf("%s, next check at %s", outcome.Render(), next.Format(time.DateTime))
	}
	rec, _ := u.Details()
	observer.Updated(u.Nickname(), trigger, outcome, rec, next)
	return wait
}

// nextCheck is when the periodic loop will look at the domain again. Notify
// attempts do not move the periodic schedule, so they report none.
func nextCheck(trigger Trigger, wait time.Duration) time.Time {
	if trigger != TriggerTimer {
		return time.Time{}
	}
	return time.Now().Add(wait)
}
