package core

import (
	"time"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
)

// Trigger names what started an update attempt.
type Trigger string

const (
	TriggerTimer  Trigger = "timer"
	TriggerNotify Trigger = "notify"
)

// Observer is told the result of every initialization and update attempt.
// Implementations must be safe for concurrent use.
type Observer interface {
	Initialized(nickname string, record domain.RecordDetails)
	Updated(nickname string, trigger Trigger, outcome domain.Outcome, record domain.RecordDetails, next time.Time)
	Failed(nickname string, trigger Trigger, err error, next time.Time)
	Busy(nickname string, trigger Trigger)
}

// Observers fans every call out to each member in order.
type Observers []Observer

func (o Observers) Initialized(nickname string, record domain.RecordDetails) {
	for _, obs := range o {
		obs.Initialized(nickname, record)
	}
}

func (o Observers) Updated(nickname string, trigger Trigger, outcome domain.Outcome, record domain.RecordDetails, next time.Time) {
	for _, obs := range o {
		obs.Updated(nickname, trigger, outcome, record, next)
	}
}

func (o Observers) Failed(nickname string, trigger Trigger, err error, next time.Time) {
	for _, obs := range o {
		obs.Failed(nickname, trigger, err, next)
	}
}

func (o Observers) Busy(nickname string, trigger Trigger) {
	for _, obs := range o {
		obs.Busy(nickname, trigger)
	}
}
