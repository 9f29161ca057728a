package state

import (
	"sync"
	"time"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/core"
	"github.com/auto-dns/cloudflare-ddns-sync/internal/domain"
)

// MemoryState stores per-domain status safely. It implements core.Observer.
type MemoryState struct {
	mu      sync.RWMutex
	order   []string
	domains map[string]*DomainStatus
	now     func() time.Time
}

// NewMemoryState creates a tracker with every nickname in the initializing phase.
func NewMemoryState(nicknames ...string) *MemoryState {
	s := &MemoryState{
		domains: make(map[string]*DomainStatus, len(nicknames)),
		now:     time.Now,
	}
	for _, n := range nicknames {
		s.order = append(s.order, n)
		s.domains[n] = &DomainStatus{Nickname: n, Phase: PhaseInitializing}
	}
	return s
}

// entry returns the status for nickname, adding it if unknown. Callers hold mu.
func (s *MemoryState) entry(nickname string) *DomainStatus {
	st, ok := s.domains[nickname]
	if !ok {
		st = &DomainStatus{Nickname: nickname, Phase: PhaseInitializing}
		s.domains[nickname] = st
		s.order = append(s.order, nickname)
	}
	return st
}

func (s *MemoryState) Initialized(nickname string, record domain.RecordDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.entry(nickname)
	st.Phase = PhaseHealthy
	st.Record = fromDetails(record)
	st.LastSuccess = s.now()
}

func (s *MemoryState) Updated(nickname string, _ core.Trigger, outcome domain.Outcome, record domain.RecordDetails, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	st := s.entry(nickname)
	st.Phase = PhaseHealthy
	st.Record = fromDetails(record)
	st.LastAttempt = now
	st.LastSuccess = now
	st.LastError = ""
	if outcome.Changed {
		st.LastChange = now
		st.Updates++
	}
	if !next.IsZero() {
		st.NextCheck = next
	}
}

func (s *MemoryState) Failed(nickname string, _ core.Trigger, err error, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.entry(nickname)
	st.Phase = PhaseFailing
	st.LastAttempt = s.now()
	st.LastError = err.Error()
	st.Failures++
	if !next.IsZero() {
		st.NextCheck = next
	}
}

func (s *MemoryState) Busy(string, core.Trigger) {}

// Get returns a copy of one domain's status.
func (s *MemoryState) Get(nickname string) (DomainStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.domains[nickname]
	if !ok {
		return DomainStatus{}, false
	}
	return copyStatus(st), true
}

// All returns copies of every status in registration order.
func (s *MemoryState) All() []DomainStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DomainStatus, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, copyStatus(s.domains[n]))
	}
	return out
}

// Healthy reports whether every domain has been initialized and none is failing.
func (s *MemoryState) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.domains {
		if st.Phase != PhaseHealthy {
			return false
		}
	}
	return true
}

func copyStatus(st *DomainStatus) DomainStatus {
	c := *st
	if st.Record != nil {
		rec := *st.Record
		c.Record = &rec
	}
	return c
}
