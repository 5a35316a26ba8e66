package observability

import (
	"sync/atomic"
)

// ChatStatsSnapshot is a point-in-time copy of the relay counters.
type ChatStatsSnapshot struct {
	ActiveSessions int64  `json:"active_sessions"`
	Messages       uint64 `json:"messages"`
	Delivered      uint64 `json:"delivered"`
	FailedPushes   uint64 `json:"failed_pushes"`
	Departures     uint64 `json:"departures"`
	RejectedClaims uint64 `json:"rejected_claims"`
}

// ChatStats gathers relay counters. All methods are safe for concurrent use,
// and a nil *ChatStats silently ignores updates.
type ChatStats struct {
	activeSessions atomic.Int64
	messages       atomic.Uint64
	delivered      atomic.Uint64
	failedPushes   atomic.Uint64
	departures     atomic.Uint64
	rejectedClaims atomic.Uint64
}

func NewChatStats() *ChatStats {
	return &ChatStats{}
}

func (s *ChatStats) SessionOpened() {
	if s != nil {
		s.activeSessions.Add(1)
	}
}

func (s *ChatStats) SessionClosed() {
	if s != nil {
		s.activeSessions.Add(-1)
	}
}

func (s *ChatStats) IncrMessages() {
	if s != nil {
		s.messages.Add(1)
	}
}

func (s *ChatStats) AddDelivered(n int) {
	if s != nil && n > 0 {
		s.delivered.Add(uint64(n))
	}
}

func (s *ChatStats) IncrFailedPushes() {
	if s != nil {
		s.failedPushes.Add(1)
	}
}

func (s *ChatStats) IncrDepartures() {
	if s != nil {
		s.departures.Add(1)
	}
}

func (s *ChatStats) IncrRejectedClaims() {
	if s != nil {
		s.rejectedClaims.Add(1)
	}
}

func (s *ChatStats) Snapshot() ChatStatsSnapshot {
	if s == nil {
		return ChatStatsSnapshot{}
	}
	return ChatStatsSnapshot{
		ActiveSessions: s.activeSessions.Load(),
		Messages:       s.messages.Load(),
		Delivered:      s.delivered.Load(),
		FailedPushes:   s.failedPushes.Load(),
		Departures:     s.departures.Load(),
		RejectedClaims: s.rejectedClaims.Load(),
	}
}
