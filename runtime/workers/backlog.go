package workers

import (
	"context"
	"learning-lab/contract"
	"log/slog"
	"time"
)

var _ contract.Worker = (*BacklogWorker)(nil)

// BacklogReporter is implemented by sinks able to tell how full their buffer is.
type BacklogReporter interface {
	Backlog() (length, capacity int)
}

// ParticipantLister returns the participants currently registered.
type ParticipantLister interface {
	Snapshot() []contract.Participant
}

// BacklogWorker periodically samples the outbound buffer of every participant
// and warns about those close to dropping messages.
// Sampling len and cap is non-blocking, so it won't interfere with the broadcasters.
type BacklogWorker struct {
	log          *slog.Logger
	participants ParticipantLister
	interval     time.Duration
	warnRatio    float64
}

func NewBacklogWorker(log *slog.Logger, participants ParticipantLister,
	interval time.Duration, warnRatio float64) *BacklogWorker {
	return &BacklogWorker{
		log:          log,
		participants: participants,
		interval:     interval,
		warnRatio:    warnRatio,
	}
}

func (w *BacklogWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping backlog sampling")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

// sample returns the identities whose backlog reached the warning ratio.
func (w *BacklogWorker) sample() []string {
	var congested []string
	for _, p := range w.participants.Snapshot() {
		reporter, ok := p.Sink.(BacklogReporter)
		if !ok {
			continue
		}
		length, capacity := reporter.Backlog()
		if capacity == 0 || float64(length)/float64(capacity) < w.warnRatio {
			continue
		}
		congested = append(congested, string(p.Identity))
		w.log.Warn("participant backlog is filling up",
			"identity", p.Identity,
			"length", length,
			"capacity", capacity)
	}
	return congested
}
