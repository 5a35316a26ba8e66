package workers

import (
	"context"
	"learning-lab/contract"
	"learning-lab/observability"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*ReporterWorker)(nil)

// ParticipantCounter reports how many participants are registered.
type ParticipantCounter interface {
	Len() int
}

// ReporterWorker periodically logs the relay counters along with the
// process footprint.
type ReporterWorker struct {
	log          *slog.Logger
	stats        *observability.ChatStats
	participants ParticipantCounter
	interval     time.Duration
}

func NewReporterWorker(log *slog.Logger, stats *observability.ChatStats,
	participants ParticipantCounter, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{
		log:          log,
		stats:        stats,
		participants: participants,
		interval:     interval,
	}
}

// Run starts the reporting loop until context cancellation
func (w *ReporterWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report(p)
			return nil
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *ReporterWorker) report(p *process.Process) {
	stats := w.stats.Snapshot()
	attrs := []any{
		"participants", w.participants.Len(),
		"active_sessions", stats.ActiveSessions,
		"messages", stats.Messages,
		"delivered", stats.Delivered,
		"failed_pushes", stats.FailedPushes,
		"departures", stats.Departures,
		"rejected_claims", stats.RejectedClaims,
	}
	if memInfo, err := p.MemoryInfo(); err == nil {
		attrs = append(attrs, "rss_bytes", memInfo.RSS)
	}
	if cpu, err := p.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu_percent", cpu)
	}
	w.log.Info("chat relay stats", attrs...)
}
