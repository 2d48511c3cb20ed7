package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[entity.LeadStatus]int64, error)
}

var trackedStatuses = []entity.LeadStatus{
	entity.LeadStatusNew,
	entity.LeadStatusWarm,
	entity.LeadStatusHot,
	entity.LeadStatusConverted,
	entity.LeadStatusLost,
}

// LeadStatsWorker refreshes the leads_by_status gauge on a fixed interval.
type LeadStatsWorker struct {
	counter      StatusCounter
	tickInterval time.Duration
	timeout      time.Duration
	publish      func(status string, count float64)
}

func NewLeadStatsWorker(counter StatusCounter, interval time.Duration) *LeadStatsWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &LeadStatsWorker{
		counter:      counter,
		tickInterval: interval,
		timeout:      10 * time.Second,
		publish:      metrics.SetLeadsByStatus,
	}
}

func (w *LeadStatsWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.tickInterval).Msg("lead stats worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("lead stats worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *LeadStatsWorker) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	counts, err := w.counter.CountByStatus(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to count leads by status")
		return
	}

	// Statuses with no leads are reported as zero instead of keeping a stale value.
	for _, status := range trackedStatuses {
		w.publish(string(status), float64(counts[status]))
	}
}
