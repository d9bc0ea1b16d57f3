// Package pipeline runs the fetch-then-reconcile cycle, once or on a fixed
// interval.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polysync/polysync/internal/domain"
	"github.com/polysync/polysync/internal/platform/polymarket"
)

// EventFetcher retrieves raw events from the Gamma API.
type EventFetcher interface {
	FetchAllEvents(ctx context.Context, maxEvents int) []polymarket.APIEvent
}

// Syncer fetches all open events and reconciles them into the store.
type Syncer struct {
	reconciler domain.Reconciler
	fetcher    EventFetcher
	maxEvents  int
	logger     *slog.Logger
}

// NewSyncer creates a Syncer. maxEvents > 0 caps how many events one cycle
// ingests; zero means no cap.
func NewSyncer(reconciler domain.Reconciler, fetcher EventFetcher, maxEvents int, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		reconciler: reconciler,
		fetcher:    fetcher,
		maxEvents:  maxEvents,
		logger:     logger.With(slog.String("component", "syncer")),
	}
}

// Run executes a single fetch+reconcile cycle and returns the batch stats. A
// fetch that yields nothing is not an error; the cycle is simply a no-op.
func (s *Syncer) Run(ctx context.Context) (domain.SyncStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.SyncStats{}, fmt.Errorf("pipeline: sync cancelled: %w", err)
	}

	raw := s.fetcher.FetchAllEvents(ctx, s.maxEvents)
	if len(raw) == 0 {
		s.logger.Warn("no events fetched, skipping reconcile")
		return domain.SyncStats{}, nil
	}
	s.logger.Info("fetched events", slog.Int("count", len(raw)))

	events := make([]domain.Event, 0, len(raw))
	for i := range raw {
		events = append(events, raw[i].ToDomainEvent())
	}

	stats, err := s.reconciler.ReconcileEvents(ctx, events)
	if err != nil {
		return domain.SyncStats{}, fmt.Errorf("pipeline: reconcile %d events: %w", len(events), err)
	}

	s.logger.Info("reconcile complete",
		slog.Int("events_added", stats.EventsAdded),
		slog.Int("events_updated", stats.EventsUpdated),
		slog.Int("markets_added", stats.MarketsAdded),
		slog.Int("markets_updated", stats.MarketsUpdated),
	)
	return stats, nil
}

// RunLoop runs sync cycles on a fixed interval until the context is
// cancelled. The first cycle runs immediately. A failed cycle is logged and
// the loop waits out the same interval before trying again; there is no
// backoff and no retry limit. Cancellation is only observed between cycles,
// so an in-flight batch always finishes or rolls back before shutdown.
func (s *Syncer) RunLoop(ctx context.Context, interval time.Duration) error {
	s.logger.Info("update loop starting", slog.Duration("interval", interval))

	if _, err := s.Run(ctx); err != nil {
		s.logger.Error("sync cycle failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("update loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				s.logger.Error("sync cycle failed", slog.String("error", err.Error()))
			}
		}
	}
}
