package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/polysync/polysync/internal/report"
)

const defaultReportLimit = 20

// PopulateMode runs a single fetch-and-reconcile pass and exits.
func (a *App) PopulateMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting populate mode")

	stats, err := deps.Syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("app: populate: %w", err)
	}

	a.logger.InfoContext(ctx, "populate complete",
		slog.Int("events_added", stats.EventsAdded),
		slog.Int("events_updated", stats.EventsUpdated),
		slog.Int("markets_added", stats.MarketsAdded),
		slog.Int("markets_updated", stats.MarketsUpdated),
	)

	// Short post-populate summary on stdout.
	return report.New(deps.Store, deps.Store, os.Stdout).Overview(ctx)
}

// UpdateMode runs the sync pipeline on a fixed interval until the context is
// cancelled.
func (a *App) UpdateMode(ctx context.Context, deps *Dependencies) error {
	interval := time.Duration(a.cfg.Sync.IntervalSeconds) * time.Second
	a.logger.InfoContext(ctx, "starting update mode",
		slog.Duration("interval", interval),
	)
	return deps.Syncer.RunLoop(ctx, interval)
}

// ReportMode renders read-only views of the stored data to stdout. A tag or
// keyword option narrows the report to matching events or markets; otherwise
// the full overview is printed.
func (a *App) ReportMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting report mode")

	limit := a.report.Limit
	if limit <= 0 {
		limit = defaultReportLimit
	}

	r := report.New(deps.Store, deps.Store, os.Stdout)

	switch {
	case a.report.Tag != "":
		return r.TagSearch(ctx, a.report.Tag, limit)
	case a.report.Keyword != "":
		return r.KeywordSearch(ctx, a.report.Keyword, limit)
	default:
		if err := r.Overview(ctx); err != nil {
			return err
		}
		if err := r.Tags(ctx); err != nil {
			return err
		}
		if err := r.FutureEvents(ctx, limit); err != nil {
			return err
		}
		if err := r.RecentEvents(ctx, limit); err != nil {
			return err
		}
		if err := r.MultiMarketEvents(ctx, limit); err != nil {
			return err
		}
		return r.AcceptingMarkets(ctx, limit)
	}
}
