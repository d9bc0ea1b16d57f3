package domain

import "context"

// SyncStats reports the outcome of one reconciliation batch.
type SyncStats struct {
	EventsAdded    int
	EventsUpdated  int
	MarketsAdded   int
	MarketsUpdated int
}

// Total returns the total number of rows touched by the batch.
func (s SyncStats) Total() int {
	return s.EventsAdded + s.EventsUpdated + s.MarketsAdded + s.MarketsUpdated
}

// Reconciler merges freshly fetched events (with their nested markets) into
// persisted storage as a single all-or-nothing batch.
type Reconciler interface {
	ReconcileEvents(ctx context.Context, events []Event) (SyncStats, error)
}

// EventQuerier provides the read-only event lookups used for reporting.
type EventQuerier interface {
	FutureEvents(ctx context.Context, limit int) ([]Event, error)
	EventsByTag(ctx context.Context, keyword string, limit int) ([]Event, error)
	RecentActiveEvents(ctx context.Context, limit int) ([]Event, error)
	MultiMarketEvents(ctx context.Context, limit int) ([]Event, error)
	AllUniqueTags(ctx context.Context) ([]string, error)
	CountEvents(ctx context.Context) (int64, error)
	CountFutureEvents(ctx context.Context) (int64, error)
}

// MarketQuerier provides the read-only market lookups used for reporting.
type MarketQuerier interface {
	MarketsByKeyword(ctx context.Context, keyword string, limit int) ([]Market, error)
	AcceptingOrderMarkets(ctx context.Context, limit int) ([]Market, error)
	CountMarkets(ctx context.Context) (int64, error)
}
