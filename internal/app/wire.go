package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polysync/polysync/internal/config"
	"github.com/polysync/polysync/internal/pipeline"
	"github.com/polysync/polysync/internal/platform/polymarket"
	"github.com/polysync/polysync/internal/store"
)

// Dependencies bundles every concrete dependency that the application modes
// need to operate. It is constructed by Wire and torn down by the returned
// cleanup function.
type Dependencies struct {
	Store  *store.Store
	Gamma  *polymarket.GammaClient
	Syncer *pipeline.Syncer
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	st, err := store.Open(cfg.Database.DSN,
		store.WithLogger(logger),
		store.WithPriceSnapshots(cfg.Sync.SnapshotPrices),
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("app: open store: %w", err)
	}
	closers = append(closers, func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", slog.String("error", err.Error()))
		}
	})

	if err := st.AutoMigrate(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("app: migrate store: %w", err)
	}

	gamma := polymarket.NewGammaClient(cfg.Polymarket.GammaHost, logger)
	syncer := pipeline.NewSyncer(st, gamma, cfg.Sync.MaxEvents, logger)

	return &Dependencies{
		Store:  st,
		Gamma:  gamma,
		Syncer: syncer,
	}, cleanup, nil
}
