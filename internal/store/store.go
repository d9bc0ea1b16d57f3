// Package store implements persistence for events, markets, outcome price
// snapshots and tags on top of GORM. The DSN selects the engine: PostgreSQL
// connection strings get the pgx-backed postgres driver, anything else is
// treated as a SQLite file path so the default deployment needs nothing but a
// local file.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/polysync/polysync/internal/domain"
)

// Store wraps a gorm.DB and implements the reconciler and query interfaces
// declared in the domain package.
type Store struct {
	db             *gorm.DB
	logger         *slog.Logger
	snapshotPrices bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l.With(slog.String("component", "store"))
	}
}

// WithPriceSnapshots enables appending one OutcomePrice row per (market,
// outcome) pair during every reconcile batch.
func WithPriceSnapshots(enabled bool) Option {
	return func(s *Store) {
		s.snapshotPrices = enabled
	}
}

// Open connects to the database selected by dsn and returns a Store. The
// schema is not touched; call AutoMigrate before first use.
func Open(dsn string, opts ...Option) (*Store, error) {
	var dialector gorm.Dialector
	if isPostgresDSN(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", redactDSN(dsn), err)
	}

	s := &Store{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// isPostgresDSN reports whether dsn looks like a PostgreSQL connection string
// rather than a SQLite file path.
func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// redactDSN strips credentials from a DSN for log and error output.
func redactDSN(dsn string) string {
	if i := strings.Index(dsn, "@"); i >= 0 {
		if j := strings.Index(dsn, "://"); j >= 0 && j < i {
			return dsn[:j+3] + "***" + dsn[i:]
		}
	}
	return dsn
}

// AutoMigrate creates or updates the tables for all persisted models.
func (s *Store) AutoMigrate() error {
	models := []any{
		&domain.Event{},
		&domain.Market{},
		&domain.OutcomePrice{},
		&domain.Tag{},
	}
	for _, model := range models {
		if err := s.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("store: migrate %T: %w", model, err)
		}
	}
	return nil
}

// DB exposes the underlying gorm handle, primarily for tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return sqlDB.Close()
}

// ctx-scoped handle shorthand used by all query methods.
func (s *Store) h(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
