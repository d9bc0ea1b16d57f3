package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/polysync/polysync/internal/domain"
)

// ReconcileEvents merges a batch of fetched events and their nested markets
// into the store inside one transaction. Per record it decides insert vs.
// update by primary key; updates are a full-field overwrite from the freshly
// mapped candidate, never a partial patch. A market is always written after
// its parent event, in payload order. Any write failure rolls back the entire
// batch and returns the error with zero stats; the data is re-fetchable so
// the next cycle simply retries wholesale.
//
// Rows that have dropped out of the feed are left untouched: the reconciler
// never deletes.
func (s *Store) ReconcileEvents(ctx context.Context, events []domain.Event) (domain.SyncStats, error) {
	var stats domain.SyncStats
	snapshotAt := time.Now().UTC()

	err := s.h(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range events {
			ev := events[i]
			markets := ev.Markets
			ev.Markets = nil

			added, err := upsertByID(tx, &domain.Event{}, ev.ID, &ev)
			if err != nil {
				return fmt.Errorf("store: upsert event %s: %w", ev.ID, err)
			}
			if added {
				stats.EventsAdded++
			} else {
				stats.EventsUpdated++
			}

			for j := range markets {
				m := markets[j]
				added, err := upsertByID(tx, &domain.Market{}, m.ID, &m)
				if err != nil {
					return fmt.Errorf("store: upsert market %s (event %s): %w", m.ID, ev.ID, err)
				}
				if added {
					stats.MarketsAdded++
				} else {
					stats.MarketsUpdated++
				}

				if s.snapshotPrices {
					if err := appendPriceSnapshots(tx, m, snapshotAt); err != nil {
						return fmt.Errorf("store: snapshot prices for market %s: %w", m.ID, err)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return domain.SyncStats{}, err
	}
	return stats, nil
}

// upsertByID inserts record when no row with the given primary key exists,
// otherwise overwrites every column from record. Returns true when a new row
// was created.
func upsertByID[T any](tx *gorm.DB, probe *T, id string, record *T) (bool, error) {
	err := tx.Select("id").Take(probe, "id = ?", id).Error
	switch {
	case err == nil:
		if err := tx.Omit(clause.Associations).Save(record).Error; err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Omit(clause.Associations).Create(record).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// appendPriceSnapshots records one OutcomePrice row per outcome of m whose
// payload carried a parseable price. Entries without a matching price, or
// with a non-numeric one, are skipped silently.
func appendPriceSnapshots(tx *gorm.DB, m domain.Market, at time.Time) error {
	n := len(m.Outcomes)
	if len(m.OutcomePrices) < n {
		n = len(m.OutcomePrices)
	}
	for i := 0; i < n; i++ {
		price, err := strconv.ParseFloat(m.OutcomePrices[i], 64)
		if err != nil {
			continue
		}
		row := domain.OutcomePrice{
			MarketID:  m.ID,
			Outcome:   m.Outcomes[i],
			Price:     price,
			Timestamp: at,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
