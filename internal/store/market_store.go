package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/polysync/polysync/internal/domain"
)

// MarketsByKeyword returns up to limit future+active markets whose question
// or description contains keyword, case-insensitively, soonest-ending first.
// lower(...) LIKE keeps the predicate portable across SQLite and PostgreSQL.
func (s *Store) MarketsByKeyword(ctx context.Context, keyword string, limit int) ([]domain.Market, error) {
	kw := "%" + strings.ToLower(keyword) + "%"
	var markets []domain.Market
	q := s.h(ctx).
		Where("end_date > ? AND active = ?", time.Now().UTC(), true).
		Where("lower(question) LIKE ? OR lower(description) LIKE ?", kw, kw).
		Order("end_date asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&markets).Error; err != nil {
		return nil, fmt.Errorf("store: markets by keyword %q: %w", keyword, err)
	}
	return markets, nil
}

// AcceptingOrderMarkets returns markets currently accepting orders.
func (s *Store) AcceptingOrderMarkets(ctx context.Context, limit int) ([]domain.Market, error) {
	var markets []domain.Market
	q := s.h(ctx).Where("accepting_orders = ?", true)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&markets).Error; err != nil {
		return nil, fmt.Errorf("store: accepting-order markets: %w", err)
	}
	return markets, nil
}

// GetMarketByID retrieves one market.
func (s *Store) GetMarketByID(ctx context.Context, id string) (domain.Market, error) {
	var m domain.Market
	err := s.h(ctx).Take(&m, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return domain.Market{}, domain.ErrNotFound
		}
		return domain.Market{}, fmt.Errorf("store: get market %s: %w", id, err)
	}
	return m, nil
}

// CountMarkets returns the total number of stored markets.
func (s *Store) CountMarkets(ctx context.Context) (int64, error) {
	var count int64
	if err := s.h(ctx).Model(&domain.Market{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("store: count markets: %w", err)
	}
	return count, nil
}

// CountOutcomePrices returns the number of stored price snapshot rows.
func (s *Store) CountOutcomePrices(ctx context.Context) (int64, error) {
	var count int64
	if err := s.h(ctx).Model(&domain.OutcomePrice{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("store: count outcome prices: %w", err)
	}
	return count, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
