package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/polysync/polysync/internal/domain"
)

// FutureEvents returns active events whose end date lies in the future,
// soonest-ending first, with markets preloaded.
func (s *Store) FutureEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	var events []domain.Event
	q := s.h(ctx).
		Where("end_date > ? AND active = ?", time.Now().UTC(), true).
		Order("end_date asc").
		Preload("Markets")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("store: future events: %w", err)
	}
	return events, nil
}

// EventsByTag returns up to limit future+active events having at least one
// tag whose label or slug contains keyword, case-insensitively. Tags live in
// a JSON column, so matching is a linear scan over candidate rows that stops
// as soon as limit matches are collected.
func (s *Store) EventsByTag(ctx context.Context, keyword string, limit int) ([]domain.Event, error) {
	var candidates []domain.Event
	err := s.h(ctx).
		Where("end_date > ? AND active = ?", time.Now().UTC(), true).
		Order("end_date asc").
		Preload("Markets").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("store: events by tag %q: %w", keyword, err)
	}

	kw := strings.ToLower(keyword)
	var matched []domain.Event
	for i := range candidates {
		if tagMatches(candidates[i].Tags, kw) {
			matched = append(matched, candidates[i])
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// tagMatches reports whether any tag's label or slug contains the
// already-lowercased keyword.
func tagMatches(tags []domain.TagRef, kw string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t.Label), kw) ||
			strings.Contains(strings.ToLower(t.Slug), kw) {
			return true
		}
	}
	return false
}

// RecentActiveEvents returns the most recently created active events.
func (s *Store) RecentActiveEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	var events []domain.Event
	q := s.h(ctx).
		Where("active = ?", true).
		Order("created_at desc").
		Preload("Markets")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("store: recent active events: %w", err)
	}
	return events, nil
}

// MultiMarketEvents returns active events owning more than one market.
func (s *Store) MultiMarketEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	var events []domain.Event
	err := s.h(ctx).
		Where("active = ?", true).
		Preload("Markets").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("store: multi-market events: %w", err)
	}

	var out []domain.Event
	for i := range events {
		if len(events[i].Markets) > 1 {
			out = append(out, events[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// AllUniqueTags returns the sorted set of distinct tag labels across all
// events. Deduplication is case-sensitive.
func (s *Store) AllUniqueTags(ctx context.Context) ([]string, error) {
	var events []domain.Event
	if err := s.h(ctx).Select("tags").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("store: all unique tags: %w", err)
	}

	seen := make(map[string]struct{})
	for i := range events {
		for _, t := range events[i].Tags {
			if t.Label == "" {
				continue
			}
			seen[t.Label] = struct{}{}
		}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

// GetEventByID retrieves one event with markets preloaded.
func (s *Store) GetEventByID(ctx context.Context, id string) (domain.Event, error) {
	var ev domain.Event
	err := s.h(ctx).Preload("Markets").Take(&ev, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, fmt.Errorf("store: get event %s: %w", id, err)
	}
	return ev, nil
}

// CountEvents returns the total number of stored events.
func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := s.h(ctx).Model(&domain.Event{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("store: count events: %w", err)
	}
	return count, nil
}

// CountFutureEvents returns the number of events whose end date lies in the
// future.
func (s *Store) CountFutureEvents(ctx context.Context) (int64, error) {
	var count int64
	err := s.h(ctx).Model(&domain.Event{}).
		Where("end_date > ?", time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("store: count future events: %w", err)
	}
	return count, nil
}
