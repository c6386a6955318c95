package gormstore

import (
	"context"

	"daleel-service/internal/model"
)

// DefaultRecentLimit bounds history reads when the caller gives no limit.
const DefaultRecentLimit = 10

// AddSearch appends one entry to the search history log.
func (s *Store) AddSearch(ctx context.Context, entry *model.SearchHistory) error {
	return translateErr(s.db.WithContext(ctx).Create(entry).Error)
}

// RecentSearches returns the most recent entries, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]model.SearchHistory, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var entries []model.SearchHistory
	if err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
