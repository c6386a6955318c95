package gormstore

import (
	"context"
	"fmt"
	"math"

	"daleel-service/internal/model"
	"daleel-service/internal/store"
)

// CreateReview inserts a review for a user profile.
func (s *Store) CreateReview(ctx context.Context, review *model.Review) error {
	if review.UserID == "" || review.ReviewerName == "" {
		return fmt.Errorf("%w: user id and reviewer name are required", store.ErrValidation)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", store.ErrValidation)
	}
	return translateErr(s.db.WithContext(ctx).Create(review).Error)
}

// ReviewsForUser returns all reviews for a user, newest first.
func (s *Store) ReviewsForUser(ctx context.Context, userID string) ([]model.Review, error) {
	var reviews []model.Review
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// RatingSummary returns the average rating and review count for a user,
// with the average rounded to one decimal place.
func (s *Store) RatingSummary(ctx context.Context, userID string) (*model.RatingSummary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	if err := s.db.WithContext(ctx).Model(&model.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	summary := &model.RatingSummary{Count: row.Count}
	if row.Average != nil {
		summary.Average = math.Round(*row.Average*10) / 10
	}
	return summary, nil
}
