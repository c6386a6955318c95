package gormstore

import (
	"context"

	"daleel-service/internal/model"
)

// AddFavorite marks a user profile as a favorite of another user. Adding the
// same favorite twice is a no-op.
func (s *Store) AddFavorite(ctx context.Context, userID, itemID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	favorite := model.Favorite{UserID: userID, ItemType: "user", ItemID: itemID}
	return translateErr(s.db.WithContext(ctx).Create(&favorite).Error)
}

// RemoveFavorite removes a favorite. Removing a missing favorite is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, userID, itemID string) error {
	return translateErr(s.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&model.Favorite{}).Error)
}

// FavoriteUsers returns the user profiles favorited by the given user.
func (s *Store) FavoriteUsers(ctx context.Context, userID string) ([]model.User, error) {
	var users []model.User
	sub := s.db.Model(&model.Favorite{}).
		Select("item_id").
		Where("user_id = ?", userID)
	if err := s.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
