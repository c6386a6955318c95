package gormstore

import (
	"context"
	"fmt"

	"daleel-service/internal/model"
	"daleel-service/internal/store"

	"gorm.io/gorm"
)

// CreateUser inserts a new user. The phone number must not be registered yet.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if user.Phone == "" || user.Name == "" {
		return fmt.Errorf("%w: phone and name are required", store.ErrValidation)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("phone = ?", user.Phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return store.ErrDuplicatePhone
	}

	return translateErr(s.db.WithContext(ctx).Create(user).Error)
}

// UserByID returns the user with the given id.
func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// UserByPhone returns the user registered under the exact phone number.
func (s *Store) UserByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

// UpdateUser saves profile changes for an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	result := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Select("*").Omit("id", "created_at").
		Updates(user)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func applyUserFilters(q *gorm.DB, filters store.UserFilters) *gorm.DB {
	if filters.City != "" {
		q = q.Where("city = ?", filters.City)
	}
	if filters.AccountType != "" {
		q = q.Where("account_type = ?", filters.AccountType)
	}
	if filters.IsVerified != nil {
		q = q.Where("is_verified = ?", *filters.IsVerified)
	}
	if filters.IsActive != nil {
		q = q.Where("is_active = ?", *filters.IsActive)
	}
	return q
}

// ListUsers returns users matching the filters.
func (s *Store) ListUsers(ctx context.Context, filters store.UserFilters) ([]model.User, error) {
	var users []model.User
	q := applyUserFilters(s.db.WithContext(ctx), filters)
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SearchUsersByName returns users whose name contains the query.
func (s *Store) SearchUsersByName(ctx context.Context, name string, filters store.UserFilters) ([]model.User, error) {
	var users []model.User
	q := applyUserFilters(s.db.WithContext(ctx), filters).
		Where("name LIKE ?", "%"+name+"%")
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SearchUsersByPhone returns users whose phone matches any variant of the
// query: the raw query as substring, the local fragment as substring, or any
// country-prefixed form. False positives across countries with compatible
// local-number lengths are an accepted property of this heuristic.
func (s *Store) SearchUsersByPhone(ctx context.Context, match store.PhoneMatch, filters store.UserFilters) ([]model.User, error) {
	db := s.db.WithContext(ctx)

	cond := db.Where("phone LIKE ?", "%"+match.Query+"%")
	if match.Local != "" {
		cond = cond.Or("phone LIKE ?", "%"+match.Local+"%")
	}
	for _, form := range match.Prefixed {
		cond = cond.Or("phone LIKE ?", "%"+form+"%")
	}

	var users []model.User
	q := applyUserFilters(db.Where(cond), filters)
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
