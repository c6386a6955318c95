// Package gormstore implements store.Store on top of a gorm database,
// serving both the Postgres production deployment and the SQLite
// development deployment.
package gormstore

import (
	"errors"

	"daleel-service/internal/model"
	"daleel-service/internal/store"

	"gorm.io/gorm"
)

// Store implements store.Store over a *gorm.DB.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New creates a gorm-backed store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate runs auto-migrations for every model owned by the store.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.PhoneContact{},
		&model.ContactReport{},
		&model.SearchHistory{},
		&model.Review{},
		&model.Service{},
		&model.Product{},
		&model.Favorite{},
	)
}

// translateErr maps gorm sentinel errors onto store sentinel errors.
func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicatePhone
	}
	return err
}
