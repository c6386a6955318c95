package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating left on a user profile (typically a business).
type Review struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID       string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	ReviewerName string    `json:"reviewer_name" gorm:"not null"`
	Rating       int       `json:"rating" gorm:"not null"`
	Comment      string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}

// RatingSummary aggregates a user's reviews.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
