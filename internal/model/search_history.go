package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Search types recorded in history.
const (
	SearchTypeName  = "name"
	SearchTypePhone = "phone"
)

// SearchHistory is an append-only record of an executed search together with
// a serialized snapshot of its results. Entries are never mutated.
type SearchHistory struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Query      string    `json:"query" gorm:"not null"`
	SearchType string    `json:"search_type" gorm:"not null"`
	Results    string    `json:"results,omitempty" gorm:"type:text"` // JSON snapshot
	Timestamp  time.Time `json:"timestamp" gorm:"index;not null"`
}

// BeforeCreate assigns a UUID primary key and stamps the entry
func (s *SearchHistory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	return nil
}
