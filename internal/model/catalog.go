package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is an offering listed by a business account.
type Service struct {
	ID          string   `json:"id" gorm:"type:varchar(36);primaryKey"`
	BusinessID  string   `json:"business_id" gorm:"type:varchar(36);index;not null"`
	Title       string   `json:"title" gorm:"not null"`
	Description string   `json:"description,omitempty" gorm:"type:text"`
	Price       string   `json:"price,omitempty"` // free text, supports ranges and "on request"
	Category    string   `json:"category" gorm:"not null"`
	Duration    string   `json:"duration,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty" gorm:"serializer:json"`
	Tags        []string `json:"tags,omitempty" gorm:"serializer:json"`
	IsActive    bool     `json:"is_active" gorm:"not null;default:true"`
	IsFeatured  bool     `json:"is_featured" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is a physical or digital good listed by a business account.
type Product struct {
	ID             string   `json:"id" gorm:"type:varchar(36);primaryKey"`
	BusinessID     string   `json:"business_id" gorm:"type:varchar(36);index;not null"`
	Name           string   `json:"name" gorm:"not null"`
	Description    string   `json:"description,omitempty" gorm:"type:text"`
	Price          string   `json:"price,omitempty"`
	OriginalPrice  string   `json:"original_price,omitempty"`
	Category       string   `json:"category" gorm:"not null"`
	StockQuantity  int      `json:"stock_quantity" gorm:"default:0"`
	ImageURLs      []string `json:"image_urls,omitempty" gorm:"serializer:json"`
	Specifications string   `json:"specifications,omitempty" gorm:"type:text"`
	Tags           []string `json:"tags,omitempty" gorm:"serializer:json"`
	Weight         string   `json:"weight,omitempty"`
	Dimensions     string   `json:"dimensions,omitempty"`
	IsActive       bool     `json:"is_active" gorm:"not null;default:true"`
	IsFeatured     bool     `json:"is_featured" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key when none is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
