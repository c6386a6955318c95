package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account types supported for registration.
const (
	AccountTypePersonal = "personal"
	AccountTypeBusiness = "business"
)

// User represents a registrant, either a person or a business.
// The phone number is the unique login identifier.
type User struct {
	ID          string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Phone       string `json:"phone" gorm:"type:varchar(32);uniqueIndex;not null"`
	Password    string `json:"-" gorm:"not null"` // bcrypt hash, never serialized
	Name        string `json:"name" gorm:"not null"`
	Email       string `json:"email,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	Region      string `json:"region,omitempty"`
	Address     string `json:"address,omitempty"`
	AccountType string `json:"account_type" gorm:"type:varchar(20);not null;default:'personal'"`
	IsVerified  bool   `json:"is_verified" gorm:"not null;default:false"`
	IsActive    bool   `json:"is_active" gorm:"not null;default:true"`

	// Business-only fields
	Category      string   `json:"category,omitempty"`
	Description   string   `json:"description,omitempty" gorm:"type:text"`
	Website       string   `json:"website,omitempty"`
	LogoURL       string   `json:"logo_url,omitempty"`
	CoverImageURL string   `json:"cover_image_url,omitempty"`
	WorkingHours  string   `json:"working_hours,omitempty"`
	Tags          []string `json:"tags,omitempty" gorm:"serializer:json"`

	LastContactsSync *time.Time `json:"last_contacts_sync,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.AccountType == "" {
		u.AccountType = AccountTypePersonal
	}
	return nil
}
