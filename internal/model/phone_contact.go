package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultContactName is stored when a submitter does not supply a name.
const DefaultContactName = "Unknown"

// PhoneContact is a crowd-sourced claim that a phone number belongs to a name.
// Many contacts may share one phone number; each references the submitting
// user together with a snapshot of the submitter's locality at submission time.
type PhoneContact struct {
	ID            string `json:"id" gorm:"type:varchar(36);primaryKey"`
	PhoneNumber   string `json:"phone_number" gorm:"index;not null"`
	ContactName   string `json:"contact_name" gorm:"not null;default:'Unknown'"`
	AddedByUserID string `json:"added_by_user_id" gorm:"type:varchar(36);index;not null"`

	// Locality snapshot of the submitter, independent of their current profile
	UserCity    string `json:"user_city,omitempty"`
	UserCountry string `json:"user_country,omitempty"`
	UserRegion  string `json:"user_region,omitempty"`

	IsVerified         bool       `json:"is_verified" gorm:"not null;default:false"`
	VerificationMethod string     `json:"verification_method,omitempty"` // "sms", "call", "manual"
	VerificationDate   *time.Time `json:"verification_date,omitempty"`

	// ReportCount only increases; it is incremented atomically with the
	// insertion of each ContactReport.
	ReportCount int `json:"report_count" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key and the fallback contact name
func (p *PhoneContact) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.ContactName == "" {
		p.ContactName = DefaultContactName
	}
	return nil
}
