package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report types commonly filed against a contact. The set is open; the field
// is stored as free text.
const (
	ReportTypeSpam          = "spam"
	ReportTypeIncorrect     = "incorrect"
	ReportTypeInappropriate = "inappropriate"
)

// ContactReport is a complaint filed against a specific PhoneContact.
// Creating one increments the contact's report count in the same transaction.
type ContactReport struct {
	ID               string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	PhoneContactID   string    `json:"phone_contact_id" gorm:"type:varchar(36);index;not null"`
	ReportedByUserID string    `json:"reported_by_user_id" gorm:"type:varchar(36);not null"`
	ReportType       string    `json:"report_type" gorm:"not null"`
	ReportReason     string    `json:"report_reason,omitempty" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (r *ContactReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
