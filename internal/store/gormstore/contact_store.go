package gormstore

import (
	"context"
	"fmt"
	"time"

	"daleel-service/internal/model"
	"daleel-service/internal/store"

	"gorm.io/gorm"
)

// CreateContact inserts a single phone contact.
func (s *Store) CreateContact(ctx context.Context, contact *model.PhoneContact) error {
	if contact.PhoneNumber == "" || contact.AddedByUserID == "" {
		return fmt.Errorf("%w: phone number and submitter are required", store.ErrValidation)
	}
	return translateErr(s.db.WithContext(ctx).Create(contact).Error)
}

// CreateContacts inserts a batch of contacts, used by contact sync.
func (s *Store) CreateContacts(ctx context.Context, contacts []*model.PhoneContact) error {
	if len(contacts) == 0 {
		return nil
	}
	for _, contact := range contacts {
		if contact.PhoneNumber == "" || contact.AddedByUserID == "" {
			return fmt.Errorf("%w: phone number and submitter are required", store.ErrValidation)
		}
	}
	return translateErr(s.db.WithContext(ctx).Create(contacts).Error)
}

// ContactByID returns the contact with the given id.
func (s *Store) ContactByID(ctx context.Context, id string) (*model.PhoneContact, error) {
	var contact model.PhoneContact
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, translateErr(err)
	}
	return &contact, nil
}

func applyContactFilters(q *gorm.DB, filters store.ContactFilters) *gorm.DB {
	if filters.City != "" {
		q = q.Where("user_city = ?", filters.City)
	}
	if filters.Country != "" {
		q = q.Where("user_country = ?", filters.Country)
	}
	if filters.Region != "" {
		q = q.Where("user_region = ?", filters.Region)
	}
	if filters.AddedByUserID != "" {
		q = q.Where("added_by_user_id = ?", filters.AddedByUserID)
	}
	if filters.IsVerified != nil {
		q = q.Where("is_verified = ?", *filters.IsVerified)
	}
	return q
}

// ContactsByPhone returns contacts whose number equals the query, contains
// the local fragment, or equals a country-prefixed form. Newest first.
func (s *Store) ContactsByPhone(ctx context.Context, match store.PhoneMatch, filters store.ContactFilters) ([]model.PhoneContact, error) {
	db := s.db.WithContext(ctx)

	cond := db.Where("phone_number = ?", match.Query)
	if match.Local != "" {
		cond = cond.Or("phone_number LIKE ?", "%"+match.Local+"%")
	}
	for _, form := range match.Prefixed {
		cond = cond.Or("phone_number = ?", form)
	}

	var contacts []model.PhoneContact
	q := applyContactFilters(db.Where(cond), filters)
	if err := q.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// ContactsByName returns contacts whose saved name contains the query.
// Newest first.
func (s *Store) ContactsByName(ctx context.Context, name string, filters store.ContactFilters) ([]model.PhoneContact, error) {
	var contacts []model.PhoneContact
	q := applyContactFilters(s.db.WithContext(ctx), filters).
		Where("contact_name LIKE ?", "%"+name+"%")
	if err := q.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// ContactsByUser returns every contact submitted by one user, newest first.
func (s *Store) ContactsByUser(ctx context.Context, userID string) ([]model.PhoneContact, error) {
	var contacts []model.PhoneContact
	if err := s.db.WithContext(ctx).
		Where("added_by_user_id = ?", userID).
		Order("created_at DESC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// UpdateContact saves changes to an existing contact.
func (s *Store) UpdateContact(ctx context.Context, contact *model.PhoneContact) error {
	result := s.db.WithContext(ctx).Model(&model.PhoneContact{}).
		Where("id = ?", contact.ID).
		Select("*").Omit("id", "created_at", "report_count").
		Updates(contact)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteContact removes a contact permanently.
func (s *Store) DeleteContact(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PhoneContact{})
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// VerifyContact marks the contact verified with the given method. A second
// verification overwrites the method and date without error.
func (s *Store) VerifyContact(ctx context.Context, id, method string) (*model.PhoneContact, error) {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&model.PhoneContact{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_verified":         true,
			"verification_method": method,
			"verification_date":   now,
			"updated_at":          now,
		})
	if result.Error != nil {
		return nil, translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.ContactByID(ctx, id)
}

// ReportContact inserts the report and increments the contact's report count
// inside one transaction. The increment runs in the database, never as a
// read-modify-write in application code, so concurrent reports cannot lose
// updates.
func (s *Store) ReportContact(ctx context.Context, report *model.ContactReport) error {
	if report.PhoneContactID == "" || report.ReportedByUserID == "" || report.ReportType == "" {
		return fmt.Errorf("%w: contact id, reporter and report type are required", store.ErrValidation)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.PhoneContact{}).
			Where("id = ?", report.PhoneContactID).
			Updates(map[string]interface{}{
				"report_count": gorm.Expr("report_count + ?", 1),
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}

		return tx.Create(report).Error
	})
}

// ReportsByContact returns all reports filed against a contact, newest first.
func (s *Store) ReportsByContact(ctx context.Context, contactID string) ([]model.ContactReport, error) {
	var reports []model.ContactReport
	if err := s.db.WithContext(ctx).
		Where("phone_contact_id = ?", contactID).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
