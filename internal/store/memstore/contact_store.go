package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"daleel-service/internal/model"
	"daleel-service/internal/store"
)

func matchesContactFilters(c *model.PhoneContact, filters store.ContactFilters) bool {
	if filters.City != "" && c.UserCity != filters.City {
		return false
	}
	if filters.Country != "" && c.UserCountry != filters.Country {
		return false
	}
	if filters.Region != "" && c.UserRegion != filters.Region {
		return false
	}
	if filters.AddedByUserID != "" && c.AddedByUserID != filters.AddedByUserID {
		return false
	}
	if filters.IsVerified != nil && c.IsVerified != *filters.IsVerified {
		return false
	}
	return true
}

func (s *Store) insertContactLocked(contact *model.PhoneContact) error {
	if contact.PhoneNumber == "" || contact.AddedByUserID == "" {
		return fmt.Errorf("%w: phone number and submitter are required", store.ErrValidation)
	}

	contact.ID = newID(contact.ID)
	if contact.ContactName == "" {
		contact.ContactName = model.DefaultContactName
	}
	stamp(&contact.CreatedAt)
	contact.UpdatedAt = contact.CreatedAt

	clone := *contact
	s.contacts[contact.ID] = &clone
	return nil
}

// CreateContact inserts a single phone contact.
func (s *Store) CreateContact(ctx context.Context, contact *model.PhoneContact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertContactLocked(contact)
}

// CreateContacts inserts a batch of contacts, used by contact sync.
func (s *Store) CreateContacts(ctx context.Context, contacts []*model.PhoneContact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, contact := range contacts {
		if contact.PhoneNumber == "" || contact.AddedByUserID == "" {
			return fmt.Errorf("%w: phone number and submitter are required", store.ErrValidation)
		}
	}
	for _, contact := range contacts {
		if err := s.insertContactLocked(contact); err != nil {
			return err
		}
	}
	return nil
}

// ContactByID returns the contact with the given id.
func (s *Store) ContactByID(ctx context.Context, id string) (*model.PhoneContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, ok := s.contacts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *contact
	return &clone, nil
}

// ContactsByPhone returns contacts whose number matches the query variants,
// newest first.
func (s *Store) ContactsByPhone(ctx context.Context, match store.PhoneMatch, filters store.ContactFilters) ([]model.PhoneContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contacts := make([]model.PhoneContact, 0)
	for _, contact := range s.contacts {
		if matchesPhone(contact.PhoneNumber, match) && matchesContactFilters(contact, filters) {
			contacts = append(contacts, *contact)
		}
	}
	newestFirst(contacts)
	return contacts, nil
}

// ContactsByName returns contacts whose saved name contains the query,
// newest first.
func (s *Store) ContactsByName(ctx context.Context, name string, filters store.ContactFilters) ([]model.PhoneContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contacts := make([]model.PhoneContact, 0)
	for _, contact := range s.contacts {
		if strings.Contains(contact.ContactName, name) && matchesContactFilters(contact, filters) {
			contacts = append(contacts, *contact)
		}
	}
	newestFirst(contacts)
	return contacts, nil
}

// ContactsByUser returns every contact submitted by one user, newest first.
func (s *Store) ContactsByUser(ctx context.Context, userID string) ([]model.PhoneContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contacts := make([]model.PhoneContact, 0)
	for _, contact := range s.contacts {
		if contact.AddedByUserID == userID {
			contacts = append(contacts, *contact)
		}
	}
	newestFirst(contacts)
	return contacts, nil
}

// UpdateContact saves changes to an existing contact. The report count is
// owned by the report path and is preserved.
func (s *Store) UpdateContact(ctx context.Context, contact *model.PhoneContact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contacts[contact.ID]
	if !ok {
		return store.ErrNotFound
	}

	clone := *contact
	clone.CreatedAt = existing.CreatedAt
	clone.ReportCount = existing.ReportCount
	clone.UpdatedAt = time.Now()
	s.contacts[contact.ID] = &clone
	return nil
}

// DeleteContact removes a contact permanently.
func (s *Store) DeleteContact(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}

// VerifyContact marks the contact verified with the given method. A second
// verification overwrites the method and date without error.
func (s *Store) VerifyContact(ctx context.Context, id, method string) (*model.PhoneContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	now := time.Now()
	contact.IsVerified = true
	contact.VerificationMethod = method
	contact.VerificationDate = &now
	contact.UpdatedAt = now

	clone := *contact
	return &clone, nil
}

// ReportContact inserts the report and increments the contact's report count
// while holding the write lock, so concurrent reports cannot lose updates.
func (s *Store) ReportContact(ctx context.Context, report *model.ContactReport) error {
	if report.PhoneContactID == "" || report.ReportedByUserID == "" || report.ReportType == "" {
		return fmt.Errorf("%w: contact id, reporter and report type are required", store.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[report.PhoneContactID]
	if !ok {
		return store.ErrNotFound
	}

	report.ID = newID(report.ID)
	stamp(&report.CreatedAt)
	clone := *report
	s.reports[report.ID] = &clone

	contact.ReportCount++
	contact.UpdatedAt = time.Now()
	return nil
}

// ReportsByContact returns all reports filed against a contact, newest first.
func (s *Store) ReportsByContact(ctx context.Context, contactID string) ([]model.ContactReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]model.ContactReport, 0)
	for _, report := range s.reports {
		if report.PhoneContactID == contactID {
			reports = append(reports, *report)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}
