package memstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"daleel-service/internal/model"
	"daleel-service/internal/store"
)

func matchesUserFilters(u *model.User, filters store.UserFilters) bool {
	if filters.City != "" && u.City != filters.City {
		return false
	}
	if filters.AccountType != "" && u.AccountType != filters.AccountType {
		return false
	}
	if filters.IsVerified != nil && u.IsVerified != *filters.IsVerified {
		return false
	}
	if filters.IsActive != nil && u.IsActive != *filters.IsActive {
		return false
	}
	return true
}

// CreateUser inserts a new user. The phone number must not be registered yet.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if user.Phone == "" || user.Name == "" {
		return fmt.Errorf("%w: phone and name are required", store.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Phone == user.Phone {
			return store.ErrDuplicatePhone
		}
	}

	user.ID = newID(user.ID)
	if user.AccountType == "" {
		user.AccountType = model.AccountTypePersonal
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// UserByID returns the user with the given id.
func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

// UserByPhone returns the user registered under the exact phone number.
func (s *Store) UserByPhone(ctx context.Context, phone string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Phone == phone {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateUser saves profile changes for an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return store.ErrNotFound
	}

	clone := *user
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	s.users[user.ID] = &clone
	return nil
}

// ListUsers returns users matching the filters.
func (s *Store) ListUsers(ctx context.Context, filters store.UserFilters) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0)
	for _, user := range s.users {
		if matchesUserFilters(user, filters) {
			users = append(users, *user)
		}
	}
	return users, nil
}

// SearchUsersByName returns users whose name contains the query.
func (s *Store) SearchUsersByName(ctx context.Context, name string, filters store.UserFilters) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0)
	for _, user := range s.users {
		if strings.Contains(user.Name, name) && matchesUserFilters(user, filters) {
			users = append(users, *user)
		}
	}
	return users, nil
}

// SearchUsersByPhone returns users whose phone matches any variant of the
// query.
func (s *Store) SearchUsersByPhone(ctx context.Context, match store.PhoneMatch, filters store.UserFilters) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0)
	for _, user := range s.users {
		if !matchesUserFilters(user, filters) {
			continue
		}
		if strings.Contains(user.Phone, match.Query) ||
			(match.Local != "" && strings.Contains(user.Phone, match.Local)) ||
			containsAny(user.Phone, match.Prefixed) {
			users = append(users, *user)
		}
	}
	return users, nil
}

func containsAny(phone string, forms []string) bool {
	for _, form := range forms {
		if strings.Contains(phone, form) {
			return true
		}
	}
	return false
}
