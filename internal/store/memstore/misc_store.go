package memstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"daleel-service/internal/model"
	"daleel-service/internal/store"
)

// AddSearch appends one entry to the search history log.
func (s *Store) AddSearch(ctx context.Context, entry *model.SearchHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = newID(entry.ID)
	stamp(&entry.Timestamp)
	clone := *entry
	s.history = append(s.history, &clone)
	return nil
}

// RecentSearches returns the most recent entries, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]model.SearchHistory, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.SearchHistory, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, *s.history[i])
	}
	return entries, nil
}

// CreateReview inserts a review for a user profile.
func (s *Store) CreateReview(ctx context.Context, review *model.Review) error {
	if review.UserID == "" || review.ReviewerName == "" {
		return fmt.Errorf("%w: user id and reviewer name are required", store.ErrValidation)
	}
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", store.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	review.ID = newID(review.ID)
	stamp(&review.CreatedAt)
	clone := *review
	s.reviews[review.ID] = &clone
	return nil
}

// ReviewsForUser returns all reviews for a user, newest first.
func (s *Store) ReviewsForUser(ctx context.Context, userID string) ([]model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := make([]model.Review, 0)
	for _, review := range s.reviews {
		if review.UserID == userID {
			reviews = append(reviews, *review)
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

// RatingSummary returns the average rating and review count for a user.
func (s *Store) RatingSummary(ctx context.Context, userID string) (*model.RatingSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum, count int64
	for _, review := range s.reviews {
		if review.UserID == userID {
			sum += int64(review.Rating)
			count++
		}
	}

	summary := &model.RatingSummary{Count: count}
	if count > 0 {
		summary.Average = math.Round(float64(sum)/float64(count)*10) / 10
	}
	return summary, nil
}

// AddFavorite marks a user profile as a favorite of another user.
func (s *Store) AddFavorite(ctx context.Context, userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.favorites[userID]
	if !ok {
		set = make(map[string]bool)
		s.favorites[userID] = set
	}
	set[itemID] = true
	return nil
}

// RemoveFavorite removes a favorite. Removing a missing favorite is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.favorites[userID]; ok {
		delete(set, itemID)
	}
	return nil
}

// FavoriteUsers returns the user profiles favorited by the given user.
func (s *Store) FavoriteUsers(ctx context.Context, userID string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0)
	for itemID := range s.favorites[userID] {
		if user, ok := s.users[itemID]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

// CreateService inserts a service listing.
func (s *Store) CreateService(ctx context.Context, service *model.Service) error {
	if service.BusinessID == "" || service.Title == "" || service.Category == "" {
		return fmt.Errorf("%w: business id, title and category are required", store.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	service.ID = newID(service.ID)
	stamp(&service.CreatedAt)
	service.UpdatedAt = service.CreatedAt
	clone := *service
	s.services[service.ID] = &clone
	return nil
}

// ServiceByID returns the service with the given id.
func (s *Store) ServiceByID(ctx context.Context, id string) (*model.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	service, ok := s.services[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *service
	return &clone, nil
}

func matchesCatalogFilters(category, businessID string, isActive bool, filters store.CatalogFilters) bool {
	if filters.Category != "" && category != filters.Category {
		return false
	}
	if filters.BusinessID != "" && businessID != filters.BusinessID {
		return false
	}
	if filters.IsActive != nil && isActive != *filters.IsActive {
		return false
	}
	return true
}

// ListServices returns services matching the filters, most recently updated
// first.
func (s *Store) ListServices(ctx context.Context, filters store.CatalogFilters) ([]model.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	services := make([]model.Service, 0)
	for _, service := range s.services {
		if matchesCatalogFilters(service.Category, service.BusinessID, service.IsActive, filters) {
			services = append(services, *service)
		}
	}
	sort.SliceStable(services, func(i, j int) bool {
		return services[i].UpdatedAt.After(services[j].UpdatedAt)
	})
	return services, nil
}

// SearchServices returns services whose title, description or category
// contains the query.
func (s *Store) SearchServices(ctx context.Context, query string, filters store.CatalogFilters) ([]model.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	services := make([]model.Service, 0)
	for _, service := range s.services {
		if !matchesCatalogFilters(service.Category, service.BusinessID, service.IsActive, filters) {
			continue
		}
		if strings.Contains(service.Title, query) ||
			strings.Contains(service.Description, query) ||
			strings.Contains(service.Category, query) {
			services = append(services, *service)
		}
	}
	return services, nil
}

// UpdateService saves changes to an existing service.
func (s *Store) UpdateService(ctx context.Context, service *model.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.services[service.ID]
	if !ok {
		return store.ErrNotFound
	}

	clone := *service
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	s.services[service.ID] = &clone
	return nil
}

// DeleteService removes a service permanently.
func (s *Store) DeleteService(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.services[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.services, id)
	return nil
}

// CreateProduct inserts a product listing.
func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	if product.BusinessID == "" || product.Name == "" || product.Category == "" {
		return fmt.Errorf("%w: business id, name and category are required", store.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = newID(product.ID)
	stamp(&product.CreatedAt)
	product.UpdatedAt = product.CreatedAt
	clone := *product
	s.products[product.ID] = &clone
	return nil
}

// ProductByID returns the product with the given id.
func (s *Store) ProductByID(ctx context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

// ListProducts returns products matching the filters, most recently updated
// first.
func (s *Store) ListProducts(ctx context.Context, filters store.CatalogFilters) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0)
	for _, product := range s.products {
		if matchesCatalogFilters(product.Category, product.BusinessID, product.IsActive, filters) {
			products = append(products, *product)
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].UpdatedAt.After(products[j].UpdatedAt)
	})
	return products, nil
}

// SearchProducts returns products whose name, description or category
// contains the query.
func (s *Store) SearchProducts(ctx context.Context, query string, filters store.CatalogFilters) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, 0)
	for _, product := range s.products {
		if !matchesCatalogFilters(product.Category, product.BusinessID, product.IsActive, filters) {
			continue
		}
		if strings.Contains(product.Name, query) ||
			strings.Contains(product.Description, query) ||
			strings.Contains(product.Category, query) {
			products = append(products, *product)
		}
	}
	return products, nil
}

// UpdateProduct saves changes to an existing product.
func (s *Store) UpdateProduct(ctx context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return store.ErrNotFound
	}

	clone := *product
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = time.Now()
	s.products[product.ID] = &clone
	return nil
}

// DeleteProduct removes a product permanently.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}
