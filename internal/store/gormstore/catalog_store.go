package gormstore

import (
	"context"
	"fmt"

	"daleel-service/internal/model"
	"daleel-service/internal/store"

	"gorm.io/gorm"
)

func applyCatalogFilters(q *gorm.DB, filters store.CatalogFilters) *gorm.DB {
	if filters.Category != "" {
		q = q.Where("category = ?", filters.Category)
	}
	if filters.BusinessID != "" {
		q = q.Where("business_id = ?", filters.BusinessID)
	}
	if filters.IsActive != nil {
		q = q.Where("is_active = ?", *filters.IsActive)
	}
	return q
}

// CreateService inserts a service listing.
func (s *Store) CreateService(ctx context.Context, service *model.Service) error {
	if service.BusinessID == "" || service.Title == "" || service.Category == "" {
		return fmt.Errorf("%w: business id, title and category are required", store.ErrValidation)
	}
	return translateErr(s.db.WithContext(ctx).Create(service).Error)
}

// ServiceByID returns the service with the given id.
func (s *Store) ServiceByID(ctx context.Context, id string) (*model.Service, error) {
	var service model.Service
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&service).Error; err != nil {
		return nil, translateErr(err)
	}
	return &service, nil
}

// ListServices returns services matching the filters, most recently updated
// first.
func (s *Store) ListServices(ctx context.Context, filters store.CatalogFilters) ([]model.Service, error) {
	var services []model.Service
	q := applyCatalogFilters(s.db.WithContext(ctx), filters)
	if err := q.Order("updated_at DESC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// SearchServices returns services whose title, description or category
// contains the query.
func (s *Store) SearchServices(ctx context.Context, query string, filters store.CatalogFilters) ([]model.Service, error) {
	db := s.db.WithContext(ctx)
	pattern := "%" + query + "%"
	cond := db.Where("title LIKE ?", pattern).
		Or("description LIKE ?", pattern).
		Or("category LIKE ?", pattern)

	var services []model.Service
	q := applyCatalogFilters(db.Where(cond), filters)
	if err := q.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// UpdateService saves changes to an existing service.
func (s *Store) UpdateService(ctx context.Context, service *model.Service) error {
	result := s.db.WithContext(ctx).Model(&model.Service{}).
		Where("id = ?", service.ID).
		Select("*").Omit("id", "created_at").
		Updates(service)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteService removes a service permanently.
func (s *Store) DeleteService(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Service{})
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CreateProduct inserts a product listing.
func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	if product.BusinessID == "" || product.Name == "" || product.Category == "" {
		return fmt.Errorf("%w: business id, name and category are required", store.ErrValidation)
	}
	return translateErr(s.db.WithContext(ctx).Create(product).Error)
}

// ProductByID returns the product with the given id.
func (s *Store) ProductByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translateErr(err)
	}
	return &product, nil
}

// ListProducts returns products matching the filters, most recently updated
// first.
func (s *Store) ListProducts(ctx context.Context, filters store.CatalogFilters) ([]model.Product, error) {
	var products []model.Product
	q := applyCatalogFilters(s.db.WithContext(ctx), filters)
	if err := q.Order("updated_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts returns products whose name, description or category
// contains the query.
func (s *Store) SearchProducts(ctx context.Context, query string, filters store.CatalogFilters) ([]model.Product, error) {
	db := s.db.WithContext(ctx)
	pattern := "%" + query + "%"
	cond := db.Where("name LIKE ?", pattern).
		Or("description LIKE ?", pattern).
		Or("category LIKE ?", pattern)

	var products []model.Product
	q := applyCatalogFilters(db.Where(cond), filters)
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProduct saves changes to an existing product.
func (s *Store) UpdateProduct(ctx context.Context, product *model.Product) error {
	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Select("*").Omit("id", "created_at").
		Updates(product)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product permanently.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
