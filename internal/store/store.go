// Package store defines the persistence capabilities of the directory.
// Two implementations exist: gormstore (Postgres or SQLite) and memstore
// (mutex-guarded maps for development deployments). One of them is selected
// at process start and never swapped per call.
package store

import (
	"context"

	"daleel-service/internal/model"
)

// PhoneMatch carries the comparison variants for one phone query, produced by
// the phone package. A stored number matches when it equals Query, contains
// Local as a substring, or equals one of the Prefixed forms.
type PhoneMatch struct {
	Query    string   // the query as given, after double-code dedupe
	Local    string   // query with a leading country code stripped
	Prefixed []string // query prefixed by each known country code; nil when query had "+"
}

// UserFilters narrows user queries. All set fields are combined conjunctively.
type UserFilters struct {
	City        string
	AccountType string
	IsVerified  *bool
	IsActive    *bool
}

// ContactFilters narrows phone contact queries by the submitter's locality
// snapshot, submitter id, and verification state.
type ContactFilters struct {
	City          string
	Country       string
	Region        string
	AddedByUserID string
	IsVerified    *bool
}

// CatalogFilters narrows service and product listings.
type CatalogFilters struct {
	Category   string
	BusinessID string
	IsActive   *bool
}

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByPhone(ctx context.Context, phone string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context, filters UserFilters) ([]model.User, error)
	SearchUsersByName(ctx context.Context, name string, filters UserFilters) ([]model.User, error)
	SearchUsersByPhone(ctx context.Context, match PhoneMatch, filters UserFilters) ([]model.User, error)
}

// PhoneContactStore persists crowd-sourced phone contacts and their reports.
type PhoneContactStore interface {
	CreateContact(ctx context.Context, contact *model.PhoneContact) error
	CreateContacts(ctx context.Context, contacts []*model.PhoneContact) error
	ContactByID(ctx context.Context, id string) (*model.PhoneContact, error)
	// ContactsByPhone returns contacts whose number matches, newest first.
	ContactsByPhone(ctx context.Context, match PhoneMatch, filters ContactFilters) ([]model.PhoneContact, error)
	// ContactsByName returns contacts whose name contains the query, newest first.
	ContactsByName(ctx context.Context, name string, filters ContactFilters) ([]model.PhoneContact, error)
	ContactsByUser(ctx context.Context, userID string) ([]model.PhoneContact, error)
	UpdateContact(ctx context.Context, contact *model.PhoneContact) error
	DeleteContact(ctx context.Context, id string) error

	// VerifyContact marks the contact verified, overwriting any previous
	// method and date. Verifying twice is not an error.
	VerifyContact(ctx context.Context, id, method string) (*model.PhoneContact, error)
	// ReportContact inserts the report and increments the contact's report
	// count as a single atomic unit.
	ReportContact(ctx context.Context, report *model.ContactReport) error
	ReportsByContact(ctx context.Context, contactID string) ([]model.ContactReport, error)
}

// HistoryStore is the append-only search log.
type HistoryStore interface {
	AddSearch(ctx context.Context, entry *model.SearchHistory) error
	RecentSearches(ctx context.Context, limit int) ([]model.SearchHistory, error)
}

// ReviewStore persists user reviews.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *model.Review) error
	ReviewsForUser(ctx context.Context, userID string) ([]model.Review, error)
	RatingSummary(ctx context.Context, userID string) (*model.RatingSummary, error)
}

// CatalogStore persists business services and products.
type CatalogStore interface {
	CreateService(ctx context.Context, service *model.Service) error
	ServiceByID(ctx context.Context, id string) (*model.Service, error)
	ListServices(ctx context.Context, filters CatalogFilters) ([]model.Service, error)
	SearchServices(ctx context.Context, query string, filters CatalogFilters) ([]model.Service, error)
	UpdateService(ctx context.Context, service *model.Service) error
	DeleteService(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, product *model.Product) error
	ProductByID(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters CatalogFilters) ([]model.Product, error)
	SearchProducts(ctx context.Context, query string, filters CatalogFilters) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// FavoriteStore persists a user's favorite profiles.
type FavoriteStore interface {
	AddFavorite(ctx context.Context, userID, itemID string) error
	RemoveFavorite(ctx context.Context, userID, itemID string) error
	FavoriteUsers(ctx context.Context, userID string) ([]model.User, error)
}

// Store is the full persistence capability selected at process start.
type Store interface {
	UserStore
	PhoneContactStore
	HistoryStore
	ReviewStore
	CatalogStore
	FavoriteStore
}
