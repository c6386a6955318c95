// Package search turns a raw phone or name query into a grouped, ranked set
// of contact candidates drawn from registered users and crowd-sourced phone
// contacts.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"daleel-service/internal/model"
	"daleel-service/internal/phone"
	"daleel-service/internal/store"
	"daleel-service/prometheus"

	"go.uber.org/zap"
)

// UnknownSubmitterName is attached when a contact's submitter no longer
// resolves to a registered user.
const UnknownSubmitterName = "unknown"

// SubmitterInfo is the display identity of the user who added a contact,
// resolved at read time.
type SubmitterInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
}

// ContactEntry is a single crowd-sourced name attached to a phone number,
// carrying its trust signal.
type ContactEntry struct {
	ID          string        `json:"id"`
	ContactName string        `json:"contact_name"`
	AddedByUser SubmitterInfo `json:"added_by_user"`
	IsVerified  bool          `json:"is_verified"`
	ReportCount int           `json:"report_count"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PhoneSearchResult groups all contact entries found for one phone number.
// For phone searches the key is the query as given, not a normalized form.
type PhoneSearchResult struct {
	PhoneNumber string         `json:"phone_number"`
	Contacts    []ContactEntry `json:"contacts"`
}

// UnifiedSearchResult is the combined shape served by the unified search
// endpoint: registered users alongside the flattened contact entries.
type UnifiedSearchResult struct {
	Users         []model.User   `json:"users"`
	PhoneContacts []ContactEntry `json:"phone_contacts"`
	TotalContacts int            `json:"total_contacts"`
}

// Resolver executes searches against the contact store and records them in
// the search history.
type Resolver struct {
	users    store.UserStore
	contacts store.PhoneContactStore
	history  store.HistoryStore
	log      *zap.Logger
}

// NewResolver creates a resolver over the given store capabilities.
func NewResolver(users store.UserStore, contacts store.PhoneContactStore, history store.HistoryStore, log *zap.Logger) *Resolver {
	return &Resolver{
		users:    users,
		contacts: contacts,
		history:  history,
		log:      log,
	}
}

// matchFor builds the phone matching predicate for a query.
func matchFor(query string) store.PhoneMatch {
	return store.PhoneMatch{
		Query:    query,
		Local:    phone.StripCountryCode(query),
		Prefixed: phone.CandidatePrefixedForms(query),
	}
}

// ResolveByPhone returns every contact entry stored for a phone number,
// grouped under the literal query. A blank query returns an empty result
// without touching the store or the history log.
func (r *Resolver) ResolveByPhone(ctx context.Context, query string, filters store.ContactFilters) (*PhoneSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &PhoneSearchResult{Contacts: []ContactEntry{}}, nil
	}
	query = phone.DedupeCountryCode(query)

	contacts, err := r.contacts.ContactsByPhone(ctx, matchFor(query), filters)
	if err != nil {
		return nil, err
	}

	entries := r.resolveSubmitters(ctx, contacts)
	sortEntries(entries)

	result := &PhoneSearchResult{
		PhoneNumber: query,
		Contacts:    entries,
	}

	prometheus.RecordSearch(model.SearchTypePhone)
	r.recordHistory(ctx, query, model.SearchTypePhone, result)
	return result, nil
}

// ResolveByName returns one result per distinct stored phone number whose
// contacts carry a name containing the query. Grouping uses the exact stored
// number string, so differently formatted spellings of the same real number
// stay in separate groups. Groups keep the order in which the store returned
// them.
func (r *Resolver) ResolveByName(ctx context.Context, query string, filters store.ContactFilters) ([]PhoneSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []PhoneSearchResult{}, nil
	}

	contacts, err := r.contacts.ContactsByName(ctx, query, filters)
	if err != nil {
		return nil, err
	}

	results := r.groupByNumber(ctx, contacts)

	prometheus.RecordSearch(model.SearchTypeName)
	r.recordHistory(ctx, query, model.SearchTypeName, results)
	return results, nil
}

// ResolveUnified serves the combined endpoint: registered users matched by
// phone or name alongside the flattened contact entries. The user and
// contact lookups run concurrently; both must finish before merging.
func (r *Resolver) ResolveUnified(ctx context.Context, query, searchType string, userFilters store.UserFilters, contactFilters store.ContactFilters) (*UnifiedSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &UnifiedSearchResult{Users: []model.User{}, PhoneContacts: []ContactEntry{}}, nil
	}

	var (
		users       []model.User
		contacts    []model.PhoneContact
		usersErr    error
		contactsErr error
	)

	if searchType == model.SearchTypePhone {
		query = phone.DedupeCountryCode(query)
	}
	match := matchFor(query)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if searchType == model.SearchTypePhone {
			users, usersErr = r.users.SearchUsersByPhone(ctx, match, userFilters)
		} else {
			users, usersErr = r.users.SearchUsersByName(ctx, query, userFilters)
		}
	}()
	go func() {
		defer wg.Done()
		if searchType == model.SearchTypePhone {
			contacts, contactsErr = r.contacts.ContactsByPhone(ctx, match, contactFilters)
		} else {
			contacts, contactsErr = r.contacts.ContactsByName(ctx, query, contactFilters)
		}
	}()
	wg.Wait()

	if usersErr != nil {
		return nil, usersErr
	}
	if contactsErr != nil {
		return nil, contactsErr
	}

	entries := r.resolveSubmitters(ctx, contacts)
	sortEntries(entries)

	result := &UnifiedSearchResult{
		Users:         users,
		PhoneContacts: entries,
		TotalContacts: len(entries),
	}

	prometheus.RecordSearch(searchType)
	r.recordHistory(ctx, query, searchType, result)
	return result, nil
}

// ResolveUsersByPhone returns registered users whose phone matches the query.
// It serves the older user-only search endpoint and records history like the
// grouped searches do.
func (r *Resolver) ResolveUsersByPhone(ctx context.Context, query string, filters store.UserFilters) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.User{}, nil
	}
	query = phone.DedupeCountryCode(query)

	users, err := r.users.SearchUsersByPhone(ctx, matchFor(query), filters)
	if err != nil {
		return nil, err
	}

	prometheus.RecordSearch(model.SearchTypePhone)
	r.recordHistory(ctx, query, model.SearchTypePhone, users)
	return users, nil
}

// ResolveUsersByName returns registered users whose name contains the query.
func (r *Resolver) ResolveUsersByName(ctx context.Context, query string, filters store.UserFilters) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.User{}, nil
	}

	users, err := r.users.SearchUsersByName(ctx, query, filters)
	if err != nil {
		return nil, err
	}

	prometheus.RecordSearch(model.SearchTypeName)
	r.recordHistory(ctx, query, model.SearchTypeName, users)
	return users, nil
}

// groupByNumber splits contacts into one result per distinct stored number,
// preserving first-encounter order, and ranks entries inside each group.
func (r *Resolver) groupByNumber(ctx context.Context, contacts []model.PhoneContact) []PhoneSearchResult {
	order := make([]string, 0)
	grouped := make(map[string][]model.PhoneContact)
	for _, contact := range contacts {
		if _, seen := grouped[contact.PhoneNumber]; !seen {
			order = append(order, contact.PhoneNumber)
		}
		grouped[contact.PhoneNumber] = append(grouped[contact.PhoneNumber], contact)
	}

	results := make([]PhoneSearchResult, 0, len(order))
	for _, number := range order {
		entries := r.resolveSubmitters(ctx, grouped[number])
		sortEntries(entries)
		results = append(results, PhoneSearchResult{
			PhoneNumber: number,
			Contacts:    entries,
		})
	}
	return results
}

// resolveSubmitters attaches each submitter's display identity. A submitter
// that no longer resolves gets the literal unknown placeholder; lookups are
// memoized per call.
func (r *Resolver) resolveSubmitters(ctx context.Context, contacts []model.PhoneContact) []ContactEntry {
	cache := make(map[string]*model.User)
	entries := make([]ContactEntry, 0, len(contacts))

	for _, contact := range contacts {
		user, seen := cache[contact.AddedByUserID]
		if !seen {
			resolved, err := r.users.UserByID(ctx, contact.AddedByUserID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				r.log.Warn("submitter lookup failed",
					zap.String("user_id", contact.AddedByUserID),
					zap.Error(err))
			}
			user = resolved
			cache[contact.AddedByUserID] = user
		}

		submitter := SubmitterInfo{
			ID:   contact.AddedByUserID,
			Name: UnknownSubmitterName,
		}
		if user != nil {
			submitter.Name = user.Name
			submitter.City = user.City
			submitter.Country = user.Country
			submitter.Region = user.Region
		}

		entries = append(entries, ContactEntry{
			ID:          contact.ID,
			ContactName: contact.ContactName,
			AddedByUser: submitter,
			IsVerified:  contact.IsVerified,
			ReportCount: contact.ReportCount,
			CreatedAt:   contact.CreatedAt,
		})
	}
	return entries
}

// sortEntries ranks verified entries first, newest first within each bucket.
func sortEntries(entries []ContactEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsVerified != entries[j].IsVerified {
			return entries[i].IsVerified
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// recordHistory appends the executed search to the history log. Failures are
// logged and counted but never surfaced to the caller; a search that found
// its results has succeeded.
func (r *Resolver) recordHistory(ctx context.Context, query, searchType string, results interface{}) {
	snapshot, err := json.Marshal(results)
	if err != nil {
		r.log.Warn("failed to serialize search results for history", zap.Error(err))
		prometheus.RecordHistoryWriteFailure()
		return
	}

	entry := &model.SearchHistory{
		Query:      query,
		SearchType: searchType,
		Results:    string(snapshot),
	}
	if err := r.history.AddSearch(ctx, entry); err != nil {
		r.log.Warn("failed to record search history",
			zap.String("query", query),
			zap.String("search_type", searchType),
			zap.Error(err))
		prometheus.RecordHistoryWriteFailure()
	}
}
