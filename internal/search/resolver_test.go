package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"daleel-service/internal/model"
	"daleel-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) UserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserStore) UserByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserStore) UpdateUser(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) ListUsers(ctx context.Context, filters store.UserFilters) ([]model.User, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserStore) SearchUsersByName(ctx context.Context, name string, filters store.UserFilters) ([]model.User, error) {
	args := m.Called(ctx, name, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserStore) SearchUsersByPhone(ctx context.Context, match store.PhoneMatch, filters store.UserFilters) ([]model.User, error) {
	args := m.Called(ctx, match, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

type mockContactStore struct {
	mock.Mock
}

func (m *mockContactStore) CreateContact(ctx context.Context, contact *model.PhoneContact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *mockContactStore) CreateContacts(ctx context.Context, contacts []*model.PhoneContact) error {
	return m.Called(ctx, contacts).Error(0)
}

func (m *mockContactStore) ContactByID(ctx context.Context, id string) (*model.PhoneContact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PhoneContact), args.Error(1)
}

func (m *mockContactStore) ContactsByPhone(ctx context.Context, match store.PhoneMatch, filters store.ContactFilters) ([]model.PhoneContact, error) {
	args := m.Called(ctx, match, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PhoneContact), args.Error(1)
}

func (m *mockContactStore) ContactsByName(ctx context.Context, name string, filters store.ContactFilters) ([]model.PhoneContact, error) {
	args := m.Called(ctx, name, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PhoneContact), args.Error(1)
}

func (m *mockContactStore) ContactsByUser(ctx context.Context, userID string) ([]model.PhoneContact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PhoneContact), args.Error(1)
}

func (m *mockContactStore) UpdateContact(ctx context.Context, contact *model.PhoneContact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *mockContactStore) DeleteContact(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockContactStore) VerifyContact(ctx context.Context, id, method string) (*model.PhoneContact, error) {
	args := m.Called(ctx, id, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PhoneContact), args.Error(1)
}

func (m *mockContactStore) ReportContact(ctx context.Context, report *model.ContactReport) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockContactStore) ReportsByContact(ctx context.Context, contactID string) ([]model.ContactReport, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContactReport), args.Error(1)
}

type mockHistoryStore struct {
	mock.Mock
}

func (m *mockHistoryStore) AddSearch(ctx context.Context, entry *model.SearchHistory) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockHistoryStore) RecentSearches(ctx context.Context, limit int) ([]model.SearchHistory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SearchHistory), args.Error(1)
}

func newTestResolver() (*Resolver, *mockUserStore, *mockContactStore, *mockHistoryStore) {
	users := new(mockUserStore)
	contacts := new(mockContactStore)
	history := new(mockHistoryStore)
	return NewResolver(users, contacts, history, zap.NewNop()), users, contacts, history
}

func TestResolveByPhoneEmptyQuery(t *testing.T) {
	resolver, users, contacts, history := newTestResolver()

	result, err := resolver.ResolveByPhone(context.Background(), "   ", store.ContactFilters{})
	require.NoError(t, err)
	assert.Empty(t, result.Contacts)

	users.AssertNotCalled(t, "UserByID", mock.Anything, mock.Anything)
	contacts.AssertNotCalled(t, "ContactsByPhone", mock.Anything, mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "AddSearch", mock.Anything, mock.Anything)
}

func TestResolveByPhoneDedupesDoubledCountryCode(t *testing.T) {
	resolver, _, contacts, history := newTestResolver()

	contacts.On("ContactsByPhone", mock.Anything,
		mock.MatchedBy(func(match store.PhoneMatch) bool {
			return match.Query == "+966501234567"
		}),
		mock.Anything,
	).Return([]model.PhoneContact{}, nil)
	history.On("AddSearch", mock.Anything, mock.Anything).Return(nil)

	result, err := resolver.ResolveByPhone(context.Background(), "+966+966501234567", store.ContactFilters{})
	require.NoError(t, err)
	assert.Equal(t, "+966501234567", result.PhoneNumber)

	contacts.AssertExpectations(t)
}

func TestResolveByPhoneRanksVerifiedThenNewest(t *testing.T) {
	resolver, users, contacts, history := newTestResolver()

	now := time.Now()
	stored := []model.PhoneContact{
		{ID: "c1", ContactName: "Old Unverified", AddedByUserID: "u1", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "c2", ContactName: "New Verified", AddedByUserID: "u1", IsVerified: true, CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "c3", ContactName: "Old Verified", AddedByUserID: "u1", IsVerified: true, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "c4", ContactName: "New Unverified", AddedByUserID: "u1", CreatedAt: now},
	}

	contacts.On("ContactsByPhone", mock.Anything, mock.Anything, mock.Anything).Return(stored, nil)
	users.On("UserByID", mock.Anything, "u1").Return(&model.User{ID: "u1", Name: "Ahmed"}, nil)
	history.On("AddSearch", mock.Anything, mock.Anything).Return(nil)

	result, err := resolver.ResolveByPhone(context.Background(), "501234567", store.ContactFilters{})
	require.NoError(t, err)
	require.Len(t, result.Contacts, 4)

	got := make([]string, 0, 4)
	for _, entry := range result.Contacts {
		got = append(got, entry.ID)
	}
	assert.Equal(t, []string{"c2", "c3", "c4", "c1"}, got)

	// Submitter lookups are memoized per call
	users.AssertNumberOfCalls(t, "UserByID", 1)
}

func TestResolveByPhoneUnknownSubmitter(t *testing.T) {
	resolver, users, contacts, history := newTestResolver()

	stored := []model.PhoneContact{
		{ID: "c1", ContactName: "Somebody", AddedByUserID: "gone", CreatedAt: time.Now()},
	}
	contacts.On("ContactsByPhone", mock.Anything, mock.Anything, mock.Anything).Return(stored, nil)
	users.On("UserByID", mock.Anything, "gone").Return(nil, store.ErrNotFound)
	history.On("AddSearch", mock.Anything, mock.Anything).Return(nil)

	result, err := resolver.ResolveByPhone(context.Background(), "501234567", store.ContactFilters{})
	require.NoError(t, err)
	require.Len(t, result.Contacts, 1)

	assert.Equal(t, UnknownSubmitterName, result.Contacts[0].AddedByUser.Name)
	assert.Equal(t, "gone", result.Contacts[0].AddedByUser.ID)
}

func TestResolveByNameGroupsByStoredNumber(t *testing.T) {
	resolver, users, contacts, history := newTestResolver()

	now := time.Now()
	stored := []model.PhoneContact{
		{ID: "c1", PhoneNumber: "+966501234567", ContactName: "Ahmed Ali", AddedByUserID: "u1", CreatedAt: now},
		{ID: "c2", PhoneNumber: "0501234567", ContactName: "Ahmed A.", AddedByUserID: "u1", CreatedAt: now},
		{ID: "c3", PhoneNumber: "+966501234567", ContactName: "Ahmed", AddedByUserID: "u1", CreatedAt: now.Add(-time.Hour)},
	}
	contacts.On("ContactsByName", mock.Anything, "Ahmed", mock.Anything).Return(stored, nil)
	users.On("UserByID", mock.Anything, "u1").Return(&model.User{ID: "u1", Name: "Submitter"}, nil)
	history.On("AddSearch", mock.Anything, mock.Anything).Return(nil)

	results, err := resolver.ResolveByName(context.Background(), "Ahmed", store.ContactFilters{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Differently formatted spellings of the same real number stay separate,
	// and groups keep first-encounter order.
	assert.Equal(t, "+966501234567", results[0].PhoneNumber)
	assert.Len(t, results[0].Contacts, 2)
	assert.Equal(t, "0501234567", results[1].PhoneNumber)
	assert.Len(t, results[1].Contacts, 1)
}

func TestResolveByNameEmptyQuery(t *testing.T) {
	resolver, _, contacts, history := newTestResolver()

	results, err := resolver.ResolveByName(context.Background(), "", store.ContactFilters{})
	require.NoError(t, err)
	assert.Empty(t, results)

	contacts.AssertNotCalled(t, "ContactsByName", mock.Anything, mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "AddSearch", mock.Anything, mock.Anything)
}

func TestResolveUnifiedMergesUsersAndContacts(t *testing.T) {
	resolver, users, contacts, history := newTestResolver()

	storedUsers := []model.User{{ID: "u1", Name: "Ahmed", Phone: "+966501234567"}}
	storedContacts := []model.PhoneContact{
		{ID: "c1", ContactName: "Ahmed Work", AddedByUserID: "u1", CreatedAt: time.Now()},
	}

	users.On("SearchUsersByPhone", mock.Anything, mock.Anything, mock.Anything).Return(storedUsers, nil)
	users.On("UserByID", mock.Anything, "u1").Return(&storedUsers[0], nil)
	contacts.On("ContactsByPhone", mock.Anything, mock.Anything, mock.Anything).Return(storedContacts, nil)
	history.On("AddSearch", mock.Anything, mock.Anything).Return(nil)

	result, err := resolver.ResolveUnified(context.Background(), "501234567", model.SearchTypePhone,
		store.UserFilters{}, store.ContactFilters{})
	require.NoError(t, err)

	assert.Len(t, result.Users, 1)
	assert.Len(t, result.PhoneContacts, 1)
	assert.Equal(t, 1, result.TotalContacts)
}

func TestResolveUnifiedNameSearch(t *testing.T) {
	resolver, users, contacts, history := newTestResolver()

	users.On("SearchUsersByName", mock.Anything, "Ahmed", mock.Anything).Return([]model.User{}, nil)
	contacts.On("ContactsByName", mock.Anything, "Ahmed", mock.Anything).Return([]model.PhoneContact{}, nil)
	history.On("AddSearch", mock.Anything, mock.Anything).Return(nil)

	result, err := resolver.ResolveUnified(context.Background(), "Ahmed", model.SearchTypeName,
		store.UserFilters{}, store.ContactFilters{})
	require.NoError(t, err)
	assert.Zero(t, result.TotalContacts)

	users.AssertExpectations(t)
	contacts.AssertExpectations(t)
}

func TestResolveUnifiedPropagatesStoreError(t *testing.T) {
	resolver, users, contacts, history := newTestResolver()

	users.On("SearchUsersByName", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("users down"))
	contacts.On("ContactsByName", mock.Anything, mock.Anything, mock.Anything).Return([]model.PhoneContact{}, nil)

	_, err := resolver.ResolveUnified(context.Background(), "Ahmed", model.SearchTypeName,
		store.UserFilters{}, store.ContactFilters{})
	require.Error(t, err)

	history.AssertNotCalled(t, "AddSearch", mock.Anything, mock.Anything)
}

func TestHistoryFailureDoesNotFailSearch(t *testing.T) {
	resolver, _, contacts, history := newTestResolver()

	contacts.On("ContactsByPhone", mock.Anything, mock.Anything, mock.Anything).Return([]model.PhoneContact{}, nil)
	history.On("AddSearch", mock.Anything, mock.Anything).Return(errors.New("history table unavailable"))

	result, err := resolver.ResolveByPhone(context.Background(), "501234567", store.ContactFilters{})
	require.NoError(t, err)
	assert.Empty(t, result.Contacts)

	history.AssertExpectations(t)
}

func TestHistoryRecordsQueryAndType(t *testing.T) {
	resolver, _, contacts, history := newTestResolver()

	contacts.On("ContactsByPhone", mock.Anything, mock.Anything, mock.Anything).Return([]model.PhoneContact{}, nil)
	history.On("AddSearch", mock.Anything, mock.MatchedBy(func(entry *model.SearchHistory) bool {
		return entry.Query == "501234567" &&
			entry.SearchType == model.SearchTypePhone &&
			entry.Results != ""
	})).Return(nil)

	_, err := resolver.ResolveByPhone(context.Background(), "501234567", store.ContactFilters{})
	require.NoError(t, err)

	history.AssertExpectations(t)
}

func TestResolveUsersByPhoneRecordsHistory(t *testing.T) {
	resolver, users, _, history := newTestResolver()

	users.On("SearchUsersByPhone", mock.Anything, mock.Anything, mock.Anything).Return([]model.User{{ID: "u1"}}, nil)
	history.On("AddSearch", mock.Anything, mock.Anything).Return(nil)

	found, err := resolver.ResolveUsersByPhone(context.Background(), "501234567", store.UserFilters{})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	history.AssertExpectations(t)
}
