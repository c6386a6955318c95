package gormstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"daleel-service/internal/model"
	"daleel-service/internal/phone"
	"daleel-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := New(db)
	require.NoError(t, s.Migrate())
	return s
}

func matchFor(query string) store.PhoneMatch {
	return store.PhoneMatch{
		Query:    query,
		Local:    phone.StripCountryCode(query),
		Prefixed: phone.CandidatePrefixedForms(query),
	}
}

func seedUser(t *testing.T, s *Store, phoneNumber, name string) *model.User {
	t.Helper()
	user := &model.User{Phone: phoneNumber, Name: name, Password: "hash", IsActive: true}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedContact(t *testing.T, s *Store, phoneNumber, name, userID string) *model.PhoneContact {
	t.Helper()
	contact := &model.PhoneContact{
		PhoneNumber:   phoneNumber,
		ContactName:   name,
		AddedByUserID: userID,
	}
	require.NoError(t, s.CreateContact(context.Background(), contact))
	return contact
}

func TestCreateUserDuplicatePhone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "+966501234567", "Ahmed")

	err := s.CreateUser(ctx, &model.User{Phone: "+966501234567", Name: "Other", Password: "x"})
	assert.ErrorIs(t, err, store.ErrDuplicatePhone)
}

func TestSearchUsersByPhoneVariants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stored := seedUser(t, s, "+966501234567", "Ahmed")
	seedUser(t, s, "+966999999999", "Noise")

	tests := []struct {
		name  string
		query string
	}{
		{name: "full international number", query: "+966501234567"},
		{name: "local fragment", query: "501234567"},
		{name: "other country code, same local number", query: "+20501234567"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users, err := s.SearchUsersByPhone(ctx, matchFor(tc.query), store.UserFilters{})
			require.NoError(t, err)
			require.Len(t, users, 1)
			assert.Equal(t, stored.ID, users[0].ID)
		})
	}
}

func TestContactsByPhonePredicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stored := seedContact(t, s, "+966501234567", "Ahmed", "u1")
	seedContact(t, s, "+966888888888", "Noise", "u1")

	t.Run("exact stored number", func(t *testing.T) {
		contacts, err := s.ContactsByPhone(ctx, matchFor("+966501234567"), store.ContactFilters{})
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, stored.ID, contacts[0].ID)
	})

	t.Run("local query", func(t *testing.T) {
		contacts, err := s.ContactsByPhone(ctx, matchFor("501234567"), store.ContactFilters{})
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, stored.ID, contacts[0].ID)
	})

	t.Run("unrelated number finds nothing", func(t *testing.T) {
		contacts, err := s.ContactsByPhone(ctx, matchFor("+971777777777"), store.ContactFilters{})
		require.NoError(t, err)
		assert.Empty(t, contacts)
	})
}

func TestContactsByNameOrderedNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := seedContact(t, s, "0501111111", "Ahmed Home", "u1")
	second := seedContact(t, s, "0502222222", "Ahmed Work", "u1")

	contacts, err := s.ContactsByName(ctx, "Ahmed", store.ContactFilters{})
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	// created_at DESC; ties keep insertion order, so both orderings of equal
	// timestamps are acceptable as long as both rows are present.
	found := map[string]bool{contacts[0].ID: true, contacts[1].ID: true}
	assert.True(t, found[first.ID])
	assert.True(t, found[second.ID])
}

func TestReportContactIncrementsAtomically(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	contact := seedContact(t, s, "+966501234567", "Ahmed", "owner")

	// Sequential here: sqlite serializes writers. The concurrent guarantee on
	// this backend comes from the database-side gorm.Expr increment inside the
	// transaction; the racing-reporters case runs against memstore.
	const reporters = 5
	for i := 0; i < reporters; i++ {
		err := s.ReportContact(ctx, &model.ContactReport{
			PhoneContactID:   contact.ID,
			ReportedByUserID: fmt.Sprintf("reporter-%d", i),
			ReportType:       model.ReportTypeSpam,
			ReportReason:     "unsolicited calls",
		})
		require.NoError(t, err)
	}

	updated, err := s.ContactByID(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, reporters, updated.ReportCount)

	reports, err := s.ReportsByContact(ctx, contact.ID)
	require.NoError(t, err)
	assert.Len(t, reports, reporters)
}

func TestReportUnknownContactLeavesNoRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.ReportContact(ctx, &model.ContactReport{
		PhoneContactID:   "missing",
		ReportedByUserID: "u1",
		ReportType:       model.ReportTypeSpam,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	reports, err := s.ReportsByContact(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestVerifyContactOverwritesMethod(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	contact := seedContact(t, s, "+966501234567", "Ahmed", "u1")

	first, err := s.VerifyContact(ctx, contact.ID, "sms")
	require.NoError(t, err)
	assert.True(t, first.IsVerified)
	assert.Equal(t, "sms", first.VerificationMethod)
	require.NotNil(t, first.VerificationDate)

	second, err := s.VerifyContact(ctx, contact.ID, "manual")
	require.NoError(t, err)
	assert.Equal(t, "manual", second.VerificationMethod)
}

func TestVerifyUnknownContact(t *testing.T) {
	s := newTestStore(t)
	_, err := s.VerifyContact(context.Background(), "missing", "sms")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateContactPreservesReportCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	contact := seedContact(t, s, "+966501234567", "Ahmed", "u1")
	require.NoError(t, s.ReportContact(ctx, &model.ContactReport{
		PhoneContactID:   contact.ID,
		ReportedByUserID: "u2",
		ReportType:       model.ReportTypeIncorrect,
	}))

	contact.ContactName = "Ahmed Renamed"
	contact.ReportCount = 0
	require.NoError(t, s.UpdateContact(ctx, contact))

	updated, err := s.ContactByID(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmed Renamed", updated.ContactName)
	assert.Equal(t, 1, updated.ReportCount)
}

func TestRecentSearchesDefaultLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < DefaultRecentLimit+5; i++ {
		require.NoError(t, s.AddSearch(ctx, &model.SearchHistory{
			Query:      fmt.Sprintf("query-%d", i),
			SearchType: model.SearchTypeName,
			Results:    "[]",
		}))
	}

	entries, err := s.RecentSearches(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, DefaultRecentLimit)
}

func TestRatingSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	business := seedUser(t, s, "+966511111111", "Shop")
	for _, rating := range []int{5, 4} {
		require.NoError(t, s.CreateReview(ctx, &model.Review{
			UserID:       business.ID,
			ReviewerName: "visitor",
			Rating:       rating,
		}))
	}

	summary, err := s.RatingSummary(ctx, business.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)
}

func TestFavoritesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fan := seedUser(t, s, "+966522222222", "Fan")
	business := seedUser(t, s, "+966533333333", "Shop")

	require.NoError(t, s.AddFavorite(ctx, fan.ID, business.ID))
	require.NoError(t, s.AddFavorite(ctx, fan.ID, business.ID)) // duplicate is a no-op

	favorites, err := s.FavoriteUsers(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, business.ID, favorites[0].ID)

	require.NoError(t, s.RemoveFavorite(ctx, fan.ID, business.ID))
	favorites, err = s.FavoriteUsers(ctx, fan.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
