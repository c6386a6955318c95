package trust

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

func TestVerifyRequiresIDAndMethod(t *testing.T) {
	contacts := new(mockContactStore)
	ledger := NewLedger(contacts, zap.NewNop())

	_, err := ledger.Verify(context.Background(), "", "sms")
	assert.ErrorIs(t, err, store.ErrValidation)

	_, err = ledger.Verify(context.Background(), "c1", "")
	assert.ErrorIs(t, err, store.ErrValidation)

	contacts.AssertNotCalled(t, "VerifyContact", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyStampsMethodAndDate(t *testing.T) {
	contacts := new(mockContactStore)
	ledger := NewLedger(contacts, zap.NewNop())

	now := time.Now()
	verified := &model.PhoneContact{
		ID:                 "c1",
		IsVerified:         true,
		VerificationMethod: "sms",
		VerificationDate:   &now,
	}
	contacts.On("VerifyContact", mock.Anything, "c1", "sms").Return(verified, nil)

	contact, err := ledger.Verify(context.Background(), "c1", "sms")
	require.NoError(t, err)
	assert.True(t, contact.IsVerified)
	assert.Equal(t, "sms", contact.VerificationMethod)
	assert.NotNil(t, contact.VerificationDate)
}

func TestVerifyUnknownContact(t *testing.T) {
	contacts := new(mockContactStore)
	ledger := NewLedger(contacts, zap.NewNop())

	contacts.On("VerifyContact", mock.Anything, "missing", "call").Return(nil, store.ErrNotFound)

	_, err := ledger.Verify(context.Background(), "missing", "call")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReportDelegatesAtomically(t *testing.T) {
	contacts := new(mockContactStore)
	ledger := NewLedger(contacts, zap.NewNop())

	contacts.On("ReportContact", mock.Anything, mock.MatchedBy(func(report *model.ContactReport) bool {
		return report.PhoneContactID == "c1" &&
			report.ReportedByUserID == "u1" &&
			report.ReportType == model.ReportTypeSpam
	})).Return(nil)

	report, err := ledger.Report(context.Background(), "c1", "u1", model.ReportTypeSpam, "robocalls")
	require.NoError(t, err)
	assert.Equal(t, "robocalls", report.ReportReason)

	contacts.AssertExpectations(t)
}

func TestReportRequiresFields(t *testing.T) {
	contacts := new(mockContactStore)
	ledger := NewLedger(contacts, zap.NewNop())

	_, err := ledger.Report(context.Background(), "", "u1", model.ReportTypeSpam, "")
	assert.ErrorIs(t, err, store.ErrValidation)

	_, err = ledger.Report(context.Background(), "c1", "", model.ReportTypeSpam, "")
	assert.ErrorIs(t, err, store.ErrValidation)

	_, err = ledger.Report(context.Background(), "c1", "u1", "", "")
	assert.ErrorIs(t, err, store.ErrValidation)

	contacts.AssertNotCalled(t, "ReportContact", mock.Anything, mock.Anything)
}

func TestReportPropagatesStoreError(t *testing.T) {
	contacts := new(mockContactStore)
	ledger := NewLedger(contacts, zap.NewNop())

	contacts.On("ReportContact", mock.Anything, mock.Anything).Return(errors.New("tx aborted"))

	_, err := ledger.Report(context.Background(), "c1", "u1", model.ReportTypeIncorrect, "")
	require.Error(t, err)
}
