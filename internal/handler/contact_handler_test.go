package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"daleel-service/internal/model"
	"daleel-service/internal/store/memstore"
	"daleel-service/internal/trust"
	"daleel-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newContactTestHandler(t *testing.T) (*ContactHandler, *memstore.Store, *model.User) {
	t.Helper()

	st := memstore.New()
	ledger := trust.NewLedger(st, zap.NewNop())
	h := NewContactHandler(st, st, ledger)

	submitter := &model.User{
		Phone:    "+966501111111",
		Name:     "Submitter",
		Password: "hash",
		City:     "Riyadh",
		Country:  "SA",
		IsActive: true,
	}
	require.NoError(t, st.CreateUser(context.Background(), submitter))
	return h, st, submitter
}

func authedRequest(method, path, body string, user *model.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &jwtutil.UserClaims{UserID: user.ID, Phone: user.Phone, Name: user.Name})
	return c, rec
}

func TestAddContactSnapshotsLocality(t *testing.T) {
	h, st, submitter := newContactTestHandler(t)

	c, rec := authedRequest(http.MethodPost, "/api/contacts",
		`{"phone_number":"+966502222222","contact_name":"Ahmed"}`, submitter)
	require.NoError(t, h.AddContact(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.PhoneContact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Riyadh", created.UserCity)
	assert.Equal(t, "SA", created.UserCountry)
	assert.Equal(t, submitter.ID, created.AddedByUserID)

	// The snapshot stays put even when the submitter moves
	user, err := st.UserByID(context.Background(), submitter.ID)
	require.NoError(t, err)
	user.City = "Jeddah"
	require.NoError(t, st.UpdateUser(context.Background(), user))

	stored, err := st.ContactByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riyadh", stored.UserCity)
}

func TestAddContactRequiresAuth(t *testing.T) {
	h, _, _ := newContactTestHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/contacts",
		strings.NewReader(`{"phone_number":"+966502222222"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.AddContact(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBulkAddSkipsEntriesWithoutNumber(t *testing.T) {
	h, st, submitter := newContactTestHandler(t)

	c, rec := authedRequest(http.MethodPost, "/api/contacts/bulk",
		`{"contacts":[
			{"phone_number":"+966502222222","contact_name":"A"},
			{"contact_name":"no number"},
			{"phone_number":"+966503333333","contact_name":"B"}
		]}`, submitter)
	require.NoError(t, h.BulkAddContacts(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var result struct {
		Added int `json:"added"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Added)

	// Bulk import stamps the submitter's sync time
	user, err := st.UserByID(context.Background(), submitter.ID)
	require.NoError(t, err)
	assert.NotNil(t, user.LastContactsSync)
}

func TestUpdateContactOwnershipEnforced(t *testing.T) {
	h, st, submitter := newContactTestHandler(t)

	contact := &model.PhoneContact{
		PhoneNumber:   "+966502222222",
		ContactName:   "Ahmed",
		AddedByUserID: submitter.ID,
	}
	require.NoError(t, st.CreateContact(context.Background(), contact))

	intruder := &model.User{Phone: "+966509999999", Name: "Intruder", Password: "hash"}
	require.NoError(t, st.CreateUser(context.Background(), intruder))

	c, rec := authedRequest(http.MethodPut, "/", `{"contact_name":"Hijacked"}`, intruder)
	c.SetParamNames("id")
	c.SetParamValues(contact.ID)
	require.NoError(t, h.UpdateContact(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = authedRequest(http.MethodPut, "/", `{"contact_name":"Renamed"}`, submitter)
	c.SetParamNames("id")
	c.SetParamValues(contact.ID)
	require.NoError(t, h.UpdateContact(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportContactFlow(t *testing.T) {
	h, st, submitter := newContactTestHandler(t)

	contact := &model.PhoneContact{
		PhoneNumber:   "+966502222222",
		ContactName:   "Ahmed",
		AddedByUserID: submitter.ID,
	}
	require.NoError(t, st.CreateContact(context.Background(), contact))

	c, rec := authedRequest(http.MethodPost, "/", `{"report_type":"spam","report_reason":"robocalls"}`, submitter)
	c.SetParamNames("id")
	c.SetParamValues(contact.ID)
	require.NoError(t, h.ReportContact(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	updated, err := st.ContactByID(context.Background(), contact.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ReportCount)

	c, rec = authedRequest(http.MethodGet, "/", "", submitter)
	c.SetParamNames("id")
	c.SetParamValues(contact.ID)
	require.NoError(t, h.ContactReports(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var reports []model.ContactReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	assert.Len(t, reports, 1)
}

func TestVerifyContactEndpoint(t *testing.T) {
	h, st, submitter := newContactTestHandler(t)

	contact := &model.PhoneContact{
		PhoneNumber:   "+966502222222",
		ContactName:   "Ahmed",
		AddedByUserID: submitter.ID,
	}
	require.NoError(t, st.CreateContact(context.Background(), contact))

	c, rec := authedRequest(http.MethodPost, "/", `{"method":"sms"}`, submitter)
	c.SetParamNames("id")
	c.SetParamValues(contact.ID)
	require.NoError(t, h.VerifyContact(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var verified model.PhoneContact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verified))
	assert.True(t, verified.IsVerified)
	assert.Equal(t, "sms", verified.VerificationMethod)
}
