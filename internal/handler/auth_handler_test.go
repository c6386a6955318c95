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
	"daleel-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestHandler() (*AuthHandler, *memstore.Store) {
	st := memstore.New()
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	return NewAuthHandler(st, jwtUtil), st
}

func postJSON(path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterAndLogin(t *testing.T) {
	h, _ := newAuthTestHandler()

	c, rec := postJSON("/api/auth/register",
		`{"phone":"+966501234567","password":"secret123","name":"Ahmed","city":"Riyadh"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.NotEmpty(t, registered.User.ID)
	assert.Equal(t, model.AccountTypePersonal, registered.User.AccountType)

	c, rec = postJSON("/api/auth/login", `{"phone":"+966501234567","password":"secret123"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	h, _ := newAuthTestHandler()

	c, rec := postJSON("/api/auth/register",
		`{"phone":"+966501234567","password":"secret123","name":"Ahmed"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON("/api/auth/register",
		`{"phone":"+966501234567","password":"other","name":"Impostor"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	h, _ := newAuthTestHandler()

	c, rec := postJSON("/api/auth/register", `{"phone":"+966501234567"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := newAuthTestHandler()

	c, rec := postJSON("/api/auth/register",
		`{"phone":"+966501234567","password":"secret123","name":"Ahmed"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON("/api/auth/login", `{"phone":"+966501234567","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	h, st := newAuthTestHandler()

	c, rec := postJSON("/api/auth/register",
		`{"phone":"+966501234567","password":"secret123","name":"Ahmed"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered struct {
		User model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	user, err := st.UserByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, st.UpdateUser(context.Background(), user))

	c, rec = postJSON("/api/auth/login", `{"phone":"+966501234567","password":"secret123"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginUnknownPhone(t *testing.T) {
	h, _ := newAuthTestHandler()

	c, rec := postJSON("/api/auth/login", `{"phone":"+966500000000","password":"whatever"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
