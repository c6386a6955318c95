package handler

import (
	"net/http"
	"time"

	"daleel-service/internal/middleware"
	"daleel-service/internal/model"
	"daleel-service/internal/store"
	"daleel-service/pkg/jwtutil"
	"daleel-service/pkg/logger"
	"daleel-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves phone-and-password registration and login.
type AuthHandler struct {
	users store.UserStore
	jwt   *jwtutil.JWTUtil
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(users store.UserStore, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

// Register creates a new user account keyed by phone number.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordRegistration()

	var req struct {
		Phone       string `json:"phone"`
		Password    string `json:"password"`
		Name        string `json:"name"`
		City        string `json:"city"`
		Country     string `json:"country"`
		Region      string `json:"region"`
		AccountType string `json:"account_type"`
		Category    string `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Phone == "" || req.Password == "" || req.Name == "" {
		log.Warn("Registration with missing fields", zap.String("phone", req.Phone))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone, password and name are required"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Phone:       req.Phone,
		Password:    string(hashed),
		Name:        req.Name,
		City:        req.City,
		Country:     req.Country,
		Region:      req.Region,
		AccountType: req.AccountType,
		Category:    req.Category,
		IsActive:    true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.users.CreateUser(c.Request().Context(), &user); err != nil {
		log.Error("Failed to create user", zap.String("phone", req.Phone), zap.Error(err))
		return writeStoreError(c, err, "registration failed")
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Phone, user.Name, user.AccountType)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("account_type", user.AccountType))

	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Login verifies phone and password and issues a JWT.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordLogin()

	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.UserByPhone(c.Request().Context(), req.Phone)
	if err != nil {
		log.Warn("User not found", zap.String("phone", req.Phone))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("phone", req.Phone))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !user.IsActive {
		log.Warn("Login attempt on deactivated account", zap.String("user_id", user.ID))
		prometheus.RecordAuthError("account_deactivated")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account is deactivated"})
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Phone, user.Name, user.AccountType)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in", zap.String("user_id", user.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	log := logger.FromEcho(c)

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	user, err := h.users.UserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		log.Error("Failed to fetch authenticated user", zap.String("user_id", claims.UserID), zap.Error(err))
		return writeStoreError(c, err, "failed to fetch user")
	}

	return c.JSON(http.StatusOK, user)
}
