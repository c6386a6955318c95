package handler

import (
	"encoding/csv"
	"net/http"
	"time"

	"daleel-service/internal/middleware"
	"daleel-service/internal/model"
	"daleel-service/internal/store"
	"daleel-service/pkg/logger"
	"daleel-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler serves profile reads and updates plus the directory export and
// import endpoints.
type UserHandler struct {
	users store.UserStore
}

// NewUserHandler creates a user handler.
func NewUserHandler(users store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// GetUser returns a profile by id.
func (h *UserHandler) GetUser(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.UserByID(c.Request().Context(), id)
	if err != nil {
		log.Warn("User lookup failed", zap.String("user_id", id), zap.Error(err))
		return writeStoreError(c, err, "failed to fetch user")
	}

	return c.JSON(http.StatusOK, user)
}

// GetUserByPhone returns a profile by its exact phone number.
func (h *UserHandler) GetUserByPhone(c echo.Context) error {
	log := logger.FromEcho(c)
	phoneNumber := c.Param("phone")

	user, err := h.users.UserByPhone(c.Request().Context(), phoneNumber)
	if err != nil {
		log.Warn("User lookup by phone failed", zap.String("phone", phoneNumber), zap.Error(err))
		return writeStoreError(c, err, "failed to fetch user")
	}

	return c.JSON(http.StatusOK, user)
}

// ListUsers returns profiles matching the query filters. Used by the business
// directory listing.
func (h *UserHandler) ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	users, err := h.users.ListUsers(c.Request().Context(), userFilters(c))
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return writeStoreError(c, err, "failed to list users")
	}

	return c.JSON(http.StatusOK, users)
}

// UpdateProfile updates the authenticated user's own profile. Identity and
// credential fields are not editable here.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromEcho(c)

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Name          *string   `json:"name"`
		Email         *string   `json:"email"`
		City          *string   `json:"city"`
		Country       *string   `json:"country"`
		Region        *string   `json:"region"`
		Address       *string   `json:"address"`
		Category      *string   `json:"category"`
		Description   *string   `json:"description"`
		Website       *string   `json:"website"`
		LogoURL       *string   `json:"logo_url"`
		CoverImageURL *string   `json:"cover_image_url"`
		WorkingHours  *string   `json:"working_hours"`
		Tags          *[]string `json:"tags"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.users.UserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return writeStoreError(c, err, "failed to update profile")
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&user.Name, req.Name)
	apply(&user.Email, req.Email)
	apply(&user.City, req.City)
	apply(&user.Country, req.Country)
	apply(&user.Region, req.Region)
	apply(&user.Address, req.Address)
	apply(&user.Category, req.Category)
	apply(&user.Description, req.Description)
	apply(&user.Website, req.Website)
	apply(&user.LogoURL, req.LogoURL)
	apply(&user.CoverImageURL, req.CoverImageURL)
	apply(&user.WorkingHours, req.WorkingHours)
	if req.Tags != nil {
		user.Tags = *req.Tags
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.users.UpdateUser(c.Request().Context(), user); err != nil {
		log.Error("Failed to update profile", zap.String("user_id", user.ID), zap.Error(err))
		return writeStoreError(c, err, "failed to update profile")
	}

	log.Info("Profile updated", zap.String("user_id", user.ID))
	return c.JSON(http.StatusOK, user)
}

// ExportUsers dumps all profiles matching the filters. The format query
// parameter selects json (default) or csv.
func (h *UserHandler) ExportUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	users, err := h.users.ListUsers(c.Request().Context(), userFilters(c))
	if err != nil {
		log.Error("Failed to export users", zap.Error(err))
		return writeStoreError(c, err, "failed to export users")
	}

	if c.QueryParam("format") == "csv" {
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="users.csv"`)
		c.Response().WriteHeader(http.StatusOK)

		w := csv.NewWriter(c.Response())
		if err := w.Write([]string{"id", "phone", "name", "city", "country", "account_type", "category"}); err != nil {
			return err
		}
		for _, user := range users {
			if err := w.Write([]string{
				user.ID, user.Phone, user.Name, user.City, user.Country, user.AccountType, user.Category,
			}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="users.json"`)
	return c.JSON(http.StatusOK, users)
}

// ImportUsers bulk-loads profiles from a JSON array. Duplicate phone numbers
// are skipped and counted rather than failing the whole batch.
func (h *UserHandler) ImportUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	var incoming []model.User
	if err := c.Bind(&incoming); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	imported, skipped := 0, 0
	for i := range incoming {
		user := incoming[i]
		user.ID = ""
		if user.Phone == "" || user.Name == "" {
			skipped++
			continue
		}
		if err := h.users.CreateUser(c.Request().Context(), &user); err != nil {
			skipped++
			log.Warn("Skipped user during import",
				zap.String("phone", user.Phone),
				zap.Error(err))
			continue
		}
		imported++
	}

	log.Info("User import finished",
		zap.Int("imported", imported),
		zap.Int("skipped", skipped))

	return c.JSON(http.StatusOK, echo.Map{
		"imported": imported,
		"skipped":  skipped,
	})
}
