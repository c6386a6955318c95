package handler

import (
	"net/http"

	"daleel-service/internal/middleware"
	"daleel-service/internal/store"
	"daleel-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FavoriteHandler manages the authenticated user's saved profiles.
type FavoriteHandler struct {
	favorites store.FavoriteStore
}

// NewFavoriteHandler creates a favorite handler.
func NewFavoriteHandler(favorites store.FavoriteStore) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// AddFavorite saves a profile to the authenticated user's favorites.
// Favoriting the same profile twice is a no-op.
func (h *FavoriteHandler) AddFavorite(c echo.Context) error {
	log := logger.FromEcho(c)
	itemID := c.Param("itemId")

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if err := h.favorites.AddFavorite(c.Request().Context(), claims.UserID, itemID); err != nil {
		log.Error("Failed to add favorite",
			zap.String("user_id", claims.UserID),
			zap.String("item_id", itemID),
			zap.Error(err))
		return writeStoreError(c, err, "failed to add favorite")
	}

	return c.JSON(http.StatusCreated, echo.Map{"favorited": itemID})
}

// RemoveFavorite removes a profile from the authenticated user's favorites.
func (h *FavoriteHandler) RemoveFavorite(c echo.Context) error {
	log := logger.FromEcho(c)
	itemID := c.Param("itemId")

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if err := h.favorites.RemoveFavorite(c.Request().Context(), claims.UserID, itemID); err != nil {
		log.Error("Failed to remove favorite",
			zap.String("user_id", claims.UserID),
			zap.String("item_id", itemID),
			zap.Error(err))
		return writeStoreError(c, err, "failed to remove favorite")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListFavorites returns the profiles the authenticated user has saved.
func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	log := logger.FromEcho(c)

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	users, err := h.favorites.FavoriteUsers(c.Request().Context(), claims.UserID)
	if err != nil {
		log.Error("Failed to list favorites", zap.String("user_id", claims.UserID), zap.Error(err))
		return writeStoreError(c, err, "failed to list favorites")
	}

	return c.JSON(http.StatusOK, users)
}
