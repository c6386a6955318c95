package handler

import (
	"net/http"
	"strconv"

	"daleel-service/internal/model"
	"daleel-service/internal/search"
	"daleel-service/internal/store"
	"daleel-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SearchHandler serves the phone, name and unified search endpoints plus the
// recent search history feed.
type SearchHandler struct {
	resolver *search.Resolver
	history  store.HistoryStore
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(resolver *search.Resolver, history store.HistoryStore) *SearchHandler {
	return &SearchHandler{resolver: resolver, history: history}
}

func contactFilters(c echo.Context) store.ContactFilters {
	return store.ContactFilters{
		City:       c.QueryParam("city"),
		Country:    c.QueryParam("country"),
		Region:     c.QueryParam("region"),
		IsVerified: boolParam(c, "verified"),
	}
}

func userFilters(c echo.Context) store.UserFilters {
	return store.UserFilters{
		City:        c.QueryParam("city"),
		AccountType: c.QueryParam("account_type"),
		IsVerified:  boolParam(c, "verified"),
		IsActive:    boolParam(c, "active"),
	}
}

// SearchByPhone returns every contact entry stored for a phone number.
func (h *SearchHandler) SearchByPhone(c echo.Context) error {
	log := logger.FromEcho(c)
	query := c.Param("phoneNumber")

	result, err := h.resolver.ResolveByPhone(c.Request().Context(), query, contactFilters(c))
	if err != nil {
		log.Error("Phone search failed", zap.String("query", query), zap.Error(err))
		return writeStoreError(c, err, "search failed")
	}

	return c.JSON(http.StatusOK, result)
}

// SearchByName returns contact entries grouped by phone number for a name query.
func (h *SearchHandler) SearchByName(c echo.Context) error {
	log := logger.FromEcho(c)
	query := c.QueryParam("q")

	results, err := h.resolver.ResolveByName(c.Request().Context(), query, contactFilters(c))
	if err != nil {
		log.Error("Name search failed", zap.String("query", query), zap.Error(err))
		return writeStoreError(c, err, "search failed")
	}

	return c.JSON(http.StatusOK, results)
}

// UnifiedSearch serves the combined endpoint: registered users and phone
// contacts in one response. The type parameter selects phone or name matching.
func (h *SearchHandler) UnifiedSearch(c echo.Context) error {
	log := logger.FromEcho(c)
	query := c.QueryParam("q")

	searchType := c.QueryParam("type")
	if searchType != model.SearchTypePhone {
		searchType = model.SearchTypeName
	}

	result, err := h.resolver.ResolveUnified(c.Request().Context(), query, searchType,
		userFilters(c), contactFilters(c))
	if err != nil {
		log.Error("Unified search failed",
			zap.String("query", query),
			zap.String("search_type", searchType),
			zap.Error(err))
		return writeStoreError(c, err, "search failed")
	}

	return c.JSON(http.StatusOK, result)
}

// SearchUsersByPhone is the older user-only phone search.
func (h *SearchHandler) SearchUsersByPhone(c echo.Context) error {
	log := logger.FromEcho(c)
	query := c.Param("phone")

	users, err := h.resolver.ResolveUsersByPhone(c.Request().Context(), query, userFilters(c))
	if err != nil {
		log.Error("User phone search failed", zap.String("query", query), zap.Error(err))
		return writeStoreError(c, err, "search failed")
	}

	return c.JSON(http.StatusOK, users)
}

// SearchUsersByName is the older user-only name search.
func (h *SearchHandler) SearchUsersByName(c echo.Context) error {
	log := logger.FromEcho(c)
	query := c.Param("name")

	users, err := h.resolver.ResolveUsersByName(c.Request().Context(), query, userFilters(c))
	if err != nil {
		log.Error("User name search failed", zap.String("query", query), zap.Error(err))
		return writeStoreError(c, err, "search failed")
	}

	return c.JSON(http.StatusOK, users)
}

// RecentSearches returns the newest history entries, capped by the limit
// query parameter.
func (h *SearchHandler) RecentSearches(c echo.Context) error {
	log := logger.FromEcho(c)

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = parsed
	}

	entries, err := h.history.RecentSearches(c.Request().Context(), limit)
	if err != nil {
		log.Error("Failed to load search history", zap.Error(err))
		return writeStoreError(c, err, "failed to load search history")
	}

	return c.JSON(http.StatusOK, entries)
}
