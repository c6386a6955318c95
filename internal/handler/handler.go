// Package handler contains the echo HTTP handlers for the directory API.
package handler

import (
	"errors"
	"net/http"

	"daleel-service/internal/store"

	"github.com/labstack/echo/v4"
)

// writeStoreError maps store sentinel errors onto HTTP responses so callers
// can tell bad input from missing records from transient failures.
func writeStoreError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, store.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicatePhone):
		return c.JSON(http.StatusConflict, echo.Map{"error": "phone number already registered"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}

// boolParam parses an optional boolean query parameter, returning nil when
// the parameter is absent or malformed.
func boolParam(c echo.Context, name string) *bool {
	raw := c.QueryParam(name)
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
