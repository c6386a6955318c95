package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports service liveness.
func Health(serviceName, version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "ok",
			"service": serviceName,
			"version": version,
		})
	}
}
