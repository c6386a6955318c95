package handler

import (
	"net/http"

	"daleel-service/internal/middleware"
	"daleel-service/internal/model"
	"daleel-service/internal/store"
	"daleel-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CatalogHandler manages the services and products listed by business
// accounts.
type CatalogHandler struct {
	catalog store.CatalogStore
	users   store.UserStore
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(catalog store.CatalogStore, users store.UserStore) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, users: users}
}

func catalogFilters(c echo.Context) store.CatalogFilters {
	return store.CatalogFilters{
		Category:   c.QueryParam("category"),
		BusinessID: c.QueryParam("business_id"),
		IsActive:   boolParam(c, "active"),
	}
}

// requireBusiness loads the authenticated user and rejects personal accounts.
func (h *CatalogHandler) requireBusiness(c echo.Context) (*model.User, error) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	user, err := h.users.UserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, writeStoreError(c, err, "failed to load account")
	}
	if user.AccountType != model.AccountTypeBusiness {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "business account required"})
	}
	return user, nil
}

// CreateService lists a new service under the authenticated business.
func (h *CatalogHandler) CreateService(c echo.Context) error {
	log := logger.FromEcho(c)

	business, errResp := h.requireBusiness(c)
	if business == nil {
		return errResp
	}

	var service model.Service
	if err := c.Bind(&service); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if service.Title == "" || service.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and category are required"})
	}

	service.ID = ""
	service.BusinessID = business.ID
	service.IsActive = true

	if err := h.catalog.CreateService(c.Request().Context(), &service); err != nil {
		log.Error("Failed to create service", zap.Error(err))
		return writeStoreError(c, err, "failed to create service")
	}

	log.Info("Service created",
		zap.String("service_id", service.ID),
		zap.String("business_id", business.ID))
	return c.JSON(http.StatusCreated, service)
}

// ListServices returns services matching the filters.
func (h *CatalogHandler) ListServices(c echo.Context) error {
	log := logger.FromEcho(c)

	services, err := h.catalog.ListServices(c.Request().Context(), catalogFilters(c))
	if err != nil {
		log.Error("Failed to list services", zap.Error(err))
		return writeStoreError(c, err, "failed to list services")
	}
	return c.JSON(http.StatusOK, services)
}

// SearchServices returns services whose title or description contains the query.
func (h *CatalogHandler) SearchServices(c echo.Context) error {
	log := logger.FromEcho(c)
	query := c.QueryParam("q")

	services, err := h.catalog.SearchServices(c.Request().Context(), query, catalogFilters(c))
	if err != nil {
		log.Error("Service search failed", zap.String("query", query), zap.Error(err))
		return writeStoreError(c, err, "search failed")
	}
	return c.JSON(http.StatusOK, services)
}

// GetService returns one service by id.
func (h *CatalogHandler) GetService(c echo.Context) error {
	service, err := h.catalog.ServiceByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeStoreError(c, err, "failed to fetch service")
	}
	return c.JSON(http.StatusOK, service)
}

// UpdateService edits a service owned by the authenticated business.
func (h *CatalogHandler) UpdateService(c echo.Context) error {
	log := logger.FromEcho(c)

	business, errResp := h.requireBusiness(c)
	if business == nil {
		return errResp
	}

	existing, err := h.catalog.ServiceByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeStoreError(c, err, "failed to update service")
	}
	if existing.BusinessID != business.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the listing owner"})
	}

	var patch model.Service
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	patch.ID = existing.ID
	patch.BusinessID = existing.BusinessID
	patch.CreatedAt = existing.CreatedAt

	if err := h.catalog.UpdateService(c.Request().Context(), &patch); err != nil {
		log.Error("Failed to update service", zap.String("service_id", existing.ID), zap.Error(err))
		return writeStoreError(c, err, "failed to update service")
	}
	return c.JSON(http.StatusOK, patch)
}

// DeleteService removes a service owned by the authenticated business.
func (h *CatalogHandler) DeleteService(c echo.Context) error {
	business, errResp := h.requireBusiness(c)
	if business == nil {
		return errResp
	}

	existing, err := h.catalog.ServiceByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeStoreError(c, err, "failed to delete service")
	}
	if existing.BusinessID != business.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the listing owner"})
	}

	if err := h.catalog.DeleteService(c.Request().Context(), existing.ID); err != nil {
		return writeStoreError(c, err, "failed to delete service")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateProduct lists a new product under the authenticated business.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	business, errResp := h.requireBusiness(c)
	if business == nil {
		return errResp
	}

	var product model.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if product.Name == "" || product.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and category are required"})
	}

	product.ID = ""
	product.BusinessID = business.ID
	product.IsActive = true

	if err := h.catalog.CreateProduct(c.Request().Context(), &product); err != nil {
		log.Error("Failed to create product", zap.Error(err))
		return writeStoreError(c, err, "failed to create product")
	}

	log.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("business_id", business.ID))
	return c.JSON(http.StatusCreated, product)
}

// ListProducts returns products matching the filters.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	products, err := h.catalog.ListProducts(c.Request().Context(), catalogFilters(c))
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return writeStoreError(c, err, "failed to list products")
	}
	return c.JSON(http.StatusOK, products)
}

// SearchProducts returns products whose name or description contains the query.
func (h *CatalogHandler) SearchProducts(c echo.Context) error {
	log := logger.FromEcho(c)
	query := c.QueryParam("q")

	products, err := h.catalog.SearchProducts(c.Request().Context(), query, catalogFilters(c))
	if err != nil {
		log.Error("Product search failed", zap.String("query", query), zap.Error(err))
		return writeStoreError(c, err, "search failed")
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct returns one product by id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.catalog.ProductByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeStoreError(c, err, "failed to fetch product")
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct edits a product owned by the authenticated business.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	business, errResp := h.requireBusiness(c)
	if business == nil {
		return errResp
	}

	existing, err := h.catalog.ProductByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeStoreError(c, err, "failed to update product")
	}
	if existing.BusinessID != business.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the listing owner"})
	}

	var patch model.Product
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	patch.ID = existing.ID
	patch.BusinessID = existing.BusinessID
	patch.CreatedAt = existing.CreatedAt

	if err := h.catalog.UpdateProduct(c.Request().Context(), &patch); err != nil {
		log.Error("Failed to update product", zap.String("product_id", existing.ID), zap.Error(err))
		return writeStoreError(c, err, "failed to update product")
	}
	return c.JSON(http.StatusOK, patch)
}

// DeleteProduct removes a product owned by the authenticated business.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	business, errResp := h.requireBusiness(c)
	if business == nil {
		return errResp
	}

	existing, err := h.catalog.ProductByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeStoreError(c, err, "failed to delete product")
	}
	if existing.BusinessID != business.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the listing owner"})
	}

	if err := h.catalog.DeleteProduct(c.Request().Context(), existing.ID); err != nil {
		return writeStoreError(c, err, "failed to delete product")
	}
	return c.NoContent(http.StatusNoContent)
}
