package handler

import (
	"net/http"
	"time"

	"daleel-service/internal/middleware"
	"daleel-service/internal/model"
	"daleel-service/internal/store"
	"daleel-service/internal/trust"
	"daleel-service/pkg/logger"
	"daleel-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ContactHandler manages crowd-sourced phone contacts: submission, bulk
// import, editing, and the trust workflows (verify, report).
type ContactHandler struct {
	contacts store.PhoneContactStore
	users    store.UserStore
	ledger   *trust.Ledger
}

// NewContactHandler creates a contact handler.
func NewContactHandler(contacts store.PhoneContactStore, users store.UserStore, ledger *trust.Ledger) *ContactHandler {
	return &ContactHandler{contacts: contacts, users: users, ledger: ledger}
}

type contactRequest struct {
	PhoneNumber string `json:"phone_number"`
	ContactName string `json:"contact_name"`
}

// AddContact stores a single contact submitted by the authenticated user.
// The submitter's locality is snapshotted onto the contact at creation time.
func (h *ContactHandler) AddContact(c echo.Context) error {
	log := logger.FromEcho(c)

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.PhoneNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number is required"})
	}

	submitter, err := h.users.UserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		log.Error("Failed to load submitter", zap.String("user_id", claims.UserID), zap.Error(err))
		return writeStoreError(c, err, "failed to add contact")
	}

	contact := model.PhoneContact{
		PhoneNumber:   req.PhoneNumber,
		ContactName:   req.ContactName,
		AddedByUserID: submitter.ID,
		UserCity:      submitter.City,
		UserCountry:   submitter.Country,
		UserRegion:    submitter.Region,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.contacts.CreateContact(c.Request().Context(), &contact); err != nil {
		log.Error("Failed to create contact", zap.String("phone", req.PhoneNumber), zap.Error(err))
		return writeStoreError(c, err, "failed to add contact")
	}

	prometheus.RecordContactsAdded(1)
	log.Info("Contact added",
		zap.String("contact_id", contact.ID),
		zap.String("added_by", submitter.ID))

	return c.JSON(http.StatusCreated, contact)
}

// BulkAddContacts stores a batch of contacts from a device sync. The whole
// batch shares one locality snapshot and one sync timestamp.
func (h *ContactHandler) BulkAddContacts(c echo.Context) error {
	log := logger.FromEcho(c)

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Contacts []contactRequest `json:"contacts"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.Contacts) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contacts list is empty"})
	}

	submitter, err := h.users.UserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		log.Error("Failed to load submitter", zap.String("user_id", claims.UserID), zap.Error(err))
		return writeStoreError(c, err, "failed to add contacts")
	}

	batch := make([]*model.PhoneContact, 0, len(req.Contacts))
	for _, item := range req.Contacts {
		if item.PhoneNumber == "" {
			continue
		}
		batch = append(batch, &model.PhoneContact{
			PhoneNumber:   item.PhoneNumber,
			ContactName:   item.ContactName,
			AddedByUserID: submitter.ID,
			UserCity:      submitter.City,
			UserCountry:   submitter.Country,
			UserRegion:    submitter.Region,
		})
	}
	if len(batch) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no contacts with a phone number"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.contacts.CreateContacts(c.Request().Context(), batch); err != nil {
		log.Error("Failed to create contact batch",
			zap.Int("count", len(batch)),
			zap.Error(err))
		return writeStoreError(c, err, "failed to add contacts")
	}

	now := time.Now()
	submitter.LastContactsSync = &now
	if err := h.users.UpdateUser(c.Request().Context(), submitter); err != nil {
		log.Warn("Failed to stamp contacts sync time", zap.String("user_id", submitter.ID), zap.Error(err))
	}

	prometheus.RecordContactsAdded(len(batch))
	log.Info("Contact batch added",
		zap.Int("count", len(batch)),
		zap.String("added_by", submitter.ID))

	return c.JSON(http.StatusCreated, echo.Map{
		"added": len(batch),
	})
}

// ContactsByUser lists everything one user has submitted.
func (h *ContactHandler) ContactsByUser(c echo.Context) error {
	log := logger.FromEcho(c)
	userID := c.Param("userId")

	contacts, err := h.contacts.ContactsByUser(c.Request().Context(), userID)
	if err != nil {
		log.Error("Failed to list contacts", zap.String("user_id", userID), zap.Error(err))
		return writeStoreError(c, err, "failed to list contacts")
	}

	return c.JSON(http.StatusOK, contacts)
}

// UpdateContact renames a contact. Only the submitter may edit their entry.
func (h *ContactHandler) UpdateContact(c echo.Context) error {
	log := logger.FromEcho(c)
	contactID := c.Param("id")

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		ContactName string `json:"contact_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ContactName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact_name is required"})
	}

	contact, err := h.contacts.ContactByID(c.Request().Context(), contactID)
	if err != nil {
		return writeStoreError(c, err, "failed to update contact")
	}
	if contact.AddedByUserID != claims.UserID {
		log.Warn("Contact edit rejected",
			zap.String("contact_id", contactID),
			zap.String("user_id", claims.UserID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the contact owner"})
	}

	contact.ContactName = req.ContactName
	if err := h.contacts.UpdateContact(c.Request().Context(), contact); err != nil {
		log.Error("Failed to update contact", zap.String("contact_id", contactID), zap.Error(err))
		return writeStoreError(c, err, "failed to update contact")
	}

	return c.JSON(http.StatusOK, contact)
}

// DeleteContact removes a contact. Only the submitter may delete their entry.
func (h *ContactHandler) DeleteContact(c echo.Context) error {
	log := logger.FromEcho(c)
	contactID := c.Param("id")

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	contact, err := h.contacts.ContactByID(c.Request().Context(), contactID)
	if err != nil {
		return writeStoreError(c, err, "failed to delete contact")
	}
	if contact.AddedByUserID != claims.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the contact owner"})
	}

	if err := h.contacts.DeleteContact(c.Request().Context(), contactID); err != nil {
		log.Error("Failed to delete contact", zap.String("contact_id", contactID), zap.Error(err))
		return writeStoreError(c, err, "failed to delete contact")
	}

	log.Info("Contact deleted", zap.String("contact_id", contactID))
	return c.NoContent(http.StatusNoContent)
}

// VerifyContact marks a contact verified with the supplied method.
func (h *ContactHandler) VerifyContact(c echo.Context) error {
	log := logger.FromEcho(c)
	contactID := c.Param("id")

	var req struct {
		Method string `json:"method"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	contact, err := h.ledger.Verify(c.Request().Context(), contactID, req.Method)
	if err != nil {
		log.Error("Failed to verify contact", zap.String("contact_id", contactID), zap.Error(err))
		return writeStoreError(c, err, "failed to verify contact")
	}

	prometheus.RecordContactVerify()
	return c.JSON(http.StatusOK, contact)
}

// ReportContact files a complaint against a contact on behalf of the
// authenticated user.
func (h *ContactHandler) ReportContact(c echo.Context) error {
	log := logger.FromEcho(c)
	contactID := c.Param("id")

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		ReportType   string `json:"report_type"`
		ReportReason string `json:"report_reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	report, err := h.ledger.Report(c.Request().Context(), contactID, claims.UserID, req.ReportType, req.ReportReason)
	if err != nil {
		log.Error("Failed to report contact",
			zap.String("contact_id", contactID),
			zap.String("report_type", req.ReportType),
			zap.Error(err))
		return writeStoreError(c, err, "failed to report contact")
	}

	return c.JSON(http.StatusCreated, report)
}

// ContactReports lists all complaints filed against a contact.
func (h *ContactHandler) ContactReports(c echo.Context) error {
	log := logger.FromEcho(c)
	contactID := c.Param("id")

	reports, err := h.ledger.Reports(c.Request().Context(), contactID)
	if err != nil {
		log.Error("Failed to list reports", zap.String("contact_id", contactID), zap.Error(err))
		return writeStoreError(c, err, "failed to list reports")
	}

	return c.JSON(http.StatusOK, reports)
}
