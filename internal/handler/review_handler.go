package handler

import (
	"net/http"

	"daleel-service/internal/model"
	"daleel-service/internal/store"
	"daleel-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReviewHandler manages ratings left on user profiles.
type ReviewHandler struct {
	reviews store.ReviewStore
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(reviews store.ReviewStore) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview stores a rating for a profile. Reviews are open to anonymous
// visitors, so only the reviewer's display name travels with the rating.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	log := logger.FromEcho(c)
	userID := c.Param("userId")

	var req struct {
		ReviewerName string `json:"reviewer_name"`
		Rating       int    `json:"rating"`
		Comment      string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}
	if req.ReviewerName == "" {
		req.ReviewerName = "anonymous"
	}

	review := model.Review{
		UserID:       userID,
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := h.reviews.CreateReview(c.Request().Context(), &review); err != nil {
		log.Error("Failed to create review", zap.String("user_id", userID), zap.Error(err))
		return writeStoreError(c, err, "failed to create review")
	}

	log.Info("Review created",
		zap.String("review_id", review.ID),
		zap.String("user_id", userID),
		zap.Int("rating", req.Rating))
	return c.JSON(http.StatusCreated, review)
}

// ListReviews returns all reviews for a profile, newest first.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	log := logger.FromEcho(c)
	userID := c.Param("userId")

	reviews, err := h.reviews.ReviewsForUser(c.Request().Context(), userID)
	if err != nil {
		log.Error("Failed to list reviews", zap.String("user_id", userID), zap.Error(err))
		return writeStoreError(c, err, "failed to list reviews")
	}
	return c.JSON(http.StatusOK, reviews)
}

// RatingSummary returns the average rating and review count for a profile.
func (h *ReviewHandler) RatingSummary(c echo.Context) error {
	log := logger.FromEcho(c)
	userID := c.Param("userId")

	summary, err := h.reviews.RatingSummary(c.Request().Context(), userID)
	if err != nil {
		log.Error("Failed to compute rating summary", zap.String("user_id", userID), zap.Error(err))
		return writeStoreError(c, err, "failed to compute rating summary")
	}
	return c.JSON(http.StatusOK, summary)
}
