package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/middleware"
	"github.com/visadesk/backend/internal/services/profile"
	"github.com/visadesk/backend/internal/services/review"
)

// ReviewHandler handles officer review submission and history.
type ReviewHandler struct {
	reviews  *review.ReviewService
	profiles *profile.ProfileService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews *review.ReviewService, profiles *profile.ProfileService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, profiles: profiles}
}

// SubmitReviewRequest represents a request to record a decision.
type SubmitReviewRequest struct {
	ApplicationID uuid.UUID               `json:"application_id" binding:"required"`
	Decision      database.ReviewDecision `json:"decision" binding:"required"`
	Remarks       string                  `json:"remarks"`
}

// Submit records an officer decision and triggers the status transition.
func (h *ReviewHandler) Submit(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": err.Error()})
		return
	}

	officer, err := h.profiles.OfficerBySubject(principal.SubjectID)
	if err != nil {
		// Admins submitting reviews get an officer profile on the fly.
		if principal.Role == database.RoleAdmin {
			officer, err = h.profiles.EnsureOfficerProfile(principal.SubjectID)
		}
		if err != nil {
			respondError(c, err)
			return
		}
	}

	created, err := h.reviews.SubmitReview(officer, req.ApplicationID, req.Decision, req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": created})
}

// List returns the review history for an application, most recent first.
func (h *ReviewHandler) List(c *gin.Context) {
	id, err := uuid.Parse(c.Query("application_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": "application_id query parameter required"})
		return
	}

	reviews, err := h.reviews.ListReviews(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
