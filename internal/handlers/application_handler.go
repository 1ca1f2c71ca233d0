package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/visadesk/backend/internal/apperrors"
	"github.com/visadesk/backend/internal/authz"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/middleware"
	"github.com/visadesk/backend/internal/services/application"
	"github.com/visadesk/backend/internal/services/profile"
)

// ApplicationHandler handles visa application requests.
type ApplicationHandler struct {
	applications *application.ApplicationService
	profiles     *profile.ProfileService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(applications *application.ApplicationService, profiles *profile.ProfileService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, profiles: profiles}
}

// CreateApplicationRequest represents a request to open an application.
type CreateApplicationRequest struct {
	VisaTypeID      uuid.UUID  `json:"visa_type_id" binding:"required"`
	AppointmentDate *time.Time `json:"appointment_date"`
	Notes           string     `json:"notes"`
}

// Create opens a new application for the authenticated applicant.
func (h *ApplicationHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": err.Error()})
		return
	}

	applicant, err := h.profiles.ApplicantBySubject(principal.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	app, err := h.applications.Create(c.Request.Context(), applicant, req.VisaTypeID, req.AppointmentDate, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// List returns every application. Role-gated to admin/officer at the
// route level; applicants use ListMine.
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.applications.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// ListMine returns the authenticated applicant's own applications.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	applicant, err := h.profiles.ApplicantBySubject(principal.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	apps, err := h.applications.ListByApplicant(applicant.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// Get returns one application. Applicants only see their own.
func (h *ApplicationHandler) Get(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": "invalid application id"})
		return
	}

	app, err := h.applications.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if principal.Role == database.RoleApplicant {
		applicant, err := h.profiles.ApplicantBySubject(principal.SubjectID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !authz.OwnsApplication(applicant, app) {
			respondError(c, apperrors.Forbidden("application belongs to a different applicant"))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"application": app})
}

// UpdateApplicationRequest carries officer/admin edits. Status may only
// move between Pending and InReview; terminal states come from reviews.
type UpdateApplicationRequest struct {
	AppointmentDate   *time.Time           `json:"appointment_date"`
	Notes             *string              `json:"notes"`
	AssignedOfficerID *uuid.UUID           `json:"assigned_officer_id"`
	Status            *database.StatusName `json:"status"`
}

// Update applies officer/admin edits to an application.
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": "invalid application id"})
		return
	}

	var req UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": err.Error()})
		return
	}

	app, err := h.applications.UpdateDetails(id, application.UpdateDetailsInput{
		AppointmentDate:   req.AppointmentDate,
		Notes:             req.Notes,
		AssignedOfficerID: req.AssignedOfficerID,
		StatusName:        req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app})
}

// Delete removes an application and cascades document deletion.
// Admin-only at the route level.
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": "invalid application id"})
		return
	}

	if err := h.applications.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "application deleted"})
}
