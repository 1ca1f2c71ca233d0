// Package review records officer decisions and drives the resulting
// status transitions. Reviews are append-only history; concurrent
// reviews are accepted as separate entries and the current status is
// whichever was applied last.
package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/apperrors"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/services/application"
)

// ReviewService creates and lists reviews.
type ReviewService struct {
	db           *gorm.DB
	applications *application.ApplicationService
}

// NewReviewService creates a new review service.
func NewReviewService(db *gorm.DB, applications *application.ApplicationService) *ReviewService {
	return &ReviewService{db: db, applications: applications}
}

// SubmitReview records an officer decision and immediately applies the
// matching status transition.
func (s *ReviewService) SubmitReview(officer *database.Officer, applicationID uuid.UUID, decision database.ReviewDecision, remarks string) (*database.Review, error) {
	if !decision.Valid() {
		return nil, apperrors.Validation("decision must be Approved, Rejected or MoreInfoRequired")
	}

	if _, err := s.applications.Get(applicationID); err != nil {
		return nil, err
	}

	review := database.Review{
		ApplicationID: applicationID,
		OfficerID:     officer.ID,
		Date:          time.Now(),
		Decision:      decision,
		Remarks:       remarks,
	}

	if err := s.db.Create(&review).Error; err != nil {
		return nil, apperrors.Server("failed to record review", err)
	}

	if err := s.applications.ApplyReviewDecision(applicationID, decision); err != nil {
		return nil, err
	}

	return &review, nil
}

// ListReviews returns the review history for an application, most
// recent first.
func (s *ReviewService) ListReviews(applicationID uuid.UUID) ([]database.Review, error) {
	var reviews []database.Review
	err := s.db.
		Where("application_id = ?", applicationID).
		Order("date desc").
		Find(&reviews).Error
	if err != nil {
		return nil, apperrors.Server("failed to list reviews", err)
	}
	return reviews, nil
}
