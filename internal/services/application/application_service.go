// Package application implements the visa-application lifecycle state
// machine. Status starts at Pending; terminal moves (Approved, Rejected,
// MoreInfoRequired) happen only through ApplyReviewDecision.
package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/apperrors"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/jobs"
	"github.com/visadesk/backend/internal/queue"
	"github.com/visadesk/backend/internal/services/catalog"
)

// ApplicationService orchestrates creation, transitions and deletion of
// visa applications.
type ApplicationService struct {
	db       *gorm.DB
	catalog  *catalog.CatalogService
	jobQueue *queue.Queue
}

// NewApplicationService creates a new application service.
func NewApplicationService(db *gorm.DB, catalogService *catalog.CatalogService, jobQueue *queue.Queue) *ApplicationService {
	return &ApplicationService{
		db:       db,
		catalog:  catalogService,
		jobQueue: jobQueue,
	}
}

// Create opens a new application for the applicant: status Pending,
// payment sub-record zeroed until an explicit order-creation call.
func (s *ApplicationService) Create(ctx context.Context, applicant *database.Applicant, visaTypeID uuid.UUID, appointmentDate *time.Time, notes string) (*database.VisaApplication, error) {
	visaType, err := s.catalog.GetVisaType(ctx, visaTypeID)
	if err != nil {
		return nil, err
	}

	pendingStatus, err := s.statusByName(database.StatusPending)
	if err != nil {
		return nil, err
	}

	app := database.VisaApplication{
		ApplicantID:     applicant.ID,
		VisaTypeID:      visaType.ID,
		StatusID:        pendingStatus.ID,
		ApplicationDate: time.Now(),
		AppointmentDate: appointmentDate,
		Notes:           notes,
		Payment: database.PaymentRecord{
			Amount:   0,
			Currency: visaType.Currency,
			Status:   database.PaymentPending,
		},
	}

	if err := s.db.Create(&app).Error; err != nil {
		return nil, apperrors.Server("failed to create application", err)
	}

	return s.Get(app.ID)
}

// Get loads one application with its related records.
func (s *ApplicationService) Get(id uuid.UUID) (*database.VisaApplication, error) {
	var app database.VisaApplication
	err := s.db.
		Preload("Applicant").
		Preload("VisaType").
		Preload("Status").
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application not found")
		}
		return nil, apperrors.Server("failed to load application", err)
	}
	return &app, nil
}

// List returns every application, newest first.
func (s *ApplicationService) List() ([]database.VisaApplication, error) {
	var apps []database.VisaApplication
	err := s.db.
		Preload("Applicant").
		Preload("VisaType").
		Preload("Status").
		Order("application_date desc").
		Find(&apps).Error
	if err != nil {
		return nil, apperrors.Server("failed to list applications", err)
	}
	return apps, nil
}

// ListByApplicant returns the applications owned by one applicant
// profile, newest first.
func (s *ApplicationService) ListByApplicant(applicantID uuid.UUID) ([]database.VisaApplication, error) {
	var apps []database.VisaApplication
	err := s.db.
		Preload("VisaType").
		Preload("Status").
		Where("applicant_id = ?", applicantID).
		Order("application_date desc").
		Find(&apps).Error
	if err != nil {
		return nil, apperrors.Server("failed to list applications", err)
	}
	return apps, nil
}

// UpdateDetailsInput carries the officer-editable fields. A nil field is
// left untouched.
type UpdateDetailsInput struct {
	AppointmentDate   *time.Time
	Notes             *string
	AssignedOfficerID *uuid.UUID
	StatusName        *database.StatusName
}

// UpdateDetails applies officer/admin edits. Status may only move
// between Pending and InReview here; terminal states require a review.
func (s *ApplicationService) UpdateDetails(id uuid.UUID, input UpdateDetailsInput) (*database.VisaApplication, error) {
	app, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.AppointmentDate != nil {
		updates["appointment_date"] = *input.AppointmentDate
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.AssignedOfficerID != nil {
		var officer database.Officer
		if err := s.db.First(&officer, "id = ?", *input.AssignedOfficerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("assigned officer does not exist")
			}
			return nil, apperrors.Server("failed to load officer", err)
		}
		updates["assigned_officer_id"] = officer.ID
	}
	if input.StatusName != nil {
		name := *input.StatusName
		if name != database.StatusPending && name != database.StatusInReview {
			return nil, apperrors.Conflict("terminal statuses require an officer review")
		}
		status, err := s.statusByName(name)
		if err != nil {
			return nil, err
		}
		updates["status_id"] = status.ID
	}

	if len(updates) == 0 {
		return app, nil
	}

	if err := s.db.Model(&database.VisaApplication{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, apperrors.Server("failed to update application", err)
	}

	return s.Get(id)
}

// AssignOfficer assigns an officer to an application. No status side
// effects.
func (s *ApplicationService) AssignOfficer(id, officerID uuid.UUID) (*database.VisaApplication, error) {
	return s.UpdateDetails(id, UpdateDetailsInput{AssignedOfficerID: &officerID})
}

// ApplyReviewDecision resolves the status catalog row matching the
// decision and moves the application onto it. This is the only path a
// status takes out of Pending/InReview. When the catalog is missing the
// expected row the status is left unchanged and a warning is logged; the
// review itself has already been recorded by the caller.
func (s *ApplicationService) ApplyReviewDecision(id uuid.UUID, decision database.ReviewDecision) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	name := database.StatusNameForDecision(decision)

	var status database.ApplicationStatus
	if err := s.db.First(&status, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Known fragile coupling between decisions and the status
			// catalog: a missing row leaves the application where it
			// was rather than failing the review.
			log.Printf("warning: status catalog has no %q row; application %s left unchanged", name, id)
			return nil
		}
		return apperrors.Server("failed to resolve status", err)
	}

	if err := s.db.Model(&database.VisaApplication{}).Where("id = ?", id).Update("status_id", status.ID).Error; err != nil {
		return apperrors.Server("failed to apply review decision", err)
	}
	return nil
}

// Delete removes an application and cascades document deletion through
// the job queue. Refuses while a live payment order is still in flight;
// the check is best-effort only, with no atomicity against a concurrent
// verify.
func (s *ApplicationService) Delete(id uuid.UUID) error {
	app, err := s.Get(id)
	if err != nil {
		return err
	}

	payment := app.Payment
	if payment.Status == database.PaymentPending && payment.ProviderOrderID != "" && !payment.Simulated {
		return apperrors.Conflict("a payment order is in flight for this application")
	}

	if _, err := s.jobQueue.EnqueueJob(queue.JobTypeDocumentCleanup, jobs.DocumentCleanupPayload{ApplicationID: id}); err != nil {
		return apperrors.Server("failed to schedule document cleanup", err)
	}

	if err := s.db.Delete(&database.Review{}, "application_id = ?", id).Error; err != nil {
		return apperrors.Server("failed to delete reviews", err)
	}
	if err := s.db.Delete(&database.VisaApplication{}, "id = ?", id).Error; err != nil {
		return apperrors.Server("failed to delete application", err)
	}
	return nil
}

func (s *ApplicationService) statusByName(name database.StatusName) (*database.ApplicationStatus, error) {
	var status database.ApplicationStatus
	if err := s.db.First(&status, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Server("status catalog is missing "+string(name), err)
		}
		return nil, apperrors.Server("failed to resolve status", err)
	}
	return &status, nil
}
