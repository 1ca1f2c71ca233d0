// Package profile owns the lazy provisioning of role-specific profiles.
// Every authenticated request passes through Ensure exactly once (from
// the auth layer), so handlers never create profiles themselves.
package profile

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/apperrors"
	"github.com/visadesk/backend/internal/database"
)

// ProfileService provisions and resolves Applicant and Officer profiles.
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new profile service.
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Ensure provisions the role-specific profile for the subject if it is
// missing. Idempotent; admin subjects have no profile to provision.
func (s *ProfileService) Ensure(subjectID uuid.UUID, role database.Role) error {
	switch role {
	case database.RoleApplicant:
		_, err := s.EnsureApplicantProfile(subjectID)
		return err
	case database.RoleOfficer:
		_, err := s.EnsureOfficerProfile(subjectID)
		return err
	default:
		return nil
	}
}

// EnsureApplicantProfile returns the applicant profile owned by the
// subject, creating it on first use.
func (s *ProfileService) EnsureApplicantProfile(subjectID uuid.UUID) (*database.Applicant, error) {
	var user database.User
	if err := s.db.First(&user, "id = ?", subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Server("failed to load user", err)
	}

	profile := database.Applicant{
		OwnerUserID: subjectID,
		DisplayName: user.DisplayName,
	}
	if err := s.db.Where("owner_user_id = ?", subjectID).FirstOrCreate(&profile).Error; err != nil {
		return nil, apperrors.Server("failed to provision applicant profile", err)
	}
	return &profile, nil
}

// EnsureOfficerProfile returns the officer profile owned by the subject,
// creating it on first use.
func (s *ProfileService) EnsureOfficerProfile(subjectID uuid.UUID) (*database.Officer, error) {
	var user database.User
	if err := s.db.First(&user, "id = ?", subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Server("failed to load user", err)
	}

	profile := database.Officer{
		OwnerUserID: subjectID,
		DisplayName: user.DisplayName,
	}
	if err := s.db.Where("owner_user_id = ?", subjectID).FirstOrCreate(&profile).Error; err != nil {
		return nil, apperrors.Server("failed to provision officer profile", err)
	}
	return &profile, nil
}

// ApplicantBySubject resolves the applicant profile owned by a subject.
// Fails with NotFound when the profile has not been provisioned.
func (s *ProfileService) ApplicantBySubject(subjectID uuid.UUID) (*database.Applicant, error) {
	var profile database.Applicant
	if err := s.db.First(&profile, "owner_user_id = ?", subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("applicant profile not found")
		}
		return nil, apperrors.Server("failed to load applicant profile", err)
	}
	return &profile, nil
}

// OfficerBySubject resolves the officer profile owned by a subject.
func (s *ProfileService) OfficerBySubject(subjectID uuid.UUID) (*database.Officer, error) {
	var profile database.Officer
	if err := s.db.First(&profile, "owner_user_id = ?", subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("officer profile not found")
		}
		return nil, apperrors.Server("failed to load officer profile", err)
	}
	return &profile, nil
}
