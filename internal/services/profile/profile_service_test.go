package profile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visadesk/backend/internal/apperrors"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/testutil"
)

func TestEnsureApplicantProfileIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewProfileService(db)

	user := database.User{Email: "a@example.com", Password: "x", DisplayName: "A", Role: database.RoleApplicant}
	require.NoError(t, db.Create(&user).Error)

	first, err := svc.EnsureApplicantProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, first.OwnerUserID)
	assert.Equal(t, "A", first.DisplayName)

	second, err := svc.EnsureApplicantProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&database.Applicant{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureOfficerProfileIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewProfileService(db)

	user := database.User{Email: "o@example.com", Password: "x", DisplayName: "O", Role: database.RoleOfficer}
	require.NoError(t, db.Create(&user).Error)

	first, err := svc.EnsureOfficerProfile(user.ID)
	require.NoError(t, err)
	second, err := svc.EnsureOfficerProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureRejectsUnknownUser(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewProfileService(db)

	_, err := svc.EnsureApplicantProfile(uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestApplicantBySubjectMissingProfile(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewProfileService(db)

	_, err := svc.ApplicantBySubject(uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
