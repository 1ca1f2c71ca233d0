package review

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/apperrors"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/jobs"
	"github.com/visadesk/backend/internal/queue"
	"github.com/visadesk/backend/internal/services/application"
	"github.com/visadesk/backend/internal/services/catalog"
	"github.com/visadesk/backend/internal/services/document"
	"github.com/visadesk/backend/internal/testutil"
)

func newService(t *testing.T) (*ReviewService, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	jobQueue := queue.NewQueue(db, time.Second)
	jobs.RegisterJobs(jobQueue, db, document.NoopStore{})
	applications := application.NewApplicationService(db, catalog.NewCatalogService(db, nil), jobQueue)
	return NewReviewService(db, applications), db
}

func TestSubmitReviewDrivesStatusTransition(t *testing.T) {
	svc, db := newService(t)

	visaType := testutil.SeedVisaType(t, db, "Tourist Visa", 12000)
	_, applicant := testutil.SeedApplicant(t, db, "a@example.com")
	_, officer := testutil.SeedOfficer(t, db, "o@example.com")
	app := testutil.SeedApplication(t, db, applicant, visaType)

	created, err := svc.SubmitReview(officer, app.ID, database.DecisionRejected, "incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, database.DecisionRejected, created.Decision)
	assert.Equal(t, officer.ID, created.OfficerID)

	assert.Equal(t, database.StatusRejected, testutil.StatusNameOf(t, db, app.ID))

	reviews, err := svc.ListReviews(app.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, database.DecisionRejected, reviews[0].Decision)
}

func TestSubmitReviewRejectsUnknownDecision(t *testing.T) {
	svc, db := newService(t)

	visaType := testutil.SeedVisaType(t, db, "Tourist Visa", 12000)
	_, applicant := testutil.SeedApplicant(t, db, "a@example.com")
	_, officer := testutil.SeedOfficer(t, db, "o@example.com")
	app := testutil.SeedApplication(t, db, applicant, visaType)

	_, err := svc.SubmitReview(officer, app.ID, database.ReviewDecision("Escalated"), "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSubmitReviewUnknownApplication(t *testing.T) {
	svc, db := newService(t)
	_, officer := testutil.SeedOfficer(t, db, "o@example.com")

	_, err := svc.SubmitReview(officer, uuid.New(), database.DecisionApproved, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestReviewHistoryIsAppendOnlyNewestFirst(t *testing.T) {
	svc, db := newService(t)

	visaType := testutil.SeedVisaType(t, db, "Tourist Visa", 12000)
	_, applicant := testutil.SeedApplicant(t, db, "a@example.com")
	_, first := testutil.SeedOfficer(t, db, "first@example.com")
	_, second := testutil.SeedOfficer(t, db, "second@example.com")
	app := testutil.SeedApplication(t, db, applicant, visaType)

	_, err := svc.SubmitReview(first, app.ID, database.DecisionMoreInfoRequired, "need bank statement")
	require.NoError(t, err)

	// Backdate the first review so ordering by date is observable.
	require.NoError(t, db.Model(&database.Review{}).
		Where("officer_id = ?", first.ID).
		Update("date", time.Now().Add(-time.Hour)).Error)

	_, err = svc.SubmitReview(second, app.ID, database.DecisionApproved, "")
	require.NoError(t, err)

	reviews, err := svc.ListReviews(app.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, database.DecisionApproved, reviews[0].Decision)
	assert.Equal(t, database.DecisionMoreInfoRequired, reviews[1].Decision)

	// The last applied review wins the current status.
	assert.Equal(t, database.StatusApproved, testutil.StatusNameOf(t, db, app.ID))
}
