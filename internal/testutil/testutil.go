// Package testutil provides the in-memory database fixture shared by
// service and handler tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/queue"
)

// NewDB opens a fresh in-memory database with the full schema and the
// status catalog seeded.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&database.User{},
		&database.Applicant{},
		&database.Officer{},
		&database.VisaType{},
		&database.ApplicationStatus{},
		&database.VisaApplication{},
		&database.Review{},
		&database.Document{},
		&queue.Job{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, name := range database.AllStatusNames() {
		if err := db.Create(&database.ApplicationStatus{Name: name}).Error; err != nil {
			t.Fatalf("failed to seed status %s: %v", name, err)
		}
	}

	return db
}

// SeedVisaType inserts a visa type with the given fee.
func SeedVisaType(t *testing.T, db *gorm.DB, name string, fee int64) *database.VisaType {
	t.Helper()

	visaType := database.VisaType{
		Name:              name,
		Slug:              fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
		Fee:               fee,
		Currency:          "INR",
		DurationDays:      90,
		RequiredDocuments: []string{"Passport", "Photograph"},
	}
	if err := db.Create(&visaType).Error; err != nil {
		t.Fatalf("failed to seed visa type: %v", err)
	}
	return &visaType
}

// SeedApplicant inserts a user with the applicant role and its profile.
func SeedApplicant(t *testing.T, db *gorm.DB, email string) (*database.User, *database.Applicant) {
	t.Helper()

	user := database.User{
		Email:       email,
		Password:    "x",
		DisplayName: "Test Applicant",
		Role:        database.RoleApplicant,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	profile := database.Applicant{OwnerUserID: user.ID, DisplayName: user.DisplayName}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed applicant profile: %v", err)
	}
	return &user, &profile
}

// SeedOfficer inserts a user with the officer role and its profile.
func SeedOfficer(t *testing.T, db *gorm.DB, email string) (*database.User, *database.Officer) {
	t.Helper()

	user := database.User{
		Email:       email,
		Password:    "x",
		DisplayName: "Test Officer",
		Role:        database.RoleOfficer,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	profile := database.Officer{OwnerUserID: user.ID, DisplayName: user.DisplayName}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed officer profile: %v", err)
	}
	return &user, &profile
}

// SeedApplication inserts a Pending application for the applicant.
func SeedApplication(t *testing.T, db *gorm.DB, applicant *database.Applicant, visaType *database.VisaType) *database.VisaApplication {
	t.Helper()

	var pending database.ApplicationStatus
	if err := db.First(&pending, "name = ?", database.StatusPending).Error; err != nil {
		t.Fatalf("status catalog is missing Pending: %v", err)
	}

	app := database.VisaApplication{
		ApplicantID:     applicant.ID,
		VisaTypeID:      visaType.ID,
		StatusID:        pending.ID,
		ApplicationDate: time.Now(),
		Payment: database.PaymentRecord{
			Amount:   0,
			Currency: visaType.Currency,
			Status:   database.PaymentPending,
		},
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("failed to seed application: %v", err)
	}
	return &app
}

// StatusNameOf resolves the current status name of an application.
func StatusNameOf(t *testing.T, db *gorm.DB, applicationID uuid.UUID) database.StatusName {
	t.Helper()

	var app database.VisaApplication
	if err := db.First(&app, "id = ?", applicationID).Error; err != nil {
		t.Fatalf("failed to load application: %v", err)
	}
	var status database.ApplicationStatus
	if err := db.First(&status, "id = ?", app.StatusID).Error; err != nil {
		t.Fatalf("failed to load status: %v", err)
	}
	return status.Name
}
