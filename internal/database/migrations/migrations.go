package migrations

import (
	"log"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/queue"
	"github.com/visadesk/backend/internal/services/catalog"
)

// RunMigrations runs all database migrations in order.
func RunMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrationsList)

	if err := m.Migrate(); err != nil {
		log.Printf("Could not migrate: %v", err)
		return err
	}
	log.Printf("Migrations ran successfully")
	return nil
}

var migrationsList = []*gormigrate.Migration{
	{
		ID: "000001_create_core_tables",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
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
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				&queue.Job{},
				&database.Document{},
				&database.Review{},
				&database.VisaApplication{},
				&database.ApplicationStatus{},
				&database.VisaType{},
				&database.Officer{},
				&database.Applicant{},
				&database.User{},
			)
		},
	},
	{
		ID: "000002_seed_application_statuses",
		Migrate: func(tx *gorm.DB) error {
			for _, name := range database.AllStatusNames() {
				status := database.ApplicationStatus{Name: name}
				if err := tx.Where("name = ?", name).FirstOrCreate(&status).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Where("1 = 1").Delete(&database.ApplicationStatus{}).Error
		},
	},
	{
		ID: "000003_seed_visa_types",
		Migrate: func(tx *gorm.DB) error {
			seed := []database.VisaType{
				{
					Name:         "Tourist Visa",
					Fee:          12000,
					Currency:     "INR",
					DurationDays: 90,
					RequiredDocuments: []string{
						"Passport", "Photograph", "Travel Itinerary", "Bank Statement",
					},
				},
				{
					Name:         "Business Visa",
					Fee:          20000,
					Currency:     "INR",
					DurationDays: 180,
					RequiredDocuments: []string{
						"Passport", "Photograph", "Invitation Letter", "Company Registration",
					},
				},
				{
					Name:         "Student Visa",
					Fee:          8000,
					Currency:     "INR",
					DurationDays: 365,
					RequiredDocuments: []string{
						"Passport", "Photograph", "Admission Letter", "Financial Proof",
					},
				},
			}
			cat := catalog.NewCatalogService(tx, nil)
			for _, vt := range seed {
				var count int64
				if err := tx.Model(&database.VisaType{}).Where("name = ?", vt.Name).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					continue
				}
				record := vt
				if err := cat.CreateVisaType(&record); err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Where("1 = 1").Delete(&database.VisaType{}).Error
		},
	},
}
