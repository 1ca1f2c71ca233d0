package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies what an authenticated subject is allowed to act as.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleOfficer   Role = "officer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleApplicant, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

// StatusName is the closed set of application lifecycle states.
type StatusName string

const (
	StatusPending          StatusName = "Pending"
	StatusInReview         StatusName = "InReview"
	StatusApproved         StatusName = "Approved"
	StatusRejected         StatusName = "Rejected"
	StatusMoreInfoRequired StatusName = "MoreInfoRequired"
)

// AllStatusNames lists every lifecycle state, in seed order.
func AllStatusNames() []StatusName {
	return []StatusName{StatusPending, StatusInReview, StatusApproved, StatusRejected, StatusMoreInfoRequired}
}

// ReviewDecision is the closed set of outcomes an officer may record.
type ReviewDecision string

const (
	DecisionApproved         ReviewDecision = "Approved"
	DecisionRejected         ReviewDecision = "Rejected"
	DecisionMoreInfoRequired ReviewDecision = "MoreInfoRequired"
)

// Valid reports whether d is a known decision.
func (d ReviewDecision) Valid() bool {
	switch d {
	case DecisionApproved, DecisionRejected, DecisionMoreInfoRequired:
		return true
	}
	return false
}

// StatusNameForDecision maps a review decision to the lifecycle state it
// drives the application into. Total over the enum.
func StatusNameForDecision(d ReviewDecision) StatusName {
	switch d {
	case DecisionApproved:
		return StatusApproved
	case DecisionRejected:
		return StatusRejected
	default:
		return StatusMoreInfoRequired
	}
}

// PaymentStatus tracks gateway reconciliation state for an application fee.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

// User is the identity record a bearer token resolves to.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	DisplayName string         `json:"display_name"`
	Role        Role           `gorm:"not null" json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Applicant is the role-specific profile owned 1:1 by a User with the
// applicant role. Provisioned lazily on first authenticated action.
type Applicant struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OwnerUserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"owner_user_id"`
	DisplayName    string     `json:"display_name"`
	PassportNumber string     `json:"passport_number"`
	Nationality    string     `json:"nationality"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (a *Applicant) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Officer is the role-specific profile owned 1:1 by a User with the
// officer role.
type Officer struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"owner_user_id"`
	DisplayName string    `json:"display_name"`
	BadgeNumber string    `json:"badge_number"`
	Department  string    `json:"department"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (o *Officer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// VisaType is a catalog entry defining the fee and requirements for one
// kind of visa. Fee changes never retroactively affect existing
// applications: the collected amount is frozen on the application at
// order-creation time.
type VisaType struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name              string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug              string    `gorm:"uniqueIndex" json:"slug"`
	Fee               int64     `gorm:"not null" json:"fee"` // major currency units
	Currency          string    `gorm:"default:INR" json:"currency"`
	DurationDays      int       `json:"duration_days"`
	RequiredDocuments []string  `gorm:"serializer:json" json:"required_documents"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (v *VisaType) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// ApplicationStatus is the status catalog. Rows are seeded by migration
// for exactly the five StatusName values; nothing creates new ones at
// runtime.
type ApplicationStatus struct {
	ID   uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name StatusName `gorm:"uniqueIndex;not null" json:"name"`
}

func (s *ApplicationStatus) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// PaymentRecord is the reconciliation sub-record embedded in a
// VisaApplication. Amount is frozen at order-creation time; status only
// moves Pending->Paid or Pending->Failed, and Paid is terminal here.
type PaymentRecord struct {
	Amount            int64         `json:"amount"` // major currency units
	Currency          string        `gorm:"default:INR" json:"currency"`
	Status            PaymentStatus `gorm:"default:Pending" json:"status"`
	ProviderOrderID   string        `json:"provider_order_id"`
	ProviderPaymentID string        `json:"provider_payment_id"`
	Signature         string        `json:"-"`
	PaidAt            *time.Time    `json:"paid_at"`
	Simulated         bool          `gorm:"default:false" json:"simulated"`
}

// VisaApplication is the central lifecycle record.
type VisaApplication struct {
	ID                uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	ApplicantID       uuid.UUID     `gorm:"type:uuid;index;not null" json:"applicant_id"`
	VisaTypeID        uuid.UUID     `gorm:"type:uuid;not null" json:"visa_type_id"`
	StatusID          uuid.UUID     `gorm:"type:uuid;not null" json:"status_id"`
	AssignedOfficerID *uuid.UUID    `gorm:"type:uuid" json:"assigned_officer_id"`
	ApplicationDate   time.Time     `json:"application_date"`
	AppointmentDate   *time.Time    `json:"appointment_date"`
	Notes             string        `json:"notes"`
	Payment           PaymentRecord `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	// Relationships
	Applicant *Applicant         `json:"applicant,omitempty"`
	VisaType  *VisaType          `json:"visa_type,omitempty"`
	Status    *ApplicationStatus `json:"status,omitempty"`
	Reviews   []Review           `gorm:"foreignKey:ApplicationID" json:"reviews,omitempty"`
}

func (a *VisaApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Review is an officer's formal decision on an application. Append-only;
// the application's status reflects whichever review was applied last.
type Review struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ApplicationID uuid.UUID      `gorm:"type:uuid;index;not null" json:"application_id"`
	OfficerID     uuid.UUID      `gorm:"type:uuid;not null" json:"officer_id"`
	Date          time.Time      `json:"date"`
	Decision      ReviewDecision `gorm:"not null" json:"decision"`
	Remarks       string         `json:"remarks"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Document is metadata for a file hosted by the external media provider.
// Upload happens outside this service; deletion cascades from application
// delete through the job queue.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ApplicationID    uuid.UUID `gorm:"type:uuid;index;not null" json:"application_id"`
	Name             string    `json:"name"`
	ProviderPublicID string    `json:"provider_public_id"`
	URL              string    `json:"url"`
	CreatedAt        time.Time `json:"created_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
