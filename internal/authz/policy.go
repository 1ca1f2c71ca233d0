// Package authz holds the pure access-control decisions. Nothing here
// touches the database: callers resolve the records first, then ask.
package authz

import (
	"github.com/visadesk/backend/internal/database"
)

// Action names an operation an actor may attempt on a resource.
type Action string

const (
	ActionCreateApplication Action = "application:create"
	ActionReadApplication   Action = "application:read"
	ActionListApplications  Action = "application:list"
	ActionUpdateApplication Action = "application:update"
	ActionAssignOfficer     Action = "application:assign"
	ActionDeleteApplication Action = "application:delete"
	ActionCreateOrder       Action = "payment:create_order"
	ActionVerifyPayment     Action = "payment:verify"
	ActionReadPayment       Action = "payment:read"
	ActionSubmitReview      Action = "review:submit"
	ActionListReviews       Action = "review:list"
)

// CanAccess is the role gate: it decides whether the role may attempt
// the action at all. Ownership-scoped actions still need an ownership
// check on top (see OwnsApplication).
func CanAccess(role database.Role, action Action) bool {
	if role == database.RoleAdmin {
		return true
	}

	switch role {
	case database.RoleOfficer:
		switch action {
		case ActionReadApplication, ActionListApplications, ActionUpdateApplication,
			ActionAssignOfficer, ActionSubmitReview, ActionListReviews, ActionReadPayment:
			return true
		}
	case database.RoleApplicant:
		switch action {
		case ActionCreateApplication, ActionReadApplication, ActionUpdateApplication,
			ActionCreateOrder, ActionVerifyPayment, ActionReadPayment, ActionListReviews:
			return true
		}
	}
	return false
}

// OwnsApplication reports whether the applicant profile owns the
// application. Ownership compares profile id to the application's
// applicant id; the profile itself is looked up by owner_user_id, never
// by comparing a subject id to an applicant id directly.
func OwnsApplication(profile *database.Applicant, app *database.VisaApplication) bool {
	if profile == nil || app == nil {
		return false
	}
	return profile.ID == app.ApplicantID
}
