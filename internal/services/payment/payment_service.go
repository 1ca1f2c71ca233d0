// Package payment wraps the external payment provider behind the
// lifecycle's reconciliation rules: one active order per application,
// amounts frozen at order creation, Paid as a terminal state, and a
// simulation mode with the identical contract for environments without
// live credentials.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/apperrors"
	"github.com/visadesk/backend/internal/authz"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/services/catalog"
	"github.com/visadesk/backend/internal/services/payment/providers/razorpay"
	"github.com/visadesk/backend/internal/utils"
)

// SimulatedOrderPrefix marks orders synthesized without the provider.
// Verification only takes the simulated path for orders carrying it
// (or when the whole process runs in test mode), so a live order can
// never be confirmed without a valid signature.
const SimulatedOrderPrefix = "test_order_"

// Provider is the slice of the gateway client the adapter needs.
type Provider interface {
	CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error)
	KeyID() string
	KeySecret() string
}

// PaymentService is the gateway adapter.
type PaymentService struct {
	db       *gorm.DB
	catalog  *catalog.CatalogService
	provider Provider
	testMode bool
}

// NewPaymentService creates a payment service. With testMode set the
// provider is never contacted.
func NewPaymentService(db *gorm.DB, catalogService *catalog.CatalogService, provider Provider, testMode bool) *PaymentService {
	return &PaymentService{
		db:       db,
		catalog:  catalogService,
		provider: provider,
		testMode: testMode,
	}
}

// OrderResult is what a successful CreateOrder returns to the client.
type OrderResult struct {
	OrderID  string `json:"id"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Key      string `json:"key,omitempty"`
	TestMode bool   `json:"testMode"`
}

// toMinorUnits is the single conversion point to the provider's
// minor-currency-unit convention, used for order creation and any later
// comparison alike.
func toMinorUnits(amount int64) int64 {
	return amount * 100
}

// CreateOrder creates (or returns the already-recorded) payment order
// for an application owned by the requesting applicant. The amount is
// the visa type's fee as of now, frozen onto the application.
func (s *PaymentService) CreateOrder(ctx context.Context, requester *database.Applicant, applicationID uuid.UUID) (*OrderResult, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	if !authz.OwnsApplication(requester, app) {
		return nil, apperrors.Forbidden("application belongs to a different applicant")
	}

	if app.Payment.Status == database.PaymentPaid {
		return nil, apperrors.Conflict("application fee is already paid")
	}

	// A repeated call after a lost response returns the recorded order
	// instead of opening a second one.
	if app.Payment.Status == database.PaymentPending && app.Payment.ProviderOrderID != "" {
		return &OrderResult{
			OrderID:  app.Payment.ProviderOrderID,
			Amount:   toMinorUnits(app.Payment.Amount),
			Currency: app.Payment.Currency,
			Key:      s.publicKey(),
			TestMode: app.Payment.Simulated,
		}, nil
	}

	visaType, err := s.catalog.GetVisaType(ctx, app.VisaTypeID)
	if err != nil {
		return nil, err
	}

	if s.testMode {
		orderID := fmt.Sprintf("%s%d", SimulatedOrderPrefix, time.Now().UnixNano())
		if err := s.recordOrder(app.ID, visaType, orderID, true); err != nil {
			return nil, err
		}
		return &OrderResult{
			OrderID:  orderID,
			Amount:   toMinorUnits(visaType.Fee),
			Currency: visaType.Currency,
			Key:      s.publicKey(),
			TestMode: true,
		}, nil
	}

	order, err := s.provider.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:   toMinorUnits(visaType.Fee),
		Currency: visaType.Currency,
		Receipt:  utils.PaymentReceipt(app.ID, time.Now().Unix()),
	})
	if err != nil {
		// Nothing was recorded, so the payment stays Pending with no
		// order id and the client may retry.
		return nil, apperrors.Provider("payment provider order creation failed", err)
	}

	if err := s.recordOrder(app.ID, visaType, order.ID, false); err != nil {
		return nil, err
	}

	return &OrderResult{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      s.publicKey(),
		TestMode: false,
	}, nil
}

// recordOrder freezes the fee and order id onto the application. The
// guarded WHERE closes the concurrent-createOrder window: only one
// writer can claim the empty order slot. A Failed record is claimable
// too, so resubmitting createOrder is the retry path after a rejected
// verification; claiming it resets the failed attempt's details.
func (s *PaymentService) recordOrder(applicationID uuid.UUID, visaType *database.VisaType, orderID string, simulated bool) error {
	result := s.db.Model(&database.VisaApplication{}).
		Where("id = ? AND ((payment_status = ? AND payment_provider_order_id = '') OR payment_status = ?)",
			applicationID, database.PaymentPending, database.PaymentFailed).
		Updates(map[string]interface{}{
			"payment_amount":              visaType.Fee,
			"payment_currency":            visaType.Currency,
			"payment_status":              database.PaymentPending,
			"payment_provider_order_id":   orderID,
			"payment_provider_payment_id": "",
			"payment_signature":           "",
			"payment_paid_at":             nil,
			"payment_simulated":           simulated,
		})
	if result.Error != nil {
		return apperrors.Server("failed to record payment order", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.Conflict("another payment order is already active for this application")
	}
	return nil
}

// VerifyResult reports the outcome of a verification call.
type VerifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Verify reconciles a gateway callback against the stored order.
// Idempotent: once Paid, later calls return success without mutating
// anything. A signature mismatch records the failure so status queries
// reflect it.
func (s *PaymentService) Verify(ctx context.Context, requester *database.Applicant, applicationID uuid.UUID, orderID, paymentID, signature string) (*VerifyResult, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}

	if !authz.OwnsApplication(requester, app) {
		return nil, apperrors.Forbidden("application belongs to a different applicant")
	}

	if app.Payment.Status == database.PaymentPaid {
		return &VerifyResult{Success: true, Message: "payment already verified"}, nil
	}

	if app.Payment.ProviderOrderID == "" {
		return nil, apperrors.Validation("no payment order has been created for this application")
	}

	if strings.HasPrefix(app.Payment.ProviderOrderID, SimulatedOrderPrefix) || s.testMode {
		if err := s.markPaid(app.ID, paymentID, signature); err != nil {
			return nil, err
		}
		return &VerifyResult{Success: true, Message: "payment verified (simulated)"}, nil
	}

	if app.Payment.ProviderOrderID != orderID {
		return nil, apperrors.Validation("order id does not match the recorded payment order")
	}

	payload := orderID + "|" + paymentID
	if utils.VerifyHMAC(payload, signature, s.provider.KeySecret()) {
		if err := s.markPaid(app.ID, paymentID, signature); err != nil {
			return nil, err
		}
		return &VerifyResult{Success: true, Message: "payment verified"}, nil
	}

	if err := s.db.Model(&database.VisaApplication{}).
		Where("id = ? AND payment_status = ?", app.ID, database.PaymentPending).
		Update("payment_status", database.PaymentFailed).Error; err != nil {
		return nil, apperrors.Server("failed to record payment failure", err)
	}
	return &VerifyResult{Success: false, Message: "payment signature verification failed"}, nil
}

// markPaid transitions Pending->Paid. The guarded WHERE keeps Paid
// monotonic under concurrent verifies: at most one mutation happens.
func (s *PaymentService) markPaid(applicationID uuid.UUID, paymentID, signature string) error {
	now := time.Now()
	result := s.db.Model(&database.VisaApplication{}).
		Where("id = ? AND payment_status = ?", applicationID, database.PaymentPending).
		Updates(map[string]interface{}{
			"payment_status":              database.PaymentPaid,
			"payment_provider_payment_id": paymentID,
			"payment_signature":           signature,
			"payment_paid_at":             now,
		})
	if result.Error != nil {
		return apperrors.Server("failed to record payment", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either a concurrent verify won (the record is Paid) or the
		// record moved to Failed since it was loaded; only the former
		// counts as success.
		current, err := s.loadApplication(applicationID)
		if err != nil {
			return err
		}
		if current.Payment.Status != database.PaymentPaid {
			return apperrors.Conflict("payment is no longer pending; create a new order to retry")
		}
	}
	return nil
}

// GetStatus returns the payment snapshot for an application.
func (s *PaymentService) GetStatus(applicationID uuid.UUID) (*database.PaymentRecord, error) {
	app, err := s.loadApplication(applicationID)
	if err != nil {
		return nil, err
	}
	record := app.Payment
	if record.Status == "" {
		record.Status = database.PaymentPending
	}
	return &record, nil
}

func (s *PaymentService) loadApplication(id uuid.UUID) (*database.VisaApplication, error) {
	var app database.VisaApplication
	if err := s.db.First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application not found")
		}
		return nil, apperrors.Server("failed to load application", err)
	}
	return &app, nil
}

func (s *PaymentService) publicKey() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.KeyID()
}
