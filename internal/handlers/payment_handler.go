package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/visadesk/backend/internal/middleware"
	"github.com/visadesk/backend/internal/services/payment"
	"github.com/visadesk/backend/internal/services/profile"
)

// PaymentHandler handles payment order creation and verification.
type PaymentHandler struct {
	payments *payment.PaymentService
	profiles *profile.ProfileService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(payments *payment.PaymentService, profiles *profile.ProfileService) *PaymentHandler {
	return &PaymentHandler{payments: payments, profiles: profiles}
}

// CreateOrderRequest represents a request to open a payment order.
type CreateOrderRequest struct {
	ApplicationID uuid.UUID `json:"applicationId" binding:"required"`
}

// CreateOrder opens a payment order against the requesting applicant's
// application.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": err.Error()})
		return
	}

	applicant, err := h.profiles.ApplicantBySubject(principal.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.payments.CreateOrder(c.Request.Context(), applicant, req.ApplicationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": gin.H{
			"id":       order.OrderID,
			"amount":   order.Amount,
			"currency": order.Currency,
		},
		"key":      order.Key,
		"testMode": order.TestMode,
	})
}

// VerifyRequest is the gateway callback payload relayed by the client.
// Field names follow the provider's checkout convention.
type VerifyRequest struct {
	ApplicationID     uuid.UUID `json:"applicationId" binding:"required"`
	RazorpayOrderID   string    `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string    `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string    `json:"razorpay_signature"`
}

// Verify reconciles a payment callback against the stored order.
func (h *PaymentHandler) Verify(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": err.Error()})
		return
	}

	applicant, err := h.profiles.ApplicantBySubject(principal.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.payments.Verify(c.Request.Context(), applicant, req.ApplicationID,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": result.Success, "message": result.Message})
}

// GetStatus returns the read-only payment snapshot for an application.
func (h *PaymentHandler) GetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("applicationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation_error", "error": "invalid application id"})
		return
	}

	record, err := h.payments.GetStatus(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": record})
}
