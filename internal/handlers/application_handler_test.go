package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/visadesk/backend/internal/config"
	"github.com/visadesk/backend/internal/database"
	"github.com/visadesk/backend/internal/jobs"
	"github.com/visadesk/backend/internal/queue"
	"github.com/visadesk/backend/internal/routes"
	"github.com/visadesk/backend/internal/services/document"
	"github.com/visadesk/backend/internal/testutil"
	"github.com/visadesk/backend/internal/utils"
)

const testSecret = "handler-test-secret"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	jobQueue := queue.NewQueue(db, time.Second)
	jobs.RegisterJobs(jobQueue, db, document.NoopStore{})

	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: testSecret, Expiration: 24},
	}

	router := gin.New()
	svcs := routes.NewServices(db, nil, nil, jobQueue, true)
	routes.RegisterRoutes(router, db, cfg, svcs)

	return &testServer{router: router, db: db}
}

func (s *testServer) newUser(t *testing.T, email string, role database.Role) (*database.User, string) {
	t.Helper()

	user := database.User{Email: email, Password: "x", DisplayName: "Test User", Role: role}
	require.NoError(t, s.db.Create(&user).Error)

	token, err := utils.GenerateToken(testSecret, user.ID, role, 24)
	require.NoError(t, err)
	return &user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeApplicationID(t *testing.T, recorder *httptest.ResponseRecorder) uuid.UUID {
	t.Helper()

	var response struct {
		Application struct {
			ID uuid.UUID `json:"id"`
		} `json:"application"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response.Application.ID
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	s := newTestServer(t)

	recorder := s.do(t, http.MethodGet, "/api/visa-types", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestApplicantOwnershipOnRead(t *testing.T) {
	s := newTestServer(t)
	visaType := testutil.SeedVisaType(t, s.db, "Tourist Visa", 12000)

	_, ownerToken := s.newUser(t, "owner@example.com", database.RoleApplicant)
	_, otherToken := s.newUser(t, "other@example.com", database.RoleApplicant)
	_, officerToken := s.newUser(t, "officer@example.com", database.RoleOfficer)

	created := s.do(t, http.MethodPost, "/api/applications", ownerToken, gin.H{
		"visa_type_id": visaType.ID,
		"notes":        "holiday",
	})
	require.Equal(t, http.StatusCreated, created.Code)
	appID := decodeApplicationID(t, created)

	assert.Equal(t, http.StatusOK,
		s.do(t, http.MethodGet, "/api/applications/"+appID.String(), ownerToken, nil).Code)
	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodGet, "/api/applications/"+appID.String(), otherToken, nil).Code)
	assert.Equal(t, http.StatusOK,
		s.do(t, http.MethodGet, "/api/applications/"+appID.String(), officerToken, nil).Code)
}

func TestApplicantCannotListAllApplications(t *testing.T) {
	s := newTestServer(t)

	_, applicantToken := s.newUser(t, "a@example.com", database.RoleApplicant)
	_, officerToken := s.newUser(t, "o@example.com", database.RoleOfficer)

	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodGet, "/api/applications", applicantToken, nil).Code)
	assert.Equal(t, http.StatusOK,
		s.do(t, http.MethodGet, "/api/applications", officerToken, nil).Code)
}

func TestDeleteIsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	visaType := testutil.SeedVisaType(t, s.db, "Tourist Visa", 12000)

	_, applicantToken := s.newUser(t, "a@example.com", database.RoleApplicant)
	_, officerToken := s.newUser(t, "o@example.com", database.RoleOfficer)
	_, adminToken := s.newUser(t, "admin@example.com", database.RoleAdmin)

	created := s.do(t, http.MethodPost, "/api/applications", applicantToken, gin.H{
		"visa_type_id": visaType.ID,
	})
	require.Equal(t, http.StatusCreated, created.Code)
	appID := decodeApplicationID(t, created)

	assert.Equal(t, http.StatusForbidden,
		s.do(t, http.MethodDelete, "/api/applications/"+appID.String(), officerToken, nil).Code)
	assert.Equal(t, http.StatusOK,
		s.do(t, http.MethodDelete, "/api/applications/"+appID.String(), adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodDelete, "/api/applications/"+appID.String(), adminToken, nil).Code)
}

func TestReviewDrivenTransitionOverHTTP(t *testing.T) {
	s := newTestServer(t)
	visaType := testutil.SeedVisaType(t, s.db, "Tourist Visa", 12000)

	_, applicantToken := s.newUser(t, "a@example.com", database.RoleApplicant)
	_, officerToken := s.newUser(t, "o@example.com", database.RoleOfficer)

	created := s.do(t, http.MethodPost, "/api/applications", applicantToken, gin.H{
		"visa_type_id": visaType.ID,
	})
	require.Equal(t, http.StatusCreated, created.Code)
	appID := decodeApplicationID(t, created)

	// Applicants may not author reviews.
	forbidden := s.do(t, http.MethodPost, "/api/reviews", applicantToken, gin.H{
		"application_id": appID,
		"decision":       database.DecisionRejected,
	})
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	submitted := s.do(t, http.MethodPost, "/api/reviews", officerToken, gin.H{
		"application_id": appID,
		"decision":       database.DecisionRejected,
		"remarks":        "expired passport",
	})
	require.Equal(t, http.StatusCreated, submitted.Code)

	fetched := s.do(t, http.MethodGet, "/api/applications/"+appID.String(), officerToken, nil)
	require.Equal(t, http.StatusOK, fetched.Code)
	var appResponse struct {
		Application struct {
			Status struct {
				Name database.StatusName `json:"name"`
			} `json:"status"`
		} `json:"application"`
	}
	require.NoError(t, json.Unmarshal(fetched.Body.Bytes(), &appResponse))
	assert.Equal(t, database.StatusRejected, appResponse.Application.Status.Name)

	listed := s.do(t, http.MethodGet, "/api/reviews?application_id="+appID.String(), officerToken, nil)
	require.Equal(t, http.StatusOK, listed.Code)
	var reviewsResponse struct {
		Reviews []struct {
			Decision database.ReviewDecision `json:"decision"`
		} `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &reviewsResponse))
	require.Len(t, reviewsResponse.Reviews, 1)
	assert.Equal(t, database.DecisionRejected, reviewsResponse.Reviews[0].Decision)
}

func TestSimulatedPaymentFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	visaType := testutil.SeedVisaType(t, s.db, "Tourist Visa", 12000)

	_, applicantToken := s.newUser(t, "a@example.com", database.RoleApplicant)

	created := s.do(t, http.MethodPost, "/api/applications", applicantToken, gin.H{
		"visa_type_id": visaType.ID,
	})
	require.Equal(t, http.StatusCreated, created.Code)
	appID := decodeApplicationID(t, created)

	orderResp := s.do(t, http.MethodPost, "/api/payment/create-order", applicantToken, gin.H{
		"applicationId": appID,
	})
	require.Equal(t, http.StatusOK, orderResp.Code)
	var orderBody struct {
		Order struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		} `json:"order"`
		TestMode bool `json:"testMode"`
	}
	require.NoError(t, json.Unmarshal(orderResp.Body.Bytes(), &orderBody))
	assert.True(t, orderBody.TestMode)
	assert.Equal(t, int64(1200000), orderBody.Order.Amount)
	assert.Equal(t, "INR", orderBody.Order.Currency)

	verifyResp := s.do(t, http.MethodPost, "/api/payment/verify", applicantToken, gin.H{
		"applicationId":       appID,
		"razorpay_order_id":   orderBody.Order.ID,
		"razorpay_payment_id": "pay_simulated",
	})
	require.Equal(t, http.StatusOK, verifyResp.Code)
	var verifyBody struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(verifyResp.Body.Bytes(), &verifyBody))
	assert.True(t, verifyBody.Success)

	statusResp := s.do(t, http.MethodGet, fmt.Sprintf("/api/payment/status/%s", appID), applicantToken, nil)
	require.Equal(t, http.StatusOK, statusResp.Code)
	var statusBody struct {
		Payment struct {
			Status database.PaymentStatus `json:"status"`
			Amount int64                  `json:"amount"`
		} `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(statusResp.Body.Bytes(), &statusBody))
	assert.Equal(t, database.PaymentPaid, statusBody.Payment.Status)
	assert.Equal(t, int64(12000), statusBody.Payment.Amount)
}
