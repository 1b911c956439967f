package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"carelink/config"
	"carelink/internal/database"
	"carelink/internal/domain"
	"carelink/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubStorage struct{}

func (stubStorage) UploadImage(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	io.Copy(io.Discard, file)
	return "https://cdn.test/" + folder + "/" + publicID + ".jpg", nil
}

func (stubStorage) UploadVideo(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	io.Copy(io.Discard, file)
	return "https://cdn.test/" + folder + "/" + publicID + ".mp4", nil
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := config.Load()
	cfg.Wallet.MinDeposit = 10000
	cfg.Wallet.DefaultJobPrice = 200000
	return Setup(cfg, db, stubStorage{}), db
}

// seedAdmin inserts an admin account and logs it in; registration only
// issues customer and staff roles.
func seedAdmin(t *testing.T, r *gin.Engine, db *gorm.DB) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("adminpass1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Profile{
		Email:        "admin@flow.test",
		PasswordHash: string(hash),
		FullName:     "Flow Admin",
		Role:         domain.RoleAdmin,
		ReferralCode: "ADMFLOW1",
	}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "admin@flow.test",
		"password": "adminpass1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, email, role string) (token string, userID uint) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":     email,
		"password":  "s3cretpass",
		"full_name": "Flow Tester",
		"role":      role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken, resp.User.ID
}

// End-to-end marketplace flow: post, apply, approve, deposit, pay.
func TestJobLifecycleFlow(t *testing.T) {
	r, _ := setupTestRouter(t)

	customerToken, _ := registerUser(t, r, "customer@flow.test", "customer")
	staffToken, staffID := registerUser(t, r, "staff@flow.test", "staff")

	w := doJSON(t, r, http.MethodPost, "/api/v1/jobs", customerToken, map[string]interface{}{
		"name":    "Flow Family",
		"phone":   "0700000001",
		"email":   "family@flow.test",
		"address": "1 Flow Road",
		"message": "need overnight elder care",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var jobResp struct {
		Job struct {
			ID uint `json:"id"`
		} `json:"job"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobResp))
	jobID := jobResp.Job.ID

	// Staff sees the job on the marketplace.
	w = doJSON(t, r, http.MethodGet, "/api/v1/marketplace/jobs", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "overnight elder care")

	// Customers are kept off the marketplace feed.
	w = doJSON(t, r, http.MethodGet, "/api/v1/marketplace/jobs", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/apply", jobID), staffToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Applying twice conflicts.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/apply", jobID), staffToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d/applicants", jobID), customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/approve", jobID), customerToken, map[string]interface{}{
		"staff_id": staffID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Approved job leaves the marketplace.
	w = doJSON(t, r, http.MethodGet, "/api/v1/marketplace/jobs", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "overnight elder care")

	// Paying without funds fails, deposit fixes it.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/pay", jobID), customerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/wallet/deposit", customerToken, map[string]interface{}{
		"amount": 300000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/pay", jobID), customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Double payment conflicts and charges nothing further.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/pay", jobID), customerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/wallet/balance", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balanceResp struct {
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balanceResp))
	assert.Equal(t, int64(100000), balanceResp.Balance)
}

func TestAdminReplyLandsInJobChat(t *testing.T) {
	r, db := setupTestRouter(t)

	customerToken, customerID := registerUser(t, r, "replied@flow.test", "customer")
	adminToken := seedAdmin(t, r, db)

	w := doJSON(t, r, http.MethodPost, "/api/v1/jobs", customerToken, map[string]interface{}{
		"name":    "Reply Family",
		"phone":   "0700000002",
		"email":   "reply@flow.test",
		"address": "2 Reply Road",
		"message": "short question about pricing",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var jobResp struct {
		Job struct {
			ID uint `json:"id"`
		} `json:"job"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobResp))
	jobID := jobResp.Job.ID

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/admin/jobs/%d/reply", jobID), adminToken, map[string]interface{}{
		"reply": "We will call you tomorrow morning",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The reply is stored on the job and the request is closed.
	var job models.Job
	require.NoError(t, db.First(&job, jobID).Error)
	assert.Equal(t, "We will call you tomorrow morning", job.AdminReply)
	assert.Equal(t, domain.JobStatusDone, job.Status)

	// The same text shows up in the job chat addressed to the customer.
	var msgs []models.ChatMessage
	require.NoError(t, db.Where("job_id = ?", jobID).Find(&msgs).Error)
	require.Len(t, msgs, 1)
	assert.Equal(t, "We will call you tomorrow morning", msgs[0].Content)
	require.NotNil(t, msgs[0].ReceiverID)
	assert.Equal(t, customerID, *msgs[0].ReceiverID)
	assert.True(t, msgs[0].IsStaffReply)
}

func TestAuthRequiredOnProtectedRoutes(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/me/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	customerToken, _ := registerUser(t, r, "nonadmin@flow.test", "customer")
	w = doJSON(t, r, http.MethodGet, "/api/v1/admin/users", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
