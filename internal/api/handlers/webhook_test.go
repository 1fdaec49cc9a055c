package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"brevosync/internal/database"
	"brevosync/internal/logger"
	"brevosync/internal/models"
)

func newWebhookFixture(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	wrapper, err := database.New("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	handler := NewWebhookHandler(wrapper.DB, logger.New("error"))

	router := gin.New()
	router.POST("/webhooks/brevo/unsubscribe", handler.Unsubscribe)
	router.POST("/webhooks/brevo/import", handler.ImportDone)
	router.GET("/api/v1/sync/import-report", handler.ImportReport)
	return router, wrapper.DB
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestUnsubscribeWebhookDeactivates(t *testing.T) {
	router, db := newWebhookFixture(t)

	require.NoError(t, db.Create(&models.Store{ID: 1, Name: "store"}).Error)
	require.NoError(t, db.Create(&models.Subscription{Email: "anna@example.com", StoreID: 1, Active: true}).Error)

	w := postJSON(router, "/webhooks/brevo/unsubscribe",
		`{"tag":"1","email":"anna@example.com","date_event":"2026-03-14 12:00:00"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	var subscription models.Subscription
	require.NoError(t, db.First(&subscription, "email = ?", "anna@example.com").Error)
	assert.False(t, subscription.Active)
}

func TestUnsubscribeWebhookUnparsableBody(t *testing.T) {
	router, _ := newWebhookFixture(t)

	w := postJSON(router, "/webhooks/brevo/unsubscribe", `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Bad request", w.Body.String())
}

func TestUnsubscribeWebhookIgnoresForeignPayloads(t *testing.T) {
	router, db := newWebhookFixture(t)

	require.NoError(t, db.Create(&models.Subscription{Email: "anna@example.com", StoreID: 1, Active: true}).Error)

	// Valid JSON that is not ours still answers OK and touches nothing.
	cases := []string{
		`{"email":"anna@example.com"}`,
		`{"tag":"not-a-store","email":"anna@example.com"}`,
		`{"tag":"99","email":"anna@example.com"}`,
	}
	for _, body := range cases {
		w := postJSON(router, "/webhooks/brevo/unsubscribe", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	}

	var subscription models.Subscription
	require.NoError(t, db.First(&subscription, "email = ?", "anna@example.com").Error)
	assert.True(t, subscription.Active, "foreign payloads must not mutate subscriptions")
}

func TestUnsubscribeWebhookUnknownSubscription(t *testing.T) {
	router, db := newWebhookFixture(t)

	require.NoError(t, db.Create(&models.Store{ID: 1, Name: "store"}).Error)

	w := postJSON(router, "/webhooks/brevo/unsubscribe", `{"tag":"1","email":"nobody@example.com"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestUnsubscribeWebhookStorageFailure(t *testing.T) {
	router, db := newWebhookFixture(t)

	require.NoError(t, db.Create(&models.Store{ID: 1, Name: "store"}).Error)
	require.NoError(t, db.Create(&models.Subscription{Email: "anna@example.com", StoreID: 1, Active: true}).Error)

	// A transient storage failure must answer "Bad request" so the vendor
	// retries, not "OK" which would drop the unsubscribe for good.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := postJSON(router, "/webhooks/brevo/unsubscribe", `{"tag":"1","email":"anna@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Bad request", w.Body.String())
}

func TestImportWebhookAndDisplayOnceReport(t *testing.T) {
	router, _ := newWebhookFixture(t)

	form := url.Values{
		"new_emails":       {"10"},
		"emails_exists":    {"3"},
		"invalid_email":    {"1"},
		"duplicates_email": {"0"},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/brevo/import", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	// First poll returns the report.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/import-report", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"new_emails":"10"`)

	// Second poll finds it cleared.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/import-report", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":null`)
}
