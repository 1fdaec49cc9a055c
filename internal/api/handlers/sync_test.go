package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "brevosync/internal/config"
	"brevosync/internal/database"
	"brevosync/internal/logger"
	"brevosync/internal/models"
	"brevosync/internal/services/brevo"
	syncpkg "brevosync/internal/sync"
)

func newSyncFixture(t *testing.T, configured bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	wrapper, err := database.New("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/contacts/import" {
			json.NewEncoder(w).Encode(brevo.ImportContactsResponse{ProcessID: 1})
			return
		}
		json.NewEncoder(w).Encode(brevo.ContactsResponse{})
	}))
	t.Cleanup(server.Close)

	if configured {
		require.NoError(t, syncpkg.SaveSetting(wrapper.DB, models.DefaultStoreID, models.SettingAPIKey, "key"))
		require.NoError(t, syncpkg.SaveSetting(wrapper.DB, 1, models.SettingListID, "5"))
		require.NoError(t, wrapper.DB.Create(&models.Subscription{
			Email: "anna@example.com", StoreID: 1, Active: true,
		}).Error)
	}

	appCfg := &appconfig.Config{
		BrevoBaseURL:  server.URL,
		PublicBaseURL: "http://callback.test",
		LogLevel:      "error",
	}
	log := logger.New("error")
	handler := NewSyncHandler(syncpkg.NewSynchronizer(wrapper.DB, appCfg, log), log)

	router := gin.New()
	router.POST("/sync", handler.SyncAll)
	router.POST("/sync/:storeId", handler.SyncStore)
	return router
}

func TestSyncStoreEndpoint(t *testing.T) {
	router := newSyncFixture(t, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []syncpkg.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, syncpkg.OutcomeSuccess, response.Results[0].Outcome)
}

func TestSyncUnconfiguredEndpoint(t *testing.T) {
	router := newSyncFixture(t, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestSyncInvalidStoreID(t *testing.T) {
	router := newSyncFixture(t, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
