package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brevosync/internal/logger"
	"brevosync/internal/models"
	"brevosync/internal/services/brevo"
)

func TestExportTemplateMapsTokensAndLinksRemoteID(t *testing.T) {
	db := newNotifyDB(t)
	require.NoError(t, db.Create(&models.MessageTemplate{
		Name:    "order.placed",
		Subject: "Order %Order.OrderId%",
		Body:    "Hello %Customer.Username%, your order %Order.OrderId% is in",
	}).Error)

	var got brevo.CreateTemplateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/smtp/templates", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":17}`))
	}))
	defer server.Close()

	client, err := brevo.NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	tokens := []string{"%Order.OrderId%", "%Customer.Username%"}
	remoteID, err := ExportTemplate(db, client, "order.placed", tokens, brevo.Sender{Email: "shop@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(17), remoteID)

	assert.Equal(t, "Order {{params.ORDER_ORDERID}}", got.Subject)
	assert.Equal(t, "Hello {{params.CUSTOMER_USERNAME}}, your order {{params.ORDER_ORDERID}} is in", got.HTMLContent)
	assert.True(t, got.IsActive)

	var reloaded models.MessageTemplate
	require.NoError(t, db.First(&reloaded, "name = ?", "order.placed").Error)
	require.NotNil(t, reloaded.BrevoTemplateID)
	assert.Equal(t, int64(17), *reloaded.BrevoTemplateID)
}

func TestImportTemplateReversesMapping(t *testing.T) {
	db := newNotifyDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/smtp/templates/17", r.URL.Path)
		json.NewEncoder(w).Encode(brevo.EmailTemplate{
			ID:          17,
			Name:        "order.placed",
			Subject:     "Order {{params.ORDER_ORDERID}}",
			HTMLContent: "Total {{params.ORDER_ORDERTOTAL}}",
		})
	}))
	defer server.Close()

	client, err := brevo.NewClientWithBaseURL("key", server.URL, logger.New("error"))
	require.NoError(t, err)

	template, err := ImportTemplate(db, client, 17)
	require.NoError(t, err)

	assert.Equal(t, "Order %ORDER.ORDERID%", template.Subject)
	assert.Equal(t, "Total %ORDER.ORDERTOTAL%", template.Body)
	assert.True(t, template.UseBrevo)
	require.NotNil(t, template.BrevoTemplateID)
	assert.Equal(t, int64(17), *template.BrevoTemplateID)

	// Importing again updates the existing record instead of duplicating it.
	_, err = ImportTemplate(db, client, 17)
	require.NoError(t, err)

	var count int64
	db.Model(&models.MessageTemplate{}).Where("name = ?", "order.placed").Count(&count)
	assert.Equal(t, int64(1), count)
}
