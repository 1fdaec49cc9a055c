package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"brevosync/internal/database"
	"brevosync/internal/events"
	"brevosync/internal/logger"
	"brevosync/internal/models"
)

func newCartFixture(t *testing.T) (*gin.Engine, *gorm.DB, *capturingPublisher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	wrapper, err := database.New("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	publisher := &capturingPublisher{}
	handler := NewCartHandler(wrapper.DB, publisher, logger.New("error"))

	router := gin.New()
	router.POST("/cart/items", handler.AddItem)
	router.PUT("/cart/items/:id", handler.UpdateItem)
	router.DELETE("/cart/items/:id", handler.DeleteItem)
	return router, wrapper.DB, publisher
}

func TestAddCartItem(t *testing.T) {
	router, db, publisher := newCartFixture(t)

	w := postJSON(router, "/cart/items",
		`{"customer_id":"c-1","store_id":1,"sku":"SKU-1","name":"Widget","quantity":2,"price":9.99}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.ShoppingCartItem
	require.NoError(t, db.First(&item, "sku = ?", "SKU-1").Error)
	assert.Equal(t, 2, item.Quantity)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.CartItemInserted, publisher.events[0].Type)
	assert.Equal(t, "c-1", publisher.events[0].CustomerID)
}

func TestUpdateCartItemQuantity(t *testing.T) {
	router, db, publisher := newCartFixture(t)

	item := &models.ShoppingCartItem{CustomerID: "c-1", StoreID: 1, SKU: "SKU-1", Quantity: 1, Price: 5}
	require.NoError(t, db.Create(item).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/cart/items/"+item.ID, strings.NewReader(`{"quantity":4}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(item, "id = ?", item.ID).Error)
	assert.Equal(t, 4, item.Quantity)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.CartItemUpdated, publisher.events[0].Type)
}

func TestUpdateCartItemToZeroRemovesIt(t *testing.T) {
	router, db, publisher := newCartFixture(t)

	item := &models.ShoppingCartItem{CustomerID: "c-1", StoreID: 1, SKU: "SKU-1", Quantity: 1, Price: 5}
	require.NoError(t, db.Create(item).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/cart/items/"+item.ID, strings.NewReader(`{"quantity":0}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.ShoppingCartItem{}).Where("id = ?", item.ID).Count(&count)
	assert.Zero(t, count)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.CartItemUpdated, publisher.events[0].Type,
		"the relay derives deletion from the resulting cart state")
}

func TestDeleteCartItem(t *testing.T) {
	router, db, publisher := newCartFixture(t)

	item := &models.ShoppingCartItem{CustomerID: "c-1", StoreID: 1, SKU: "SKU-1", Quantity: 1, Price: 5}
	require.NoError(t, db.Create(item).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cart/items/"+item.ID, nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.CartItemDeleted, publisher.events[0].Type)
}

func TestDeleteUnknownCartItem(t *testing.T) {
	router, _, publisher := newCartFixture(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cart/items/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, publisher.events)
}

