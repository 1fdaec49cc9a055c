package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brevosync/internal/logger"
	"brevosync/internal/models"
)

type StoreHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewStoreHandler(db *gorm.DB, logger *logger.Logger) *StoreHandler {
	return &StoreHandler{
		db:     db,
		logger: logger,
	}
}

func (h *StoreHandler) List(c *gin.Context) {
	var stores []models.Store

	if err := h.db.Find(&stores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stores})
}

func (h *StoreHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var store models.Store
	if err := h.db.First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (h *StoreHandler) Create(c *gin.Context) {
	var store models.Store
	if err := c.ShouldBindJSON(&store); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Create(&store).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create store"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": store})
}
