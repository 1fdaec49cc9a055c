package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"brevosync/internal/logger"
	"brevosync/internal/services/brevo"
	syncpkg "brevosync/internal/sync"
)

type SyncHandler struct {
	synchronizer *syncpkg.Synchronizer
	logger       *logger.Logger
}

func NewSyncHandler(synchronizer *syncpkg.Synchronizer, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		synchronizer: synchronizer,
		logger:       logger,
	}
}

// SyncAll triggers synchronization of every store plus the cross-store
// default, the same pass the scheduler runs.
func (h *SyncHandler) SyncAll(c *gin.Context) {
	results, err := h.synchronizer.SynchronizeAll()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// SyncStore triggers a manual synchronization limited to one store.
func (h *SyncHandler) SyncStore(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	results, err := h.synchronizer.SynchronizeStore(storeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *SyncHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, brevo.ErrNotConfigured) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Synchronization failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Synchronization failed"})
}
