package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/photo-timeline/internal/service"
	"github.com/jengzang/photo-timeline/pkg/response"
)

// RefreshHandler handles photo import and sync status requests
type RefreshHandler struct {
	service *service.RefreshService
}

// NewRefreshHandler creates a new refresh handler
func NewRefreshHandler(service *service.RefreshService) *RefreshHandler {
	return &RefreshHandler{service: service}
}

// Refresh handles POST /api/v1/refresh?full=true
func (h *RefreshHandler) Refresh(c *gin.Context) {
	full := c.Query("full") == "true"

	result, err := h.service.Refresh(c.Request.Context(), full)
	if err != nil {
		response.FromError(c, "Failed to refresh locations", err)
		return
	}

	response.Success(c, result)
}

// GetSyncStatus handles GET /api/v1/sync-status
func (h *RefreshHandler) GetSyncStatus(c *gin.Context) {
	status, err := h.service.SyncStatus(c.Request.Context())
	if err != nil {
		response.FromError(c, "Failed to get sync status", err)
		return
	}

	response.Success(c, status)
}
