package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/internal/service"
	"github.com/jengzang/photo-timeline/pkg/response"
)

// SettingsHandler handles HTTP requests for user settings
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		response.FromError(c, "Failed to get settings", err)
		return
	}

	response.Success(c, settings)
}

// UpdateSettings handles POST /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var update models.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), update)
	if err != nil {
		response.FromError(c, "Failed to update settings", err)
		return
	}

	response.Success(c, settings)
}

// ListStates handles GET /api/v1/locations/states
func (h *SettingsHandler) ListStates(c *gin.Context) {
	states, err := h.service.ListStates(c.Request.Context())
	if err != nil {
		response.FromError(c, "Failed to list states", err)
		return
	}

	response.Success(c, states)
}
