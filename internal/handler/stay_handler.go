package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/internal/service"
	"github.com/jengzang/photo-timeline/pkg/response"
)

// StayHandler handles HTTP requests for the timeline and places views
type StayHandler struct {
	service *service.StayService
}

// NewStayHandler creates a new stay handler
func NewStayHandler(service *service.StayService) *StayHandler {
	return &StayHandler{service: service}
}

// GetTimeline handles GET /api/v1/timeline
func (h *StayHandler) GetTimeline(c *gin.Context) {
	var filter models.TimelineFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	page, err := h.service.GetTimeline(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, "Failed to get timeline", err)
		return
	}

	response.Success(c, page)
}

// GetPlaces handles GET /api/v1/places
func (h *StayHandler) GetPlaces(c *gin.Context) {
	places, err := h.service.GetPlaces(c.Request.Context())
	if err != nil {
		response.FromError(c, "Failed to get places", err)
		return
	}

	response.Success(c, places)
}

// GetPlaceDetail handles GET /api/v1/place-detail
func (h *StayHandler) GetPlaceDetail(c *gin.Context) {
	var place models.PlaceFilter
	if err := c.ShouldBindQuery(&place); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	detail, err := h.service.GetPlaceDetail(c.Request.Context(), place)
	if err != nil {
		response.FromError(c, "Failed to get place detail", err)
		return
	}

	response.Success(c, detail)
}

type renameRequest struct {
	City string `json:"city" binding:"required"`
}

// RenamePlace handles PATCH /api/v1/places/:id
func (h *StayHandler) RenamePlace(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	city, err := h.service.RenameStay(c.Request.Context(), id, req.City)
	if err != nil {
		response.FromError(c, "Failed to rename place", err)
		return
	}

	response.Success(c, gin.H{"id": id, "city": city})
}

// DeletePlace handles DELETE /api/v1/places/:id
func (h *StayHandler) DeletePlace(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteStay(c.Request.Context(), id); err != nil {
		response.FromError(c, "Failed to delete place", err)
		return
	}

	response.Success(c, gin.H{"id": id})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid place ID", err)
		return 0, false
	}
	return id, true
}
