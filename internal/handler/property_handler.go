package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/portalhomehub/portal-backend/internal/common"
	"github.com/portalhomehub/portal-backend/internal/domain"
	"github.com/portalhomehub/portal-backend/internal/middleware"
	"github.com/portalhomehub/portal-backend/internal/service"
)

// PropertyHandler handles the public listing surface and admin moderation
type PropertyHandler struct {
	properties service.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(properties service.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// List handles GET /api/v1/properties
// @Summary List approved listings
// @Tags properties
// @Produce json
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} service.ListingsPage
// @Failure 500 {object} common.FailureBody
// @Router /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.properties.ListApproved(page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list properties", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"properties": result.Properties,
		"meta":       result.Meta,
	})
}

// Get handles GET /api/v1/properties/:id
// @Summary Get one listing
// @Description Approved listings are public; pending and rejected rows are visible only to the owner or an administrator.
// @Tags properties
// @Produce json
// @Param id path int true "property ID"
// @Success 200 {object} domain.Property
// @Failure 404 {object} common.FailureBody
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid property ID", err)
		return
	}

	viewer := service.Viewer{
		UserID: middleware.GetUserID(c),
		Role:   middleware.GetUserRole(c),
	}

	property, err := h.properties.Get(id, viewer)
	if err != nil {
		if errors.Is(err, common.ErrPropertyNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Property not found", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load property", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"property": property,
	})
}

// UpdateStatus handles PUT /api/v1/properties/:id/status
// @Summary Approve or reject a listing
// @Tags properties
// @Accept json
// @Produce json
// @Param id path int true "property ID"
// @Param request body domain.UpdatePropertyStatusRequest true "new status"
// @Success 200 {object} common.FailureBody
// @Failure 401 {object} common.FailureBody
// @Failure 403 {object} common.FailureBody
// @Failure 404 {object} common.FailureBody
// @Security BearerAuth
// @Router /properties/{id}/status [put]
func (h *PropertyHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid property ID", err)
		return
	}

	var req domain.UpdatePropertyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.properties.Moderate(id, req.Status, middleware.GetUserRole(c)); err != nil {
		switch {
		case errors.Is(err, common.ErrForbidden):
			common.ErrorResponse(c, http.StatusForbidden, "Administrator role required", nil)
		case errors.Is(err, common.ErrInvalidInput):
			common.ErrorResponse(c, http.StatusBadRequest, "Status must be approved or rejected", nil)
		case errors.Is(err, common.ErrPropertyNotFound):
			common.ErrorResponse(c, http.StatusNotFound, "Property not found", nil)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update property status", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Property status updated",
	})
}
