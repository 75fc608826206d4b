package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portalhomehub/portal-backend/internal/common"
	"github.com/portalhomehub/portal-backend/internal/domain"
	"github.com/portalhomehub/portal-backend/internal/middleware"
	"github.com/portalhomehub/portal-backend/internal/service"
)

// DraftHandler handles draft autosave requests
type DraftHandler struct {
	drafts  service.DraftService
	publish service.PublishService
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts service.DraftService, publish service.PublishService) *DraftHandler {
	return &DraftHandler{drafts: drafts, publish: publish}
}

// Save handles POST /api/v1/drafts
// @Summary Create or update a draft
// @Description Saves an in-progress listing. Re-saves of the same logical submission are routed into the existing draft row.
// @Tags drafts
// @Accept json
// @Produce json
// @Param request body domain.SaveDraftRequest true "draft body"
// @Success 200 {object} domain.SaveDraftResponse
// @Failure 401 {object} common.FailureBody
// @Failure 500 {object} common.FailureBody
// @Security BearerAuth
// @Router /drafts [post]
func (h *DraftHandler) Save(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req domain.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.drafts.Save(userID, &req)
	if err != nil {
		if errors.Is(err, common.ErrDraftNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Draft not found", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to save draft", err)
		return
	}

	message := "Draft updated"
	outcome := "deduplicated"
	switch {
	case result.Created:
		message = "Draft saved"
		outcome = "created"
	case result.Explicit:
		// Routed by an explicit draft_id, not by the suppression policy.
		outcome = "updated"
	}
	middleware.CountDraftSave(outcome)

	c.JSON(http.StatusOK, domain.SaveDraftResponse{
		Success: true,
		DraftID: result.DraftID,
		Message: message,
	})
}

// List handles GET /api/v1/drafts
// @Summary List drafts
// @Description Returns the caller's non-expired drafts, most recently saved first.
// @Tags drafts
// @Produce json
// @Success 200 {object} domain.DraftListResponse
// @Failure 401 {object} common.FailureBody
// @Failure 500 {object} common.FailureBody
// @Security BearerAuth
// @Router /drafts [get]
func (h *DraftHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	items, err := h.drafts.List(userID)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list drafts", err)
		return
	}
	if items == nil {
		items = []domain.DraftListItem{}
	}

	c.JSON(http.StatusOK, domain.DraftListResponse{
		Success: true,
		Drafts:  items,
	})
}

// Load handles GET /api/v1/drafts/:id
// @Summary Load one draft
// @Description Returns the draft flattened for the editor form. Expired drafts answer 410.
// @Tags drafts
// @Produce json
// @Param id path string true "draft ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} common.FailureBody
// @Failure 404 {object} common.FailureBody
// @Failure 410 {object} common.FailureBody
// @Security BearerAuth
// @Router /drafts/{id} [get]
func (h *DraftHandler) Load(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	draft, err := h.drafts.Load(c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDraftNotFound):
			common.ErrorResponse(c, http.StatusNotFound, "Draft not found", nil)
		case errors.Is(err, common.ErrDraftExpired):
			common.ErrorResponse(c, http.StatusGone, "Draft has expired", nil)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load draft", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"draft":   draft,
	})
}

// Autosave handles PUT /api/v1/drafts/:id
// @Summary Update a draft in place
// @Description Explicit autosave of a known draft row.
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "draft ID"
// @Param request body domain.AutosaveRequest true "draft body"
// @Success 200 {object} domain.AutosaveResponse
// @Failure 401 {object} common.FailureBody
// @Failure 404 {object} common.FailureBody
// @Failure 500 {object} common.FailureBody
// @Security BearerAuth
// @Router /drafts/{id} [put]
func (h *DraftHandler) Autosave(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req domain.AutosaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.drafts.Autosave(c.Param("id"), userID, &req)
	if err != nil {
		if errors.Is(err, common.ErrDraftNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Draft not found", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to save draft", err)
		return
	}
	middleware.CountDraftSave("updated")

	c.JSON(http.StatusOK, domain.AutosaveResponse{
		Success:   true,
		DraftID:   result.DraftID,
		UpdatedAt: result.UpdatedAt,
		SaveCount: result.SaveCount,
		Message:   "Draft saved",
	})
}

// Delete handles DELETE /api/v1/drafts/:id
// @Summary Delete a draft
// @Tags drafts
// @Produce json
// @Param id path string true "draft ID"
// @Success 200 {object} domain.DeleteDraftResponse
// @Failure 401 {object} common.FailureBody
// @Failure 500 {object} common.FailureBody
// @Security BearerAuth
// @Router /drafts/{id} [delete]
func (h *DraftHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.drafts.Delete(c.Param("id"), userID); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete draft", err)
		return
	}

	c.JSON(http.StatusOK, domain.DeleteDraftResponse{
		Success: true,
		Message: "Draft deleted",
	})
}

// Publish handles POST /api/v1/drafts/:id/publish
// @Summary Promote a draft to a property listing
// @Description Creates the property, attaches media rows and retires the draft. Admin-tier owners go live immediately, everyone else lands in review.
// @Tags drafts
// @Produce json
// @Param id path string true "draft ID"
// @Success 200 {object} domain.PublishResponse
// @Failure 401 {object} common.FailureBody
// @Failure 403 {object} common.FailureBody
// @Failure 404 {object} common.FailureBody
// @Failure 410 {object} common.FailureBody
// @Failure 500 {object} common.FailureBody
// @Security BearerAuth
// @Router /drafts/{id}/publish [post]
func (h *DraftHandler) Publish(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	caller := service.Caller{
		UserID: userID,
		Email:  middleware.GetUserEmail(c),
		Role:   middleware.GetUserRole(c),
	}

	result, err := h.publish.Publish(caller, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrForbidden):
			common.ErrorResponse(c, http.StatusForbidden, "Your account is not allowed to publish listings", nil)
		case errors.Is(err, common.ErrDraftNotFound):
			common.ErrorResponse(c, http.StatusNotFound, "Draft not found", nil)
		case errors.Is(err, common.ErrUserNotFound):
			common.ErrorResponse(c, http.StatusNotFound, "Draft owner profile not found", nil)
		case errors.Is(err, common.ErrDraftExpired):
			common.ErrorResponse(c, http.StatusGone, "Draft has expired and can no longer be published", nil)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to publish draft", err)
		}
		return
	}
	middleware.CountPublish(string(result.Status))

	c.JSON(http.StatusOK, domain.PublishResponse{
		Success:    true,
		PropertyID: result.PropertyID,
		Status:     result.Status,
		Message:    result.Message,
	})
}
