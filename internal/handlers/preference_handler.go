package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/services"
)

// PreferenceHandler handles user preference requests.
type PreferenceHandler struct {
	preferenceService services.PreferenceServicer
	auditService      services.AuditServicer
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(preferenceService services.PreferenceServicer, auditService services.AuditServicer) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService, auditService: auditService}
}

// UpdatePreferencesRequest represents the request payload for updating preferences.
type UpdatePreferencesRequest struct {
	AutoAdjustParentBudgets *bool `json:"auto_adjust_parent_budgets" binding:"required"`
}

// GetPreferences handles retrieving the user's preferences.
// @Summary     Get preferences
// @Description Get the authenticated user's preferences
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Preferences "User preferences"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences [get]
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	prefs, err := h.preferenceService.GetPreferences(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// UpdatePreferences handles updating the user's preferences.
// @Summary     Update preferences
// @Description Update the authenticated user's preferences
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePreferencesRequest true "Updated preferences"
// @Success     200 {object} models.Preferences "Updated preferences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences [put]
func (h *PreferenceHandler) UpdatePreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	prefs, err := h.preferenceService.UpdatePreferences(userID, *req.AutoAdjustParentBudgets)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PREFERENCES", "preferences", prefs.ID, c.ClientIP(),
		map[string]interface{}{"auto_adjust_parent_budgets": *req.AutoAdjustParentBudgets})

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
