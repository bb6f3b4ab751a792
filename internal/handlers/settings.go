package handlers

import (
	"errors"
	"net/http"

	"incubation_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errGetSettings  = "failed to load settings"
	errSaveSettings = "failed to save settings"
)

// settingsRequest is a partial update; omitted fields are kept.
type settingsRequest struct {
	AlertsEnabled        *bool    `json:"alertsEnabled,omitempty" example:"true"`
	TemperatureTolerance *float64 `json:"temperatureTolerance,omitempty" example:"0.5"`
	RealtimeURL          *string  `json:"realtimeUrl,omitempty" example:"ws://192.168.0.50:81"`
}

// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.Settings
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings [get]
func (h *Handler) getSettings(c *gin.Context) {
	st, err := h.services.GetSettings(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSettings, "settings_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Update settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      settingsRequest  true  "Fields to change"
// @Success      200   {object}  models.Settings
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/settings [put]
func (h *Handler) updateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	st, err := h.services.UpdateSettings(c.Request.Context(), service.SettingsInput{
		AlertsEnabled:        req.AlertsEnabled,
		TemperatureTolerance: req.TemperatureTolerance,
		RealtimeURL:          req.RealtimeURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidSettings) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveSettings, "settings_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
