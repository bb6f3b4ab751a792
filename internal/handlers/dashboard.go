package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errGetDashboard = "failed to load dashboard"

// @Summary      Get dashboard
// @Description  Last known readings, turn status, system status and realtime connection status
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  models.DashboardSnapshot
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/dashboard [get]
func (h *Handler) getDashboard(c *gin.Context) {
	snap, err := h.services.GetSnapshot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetDashboard, "dashboard_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
