package handlers

import (
	"errors"
	"io"
	"net/http"

	"incubation_tracker/internal/realtime"

	"github.com/gin-gonic/gin"
)

const (
	statusConnecting   = "connecting"
	statusDisconnected = "disconnected"
	statusSent         = "sent"

	errConnectRealtime = "failed to connect realtime feed"
	errSendCommand     = "failed to send command"
)

type connectRequest struct {
	URL string `json:"url,omitempty" example:"ws://192.168.0.50:81"`
}

type commandRequest struct {
	Command string         `json:"command" binding:"required" example:"turn"`
	Data    map[string]any `json:"data,omitempty"`
}

// @Summary      Realtime status
// @Tags         realtime
// @Produce      json
// @Success      200  {object}  service.RealtimeStatus
// @Router       /api/v1/realtime/status [get]
func (h *Handler) realtimeStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.RealtimeStatus())
}

// @Summary      Connect realtime feed
// @Description  Starts a fresh connection with a new retry budget. Without a url the one from settings is used.
// @Tags         realtime
// @Accept       json
// @Produce      json
// @Param        body  body      connectRequest  false  "Target"
// @Success      202   {object}  map[string]interface{}  "status, realtime"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/realtime/connect [post]
func (h *Handler) connectRealtime(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.ConnectRealtime(c.Request.Context(), req.URL); err != nil {
		switch {
		case errors.Is(err, realtime.ErrInvalidURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, realtime.ErrAlreadyActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errConnectRealtime, "realtime_connect_failed", err, "url", req.URL)
		}
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status":   statusConnecting,
		"realtime": h.services.RealtimeStatus(),
	})
}

// @Summary      Disconnect realtime feed
// @Description  Intentional close; no reconnect is attempted
// @Tags         realtime
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, realtime"
// @Router       /api/v1/realtime/disconnect [post]
func (h *Handler) disconnectRealtime(c *gin.Context) {
	h.services.DisconnectRealtime()
	c.JSON(http.StatusOK, gin.H{
		"status":   statusDisconnected,
		"realtime": h.services.RealtimeStatus(),
	})
}

// @Summary      Send command
// @Description  Sends {command, timestamp, ...data} to the sensor feed
// @Tags         realtime
// @Accept       json
// @Produce      json
// @Param        body  body      commandRequest  true  "Command"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/realtime/command [post]
func (h *Handler) sendRealtimeCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.SendRealtimeCommand(req.Command, req.Data); err != nil {
		if errors.Is(err, realtime.ErrNotConnected) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSendCommand, "realtime_command_failed", err, "command", req.Command)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSent})
}
