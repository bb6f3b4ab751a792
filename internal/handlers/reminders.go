package handlers

import (
	"errors"
	"net/http"
	"time"

	"incubation_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errListReminders   = "failed to load reminders"
	errSaveReminder    = "failed to save reminder"
	errReminderMissing = "reminder not found"
)

type reminderRequest struct {
	Title       string    `json:"title" binding:"required" example:"Candling"`
	Description string    `json:"description,omitempty" example:"Check fertility of batch 1"`
	BatchID     int       `json:"batchId,omitempty" example:"1"`
	DueAt       time.Time `json:"dueAt" binding:"required" example:"2026-01-08T09:00:00Z"`
}

func (h *Handler) reminderError(c *gin.Context, err error, logKey string) {
	switch {
	case errors.Is(err, service.ErrReminderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errReminderMissing})
	case errors.Is(err, service.ErrInvalidReminder), errors.Is(err, service.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveReminder, logKey, err)
	}
}

// @Summary      List reminders
// @Description  Ordered by due time
// @Tags         reminders
// @Produce      json
// @Param        filter  query     string  false  "Completion filter"  Enums(all,pending,completed)
// @Success      200     {object}  map[string]interface{}  "count, reminders"
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/reminders [get]
func (h *Handler) listReminders(c *gin.Context) {
	filter := c.Query("filter")
	reminders, err := h.services.ListReminders(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListReminders, "reminders_list_failed", err, "filter", filter)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(reminders),
		"reminders": reminders,
	})
}

// @Summary      Create reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Param        body  body      reminderRequest  true  "Reminder payload"
// @Success      201   {object}  models.Reminder
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/reminders [post]
func (h *Handler) createReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	r, err := h.services.CreateReminder(c.Request.Context(), service.ReminderInput{
		Title:       req.Title,
		Description: req.Description,
		BatchID:     req.BatchID,
		DueAt:       req.DueAt,
	})
	if err != nil {
		h.reminderError(c, err, "reminder_create_failed")
		return
	}
	c.JSON(http.StatusCreated, r)
}

// @Summary      Toggle reminder
// @Description  Flips the completed flag
// @Tags         reminders
// @Produce      json
// @Param        id   path      int  true  "Reminder id"
// @Success      200  {object}  models.Reminder
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/reminders/{id}/toggle [post]
func (h *Handler) toggleReminder(c *gin.Context) {
	r, err := h.services.ToggleReminder(c.Request.Context(), c.GetInt(ctxKeyID))
	if err != nil {
		h.reminderError(c, err, "reminder_toggle_failed")
		return
	}
	c.JSON(http.StatusOK, r)
}

// @Summary      Delete reminder
// @Tags         reminders
// @Param        id  path  int  true  "Reminder id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/reminders/{id} [delete]
func (h *Handler) deleteReminder(c *gin.Context) {
	if err := h.services.DeleteReminder(c.Request.Context(), c.GetInt(ctxKeyID)); err != nil {
		h.reminderError(c, err, "reminder_delete_failed")
		return
	}
	c.Status(http.StatusNoContent)
}
