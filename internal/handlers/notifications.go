package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"incubation_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid       = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid         = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListNotifications = "failed to load notifications"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List notifications
// @Description  Filter the notification log by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and kind. A date-only 'to' covers that whole day.
// @Tags         notifications
// @Produce      json
// @Param        from  query     string  false  "Start of range"  example(2026-01-01)
// @Param        to    query     string  false  "End of range. Date-only treated as end of day."  example(2026-01-31)
// @Param        kind  query     string  false  "Notification kind"  Enums(success,warning,error)
// @Success      200   {object}  map[string]interface{}  "count, notifications"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/notifications [get]
func (h *Handler) listNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from time.Time
		to   time.Time
		kind = c.Query("kind")
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	notes, err := h.services.ListNotifications(ctx, service.NotificationFilter{
		From: from,
		To:   to,
		Kind: kind,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) || errors.Is(err, service.ErrInvalidKind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListNotifications, "notifications_list_failed", err,
			"from", from, "to", to, "kind", kind)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(notes),
		"notifications": notes,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2026-01-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
