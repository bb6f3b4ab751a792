package handlers

import (
	"errors"
	"net/http"

	"incubation_tracker/internal/models"
	"incubation_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errListBatches  = "failed to load batches"
	errSaveBatch    = "failed to save batch"
	errBatchMissing = "batch not found"
)

// batchRequest is the create/update payload.
type batchRequest struct {
	BirdType  string           `json:"birdType" binding:"required" example:"chicken"`
	StartDate string           `json:"startDate" binding:"required" example:"2026-01-01"`
	EggCount  int              `json:"eggCount" binding:"required,gt=0" example:"12"`
	Incubator models.Incubator `json:"incubator" swaggertype:"string" example:"A"` // string or number
	Notes     string           `json:"notes,omitempty"`
}

func (r batchRequest) toInput() service.BatchInput {
	return service.BatchInput{
		BirdType:  r.BirdType,
		StartDate: r.StartDate,
		EggCount:  r.EggCount,
		Incubator: string(r.Incubator),
		Notes:     r.Notes,
	}
}

// batchError maps service errors onto HTTP codes.
func (h *Handler) batchError(c *gin.Context, err error, logKey string) {
	switch {
	case errors.Is(err, service.ErrBatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errBatchMissing})
	case errors.Is(err, service.ErrInvalidBatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveBatch, logKey, err)
	}
}

// @Summary      List batches
// @Description  Every batch with its derived status, hatch date and progress
// @Tags         batches
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, batches"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/batches [get]
func (h *Handler) listBatches(c *gin.Context) {
	batches, err := h.services.ListBatches(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListBatches, "batches_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(batches),
		"batches": batches,
	})
}

// @Summary      Get batch
// @Tags         batches
// @Produce      json
// @Param        id   path      int  true  "Batch id"
// @Success      200  {object}  service.BatchView
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/batches/{id} [get]
func (h *Handler) getBatch(c *gin.Context) {
	id := c.GetInt(ctxKeyID)
	b, err := h.services.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.batchError(c, err, "batch_get_failed")
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Create batch
// @Description  Id is assigned as max(id)+1
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        body  body      batchRequest  true  "Batch payload"
// @Success      201   {object}  service.BatchView
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/batches [post]
func (h *Handler) createBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	b, err := h.services.CreateBatch(c.Request.Context(), req.toInput())
	if err != nil {
		h.batchError(c, err, "batch_create_failed")
		return
	}
	c.JSON(http.StatusCreated, b)
}

// @Summary      Update batch
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Batch id"
// @Param        body  body      batchRequest  true  "Batch payload"
// @Success      200   {object}  service.BatchView
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/batches/{id} [put]
func (h *Handler) updateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	b, err := h.services.UpdateBatch(c.Request.Context(), c.GetInt(ctxKeyID), req.toInput())
	if err != nil {
		h.batchError(c, err, "batch_update_failed")
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Delete batch
// @Tags         batches
// @Param        id  path  int  true  "Batch id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/batches/{id} [delete]
func (h *Handler) deleteBatch(c *gin.Context) {
	if err := h.services.DeleteBatch(c.Request.Context(), c.GetInt(ctxKeyID)); err != nil {
		h.batchError(c, err, "batch_delete_failed")
		return
	}
	c.Status(http.StatusNoContent)
}
