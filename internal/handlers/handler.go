package handlers

import (
	"net/http"

	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	statusOK = "ok"

	errInvalidBodyPref = "invalid body: "
	errInvalidID       = "invalid id"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Dashboard stream for browser clients, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerBatchRoutes(api)
		h.registerReminderRoutes(api)
		h.registerSettingsRoutes(api)
		h.registerNotificationRoutes(api)
		h.registerDashboardRoutes(api)
		h.registerRealtimeRoutes(api)
	}
}

func (h *Handler) registerBatchRoutes(api *gin.RouterGroup) {
	batches := api.Group("/batches")
	{
		batches.GET("", h.listBatches)
		batches.POST("", h.createBatch)
		batches.GET("/:id", h.idParam, h.getBatch)
		batches.PUT("/:id", h.idParam, h.updateBatch)
		batches.DELETE("/:id", h.idParam, h.deleteBatch)
	}
}

func (h *Handler) registerReminderRoutes(api *gin.RouterGroup) {
	reminders := api.Group("/reminders")
	{
		// ?filter=all|pending|completed
		reminders.GET("", h.listReminders)
		reminders.POST("", h.createReminder)
		reminders.POST("/:id/toggle", h.idParam, h.toggleReminder)
		reminders.DELETE("/:id", h.idParam, h.deleteReminder)
	}
}

func (h *Handler) registerSettingsRoutes(api *gin.RouterGroup) {
	api.GET("/settings", h.getSettings)
	api.PUT("/settings", h.updateSettings)
}

func (h *Handler) registerNotificationRoutes(api *gin.RouterGroup) {
	api.GET("/notifications", h.listNotifications)
}

func (h *Handler) registerDashboardRoutes(api *gin.RouterGroup) {
	api.GET("/dashboard", h.getDashboard)
}

func (h *Handler) registerRealtimeRoutes(api *gin.RouterGroup) {
	rt := api.Group("/realtime")
	{
		rt.GET("/status", h.realtimeStatus)
		// Body example: {"url":"ws://192.168.0.50:81"}; empty body uses settings
		rt.POST("/connect", h.connectRealtime)
		rt.POST("/disconnect", h.disconnectRealtime)
		// Body example: {"command":"turn","data":{"angle":45}}
		rt.POST("/command", h.sendRealtimeCommand)
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
