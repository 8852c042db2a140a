package handlers

import (
	"temperature_monitor/internal/logger"
	"temperature_monitor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
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
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Live updates over WebSocket (HTTP upgrade) — same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerSensorRoutes(api)
		h.registerSessionRoutes(api)
		h.registerHeaterRoutes(api)
		h.registerDiagnosticRoutes(api)
		h.registerEventRoutes(api)
	}
}

func (h *Handler) registerSensorRoutes(api *gin.RouterGroup) {
	sensors := api.Group("/sensors")
	{
		sensors.GET("", h.listSensors)
		sensors.PUT("/:id/name", h.renameSensor)
		sensors.DELETE("/:id", h.deleteSensor)
	}
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")
	{
		sessions.POST("/start", h.startSession)
		sessions.POST("/stop", h.stopSession)
		sessions.GET("/status", h.sessionStatus)
	}
}

func (h *Handler) registerHeaterRoutes(api *gin.RouterGroup) {
	heater := api.Group("/heater")
	{
		heater.GET("/status", h.heaterStatus)
		// Body example: {"target_temp": 42.5}
		heater.POST("/target", h.setTarget)
		heater.POST("/reset", h.resetSafety)
	}
}

func (h *Handler) registerDiagnosticRoutes(api *gin.RouterGroup) {
	diag := api.Group("/diagnostics")
	{
		diag.GET("/messages", h.getMessages)
		diag.DELETE("/messages", h.clearMessages)
		diag.POST("/rescan", h.requestRescan)
		diag.POST("/mock", h.setMockMode)
		diag.GET("/link", h.linkState)
	}
}

func (h *Handler) registerEventRoutes(api *gin.RouterGroup) {
	events := api.Group("/events")
	{
		events.GET("", h.getEvents)
	}
}
