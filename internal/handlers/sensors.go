package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"temperature_monitor/internal/registry"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusRenamed = "renamed"
	statusDeleted = "deleted"

	errUnknownSensor   = "unknown sensor id"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// RenameRequest is the payload for renaming a sensor.
type RenameRequest struct {
	// New operator-visible name
	Name string `json:"name" binding:"required" example:"Kettle"`
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

// @Summary      List sensors
// @Description  All known probes with last reading, status and staleness info.
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, sensors"
// @Router       /api/v1/sensors [get]
func (h *Handler) listSensors(c *gin.Context) {
	probes := h.services.Sensors.List()
	c.JSON(http.StatusOK, gin.H{
		"count":   len(probes),
		"sensors": probes,
	})
}

// @Summary      Rename sensor
// @Tags         sensors
// @Accept       json
// @Produce      json
// @Param        id    path   string         true  "Sensor id (hex OneWire address)"
// @Param        body  body   RenameRequest  true  "New name"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/sensors/{id}/name [put]
func (h *Handler) renameSensor(c *gin.Context) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.services.Sensors.Rename(c.Request.Context(), id, req.Name); err != nil {
		if errors.Is(err, registry.ErrUnknownSensor) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUnknownSensor})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRenamed, "id": id, "name": req.Name})
}

// @Summary      Delete sensor
// @Tags         sensors
// @Produce      json
// @Param        id  path  string  true  "Sensor id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sensors/{id} [delete]
func (h *Handler) deleteSensor(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Sensors.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, registry.ErrUnknownSensor) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUnknownSensor})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to delete sensor", "sensor_delete_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted, "id": id})
}
