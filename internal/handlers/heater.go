package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusTargetSet   = "target_set"
	statusSafetyReset = "safety_reset"

	errHeaterUnavailable = "heater controller has not published a status yet"
)

// TargetRequest is the payload for setting the heater setpoint.
type TargetRequest struct {
	// Desired temperature in Celsius, bounded by the controller's safe range
	TargetTemp *float64 `json:"target_temp" binding:"required" example:"42.5"`
}

// @Summary      Heater status
// @Description  Last cycle published by the controller process: temperature, relay, setpoint, faults.
// @Tags         heater
// @Produce      json
// @Success      200  {object}  models.ControllerStatus
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/heater/status [get]
func (h *Handler) heaterStatus(c *gin.Context) {
	st, ok := h.services.Heater.Status()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errHeaterUnavailable})
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Set heater target
// @Tags         heater
// @Accept       json
// @Produce      json
// @Param        body  body  TargetRequest  true  "Setpoint payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/heater/target [post]
func (h *Handler) setTarget(c *gin.Context) {
	var req TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Heater.SetTarget(c.Request.Context(), *req.TargetTemp); err != nil {
		// Range violations read as bad requests; publish failures as internal.
		if h.log != nil {
			h.log.Errorw("heater_set_target_failed", "err", err, "target", *req.TargetTemp)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusTargetSet, "target_temp": *req.TargetTemp})
}

// @Summary      Acknowledge safety stop
// @Description  Clears an overheat latch. The controller resumes only after this acknowledgment.
// @Tags         heater
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/heater/reset [post]
func (h *Handler) resetSafety(c *gin.Context) {
	if err := h.services.Heater.ResetSafety(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to acknowledge safety stop", "heater_reset_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSafetyReset})
}
