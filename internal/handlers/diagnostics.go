package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"temperature_monitor/internal/ingest"
)

const (
	statusCleared         = "cleared"
	statusRescanRequested = "rescan_requested"
	statusMockModeSet     = "mock_mode_set"
)

// MockModeRequest toggles the synthetic serial source.
type MockModeRequest struct {
	Enabled *bool `json:"enabled" binding:"required" example:"true"`
}

// @Summary      Serial monitor messages
// @Description  Bounded buffer of recent non-reading serial traffic, newest last.
// @Tags         diagnostics
// @Produce      json
// @Param        severity  query  string  false  "Filter"  Enums(info,warning,error)
// @Success      200  {object}  map[string]interface{}  "count, messages"
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/diagnostics/messages [get]
func (h *Handler) getMessages(c *gin.Context) {
	msgs, err := h.services.Diagnostics.Messages(c.Query("severity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(msgs),
		"messages": msgs,
	})
}

// @Summary      Clear serial monitor
// @Tags         diagnostics
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/diagnostics/messages [delete]
func (h *Handler) clearMessages(c *gin.Context) {
	h.services.Diagnostics.Clear()
	c.JSON(http.StatusOK, gin.H{"status": statusCleared})
}

// @Summary      Request probe rescan
// @Description  Sends the bus re-enumeration command over the serial link.
// @Tags         diagnostics
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string  "serial link is down"
// @Router       /api/v1/diagnostics/rescan [post]
func (h *Handler) requestRescan(c *gin.Context) {
	if err := h.services.Diagnostics.RequestRescan(c.Request.Context()); err != nil {
		if errors.Is(err, ingest.ErrNotConnected) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to request rescan", "rescan_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRescanRequested})
}

// @Summary      Toggle mock mode
// @Description  Switches ingestion between the real serial device and a synthetic source.
// @Tags         diagnostics
// @Accept       json
// @Produce      json
// @Param        body  body  MockModeRequest  true  "Mode payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/diagnostics/mock [post]
func (h *Handler) setMockMode(c *gin.Context) {
	var req MockModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Diagnostics.SetMockMode(c.Request.Context(), *req.Enabled); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to switch mock mode", "mock_mode_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusMockModeSet, "enabled": *req.Enabled})
}

// @Summary      Serial link state
// @Tags         diagnostics
// @Produce      json
// @Success      200  {object}  service.LinkState
// @Router       /api/v1/diagnostics/link [get]
func (h *Handler) linkState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Diagnostics.LinkState())
}
